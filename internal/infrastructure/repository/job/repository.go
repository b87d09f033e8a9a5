package job

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "clipvive/services/intake-api/internal/domain/job"
	"clipvive/services/intake-api/internal/infrastructure/database/entities"
)

// Repository handles job registry persistence. Deletion is soft only: rows
// are never removed, their status flips to deleted.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, j *domain.Job) error {
	entity := entities.Job{
		JobID:       j.JobID,
		OwnerID:     j.OwnerID,
		Filename:    j.Filename,
		SizeBytes:   j.SizeBytes,
		Status:      j.Status.String(),
		ProcessedAt: j.ProcessedAt,
	}
	err := r.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateJob
		}
		return fmt.Errorf("create job: %w", err)
	}
	j.CreatedAt = entity.CreatedAt
	return nil
}

func (r *Repository) Update(ctx context.Context, jobID string, fields domain.UpdateFields) error {
	updates := map[string]interface{}{}
	if fields.Status != nil {
		updates["status"] = fields.Status.String()
	}
	if fields.SizeBytes != nil {
		updates["size_bytes"] = *fields.SizeBytes
	}
	if fields.Filename != nil {
		updates["filename"] = *fields.Filename
	}
	if fields.ProcessedAt != nil {
		updates["processed_at"] = *fields.ProcessedAt
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("job_id = ?", jobID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	var entity entities.Job
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("get job by id: %w", err)
	}
	j := mapEntity(entity)
	return &j, nil
}

// ListByOwner returns the owner's jobs in creation order, soft-deleted rows
// included. Insertion order is meaningful to the caller for display.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uint64) ([]*domain.Job, error) {
	var rows []entities.Job
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list jobs by owner: %w", err)
	}
	return mapEntities(rows), nil
}

func (r *Repository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Job, error) {
	var rows []entities.Job
	err := r.db.WithContext(ctx).
		Where("status = ?", status.String()).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list jobs by status: %w", err)
	}
	return mapEntities(rows), nil
}

func mapEntities(rows []entities.Job) []*domain.Job {
	jobs := make([]*domain.Job, 0, len(rows))
	for _, row := range rows {
		j := mapEntity(row)
		jobs = append(jobs, &j)
	}
	return jobs
}

func mapEntity(entity entities.Job) domain.Job {
	return domain.Job{
		JobID:       entity.JobID,
		OwnerID:     entity.OwnerID,
		Filename:    entity.Filename,
		SizeBytes:   entity.SizeBytes,
		Status:      domain.Status(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}
