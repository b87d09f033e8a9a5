package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "clipvive/services/intake-api/internal/domain/user"
	"clipvive/services/intake-api/internal/infrastructure/database/entities"
)

// Repository handles account persistence and the usage ledger.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, u *domain.User) error {
	entity := entities.User{
		Email:            u.Email,
		HashedPassword:   u.HashedPassword,
		Plan:             u.Plan,
		StorageUsedBytes: u.StorageUsedBytes,
	}
	err := r.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	u.ID = entity.ID
	u.CreatedAt = entity.CreatedAt
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	var entity entities.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	u := mapEntity(entity)
	return &u, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var entity entities.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	u := mapEntity(entity)
	return &u, nil
}

// IncrementStorage adds delta to the owner's counter in a single atomic
// update expression. Two round trips (read then write) would lose updates
// under concurrent intake and cleanup.
func (r *Repository) IncrementStorage(ctx context.Context, id uint64, delta int64) error {
	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		UpdateColumn("storage_used_bytes", gorm.Expr("storage_used_bytes + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("increment storage: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DecrementStorage subtracts delta from the owner's counter, floor-clamped at
// zero so repeated reversals never drive the ledger negative.
func (r *Repository) DecrementStorage(ctx context.Context, id uint64, delta int64) error {
	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		UpdateColumn("storage_used_bytes", gorm.Expr("GREATEST(storage_used_bytes - ?, 0)", delta))
	if result.Error != nil {
		return fmt.Errorf("decrement storage: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func mapEntity(entity entities.User) domain.User {
	return domain.User{
		ID:               entity.ID,
		Email:            entity.Email,
		HashedPassword:   entity.HashedPassword,
		Plan:             entity.Plan,
		StorageUsedBytes: entity.StorageUsedBytes,
		CreatedAt:        entity.CreatedAt,
	}
}
