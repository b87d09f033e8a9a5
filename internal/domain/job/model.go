// Package job defines the job registry and the intake orchestration service.
package job

import (
	"context"
	"errors"
	"time"
)

// Job represents one accepted payload and its lifecycle record.
type Job struct {
	JobID       string     `json:"job_id"`
	OwnerID     *uint64    `json:"owner_id,omitempty"`
	Filename    string     `json:"filename,omitempty"`
	SizeBytes   int64      `json:"size_bytes"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

var (
	// ErrDuplicateJob indicates a registry create was called twice for one id.
	ErrDuplicateJob = errors.New("duplicate job id")
	// ErrJobNotFound indicates the job does not exist or is not visible to the caller.
	ErrJobNotFound = errors.New("job not found")
	// ErrStorageWrite indicates the payload could not be durably written.
	ErrStorageWrite = errors.New("storage write failed")
)

// UpdateFields carries the mutable job fields. Nil pointers are left untouched.
type UpdateFields struct {
	Status      *Status
	SizeBytes   *int64
	Filename    *string
	ProcessedAt *time.Time
}

// Repository defines job registry persistence.
type Repository interface {
	Create(ctx context.Context, j *Job) error
	Update(ctx context.Context, jobID string, fields UpdateFields) error
	GetByID(ctx context.Context, jobID string) (*Job, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]*Job, error)
	ListByStatus(ctx context.Context, status Status) ([]*Job, error)
}

// SaveResult reports where a payload landed and its durable size.
type SaveResult struct {
	Filename  string
	SizeBytes int64
}

// PayloadStore defines the durable payload storage operations the service needs.
type PayloadStore interface {
	Save(ctx context.Context, jobID string, payload []byte) (SaveResult, error)
	Stat(ctx context.Context, filename string) (size int64, modTime time.Time, err error)
	Remove(ctx context.Context, filename string) error
}

// UploadResult reports the outcome of a best-effort remote upload.
type UploadResult struct {
	Uploaded bool   `json:"uploaded"`
	URL      string `json:"url,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// RemoteStore defines the optional remote object sink. Upload never returns an
// error: the result carries its own success/failure signal.
type RemoteStore interface {
	Upload(ctx context.Context, localName string, objectName string) UploadResult
}

// Ledger defines the per-owner usage accounting the intake path depends on.
type Ledger interface {
	Admit(ctx context.Context, ownerID uint64, estimate int64) error
	Apply(ctx context.Context, ownerID uint64, delta int64) error
	Release(ctx context.Context, ownerID uint64, delta int64) error
}
