// Package user defines accounts, the usage ledger and the quota guard.
package user

import (
	"context"
	"errors"
	"time"
)

// User represents an account with a plan tier and a running storage counter.
type User struct {
	ID               uint64    `json:"id"`
	Email            string    `json:"email"`
	HashedPassword   string    `json:"-"`
	Plan             string    `json:"plan"`
	StorageUsedBytes int64     `json:"storage_used_bytes"`
	CreatedAt        time.Time `json:"created_at"`
}

// StorageSummary reports an owner's usage against their plan quota.
type StorageSummary struct {
	UsedBytes  int64  `json:"used_bytes"`
	QuotaBytes int64  `json:"quota_bytes"`
	Plan       string `json:"plan"`
}

var (
	// ErrQuotaExceeded is the expected, user-facing admission denial.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrLedgerUnavailable indicates the backing store could not be reached.
	ErrLedgerUnavailable = errors.New("usage ledger unavailable")
	// ErrUserNotFound indicates no account matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken indicates a registration for an existing email.
	ErrEmailTaken = errors.New("user exists")
	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Repository defines account persistence and the atomic ledger mutations.
// IncrementStorage and DecrementStorage must be applied as single atomic
// update expressions: concurrent intake and cleanup race on the same counter.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	IncrementStorage(ctx context.Context, id uint64, delta int64) error
	DecrementStorage(ctx context.Context, id uint64, delta int64) error
}
