package user

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"clipvive/services/intake-api/internal/infrastructure/metrics"
)

// DefaultPlan is the tier assigned at registration and the fallback for
// unrecognized plan values.
const DefaultPlan = "free"

// Service defines the interface for account and quota business logic.
type Service interface {
	Register(ctx context.Context, email, password string) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	Get(ctx context.Context, id uint64) (*User, error)
	Storage(ctx context.Context, id uint64) (*StorageSummary, error)
	QuotaFor(plan string) int64

	// Usage ledger / quota guard
	Admit(ctx context.Context, ownerID uint64, estimate int64) error
	Apply(ctx context.Context, ownerID uint64, delta int64) error
	Release(ctx context.Context, ownerID uint64, delta int64) error
}

// DefaultService implements the Service interface.
type DefaultService struct {
	quotas map[string]int64
	repo   Repository
	log    zerolog.Logger
}

// NewService creates a new user service. quotas maps plan names to byte
// ceilings; lookups for unknown plans fall back to the free tier.
func NewService(quotas map[string]int64, repo Repository, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		quotas: quotas,
		repo:   repo,
		log:    log.With().Str("component", "user-service").Logger(),
	}
}

// Register creates an account on the free plan.
func (s *DefaultService) Register(ctx context.Context, email, password string) (*User, error) {
	u := &User{
		Email:          strings.ToLower(strings.TrimSpace(email)),
		HashedPassword: hashPassword(password),
		Plan:           DefaultPlan,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies the credentials and returns the account.
func (s *DefaultService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if u.HashedPassword != hashPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns the account by id.
func (s *DefaultService) Get(ctx context.Context, id uint64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// Storage returns the owner's current usage against their plan quota.
func (s *DefaultService) Storage(ctx context.Context, id uint64) (*StorageSummary, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	plan := u.Plan
	if _, ok := s.quotas[plan]; !ok {
		plan = DefaultPlan
	}
	return &StorageSummary{
		UsedBytes:  u.StorageUsedBytes,
		QuotaBytes: s.QuotaFor(plan),
		Plan:       plan,
	}, nil
}

// QuotaFor returns the byte ceiling for a plan, falling back to the free tier
// for unrecognized values.
func (s *DefaultService) QuotaFor(plan string) int64 {
	if quota, ok := s.quotas[plan]; ok {
		return quota
	}
	return s.quotas[DefaultPlan]
}

// Admit decides whether an owner's projected usage after the incoming payload
// stays within quota. This is advisory, not a reservation: concurrent intakes
// can both pass and jointly overshoot. A ledger lookup failure blocks rather
// than silently allowing.
func (s *DefaultService) Admit(ctx context.Context, ownerID uint64, estimate int64) error {
	u, err := s.repo.FindByID(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	if u.StorageUsedBytes+estimate > s.QuotaFor(u.Plan) {
		metrics.QuotaDenialsTotal.Inc()
		return ErrQuotaExceeded
	}
	return nil
}

// Apply adds delta bytes to the owner's running total.
func (s *DefaultService) Apply(ctx context.Context, ownerID uint64, delta int64) error {
	if err := s.repo.IncrementStorage(ctx, ownerID, delta); err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	return nil
}

// Release subtracts delta bytes from the owner's running total, floor-clamped
// at zero by the repository.
func (s *DefaultService) Release(ctx context.Context, ownerID uint64, delta int64) error {
	if err := s.repo.DecrementStorage(ctx, ownerID, delta); err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	return nil
}

// hashPassword is the development credential scheme. Authentication is not a
// design target of this service; swap for a real KDF before exposing it.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
