package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"clipvive/services/intake-api/internal/domain/user"
)

type fakeRepository struct {
	users      map[uint64]*user.User
	byEmail    map[string]*user.User
	nextID     uint64
	findErr    error
	counterErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:   map[uint64]*user.User{},
		byEmail: map[string]*user.User{},
		nextID:  1,
	}
}

func (f *fakeRepository) add(u *user.User) *user.User {
	u.ID = f.nextID
	f.nextID++
	f.users[u.ID] = u
	f.byEmail[u.Email] = u
	return u
}

func (f *fakeRepository) Create(ctx context.Context, u *user.User) error {
	if _, exists := f.byEmail[u.Email]; exists {
		return user.ErrEmailTaken
	}
	f.add(u)
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uint64) (*user.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepository) IncrementStorage(ctx context.Context, id uint64, delta int64) error {
	if f.counterErr != nil {
		return f.counterErr
	}
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.StorageUsedBytes += delta
	return nil
}

func (f *fakeRepository) DecrementStorage(ctx context.Context, id uint64, delta int64) error {
	if f.counterErr != nil {
		return f.counterErr
	}
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.StorageUsedBytes -= delta
	if u.StorageUsedBytes < 0 {
		u.StorageUsedBytes = 0
	}
	return nil
}

var testQuotas = map[string]int64{
	"free":  1000,
	"basic": 10000,
}

func TestService_Admit(t *testing.T) {
	tests := []struct {
		name      string
		plan      string
		used      int64
		estimate  int64
		expectErr error
	}{
		{"estimate within quota is admitted", "free", 900, 50, nil},
		{"estimate exceeding quota is denied", "free", 900, 150, user.ErrQuotaExceeded},
		{"exact fit is admitted", "free", 900, 100, nil},
		{"unknown plan falls back to free", "enterprise", 900, 150, user.ErrQuotaExceeded},
		{"larger plan admits the same estimate", "basic", 900, 150, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			u := repo.add(&user.User{Email: "owner@example.com", Plan: tt.plan, StorageUsedBytes: tt.used})
			service := user.NewService(testQuotas, repo, zerolog.Nop())

			err := service.Admit(context.Background(), u.ID, tt.estimate)
			if !errors.Is(err, tt.expectErr) {
				t.Errorf("Admit() error = %v, want %v", err, tt.expectErr)
			}
		})
	}
}

func TestService_Admit_CommittedUsageTightensTheNextCheck(t *testing.T) {
	repo := newFakeRepository()
	u := repo.add(&user.User{Email: "owner@example.com", Plan: "free", StorageUsedBytes: 900})
	service := user.NewService(testQuotas, repo, zerolog.Nop())

	if err := service.Admit(context.Background(), u.ID, 50); err != nil {
		t.Fatalf("first Admit() unexpected error: %v", err)
	}
	if err := service.Apply(context.Background(), u.ID, 50); err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}
	if err := service.Admit(context.Background(), u.ID, 60); !errors.Is(err, user.ErrQuotaExceeded) {
		t.Errorf("Admit() after commit error = %v, want ErrQuotaExceeded", err)
	}
}

func TestService_Admit_LedgerUnavailableBlocks(t *testing.T) {
	repo := newFakeRepository()
	repo.findErr = errors.New("connection refused")
	service := user.NewService(testQuotas, repo, zerolog.Nop())

	err := service.Admit(context.Background(), 1, 10)
	if !errors.Is(err, user.ErrLedgerUnavailable) {
		t.Errorf("Admit() error = %v, want ErrLedgerUnavailable", err)
	}
}

func TestService_Release_NeverGoesNegative(t *testing.T) {
	repo := newFakeRepository()
	u := repo.add(&user.User{Email: "owner@example.com", Plan: "free", StorageUsedBytes: 30})
	service := user.NewService(testQuotas, repo, zerolog.Nop())

	if err := service.Release(context.Background(), u.ID, 100); err != nil {
		t.Fatalf("Release() unexpected error: %v", err)
	}
	if u.StorageUsedBytes != 0 {
		t.Errorf("usage after over-release = %d, want 0", u.StorageUsedBytes)
	}
}

func TestService_QuotaFor(t *testing.T) {
	service := user.NewService(testQuotas, newFakeRepository(), zerolog.Nop())

	if got := service.QuotaFor("basic"); got != 10000 {
		t.Errorf("QuotaFor(basic) = %d, want 10000", got)
	}
	if got := service.QuotaFor("no-such-plan"); got != 1000 {
		t.Errorf("QuotaFor(no-such-plan) = %d, want free fallback 1000", got)
	}
}

func TestService_RegisterAndAuthenticate(t *testing.T) {
	repo := newFakeRepository()
	service := user.NewService(testQuotas, repo, zerolog.Nop())

	created, err := service.Register(context.Background(), "  Owner@Example.com ", "sekret1")
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if created.Email != "owner@example.com" {
		t.Errorf("email = %q, want normalized lowercase", created.Email)
	}
	if created.Plan != user.DefaultPlan {
		t.Errorf("plan = %q, want %q", created.Plan, user.DefaultPlan)
	}

	if _, err := service.Register(context.Background(), "owner@example.com", "other"); !errors.Is(err, user.ErrEmailTaken) {
		t.Errorf("duplicate Register() error = %v, want ErrEmailTaken", err)
	}

	got, err := service.Authenticate(context.Background(), "owner@example.com", "sekret1")
	if err != nil {
		t.Fatalf("Authenticate() unexpected error: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("authenticated id = %d, want %d", got.ID, created.ID)
	}

	if _, err := service.Authenticate(context.Background(), "owner@example.com", "wrong"); !errors.Is(err, user.ErrInvalidCredentials) {
		t.Errorf("bad password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := service.Authenticate(context.Background(), "nobody@example.com", "x"); !errors.Is(err, user.ErrUserNotFound) {
		t.Errorf("unknown email error = %v, want ErrUserNotFound", err)
	}
}

func TestService_Storage(t *testing.T) {
	repo := newFakeRepository()
	u := repo.add(&user.User{Email: "owner@example.com", Plan: "mystery", StorageUsedBytes: 250})
	service := user.NewService(testQuotas, repo, zerolog.Nop())

	summary, err := service.Storage(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("Storage() unexpected error: %v", err)
	}
	if summary.UsedBytes != 250 {
		t.Errorf("used = %d, want 250", summary.UsedBytes)
	}
	if summary.Plan != user.DefaultPlan {
		t.Errorf("plan = %q, want fallback %q", summary.Plan, user.DefaultPlan)
	}
	if summary.QuotaBytes != 1000 {
		t.Errorf("quota = %d, want 1000", summary.QuotaBytes)
	}
}
