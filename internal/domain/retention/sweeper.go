// Package retention implements the recurring disk reclamation sweep.
package retention

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/rs/zerolog"

	"clipvive/services/intake-api/internal/domain/job"
	"clipvive/services/intake-api/internal/infrastructure/metrics"
)

// Registry is the slice of the job registry the sweeper needs. The registry
// is the enumeration source of truth: candidates are done jobs with a
// recorded filename. Files that exist on disk without a live job row are left
// alone; job rows whose file has vanished are reconciled to deleted.
type Registry interface {
	ListByStatus(ctx context.Context, status job.Status) ([]*job.Job, error)
	Update(ctx context.Context, jobID string, fields job.UpdateFields) error
}

// Ledger reverses usage accounting for reclaimed files.
type Ledger interface {
	Release(ctx context.Context, ownerID uint64, delta int64) error
}

// FileStore is the slice of the payload store the sweeper needs.
type FileStore interface {
	Stat(ctx context.Context, filename string) (size int64, modTime time.Time, err error)
	Remove(ctx context.Context, filename string) error
}

// Config contains the sweeper settings.
type Config struct {
	// Retention is the file age threshold. Zero or negative disables the
	// sweep entirely; it never means "delete everything immediately".
	Retention time.Duration
	// Interval is the pause between sweeps.
	Interval time.Duration
}

// Result reports one sweep's outcome. A sweep never propagates errors as a
// failure of its host loop; Err describes a sweep-level fault such as an
// unreadable registry.
type Result struct {
	Deleted int
	Err     error
}

// Sweeper runs the retention sweep as a single long-lived background loop.
// It never runs concurrently with itself.
type Sweeper struct {
	cfg    Config
	jobs   Registry
	ledger Ledger
	files  FileStore
	log    zerolog.Logger
}

// NewSweeper creates a new retention sweeper.
func NewSweeper(cfg Config, jobs Registry, ledger Ledger, files FileStore, log zerolog.Logger) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	return &Sweeper{
		cfg:    cfg,
		jobs:   jobs,
		ledger: ledger,
		files:  files,
		log:    log.With().Str("component", "retention-sweeper").Logger(),
	}
}

// Run sweeps once immediately, then on every interval tick until the context
// is cancelled. Cancellation takes effect between sweeps, not mid-sweep.
func (s *Sweeper) Run(ctx context.Context) {
	s.log.Info().
		Dur("interval", s.cfg.Interval).
		Dur("retention", s.cfg.Retention).
		Msg("retention sweeper started")

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.report(s.Sweep(ctx))
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("retention sweeper stopped")
			return
		case <-ticker.C:
			s.report(s.Sweep(ctx))
		}
	}
}

func (s *Sweeper) report(res Result) {
	if res.Err != nil {
		s.log.Error().Err(res.Err).Msg("sweep failed")
		return
	}
	if res.Deleted > 0 {
		s.log.Info().Int("deleted", res.Deleted).Msg("sweep reclaimed files")
	}
}

// Sweep performs one scan-and-delete pass. Each candidate is processed
// independently: a faulty file never prevents reclamation of the rest.
func (s *Sweeper) Sweep(ctx context.Context) Result {
	if s.cfg.Retention <= 0 {
		return Result{}
	}

	started := time.Now()
	defer func() {
		metrics.SweepDuration.Observe(time.Since(started).Seconds())
	}()

	candidates, err := s.jobs.ListByStatus(ctx, job.StatusDone)
	if err != nil {
		return Result{Err: fmt.Errorf("list sweep candidates: %w", err)}
	}

	cutoff := time.Now().Add(-s.cfg.Retention)
	deleted := 0
	for _, candidate := range candidates {
		if candidate.Filename == "" {
			continue
		}
		if s.sweepOne(ctx, candidate, cutoff) {
			deleted++
		}
	}

	metrics.SweepDeletionsTotal.Add(float64(deleted))
	return Result{Deleted: deleted}
}

// sweepOne reclaims a single candidate, reporting whether a file was deleted.
// The size is captured before deletion; it is the figure the ledger reversal
// needs once the file is gone.
func (s *Sweeper) sweepOne(ctx context.Context, candidate *job.Job, cutoff time.Time) bool {
	size, modTime, err := s.files.Stat(ctx, candidate.Filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// File vanished outside our control. Reconcile the registry but
			// leave the ledger alone: the reclaimed size is unknown.
			s.markDeleted(ctx, candidate.JobID)
		} else {
			s.log.Warn().Err(err).Str("job_id", candidate.JobID).Msg("skipping unreadable sweep candidate")
		}
		return false
	}
	if modTime.After(cutoff) {
		return false
	}

	if err := s.files.Remove(ctx, candidate.Filename); err != nil {
		s.log.Warn().Err(err).Str("job_id", candidate.JobID).Msg("sweep deletion failed, skipping")
		return false
	}

	if candidate.OwnerID != nil {
		if err := s.ledger.Release(ctx, *candidate.OwnerID, size); err != nil {
			s.log.Warn().Err(err).Str("job_id", candidate.JobID).Msg("usage decrement failed after sweep deletion")
		}
	}
	s.markDeleted(ctx, candidate.JobID)
	return true
}

func (s *Sweeper) markDeleted(ctx context.Context, jobID string) {
	deleted := job.StatusDeleted
	if err := s.jobs.Update(ctx, jobID, job.UpdateFields{Status: &deleted}); err != nil {
		s.log.Warn().Err(err).Str("job_id", jobID).Msg("job soft delete failed")
	}
}
