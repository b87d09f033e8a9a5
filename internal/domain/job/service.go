package job

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/rs/zerolog"

	"clipvive/services/intake-api/internal/infrastructure/metrics"
	"clipvive/services/intake-api/utils/jobid"
)

// estimateOverheadBytes pads the admission-time size estimate: the stored
// payload carries an envelope header, so the durable size exceeds the raw
// input by a few hundred bytes. The pad keeps the estimate conservative.
const estimateOverheadBytes = 1024

// EstimateSize returns the conservative pre-write size estimate used for
// quota admission.
func EstimateSize(text string) int64 {
	estimate := int64(len(text)) + estimateOverheadBytes
	if estimate < estimateOverheadBytes {
		estimate = estimateOverheadBytes
	}
	return estimate
}

// Service defines the interface for intake business logic.
type Service interface {
	Enqueue(ctx context.Context, ownerID *uint64, text string) (*Job, error)
	Get(ctx context.Context, jobID string) (*Job, error)
	List(ctx context.Context, ownerID uint64) ([]*Job, error)
	Delete(ctx context.Context, ownerID uint64, jobID string) error
}

// Config contains the intake service settings.
type Config struct {
	RemoveLocalAfterUpload bool
	UploadTimeout          time.Duration
}

// DefaultService implements the Service interface.
type DefaultService struct {
	cfg    Config
	jobs   Repository
	ledger Ledger
	store  PayloadStore
	remote RemoteStore
	log    zerolog.Logger
}

// NewService creates a new intake service.
func NewService(cfg Config, jobs Repository, ledger Ledger, store PayloadStore, remote RemoteStore, log zerolog.Logger) *DefaultService {
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = time.Minute
	}
	return &DefaultService{
		cfg:    cfg,
		jobs:   jobs,
		ledger: ledger,
		store:  store,
		remote: remote,
		log:    log.With().Str("component", "intake-service").Logger(),
	}
}

// Enqueue admits, persists and registers one payload. The order is fixed:
// quota check, durable write, registry create, ledger increment. Bookkeeping
// failures after a successful write are logged and swallowed: an orphaned but
// present file beats data loss.
func (s *DefaultService) Enqueue(ctx context.Context, ownerID *uint64, text string) (*Job, error) {
	if ownerID != nil {
		if err := s.ledger.Admit(ctx, *ownerID, EstimateSize(text)); err != nil {
			return nil, err
		}
	}

	id := jobid.New()
	result, err := s.store.Save(ctx, id, envelope(id, text))
	if err != nil {
		metrics.IntakeRequestsTotal.WithLabelValues("storage_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	j := &Job{
		JobID:     id,
		OwnerID:   ownerID,
		Filename:  result.Filename,
		SizeBytes: result.SizeBytes,
		Status:    StatusCreated,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.jobs.Create(ctx, j); err != nil {
		s.log.Warn().Err(err).Str("job_id", id).Msg("job registry create failed, payload kept")
	}

	if ownerID != nil {
		if err := s.ledger.Apply(ctx, *ownerID, result.SizeBytes); err != nil {
			s.log.Warn().Err(err).Str("job_id", id).Uint64("owner_id", *ownerID).Msg("usage increment failed, payload kept")
		}
	}

	s.complete(ctx, j)
	metrics.IntakeRequestsTotal.WithLabelValues("accepted").Inc()

	go s.uploadRemote(j)

	return j, nil
}

// complete advances the job to done and stamps the processing time.
func (s *DefaultService) complete(ctx context.Context, j *Job) {
	next, err := j.Status.TransitionTo(StatusDone)
	if err != nil {
		s.log.Warn().Str("job_id", j.JobID).Str("from", j.Status.String()).Msg("skipping invalid transition to done")
		return
	}
	now := time.Now().UTC()
	if err := s.jobs.Update(ctx, j.JobID, UpdateFields{
		Status:      &next,
		SizeBytes:   &j.SizeBytes,
		ProcessedAt: &now,
	}); err != nil {
		s.log.Warn().Err(err).Str("job_id", j.JobID).Msg("job completion update failed")
		return
	}
	j.Status = next
	j.ProcessedAt = &now
}

// uploadRemote pushes the payload to the remote sink. Failures only affect
// the upload result; the local job stays done either way.
func (s *DefaultService) uploadRemote(j *Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.UploadTimeout)
	defer cancel()

	result := s.remote.Upload(ctx, j.Filename, "outputs/"+j.JobID+".txt")
	if !result.Uploaded {
		if result.Reason != "no_s3_config" {
			s.log.Warn().Str("job_id", j.JobID).Str("reason", result.Reason).Msg("remote upload failed")
		}
		metrics.RemoteUploadsTotal.WithLabelValues("skipped").Inc()
		return
	}
	metrics.RemoteUploadsTotal.WithLabelValues("uploaded").Inc()
	s.log.Info().Str("job_id", j.JobID).Str("url", result.URL).Msg("payload uploaded to remote store")

	// Removing the local copy after a successful upload does not touch the
	// ledger: the bytes still count against the owner until retention.
	if s.cfg.RemoveLocalAfterUpload {
		if err := s.store.Remove(ctx, j.Filename); err != nil {
			s.log.Warn().Err(err).Str("job_id", j.JobID).Msg("local copy removal failed")
		}
	}
}

// Get returns a job by id.
func (s *DefaultService) Get(ctx context.Context, jobID string) (*Job, error) {
	return s.jobs.GetByID(ctx, jobID)
}

// List returns the owner's jobs in creation order, soft-deleted ones included.
func (s *DefaultService) List(ctx context.Context, ownerID uint64) ([]*Job, error) {
	return s.jobs.ListByOwner(ctx, ownerID)
}

// Delete reclaims a job's file on behalf of its owner and soft-deletes the
// registry entry. Ownership is enforced: foreign or unknown jobs report
// ErrJobNotFound without revealing existence.
func (s *DefaultService) Delete(ctx context.Context, ownerID uint64, jobID string) error {
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if j.OwnerID == nil || *j.OwnerID != ownerID {
		return ErrJobNotFound
	}
	if j.Status == StatusDeleted {
		// Already reclaimed; never re-decrement the ledger.
		return nil
	}

	if j.Filename != "" {
		size, _, err := s.store.Stat(ctx, j.Filename)
		switch {
		case err == nil:
			if err := s.store.Remove(ctx, j.Filename); err != nil {
				return fmt.Errorf("remove payload: %w", err)
			}
			if err := s.ledger.Release(ctx, ownerID, size); err != nil {
				s.log.Warn().Err(err).Str("job_id", jobID).Msg("usage decrement failed after delete")
			}
		case errors.Is(err, fs.ErrNotExist):
			// File already gone; just reconcile the registry.
		default:
			return fmt.Errorf("stat payload: %w", err)
		}
	}

	deleted := StatusDeleted
	return s.jobs.Update(ctx, jobID, UpdateFields{Status: &deleted})
}

// envelope wraps the raw payload with the stored header lines.
func envelope(jobID, text string) []byte {
	header := "job_id: " + jobID + "\ntimestamp: " + time.Now().UTC().Format(time.RFC3339) + "\n\n"
	return append([]byte(header), []byte(text+"\n")...)
}
