package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"clipvive/services/intake-api/internal/domain/job"
)

// LocalStorage is the durable payload store under a flat directory root.
type LocalStorage struct {
	basePath string
	log      zerolog.Logger
}

// NewLocalStorage creates the local filesystem payload store, creating the
// root directory if needed.
func NewLocalStorage(basePath string, log zerolog.Logger) (*LocalStorage, error) {
	logger := log.With().Str("component", "local-storage").Logger()

	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, fmt.Errorf("storage path is empty")
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	logger.Info().Str("path", basePath).Msg("local storage initialized")
	return &LocalStorage{
		basePath: basePath,
		log:      logger,
	}, nil
}

// Save writes the payload under the job id using a write-then-rename pattern:
// the temp file is promoted atomically, so a reader never observes a
// partially written payload. On failure no partial artifact is left behind.
// The returned size is what landed on the durable medium, the authoritative
// figure for quota accounting.
func (l *LocalStorage) Save(ctx context.Context, jobID string, payload []byte) (job.SaveResult, error) {
	filename := jobID + ".txt"
	fullPath := filepath.Join(l.basePath, filename)
	tmpPath := fullPath + ".tmp"

	if err := os.WriteFile(tmpPath, payload, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return job.SaveResult{}, fmt.Errorf("write payload: %w", err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		_ = os.Remove(tmpPath)
		return job.SaveResult{}, fmt.Errorf("promote payload: %w", err)
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return job.SaveResult{}, fmt.Errorf("stat payload: %w", err)
	}

	l.log.Debug().
		Str("filename", filename).
		Int64("bytes", info.Size()).
		Msg("payload written")

	return job.SaveResult{
		Filename:  filename,
		SizeBytes: info.Size(),
	}, nil
}

// Stat reports a stored payload's durable size and last modification time.
// A missing file surfaces as fs.ErrNotExist for callers to branch on.
func (l *LocalStorage) Stat(ctx context.Context, filename string) (int64, time.Time, error) {
	info, err := os.Stat(l.pathFor(filename))
	if err != nil {
		return 0, time.Time{}, err
	}
	return info.Size(), info.ModTime(), nil
}

// Remove deletes a stored payload.
func (l *LocalStorage) Remove(ctx context.Context, filename string) error {
	return os.Remove(l.pathFor(filename))
}

// Path returns the absolute path of a stored payload.
func (l *LocalStorage) Path(filename string) string {
	return l.pathFor(filename)
}

// Health checks if the storage directory is writable.
func (l *LocalStorage) Health(ctx context.Context) error {
	testFile := filepath.Join(l.basePath, ".health_check")
	if err := os.WriteFile(testFile, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("storage directory not writable: %w", err)
	}
	_ = os.Remove(testFile)
	return nil
}

// pathFor resolves a stored filename under the root. Filenames are generated
// by this service; Base strips anything that would escape the root.
func (l *LocalStorage) pathFor(filename string) string {
	return filepath.Join(l.basePath, filepath.Base(filename))
}
