package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"clipvive/services/intake-api/internal/domain/job"
	"clipvive/services/intake-api/internal/domain/user"
	"clipvive/services/intake-api/internal/infrastructure/auth"
	"clipvive/services/intake-api/internal/interfaces/httpserver/responses"
)

// FilesHandler exposes the owner-facing file and storage accounting endpoints.
type FilesHandler struct {
	jobs  job.Service
	users user.Service
	log   zerolog.Logger
}

func NewFilesHandler(jobs job.Service, users user.Service, log zerolog.Logger) *FilesHandler {
	return &FilesHandler{
		jobs:  jobs,
		users: users,
		log:   log.With().Str("component", "files-handler").Logger(),
	}
}

// List returns the owner's jobs in creation order, soft-deleted ones included.
func (h *FilesHandler) List(c *gin.Context) {
	ownerID, ok := auth.OwnerID(c)
	if !ok {
		responses.Detail(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	jobs, err := h.jobs.List(c.Request.Context(), ownerID)
	if err != nil {
		h.log.Error().Err(err).Msg("file listing failed")
		responses.Internal(c)
		return
	}

	files := make([]responses.FileResponse, 0, len(jobs))
	for _, j := range jobs {
		files = append(files, responses.FileResponse{
			JobID:       j.JobID,
			Filename:    j.Filename,
			SizeBytes:   j.SizeBytes,
			Status:      j.Status.String(),
			CreatedAt:   j.CreatedAt,
			ProcessedAt: j.ProcessedAt,
		})
	}
	c.JSON(http.StatusOK, responses.FilesResponse{Files: files})
}

// Delete reclaims one of the owner's files and soft-deletes the job.
func (h *FilesHandler) Delete(c *gin.Context) {
	ownerID, ok := auth.OwnerID(c)
	if !ok {
		responses.Detail(c, http.StatusUnauthorized, "missing bearer token")
		return
	}
	jobID := c.Param("job_id")

	if err := h.jobs.Delete(c.Request.Context(), ownerID, jobID); err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			responses.Detail(c, http.StatusNotFound, "file not found")
			return
		}
		h.log.Error().Err(err).Str("job_id", jobID).Msg("file delete failed")
		responses.Internal(c)
		return
	}

	c.JSON(http.StatusOK, responses.DeleteResponse{Deleted: true, JobID: jobID})
}

// Storage returns the owner's usage against their plan quota.
func (h *FilesHandler) Storage(c *gin.Context) {
	ownerID, ok := auth.OwnerID(c)
	if !ok {
		responses.Detail(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	summary, err := h.users.Storage(c.Request.Context(), ownerID)
	if err != nil {
		h.log.Error().Err(err).Msg("storage summary failed")
		responses.Internal(c)
		return
	}

	c.JSON(http.StatusOK, responses.StorageResponse{
		UsedBytes:  summary.UsedBytes,
		QuotaBytes: summary.QuotaBytes,
		Plan:       summary.Plan,
	})
}
