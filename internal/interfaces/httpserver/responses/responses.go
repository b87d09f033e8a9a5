package responses

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// EnqueueResponse reports an accepted intake.
type EnqueueResponse struct {
	Enqueued bool   `json:"enqueued"`
	JobID    string `json:"job_id"`
}

// FileResponse is one job registry entry as shown to its owner.
type FileResponse struct {
	JobID       string     `json:"job_id"`
	Filename    string     `json:"filename,omitempty"`
	SizeBytes   int64      `json:"size_bytes"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// FilesResponse wraps the owner's job listing.
type FilesResponse struct {
	Files []FileResponse `json:"files"`
}

// StorageResponse reports usage against the plan quota.
type StorageResponse struct {
	UsedBytes  int64  `json:"used_bytes"`
	QuotaBytes int64  `json:"quota_bytes"`
	Plan       string `json:"plan"`
}

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      uint64 `json:"user_id"`
}

// DeleteResponse acknowledges a soft delete.
type DeleteResponse struct {
	Deleted bool   `json:"deleted"`
	JobID   string `json:"job_id"`
}

// Detail writes an error payload with the given status.
func Detail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": message})
}

// Internal writes the generic opaque failure. Internals are never leaked to
// callers.
func Internal(c *gin.Context) {
	Detail(c, http.StatusInternalServerError, "internal server error")
}
