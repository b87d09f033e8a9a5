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

// IntakeHandler exposes the payload intake endpoint.
type IntakeHandler struct {
	service job.Service
	log     zerolog.Logger
}

func NewIntakeHandler(service job.Service, log zerolog.Logger) *IntakeHandler {
	return &IntakeHandler{
		service: service,
		log:     log.With().Str("component", "intake-handler").Logger(),
	}
}

type enqueueRequest struct {
	Text string `json:"text" binding:"required"`
}

// Enqueue accepts {"text": "..."} with an optional bearer token. Anonymous
// payloads are admitted without quota accounting.
func (h *IntakeHandler) Enqueue(c *gin.Context) {
	var req enqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Detail(c, http.StatusBadRequest, err.Error())
		return
	}

	var ownerID *uint64
	if id, ok := auth.OwnerID(c); ok {
		ownerID = &id
	}

	j, err := h.service.Enqueue(c.Request.Context(), ownerID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrQuotaExceeded):
			responses.Detail(c, http.StatusForbidden, "enqueue would exceed your storage quota; consider upgrading your plan")
		case errors.Is(err, user.ErrLedgerUnavailable):
			// Admission cannot be decided without the ledger; blocking beats
			// silently allowing.
			h.log.Error().Err(err).Msg("quota admission blocked, ledger unavailable")
			responses.Internal(c)
		default:
			h.log.Error().Err(err).Msg("enqueue failed")
			responses.Internal(c)
		}
		return
	}

	c.JSON(http.StatusOK, responses.EnqueueResponse{
		Enqueued: true,
		JobID:    j.JobID,
	})
}
