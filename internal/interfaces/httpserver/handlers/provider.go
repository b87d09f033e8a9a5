package handlers

import (
	"github.com/rs/zerolog"

	"clipvive/services/intake-api/internal/domain/job"
	"clipvive/services/intake-api/internal/domain/user"
	"clipvive/services/intake-api/internal/infrastructure/auth"
)

// Provider wires HTTP handlers.
type Provider struct {
	Auth   *AuthHandler
	Intake *IntakeHandler
	Files  *FilesHandler
}

func NewProvider(jobs job.Service, users user.Service, tokens *auth.Manager, log zerolog.Logger) *Provider {
	return &Provider{
		Auth:   NewAuthHandler(users, tokens, log),
		Intake: NewIntakeHandler(jobs, log),
		Files:  NewFilesHandler(jobs, users, log),
	}
}
