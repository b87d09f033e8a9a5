package routes

import (
	"github.com/gin-gonic/gin"

	"clipvive/services/intake-api/internal/infrastructure/auth"
	"clipvive/services/intake-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates route registration.
type Routes struct {
	handlers *handlers.Provider
	tokens   *auth.Manager
}

func NewRoutes(provider *handlers.Provider, tokens *auth.Manager) *Routes {
	return &Routes{handlers: provider, tokens: tokens}
}

// Register attaches the /auth and /api route groups.
func (r *Routes) Register(router gin.IRouter) {
	authGroup := router.Group("/auth")
	authGroup.POST("/register", r.handlers.Auth.Register)
	authGroup.POST("/login", r.handlers.Auth.Login)

	api := router.Group("/api")
	// Intake allows anonymous callers; a bearer token attributes ownership.
	api.POST("/enqueue", r.tokens.OptionalMiddleware(), r.handlers.Intake.Enqueue)

	protected := api.Group("", r.tokens.Middleware())
	protected.GET("/me", r.handlers.Auth.Me)
	protected.GET("/storage", r.handlers.Files.Storage)
	protected.GET("/files", r.handlers.Files.List)
	protected.DELETE("/files/:job_id", r.handlers.Files.Delete)
}
