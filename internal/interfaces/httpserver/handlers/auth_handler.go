package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"clipvive/services/intake-api/internal/domain/user"
	"clipvive/services/intake-api/internal/infrastructure/auth"
	"clipvive/services/intake-api/internal/interfaces/httpserver/responses"
)

// AuthHandler exposes the registration and login stubs.
type AuthHandler struct {
	users  user.Service
	tokens *auth.Manager
	log    zerolog.Logger
}

func NewAuthHandler(users user.Service, tokens *auth.Manager, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		log:    log.With().Str("component", "auth-handler").Logger(),
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account on the free plan.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Detail(c, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			responses.Detail(c, http.StatusConflict, "user exists")
			return
		}
		h.log.Error().Err(err).Msg("registration failed")
		responses.Internal(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": u.ID, "email": u.Email})
}

// Login verifies credentials and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Detail(c, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) || errors.Is(err, user.ErrUserNotFound) {
			responses.Detail(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		responses.Internal(c)
		return
	}

	token, err := h.tokens.Issue(u.ID, u.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("token issue failed")
		responses.Internal(c)
		return
	}

	c.JSON(http.StatusOK, responses.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      u.ID,
	})
}

// Me echoes the authenticated identity.
func (h *AuthHandler) Me(c *gin.Context) {
	ownerID, ok := auth.OwnerID(c)
	if !ok {
		responses.Detail(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	u, err := h.users.Get(c.Request.Context(), ownerID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			responses.Detail(c, http.StatusUnauthorized, "unknown account")
			return
		}
		h.log.Error().Err(err).Msg("identity lookup failed")
		responses.Internal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": u.ID, "email": u.Email, "plan": u.Plan})
}
