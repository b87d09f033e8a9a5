// Package auth issues and verifies locally signed development tokens.
// Real identity-provider integration is out of scope for this service.
package auth

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"clipvive/services/intake-api/internal/config"
	"clipvive/services/intake-api/utils/jobid"
)

const ownerContextKey = "auth.owner_id"

// Manager signs and verifies HS256 bearer tokens.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	log    zerolog.Logger
}

// NewManager creates the token manager.
func NewManager(cfg *config.Config, log zerolog.Logger) *Manager {
	return &Manager{
		secret: []byte(cfg.AuthSecret),
		issuer: cfg.ServiceName,
		ttl:    cfg.TokenTTL,
		log:    log.With().Str("component", "auth").Logger(),
	}
}

// Issue returns a signed bearer token for the account.
func (m *Manager) Issue(userID uint64, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(userID, 10),
		"email": email,
		"iss":   m.issuer,
		"jti":   jobid.New(),
		"iat":   now.Unix(),
		"exp":   now.Add(m.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses a bearer token and returns the owner id it was issued to.
func (m *Manager) Verify(tokenString string) (uint64, error) {
	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithIssuer(m.issuer),
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	subject, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token subject")
	}
	return userID, nil
}

// Middleware requires a valid bearer token and records the owner id on the
// request context.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		userID, err := m.Verify(tokenString)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}
		c.Set(ownerContextKey, userID)
		c.Next()
	}
}

// OptionalMiddleware records the owner id when a valid bearer token is
// present and lets the request through either way. Anonymous intake is
// permitted.
func (m *Manager) OptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c.GetHeader("Authorization")); tokenString != "" {
			if userID, err := m.Verify(tokenString); err == nil {
				c.Set(ownerContextKey, userID)
			}
		}
		c.Next()
	}
}

// OwnerID returns the authenticated owner id recorded on the context.
func OwnerID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(ownerContextKey)
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint64)
	return userID, ok
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": message})
}
