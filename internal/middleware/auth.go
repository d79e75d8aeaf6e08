package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/penlight/core/internal/models"
	"github.com/penlight/core/internal/pkg/jwt"
	"github.com/penlight/core/internal/pkg/response"
	sessionpkg "github.com/penlight/core/internal/pkg/session"
)

const (
	ContextKeyUser    = "current_user"
	ContextKeySession = "current_session"
)

// Auth returns a middleware that enforces JWT authentication and loads the
// full account record, since nearly every gated operation needs role and
// standing, not just an ID.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, sessionID, err := resolveUser(db, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUser, user)
		c.Set(ContextKeySession, sessionID)
		c.Next()
	}
}

// OptionalAuth loads the account if a valid token is present, but does not
// block the request.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, sessionID, err := resolveUser(db, extractToken(c)); err == nil {
			c.Set(ContextKeyUser, user)
			c.Set(ContextKeySession, sessionID)
		}
		c.Next()
	}
}

// RequireStaff rejects callers whose role is neither writer nor admin.
// Must run after Auth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || !u.IsStaff() {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects callers without the admin role. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || !u.IsAdmin() {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

// ValidateToken validates a raw token and returns the account, for callers
// outside the HTTP pipeline (the gateway handshake).
func ValidateToken(db *gorm.DB, rawToken string) (*models.UserModel, error) {
	user, _, err := resolveUser(db, NormalizeToken(rawToken))
	return user, err
}

// CurrentUser extracts the authenticated account from context, or nil.
func CurrentUser(c *gin.Context) *models.UserModel {
	v, _ := c.Get(ContextKeyUser)
	u, _ := v.(*models.UserModel)
	return u
}

// CurrentSessionID extracts the session bound to the request's token.
func CurrentSessionID(c *gin.Context) string {
	v, _ := c.Get(ContextKeySession)
	id, _ := v.(string)
	return id
}

// IsAuthenticated reports whether the request carries a valid token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUser(c) != nil
}

func resolveUser(db *gorm.DB, token string) (*models.UserModel, string, error) {
	if token == "" {
		return nil, "", errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, "", err
	}
	active, err := sessionpkg.IsActive(db, claims.UserID, claims.SessionID)
	if err != nil {
		return nil, "", err
	}
	if !active {
		return nil, "", errors.New("session expired or revoked")
	}

	var user models.UserModel
	if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		return nil, "", err
	}
	return &user, claims.SessionID, nil
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
