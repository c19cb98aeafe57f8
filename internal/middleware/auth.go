package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/soldertec/site/internal/pkg/jwt"
	"github.com/soldertec/site/internal/pkg/response"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "user_email"
)

// Auth admits requests carrying a valid Supabase access token of an
// administrator. A nil verifier rejects everything with 503.
func Auth(v *jwt.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v == nil {
			response.Abort(c, http.StatusServiceUnavailable, "admin authentication is not configured")
			return
		}
		token := NormalizeToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Unauthorized(c)
			return
		}
		claims, err := v.Verify(token)
		if err != nil {
			if errors.Is(err, jwt.ErrNotAdmin) {
				response.Forbidden(c)
				return
			}
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, claims.Subject)
		c.Set(ContextKeyEmail, claims.Email)
		c.Next()
	}
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// CurrentEmail extracts the authenticated user's email from context.
func CurrentEmail(c *gin.Context) string {
	return c.GetString(ContextKeyEmail)
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
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
