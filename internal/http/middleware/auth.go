package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice-service/internal/auth"
	"backoffice-service/internal/model"
)

const principalContextKey = "principal"

type SessionVerifier interface {
	Verify(ctx context.Context, token string) (model.PublicUser, error)
}

// Auth resolves the session cookie into a principal. Every failure gets the
// same 401 body.
func Auth(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err != nil || token == "" {
			unauthorized(c)
			return
		}
		user, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			unauthorized(c)
			return
		}
		c.Set(principalContextKey, model.Principal{UserID: user.ID, Role: user.Role})
		c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := MustPrincipal(c)
		if !ok {
			unauthorized(c)
			return
		}
		if !principal.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "permission denied"})
			return
		}
		c.Next()
	}
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	value, exists := c.Get(principalContextKey)
	if !exists {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	if !ok {
		return model.Principal{}, false
	}
	return principal, true
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid or expired session"})
}
