package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taxdecl/internal/domain"
	"taxdecl/internal/service"
)

const (
	ContextKeyOwner  = "owner"
	ContextKeyClaims = "claims"

	SessionCookie = "session_id"
	SessionHeader = "X-Session-ID"

	maxSessionIDLen = 255
)

// Identity resolves the caller to an owner key. A bearer token wins over a
// session id; requests with neither continue anonymously. An invalid token is
// rejected rather than downgraded to a session.
func Identity(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var owner domain.OwnerKey

		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				abortUnauthorized(c, "invalid authorization header")
				return
			}
			claims, err := authService.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				abortUnauthorized(c, "invalid or expired token")
				return
			}
			owner.UserID = claims.UserID
			c.Set(ContextKeyClaims, claims)
		} else if session := sessionID(c); session != "" {
			if len(session) > maxSessionIDLen {
				abortUnauthorized(c, "invalid session id")
				return
			}
			owner.SessionID = session
		}

		c.Set(ContextKeyOwner, owner)
		c.Next()
	}
}

// RequireIdentity rejects anonymous requests.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetOwner(c).IsZero() {
			abortUnauthorized(c, "a user token or session id is required")
			return
		}
		c.Next()
	}
}

// GetOwner returns the owner resolved by Identity, or the zero key.
func GetOwner(c *gin.Context) domain.OwnerKey {
	val, exists := c.Get(ContextKeyOwner)
	if !exists {
		return domain.OwnerKey{}
	}
	owner, _ := val.(domain.OwnerKey)
	return owner
}

func sessionID(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}
	return strings.TrimSpace(c.GetHeader(SessionHeader))
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"code": "UNAUTHORIZED", "message": msg},
	})
}
