package middleware

import (
	"net/http"
	"strings"

	"travelplanner/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	callerIDKey = "caller_id"
	// SessionCookie holds the session token for browser clients.
	SessionCookie = "session"
)

// SessionVerifier validates a raw session token.
type SessionVerifier interface {
	Verify(raw string) (services.SessionClaims, error)
}

// RequireAuth rejects requests without a valid session and stores the
// caller's account ID for handlers (see GetCallerID).
func RequireAuth(v SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := v.Verify(tokenFromRequest(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "authentication required",
				"code":       "unauthorized",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Set(callerIDKey, claims.Subject)
		c.Next()
	}
}

// GetCallerID returns the authenticated account ID, or "" on public routes.
func GetCallerID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(callerIDKey)
}

func tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}
