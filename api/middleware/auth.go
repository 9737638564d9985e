package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/studyhub/account"
	"github.com/use-agent/studyhub/models"
)

// Context keys set by Auth for downstream handlers and the rate limiter.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// TokenParser validates bearer tokens.
type TokenParser interface {
	ParseToken(raw string) (*account.Claims, error)
}

// Auth returns bearer-token authentication middleware.
//
//	Authorization: Bearer <jwt>
//
// A missing token is rejected with 401, an invalid or expired one with 403.
func Auth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractBearer(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.MessageResponse{
				Message: "No token provided",
			})
			return
		}

		claims, err := tokens.ParseToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, models.MessageResponse{
				Message: "Invalid token",
			})
			return
		}

		c.Set(ContextUserID, claims.ID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
