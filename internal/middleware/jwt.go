package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/macerhappen/backend/internal/auth"
	"github.com/macerhappen/backend/pkg/response"
)

// Gin context keys set by the auth chain.
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
	ContextUser     = "user" // *models.User, set by ActiveUser
)

// TokenValidator turns a raw bearer token into claims.
type TokenValidator interface {
	Validate(raw string) (*auth.Claims, error)
}

// JWT authenticates the caller from the Authorization header and stores the
// claimed user ID and role. It does not check that the user exists.
func JWT(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, "missing or malformed bearer token")
			c.Abort()
			return
		}
		claims, err := tokens.Validate(raw)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
