package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/macerhappen/backend/internal/models"
	"github.com/macerhappen/backend/pkg/response"
)

// RequireRole returns a middleware that allows only the given roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{})
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		roleVal, ok := c.Get(ContextUserRole)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		role, _ := roleVal.(models.Role)
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserLoader resolves an active user of a role by ID.
type UserLoader interface {
	GetActive(ctx context.Context, id int64, role models.Role) (*models.User, error)
}

// ActiveUser resolves the caller from the token claims and stores it in the
// context. It must run after JWT. Absent and inactive users get the same
// not-found response.
func ActiveUser(loader UserLoader, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Get(ContextUserID)
		role, _ := c.Get(ContextUserRole)
		userID, _ := id.(int64)
		userRole, _ := role.(models.Role)
		if userID == 0 {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		user, err := loader.GetActive(c.Request.Context(), userID, userRole)
		if err != nil {
			response.Error(c, err, logger)
			c.Abort()
			return
		}
		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by ActiveUser.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(ContextUser).(*models.User)
}
