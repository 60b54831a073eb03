package middleware

import (
	"net/http"

	"circlepoint/internal/domain"
	"circlepoint/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures that the authenticated user has one of the given roles.
// It only gates routes; services still authorize every operation themselves.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	allowed := make(map[domain.UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role, exists := c.Get(ctxRole)
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		s, _ := role.(string)
		if !allowed[domain.UserRole(s)] {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

func ManagerOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleManager, domain.RoleSuperAdmin)
}

func SuperAdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleSuperAdmin)
}
