package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/btc-academy/academy-api/internal/models"
	appErrors "github.com/btc-academy/academy-api/pkg/errors"
	"github.com/btc-academy/academy-api/pkg/response"
)

// RBAC enforces role-based access control for routes. An empty allow
// list admits any authenticated admin.
func RBAC(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if len(allowed) == 0 {
			c.Next()
			return
		}

		for _, role := range allowed {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}

// RequireAdmin admits any authenticated allow-list member.
func RequireAdmin() gin.HandlerFunc {
	return RBAC()
}
