package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "quoteme/internal/pkg/jwt"
	"quoteme/internal/pkg/response"
)

// Auth verifies the bearer token and stores the authenticated provider's
// id and role on the gin context.
func Auth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing Authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid Authorization header")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("provider_id", claims.ProviderID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
