package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"buchladen-backend/internal/auth"
	"buchladen-backend/internal/shared/response"
	"buchladen-backend/pkg/jwt"
)

// Authenticate validates the Bearer token and stores the claims in the
// request context.
func Authenticate(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, http.StatusUnauthorized, "authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, http.StatusUnauthorized, "authorization header must be a Bearer token")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Set("username", claims.Username)
		c.Set("roles", claims.Roles)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated user has at
// least one of the given roles.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("roles")
		if !exists {
			response.Error(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		names, ok := value.([]string)
		if ok {
			for _, role := range roles {
				if auth.HasRole(names, role) {
					c.Next()
					return
				}
			}
		}

		response.Error(c, http.StatusForbidden, "insufficient permissions")
		c.Abort()
	}
}
