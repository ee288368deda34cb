package middleware

import (
	"net/http"
	"strings"

	"venuehub/internal/domain"
	"venuehub/internal/pkg/jwt"
	"venuehub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWTAuth validates the bearer token and stores user_id (int64) and role (domain.UserRole).
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.CustomError(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			response.CustomError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.CustomError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		role, err := domain.ParseUserRole(claims.Role)
		if err != nil {
			response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Unknown role")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// CurrentUser returns what JWTAuth stored; ok is false on unauthenticated routes.
func CurrentUser(c *gin.Context) (int64, domain.UserRole, bool) {
	userID := c.GetInt64(ContextUserID)
	v, exists := c.Get(ContextRole)
	if !exists || userID == 0 {
		return 0, "", false
	}
	role, ok := v.(domain.UserRole)
	return userID, role, ok
}
