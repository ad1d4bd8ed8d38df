package middleware

import (
	"net/http"
	"strings"

	"Lee_Moderation/internal/model"
	"Lee_Moderation/internal/pkg"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "role"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			c.Abort()
			return
		}

		claims, err := pkg.ParseAccess(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			c.Abort()
			return
		}

		// 注入 user_id 和 role
		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}

// RequireStaff 审核端接口，仅 moderator/admin 放行
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleAny, ok := c.Get(ContextRoleKey)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"msg": "staff only"})
			c.Abort()
			return
		}
		role, _ := roleAny.(model.Role)
		if !role.IsStaff() {
			c.JSON(http.StatusForbidden, gin.H{"msg": "staff only"})
			c.Abort()
			return
		}
		c.Next()
	}
}
