package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"ecostep_backend/internal/service"
	"ecostep_backend/internal/util"
)

const adminIDKey = "adminID"

// AuthMiddleware 校验 Bearer 令牌并把管理员 ID 写入上下文
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			util.Unauthorized(c, "требуется авторизация")
			c.Abort()
			return
		}

		adminID, err := authService.Resolve(token)
		if err != nil {
			util.Unauthorized(c, "недействительный токен")
			c.Abort()
			return
		}

		c.Set(adminIDKey, adminID)
		c.Next()
	}
}

// ExtractToken 取 Authorization 头中的 Bearer 令牌
func ExtractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AdminIDFromContext 中间件写入的管理员 ID
func AdminIDFromContext(c *gin.Context) int64 {
	if v, ok := c.Get(adminIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
