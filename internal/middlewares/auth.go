package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scenestack/scenestack/pkg/utils"
)

// TokenDenylist 判断 token 是否已被登出拉黑
type TokenDenylist interface {
	IsDenied(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT 认证中间件
// 已登出 (拉黑) 的 token 视同无效；黑名单查询失败时放行 (fail-open)。
func AuthMiddleware(denylist TokenDenylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}

		if token == "" {
			c.JSON(
				http.StatusUnauthorized,
				gin.H{"error": "missing auth token"},
			)
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.JSON(
				http.StatusUnauthorized,
				gin.H{"error": "invalid or expired token"},
			)
			c.Abort()
			return
		}

		if denylist != nil {
			denied, err := denylist.IsDenied(c.Request.Context(), token)
			if err == nil && denied {
				c.JSON(
					http.StatusUnauthorized,
					gin.H{"error": "invalid or expired token"},
				)
				c.Abort()
				return
			}
		}

		// 将 claims 存储在 context 中
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("email", claims.Email)

		c.Next()
	}
}
