package middleware

import (
	"quizdeck_backend/internal/config"
	"quizdeck_backend/internal/util"
	"quizdeck_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// allowedUsers 允许进入测验功能的 GitHub 用户名白名单
var allowedUsers = []string{
	"Superallyman",
	"Ryan Jobe",
	"username3",
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT解析错误", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// GateMiddleware 白名单闸门：未登录返回 401，登录了但不在名单内返回 403
func GateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		for _, login := range allowedUsers {
			if claims.Login == login {
				c.Next()
				return
			}
		}

		logger.Log.Warn("user not on the allowlist", zap.String("login", claims.Login))
		util.Forbidden(c)
		c.Abort()
	}
}
