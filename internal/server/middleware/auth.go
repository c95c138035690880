package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"civic/internal/model"
	"civic/internal/pkg/apperr"
	"civic/internal/pkg/ctxutil"
	"civic/internal/pkg/jwt"
	"civic/internal/service"
)

// Auth JWT 认证中间件
// 验证 Bearer token 后从数据库加载用户实体注入 context：
// 权限检查依赖当前角色而不是签发 token 时的角色快照，降级即时生效
func Auth(jwtUtil *jwt.JWT, authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "authorization required")
			return
		}

		// 提取 Token（Bearer {token}）
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization header")
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			if err == jwt.ErrExpiredToken {
				abortUnauthorized(c, "token expired")
				return
			}
			abortUnauthorized(c, "invalid token")
			return
		}

		caller, err := authService.LoadUser(c.Request.Context(), claims.UserID)
		if err != nil {
			abortUnauthorized(c, "user not found")
			return
		}

		// 封禁期间拒绝所有认证请求
		if caller.IsSuspended(time.Now()) {
			c.AbortWithStatusJSON(http.StatusForbidden, model.Fail(apperr.Forbidden("account is suspended")))
			return
		}

		ctx := ctxutil.WithUserID(c.Request.Context(), caller.ID)
		ctx = ctxutil.WithCaller(ctx, caller)
		c.Request = c.Request.WithContext(ctx)

		// 活跃时间更新失败不阻断请求
		if err := authService.TouchLastActive(c.Request.Context(), caller.ID); err != nil {
			log.Warn().Err(err).Str("user_id", caller.ID).Msg("failed to touch last active")
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, model.Response{
		Success: false,
		Message: message,
		Error:   &model.ErrorInfo{Kind: "Unauthorized"},
	})
}
