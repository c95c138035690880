package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civic/internal/model"
	"civic/internal/model/user"
	"civic/internal/pkg/apperr"
	"civic/internal/pkg/ctxutil"
)

// RequirePermission 权限中间件
// 必须挂在 Auth 之后；权限判断走统一的授权闸口
func RequirePermission(required user.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := ctxutil.GetCaller(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.Response{
				Success: false,
				Message: "authorization required",
				Error:   &model.ErrorInfo{Kind: "Unauthorized"},
			})
			return
		}

		if !user.Authorize(caller.Role, required) {
			c.AbortWithStatusJSON(http.StatusForbidden, model.Fail(apperr.Forbidden("insufficient permissions")))
			return
		}

		c.Next()
	}
}
