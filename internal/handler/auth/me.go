package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civic/internal/handler"
	"civic/internal/pkg/apperr"
)

// MeResponseData 当前用户响应数据
type MeResponseData struct {
	User        any      `json:"user"`
	Permissions []string `json:"permissions"`
}

// GetMe 获取当前用户信息
// @Summary      获取当前用户信息
// @Description  获取当前登录用户的详细信息和权限集合
// @Tags         认证
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.Response
// @Failure      401  {object}  model.Response
// @Router       /api/v1/auth/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	perms := caller.Role.Permissions()
	permStrings := make([]string, len(perms))
	for i, p := range perms {
		permStrings[i] = string(p)
	}

	handler.OK(c, http.StatusOK, "success", MeResponseData{
		User:        caller,
		Permissions: permStrings,
	})
}
