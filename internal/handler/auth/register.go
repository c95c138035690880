package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civic/internal/handler"
)

// RegisterRequest 用户注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`           // 邮箱（必填）
	Username string `json:"username" binding:"required,min=3,max=30"` // 用户名（必填，3-30字符）
	Password string `json:"password" binding:"required,min=6"`        // 密码（必填，至少6位）
	FullName string `json:"full_name" binding:"required,max=100"`     // 显示名（必填）
}

// Register 用户注册
// @Summary      用户注册
// @Description  注册新用户，初始角色为user
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "注册请求"
// @Success      201      {object}  model.Response
// @Failure      400      {object}  model.Response
// @Router       /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailBinding(c, err)
		return
	}

	u, err := h.authService.Register(c.Request.Context(), req.Email, req.Username, req.Password, req.FullName)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	handler.OK(c, http.StatusCreated, "registered", u)
}
