package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civic/internal/handler"
	"civic/internal/model/user"
)

// LoginRequest 用户登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // 邮箱（必填）
	Password string `json:"password" binding:"required"`    // 密码（必填）
}

// LoginResponseData 登录响应数据
type LoginResponseData struct {
	AccessToken  string     `json:"access_token"`  // Access Token
	RefreshToken string     `json:"refresh_token"` // Refresh Token
	ExpiresIn    int        `json:"expires_in"`    // 过期时间（秒）
	TokenType    string     `json:"token_type"`    // Token类型：Bearer
	User         *user.User `json:"user"`          // 用户信息
}

// Login 用户登录
// @Summary      用户登录
// @Description  用户登录，返回Access Token和Refresh Token；封禁到期的账号自动恢复
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "登录请求"
// @Success      200      {object}  model.Response
// @Failure      403      {object}  model.Response
// @Failure      404      {object}  model.Response
// @Router       /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailBinding(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	handler.OK(c, http.StatusOK, "login successful", LoginResponseData{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
		TokenType:    result.TokenType,
		User:         result.User,
	})
}
