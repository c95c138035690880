package user

import (
	"civic/internal/service"
)

// Handler 用户处理器
type Handler struct {
	userService *service.UserService
}

// NewHandler 创建用户处理器
func NewHandler(userService *service.UserService) *Handler {
	return &Handler{
		userService: userService,
	}
}
