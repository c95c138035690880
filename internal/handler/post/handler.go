package post

import (
	"civic/internal/service"
)

// Handler 帖子处理器
type Handler struct {
	postService *service.PostService
}

// NewHandler 创建帖子处理器
func NewHandler(postService *service.PostService) *Handler {
	return &Handler{
		postService: postService,
	}
}
