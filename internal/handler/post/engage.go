package post

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civic/internal/handler"
	"civic/internal/model"
	"civic/internal/pkg/apperr"
)

// ToggleLike 点赞/取消点赞
// @Summary      点赞开关
// @Description  已点赞则撤销，未点赞则写入；返回当前状态和点赞数
// @Tags         帖子
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "帖子ID"
// @Success      200  {object}  model.Response
// @Failure      404  {object}  model.Response
// @Router       /api/v1/posts/{id}/like [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	result, err := h.postService.ToggleLike(c.Request.Context(), caller.ID, c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", result)
}

// CommentRequest 发表评论请求
type CommentRequest struct {
	Content string `json:"content" binding:"required,max=500"` // 评论内容（必填，≤500字符）
}

// AddComment 发表评论
// @Summary      发表评论
// @Tags         帖子
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string          true  "帖子ID"
// @Param        request  body      CommentRequest  true  "评论请求"
// @Success      201      {object}  model.Response
// @Failure      400      {object}  model.Response
// @Failure      404      {object}  model.Response
// @Router       /api/v1/posts/{id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailBinding(c, err)
		return
	}

	result, err := h.postService.AddComment(c.Request.Context(), caller.ID, c.Param("id"), req.Content)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusCreated, "comment added", result)
}

// Comments 查询评论列表
// @Summary      查询评论列表
// @Description  分页查询评论，最新的在前
// @Tags         帖子
// @Produce      json
// @Param        id     path      string  true   "帖子ID"
// @Param        page   query     int     false  "页码"
// @Param        limit  query     int     false  "每页数量"
// @Success      200    {object}  model.Response
// @Failure      404    {object}  model.Response
// @Router       /api/v1/posts/{id}/comments [get]
func (h *Handler) Comments(c *gin.Context) {
	page, limit := handler.PageQuery(c)
	comments, total, err := h.postService.Comments(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", gin.H{
		"comments":   comments,
		"pagination": model.NewPagination(page, limit, total),
	})
}
