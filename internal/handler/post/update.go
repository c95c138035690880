package post

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civic/internal/handler"
	postModel "civic/internal/model/post"
	"civic/internal/pkg/apperr"
	"civic/internal/service"
)

// UpdateRequest 更新帖子请求（作者不可变）
type UpdateRequest struct {
	Content  *string  `json:"content" binding:"omitempty,max=2000"`
	Category *string  `json:"category"`
	Images   []string `json:"images"`
}

// Update 更新帖子
// @Summary      更新帖子
// @Description  更新帖子内容，只允许作者或管理员
// @Tags         帖子
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string         true  "帖子ID"
// @Param        request  body      UpdateRequest  true  "更新请求"
// @Success      200      {object}  model.Response
// @Failure      403      {object}  model.Response
// @Failure      404      {object}  model.Response
// @Router       /api/v1/posts/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailBinding(c, err)
		return
	}

	in := service.UpdateInput{
		Content: req.Content,
		Images:  req.Images,
	}
	if req.Category != nil {
		category := postModel.Category(*req.Category)
		in.Category = &category
	}

	p, err := h.postService.Update(c.Request.Context(), caller, c.Param("id"), in)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "post updated", p)
}

// Delete 删除帖子
// @Summary      删除帖子
// @Description  删除帖子，只允许作者或管理员
// @Tags         帖子
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "帖子ID"
// @Success      200  {object}  model.Response
// @Failure      403  {object}  model.Response
// @Failure      404  {object}  model.Response
// @Router       /api/v1/posts/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	if err := h.postService.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "post deleted", nil)
}
