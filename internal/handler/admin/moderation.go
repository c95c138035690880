package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civic/internal/handler"
	"civic/internal/model"
	postModel "civic/internal/model/post"
	"civic/internal/pkg/apperr"
)

// ReportedPosts 查询被举报的帖子
// @Summary      查询被举报的帖子
// @Description  返回有未处理举报的帖子，最近被举报的在前
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "页码"
// @Param        limit  query     int  false  "每页数量"
// @Success      200    {object}  model.Response
// @Failure      403    {object}  model.Response
// @Router       /api/v1/admin/posts/reported [get]
func (h *Handler) ReportedPosts(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	page, limit := handler.PageQuery(c)
	posts, total, err := h.adminService.ReportedPosts(c.Request.Context(), caller, page, limit)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", gin.H{
		"posts":      posts,
		"pagination": model.NewPagination(page, limit, total),
	})
}

// ModerateRequest 审核裁决请求
type ModerateRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"` // 裁决：approve/reject
	Notes  string `json:"notes" binding:"omitempty,max=500"`              // 审核备注（可选）
}

// Moderate 审核帖子
// @Summary      审核帖子
// @Description  approve清除举报标记并保持可见；reject清除举报标记并隐藏帖子
// @Tags         管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string           true  "帖子ID"
// @Param        request  body      ModerateRequest  true  "裁决请求"
// @Success      200      {object}  model.Response
// @Failure      403      {object}  model.Response
// @Failure      404      {object}  model.Response
// @Router       /api/v1/admin/posts/{id}/moderate [post]
func (h *Handler) Moderate(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	var req ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailBinding(c, err)
		return
	}

	p, err := h.adminService.Moderate(c.Request.Context(), caller, c.Param("id"),
		postModel.ModerationAction(req.Action), req.Notes)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "post moderated", p)
}
