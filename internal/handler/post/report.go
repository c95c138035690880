package post

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civic/internal/handler"
	postModel "civic/internal/model/post"
	"civic/internal/pkg/apperr"
)

// ReportRequest 举报帖子请求
type ReportRequest struct {
	Reason      string `json:"reason" binding:"required,oneof=spam inappropriate harassment false_information other"` // 举报原因
	Description string `json:"description" binding:"omitempty,max=500"`                                              // 补充说明（可选）
}

// Report 举报帖子
// @Summary      举报帖子
// @Description  举报帖子并触发审核标记；同一用户重复举报返回Conflict
// @Tags         帖子
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string         true  "帖子ID"
// @Param        request  body      ReportRequest  true  "举报请求"
// @Success      200      {object}  model.Response
// @Failure      400      {object}  model.Response
// @Failure      404      {object}  model.Response
// @Router       /api/v1/posts/{id}/report [post]
func (h *Handler) Report(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailBinding(c, err)
		return
	}

	err := h.postService.Report(c.Request.Context(), caller.ID, c.Param("id"),
		postModel.ReportReason(req.Reason), req.Description)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "post reported", nil)
}
