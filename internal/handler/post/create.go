package post

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civic/internal/handler"
	postModel "civic/internal/model/post"
	"civic/internal/pkg/apperr"
	"civic/internal/service"
)

// PerformanceReferenceRequest 绩效数据引用
type PerformanceReferenceRequest struct {
	KPIID    string `json:"kpi_id" binding:"required"`
	KPITitle string `json:"kpi_title" binding:"required"`
	DataType string `json:"data_type" binding:"required"`
}

// CreateRequest 创建帖子请求
type CreateRequest struct {
	Content              string                       `json:"content" binding:"required,max=2000"` // 正文（必填，≤2000字符）
	Category             string                       `json:"category"`                            // 分类，默认General
	Images               []string                     `json:"images"`                              // 图片URL列表
	PerformanceReference *PerformanceReferenceRequest `json:"performance_reference"`               // 绩效数据引用（可选）
}

// Create 创建帖子
// @Summary      创建帖子
// @Tags         帖子
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateRequest  true  "创建请求"
// @Success      201      {object}  model.Response
// @Failure      400      {object}  model.Response
// @Router       /api/v1/posts [post]
func (h *Handler) Create(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailBinding(c, err)
		return
	}

	in := service.CreateInput{
		Content:  req.Content,
		Category: postModel.Category(req.Category),
		Images:   req.Images,
	}
	if req.PerformanceReference != nil {
		in.PerformanceReference = &postModel.PerformanceReference{
			KPIID:    req.PerformanceReference.KPIID,
			KPITitle: req.PerformanceReference.KPITitle,
			DataType: req.PerformanceReference.DataType,
		}
	}

	p, err := h.postService.Create(c.Request.Context(), caller.ID, in)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusCreated, "post created", p)
}
