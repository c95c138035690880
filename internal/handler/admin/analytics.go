package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civic/internal/handler"
)

// Analytics 查询分析报表
// @Summary      查询分析报表
// @Description  窗口化的互动分析报表；period取值1d/7d/30d/90d/1y，未知令牌回退到7d
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        period  query     string  false  "分析周期"
// @Success      200     {object}  model.Response
// @Failure      403     {object}  model.Response
// @Router       /api/v1/admin/analytics [get]
func (h *Handler) Analytics(c *gin.Context) {
	report, err := h.analyticsService.GetReport(c.Request.Context(), c.Query("period"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", report)
}

// Growth 查询用户增长报表
// @Summary      查询用户增长报表
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        period  query     string  false  "分析周期"
// @Success      200     {object}  model.Response
// @Router       /api/v1/admin/analytics/growth [get]
func (h *Handler) Growth(c *gin.Context) {
	report, err := h.analyticsService.GetGrowth(c.Request.Context(), c.Query("period"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", report)
}

// ContentPerformance 查询内容表现报表
// @Summary      查询内容表现报表
// @Description  窗口内帖子的表现排行、分类表现和按日互动趋势；period缺省为30d
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        period  query     string  false  "分析周期"
// @Success      200     {object}  model.Response
// @Failure      403     {object}  model.Response
// @Router       /api/v1/admin/analytics/content/performance [get]
func (h *Handler) ContentPerformance(c *gin.Context) {
	report, err := h.analyticsService.GetContentPerformance(c.Request.Context(), c.DefaultQuery("period", "30d"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", report)
}

// Dashboard 查询仪表盘摘要
// @Summary      查询仪表盘摘要
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.Response
// @Router       /api/v1/admin/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.analyticsService.GetDashboard(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", dashboard)
}

// AnalyticsHistory 查询历史快照
// @Summary      查询历史分析快照
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        period  query     string  false  "回看周期"
// @Success      200     {object}  model.Response
// @Router       /api/v1/admin/analytics/history [get]
func (h *Handler) AnalyticsHistory(c *gin.Context) {
	snapshots, err := h.analyticsService.History(c.Request.Context(), c.Query("period"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", snapshots)
}
