package admin

import (
	"civic/internal/service"
)

// Handler 管理处理器
type Handler struct {
	adminService     *service.AdminService
	analyticsService *service.AnalyticsService
}

// NewHandler 创建管理处理器
func NewHandler(adminService *service.AdminService, analyticsService *service.AnalyticsService) *Handler {
	return &Handler{
		adminService:     adminService,
		analyticsService: analyticsService,
	}
}
