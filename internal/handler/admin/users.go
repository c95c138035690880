package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civic/internal/handler"
	"civic/internal/model"
	userModel "civic/internal/model/user"
	"civic/internal/pkg/apperr"
	"civic/internal/service"
)

// ListUsers 查询用户列表
// @Summary      查询用户列表
// @Description  管理视图，支持搜索和按角色/状态筛选
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "搜索关键词"
// @Param        role    query     string  false  "角色筛选"
// @Param        status  query     string  false  "状态筛选：active/suspended"
// @Param        page    query     int     false  "页码"
// @Param        limit   query     int     false  "每页数量"
// @Success      200     {object}  model.Response
// @Failure      403     {object}  model.Response
// @Router       /api/v1/admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	page, limit := handler.PageQuery(c)
	users, total, err := h.adminService.ListUsers(c.Request.Context(), caller, service.ListUsersInput{
		Search:   c.Query("search"),
		Role:     userModel.Role(c.Query("role")),
		Status:   c.Query("status"),
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", gin.H{
		"users":      users,
		"pagination": model.NewPagination(page, limit, total),
	})
}

// GetUser 查询用户详情
// @Summary      查询用户详情
// @Description  含最近帖子和统计数据的管理视图
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "用户ID"
// @Success      200  {object}  model.Response
// @Failure      404  {object}  model.Response
// @Router       /api/v1/admin/users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	detail, err := h.adminService.GetUserDetail(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", detail)
}

// SetRoleRequest 修改角色请求
type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user moderator admin superAdmin"` // 新角色
}

// SetRole 修改用户角色
// @Summary      修改用户角色
// @Description  不允许把自己的角色改离最高层级
// @Tags         管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string          true  "用户ID"
// @Param        request  body      SetRoleRequest  true  "修改角色请求"
// @Success      200      {object}  model.Response
// @Failure      403      {object}  model.Response
// @Failure      404      {object}  model.Response
// @Router       /api/v1/admin/users/{id}/role [put]
func (h *Handler) SetRole(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailBinding(c, err)
		return
	}

	u, err := h.adminService.SetRole(c.Request.Context(), caller, c.Param("id"), userModel.Role(req.Role))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "role updated", u)
}

// SuspendRequest 封禁用户请求
type SuspendRequest struct {
	Reason       string `json:"reason" binding:"required,max=500"`        // 封禁原因（必填）
	DurationDays int    `json:"duration_days" binding:"omitempty,min=1,max=365"` // 封禁天数，默认7天
}

// Suspend 封禁用户
// @Summary      封禁用户
// @Description  封禁用户并吊销其全部刷新令牌；不允许封禁自己
// @Tags         管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string          true  "用户ID"
// @Param        request  body      SuspendRequest  true  "封禁请求"
// @Success      200      {object}  model.Response
// @Failure      403      {object}  model.Response
// @Failure      404      {object}  model.Response
// @Router       /api/v1/admin/users/{id}/suspend [post]
func (h *Handler) Suspend(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	var req SuspendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailBinding(c, err)
		return
	}

	u, err := h.adminService.Suspend(c.Request.Context(), caller, c.Param("id"), req.Reason, req.DurationDays)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "user suspended", u)
}

// Activate 解封用户
// @Summary      解封用户
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "用户ID"
// @Success      200  {object}  model.Response
// @Failure      404  {object}  model.Response
// @Router       /api/v1/admin/users/{id}/activate [post]
func (h *Handler) Activate(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	u, err := h.adminService.Activate(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "user activated", u)
}

// DeleteUser 删除用户
// @Summary      删除用户
// @Description  级联删除用户的帖子、关注关系和令牌；不允许删除自己
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "用户ID"
// @Success      200  {object}  model.Response
// @Failure      403  {object}  model.Response
// @Failure      404  {object}  model.Response
// @Router       /api/v1/admin/users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), caller, c.Param("id")); err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "user deleted", nil)
}
