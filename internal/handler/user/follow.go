package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civic/internal/handler"
	"civic/internal/model"
	"civic/internal/pkg/apperr"
)

// Follow 关注用户
// @Summary      关注用户
// @Description  关注目标用户；重复关注返回Conflict
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "目标用户ID"
// @Success      200  {object}  model.Response
// @Failure      400  {object}  model.Response
// @Failure      404  {object}  model.Response
// @Router       /api/v1/users/{id}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	result, err := h.userService.Follow(c.Request.Context(), caller.ID, c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "followed", result)
}

// Unfollow 取消关注
// @Summary      取消关注
// @Description  取消关注目标用户；未关注时返回Conflict
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "目标用户ID"
// @Success      200  {object}  model.Response
// @Failure      400  {object}  model.Response
// @Failure      404  {object}  model.Response
// @Router       /api/v1/users/{id}/follow [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	result, err := h.userService.Unfollow(c.Request.Context(), caller.ID, c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "unfollowed", result)
}

// Followers 查询粉丝列表
// @Summary      查询粉丝列表
// @Tags         用户
// @Produce      json
// @Param        id     path      string  true   "用户ID"
// @Param        page   query     int     false  "页码"
// @Param        limit  query     int     false  "每页数量"
// @Success      200    {object}  model.Response
// @Router       /api/v1/users/{id}/followers [get]
func (h *Handler) Followers(c *gin.Context) {
	page, limit := handler.PageQuery(c)
	users, total, err := h.userService.Followers(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", gin.H{
		"users":      users,
		"pagination": model.NewPagination(page, limit, total),
	})
}

// Following 查询关注列表
// @Summary      查询关注列表
// @Tags         用户
// @Produce      json
// @Param        id     path      string  true   "用户ID"
// @Param        page   query     int     false  "页码"
// @Param        limit  query     int     false  "每页数量"
// @Success      200    {object}  model.Response
// @Router       /api/v1/users/{id}/following [get]
func (h *Handler) Following(c *gin.Context) {
	page, limit := handler.PageQuery(c)
	users, total, err := h.userService.Following(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", gin.H{
		"users":      users,
		"pagination": model.NewPagination(page, limit, total),
	})
}
