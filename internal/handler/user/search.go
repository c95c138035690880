package user

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"civic/internal/handler"
	"civic/internal/model"
	"civic/internal/pkg/apperr"
)

// Search 搜索用户
// @Summary      搜索用户
// @Description  按显示名/用户名/邮箱做大小写不敏感的模糊搜索，只返回激活用户
// @Tags         用户
// @Produce      json
// @Param        q      query     string  true   "搜索关键词"
// @Param        page   query     int     false  "页码"
// @Param        limit  query     int     false  "每页数量"
// @Success      200    {object}  model.Response
// @Failure      400    {object}  model.Response
// @Router       /api/v1/users/search [get]
func (h *Handler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		handler.Fail(c, apperr.Validation("search query is required"))
		return
	}

	page, limit := handler.PageQuery(c)
	users, total, err := h.userService.Search(c.Request.Context(), query, page, limit)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", gin.H{
		"users":      users,
		"pagination": model.NewPagination(page, limit, total),
	})
}

// Posts 查询用户的公开帖子
// @Summary      查询用户的公开帖子
// @Tags         用户
// @Produce      json
// @Param        id     path      string  true   "用户ID"
// @Param        page   query     int     false  "页码"
// @Param        limit  query     int     false  "每页数量"
// @Success      200    {object}  model.Response
// @Router       /api/v1/users/{id}/posts [get]
func (h *Handler) Posts(c *gin.Context) {
	page, limit := handler.PageQuery(c)
	posts, total, err := h.userService.PostsByUser(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", gin.H{
		"posts":      posts,
		"pagination": model.NewPagination(page, limit, total),
	})
}
