package post

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civic/internal/handler"
	"civic/internal/model"
	postModel "civic/internal/model/post"
	"civic/internal/service"
)

// List 查询帖子列表
// @Summary      查询帖子列表
// @Description  查询公开帖子，支持按分类/作者筛选和排序
// @Tags         帖子
// @Produce      json
// @Param        category    query     string  false  "分类筛选"
// @Param        author      query     string  false  "作者ID筛选"
// @Param        sort_by     query     string  false  "排序字段：created_at/updated_at"
// @Param        sort_order  query     string  false  "排序方向：asc/desc"
// @Param        page        query     int     false  "页码"
// @Param        limit       query     int     false  "每页数量"
// @Success      200         {object}  model.Response
// @Failure      400         {object}  model.Response
// @Router       /api/v1/posts [get]
func (h *Handler) List(c *gin.Context) {
	page, limit := handler.PageQuery(c)
	posts, total, err := h.postService.List(c.Request.Context(), service.ListInput{
		Category:  postModel.Category(c.Query("category")),
		Author:    c.Query("author"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Page:      page,
		PageSize:  limit,
	})
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", gin.H{
		"posts":      posts,
		"pagination": model.NewPagination(page, limit, total),
	})
}

// Get 查询单个帖子
// @Summary      查询单个帖子
// @Tags         帖子
// @Produce      json
// @Param        id   path      string  true  "帖子ID"
// @Success      200  {object}  model.Response
// @Failure      404  {object}  model.Response
// @Router       /api/v1/posts/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	view, err := h.postService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", view)
}
