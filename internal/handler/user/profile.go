package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civic/internal/handler"
	"civic/internal/pkg/apperr"
	"civic/internal/service"
)

// GetProfile 查询用户主页
// @Summary      查询用户主页
// @Description  返回用户信息、最近的公开帖子和统计数据
// @Tags         用户
// @Produce      json
// @Param        id   path      string  true  "用户ID"
// @Success      200  {object}  model.Response
// @Failure      404  {object}  model.Response
// @Router       /api/v1/users/{id} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "success", profile)
}

// UpdateProfileRequest 更新个人资料请求
// 所有字段可选，只更新提供的字段
type UpdateProfileRequest struct {
	FullName     *string  `json:"full_name" binding:"omitempty,max=100"`
	Bio          *string  `json:"bio" binding:"omitempty,max=500"`
	ProfileImage *string  `json:"profile_image"`
	CoverImage   *string  `json:"cover_image"`
	Interests    []string `json:"interests"`
}

// UpdateProfile 更新个人资料
// @Summary      更新个人资料
// @Description  更新当前用户的个人资料，管理员可以更新任意用户
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                true  "用户ID"
// @Param        request  body      UpdateProfileRequest  true  "更新请求"
// @Success      200      {object}  model.Response
// @Failure      400      {object}  model.Response
// @Failure      403      {object}  model.Response
// @Router       /api/v1/users/{id} [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	caller, ok := handler.Caller(c)
	if !ok {
		handler.Fail(c, apperr.Forbidden("not authenticated"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailBinding(c, err)
		return
	}

	u, err := h.userService.UpdateProfile(c.Request.Context(), caller, c.Param("id"), service.ProfileUpdate{
		FullName:     req.FullName,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
		CoverImage:   req.CoverImage,
		Interests:    req.Interests,
	})
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, http.StatusOK, "profile updated", u)
}
