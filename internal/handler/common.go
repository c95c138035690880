package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"civic/internal/model"
	"civic/internal/model/user"
	"civic/internal/pkg/apperr"
	"civic/internal/pkg/ctxutil"
)

// 分页默认值与上限
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// OK 写入成功响应
func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, model.OK(message, data))
}

// Fail 写入失败响应，HTTP 状态码由错误分类决定
// Internal 错误的细节只进日志
func Fail(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if appErr.Kind == apperr.KindInternal {
		log.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString("request_id")).
			Msg("request failed")
	}
	c.JSON(appErr.Kind.HTTPStatus(), model.Fail(appErr))
}

// FailBinding 写入请求绑定失败响应（聚合全部字段问题）
func FailBinding(c *gin.Context, err error) {
	Fail(c, apperr.FromBinding(err))
}

// PageQuery 解析分页查询参数
func PageQuery(c *gin.Context) (page, limit int64) {
	page, _ = strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ = strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// Caller 从请求 context 中取出已认证用户
// 只在挂了认证中间件的路由上调用
func Caller(c *gin.Context) (*user.User, bool) {
	return ctxutil.GetCaller(c.Request.Context())
}
