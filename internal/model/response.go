package model

import (
	"civic/internal/pkg/apperr"
)

// Response 统一响应信封
// 移动端依赖这个结构：成功与失败之间只有 data 字段不同
type Response struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Data    any        `json:"data"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo 错误描述（机器可读的 kind + 可选的字段级问题）
type ErrorInfo struct {
	Kind   string              `json:"kind"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

// OK 构造成功响应
func OK(message string, data any) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// Fail 构造失败响应；Internal 错误不透出内部细节
func Fail(err error) Response {
	appErr := apperr.From(err)

	message := appErr.Message
	if appErr.Kind == apperr.KindInternal {
		message = "internal server error"
	}

	return Response{
		Success: false,
		Message: message,
		Data:    nil,
		Error: &ErrorInfo{
			Kind:   string(appErr.Kind),
			Fields: appErr.Fields,
		},
	}
}

// Pagination 分页信息
type Pagination struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewPagination 计算分页信息
func NewPagination(page, limit, total int64) Pagination {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}
