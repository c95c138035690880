package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind 错误分类（对客户端可见的机器可读类型）
type Kind string

const (
	KindNotFound         Kind = "NotFound"         // 引用的用户/帖子不存在
	KindConflict         Kind = "Conflict"         // 唯一性冲突（邮箱/用户名/重复举报/重复关注）
	KindForbidden        Kind = "Forbidden"        // 权限不足或自操作保护
	KindValidationFailed Kind = "ValidationFailed" // 输入结构性校验失败
	KindInternal         Kind = "Internal"         // 存储/基础设施故障，不向客户端透出细节
)

// FieldError 字段级校验问题
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error 应用错误
// Service 层返回 *Error，Handler 层统一转换为响应信封
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap 返回底层错误
func (e *Error) Unwrap() error {
	return e.cause
}

// NotFound 创建 NotFound 错误
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict 创建 Conflict 错误
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Forbidden 创建 Forbidden 错误
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Validation 创建校验错误（聚合全部字段问题，而非只报第一个）
func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidationFailed, Message: message, Fields: fields}
}

// Internal 包装基础设施错误；细节只进日志，不进响应
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// From 将任意错误规整为 *Error；未知错误归为 Internal
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("internal error", err)
}

// KindOf 返回错误的分类；非 *Error 一律视为 Internal
func KindOf(err error) Kind {
	return From(err).Kind
}

// HTTPStatus 错误分类到 HTTP 状态码的映射
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindValidationFailed:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// FromBinding 将 gin 绑定错误转换为聚合的校验错误
// gin 底层使用 validator/v10，ValidationErrors 中含有全部失败字段
func FromBinding(err error) *Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   strings.ToLower(fe.Field()),
				Message: bindingMessage(fe),
			})
		}
		return Validation("validation failed", fields...)
	}
	return Validation(err.Error())
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
