package apperr

import (
	"errors"
	"net/http"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// TestKinds 测试错误分类与状态码映射
func TestKinds(t *testing.T) {
	Convey("错误分类测试", t, func() {
		Convey("分类到状态码的映射", func() {
			So(KindNotFound.HTTPStatus(), ShouldEqual, http.StatusNotFound)
			So(KindConflict.HTTPStatus(), ShouldEqual, http.StatusBadRequest)
			So(KindValidationFailed.HTTPStatus(), ShouldEqual, http.StatusBadRequest)
			So(KindForbidden.HTTPStatus(), ShouldEqual, http.StatusForbidden)
			So(KindInternal.HTTPStatus(), ShouldEqual, http.StatusInternalServerError)
		})

		Convey("构造函数设置正确的分类", func() {
			So(KindOf(NotFound("x")), ShouldEqual, KindNotFound)
			So(KindOf(Conflict("x")), ShouldEqual, KindConflict)
			So(KindOf(Forbidden("x")), ShouldEqual, KindForbidden)
			So(KindOf(Validation("x")), ShouldEqual, KindValidationFailed)
			So(KindOf(Internal("x", nil)), ShouldEqual, KindInternal)
		})

		Convey("未知错误归为 Internal", func() {
			So(KindOf(errors.New("boom")), ShouldEqual, KindInternal)
		})

		Convey("Unwrap 透出底层错误", func() {
			cause := errors.New("db down")
			err := Internal("storage failed", cause)
			So(errors.Is(err, cause), ShouldBeTrue)
		})

		Convey("包装过的应用错误穿透 From", func() {
			orig := Conflict("duplicate")
			wrapped := From(orig)
			So(wrapped, ShouldEqual, orig)
		})
	})
}

// TestValidationFields 测试字段级校验错误聚合
func TestValidationFields(t *testing.T) {
	Convey("校验错误聚合测试", t, func() {
		err := Validation("validation failed",
			FieldError{Field: "email", Message: "is required"},
			FieldError{Field: "password", Message: "must be at least 6 characters"},
		)

		So(err.Kind, ShouldEqual, KindValidationFailed)
		So(len(err.Fields), ShouldEqual, 2)
		So(err.Fields[0].Field, ShouldEqual, "email")
		So(err.Fields[1].Field, ShouldEqual, "password")
	})
}
