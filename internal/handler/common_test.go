package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"civic/internal/model"
	"civic/internal/pkg/apperr"
)

func testContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

// TestPageQuery 测试分页参数解析
func TestPageQuery(t *testing.T) {
	Convey("分页参数测试", t, func() {
		Convey("缺省值", func() {
			c, _ := testContext(http.MethodGet, "/x", "")
			page, limit := PageQuery(c)
			So(page, ShouldEqual, 1)
			So(limit, ShouldEqual, DefaultPageSize)
		})

		Convey("非法值回退", func() {
			c, _ := testContext(http.MethodGet, "/x?page=-2&limit=0", "")
			page, limit := PageQuery(c)
			So(page, ShouldEqual, 1)
			So(limit, ShouldEqual, DefaultPageSize)
		})

		Convey("超出上限被截断", func() {
			c, _ := testContext(http.MethodGet, "/x?page=3&limit=9999", "")
			page, limit := PageQuery(c)
			So(page, ShouldEqual, 3)
			So(limit, ShouldEqual, MaxPageSize)
		})
	})
}

// TestFail 测试失败响应信封
func TestFail(t *testing.T) {
	Convey("失败响应测试", t, func() {
		Convey("Conflict 映射到 400 并带机器可读分类", func() {
			c, w := testContext(http.MethodPost, "/x", "")
			Fail(c, apperr.Conflict("already following this user"))

			So(w.Code, ShouldEqual, http.StatusBadRequest)

			var resp model.Response
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Success, ShouldBeFalse)
			So(resp.Message, ShouldEqual, "already following this user")
			So(resp.Error.Kind, ShouldEqual, "Conflict")
		})

		Convey("NotFound 映射到 404", func() {
			c, w := testContext(http.MethodGet, "/x", "")
			Fail(c, apperr.NotFound("post not found"))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Internal 错误不透出细节", func() {
			c, w := testContext(http.MethodGet, "/x", "")
			Fail(c, apperr.Internal("mongo exploded: topology closed", nil))

			So(w.Code, ShouldEqual, http.StatusInternalServerError)

			var resp model.Response
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Message, ShouldEqual, "internal server error")
			So(resp.Error.Kind, ShouldEqual, "Internal")
		})
	})
}

// TestFailBinding 测试绑定错误聚合全部字段问题
func TestFailBinding(t *testing.T) {
	Convey("绑定错误聚合测试", t, func() {
		type registerRequest struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required,min=6"`
		}

		c, w := testContext(http.MethodPost, "/x", `{"email":"not-an-email","password":"abc"}`)

		var req registerRequest
		err := c.ShouldBindJSON(&req)
		So(err, ShouldNotBeNil)

		FailBinding(c, err)
		So(w.Code, ShouldEqual, http.StatusBadRequest)

		var resp model.Response
		So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
		So(resp.Error.Kind, ShouldEqual, "ValidationFailed")
		// 两个字段的问题都被报告，而不是只报第一个
		So(len(resp.Error.Fields), ShouldEqual, 2)
	})
}
