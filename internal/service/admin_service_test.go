package service

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"civic/internal/model/user"
	"civic/internal/pkg/apperr"
)

// TestGuardSelfAction 测试自操作保护
func TestGuardSelfAction(t *testing.T) {
	Convey("自操作保护测试", t, func() {
		caller := &user.User{ID: "admin-1", Role: user.RoleSuperAdmin}

		Convey("对自己的精确ID拒绝", func() {
			err := guardSelfAction(caller, "admin-1")
			So(err, ShouldNotBeNil)
			So(apperr.KindOf(err), ShouldEqual, apperr.KindForbidden)
		})

		Convey("对其他用户放行", func() {
			So(guardSelfAction(caller, "user-2"), ShouldBeNil)
			// 只比较精确ID，相似ID不触发保护
			So(guardSelfAction(caller, "admin-10"), ShouldBeNil)
		})
	})
}

// TestSuspensionBounds 测试封禁时长约束
func TestSuspensionBounds(t *testing.T) {
	Convey("封禁时长约束", t, func() {
		So(DefaultSuspensionDays, ShouldEqual, 7)
		So(MinSuspensionDays, ShouldEqual, 1)
		So(MaxSuspensionDays, ShouldEqual, 365)
	})
}
