package user

import (
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// TestBioLength 测试简介长度约束按字符计数
func TestBioLength(t *testing.T) {
	Convey("简介长度约束测试", t, func() {
		So(ValidBioLength(strings.Repeat("公", MaxBioLength)), ShouldBeTrue)
		So(ValidBioLength(strings.Repeat("公", MaxBioLength+1)), ShouldBeFalse)
		So(ValidBioLength(strings.Repeat("a", MaxBioLength)), ShouldBeTrue)
		So(ValidBioLength(strings.Repeat("a", MaxBioLength+1)), ShouldBeFalse)
	})
}

// TestIsSuspended 测试封禁状态判断
func TestIsSuspended(t *testing.T) {
	Convey("封禁状态测试", t, func() {
		now := time.Now()

		Convey("激活用户未被封禁", func() {
			u := &User{IsActive: true}
			So(u.IsSuspended(now), ShouldBeFalse)
		})

		Convey("封禁截止时间在未来时仍被封禁", func() {
			until := now.Add(24 * time.Hour)
			u := &User{IsActive: false, SuspendedUntil: &until}
			So(u.IsSuspended(now), ShouldBeTrue)
		})

		Convey("封禁到期后不再算封禁", func() {
			until := now.Add(-time.Hour)
			u := &User{IsActive: false, SuspendedUntil: &until}
			So(u.IsSuspended(now), ShouldBeFalse)
		})

		Convey("无截止时间的停用账号视为封禁", func() {
			u := &User{IsActive: false}
			So(u.IsSuspended(now), ShouldBeTrue)
		})
	})
}

// TestGetStats 测试统计数据派生
func TestGetStats(t *testing.T) {
	Convey("统计数据测试", t, func() {
		u := &User{
			Followers:  []string{"a", "b", "c"},
			Following:  []string{"a"},
			TotalPosts: 5,
		}

		stats := u.GetStats()
		So(stats.Followers, ShouldEqual, 3)
		So(stats.Following, ShouldEqual, 1)
		So(stats.TotalPosts, ShouldEqual, 5)

		Convey("关注判断", func() {
			So(u.IsFollowing("a"), ShouldBeTrue)
			So(u.IsFollowing("b"), ShouldBeFalse)
		})
	})
}

// TestInterests 测试兴趣领域枚举
func TestInterests(t *testing.T) {
	Convey("兴趣领域测试", t, func() {
		So(IsValidInterest("Politics"), ShouldBeTrue)
		So(IsValidInterest("Technology"), ShouldBeTrue)
		// General 只用于帖子分类，不是兴趣领域
		So(IsValidInterest("General"), ShouldBeFalse)
		So(IsValidInterest("politics"), ShouldBeFalse)
	})
}
