package user

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// TestRoleHierarchy 测试角色层级与权限集合
func TestRoleHierarchy(t *testing.T) {
	Convey("角色层级测试", t, func() {
		Convey("层级从低到高严格有序", func() {
			So(RoleUser.Level(), ShouldBeLessThan, RoleModerator.Level())
			So(RoleModerator.Level(), ShouldBeLessThan, RoleAdmin.Level())
			So(RoleAdmin.Level(), ShouldBeLessThan, RoleSuperAdmin.Level())
		})

		Convey("每一级的权限集合是上一级的严格超集", func() {
			roles := Roles()
			for i := 1; i < len(roles); i++ {
				lower := roles[i-1].Permissions()
				higher := roles[i].Permissions()

				So(len(higher), ShouldBeGreaterThan, len(lower))
				for _, p := range lower {
					So(roles[i].Has(p), ShouldBeTrue)
				}
			}
		})

		Convey("AtLeast 与层级一致", func() {
			So(RoleAdmin.AtLeast(RoleModerator), ShouldBeTrue)
			So(RoleModerator.AtLeast(RoleAdmin), ShouldBeFalse)
			So(RoleUser.AtLeast(RoleUser), ShouldBeTrue)
		})

		Convey("无效角色", func() {
			So(Role("ghost").IsValid(), ShouldBeFalse)
			So(Role("ghost").AtLeast(RoleUser), ShouldBeFalse)
			// 无效角色的权限回退到最低级
			So(Role("ghost").Permissions(), ShouldResemble, RoleUser.Permissions())
		})
	})
}

// TestAuthorize 测试统一授权闸口
func TestAuthorize(t *testing.T) {
	Convey("授权闸口测试", t, func() {
		Convey("普通用户只有基础权限", func() {
			So(Authorize(RoleUser, PermViewPosts), ShouldBeTrue)
			So(Authorize(RoleUser, PermCreatePosts), ShouldBeTrue)
			So(Authorize(RoleUser, PermModerateContent), ShouldBeFalse)
			So(Authorize(RoleUser, PermManageUsers), ShouldBeFalse)
		})

		Convey("审核员可以审核但不能管理用户", func() {
			So(Authorize(RoleModerator, PermModerateContent), ShouldBeTrue)
			So(Authorize(RoleModerator, PermViewReports), ShouldBeTrue)
			So(Authorize(RoleModerator, PermManageUsers), ShouldBeFalse)
			So(Authorize(RoleModerator, PermViewAnalytics), ShouldBeFalse)
		})

		Convey("管理员可以管理用户和查看分析", func() {
			So(Authorize(RoleAdmin, PermManageUsers), ShouldBeTrue)
			So(Authorize(RoleAdmin, PermViewAnalytics), ShouldBeTrue)
			So(Authorize(RoleAdmin, PermManageContent), ShouldBeTrue)
			So(Authorize(RoleAdmin, PermManageSystem), ShouldBeFalse)
		})

		Convey("超级管理员拥有全部权限", func() {
			all := []Permission{
				PermViewPosts, PermCreatePosts, PermVote, PermComment,
				PermModerateContent, PermViewReports,
				PermManageUsers, PermViewAnalytics, PermManageContent,
				PermManageSystem, PermManageSettings,
			}
			for _, p := range all {
				So(Authorize(RoleSuperAdmin, p), ShouldBeTrue)
			}
		})
	})
}
