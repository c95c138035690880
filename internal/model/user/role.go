package user

// Role 用户角色
// 严格有序的层级：user < moderator < admin < superAdmin
// 每一级的权限集合是下一级的严格子集
type Role string

const (
	RoleUser       Role = "user"       // 普通用户
	RoleModerator  Role = "moderator"  // 内容审核员
	RoleAdmin      Role = "admin"      // 管理员
	RoleSuperAdmin Role = "superAdmin" // 超级管理员
)

// Permission 权限能力
type Permission string

const (
	PermViewPosts       Permission = "viewPosts"
	PermCreatePosts     Permission = "createPosts"
	PermVote            Permission = "vote"
	PermComment         Permission = "comment"
	PermModerateContent Permission = "moderateContent"
	PermViewReports     Permission = "viewReports"
	PermManageUsers     Permission = "manageUsers"
	PermViewAnalytics   Permission = "viewAnalytics"
	PermManageContent   Permission = "manageContent"
	PermManageSystem    Permission = "manageSystem"
	PermManageSettings  Permission = "manageSettings"
)

// roleLevels 角色层级，所有比较都通过这张表，不允许散落的角色字符串判断
var roleLevels = map[Role]int{
	RoleUser:       0,
	RoleModerator:  1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// rolePermissions 每一级相对上一级新增的权限
var rolePermissions = map[Role][]Permission{
	RoleUser:       {PermViewPosts, PermCreatePosts, PermVote, PermComment},
	RoleModerator:  {PermModerateContent, PermViewReports},
	RoleAdmin:      {PermManageUsers, PermViewAnalytics, PermManageContent},
	RoleSuperAdmin: {PermManageSystem, PermManageSettings},
}

// orderedRoles 从低到高的角色顺序
var orderedRoles = []Role{RoleUser, RoleModerator, RoleAdmin, RoleSuperAdmin}

// IsValid 检查角色是否有效
func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

// String 返回角色字符串
func (r Role) String() string {
	return string(r)
}

// Level 返回角色层级；无效角色视为最低级
func (r Role) Level() int {
	return roleLevels[r]
}

// AtLeast 判断角色层级是否不低于给定角色
func (r Role) AtLeast(other Role) bool {
	return r.IsValid() && r.Level() >= other.Level()
}

// Permissions 返回角色的完整权限集合（含所有低层级角色的权限）
func (r Role) Permissions() []Permission {
	if !r.IsValid() {
		r = RoleUser
	}
	var perms []Permission
	for _, role := range orderedRoles {
		perms = append(perms, rolePermissions[role]...)
		if role == r {
			break
		}
	}
	return perms
}

// Has 判断角色是否拥有某个权限
func (r Role) Has(perm Permission) bool {
	for _, p := range r.Permissions() {
		if p == perm {
			return true
		}
	}
	return false
}

// Authorize 权限闸口：判断调用者角色是否被授权执行某操作
// 纯函数，无副作用；所有管理入口在修改状态前必须经过这里
func Authorize(caller Role, required Permission) bool {
	return caller.Has(required)
}

// Roles 返回所有有效角色，从低到高
func Roles() []Role {
	out := make([]Role, len(orderedRoles))
	copy(out, orderedRoles)
	return out
}
