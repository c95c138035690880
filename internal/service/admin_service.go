package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"civic/internal/model/post"
	"civic/internal/model/user"
	"civic/internal/pkg/apperr"
	authRepo "civic/internal/repository/auth"
	postRepo "civic/internal/repository/post"
	userRepo "civic/internal/repository/user"
)

// 封禁时长约束（天）
const (
	DefaultSuspensionDays = 7
	MinSuspensionDays     = 1
	MaxSuspensionDays     = 365
)

// AdminService 管理服务：用户管理与内容审核
// 所有修改状态的入口在动手前都要经过权限闸口，路由层的权限中间件只是第一道防线
type AdminService struct {
	users         *userRepo.Repo
	posts         *postRepo.Repo
	refreshTokens *authRepo.RefreshTokenRepo
}

// NewAdminService 创建管理服务
func NewAdminService(users *userRepo.Repo, posts *postRepo.Repo, refreshTokens *authRepo.RefreshTokenRepo) *AdminService {
	return &AdminService{users: users, posts: posts, refreshTokens: refreshTokens}
}

// ListUsersInput 用户列表查询条件
type ListUsersInput struct {
	Search   string
	Role     user.Role
	Status   string // active / suspended，空表示全部
	Page     int64
	PageSize int64
}

// ListUsers 查询用户列表（管理视图）
func (s *AdminService) ListUsers(ctx context.Context, caller *user.User, in ListUsersInput) ([]*user.User, int64, error) {
	if !user.Authorize(caller.Role, user.PermManageUsers) {
		return nil, 0, apperr.Forbidden("insufficient permissions")
	}

	filter := bson.M{}
	if in.Search != "" {
		filter = userRepo.SearchFilter(in.Search)
	}
	if in.Role != "" {
		if !in.Role.IsValid() {
			return nil, 0, apperr.Validation("invalid role: " + in.Role.String())
		}
		filter["role"] = in.Role
	}
	switch in.Status {
	case "active":
		filter["is_active"] = true
	case "suspended":
		filter["is_active"] = false
	case "":
	default:
		return nil, 0, apperr.Validation("invalid status: " + in.Status)
	}

	users, total, err := s.users.List(ctx, filter, in.Page, in.PageSize)
	if err != nil {
		return nil, 0, apperr.Internal("failed to list users", err)
	}
	return users, total, nil
}

// UserDetail 用户管理详情
type UserDetail struct {
	User        *user.User   `json:"user"`
	RecentPosts []*post.Post `json:"recent_posts"`
	PostCount   int64        `json:"post_count"`
	Stats       user.Stats   `json:"stats"`
}

// GetUserDetail 查询用户详情（含最近帖子）
func (s *AdminService) GetUserDetail(ctx context.Context, caller *user.User, targetID string) (*UserDetail, error) {
	if !user.Authorize(caller.Role, user.PermManageUsers) {
		return nil, apperr.Forbidden("insufficient permissions")
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to find user", err)
	}

	posts, total, err := s.posts.List(ctx, bson.M{"author": targetID}, nil, 1, 10)
	if err != nil {
		return nil, apperr.Internal("failed to find posts", err)
	}

	return &UserDetail{
		User:        target,
		RecentPosts: posts,
		PostCount:   total,
		Stats:       target.GetStats(),
	}, nil
}

// guardSelfAction 自操作保护：封禁/删除/降级自己一律拒绝
// 只比较精确ID，不做任何别名推断
func guardSelfAction(caller *user.User, targetID string) error {
	if caller.ID == targetID {
		return apperr.Forbidden("cannot perform this action on your own account")
	}
	return nil
}

// SetRole 修改用户角色
func (s *AdminService) SetRole(ctx context.Context, caller *user.User, targetID string, role user.Role) (*user.User, error) {
	if !user.Authorize(caller.Role, user.PermManageUsers) {
		return nil, apperr.Forbidden("insufficient permissions")
	}
	if !role.IsValid() {
		return nil, apperr.Validation("invalid role: " + role.String())
	}
	// 不允许把自己的角色改离最高层级
	if caller.ID == targetID && role != user.RoleSuperAdmin {
		return nil, apperr.Forbidden("cannot change your own role")
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to find user", err)
	}

	if err := s.users.SetRole(ctx, targetID, role); err != nil {
		log.Error().Err(err).Str("user_id", targetID).Msg("failed to set role")
		return nil, apperr.Internal("failed to set role", err)
	}

	log.Info().
		Str("admin", caller.ID).
		Str("user_id", targetID).
		Str("from", target.Role.String()).
		Str("to", role.String()).
		Msg("user role changed")

	target.Role = role
	return target, nil
}

// Suspend 封禁用户
// durationDays 为 0 时取默认时长，范围限制在 1 到 365 天
func (s *AdminService) Suspend(ctx context.Context, caller *user.User, targetID, reason string, durationDays int) (*user.User, error) {
	if !user.Authorize(caller.Role, user.PermManageUsers) {
		return nil, apperr.Forbidden("insufficient permissions")
	}
	if err := guardSelfAction(caller, targetID); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, apperr.Validation("suspension reason is required")
	}
	if durationDays == 0 {
		durationDays = DefaultSuspensionDays
	}
	if durationDays < MinSuspensionDays || durationDays > MaxSuspensionDays {
		return nil, apperr.Validation("suspension duration must be between 1 and 365 days")
	}

	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to find user", err)
	}

	until := time.Now().AddDate(0, 0, durationDays)
	if err := s.users.Suspend(ctx, targetID, until, reason); err != nil {
		log.Error().Err(err).Str("user_id", targetID).Msg("failed to suspend user")
		return nil, apperr.Internal("failed to suspend user", err)
	}

	// 封禁即时生效：吊销全部刷新令牌
	if err := s.refreshTokens.DeleteByUserID(ctx, targetID); err != nil {
		log.Warn().Err(err).Str("user_id", targetID).Msg("failed to revoke refresh tokens")
	}

	log.Info().
		Str("admin", caller.ID).
		Str("user_id", targetID).
		Int("days", durationDays).
		Msg("user suspended")

	return s.users.FindByID(ctx, targetID)
}

// Activate 解封用户
func (s *AdminService) Activate(ctx context.Context, caller *user.User, targetID string) (*user.User, error) {
	if !user.Authorize(caller.Role, user.PermManageUsers) {
		return nil, apperr.Forbidden("insufficient permissions")
	}

	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to find user", err)
	}

	if err := s.users.Activate(ctx, targetID); err != nil {
		log.Error().Err(err).Str("user_id", targetID).Msg("failed to activate user")
		return nil, apperr.Internal("failed to activate user", err)
	}

	log.Info().Str("admin", caller.ID).Str("user_id", targetID).Msg("user activated")
	return s.users.FindByID(ctx, targetID)
}

// DeleteUser 删除用户及其全部数据
// 级联顺序：帖子 → 镜像关注边 → 刷新令牌 → 用户本体，
// 任何一步失败都中止，绝不留下指向已删除用户的悬挂引用
func (s *AdminService) DeleteUser(ctx context.Context, caller *user.User, targetID string) error {
	if !user.Authorize(caller.Role, user.PermManageUsers) {
		return apperr.Forbidden("insufficient permissions")
	}
	if err := guardSelfAction(caller, targetID); err != nil {
		return err
	}

	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("failed to find user", err)
	}

	deleted, err := s.posts.DeleteByAuthor(ctx, targetID)
	if err != nil {
		log.Error().Err(err).Str("user_id", targetID).Msg("failed to delete user posts")
		return apperr.Internal("failed to delete user posts", err)
	}

	if err := s.users.PruneEdges(ctx, targetID); err != nil {
		log.Error().Err(err).Str("user_id", targetID).Msg("failed to prune follow edges")
		return apperr.Internal("failed to prune follow edges", err)
	}

	if err := s.refreshTokens.DeleteByUserID(ctx, targetID); err != nil {
		log.Warn().Err(err).Str("user_id", targetID).Msg("failed to revoke refresh tokens")
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		log.Error().Err(err).Str("user_id", targetID).Msg("failed to delete user")
		return apperr.Internal("failed to delete user", err)
	}

	log.Info().
		Str("admin", caller.ID).
		Str("user_id", targetID).
		Int64("posts_deleted", deleted).
		Msg("user deleted")
	return nil
}

// ReportedPosts 查询有未处理举报的帖子
func (s *AdminService) ReportedPosts(ctx context.Context, caller *user.User, page, pageSize int64) ([]*post.Post, int64, error) {
	if !user.Authorize(caller.Role, user.PermViewReports) {
		return nil, 0, apperr.Forbidden("insufficient permissions")
	}

	posts, total, err := s.posts.FindReported(ctx, page, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal("failed to find reported posts", err)
	}
	return posts, total, nil
}

// Moderate 对帖子做出审核裁决
// approve: 清除举报标记，可见性不变；reject: 清除举报标记并隐藏帖子
// 裁决对已处理的帖子重复执行是幂等的
func (s *AdminService) Moderate(ctx context.Context, caller *user.User, postID string, action post.ModerationAction, notes string) (*post.Post, error) {
	if !user.Authorize(caller.Role, user.PermModerateContent) {
		return nil, apperr.Forbidden("insufficient permissions")
	}
	if !action.IsValid() {
		return nil, apperr.Validation("invalid moderation action: " + string(action))
	}

	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, apperr.Internal("failed to find post", err)
	}

	if notes == "" {
		if action == post.ModerationApprove {
			notes = "Content approved by moderator"
		} else {
			notes = "Content removed by moderator"
		}
	}

	if err := s.posts.Moderate(ctx, postID, action, notes); err != nil {
		log.Error().Err(err).Str("post_id", postID).Msg("failed to moderate post")
		return nil, apperr.Internal("failed to moderate post", err)
	}

	log.Info().
		Str("moderator", caller.ID).
		Str("post_id", postID).
		Str("action", string(action)).
		Msg("post moderated")

	return s.posts.FindByID(ctx, postID)
}
