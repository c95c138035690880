package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"civic/internal/model/post"
	"civic/internal/model/user"
	"civic/internal/pkg/apperr"
	postRepo "civic/internal/repository/post"
	userRepo "civic/internal/repository/user"
)

// UserService 用户服务：个人资料与关注关系
type UserService struct {
	users *userRepo.Repo
	posts *postRepo.Repo
}

// NewUserService 创建用户服务
func NewUserService(users *userRepo.Repo, posts *postRepo.Repo) *UserService {
	return &UserService{users: users, posts: posts}
}

// Profile 用户主页数据
type Profile struct {
	User  *user.User   `json:"user"`
	Posts []*post.Post `json:"posts"`
	Stats user.Stats   `json:"stats"`
}

// GetProfile 查询用户主页（用户信息 + 最近公开帖子 + 统计数据）
func (s *UserService) GetProfile(ctx context.Context, id string) (*Profile, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to find user", err)
	}

	posts, _, err := s.posts.List(ctx, bson.M{"author": id, "is_public": true}, nil, 1, 10)
	if err != nil {
		return nil, apperr.Internal("failed to find posts", err)
	}

	return &Profile{
		User:  u,
		Posts: posts,
		Stats: u.GetStats(),
	}, nil
}

// ProfileUpdate 可修改的个人资料字段
type ProfileUpdate struct {
	FullName     *string
	Bio          *string
	ProfileImage *string
	CoverImage   *string
	Interests    []string
}

// UpdateProfile 更新个人资料
// 只允许本人或拥有用户管理权限的角色修改
func (s *UserService) UpdateProfile(ctx context.Context, caller *user.User, id string, upd ProfileUpdate) (*user.User, error) {
	if caller.ID != id && !user.Authorize(caller.Role, user.PermManageUsers) {
		return nil, apperr.Forbidden("not allowed to update this profile")
	}

	set := bson.M{}
	if upd.FullName != nil {
		set["full_name"] = *upd.FullName
	}
	if upd.Bio != nil {
		if !user.ValidBioLength(*upd.Bio) {
			return nil, apperr.Validation("bio exceeds maximum length")
		}
		set["bio"] = *upd.Bio
	}
	if upd.ProfileImage != nil {
		set["profile_image"] = *upd.ProfileImage
	}
	if upd.CoverImage != nil {
		set["cover_image"] = *upd.CoverImage
	}
	if upd.Interests != nil {
		for _, interest := range upd.Interests {
			if !user.IsValidInterest(interest) {
				return nil, apperr.Validation("invalid interest: "+interest)
			}
		}
		set["interests"] = upd.Interests
	}

	if len(set) > 0 {
		if err := s.users.Update(ctx, id, bson.M{"$set": set}); err != nil {
			log.Error().Err(err).Str("user_id", id).Msg("failed to update profile")
			return nil, apperr.Internal("failed to update profile", err)
		}
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to reload user", err)
	}
	return u, nil
}

// FollowResult 关注操作结果
type FollowResult struct {
	Following      bool `json:"following"`
	FollowerCount  int  `json:"follower_count"`
	FollowingCount int  `json:"following_count"`
}

// Follow 关注用户
// 两条镜像边分两次写入：第二条出错时回滚第一条，保证不留下半条边；
// 镜像边已存在说明之前留下过半条边，本次写入把它补全而不是报冲突
func (s *UserService) Follow(ctx context.Context, callerID, targetID string) (*FollowResult, error) {
	if callerID == targetID {
		return nil, apperr.Validation("cannot follow yourself")
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to find user", err)
	}

	added, err := s.users.AddFollowing(ctx, callerID, targetID)
	if err != nil {
		return nil, apperr.Internal("failed to follow user", err)
	}
	if !added {
		return nil, apperr.Conflict("already following this user")
	}

	mirrored, err := s.users.AddFollower(ctx, targetID, callerID)
	if err != nil {
		// 回滚第一条边
		if _, rbErr := s.users.RemoveFollowing(ctx, callerID, targetID); rbErr != nil {
			log.Error().Err(rbErr).
				Str("follower", callerID).Str("target", targetID).
				Msg("failed to roll back half-written follow edge")
		}
		return nil, apperr.Internal("failed to follow user", err)
	}
	if !mirrored {
		log.Warn().
			Str("follower", callerID).Str("target", targetID).
			Msg("mirror follow edge was already present, half edge healed")
	}

	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		return nil, apperr.Internal("failed to reload user", err)
	}
	followerCount := len(target.Followers)
	if mirrored {
		followerCount++
	}
	return &FollowResult{
		Following:      true,
		FollowerCount:  followerCount,
		FollowingCount: len(caller.Following),
	}, nil
}

// Unfollow 取消关注
func (s *UserService) Unfollow(ctx context.Context, callerID, targetID string) (*FollowResult, error) {
	if callerID == targetID {
		return nil, apperr.Validation("cannot unfollow yourself")
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to find user", err)
	}

	removed, err := s.users.RemoveFollowing(ctx, callerID, targetID)
	if err != nil {
		return nil, apperr.Internal("failed to unfollow user", err)
	}
	if !removed {
		return nil, apperr.Conflict("not following this user")
	}

	if _, err := s.users.RemoveFollower(ctx, targetID, callerID); err != nil {
		log.Error().Err(err).
			Str("follower", callerID).Str("target", targetID).
			Msg("failed to remove mirror follow edge")
		return nil, apperr.Internal("failed to unfollow user", err)
	}

	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		return nil, apperr.Internal("failed to reload user", err)
	}
	followerCount := len(target.Followers) - 1
	if followerCount < 0 {
		followerCount = 0
	}
	return &FollowResult{
		Following:      false,
		FollowerCount:  followerCount,
		FollowingCount: len(caller.Following),
	}, nil
}

// Followers 分页查询粉丝列表
func (s *UserService) Followers(ctx context.Context, id string, page, pageSize int64) ([]*user.User, int64, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, 0, apperr.NotFound("user not found")
		}
		return nil, 0, apperr.Internal("failed to find user", err)
	}
	return s.expandEdges(ctx, u.Followers, page, pageSize)
}

// Following 分页查询关注列表
func (s *UserService) Following(ctx context.Context, id string, page, pageSize int64) ([]*user.User, int64, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, 0, apperr.NotFound("user not found")
		}
		return nil, 0, apperr.Internal("failed to find user", err)
	}
	return s.expandEdges(ctx, u.Following, page, pageSize)
}

// expandEdges 对ID集合做内存分页后展开为用户
func (s *UserService) expandEdges(ctx context.Context, ids []string, page, pageSize int64) ([]*user.User, int64, error) {
	total := int64(len(ids))
	start := (page - 1) * pageSize
	if start >= total {
		return []*user.User{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	users, err := s.users.FindByIDs(ctx, ids[start:end])
	if err != nil {
		return nil, 0, apperr.Internal("failed to find users", err)
	}
	return users, total, nil
}

// Search 模糊搜索用户
func (s *UserService) Search(ctx context.Context, query string, page, pageSize int64) ([]*user.User, int64, error) {
	users, total, err := s.users.Search(ctx, query, page, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal("failed to search users", err)
	}
	return users, total, nil
}

// PostsByUser 分页查询用户的公开帖子
func (s *UserService) PostsByUser(ctx context.Context, id string, page, pageSize int64) ([]*post.Post, int64, error) {
	posts, total, err := s.posts.List(ctx, bson.M{"author": id, "is_public": true}, nil, page, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal("failed to find posts", err)
	}
	return posts, total, nil
}
