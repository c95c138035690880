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
	"civic/internal/pkg/id"
	postRepo "civic/internal/repository/post"
	userRepo "civic/internal/repository/user"
)

// PostService 帖子服务：发帖与互动
type PostService struct {
	posts *postRepo.Repo
	users *userRepo.Repo
}

// NewPostService 创建帖子服务
func NewPostService(posts *postRepo.Repo, users *userRepo.Repo) *PostService {
	return &PostService{posts: posts, users: users}
}

// CreateInput 创建帖子的输入
type CreateInput struct {
	Content              string
	Category             post.Category
	Images               []string
	PerformanceReference *post.PerformanceReference
}

// Create 创建帖子
func (s *PostService) Create(ctx context.Context, authorID string, in CreateInput) (*post.Post, error) {
	if in.Content == "" {
		return nil, apperr.Validation("content is required")
	}
	if !post.ValidContentLength(in.Content) {
		return nil, apperr.Validation("content exceeds maximum length")
	}
	category := in.Category
	if category == "" {
		category = post.CategoryGeneral
	}
	if !category.IsValid() {
		return nil, apperr.Validation("invalid category: "+string(category))
	}

	if in.PerformanceReference != nil && in.PerformanceReference.Timestamp.IsZero() {
		in.PerformanceReference.Timestamp = time.Now()
	}

	p := &post.Post{
		ID:                   id.New(),
		Author:               authorID,
		Content:              in.Content,
		Images:               in.Images,
		Category:             category,
		PerformanceReference: in.PerformanceReference,
		IsPublic:             true,
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	if err := s.posts.Create(ctx, p); err != nil {
		log.Error().Err(err).Msg("failed to create post")
		return nil, apperr.Internal("failed to create post", err)
	}

	// 发帖计数是增量维护的缓存值，失败不回滚帖子，记录后等待对账
	if err := s.users.IncTotalPosts(ctx, authorID, 1); err != nil {
		log.Warn().Err(err).Str("user_id", authorID).Msg("failed to increment total posts, counter needs reconciliation")
	}

	return p, nil
}

// AuthorInfo 帖子展示用的作者摘要
type AuthorInfo struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	ProfileImage string `json:"profile_image"`
	Role         string `json:"role"`
	IsVerified   bool   `json:"is_verified"`
}

// PostView 帖子视图（帖子 + 作者摘要 + 派生计数）
type PostView struct {
	*post.Post
	AuthorInfo   *AuthorInfo `json:"author_info,omitempty"`
	LikeCount    int         `json:"like_count"`
	CommentCount int         `json:"comment_count"`
	ShareCount   int         `json:"share_count"`
}

// Get 查询单个帖子（展开作者）
func (s *PostService) Get(ctx context.Context, postID string) (*PostView, error) {
	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, apperr.Internal("failed to find post", err)
	}
	views := s.expandAuthors(ctx, []*post.Post{p})
	return views[0], nil
}

// ListInput 帖子列表查询条件
type ListInput struct {
	Category  post.Category
	Author    string
	SortBy    string // created_at 或 updated_at
	SortOrder string // asc 或 desc
	Page      int64
	PageSize  int64
}

// List 查询公开帖子列表
func (s *PostService) List(ctx context.Context, in ListInput) ([]*PostView, int64, error) {
	filter := bson.M{"is_public": true}
	if in.Category != "" {
		if !in.Category.IsValid() {
			return nil, 0, apperr.Validation("invalid category: " + string(in.Category))
		}
		filter["category"] = in.Category
	}
	if in.Author != "" {
		filter["author"] = in.Author
	}

	sortField := "created_at"
	if in.SortBy == "updated_at" {
		sortField = "updated_at"
	}
	order := -1
	if in.SortOrder == "asc" {
		order = 1
	}

	posts, total, err := s.posts.List(ctx, filter, bson.D{bson.E{Key: sortField, Value: order}}, in.Page, in.PageSize)
	if err != nil {
		return nil, 0, apperr.Internal("failed to find posts", err)
	}
	return s.expandAuthors(ctx, posts), total, nil
}

// authorInfos 批量查询用户摘要，查询失败时降级为空映射
func (s *PostService) authorInfos(ctx context.Context, ids []string) map[string]*AuthorInfo {
	authors := make(map[string]*AuthorInfo)
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		log.Warn().Err(err).Msg("failed to expand authors")
		return authors
	}
	for _, u := range users {
		authors[u.ID] = &AuthorInfo{
			ID:           u.ID,
			Username:     u.Username,
			FullName:     u.FullName,
			ProfileImage: u.ProfileImage,
			Role:         u.Role.String(),
			IsVerified:   u.IsVerified,
		}
	}
	return authors
}

// expandAuthors 批量展开作者摘要，作者查询失败时降级为不带作者的视图
func (s *PostService) expandAuthors(ctx context.Context, posts []*post.Post) []*PostView {
	authorIDs := make([]string, 0, len(posts))
	seen := make(map[string]bool)
	for _, p := range posts {
		if !seen[p.Author] {
			seen[p.Author] = true
			authorIDs = append(authorIDs, p.Author)
		}
	}

	authors := s.authorInfos(ctx, authorIDs)

	views := make([]*PostView, len(posts))
	for i, p := range posts {
		views[i] = &PostView{
			Post:         p,
			AuthorInfo:   authors[p.Author],
			LikeCount:    p.LikeCount(),
			CommentCount: p.CommentCount(),
			ShareCount:   p.ShareCount(),
		}
	}
	return views
}

// UpdateInput 可修改的帖子字段（作者不可变）
type UpdateInput struct {
	Content  *string
	Category *post.Category
	Images   []string
}

// Update 更新帖子，只允许作者或拥有内容管理权限的角色修改
func (s *PostService) Update(ctx context.Context, caller *user.User, postID string, in UpdateInput) (*post.Post, error) {
	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, apperr.Internal("failed to find post", err)
	}

	if p.Author != caller.ID && !user.Authorize(caller.Role, user.PermManageContent) {
		return nil, apperr.Forbidden("not allowed to update this post")
	}

	set := bson.M{}
	if in.Content != nil {
		if *in.Content == "" {
			return nil, apperr.Validation("content is required")
		}
		if !post.ValidContentLength(*in.Content) {
			return nil, apperr.Validation("content exceeds maximum length")
		}
		set["content"] = *in.Content
	}
	if in.Category != nil {
		if !in.Category.IsValid() {
			return nil, apperr.Validation("invalid category: " + string(*in.Category))
		}
		set["category"] = *in.Category
	}
	if in.Images != nil {
		set["images"] = in.Images
	}

	if len(set) > 0 {
		if err := s.posts.Update(ctx, postID, bson.M{"$set": set}); err != nil {
			log.Error().Err(err).Str("post_id", postID).Msg("failed to update post")
			return nil, apperr.Internal("failed to update post", err)
		}
	}

	return s.posts.FindByID(ctx, postID)
}

// Delete 删除帖子，只允许作者或拥有内容管理权限的角色
func (s *PostService) Delete(ctx context.Context, caller *user.User, postID string) error {
	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound("post not found")
		}
		return apperr.Internal("failed to find post", err)
	}

	if p.Author != caller.ID && !user.Authorize(caller.Role, user.PermManageContent) {
		return apperr.Forbidden("not allowed to delete this post")
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		log.Error().Err(err).Str("post_id", postID).Msg("failed to delete post")
		return apperr.Internal("failed to delete post", err)
	}

	if err := s.users.IncTotalPosts(ctx, p.Author, -1); err != nil {
		log.Warn().Err(err).Str("user_id", p.Author).Msg("failed to decrement total posts, counter needs reconciliation")
	}
	return nil
}

// LikeResult 点赞操作结果
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// ToggleLike 点赞开关：已点赞则撤销，未点赞则写入
// 两个半边操作各自带守卫条件，同一用户并发请求不会产生重复点赞
func (s *PostService) ToggleLike(ctx context.Context, userID, postID string) (*LikeResult, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, apperr.Internal("failed to find post", err)
	}

	liked := false
	removed, err := s.posts.RemoveLike(ctx, postID, userID)
	if err != nil {
		return nil, apperr.Internal("failed to toggle like", err)
	}
	if !removed {
		// AddLike 返回 false 说明并发请求刚写入了同一条点赞，当前状态仍是已点赞
		if _, err := s.posts.AddLike(ctx, postID, userID); err != nil {
			return nil, apperr.Internal("failed to toggle like", err)
		}
		liked = true
	}

	count, err := s.posts.LikeCount(ctx, postID)
	if err != nil {
		return nil, apperr.Internal("failed to count likes", err)
	}
	return &LikeResult{Liked: liked, LikeCount: count}, nil
}

// CommentResult 评论操作结果
type CommentResult struct {
	Comment      post.Comment `json:"comment"`
	CommentCount int          `json:"comment_count"`
}

// AddComment 发表评论
func (s *PostService) AddComment(ctx context.Context, userID, postID, content string) (*CommentResult, error) {
	if content == "" {
		return nil, apperr.Validation("comment content is required")
	}
	if !post.ValidCommentLength(content) {
		return nil, apperr.Validation("comment exceeds maximum length")
	}

	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, apperr.Internal("failed to find post", err)
	}

	comment := post.Comment{
		ID:        id.New(),
		User:      userID,
		Content:   content,
		Likes:     []string{},
		CreatedAt: time.Now(),
	}
	if err := s.posts.AddComment(ctx, postID, comment); err != nil {
		log.Error().Err(err).Str("post_id", postID).Msg("failed to add comment")
		return nil, apperr.Internal("failed to add comment", err)
	}

	return &CommentResult{
		Comment:      comment,
		CommentCount: p.CommentCount() + 1,
	}, nil
}

// CommentView 评论视图（评论 + 评论者摘要）
type CommentView struct {
	post.Comment
	AuthorInfo *AuthorInfo `json:"author_info,omitempty"`
}

// Comments 分页查询评论（展开评论者），按创建时间倒序
func (s *PostService) Comments(ctx context.Context, postID string, page, pageSize int64) ([]CommentView, int64, error) {
	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, 0, apperr.NotFound("post not found")
		}
		return nil, 0, apperr.Internal("failed to find post", err)
	}

	comments := make([]post.Comment, len(p.Comments))
	copy(comments, p.Comments)
	// 评论按插入顺序存储，倒序即最新在前
	for i, j := 0, len(comments)-1; i < j; i, j = i+1, j-1 {
		comments[i], comments[j] = comments[j], comments[i]
	}

	total := int64(len(comments))
	start := (page - 1) * pageSize
	if start >= total {
		return []CommentView{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	comments = comments[start:end]

	commenterIDs := make([]string, 0, len(comments))
	seen := make(map[string]bool)
	for _, c := range comments {
		if !seen[c.User] {
			seen[c.User] = true
			commenterIDs = append(commenterIDs, c.User)
		}
	}
	authors := s.authorInfos(ctx, commenterIDs)

	views := make([]CommentView, len(comments))
	for i, c := range comments {
		views[i] = CommentView{Comment: c, AuthorInfo: authors[c.User]}
	}
	return views, total, nil
}

// Report 举报帖子
// 同一用户对同一帖子终生只计一次举报，重复举报返回 Conflict
func (s *PostService) Report(ctx context.Context, userID, postID string, reason post.ReportReason, description string) error {
	if !reason.IsValid() {
		return apperr.Validation("invalid report reason: " + string(reason))
	}

	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound("post not found")
		}
		return apperr.Internal("failed to find post", err)
	}

	added, err := s.posts.AddReport(ctx, postID, post.Report{
		User:        userID,
		Reason:      reason,
		Description: description,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return apperr.Internal("failed to report post", err)
	}
	if !added {
		return apperr.Conflict("you have already reported this post")
	}
	return nil
}
