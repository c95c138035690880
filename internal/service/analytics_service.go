package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"civic/internal/analytics"
	analyticsModel "civic/internal/model/analytics"
	"civic/internal/model/post"
	"civic/internal/model/user"
	"civic/internal/pkg/apperr"
	"civic/internal/pkg/cache"
	"civic/internal/pkg/id"
	snapshotRepo "civic/internal/repository/analytics"
	postRepo "civic/internal/repository/post"
	userRepo "civic/internal/repository/user"
)

// AnalyticsService 分析服务
// 报表从原始记录实时聚合；Redis 可用时结果按周期缓存
type AnalyticsService struct {
	users     *userRepo.Repo
	posts     *postRepo.Repo
	snapshots *snapshotRepo.SnapshotRepo
	cache     *cache.RedisCache // 可为 nil，降级为无缓存
	cacheTTL  time.Duration
}

// NewAnalyticsService 创建分析服务
func NewAnalyticsService(
	users *userRepo.Repo,
	posts *postRepo.Repo,
	snapshots *snapshotRepo.SnapshotRepo,
	redisCache *cache.RedisCache,
	cacheTTL time.Duration,
) *AnalyticsService {
	return &AnalyticsService{
		users:     users,
		posts:     posts,
		snapshots: snapshots,
		cache:     redisCache,
		cacheTTL:  cacheTTL,
	}
}

// Report 分析报表
type Report struct {
	Period string           `json:"period"`
	Window analytics.Window `json:"window"`

	Users struct {
		Total     int64 `json:"total"`
		Active    int64 `json:"active"`
		New       int64 `json:"new"`
		Suspended int64 `json:"suspended"`
	} `json:"users"`

	Content struct {
		TotalPosts int64 `json:"total_posts"`
		NewPosts   int64 `json:"new_posts"`
		Likes      int64 `json:"likes"`
		Comments   int64 `json:"comments"`
		Shares     int64 `json:"shares"`
	} `json:"content"`

	AverageEngagement analytics.Averages         `json:"average_engagement"`
	Categories        []analytics.KeyCount       `json:"categories"`
	Roles             []analytics.KeyCount       `json:"roles"`
	DailyActivity     []analytics.DayBucket      `json:"daily_activity"`
	TopUsers          []analytics.TopUser        `json:"top_users"`
	Moderation        analytics.ModerationCounts `json:"moderation"`
}

// topUsersLimit 互动排行默认条数
const topUsersLimit = 10

// GetReport 生成窗口化分析报表
// 未知周期令牌回退到默认周期，报表中回显实际生效的令牌
func (s *AnalyticsService) GetReport(ctx context.Context, periodToken string) (*Report, error) {
	period := analytics.ParsePeriod(periodToken)
	key := cache.AnalyticsCacheKey(string(period))

	if s.cache != nil {
		var cached Report
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	report, err := s.buildReport(ctx, period, time.Now())
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache analytics report")
		}
	}
	return report, nil
}

func (s *AnalyticsService) buildReport(ctx context.Context, period analytics.Period, now time.Time) (*Report, error) {
	window := period.Resolve(now)

	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to load users", err)
	}
	allPosts, err := s.posts.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to load posts", err)
	}

	// 窗口筛选在内存中完成，窗口语义与纯聚合函数保持一处定义
	windowPosts := make([]*post.Post, 0, len(allPosts))
	for _, p := range allPosts {
		if window.Contains(p.CreatedAt) {
			windowPosts = append(windowPosts, p)
		}
	}
	windowUsers := make([]*user.User, 0)
	for _, u := range users {
		if window.Contains(u.CreatedAt) {
			windowUsers = append(windowUsers, u)
		}
	}

	report := &Report{
		Period: string(period),
		Window: window,
	}

	report.Users.Total = int64(len(users))
	report.Users.New = int64(len(windowUsers))
	for _, u := range users {
		if !u.LastActive.Before(window.Start) {
			report.Users.Active++
		}
		if !u.IsActive {
			report.Users.Suspended++
		}
	}

	totals := analytics.SumTotals(windowPosts)
	report.Content.TotalPosts = int64(len(allPosts))
	report.Content.NewPosts = int64(len(windowPosts))
	report.Content.Likes = totals.Likes
	report.Content.Comments = totals.Comments
	report.Content.Shares = totals.Shares

	report.AverageEngagement = analytics.AverageEngagement(windowPosts)
	report.Categories = analytics.CategoryDistribution(windowPosts)
	report.Roles = analytics.RoleDistribution(users)
	report.DailyActivity = analytics.DailyActivity(windowPosts)
	report.TopUsers = analytics.TopEngagers(users, allPosts, topUsersLimit)
	report.Moderation = analytics.SnapshotModeration(allPosts)

	return report, nil
}

// GrowthReport 用户增长报表
type GrowthReport struct {
	Period string                  `json:"period"`
	Window analytics.Window        `json:"window"`
	Total  int64                   `json:"total"`
	New    int64                   `json:"new"`
	Points []analytics.GrowthPoint `json:"points"`
}

// GetGrowth 生成用户增长报表
func (s *AnalyticsService) GetGrowth(ctx context.Context, periodToken string) (*GrowthReport, error) {
	period := analytics.ParsePeriod(periodToken)
	key := cache.GrowthCacheKey(string(period))

	if s.cache != nil {
		var cached GrowthReport
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	window := period.Resolve(time.Now())
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to load users", err)
	}

	windowUsers := make([]*user.User, 0)
	for _, u := range users {
		if window.Contains(u.CreatedAt) {
			windowUsers = append(windowUsers, u)
		}
	}

	report := &GrowthReport{
		Period: string(period),
		Window: window,
		Total:  int64(len(users)),
		New:    int64(len(windowUsers)),
		Points: analytics.UserGrowth(windowUsers),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache growth report")
		}
	}
	return report, nil
}

// topPostsLimit 内容表现排行条数
const topPostsLimit = 20

// PerformancePost 表现排行中的帖子摘要
type PerformancePost struct {
	ID           string        `json:"id"`
	Content      string        `json:"content"`
	Category     post.Category `json:"category"`
	Author       *AuthorInfo   `json:"author,omitempty"`
	LikeCount    int           `json:"like_count"`
	CommentCount int           `json:"comment_count"`
	ShareCount   int           `json:"share_count"`
	CreatedAt    time.Time     `json:"created_at"`
}

// PerformanceReport 内容表现报表
type PerformanceReport struct {
	Period     string                          `json:"period"`
	Window     analytics.Window                `json:"window"`
	TopPosts   []PerformancePost               `json:"top_posts"`
	Categories []analytics.CategoryPerformance `json:"categories"`
	Trends     []analytics.EngagementPoint     `json:"trends"`
}

// GetContentPerformance 生成内容表现报表
// 表现排行、分类表现、按日互动趋势都在同一窗口内计算
func (s *AnalyticsService) GetContentPerformance(ctx context.Context, periodToken string) (*PerformanceReport, error) {
	period := analytics.ParsePeriod(periodToken)
	key := cache.PerformanceCacheKey(string(period))

	if s.cache != nil {
		var cached PerformanceReport
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	window := period.Resolve(time.Now())
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to load users", err)
	}
	allPosts, err := s.posts.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to load posts", err)
	}

	windowPosts := make([]*post.Post, 0, len(allPosts))
	for _, p := range allPosts {
		if window.Contains(p.CreatedAt) {
			windowPosts = append(windowPosts, p)
		}
	}

	authors := make(map[string]*AuthorInfo, len(users))
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

	ranked := analytics.RankPosts(windowPosts, topPostsLimit)
	topPosts := make([]PerformancePost, len(ranked))
	for i, p := range ranked {
		topPosts[i] = PerformancePost{
			ID:           p.ID,
			Content:      p.Content,
			Category:     p.Category,
			Author:       authors[p.Author],
			LikeCount:    p.LikeCount(),
			CommentCount: p.CommentCount(),
			ShareCount:   p.ShareCount(),
			CreatedAt:    p.CreatedAt,
		}
	}

	report := &PerformanceReport{
		Period:     string(period),
		Window:     window,
		TopPosts:   topPosts,
		Categories: analytics.CategoryPerformances(windowPosts),
		Trends:     analytics.EngagementTrend(windowPosts),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache performance report")
		}
	}
	return report, nil
}

// Dashboard 仪表盘摘要
type Dashboard struct {
	TotalUsers     int64 `json:"total_users"`
	ActiveUsers    int64 `json:"active_users"`
	SuspendedUsers int64 `json:"suspended_users"`
	TotalPosts     int64 `json:"total_posts"`
	ReportedPosts  int64 `json:"reported_posts"`
	PostsToday     int64 `json:"posts_today"`
	UsersToday     int64 `json:"users_today"`
}

// GetDashboard 生成仪表盘摘要（全部走计数查询，不拉全量数据）
func (s *AnalyticsService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	if s.cache != nil {
		var cached Dashboard
		if err := s.cache.Get(ctx, cache.DashboardCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	d := &Dashboard{}
	var err error
	if d.TotalUsers, err = s.users.Count(ctx, bson.M{}); err != nil {
		return nil, apperr.Internal("failed to count users", err)
	}
	if d.ActiveUsers, err = s.users.Count(ctx, bson.M{"is_active": true}); err != nil {
		return nil, apperr.Internal("failed to count users", err)
	}
	d.SuspendedUsers = d.TotalUsers - d.ActiveUsers
	if d.TotalPosts, err = s.posts.Count(ctx, bson.M{}); err != nil {
		return nil, apperr.Internal("failed to count posts", err)
	}
	if d.ReportedPosts, err = s.posts.Count(ctx, bson.M{"is_reported": true}); err != nil {
		return nil, apperr.Internal("failed to count posts", err)
	}

	dayStart := time.Now().In(analytics.BucketLoc).Truncate(24 * time.Hour)
	if d.PostsToday, err = s.posts.Count(ctx, bson.M{"created_at": bson.M{"$gte": dayStart}}); err != nil {
		return nil, apperr.Internal("failed to count posts", err)
	}
	if d.UsersToday, err = s.users.Count(ctx, bson.M{"created_at": bson.M{"$gte": dayStart}}); err != nil {
		return nil, apperr.Internal("failed to count users", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.DashboardCacheKey, d, s.cacheTTL); err != nil {
			log.Warn().Err(err).Msg("failed to cache dashboard")
		}
	}
	return d, nil
}

// TakeSnapshot 生成并落库每日快照（定时任务调用）
func (s *AnalyticsService) TakeSnapshot(ctx context.Context) (*analyticsModel.Snapshot, error) {
	report, err := s.buildReport(ctx, analytics.Period1D, time.Now())
	if err != nil {
		return nil, err
	}

	topCategories := make([]analyticsModel.CategoryCount, 0, len(report.Categories))
	for _, kc := range report.Categories {
		topCategories = append(topCategories, analyticsModel.CategoryCount{
			Category: kc.Key,
			Count:    kc.Count,
		})
	}

	avg := report.AverageEngagement.Likes + report.AverageEngagement.Comments + report.AverageEngagement.Shares

	snapshot := &analyticsModel.Snapshot{
		ID:            id.New(),
		Date:          time.Now().In(analytics.BucketLoc).Truncate(24 * time.Hour),
		TotalUsers:    report.Users.Total,
		ActiveUsers:   report.Users.Active,
		NewUsers:      report.Users.New,
		TotalPosts:    report.Content.TotalPosts,
		NewPosts:      report.Content.NewPosts,
		TotalComments: report.Content.Comments,
		TotalLikes:    report.Content.Likes,

		AverageEngagement: avg,
		TopCategories:     topCategories,
		Moderation: analyticsModel.ModerationStats{
			ReportedPosts:  report.Moderation.ReportedPosts,
			ModeratedPosts: report.Moderation.ModeratedPosts,
			SuspendedUsers: report.Users.Suspended,
		},
	}

	if err := s.snapshots.Create(ctx, snapshot); err != nil {
		log.Error().Err(err).Msg("failed to persist analytics snapshot")
		return nil, apperr.Internal("failed to persist snapshot", err)
	}

	log.Info().Time("date", snapshot.Date).Msg("analytics snapshot taken")
	return snapshot, nil
}

// History 查询历史快照
func (s *AnalyticsService) History(ctx context.Context, periodToken string) ([]*analyticsModel.Snapshot, error) {
	window := analytics.ParsePeriod(periodToken).Resolve(time.Now())
	snapshots, err := s.snapshots.DateRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, apperr.Internal("failed to load snapshots", err)
	}
	return snapshots, nil
}
