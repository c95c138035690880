package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"civic/internal/repository/auth"
	postRepo "civic/internal/repository/post"
	userRepo "civic/internal/repository/user"
	"civic/internal/service"
)

// Scheduler 后台定时任务调度器
// 当前任务：每日分析快照落库、过期刷新令牌清理、帖子计数对账
type Scheduler struct {
	cron          *cron.Cron
	analytics     *service.AnalyticsService
	refreshTokens *auth.RefreshTokenRepo
	users         *userRepo.Repo
	posts         *postRepo.Repo
	snapshotCron  string
}

// NewScheduler 创建调度器
func NewScheduler(analytics *service.AnalyticsService, refreshTokens *auth.RefreshTokenRepo, users *userRepo.Repo, posts *postRepo.Repo, snapshotCron string) *Scheduler {
	return &Scheduler{
		cron:          cron.New(cron.WithSeconds()),
		analytics:     analytics,
		refreshTokens: refreshTokens,
		users:         users,
		posts:         posts,
		snapshotCron:  snapshotCron,
	}
}

// Start 注册任务并启动调度
func (s *Scheduler) Start() error {
	if s.analytics != nil {
		if _, err := s.cron.AddFunc(s.snapshotCron, s.takeSnapshot); err != nil {
			return err
		}
	}
	if s.refreshTokens != nil {
		// 每小时清理一次过期令牌
		if _, err := s.cron.AddFunc("0 0 */1 * * *", s.cleanupTokens); err != nil {
			return err
		}
	}
	if s.users != nil && s.posts != nil {
		// 每日凌晨对账帖子计数（计数是缓存值，以实际文档数为准）
		if _, err := s.cron.AddFunc("0 0 3 * * *", s.reconcileCounters); err != nil {
			return err
		}
	}

	s.cron.Start()
	log.Info().Str("snapshot_cron", s.snapshotCron).Msg("job scheduler started")
	return nil
}

// Stop 停止调度，等待运行中的任务结束
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		log.Warn().Msg("job scheduler stop timed out")
	}
}

func (s *Scheduler) takeSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.analytics.TakeSnapshot(ctx); err != nil {
		log.Error().Err(err).Msg("daily analytics snapshot failed")
	}
}

func (s *Scheduler) cleanupTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := s.refreshTokens.DeleteExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("refresh token cleanup failed")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("expired refresh tokens cleaned up")
	}
}

// reconcileCounters 重算与实际帖子数不一致的用户计数
func (s *Scheduler) reconcileCounters() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	users, err := s.users.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("counter reconciliation failed to list users")
		return
	}

	var fixed int
	for _, u := range users {
		actual, err := s.posts.CountByAuthor(ctx, u.ID)
		if err != nil {
			log.Error().Err(err).Str("user_id", u.ID).Msg("counter reconciliation count failed")
			continue
		}
		if actual == u.TotalPosts {
			continue
		}
		if err := s.users.RecountTotalPosts(ctx, u.ID, actual); err != nil {
			log.Error().Err(err).Str("user_id", u.ID).Msg("counter reconciliation update failed")
			continue
		}
		fixed++
	}
	if fixed > 0 {
		log.Info().Int("fixed", fixed).Msg("post counters reconciled")
	}
}
