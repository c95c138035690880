package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"civic/internal/config"
	"civic/internal/handler"
	adminHandler "civic/internal/handler/admin"
	authHandler "civic/internal/handler/auth"
	postHandler "civic/internal/handler/post"
	userHandler "civic/internal/handler/user"
	"civic/internal/jobs"
	userModel "civic/internal/model/user"
	"civic/internal/pkg/cache"
	"civic/internal/pkg/mongodb"
	analyticsRepo "civic/internal/repository/analytics"
	authRepo "civic/internal/repository/auth"
	postRepo "civic/internal/repository/post"
	userRepo "civic/internal/repository/user"
	"civic/internal/server/middleware"
	"civic/internal/service"
)

// Server HTTP 服务器
type Server struct {
	cfg       *config.Config
	engine    *gin.Engine
	mongo     *mongodb.Client
	redis     *cache.RedisCache
	scheduler *jobs.Scheduler
}

// New 创建服务器实例
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// MongoDB 是硬依赖，连不上直接失败
	mongoClient, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}

	// Redis 可选，连不上降级为无缓存
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	srv := &Server{
		cfg:    cfg,
		engine: engine,
		mongo:  mongoClient,
		redis:  redisCache,
	}

	srv.setupRoutes()

	return srv, nil
}

// setupRoutes 组装依赖并设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS(s.cfg.Server.AllowedOrigins))

	// 健康检查
	healthHandler := handler.NewHealthHandler(s.mongo, s.redis)
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	db := s.mongo.Database()
	users := userRepo.NewRepo(db)
	posts := postRepo.NewRepo(db)
	refreshTokens := authRepo.NewRefreshTokenRepo(db)
	snapshots := analyticsRepo.NewSnapshotRepo(db)

	jwtSecret := s.cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		log.Warn().Msg("JWT secret not configured, using default (NOT SECURE for production)")
	}
	accessTokenExpiry := s.cfg.Auth.AccessTokenExpiry
	if accessTokenExpiry == 0 {
		accessTokenExpiry = 24 * time.Hour
	}
	refreshTokenExpiry := s.cfg.Auth.RefreshTokenExpiry
	if refreshTokenExpiry == 0 {
		refreshTokenExpiry = 7 * 24 * time.Hour
	}

	authSvc := service.NewAuthService(users, refreshTokens, jwtSecret, accessTokenExpiry, refreshTokenExpiry)
	userSvc := service.NewUserService(users, posts)
	postSvc := service.NewPostService(posts, users)
	adminSvc := service.NewAdminService(users, posts, refreshTokens)
	analyticsSvc := service.NewAnalyticsService(users, posts, snapshots, s.redis, s.cfg.Analytics.CacheTTL)

	authHdl := authHandler.NewHandler(authSvc)
	userHdl := userHandler.NewHandler(userSvc)
	postHdl := postHandler.NewHandler(postSvc)
	adminHdl := adminHandler.NewHandler(adminSvc, analyticsSvc)

	authed := middleware.Auth(authSvc.JWT(), authSvc)

	v1 := s.engine.Group("/api/v1")
	{
		// 认证接口
		v1.POST("/auth/register", authHdl.Register)
		v1.POST("/auth/login", authHdl.Login)
		v1.POST("/auth/refresh", authHdl.Refresh)
		v1.POST("/auth/logout", authed, authHdl.Logout)
		v1.GET("/auth/me", authed, authHdl.GetMe)

		// 用户接口
		v1.GET("/users/search", userHdl.Search)
		v1.GET("/users/:id", userHdl.GetProfile)
		v1.PUT("/users/:id", authed, userHdl.UpdateProfile)
		v1.GET("/users/:id/posts", userHdl.Posts)
		v1.GET("/users/:id/followers", userHdl.Followers)
		v1.GET("/users/:id/following", userHdl.Following)
		v1.POST("/users/:id/follow", authed, userHdl.Follow)
		v1.DELETE("/users/:id/follow", authed, userHdl.Unfollow)

		// 帖子接口
		v1.GET("/posts", postHdl.List)
		v1.POST("/posts", authed, postHdl.Create)
		v1.GET("/posts/:id", postHdl.Get)
		v1.PUT("/posts/:id", authed, postHdl.Update)
		v1.DELETE("/posts/:id", authed, postHdl.Delete)
		v1.POST("/posts/:id/like", authed, postHdl.ToggleLike)
		v1.GET("/posts/:id/comments", postHdl.Comments)
		v1.POST("/posts/:id/comments", authed, postHdl.AddComment)
		v1.POST("/posts/:id/report", authed, postHdl.Report)

		// 管理接口：路由级权限是第一道防线，Service 层还会再查一次
		admin := v1.Group("/admin", authed)
		{
			manageUsers := middleware.RequirePermission(userModel.PermManageUsers)
			admin.GET("/users", manageUsers, adminHdl.ListUsers)
			admin.GET("/users/:id", manageUsers, adminHdl.GetUser)
			admin.PUT("/users/:id/role", manageUsers, adminHdl.SetRole)
			admin.POST("/users/:id/suspend", manageUsers, adminHdl.Suspend)
			admin.POST("/users/:id/activate", manageUsers, adminHdl.Activate)
			admin.DELETE("/users/:id", manageUsers, adminHdl.DeleteUser)

			admin.GET("/posts/reported", middleware.RequirePermission(userModel.PermViewReports), adminHdl.ReportedPosts)
			admin.POST("/posts/:id/moderate", middleware.RequirePermission(userModel.PermModerateContent), adminHdl.Moderate)

			viewAnalytics := middleware.RequirePermission(userModel.PermViewAnalytics)
			admin.GET("/dashboard", viewAnalytics, adminHdl.Dashboard)
			admin.GET("/analytics", viewAnalytics, adminHdl.Analytics)
			admin.GET("/analytics/growth", viewAnalytics, adminHdl.Growth)
			admin.GET("/analytics/content/performance", viewAnalytics, adminHdl.ContentPerformance)
			admin.GET("/analytics/history", viewAnalytics, adminHdl.AnalyticsHistory)
		}
	}

	// 后台定时任务
	if s.cfg.Analytics.SnapshotEnabled {
		s.scheduler = jobs.NewScheduler(analyticsSvc, refreshTokens, users, posts, s.cfg.Analytics.SnapshotCron)
	} else {
		s.scheduler = jobs.NewScheduler(nil, refreshTokens, users, posts, s.cfg.Analytics.SnapshotCron)
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	if s.scheduler != nil {
		if err := s.scheduler.Start(); err != nil {
			log.Error().Err(err).Msg("failed to start job scheduler")
		}
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		if s.scheduler != nil {
			s.scheduler.Stop()
		}
		if s.mongo != nil {
			if err := s.mongo.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
