package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"civic/internal/model/auth"
	"civic/internal/model/user"
	"civic/internal/pkg/apperr"
	"civic/internal/pkg/id"
	"civic/internal/pkg/jwt"
	"civic/internal/pkg/mongodb"
	"civic/internal/pkg/password"
	authRepo "civic/internal/repository/auth"
	userRepo "civic/internal/repository/user"
)

// AuthService 认证服务
type AuthService struct {
	users         *userRepo.Repo
	refreshTokens *authRepo.RefreshTokenRepo
	jwt           *jwt.JWT
	refreshExpiry time.Duration // Refresh Token过期时间
}

// NewAuthService 创建认证服务
func NewAuthService(
	users *userRepo.Repo,
	refreshTokens *authRepo.RefreshTokenRepo,
	jwtSecret string,
	accessTokenExpiry time.Duration,
	refreshTokenExpiry time.Duration,
) *AuthService {
	return &AuthService{
		users:         users,
		refreshTokens: refreshTokens,
		jwt:           jwt.NewJWT(jwtSecret, accessTokenExpiry),
		refreshExpiry: refreshTokenExpiry,
	}
}

// JWT 返回JWT工具（认证中间件使用）
func (s *AuthService) JWT() *jwt.JWT {
	return s.jwt
}

// Register 用户注册
func (s *AuthService) Register(ctx context.Context, email, username, pwd, fullName string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.ToLower(strings.TrimSpace(username))

	// 检查邮箱是否已被注册
	existing, _ := s.users.FindByEmail(ctx, email)
	if existing != nil {
		return nil, apperr.Conflict("email already registered")
	}

	// 检查用户名是否已存在
	existing, _ = s.users.FindByUsername(ctx, username)
	if existing != nil {
		return nil, apperr.Conflict("username already taken")
	}

	// 加密密码
	hashed, err := password.Hash(pwd)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		return nil, apperr.Internal("failed to hash password", err)
	}

	u := &user.User{
		ID:        id.New(),
		Email:     email,
		Username:  username,
		Password:  hashed,
		FullName:  fullName,
		Role:      user.RoleUser,
		IsActive:  true,
		Interests: []string{},
		Followers: []string{},
		Following: []string{},
	}

	if err := s.users.Create(ctx, u); err != nil {
		// 唯一索引兜底：并发注册时预检查可能漏掉冲突
		if mongodb.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("email or username already taken")
		}
		log.Error().Err(err).Msg("failed to create user")
		return nil, apperr.Internal("failed to create user", err)
	}

	return u, nil
}

// LoginResult 登录结果
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	TokenType    string
	User         *user.User
}

// Login 用户登录
// 封禁到期的账号在登录时自动恢复激活
func (s *AuthService) Login(ctx context.Context, email, pwd string) (*LoginResult, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, apperr.NotFound("invalid email or password")
	}

	if !password.Verify(pwd, u.Password) {
		return nil, apperr.NotFound("invalid email or password")
	}

	now := time.Now()
	if !u.IsActive {
		if u.IsSuspended(now) {
			return nil, apperr.Forbidden("account is suspended")
		}
		// 封禁已到期，恢复激活
		if err := s.users.Activate(ctx, u.ID); err != nil {
			log.Error().Err(err).Str("user_id", u.ID).Msg("failed to reactivate user")
			return nil, apperr.Internal("failed to reactivate user", err)
		}
		u.IsActive = true
		u.SuspendedUntil = nil
		u.SuspensionReason = ""
	}

	accessToken, err := s.jwt.GenerateToken(u.ID, u.Username, string(u.Role))
	if err != nil {
		log.Error().Err(err).Msg("failed to generate access token")
		return nil, apperr.Internal("failed to generate token", err)
	}

	refreshTokenValue := jwt.GenerateRefreshToken()
	refreshToken := &auth.RefreshToken{
		ID:        id.New(),
		UserID:    u.ID,
		Token:     refreshTokenValue,
		ExpiresAt: now.Add(s.refreshExpiry),
	}
	if err := s.refreshTokens.Create(ctx, refreshToken); err != nil {
		log.Error().Err(err).Msg("failed to create refresh token")
		return nil, apperr.Internal("failed to create refresh token", err)
	}

	// 更新最近活跃时间；失败只记录，不影响登录
	if err := s.users.TouchLastActive(ctx, u.ID); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID).Msg("failed to touch last active")
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenValue,
		ExpiresIn:    int(s.jwt.GetExpiration().Seconds()),
		TokenType:    "Bearer",
		User:         u,
	}, nil
}

// RefreshResult 刷新Token结果
type RefreshResult struct {
	AccessToken string
	ExpiresIn   int
	TokenType   string
}

// Refresh 刷新Access Token
func (s *AuthService) Refresh(ctx context.Context, refreshTokenValue string) (*RefreshResult, error) {
	refreshToken, err := s.refreshTokens.FindByToken(ctx, refreshTokenValue)
	if err != nil {
		return nil, apperr.Forbidden("invalid refresh token")
	}

	if refreshToken.IsExpired() {
		_ = s.refreshTokens.DeleteByToken(ctx, refreshTokenValue)
		return nil, apperr.Forbidden("refresh token expired")
	}

	u, err := s.users.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	if u.IsSuspended(time.Now()) {
		return nil, apperr.Forbidden("account is suspended")
	}

	accessToken, err := s.jwt.GenerateToken(u.ID, u.Username, string(u.Role))
	if err != nil {
		log.Error().Err(err).Msg("failed to generate access token")
		return nil, apperr.Internal("failed to generate token", err)
	}

	return &RefreshResult{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwt.GetExpiration().Seconds()),
		TokenType:   "Bearer",
	}, nil
}

// Logout 退出登录，使Refresh Token失效
func (s *AuthService) Logout(ctx context.Context, refreshTokenValue string) error {
	return s.refreshTokens.DeleteByToken(ctx, refreshTokenValue)
}

// TouchLastActive 更新用户最近活跃时间（认证中间件使用）
func (s *AuthService) TouchLastActive(ctx context.Context, userID string) error {
	return s.users.TouchLastActive(ctx, userID)
}

// LoadUser 根据ID加载用户（认证中间件使用）
func (s *AuthService) LoadUser(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return u, nil
}
