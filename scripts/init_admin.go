package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"civic/internal/config"
	"civic/internal/model/user"
	"civic/internal/pkg/id"
	"civic/internal/pkg/logger"
	"civic/internal/pkg/mongodb"
	"civic/internal/pkg/password"
	userrepo "civic/internal/repository/user"
)

func main() {
	// 1. 加载配置（与 cmd/root.go 保持一致的搜索路径）
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.civic")

	viper.SetEnvPrefix("CIVIC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
		os.Exit(1)
	}

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	// 2. 连接 MongoDB
	client, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongo")
	}
	defer func() {
		_ = client.Close(context.Background())
	}()

	db := client.Database()
	ctx := context.Background()

	users := userrepo.NewRepo(db)

	// 3. 读取环境变量或使用默认值
	username := os.Getenv("INIT_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	passwordPlain := os.Getenv("INIT_ADMIN_PASSWORD")
	if passwordPlain == "" {
		passwordPlain = "admin123"
	}
	email := os.Getenv("INIT_ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}

	// 4. 检查是否已存在
	existing, err := users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Info().Str("username", username).Msg("super admin not found, will create")
			if err := createSuperAdmin(ctx, users, username, email, passwordPlain); err != nil {
				log.Fatal().Err(err).Msg("create super admin failed")
			}
		} else {
			log.Fatal().Err(err).Msg("failed to query user")
		}
	} else {
		// 已存在，提升为 superAdmin 并激活
		log.Info().Str("username", username).Msg("user exists, will promote to super admin")
		update := bson.M{
			"$set": bson.M{
				"role":      user.RoleSuperAdmin,
				"is_active": true,
				"email":     email,
			},
		}
		if err := users.Update(ctx, existing.ID, update); err != nil {
			log.Fatal().Err(err).Msg("update super admin failed")
		}
	}

	fmt.Printf("Super admin initialized: username=%s password=%s role=superAdmin\n",
		username, passwordPlain)
}

func createSuperAdmin(ctx context.Context, repo *userrepo.Repo, username, email, pwd string) error {
	hashed, err := password.Hash(pwd)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		ID:        id.New(),
		Email:     email,
		Username:  username,
		Password:  hashed,
		FullName:  "Super Admin",
		Role:      user.RoleSuperAdmin,
		IsActive:  true,
		Interests: []string{},
		Followers: []string{},
		Following: []string{},
	}
	return repo.Create(ctx, u)
}
