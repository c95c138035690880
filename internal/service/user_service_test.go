// 集成测试，需要真实的 MongoDB：
//
//	MONGO_URI=mongodb://localhost:27017 go test ./internal/service -v
//
// 未设置 MONGO_URI 时自动跳过。
package service

import (
	"context"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civic/internal/model/user"
	"civic/internal/pkg/apperr"
	"civic/internal/pkg/id"
	postRepo "civic/internal/repository/post"
	userRepo "civic/internal/repository/user"
)

func testDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}

	db := client.Database("civic_test_services")
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func newTestUser(username string) *user.User {
	return &user.User{
		ID:        id.New(),
		Email:     username + "@example.com",
		Username:  username,
		Password:  "hashed",
		FullName:  "Test " + username,
		Role:      user.RoleUser,
		IsActive:  true,
		Interests: []string{},
		Followers: []string{},
		Following: []string{},
	}
}

// TestFollowEdgeRecovery 测试关注边的自愈与冲突语义
func TestFollowEdgeRecovery(t *testing.T) {
	db := testDB(t)
	users := userRepo.NewRepo(db)
	posts := postRepo.NewRepo(db)
	svc := NewUserService(users, posts)
	ctx := context.Background()

	Convey("关注边测试", t, func() {
		a := newTestUser("follower-a")
		b := newTestUser("target-b")
		So(users.Create(ctx, a), ShouldBeNil)
		So(users.Create(ctx, b), ShouldBeNil)

		Convey("镜像边残留时关注操作补全半条边", func() {
			// 模拟之前中断留下的半条边：只有粉丝侧写入成功
			mirrored, err := users.AddFollower(ctx, b.ID, a.ID)
			So(err, ShouldBeNil)
			So(mirrored, ShouldBeTrue)

			result, err := svc.Follow(ctx, a.ID, b.ID)
			So(err, ShouldBeNil)
			So(result.Following, ShouldBeTrue)
			So(result.FollowerCount, ShouldEqual, 1)

			loadedA, err := users.FindByID(ctx, a.ID)
			So(err, ShouldBeNil)
			loadedB, err := users.FindByID(ctx, b.ID)
			So(err, ShouldBeNil)
			So(loadedA.IsFollowing(b.ID), ShouldBeTrue)
			So(loadedB.Followers, ShouldContain, a.ID)
		})

		Convey("完整边已存在时重复关注返回冲突", func() {
			_, err := svc.Follow(ctx, a.ID, b.ID)
			So(err, ShouldBeNil)

			_, err = svc.Follow(ctx, a.ID, b.ID)
			So(err, ShouldNotBeNil)
			So(apperr.From(err).Kind, ShouldEqual, apperr.KindConflict)
		})
	})
}
