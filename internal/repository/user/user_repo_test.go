// 集成测试，需要真实的 MongoDB：
//
//	MONGO_URI=mongodb://localhost:27017 go test ./internal/repository/user -v
//
// 未设置 MONGO_URI 时自动跳过。
package user

import (
	"context"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civic/internal/model/user"
	"civic/internal/pkg/id"
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

	db := client.Database("civic_test_users")
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

// TestFollowEdges 测试镜像关注边的守卫写入
func TestFollowEdges(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	Convey("关注边测试", t, func() {
		a := newTestUser("alice")
		b := newTestUser("bob")
		So(repo.Create(ctx, a), ShouldBeNil)
		So(repo.Create(ctx, b), ShouldBeNil)

		Convey("两条镜像边写入", func() {
			added, err := repo.AddFollowing(ctx, a.ID, b.ID)
			So(err, ShouldBeNil)
			So(added, ShouldBeTrue)

			mirrored, err := repo.AddFollower(ctx, b.ID, a.ID)
			So(err, ShouldBeNil)
			So(mirrored, ShouldBeTrue)

			la, _ := repo.FindByID(ctx, a.ID)
			lb, _ := repo.FindByID(ctx, b.ID)
			So(la.IsFollowing(b.ID), ShouldBeTrue)
			So(lb.Followers, ShouldContain, a.ID)

			Convey("重复关注被守卫拦下", func() {
				added, err := repo.AddFollowing(ctx, a.ID, b.ID)
				So(err, ShouldBeNil)
				So(added, ShouldBeFalse)

				la, _ := repo.FindByID(ctx, a.ID)
				So(len(la.Following), ShouldEqual, 1)
			})

			Convey("取消关注移除两条边", func() {
				removed, err := repo.RemoveFollowing(ctx, a.ID, b.ID)
				So(err, ShouldBeNil)
				So(removed, ShouldBeTrue)

				removed, err = repo.RemoveFollower(ctx, b.ID, a.ID)
				So(err, ShouldBeNil)
				So(removed, ShouldBeTrue)

				Convey("未关注时的移除返回 false", func() {
					removed, err := repo.RemoveFollowing(ctx, a.ID, b.ID)
					So(err, ShouldBeNil)
					So(removed, ShouldBeFalse)
				})
			})

			Convey("删除用户前清理所有指向它的边", func() {
				So(repo.PruneEdges(ctx, b.ID), ShouldBeNil)

				la, _ := repo.FindByID(ctx, a.ID)
				So(la.IsFollowing(b.ID), ShouldBeFalse)
			})
		})
	})
}

// TestSuspension 测试封禁与只追加的管理员备注
func TestSuspension(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	Convey("封禁测试", t, func() {
		u := newTestUser("suspendme")
		So(repo.Create(ctx, u), ShouldBeNil)

		until := time.Now().AddDate(0, 0, 7)
		So(repo.Suspend(ctx, u.ID, until, "spamming"), ShouldBeNil)

		loaded, err := repo.FindByID(ctx, u.ID)
		So(err, ShouldBeNil)
		So(loaded.IsActive, ShouldBeFalse)
		So(loaded.SuspendedUntil, ShouldNotBeNil)
		So(loaded.SuspensionReason, ShouldEqual, "spamming")
		So(loaded.AdminNotes, ShouldContainSubstring, "spamming")

		Convey("解封清除封禁字段但保留备注历史", func() {
			So(repo.Activate(ctx, u.ID), ShouldBeNil)

			loaded, err := repo.FindByID(ctx, u.ID)
			So(err, ShouldBeNil)
			So(loaded.IsActive, ShouldBeTrue)
			So(loaded.SuspensionReason, ShouldBeEmpty)
			// 备注只追加，封禁记录仍在
			So(loaded.AdminNotes, ShouldContainSubstring, "spamming")
			So(loaded.AdminNotes, ShouldContainSubstring, "Activated")
		})
	})
}

// TestSearch 测试模糊搜索
func TestSearch(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	Convey("搜索测试", t, func() {
		a := newTestUser("searchalice")
		b := newTestUser("searchbob")
		b.IsActive = false
		So(repo.Create(ctx, a), ShouldBeNil)
		So(repo.Create(ctx, b), ShouldBeNil)

		Convey("大小写不敏感，只返回激活用户", func() {
			users, total, err := repo.Search(ctx, "SEARCH", 1, 10)
			So(err, ShouldBeNil)
			So(total, ShouldEqual, 1)
			So(users[0].Username, ShouldEqual, "searchalice")
		})

		Convey("正则元字符按字面匹配", func() {
			_, total, err := repo.Search(ctx, ".*", 1, 10)
			So(err, ShouldBeNil)
			So(total, ShouldEqual, 0)
		})
	})
}

// TestTotalPostsCounter 测试发帖计数维护
func TestTotalPostsCounter(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	Convey("发帖计数测试", t, func() {
		u := newTestUser("counter")
		So(repo.Create(ctx, u), ShouldBeNil)

		So(repo.IncTotalPosts(ctx, u.ID, 1), ShouldBeNil)
		So(repo.IncTotalPosts(ctx, u.ID, 1), ShouldBeNil)
		So(repo.IncTotalPosts(ctx, u.ID, -1), ShouldBeNil)

		loaded, _ := repo.FindByID(ctx, u.ID)
		So(loaded.TotalPosts, ShouldEqual, 1)

		Convey("对账重置为真实值", func() {
			So(repo.RecountTotalPosts(ctx, u.ID, 5), ShouldBeNil)
			loaded, _ := repo.FindByID(ctx, u.ID)
			So(loaded.TotalPosts, ShouldEqual, 5)
		})
	})
}
