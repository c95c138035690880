// 集成测试，需要真实的 MongoDB：
//
//	MONGO_URI=mongodb://localhost:27017 go test ./internal/repository/post -v
//
// 未设置 MONGO_URI 时自动跳过。
package post

import (
	"context"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civic/internal/model/post"
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

	db := client.Database("civic_test_posts")
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

// TestLikeToggle 测试点赞写入时刻的唯一性保证
func TestLikeToggle(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	Convey("点赞守卫测试", t, func() {
		p := &post.Post{
			ID:       id.New(),
			Author:   "author-1",
			Content:  "hello",
			Category: post.CategoryGeneral,
			IsPublic: true,
		}
		So(repo.Create(ctx, p), ShouldBeNil)

		Convey("首次点赞写入成功", func() {
			added, err := repo.AddLike(ctx, p.ID, "liker-1")
			So(err, ShouldBeNil)
			So(added, ShouldBeTrue)

			count, err := repo.LikeCount(ctx, p.ID)
			So(err, ShouldBeNil)
			So(count, ShouldEqual, 1)

			Convey("同一用户重复点赞被守卫拦下", func() {
				added, err := repo.AddLike(ctx, p.ID, "liker-1")
				So(err, ShouldBeNil)
				So(added, ShouldBeFalse)

				count, _ := repo.LikeCount(ctx, p.ID)
				So(count, ShouldEqual, 1)
			})

			Convey("撤销后可以再次点赞", func() {
				removed, err := repo.RemoveLike(ctx, p.ID, "liker-1")
				So(err, ShouldBeNil)
				So(removed, ShouldBeTrue)

				count, _ := repo.LikeCount(ctx, p.ID)
				So(count, ShouldEqual, 0)

				removed, err = repo.RemoveLike(ctx, p.ID, "liker-1")
				So(err, ShouldBeNil)
				So(removed, ShouldBeFalse)
			})
		})
	})
}

// TestReportDedup 测试举报去重与审核状态机
func TestReportDedup(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	Convey("举报与审核测试", t, func() {
		p := &post.Post{
			ID:       id.New(),
			Author:   "author-1",
			Content:  "controversial",
			Category: post.CategoryPolitics,
			IsPublic: true,
		}
		So(repo.Create(ctx, p), ShouldBeNil)

		report := post.Report{User: "reporter-1", Reason: post.ReasonSpam, CreatedAt: time.Now()}

		Convey("首次举报写入并标记 Reported", func() {
			added, err := repo.AddReport(ctx, p.ID, report)
			So(err, ShouldBeNil)
			So(added, ShouldBeTrue)

			loaded, err := repo.FindByID(ctx, p.ID)
			So(err, ShouldBeNil)
			So(loaded.IsReported, ShouldBeTrue)
			So(len(loaded.Reports), ShouldEqual, 1)

			Convey("同一用户重复举报不写入第二条", func() {
				added, err := repo.AddReport(ctx, p.ID, report)
				So(err, ShouldBeNil)
				So(added, ShouldBeFalse)

				loaded, _ := repo.FindByID(ctx, p.ID)
				So(len(loaded.Reports), ShouldEqual, 1)
			})

			Convey("approve 清除标记且保持可见", func() {
				So(repo.Moderate(ctx, p.ID, post.ModerationApprove, "ok"), ShouldBeNil)

				loaded, _ := repo.FindByID(ctx, p.ID)
				So(loaded.IsReported, ShouldBeFalse)
				So(loaded.IsModerated, ShouldBeTrue)
				So(loaded.IsPublic, ShouldBeTrue)
				// 举报记录留档
				So(len(loaded.Reports), ShouldEqual, 1)

				Convey("裁决后的帖子可被新举报重新标记", func() {
					added, err := repo.AddReport(ctx, p.ID, post.Report{
						User: "reporter-2", Reason: post.ReasonHarassment, CreatedAt: time.Now(),
					})
					So(err, ShouldBeNil)
					So(added, ShouldBeTrue)

					loaded, _ := repo.FindByID(ctx, p.ID)
					So(loaded.IsReported, ShouldBeTrue)
				})
			})

			Convey("reject 隐藏帖子但不删除", func() {
				So(repo.Moderate(ctx, p.ID, post.ModerationReject, "removed"), ShouldBeNil)

				loaded, err := repo.FindByID(ctx, p.ID)
				So(err, ShouldBeNil)
				So(loaded.IsPublic, ShouldBeFalse)
				So(loaded.IsModerated, ShouldBeTrue)
			})
		})
	})
}

// TestCreateDefaults 测试创建时的集合初始化
func TestCreateDefaults(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	Convey("创建默认值测试", t, func() {
		p := &post.Post{
			ID:       id.New(),
			Author:   "author-1",
			Content:  "minimal",
			Category: post.CategoryGeneral,
			IsPublic: true,
		}
		So(repo.Create(ctx, p), ShouldBeNil)

		loaded, err := repo.FindByID(ctx, p.ID)
		So(err, ShouldBeNil)
		So(loaded.Likes, ShouldNotBeNil)
		So(loaded.Comments, ShouldNotBeNil)
		So(loaded.Reports, ShouldNotBeNil)
		So(loaded.CreatedAt.IsZero(), ShouldBeFalse)
	})
}
