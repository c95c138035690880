package analytics

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"civic/internal/model/post"
	"civic/internal/model/user"
)

func postAt(author string, category post.Category, created time.Time, likes, comments int) *post.Post {
	p := &post.Post{
		Author:    author,
		Category:  category,
		CreatedAt: created,
		IsPublic:  true,
	}
	for i := 0; i < likes; i++ {
		p.Likes = append(p.Likes, post.Like{User: author, CreatedAt: created})
	}
	for i := 0; i < comments; i++ {
		p.Comments = append(p.Comments, post.Comment{User: author, Content: "c", CreatedAt: created})
	}
	return p
}

// TestWindowedActivity 测试窗口筛选与按日聚合
func TestWindowedActivity(t *testing.T) {
	Convey("窗口聚合测试", t, func() {
		now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		window := Period7D.Resolve(now)

		// 三篇帖子：3天前、5天前、10天前
		posts := []*post.Post{
			postAt("u1", post.CategoryPolitics, now.AddDate(0, 0, -3), 2, 1),
			postAt("u2", post.CategoryEducation, now.AddDate(0, 0, -5), 0, 3),
			postAt("u1", post.CategoryPolitics, now.AddDate(0, 0, -10), 9, 9),
		}

		var inWindow []*post.Post
		for _, p := range posts {
			if window.Contains(p.CreatedAt) {
				inWindow = append(inWindow, p)
			}
		}

		Convey("7天窗口只包含前两篇", func() {
			So(len(inWindow), ShouldEqual, 2)
		})

		Convey("按日聚合产生两个桶，升序且稀疏", func() {
			buckets := DailyActivity(inWindow)
			So(len(buckets), ShouldEqual, 2)

			// 5天前的桶在前
			So(buckets[0].Day, ShouldEqual, 25)
			So(buckets[0].Posts, ShouldEqual, 1)
			So(buckets[0].Comments, ShouldEqual, 3)

			So(buckets[1].Day, ShouldEqual, 27)
			So(buckets[1].Likes, ShouldEqual, 2)
		})

		Convey("互动总量只计窗口内", func() {
			totals := SumTotals(inWindow)
			So(totals.Likes, ShouldEqual, 2)
			So(totals.Comments, ShouldEqual, 4)
		})
	})
}

// TestAverageEngagement 测试平均互动量
func TestAverageEngagement(t *testing.T) {
	Convey("平均互动量测试", t, func() {
		now := time.Now()

		Convey("没有帖子时各项为 0", func() {
			avg := AverageEngagement(nil)
			So(avg.Likes, ShouldEqual, 0)
			So(avg.Comments, ShouldEqual, 0)
			So(avg.Shares, ShouldEqual, 0)
		})

		Convey("均值计算", func() {
			posts := []*post.Post{
				postAt("a", post.CategoryGeneral, now, 4, 2),
				postAt("b", post.CategoryGeneral, now, 0, 0),
			}
			avg := AverageEngagement(posts)
			So(avg.Likes, ShouldEqual, 2.0)
			So(avg.Comments, ShouldEqual, 1.0)
		})
	})
}

// TestDistributions 测试分组计数的排序规则
func TestDistributions(t *testing.T) {
	Convey("分组计数测试", t, func() {
		now := time.Now()

		Convey("计数降序，计数相同按键名升序", func() {
			posts := []*post.Post{
				postAt("a", post.CategoryPolitics, now, 0, 0),
				postAt("a", post.CategoryPolitics, now, 0, 0),
				postAt("a", post.CategoryEducation, now, 0, 0),
				postAt("a", post.CategoryEconomy, now, 0, 0),
			}
			dist := CategoryDistribution(posts)
			So(len(dist), ShouldEqual, 3)
			So(dist[0].Key, ShouldEqual, "Politics")
			So(dist[0].Count, ShouldEqual, 2)
			// Economy 和 Education 计数相同，按字母序
			So(dist[1].Key, ShouldEqual, "Economy")
			So(dist[2].Key, ShouldEqual, "Education")
		})

		Convey("角色分布", func() {
			users := []*user.User{
				{ID: "1", Role: user.RoleUser},
				{ID: "2", Role: user.RoleUser},
				{ID: "3", Role: user.RoleAdmin},
			}
			dist := RoleDistribution(users)
			So(dist[0].Key, ShouldEqual, "user")
			So(dist[0].Count, ShouldEqual, 2)
			So(dist[1].Key, ShouldEqual, "admin")
		})
	})
}

// TestTopEngagers 测试互动排行
func TestTopEngagers(t *testing.T) {
	Convey("互动排行测试", t, func() {
		now := time.Now()
		users := []*user.User{
			{ID: "u1", Username: "alice"},
			{ID: "u2", Username: "bob"},
			{ID: "u3", Username: "carol"},
		}
		posts := []*post.Post{
			postAt("u1", post.CategoryGeneral, now, 3, 2), // 5
			postAt("u2", post.CategoryGeneral, now, 1, 1), // 2
			postAt("u3", post.CategoryGeneral, now, 2, 0), // 2
		}

		Convey("按互动量降序，同分按用户ID升序", func() {
			top := TopEngagers(users, posts, 10)
			So(len(top), ShouldEqual, 3)
			So(top[0].ID, ShouldEqual, "u1")
			So(top[0].TotalEngagement, ShouldEqual, 5)
			// u2 和 u3 同为 2 分，u2 的 ID 较小
			So(top[1].ID, ShouldEqual, "u2")
			So(top[2].ID, ShouldEqual, "u3")
		})

		Convey("limit 截断", func() {
			top := TopEngagers(users, posts, 1)
			So(len(top), ShouldEqual, 1)
			So(top[0].ID, ShouldEqual, "u1")
		})

		Convey("没有帖子的用户互动量为 0 但仍参与排名", func() {
			top := TopEngagers(users, nil, 10)
			So(len(top), ShouldEqual, 3)
			So(top[0].TotalEngagement, ShouldEqual, 0)
			So(top[0].ID, ShouldEqual, "u1")
		})
	})
}

// TestUserGrowth 测试用户增长聚合
func TestUserGrowth(t *testing.T) {
	Convey("用户增长测试", t, func() {
		day1 := time.Date(2026, 8, 20, 3, 0, 0, 0, time.UTC)
		day2 := time.Date(2026, 8, 22, 23, 0, 0, 0, time.UTC)

		users := []*user.User{
			{ID: "1", CreatedAt: day1},
			{ID: "2", CreatedAt: day1.Add(5 * time.Hour)},
			{ID: "3", CreatedAt: day2},
		}

		points := UserGrowth(users)
		So(len(points), ShouldEqual, 2)
		So(points[0].Day, ShouldEqual, 20)
		So(points[0].NewUsers, ShouldEqual, 2)
		So(points[1].Day, ShouldEqual, 22)
		So(points[1].NewUsers, ShouldEqual, 1)
	})
}

// TestSnapshotModeration 测试审核现状计数
func TestSnapshotModeration(t *testing.T) {
	Convey("审核现状测试", t, func() {
		posts := []*post.Post{
			{IsReported: true, IsPublic: true},
			{IsModerated: true, IsPublic: false},
			{IsPublic: true},
		}

		m := SnapshotModeration(posts)
		So(m.ReportedPosts, ShouldEqual, 1)
		So(m.ModeratedPosts, ShouldEqual, 1)
		So(m.PublicPosts, ShouldEqual, 2)
	})
}

// TestContentPerformance 测试内容表现聚合
func TestContentPerformance(t *testing.T) {
	Convey("内容表现测试", t, func() {
		now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

		p1 := postAt("u1", post.CategoryPolitics, now.AddDate(0, 0, -1), 5, 1)
		p1.ID = "p1"
		p2 := postAt("u2", post.CategoryPolitics, now.AddDate(0, 0, -1), 5, 3)
		p2.ID = "p2"
		p3 := postAt("u3", post.CategoryEconomy, now.AddDate(0, 0, -2), 2, 0)
		p3.ID = "p3"
		p3.Shares = append(p3.Shares, post.Share{User: "u9", CreatedAt: now})
		// 与 p2 点赞评论数完全相同，靠ID升序保证稳定
		p4 := postAt("u4", post.CategoryEconomy, now.AddDate(0, 0, -2), 5, 3)
		p4.ID = "p0"
		posts := []*post.Post{p1, p2, p3, p4}

		Convey("表现排名：点赞降序、评论次之、ID升序兜底", func() {
			ranked := RankPosts(posts, 0)
			So(len(ranked), ShouldEqual, 4)
			So(ranked[0].ID, ShouldEqual, "p0")
			So(ranked[1].ID, ShouldEqual, "p2")
			So(ranked[2].ID, ShouldEqual, "p1")
			So(ranked[3].ID, ShouldEqual, "p3")

			Convey("截断到限定条数", func() {
				So(len(RankPosts(posts, 2)), ShouldEqual, 2)
			})

			Convey("原切片顺序不受影响", func() {
				So(posts[0].ID, ShouldEqual, "p1")
			})
		})

		Convey("分类表现：总量与单帖平均量", func() {
			perf := CategoryPerformances(posts)
			So(len(perf), ShouldEqual, 2)

			// Politics 总赞10 > Economy 总赞7
			So(perf[0].Category, ShouldEqual, "Politics")
			So(perf[0].TotalPosts, ShouldEqual, 2)
			So(perf[0].TotalLikes, ShouldEqual, 10)
			So(perf[0].AvgLikes, ShouldEqual, 5.0)
			So(perf[0].AvgComments, ShouldEqual, 2.0)

			So(perf[1].Category, ShouldEqual, "Economy")
			So(perf[1].TotalShares, ShouldEqual, 1)
			So(perf[1].AvgShares, ShouldEqual, 0.5)
		})

		Convey("按日互动趋势：engagement 含分享数", func() {
			trend := EngagementTrend(posts)
			So(len(trend), ShouldEqual, 2)

			// 2天前的点在前
			So(trend[0].Day, ShouldEqual, 28)
			So(trend[0].Posts, ShouldEqual, 2)
			So(trend[0].Likes, ShouldEqual, 7)
			So(trend[0].Shares, ShouldEqual, 1)
			So(trend[0].Engagement, ShouldEqual, 11)

			So(trend[1].Day, ShouldEqual, 29)
			So(trend[1].Engagement, ShouldEqual, 14)
		})

		Convey("空窗口返回空结果", func() {
			So(RankPosts(nil, 20), ShouldHaveLength, 0)
			So(CategoryPerformances(nil), ShouldHaveLength, 0)
			So(EngagementTrend(nil), ShouldHaveLength, 0)
		})
	})
}
