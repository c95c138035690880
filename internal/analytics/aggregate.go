// Package analytics 实现互动数据的聚合计算。
//
// 原始记录由调用方提供（内存切片），每种汇总都是一个具名纯函数，
// 窗口规则和并列排序规则因此可以独立于存储层做单元测试。
package analytics

import (
	"sort"
	"time"

	"civic/internal/model/post"
	"civic/internal/model/user"
)

// KeyCount 分组计数
type KeyCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Totals 互动总量
type Totals struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
}

// Averages 单帖平均互动量；没有帖子时各项为 0，而不是 NaN
type Averages struct {
	Likes    float64 `json:"likes"`
	Comments float64 `json:"comments"`
	Shares   float64 `json:"shares"`
}

// DayBucket 按日聚合的活动桶（稀疏：没有活动的日期不产生桶）
type DayBucket struct {
	Year     int   `json:"year"`
	Month    int   `json:"month"`
	Day      int   `json:"day"`
	Posts    int64 `json:"posts"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// GrowthPoint 按日聚合的新增用户数
type GrowthPoint struct {
	Year     int   `json:"year"`
	Month    int   `json:"month"`
	Day      int   `json:"day"`
	NewUsers int64 `json:"new_users"`
}

// TopUser 按互动量排名的用户
type TopUser struct {
	ID              string `json:"id"`
	FullName        string `json:"full_name"`
	Username        string `json:"username"`
	ProfileImage    string `json:"profile_image"`
	TotalPosts      int64  `json:"total_posts"`
	TotalLikes      int64  `json:"total_likes"`
	TotalComments   int64  `json:"total_comments"`
	TotalEngagement int64  `json:"total_engagement"`
}

// ModerationCounts 审核现状计数（非窗口化，始终是当前状态）
type ModerationCounts struct {
	ReportedPosts  int64 `json:"reported_posts"`
	ModeratedPosts int64 `json:"moderated_posts"`
	PublicPosts    int64 `json:"public_posts"`
}

// SumTotals 统计窗口内帖子的互动总量
func SumTotals(posts []*post.Post) Totals {
	var t Totals
	for _, p := range posts {
		t.Likes += int64(p.LikeCount())
		t.Comments += int64(p.CommentCount())
		t.Shares += int64(p.ShareCount())
	}
	return t
}

// AverageEngagement 计算单帖平均互动量
func AverageEngagement(posts []*post.Post) Averages {
	if len(posts) == 0 {
		return Averages{}
	}
	t := SumTotals(posts)
	n := float64(len(posts))
	return Averages{
		Likes:    float64(t.Likes) / n,
		Comments: float64(t.Comments) / n,
		Shares:   float64(t.Shares) / n,
	}
}

// CategoryDistribution 按分类分组计数，计数降序；计数相同按分类名升序保证确定性
func CategoryDistribution(posts []*post.Post) []KeyCount {
	counts := make(map[string]int64)
	for _, p := range posts {
		counts[p.Category.String()]++
	}
	return sortedKeyCounts(counts)
}

// RoleDistribution 按角色分组计数，排序规则与分类分布一致
func RoleDistribution(users []*user.User) []KeyCount {
	counts := make(map[string]int64)
	for _, u := range users {
		counts[u.Role.String()]++
	}
	return sortedKeyCounts(counts)
}

func sortedKeyCounts(counts map[string]int64) []KeyCount {
	out := make([]KeyCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, KeyCount{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

type dayKey struct {
	year  int
	month int
	day   int
}

func toDayKey(t time.Time) dayKey {
	t = t.In(BucketLoc)
	return dayKey{year: t.Year(), month: int(t.Month()), day: t.Day()}
}

func lessDayKey(a, b dayKey) bool {
	if a.year != b.year {
		return a.year < b.year
	}
	if a.month != b.month {
		return a.month < b.month
	}
	return a.day < b.day
}

// DailyActivity 按帖子创建日聚合帖子/点赞/评论数
// 点赞和评论计入其所属帖子创建日的桶；桶按日期升序，零活动日不产生桶
func DailyActivity(posts []*post.Post) []DayBucket {
	buckets := make(map[dayKey]*DayBucket)
	for _, p := range posts {
		key := toDayKey(p.CreatedAt)
		b, ok := buckets[key]
		if !ok {
			b = &DayBucket{Year: key.year, Month: key.month, Day: key.day}
			buckets[key] = b
		}
		b.Posts++
		b.Likes += int64(p.LikeCount())
		b.Comments += int64(p.CommentCount())
	}

	keys := make([]dayKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessDayKey(keys[i], keys[j]) })

	out := make([]DayBucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, *buckets[k])
	}
	return out
}

// UserGrowth 按注册日聚合新增用户数，日期升序，稀疏
func UserGrowth(users []*user.User) []GrowthPoint {
	buckets := make(map[dayKey]int64)
	for _, u := range users {
		buckets[toDayKey(u.CreatedAt)]++
	}

	keys := make([]dayKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessDayKey(keys[i], keys[j]) })

	out := make([]GrowthPoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, GrowthPoint{Year: k.year, Month: k.month, Day: k.day, NewUsers: buckets[k]})
	}
	return out
}

// TopEngagers 计算互动量排名
// 互动量 = 用户所有帖子的点赞数 + 评论数；降序，分数相同按用户ID升序保证稳定
func TopEngagers(users []*user.User, posts []*post.Post, limit int) []TopUser {
	type tally struct {
		posts    int64
		likes    int64
		comments int64
	}
	byAuthor := make(map[string]*tally)
	for _, p := range posts {
		t, ok := byAuthor[p.Author]
		if !ok {
			t = &tally{}
			byAuthor[p.Author] = t
		}
		t.posts++
		t.likes += int64(p.LikeCount())
		t.comments += int64(p.CommentCount())
	}

	out := make([]TopUser, 0, len(users))
	for _, u := range users {
		entry := TopUser{
			ID:           u.ID,
			FullName:     u.FullName,
			Username:     u.Username,
			ProfileImage: u.ProfileImage,
		}
		if t, ok := byAuthor[u.ID]; ok {
			entry.TotalPosts = t.posts
			entry.TotalLikes = t.likes
			entry.TotalComments = t.comments
			entry.TotalEngagement = t.likes + t.comments
		}
		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalEngagement != out[j].TotalEngagement {
			return out[i].TotalEngagement > out[j].TotalEngagement
		}
		return out[i].ID < out[j].ID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CategoryPerformance 分类维度的互动表现
type CategoryPerformance struct {
	Category      string  `json:"category"`
	TotalPosts    int64   `json:"total_posts"`
	TotalLikes    int64   `json:"total_likes"`
	TotalComments int64   `json:"total_comments"`
	TotalShares   int64   `json:"total_shares"`
	AvgLikes      float64 `json:"avg_likes"`
	AvgComments   float64 `json:"avg_comments"`
	AvgShares     float64 `json:"avg_shares"`
}

// EngagementPoint 按日聚合的互动趋势点（稀疏，日期升序）
type EngagementPoint struct {
	Year       int   `json:"year"`
	Month      int   `json:"month"`
	Day        int   `json:"day"`
	Posts      int64 `json:"posts"`
	Likes      int64 `json:"likes"`
	Comments   int64 `json:"comments"`
	Shares     int64 `json:"shares"`
	Engagement int64 `json:"engagement"`
}

// RankPosts 按互动表现排名帖子
// 点赞数降序，评论数次之；都相同按帖子ID升序保证稳定
func RankPosts(posts []*post.Post, limit int) []*post.Post {
	ranked := make([]*post.Post, len(posts))
	copy(ranked, posts)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].LikeCount() != ranked[j].LikeCount() {
			return ranked[i].LikeCount() > ranked[j].LikeCount()
		}
		if ranked[i].CommentCount() != ranked[j].CommentCount() {
			return ranked[i].CommentCount() > ranked[j].CommentCount()
		}
		return ranked[i].ID < ranked[j].ID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// CategoryPerformances 按分类统计互动总量与单帖平均量
// 总点赞数降序，相同按分类名升序保证确定性
func CategoryPerformances(posts []*post.Post) []CategoryPerformance {
	byCategory := make(map[string]*CategoryPerformance)
	for _, p := range posts {
		key := p.Category.String()
		cp, ok := byCategory[key]
		if !ok {
			cp = &CategoryPerformance{Category: key}
			byCategory[key] = cp
		}
		cp.TotalPosts++
		cp.TotalLikes += int64(p.LikeCount())
		cp.TotalComments += int64(p.CommentCount())
		cp.TotalShares += int64(p.ShareCount())
	}

	out := make([]CategoryPerformance, 0, len(byCategory))
	for _, cp := range byCategory {
		n := float64(cp.TotalPosts)
		cp.AvgLikes = float64(cp.TotalLikes) / n
		cp.AvgComments = float64(cp.TotalComments) / n
		cp.AvgShares = float64(cp.TotalShares) / n
		out = append(out, *cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalLikes != out[j].TotalLikes {
			return out[i].TotalLikes > out[j].TotalLikes
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// EngagementTrend 按帖子创建日聚合互动趋势
// engagement = 点赞数 + 评论数 + 分享数；零活动日不产生点
func EngagementTrend(posts []*post.Post) []EngagementPoint {
	buckets := make(map[dayKey]*EngagementPoint)
	for _, p := range posts {
		key := toDayKey(p.CreatedAt)
		b, ok := buckets[key]
		if !ok {
			b = &EngagementPoint{Year: key.year, Month: key.month, Day: key.day}
			buckets[key] = b
		}
		b.Posts++
		b.Likes += int64(p.LikeCount())
		b.Comments += int64(p.CommentCount())
		b.Shares += int64(p.ShareCount())
		b.Engagement = b.Likes + b.Comments + b.Shares
	}

	keys := make([]dayKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessDayKey(keys[i], keys[j]) })

	out := make([]EngagementPoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, *buckets[k])
	}
	return out
}

// SnapshotModeration 统计审核现状
func SnapshotModeration(posts []*post.Post) ModerationCounts {
	var m ModerationCounts
	for _, p := range posts {
		if p.IsReported {
			m.ReportedPosts++
		}
		if p.IsModerated {
			m.ModeratedPosts++
		}
		if p.IsPublic {
			m.PublicPosts++
		}
	}
	return m
}
