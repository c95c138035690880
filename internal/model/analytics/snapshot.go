package analytics

import (
	"time"
)

// Snapshot 每日分析快照
// 由定时任务落库，用于历史趋势查询；实时报表不依赖它
type Snapshot struct {
	ID   string    `bson:"_id,omitempty" json:"id"`
	Date time.Time `bson:"date" json:"date"` // 快照对应的日期

	// 用户统计
	TotalUsers  int64 `bson:"total_users" json:"total_users"`
	ActiveUsers int64 `bson:"active_users" json:"active_users"`
	NewUsers    int64 `bson:"new_users" json:"new_users"`

	// 内容统计
	TotalPosts    int64 `bson:"total_posts" json:"total_posts"`
	NewPosts      int64 `bson:"new_posts" json:"new_posts"`
	TotalComments int64 `bson:"total_comments" json:"total_comments"`
	TotalLikes    int64 `bson:"total_likes" json:"total_likes"`

	// 互动指标
	AverageEngagement float64         `bson:"average_engagement" json:"average_engagement"`
	TopCategories     []CategoryCount `bson:"top_categories" json:"top_categories"`

	// 审核统计
	Moderation ModerationStats `bson:"moderation" json:"moderation"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// CategoryCount 分类计数
type CategoryCount struct {
	Category string `bson:"category" json:"category"`
	Count    int64  `bson:"count" json:"count"`
}

// ModerationStats 审核积压统计
type ModerationStats struct {
	ReportedPosts  int64 `bson:"reported_posts" json:"reported_posts"`
	ModeratedPosts int64 `bson:"moderated_posts" json:"moderated_posts"`
	SuspendedUsers int64 `bson:"suspended_users" json:"suspended_users"`
}
