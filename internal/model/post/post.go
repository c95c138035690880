package post

import (
	"time"
)

// Post 帖子实体
// 点赞/评论/分享/举报以内嵌集合存储；各种计数永远从集合计算，绝不冗余存储
// 审核状态机：Clean（无举报）→ Reported（有未处理举报）→ Resolved（isModerated=true），
// Resolved 的帖子可被新举报重新拉回 Reported
type Post struct {
	ID       string   `bson:"_id,omitempty" json:"id"`
	Author   string   `bson:"author" json:"author"`     // 作者ID（创建后不可变）
	Content  string   `bson:"content" json:"content"`   // 正文（≤2000字符）
	Images   []string `bson:"images" json:"images"`     // 图片URL列表
	Category Category `bson:"category" json:"category"` // 分类

	// 绩效数据引用（可选的结构化负载）
	PerformanceReference *PerformanceReference `bson:"performance_reference,omitempty" json:"performance_reference,omitempty"`

	// 内嵌互动集合
	Likes    []Like    `bson:"likes" json:"likes"`       // 点赞集合（每用户至多一条）
	Comments []Comment `bson:"comments" json:"comments"` // 评论列表（按创建顺序）
	Shares   []Share   `bson:"shares" json:"shares"`     // 分享集合
	Reports  []Report  `bson:"reports" json:"reports"`   // 举报集合（每用户至多一条）

	// 审核状态
	IsReported      bool   `bson:"is_reported" json:"is_reported"`           // 有未处理举报
	IsModerated     bool   `bson:"is_moderated" json:"is_moderated"`         // 管理员已做出裁决
	ModerationNotes string `bson:"moderation_notes" json:"moderation_notes"` // 审核备注

	// 可见性
	IsPublic bool `bson:"is_public" json:"is_public"` // 公开可见
	IsPinned bool `bson:"is_pinned" json:"is_pinned"` // 置顶

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PerformanceReference 绩效指标引用
type PerformanceReference struct {
	KPIID     string    `bson:"kpi_id" json:"kpi_id"`
	KPITitle  string    `bson:"kpi_title" json:"kpi_title"`
	DataType  string    `bson:"data_type" json:"data_type"` // economy, healthcare 等
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Like 点赞记录
type Like struct {
	User      string    `bson:"user" json:"user"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Comment 评论
type Comment struct {
	ID        string    `bson:"id" json:"id"`
	User      string    `bson:"user" json:"user"`
	Content   string    `bson:"content" json:"content"` // ≤500字符
	Likes     []string  `bson:"likes" json:"likes"`     // 点赞用户ID集合
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Share 分享记录
type Share struct {
	User      string    `bson:"user" json:"user"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Report 举报记录
type Report struct {
	User        string       `bson:"user" json:"user"`
	Reason      ReportReason `bson:"reason" json:"reason"`
	Description string       `bson:"description" json:"description"`
	CreatedAt   time.Time    `bson:"created_at" json:"created_at"`
}

// LikeCount 点赞数（派生值）
func (p *Post) LikeCount() int {
	return len(p.Likes)
}

// CommentCount 评论数（派生值）
func (p *Post) CommentCount() int {
	return len(p.Comments)
}

// ShareCount 分享数（派生值）
func (p *Post) ShareCount() int {
	return len(p.Shares)
}

// HasLiked 判断用户是否已点赞
func (p *Post) HasLiked(userID string) bool {
	for _, like := range p.Likes {
		if like.User == userID {
			return true
		}
	}
	return false
}

// HasReported 判断用户是否已举报过本帖
func (p *Post) HasReported(userID string) bool {
	for _, report := range p.Reports {
		if report.User == userID {
			return true
		}
	}
	return false
}

// ModerationAction 审核裁决
type ModerationAction string

const (
	ModerationApprove ModerationAction = "approve" // 内容合规，保持当前可见性
	ModerationReject  ModerationAction = "reject"  // 内容违规，隐藏但不删除
)

// IsValid 检查裁决是否有效
func (a ModerationAction) IsValid() bool {
	return a == ModerationApprove || a == ModerationReject
}
