package user

import (
	"time"
	"unicode/utf8"
)

// MaxBioLength 个人简介最大长度（按字符计，不是字节）
const MaxBioLength = 500

// ValidBioLength 检查简介长度，多字节字符按一个字符计
func ValidBioLength(bio string) bool {
	return utf8.RuneCountInString(bio) <= MaxBioLength
}

// User 用户实体
// ID使用UUID格式（string），避免ObjectID转换的麻烦
// followers/following 互为镜像：A 在 B 的 following 中，当且仅当 B 在 A 的 followers 中
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Email        string    `bson:"email" json:"email"`                 // 邮箱（唯一，小写）
	Username     string    `bson:"username" json:"username"`           // 用户名（唯一，小写）
	Password     string    `bson:"password" json:"-"`                  // 密码（加密存储，不返回）
	FullName     string    `bson:"full_name" json:"full_name"`         // 显示名
	Bio          string    `bson:"bio" json:"bio"`                     // 个人简介（≤500字符）
	ProfileImage string    `bson:"profile_image" json:"profile_image"` // 头像URL
	CoverImage   string    `bson:"cover_image" json:"cover_image"`     // 封面图URL
	Interests    []string  `bson:"interests" json:"interests"`         // 兴趣领域
	Followers    []string  `bson:"followers" json:"followers"`         // 粉丝用户ID集合
	Following    []string  `bson:"following" json:"following"`         // 关注用户ID集合
	TotalVotes   int64     `bson:"total_votes" json:"total_votes"`     // 累计投票数
	TotalRating  int64     `bson:"total_rating" json:"total_rating"`   // 累计评分
	TotalPosts   int64     `bson:"total_posts" json:"total_posts"`     // 发帖计数（增量维护的缓存值）
	Role         Role      `bson:"role" json:"role"`                   // 角色
	IsVerified   bool      `bson:"is_verified" json:"is_verified"`     // 是否认证用户
	IsActive     bool      `bson:"is_active" json:"is_active"`         // 是否激活（封禁期间为 false）
	LastActive   time.Time `bson:"last_active" json:"last_active"`     // 最近活跃时间

	// 管理字段
	AdminNotes       string     `bson:"admin_notes" json:"-"`                                       // 管理员备注（只追加）
	SuspendedUntil   *time.Time `bson:"suspended_until,omitempty" json:"suspended_until,omitempty"` // 封禁截止时间
	SuspensionReason string     `bson:"suspension_reason" json:"-"`                                 // 封禁原因

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Stats 用户统计数据
// 关注数永远取集合长度，不单独缓存
type Stats struct {
	Followers   int   `json:"followers"`
	Following   int   `json:"following"`
	TotalVotes  int64 `json:"total_votes"`
	TotalRating int64 `json:"total_rating"`
	TotalPosts  int64 `json:"total_posts"`
}

// GetStats 返回用户统计数据
func (u *User) GetStats() Stats {
	return Stats{
		Followers:   len(u.Followers),
		Following:   len(u.Following),
		TotalVotes:  u.TotalVotes,
		TotalRating: u.TotalRating,
		TotalPosts:  u.TotalPosts,
	}
}

// IsFollowing 判断是否已关注目标用户
func (u *User) IsFollowing(targetID string) bool {
	for _, id := range u.Following {
		if id == targetID {
			return true
		}
	}
	return false
}

// IsSuspended 判断封禁是否仍然生效
func (u *User) IsSuspended(now time.Time) bool {
	if u.IsActive {
		return false
	}
	if u.SuspendedUntil == nil {
		return true
	}
	return now.Before(*u.SuspendedUntil)
}

// Interest 兴趣领域枚举（不含 General，General 只用于帖子分类）
var validInterests = map[string]bool{
	"Politics":      true,
	"Education":     true,
	"Healthcare":    true,
	"Economy":       true,
	"Environment":   true,
	"Technology":    true,
	"Sports":        true,
	"Entertainment": true,
}

// IsValidInterest 检查兴趣领域是否有效
func IsValidInterest(interest string) bool {
	return validInterests[interest]
}
