// Package id 生成实体主键。
// 用户、帖子、评论、快照的 _id 统一使用 UUID 字符串，
// 避免 ObjectID 与字符串之间的来回转换。
package id

import "github.com/google/uuid"

// New 生成新的实体ID
func New() string {
	return uuid.NewString()
}
