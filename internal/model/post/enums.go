package post

import "unicode/utf8"

// Category 帖子分类（封闭枚举）
type Category string

const (
	CategoryPolitics      Category = "Politics"
	CategoryEducation     Category = "Education"
	CategoryHealthcare    Category = "Healthcare"
	CategoryEconomy       Category = "Economy"
	CategoryEnvironment   Category = "Environment"
	CategoryTechnology    Category = "Technology"
	CategorySports        Category = "Sports"
	CategoryEntertainment Category = "Entertainment"
	CategoryGeneral       Category = "General"
)

var validCategories = map[Category]bool{
	CategoryPolitics:      true,
	CategoryEducation:     true,
	CategoryHealthcare:    true,
	CategoryEconomy:       true,
	CategoryEnvironment:   true,
	CategoryTechnology:    true,
	CategorySports:        true,
	CategoryEntertainment: true,
	CategoryGeneral:       true,
}

// IsValid 检查分类是否有效
func (c Category) IsValid() bool {
	return validCategories[c]
}

// String 返回分类字符串
func (c Category) String() string {
	return string(c)
}

// ReportReason 举报原因（封闭枚举）
type ReportReason string

const (
	ReasonSpam             ReportReason = "spam"
	ReasonInappropriate    ReportReason = "inappropriate"
	ReasonHarassment       ReportReason = "harassment"
	ReasonFalseInformation ReportReason = "false_information"
	ReasonOther            ReportReason = "other"
)

var validReasons = map[ReportReason]bool{
	ReasonSpam:             true,
	ReasonInappropriate:    true,
	ReasonHarassment:       true,
	ReasonFalseInformation: true,
	ReasonOther:            true,
}

// IsValid 检查举报原因是否有效
func (r ReportReason) IsValid() bool {
	return validReasons[r]
}

// 内容长度约束（按字符计，不是字节，与校验标签的语义一致）
const (
	MaxContentLength = 2000 // 帖子正文最大长度
	MaxCommentLength = 500  // 评论最大长度
)

// ValidContentLength 检查帖子正文长度，多字节字符按一个字符计
func ValidContentLength(content string) bool {
	return utf8.RuneCountInString(content) <= MaxContentLength
}

// ValidCommentLength 检查评论长度，多字节字符按一个字符计
func ValidCommentLength(content string) bool {
	return utf8.RuneCountInString(content) <= MaxCommentLength
}
