package post

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// TestDerivedCounts 测试派生计数
func TestDerivedCounts(t *testing.T) {
	Convey("派生计数测试", t, func() {
		p := &Post{
			Likes:    []Like{{User: "a"}, {User: "b"}},
			Comments: []Comment{{ID: "c1", User: "a", Content: "hi"}},
			Shares:   []Share{},
		}

		So(p.LikeCount(), ShouldEqual, 2)
		So(p.CommentCount(), ShouldEqual, 1)
		So(p.ShareCount(), ShouldEqual, 0)

		Convey("点赞与举报成员判断", func() {
			So(p.HasLiked("a"), ShouldBeTrue)
			So(p.HasLiked("z"), ShouldBeFalse)
			So(p.HasReported("a"), ShouldBeFalse)

			p.Reports = append(p.Reports, Report{User: "a", Reason: ReasonSpam})
			So(p.HasReported("a"), ShouldBeTrue)
		})
	})
}

// TestContentLengthLimits 测试内容长度约束按字符计数
func TestContentLengthLimits(t *testing.T) {
	Convey("内容长度约束测试", t, func() {
		Convey("多字节字符按一个字符计", func() {
			// 1500个汉字占4500字节，但只有1500字符，在上限之内
			So(ValidContentLength(strings.Repeat("民", 1500)), ShouldBeTrue)
			So(ValidContentLength(strings.Repeat("民", MaxContentLength)), ShouldBeTrue)
			So(ValidContentLength(strings.Repeat("民", MaxContentLength+1)), ShouldBeFalse)
		})

		Convey("ASCII 边界", func() {
			So(ValidContentLength(strings.Repeat("a", MaxContentLength)), ShouldBeTrue)
			So(ValidContentLength(strings.Repeat("a", MaxContentLength+1)), ShouldBeFalse)
		})

		Convey("评论长度约束", func() {
			So(ValidCommentLength(strings.Repeat("议", MaxCommentLength)), ShouldBeTrue)
			So(ValidCommentLength(strings.Repeat("议", MaxCommentLength+1)), ShouldBeFalse)
		})
	})
}

// TestEnums 测试封闭枚举
func TestEnums(t *testing.T) {
	Convey("枚举测试", t, func() {
		Convey("分类枚举", func() {
			So(CategoryGeneral.IsValid(), ShouldBeTrue)
			So(CategoryPolitics.IsValid(), ShouldBeTrue)
			So(Category("Gossip").IsValid(), ShouldBeFalse)
			// 大小写敏感
			So(Category("politics").IsValid(), ShouldBeFalse)
		})

		Convey("举报原因枚举", func() {
			So(ReasonSpam.IsValid(), ShouldBeTrue)
			So(ReasonFalseInformation.IsValid(), ShouldBeTrue)
			So(ReportReason("angry").IsValid(), ShouldBeFalse)
		})

		Convey("审核裁决枚举", func() {
			So(ModerationApprove.IsValid(), ShouldBeTrue)
			So(ModerationReject.IsValid(), ShouldBeTrue)
			So(ModerationAction("delete").IsValid(), ShouldBeFalse)
		})
	})
}
