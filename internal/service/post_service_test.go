package service

import (
	"context"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"civic/internal/model/post"
	"civic/internal/pkg/apperr"
	postRepo "civic/internal/repository/post"
	userRepo "civic/internal/repository/user"
)

// TestCreateContentBounds 测试发帖内容按字符数校验
func TestCreateContentBounds(t *testing.T) {
	db := testDB(t)
	users := userRepo.NewRepo(db)
	posts := postRepo.NewRepo(db)
	svc := NewPostService(posts, users)
	ctx := context.Background()

	Convey("发帖内容长度测试", t, func() {
		author := newTestUser("author-cjk")
		So(users.Create(ctx, author), ShouldBeNil)

		Convey("多字节内容按字符计数放行", func() {
			// 1500个汉字占4500字节，字符数在2000上限之内
			p, err := svc.Create(ctx, author.ID, CreateInput{Content: strings.Repeat("民", 1500)})
			So(err, ShouldBeNil)
			So(p.Category, ShouldEqual, post.CategoryGeneral)
		})

		Convey("超出字符上限拒绝", func() {
			_, err := svc.Create(ctx, author.ID, CreateInput{Content: strings.Repeat("民", post.MaxContentLength+1)})
			So(err, ShouldNotBeNil)
			So(apperr.From(err).Kind, ShouldEqual, apperr.KindValidationFailed)
		})
	})
}

// TestCommentsExpansion 测试评论列表展开评论者摘要
func TestCommentsExpansion(t *testing.T) {
	db := testDB(t)
	users := userRepo.NewRepo(db)
	posts := postRepo.NewRepo(db)
	svc := NewPostService(posts, users)
	ctx := context.Background()

	Convey("评论展开测试", t, func() {
		author := newTestUser("post-author")
		commenter := newTestUser("commenter-1")
		So(users.Create(ctx, author), ShouldBeNil)
		So(users.Create(ctx, commenter), ShouldBeNil)

		p, err := svc.Create(ctx, author.ID, CreateInput{Content: "open question"})
		So(err, ShouldBeNil)

		_, err = svc.AddComment(ctx, commenter.ID, p.ID, "first take")
		So(err, ShouldBeNil)

		Convey("评论携带评论者摘要", func() {
			views, total, err := svc.Comments(ctx, p.ID, 1, 20)
			So(err, ShouldBeNil)
			So(total, ShouldEqual, 1)
			So(views, ShouldHaveLength, 1)
			So(views[0].Content, ShouldEqual, "first take")
			So(views[0].AuthorInfo, ShouldNotBeNil)
			So(views[0].AuthorInfo.Username, ShouldEqual, commenter.Username)
			So(views[0].AuthorInfo.FullName, ShouldEqual, commenter.FullName)
		})

		Convey("评论者不存在时降级为不带摘要的视图", func() {
			_, err := svc.AddComment(ctx, "ghost-user", p.ID, "second take")
			So(err, ShouldBeNil)

			views, _, err := svc.Comments(ctx, p.ID, 1, 20)
			So(err, ShouldBeNil)
			// 倒序：最新评论在前
			So(views[0].Content, ShouldEqual, "second take")
			So(views[0].AuthorInfo, ShouldBeNil)
			So(views[1].AuthorInfo, ShouldNotBeNil)
		})
	})
}
