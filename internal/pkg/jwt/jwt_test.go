package jwt

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// TestGenerateValidate 测试Token签发与验证
func TestGenerateValidate(t *testing.T) {
	Convey("JWT测试", t, func() {
		j := NewJWT("test-secret", time.Hour)

		token, err := j.GenerateToken("uid-1", "alice", "moderator")
		So(err, ShouldBeNil)
		So(token, ShouldNotBeEmpty)

		Convey("有效Token解析出原始Claims", func() {
			claims, err := j.ValidateToken(token)
			So(err, ShouldBeNil)
			So(claims.UserID, ShouldEqual, "uid-1")
			So(claims.Username, ShouldEqual, "alice")
			So(claims.Role, ShouldEqual, "moderator")
		})

		Convey("密钥不匹配时验证失败", func() {
			other := NewJWT("other-secret", time.Hour)
			_, err := other.ValidateToken(token)
			So(err, ShouldEqual, ErrInvalidToken)
		})

		Convey("过期Token返回过期错误", func() {
			expired := NewJWT("test-secret", -time.Minute)
			tok, err := expired.GenerateToken("uid-1", "alice", "user")
			So(err, ShouldBeNil)

			_, err = j.ValidateToken(tok)
			So(err, ShouldEqual, ErrExpiredToken)
		})
	})
}

// TestGenerateRefreshToken 测试Refresh Token生成
func TestGenerateRefreshToken(t *testing.T) {
	Convey("Refresh Token测试", t, func() {
		t1 := GenerateRefreshToken()
		t2 := GenerateRefreshToken()

		So(len(t1), ShouldEqual, 64)
		So(t1, ShouldNotEqual, t2)
	})
}
