package password

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// TestHashVerify 测试密码加密与校验
func TestHashVerify(t *testing.T) {
	Convey("密码加密测试", t, func() {
		hashed, err := Hash("secret123")
		So(err, ShouldBeNil)
		So(hashed, ShouldNotEqual, "secret123")

		Convey("正确密码校验通过", func() {
			So(Verify("secret123", hashed), ShouldBeTrue)
		})

		Convey("错误密码校验失败", func() {
			So(Verify("secret124", hashed), ShouldBeFalse)
		})

		Convey("相同明文产生不同哈希", func() {
			hashed2, err := Hash("secret123")
			So(err, ShouldBeNil)
			So(hashed2, ShouldNotEqual, hashed)
		})
	})
}
