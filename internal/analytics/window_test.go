package analytics

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// TestParsePeriod 测试周期令牌解析
func TestParsePeriod(t *testing.T) {
	Convey("周期令牌解析测试", t, func() {
		Convey("已知令牌原样返回", func() {
			So(ParsePeriod("1d"), ShouldEqual, Period1D)
			So(ParsePeriod("7d"), ShouldEqual, Period7D)
			So(ParsePeriod("30d"), ShouldEqual, Period30D)
			So(ParsePeriod("90d"), ShouldEqual, Period90D)
			So(ParsePeriod("1y"), ShouldEqual, Period1Y)
		})

		Convey("未知令牌回退到默认周期而不是报错", func() {
			So(ParsePeriod("2w"), ShouldEqual, DefaultPeriod)
			So(ParsePeriod(""), ShouldEqual, DefaultPeriod)
			So(ParsePeriod("7D"), ShouldEqual, DefaultPeriod)
		})
	})
}

// TestWindowResolve 测试滑动窗口解析
func TestWindowResolve(t *testing.T) {
	Convey("滑动窗口测试", t, func() {
		now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

		Convey("窗口锚定在请求时刻", func() {
			w := Period7D.Resolve(now)
			So(w.End, ShouldEqual, now)
			So(w.Start, ShouldEqual, now.AddDate(0, 0, -7))
		})

		Convey("同一令牌在不同时刻解析出不同边界", func() {
			w1 := Period7D.Resolve(now)
			w2 := Period7D.Resolve(now.Add(time.Hour))
			So(w1.Start.Equal(w2.Start), ShouldBeFalse)
		})

		Convey("窗口右开", func() {
			w := Period7D.Resolve(now)
			So(w.Contains(now), ShouldBeFalse)
			So(w.Contains(now.Add(-time.Second)), ShouldBeTrue)
			So(w.Contains(w.Start), ShouldBeTrue)
			So(w.Contains(w.Start.Add(-time.Second)), ShouldBeFalse)
		})

		Convey("1y 按日历年回看", func() {
			w := Period1Y.Resolve(now)
			So(w.Start, ShouldEqual, now.AddDate(-1, 0, 0))
		})
	})
}
