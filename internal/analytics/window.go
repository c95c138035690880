package analytics

import (
	"time"
)

// Period 相对周期令牌
type Period string

const (
	Period1D  Period = "1d"
	Period7D  Period = "7d"
	Period30D Period = "30d"
	Period90D Period = "90d"
	Period1Y  Period = "1y"

	// DefaultPeriod 无法识别的令牌回退到 7d，保持仪表盘对脏输入的韧性
	DefaultPeriod = Period7D
)

// BucketLoc 日桶的固定参考时区
// 按日聚合统一使用 UTC，与请求方时区无关，保证结果可复现
var BucketLoc = time.UTC

// ParsePeriod 解析周期令牌；未知令牌回退到默认值而不是报错
func ParsePeriod(s string) Period {
	switch Period(s) {
	case Period1D, Period7D, Period30D, Period90D, Period1Y:
		return Period(s)
	default:
		return DefaultPeriod
	}
}

// Window 右开时间窗口 [Start, End)
// 锚定在请求时刻的滑动窗口：同一令牌在不同时刻解析出不同的绝对边界
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Resolve 以 now 为锚点解析出绝对时间窗口
func (p Period) Resolve(now time.Time) Window {
	var start time.Time
	switch p {
	case Period1D:
		start = now.AddDate(0, 0, -1)
	case Period7D:
		start = now.AddDate(0, 0, -7)
	case Period30D:
		start = now.AddDate(0, 0, -30)
	case Period90D:
		start = now.AddDate(0, 0, -90)
	case Period1Y:
		start = now.AddDate(-1, 0, 0)
	default:
		start = now.AddDate(0, 0, -7)
	}
	return Window{Start: start, End: now}
}

// Contains 判断时间点是否落在窗口内（右开）
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
