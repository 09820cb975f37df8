package asset

import (
	"fmt"
	"time"
)

// TimeFormat 是 HTTP-date 格式（RFC 7231 IMF-fixdate），与 Last-Modified 头一致。
const TimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// Epoch 是一次构建共享的 Last-Modified 值，已格式化为 HTTP-date 字符串。
type Epoch string

// NewEpoch 将 t 截断到秒并以 UTC 格式化。
func NewEpoch(t time.Time) Epoch {
	return Epoch(t.UTC().Truncate(time.Second).Format(TimeFormat))
}

// ParseEpoch 校验并返回一个 HTTP-date 形式的 Epoch。
func ParseEpoch(raw string) (Epoch, error) {
	t, err := time.Parse(TimeFormat, raw)
	if err != nil {
		return "", fmt.Errorf("invalid build epoch %q: %w", raw, err)
	}
	return NewEpoch(t), nil
}

// String 返回原始 HTTP-date 字符串。
func (e Epoch) String() string {
	return string(e)
}

// Time 解析回 time.Time，格式异常时返回零值。
func (e Epoch) Time() time.Time {
	t, err := time.Parse(TimeFormat, string(e))
	if err != nil {
		return time.Time{}
	}
	return t
}
