package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "500ms"、"2s" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// Timestamp 用于固定构建时间，支持 RFC3339、HTTP-date 与 Unix 秒。
type Timestamp time.Time

// Time 返回 time.Time；未配置时为零值。
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero 表示是否未固定构建时间。
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// GlobalConfig 描述日志、预览服务等与单次构建无关的运行参数。
type GlobalConfig struct {
	ListenPort    int      `mapstructure:"ListenPort"`
	LogLevel      string   `mapstructure:"LogLevel"`
	LogFilePath   string   `mapstructure:"LogFilePath"`
	LogMaxSize    int      `mapstructure:"LogMaxSize"`
	LogMaxBackups int      `mapstructure:"LogMaxBackups"`
	LogCompress   bool     `mapstructure:"LogCompress"`
	WatchDebounce Duration `mapstructure:"WatchDebounce"`
}

// BuildConfig 决定资源目录如何被编译为生成代码。
type BuildConfig struct {
	SourceDir    string            `mapstructure:"SourceDir"`
	OutputPath   string            `mapstructure:"OutputPath"`
	Package      string            `mapstructure:"Package"`
	ManifestPath string            `mapstructure:"ManifestPath"`
	StaticPrefix string            `mapstructure:"StaticPrefix"`
	Primary      string            `mapstructure:"Primary"`
	BuildEpoch   Timestamp         `mapstructure:"BuildEpoch"`
	Workers      int               `mapstructure:"Workers"`
	MimeTypes    map[string]string `mapstructure:"MimeTypes"`
}

// Config 是 TOML 文件映射的整体结构，所有键位于顶层。
type Config struct {
	Global GlobalConfig `mapstructure:",squash"`
	Build  BuildConfig  `mapstructure:",squash"`
}
