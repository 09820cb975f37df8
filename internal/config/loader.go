package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// DefaultPath 是未指定 -config 与 GZASSET_CONFIG 时读取的文件。
const DefaultPath = "gzasset.toml"

// httpDate 与 Last-Modified 使用的格式一致。
const httpDate = "Mon, 02 Jan 2006 15:04:05 GMT"

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
// 相对路径（SourceDir/OutputPath/ManifestPath）以配置文件所在目录为基准。
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}

	var cfg Config
	hook := mapstructure.ComposeDecodeHookFunc(durationDecodeHook(), timestampDecodeHook())
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)
	applyBuildDefaults(&cfg.Build)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("无法解析配置目录: %w", err)
	}
	cfg.Build.SourceDir = resolvePath(baseDir, cfg.Build.SourceDir)
	cfg.Build.OutputPath = resolvePath(baseDir, cfg.Build.OutputPath)
	if cfg.Build.ManifestPath != "" {
		cfg.Build.ManifestPath = resolvePath(baseDir, cfg.Build.ManifestPath)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 5000)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("WatchDebounce", "500ms")
	v.SetDefault("SourceDir", "./data")
	v.SetDefault("OutputPath", "./webassets/assets_gen.go")
	v.SetDefault("Package", "webassets")
	v.SetDefault("StaticPrefix", "www")
	v.SetDefault("Primary", "index.html")
	v.SetDefault("Workers", 4)
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.ListenPort == 0 {
		g.ListenPort = 5000
	}
	if g.WatchDebounce.DurationValue() == 0 {
		g.WatchDebounce = Duration(500 * time.Millisecond)
	}
}

func applyBuildDefaults(b *BuildConfig) {
	b.StaticPrefix = strings.Trim(strings.TrimSpace(b.StaticPrefix), "/")
	b.Primary = strings.TrimSpace(b.Primary)
	b.Package = strings.TrimSpace(b.Package)
	if b.Workers <= 0 {
		b.Workers = 1
	}
	if len(b.MimeTypes) > 0 {
		normalized := make(map[string]string, len(b.MimeTypes))
		for ext, mimeType := range b.MimeTypes {
			normalized[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))] = strings.TrimSpace(mimeType)
		}
		b.MimeTypes = normalized
	}
}

// resolvePath 将相对路径转换为以 baseDir 为根的绝对路径；带 scheme 的 URL 原样返回。
func resolvePath(baseDir, p string) string {
	if p == "" || strings.Contains(p, "://") || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}

func timestampDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Timestamp{})

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return parseTimestamp(v)
		case int:
			return Timestamp(time.Unix(int64(v), 0).UTC()), nil
		case int64:
			return Timestamp(time.Unix(v, 0).UTC()), nil
		case time.Time:
			return Timestamp(v.UTC()), nil
		case Timestamp:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 BuildEpoch 类型: %T", v)
		}
	}
}

func parseTimestamp(raw string) (Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Timestamp{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return Timestamp(t.UTC()), nil
	}
	if t, err := time.Parse(httpDate, raw); err == nil {
		return Timestamp(t.UTC()), nil
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Timestamp(time.Unix(secs, 0).UTC()), nil
	}
	return Timestamp{}, fmt.Errorf("无法解析 BuildEpoch: %s", raw)
}
