package config

import (
	"errors"
	"go/token"
	"path/filepath"
	"strings"
	"time"

	"github.com/gzasset/gzasset/pkg/asset"
)

// Validate 针对语义级别做进一步校验，防止非法配置进入构建流程。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("ListenPort", "必须在 1-65535")
	}
	if g.WatchDebounce.DurationValue() < 0 {
		return newFieldError("WatchDebounce", "不能为负数")
	}

	b := c.Build
	if strings.TrimSpace(b.SourceDir) == "" {
		return newFieldError("SourceDir", "不能为空")
	}
	if strings.TrimSpace(b.OutputPath) == "" {
		return newFieldError("OutputPath", "不能为空")
	}
	if filepath.Ext(b.OutputPath) != ".go" {
		return newFieldError("OutputPath", "必须是 .go 文件")
	}
	if b.ManifestPath != "" && b.ManifestPath == b.OutputPath {
		return newFieldError("ManifestPath", "不能与 OutputPath 相同")
	}
	if !token.IsIdentifier(b.Package) || token.IsKeyword(b.Package) {
		return newFieldError("Package", "必须是合法的 Go 包名")
	}
	if b.StaticPrefix != "" {
		for _, seg := range strings.Split(b.StaticPrefix, "/") {
			if !asset.ValidRoute(seg) {
				return newFieldError("StaticPrefix", "每一段只能包含 [A-Za-z0-9._-]")
			}
		}
	}
	if strings.Contains(b.Primary, "/") {
		return newFieldError("Primary", "只能是文件名，不能包含路径")
	}

	for ext, mimeType := range b.MimeTypes {
		if ext == "" {
			return newFieldError("MimeTypes", "扩展名不能为空")
		}
		if !strings.Contains(mimeType, "/") {
			return newFieldError(mimeField(ext), "不是合法的 MIME 类型")
		}
	}

	return nil
}

// Debounce 返回 watch 模式的去抖时长。
func (c *Config) Debounce() time.Duration {
	return c.Global.WatchDebounce.DurationValue()
}
