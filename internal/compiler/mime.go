package compiler

import (
	"path/filepath"
	"strings"
)

var defaultMimeTypes = map[string]string{
	"7z":    "application/x-7z-compressed",
	"atom":  "application/atom+xml",
	"bin":   "application/octet-stream",
	"bmp":   "image/x-ms-bmp",
	"css":   "text/css",
	"csv":   "text/csv",
	"eot":   "application/vnd.ms-fontobject",
	"gif":   "image/gif",
	"htm":   "text/html",
	"html":  "text/html",
	"ico":   "image/x-icon",
	"jpeg":  "image/jpeg",
	"jpg":   "image/jpeg",
	"js":    "application/javascript",
	"json":  "application/json",
	"map":   "application/json",
	"md":    "text/markdown",
	"mjs":   "application/javascript",
	"mp3":   "audio/mpeg",
	"mp4":   "video/mp4",
	"otf":   "font/otf",
	"pdf":   "application/pdf",
	"png":   "image/png",
	"rss":   "application/rss+xml",
	"svg":   "image/svg+xml",
	"ttf":   "font/ttf",
	"txt":   "text/plain",
	"wasm":  "application/wasm",
	"webm":  "video/webm",
	"webp":  "image/webp",
	"woff":  "font/woff",
	"woff2": "font/woff2",
	"xml":   "text/xml",
	"zip":   "application/zip",
}

// MimeTable 是扩展名（不含点、小写）到 MIME 类型的静态映射。
type MimeTable map[string]string

// DefaultMimeTypes 返回内置映射的副本。
func DefaultMimeTypes() MimeTable {
	table := make(MimeTable, len(defaultMimeTypes))
	for ext, mimeType := range defaultMimeTypes {
		table[ext] = mimeType
	}
	return table
}

// NewMimeTable 以内置映射为基础，用 overrides 覆盖或扩展。
func NewMimeTable(overrides map[string]string) MimeTable {
	table := DefaultMimeTypes()
	for ext, mimeType := range overrides {
		ext = normalizeExt(ext)
		if ext == "" || strings.TrimSpace(mimeType) == "" {
			continue
		}
		table[ext] = strings.TrimSpace(mimeType)
	}
	return table
}

// Lookup 按文件扩展名查找 MIME 类型；未知扩展名返回 false。
func (m MimeTable) Lookup(filename string) (string, bool) {
	ext := normalizeExt(filepath.Ext(filename))
	if ext == "" {
		return "", false
	}
	mimeType, ok := m[ext]
	return mimeType, ok
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
