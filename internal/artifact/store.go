package artifact

import (
	"context"
	"errors"
	"io"
	"time"
)

// Store 管理产物根目录下文件的读写，路径均为相对根目录的斜杠风格。
//
//	<Root>/<rel path>
type Store interface {
	// Root 返回产物根目录的绝对路径。
	Root() string

	// Get 返回可流式读取的产物。若不存在则返回 ErrNotFound。
	Get(ctx context.Context, rel string) (*ReadResult, error)

	// Put 通过临时文件 + rename 原子写入产物，失败时清理临时文件。
	Put(ctx context.Context, rel string, body io.Reader, opts PutOptions) (*Entry, error)
}

// PutOptions 控制写入过程中的可选属性。
type PutOptions struct {
	ModTime time.Time
	Mode    uint32
}

// Entry 描述一次写入或读取到的产物。
type Entry struct {
	Path      string    `json:"path"`
	FilePath  string    `json:"file_path"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
}

// ReadResult 组合 Entry 与正文 Reader。
type ReadResult struct {
	Entry  Entry
	Reader io.ReadSeekCloser
}

var (
	// ErrNotFound 表示产物不存在。
	ErrNotFound = errors.New("artifact not found")
	// ErrInvalidPath 表示相对路径为空或越出根目录。
	ErrInvalidPath = errors.New("invalid artifact path")
)
