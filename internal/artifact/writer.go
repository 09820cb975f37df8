package artifact

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"
)

// ErrStoreUnavailable 表示未注入产物存储实例。
var ErrStoreUnavailable = errors.New("artifact store unavailable")

// Artifact 是一次构建待写出的单个文件。
type Artifact struct {
	Path string
	Data []byte
}

// Result 记录单个产物的写出结果；Unchanged 表示内容一致而跳过写入。
type Result struct {
	Entry     Entry
	Unchanged bool
}

// Writer 在 Store 之上增加“内容未变则不落盘”的语义，避免 watch 模式反复触发下游编译。
type Writer struct {
	store Store
	now   func() time.Time
}

// NewWriter 构造写入器，默认使用 time.Now 作为时钟。
func NewWriter(store Store) Writer {
	return Writer{
		store: store,
		now:   time.Now,
	}
}

// Write 依次写出全部产物；任一失败即返回，已写出的文件保持完整。
func (w Writer) Write(ctx context.Context, artifacts ...Artifact) ([]Result, error) {
	if w.store == nil {
		return nil, ErrStoreUnavailable
	}

	results := make([]Result, 0, len(artifacts))
	for _, a := range artifacts {
		if entry, ok := w.unchanged(ctx, a); ok {
			results = append(results, Result{Entry: entry, Unchanged: true})
			continue
		}
		entry, err := w.store.Put(ctx, a.Path, bytes.NewReader(a.Data), PutOptions{ModTime: w.now().UTC()})
		if err != nil {
			return results, err
		}
		results = append(results, Result{Entry: *entry})
	}
	return results, nil
}

func (w Writer) unchanged(ctx context.Context, a Artifact) (Entry, bool) {
	existing, err := w.store.Get(ctx, a.Path)
	if err != nil {
		return Entry{}, false
	}
	defer existing.Reader.Close()

	if existing.Entry.SizeBytes != int64(len(a.Data)) {
		return Entry{}, false
	}
	current, err := io.ReadAll(existing.Reader)
	if err != nil || !bytes.Equal(current, a.Data) {
		return Entry{}, false
	}
	return existing.Entry, true
}
