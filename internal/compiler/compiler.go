package compiler

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/gzasset/gzasset/internal/logging"
	"github.com/gzasset/gzasset/internal/source"
	"github.com/gzasset/gzasset/pkg/asset"
)

// gzipOSUnknown 固定 gzip 头中的 OS 字段，保证跨平台构建结果一致。
const gzipOSUnknown = 255

// Source 是一个待编译文件。Data 为空时通过 Files 按 URL 读取。
type Source struct {
	Name    string
	URL     string
	Data    []byte
	Primary bool
}

// Files 同时提供目录枚举与文件读取能力，通常为 *source.Service。
type Files interface {
	source.Reader
	source.Lister
}

// Option 定制 Compiler。
type Option func(*Compiler)

// WithMimeTypes 在内置映射上追加或覆盖扩展名。
func WithMimeTypes(overrides map[string]string) Option {
	return func(c *Compiler) {
		c.mimes = NewMimeTable(overrides)
	}
}

// WithLogger 指定构建日志输出。
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithWorkers 限制并行压缩的 goroutine 数量。
func WithWorkers(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithClock 替换获取构建时间的时钟。
func WithClock(now func() time.Time) Option {
	return func(c *Compiler) {
		if now != nil {
			c.now = now
		}
	}
}

// WithEpoch 固定构建时间戳，用于可复现构建；零值表示使用时钟。
func WithEpoch(t time.Time) Option {
	return func(c *Compiler) {
		c.pinned = t
	}
}

// Compiler 将源文件编译为 asset.Table，实例本身无可变状态，可重复使用。
type Compiler struct {
	files   Files
	mimes   MimeTable
	logger  *logrus.Logger
	workers int
	now     func() time.Time
	pinned  time.Time
}

// New 构造 Compiler；files 可为 nil（仅编译自带 Data 的 Source）。
func New(files Files, opts ...Option) *Compiler {
	c := &Compiler{
		files:   files,
		mimes:   DefaultMimeTypes(),
		logger:  logging.NewNop(),
		workers: 4,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Epoch 返回本次构建使用的 Last-Modified 值。
func (c *Compiler) Epoch() asset.Epoch {
	if !c.pinned.IsZero() {
		return asset.NewEpoch(c.pinned)
	}
	return asset.NewEpoch(c.now())
}

// CompileDir 枚举 dirURL 下的文件并编译；文件名等于 primary 的资源被标记为 primary。
func (c *Compiler) CompileDir(ctx context.Context, dirURL, primary string) (*asset.Table, error) {
	if c.files == nil {
		return nil, errors.New("compiler has no file source")
	}

	files, err := c.files.List(ctx, dirURL)
	if err != nil {
		return nil, newBuildError(KindUnreadable, dirURL, err)
	}

	sources := make([]Source, 0, len(files))
	found := primary == ""
	for _, f := range files {
		isPrimary := primary != "" && f.Name == primary
		found = found || isPrimary
		sources = append(sources, Source{Name: f.Name, URL: f.URL, Primary: isPrimary})
	}
	if !found {
		c.logger.WithFields(logrus.Fields{
			"action":  "compile",
			"source":  dirURL,
			"primary": primary,
		}).Warn("primary asset not found")
	}

	return c.Compile(ctx, sources)
}

// Compile 编译全部 sources；任何一个文件失败都会返回 *BuildError 且不产出 Table。
func (c *Compiler) Compile(ctx context.Context, sources []Source) (*asset.Table, error) {
	started := time.Now()
	epoch := c.Epoch()
	if err := ctx.Err(); err != nil {
		return nil, newBuildError(KindCanceled, "", err)
	}

	sorted := make([]Source, len(sources))
	copy(sorted, sources)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	plans, err := c.plan(sorted)
	if err != nil {
		return nil, err
	}

	records := make([]asset.Record, len(plans))
	p := pool.New().WithMaxGoroutines(c.workers).WithContext(ctx).WithCancelOnError().WithFirstError()
	for i, pl := range plans {
		p.Go(func(ctx context.Context) error {
			rec, err := c.compileOne(ctx, pl)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	table, err := asset.NewTable(epoch, records)
	if err != nil {
		return nil, fmt.Errorf("assemble asset table: %w", err)
	}

	for _, rec := range table.Records() {
		c.logger.WithFields(logging.AssetFields(rec)).Debug("asset compiled")
	}
	c.logger.WithFields(logrus.Fields{
		"action":      "compile",
		"assets":      table.Len(),
		"total_bytes": table.TotalBytes(),
		"epoch":       table.Epoch().String(),
		"elapsed_ms":  time.Since(started).Milliseconds(),
	}).Info("asset table compiled")

	return table, nil
}

type plan struct {
	src      Source
	name     string
	mimeType string
}

// plan 在压缩之前完成命名、MIME 与 primary 校验，使这些错误的报告顺序确定。
func (c *Compiler) plan(sources []Source) ([]plan, error) {
	plans := make([]plan, 0, len(sources))
	names := make(map[string]string, len(sources))
	routes := make(map[string]string, len(sources))
	primary := ""

	for _, src := range sources {
		if src.Name == "" {
			return nil, newBuildError(KindEmptyName, src.URL, nil)
		}
		if !asset.ValidRoute(src.Name) {
			return nil, newBuildError(KindUnsafeRoute, src.Name, errors.New("only [A-Za-z0-9._-] are allowed in served file names"))
		}
		folded := strings.ToLower(src.Name)
		if other, exists := routes[folded]; exists {
			return nil, newBuildError(KindRouteCollision, src.Name, fmt.Errorf("%s and %s differ only in case", other, src.Name))
		}
		routes[folded] = src.Name

		name := Sanitize(src.Name)
		if other, exists := names[name]; exists {
			return nil, newBuildError(KindNameCollision, src.Name, fmt.Errorf("%s and %s both map to %s", other, src.Name, name))
		}
		names[name] = src.Name

		mimeType, ok := c.mimes.Lookup(src.Name)
		if !ok {
			return nil, newBuildError(KindUnknownMime, src.Name, nil)
		}

		if src.Primary {
			if primary != "" {
				return nil, newBuildError(KindMultiplePrimary, src.Name, fmt.Errorf("already flagged %s", primary))
			}
			primary = src.Name
		}

		plans = append(plans, plan{src: src, name: name, mimeType: mimeType})
	}
	return plans, nil
}

func (c *Compiler) compileOne(ctx context.Context, pl plan) (asset.Record, error) {
	if err := ctx.Err(); err != nil {
		return asset.Record{}, newBuildError(KindCanceled, pl.src.Name, err)
	}

	raw, err := c.read(ctx, pl.src)
	if err != nil {
		return asset.Record{}, newBuildError(KindUnreadable, pl.src.Name, err)
	}

	payload, err := Compress(raw)
	if err != nil {
		return asset.Record{}, newBuildError(KindCompress, pl.src.Name, err)
	}

	return asset.Record{
		Name:        pl.name,
		Route:       pl.src.Name,
		Payload:     payload,
		MimeType:    pl.mimeType,
		Fingerprint: Fingerprint(payload),
		Primary:     pl.src.Primary,
	}, nil
}

func (c *Compiler) read(ctx context.Context, src Source) ([]byte, error) {
	if src.Data != nil {
		return src.Data, nil
	}
	if c.files == nil || src.URL == "" {
		return nil, errors.New("no data and no readable URL")
	}
	return c.files.Read(ctx, src.URL)
}

// Compress 以默认压缩级别和固定头部（无文件名、MTIME=0、OS=unknown）输出 gzip 数据，
// 相同输入必然得到相同字节。
func Compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.DefaultCompression)
	if err != nil {
		return nil, err
	}
	zw.Name = ""
	zw.Comment = ""
	// klauspost 会无条件写入 ModTime.Unix()，零值 time.Time 并不对应 MTIME=0。
	zw.ModTime = time.Unix(0, 0)
	zw.OS = gzipOSUnknown

	if _, err := zw.Write(raw); err != nil {
		_ = zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Fingerprint 返回 payload 的 SHA-1 小写十六进制摘要（40 字符）。
func Fingerprint(payload []byte) string {
	sum := sha1.Sum(payload)
	return hex.EncodeToString(sum[:])
}
