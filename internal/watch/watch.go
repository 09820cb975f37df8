// Package watch rebuilds the asset table whenever the source directory changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/gzasset/gzasset/internal/logging"
)

// DefaultDebounce 是未配置 WatchDebounce 时的合并窗口。
const DefaultDebounce = 500 * time.Millisecond

// RebuildFunc 执行一次完整构建。失败只记录日志，不会终止 watch。
type RebuildFunc func(ctx context.Context) error

// Watcher 监听单个目录，并在一段静默期后触发重建。
type Watcher struct {
	dir      string
	debounce time.Duration
	rebuild  RebuildFunc
	logger   *logrus.Logger
}

// New 构造 Watcher；debounce <= 0 时使用 DefaultDebounce。
// dir 可以是本地路径或 file:// URL，fsnotify 无法监听其他 scheme。
func New(dir string, debounce time.Duration, rebuild RebuildFunc, logger *logrus.Logger) (*Watcher, error) {
	if dir == "" {
		return nil, errors.New("watch directory required")
	}
	if scheme := url.Scheme(dir, file.Scheme); scheme != file.Scheme {
		return nil, fmt.Errorf("watch requires a local source dir, got %s:// URL %s", scheme, dir)
	}
	dir = url.Path(dir)
	if rebuild == nil {
		return nil, errors.New("rebuild func required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{dir: dir, debounce: debounce, rebuild: rebuild, logger: logger}, nil
}

// Run 阻塞直到 ctx 结束。重建在同一 goroutine 中串行执行。
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.logger.WithFields(logrus.Fields{
		"action":      "watch",
		"source_dir":  w.dir,
		"debounce_ms": w.debounce.Milliseconds(),
	}).Info("watch_started")

	trigger := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.WithFields(logrus.Fields{
				"action": "watch",
				"file":   filepath.Base(event.Name),
				"op":     event.Op.String(),
			}).Debug("watch_event")

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case <-trigger:
			start := time.Now()
			fields := logrus.Fields{"action": "watch"}
			if err := w.rebuild(ctx); err != nil {
				fields["error"] = err.Error()
				w.logger.WithFields(fields).Error("rebuild_failed")
				continue
			}
			fields["elapsed_ms"] = time.Since(start).Milliseconds()
			w.logger.WithFields(fields).Info("rebuild_completed")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WithFields(logrus.Fields{"action": "watch", "error": err.Error()}).Warn("watch_error")

		case <-ctx.Done():
			w.logger.WithField("action", "watch").Info("watch_stopped")
			return nil
		}
	}
}

// relevant 过滤隐藏文件、编辑器临时文件与纯权限变更。
func relevant(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") || strings.HasSuffix(base, "~") {
		return false
	}
	return event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}
