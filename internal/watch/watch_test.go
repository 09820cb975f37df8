package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestRelevant(t *testing.T) {
	testCases := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/data/index.html", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/data/app.js", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/data/app.js", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "/data/app.js", Op: fsnotify.Rename}, true},
		{fsnotify.Event{Name: "/data/app.js", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/data/.index.html.swp", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/data/index.html~", Op: fsnotify.Write}, false},
	}
	for _, tc := range testCases {
		if got := relevant(tc.event); got != tc.want {
			t.Fatalf("relevant(%s %s) = %v, want %v", tc.event.Name, tc.event.Op, got, tc.want)
		}
	}
}

func TestNewValidatesArguments(t *testing.T) {
	noop := func(context.Context) error { return nil }
	if _, err := New("", time.Second, noop, nil); err == nil {
		t.Fatalf("empty dir should fail")
	}
	if _, err := New(t.TempDir(), time.Second, nil, nil); err == nil {
		t.Fatalf("nil rebuild should fail")
	}
	for _, dir := range []string{"mem://localhost/assets", "s3://bucket/assets"} {
		if _, err := New(dir, time.Second, noop, nil); err == nil || !strings.Contains(err.Error(), "local source dir") {
			t.Fatalf("non-local dir %s should fail, got %v", dir, err)
		}
	}
	local := t.TempDir()
	fw, err := New("file://"+local, time.Second, noop, nil)
	if err != nil {
		t.Fatalf("file URL should be accepted: %v", err)
	}
	if fw.dir != local {
		t.Fatalf("file URL should resolve to %s, got %s", local, fw.dir)
	}
	w, err := New(t.TempDir(), 0, noop, nil)
	if err != nil {
		t.Fatalf("new error: %v", err)
	}
	if w.debounce != DefaultDebounce {
		t.Fatalf("debounce default not applied: %v", w.debounce)
	}
}

func TestRunCoalescesBurstIntoSingleRebuild(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w, err := New(dir, 100*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("new error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// fsnotify 注册需要一点时间
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte{byte(i)}, 0o644); err != nil {
			t.Fatalf("write error: %v", err)
		}
	}

	deadline := time.Now().Add(3 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one rebuild, got %d", calls.Load())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not stop after cancel")
	}
}

func TestRunMissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing"), time.Millisecond, func(context.Context) error { return nil }, nil)
	if err != nil {
		t.Fatalf("new error: %v", err)
	}
	if err := w.Run(context.Background()); err == nil {
		t.Fatalf("watching a missing directory should fail")
	}
}
