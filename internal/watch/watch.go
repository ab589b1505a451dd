// Package watch reports changes below a directory tree, coalescing bursts of
// file system events into a single notification.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/lyke/internal/ctxlog"
	"github.com/specialistvlad/lyke/internal/fsutil"
)

// DefaultDelay is the quiet period after the last event before a change is
// reported.
const DefaultDelay = 500 * time.Millisecond

// ChangeFunc receives the paths that changed since the last call, sorted.
type ChangeFunc func(ctx context.Context, paths []string)

// Watcher watches a directory tree recursively.
type Watcher struct {
	dir     string
	delay   time.Duration
	exclude []string
	ready   chan struct{}
}

// New creates a Watcher for dir. Paths under any of exclude, and hidden
// directories, are ignored. A delay of zero uses DefaultDelay.
func New(dir string, delay time.Duration, exclude ...string) *Watcher {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Watcher{dir: dir, delay: delay, exclude: exclude, ready: make(chan struct{})}
}

// Ready is closed once the initial directory tree is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is done, calling onChange once per burst of changes.
// onChange runs on the watching goroutine; events arriving meanwhile are
// reported in the next call.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	logger := ctxlog.FromContext(ctx).With("dir", w.dir)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addTree(fw, w.dir); err != nil {
		return err
	}
	close(w.ready)
	logger.Debug("Watching for changes.", "delay", w.delay)

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = make(map[string]struct{})
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.ignored(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(fw, ev.Name); err != nil {
						logger.Warn("Failed to watch new directory.", "path", ev.Name, "error", err)
					}
				}
			}
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			logger.Debug("Change detected.", "paths", len(paths))
			onChange(ctx, paths)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error.", "error", err)
		}
	}
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	dirs, err := fsutil.FindDirs(dir, w.ignored)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to list directories under %s: %w", dir, err)
	}
	for _, d := range dirs {
		if err := fw.Add(d); err != nil {
			return fmt.Errorf("failed to watch %s: %w", d, err)
		}
	}
	return nil
}

func (w *Watcher) ignored(path string) bool {
	for _, ex := range w.exclude {
		if fsutil.Within(path, ex) {
			return true
		}
	}
	rel, err := filepath.Rel(w.dir, path)
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
