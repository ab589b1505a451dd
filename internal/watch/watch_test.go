package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startWatcher runs a watcher over dir and returns the channel its change
// notifications are delivered on.
func startWatcher(t *testing.T, dir string, exclude ...string) <-chan []string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan []string, 8)
	w := New(dir, 50*time.Millisecond, exclude...)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, paths []string) { changes <- paths })
	}()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	select {
	case <-w.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not become ready")
	}
	return changes
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRun_ReportsChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "partials"), 0o755))
	changes := startWatcher(t, dir)

	write(t, filepath.Join(dir, "index.html"), "a")
	write(t, filepath.Join(dir, "partials", "nav.html"), "b")

	seen := map[string]bool{}
	deadline := time.After(5 * time.Second)
	for !seen[filepath.Join(dir, "index.html")] || !seen[filepath.Join(dir, "partials", "nav.html")] {
		select {
		case paths := <-changes:
			assert.IsIncreasing(t, paths)
			for _, p := range paths {
				seen[p] = true
			}
		case <-deadline:
			t.Fatalf("changes not reported, saw %v", seen)
		}
	}
}

func TestRun_IgnoresExcludedAndHidden(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dist := filepath.Join(dir, "dist")
	require.NoError(t, os.MkdirAll(dist, 0o755))
	changes := startWatcher(t, dir, dist)

	write(t, filepath.Join(dist, "index.html"), "out")
	write(t, filepath.Join(dir, ".index.html.swp"), "swap")

	select {
	case paths := <-changes:
		t.Fatalf("unexpected change reported: %v", paths)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRun_WatchesNewDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	changes := startWatcher(t, dir)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "cards"), 0o755))
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("directory creation not reported")
	}

	write(t, filepath.Join(dir, "cards", "card.html"), "c")
	select {
	case paths := <-changes:
		assert.Contains(t, paths, filepath.Join(dir, "cards", "card.html"))
	case <-time.After(5 * time.Second):
		t.Fatal("change in new directory not reported")
	}
}
