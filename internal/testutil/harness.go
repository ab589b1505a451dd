// Package testutil holds helpers shared by the package tests: a thread-safe
// log buffer and a harness that lays out a site on disk.
package testutil

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// NewLogger returns a debug-level text logger writing to w.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Site is a temporary project directory.
type Site struct {
	Dir string
}

// WriteSite creates a temporary directory holding files, keyed by slash
// paths relative to the directory. Subdirectories are created as needed.
func WriteSite(t *testing.T, files map[string]string) *Site {
	t.Helper()

	dir := t.TempDir()
	site := &Site{Dir: dir}
	for name, content := range files {
		site.Write(t, name, content)
	}
	return site
}

// Path returns the absolute location of a slash path inside the site.
func (s *Site) Path(name string) string {
	return filepath.Join(s.Dir, filepath.FromSlash(name))
}

// Write creates or replaces a file in the site.
func (s *Site) Write(t *testing.T, name, content string) {
	t.Helper()
	path := s.Path(name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// Read returns the content of a file in the site.
func (s *Site) Read(t *testing.T, name string) string {
	t.Helper()
	content, err := os.ReadFile(s.Path(name))
	require.NoError(t, err)
	return string(content)
}
