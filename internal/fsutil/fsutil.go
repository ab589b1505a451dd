package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	cp "github.com/otiai10/copy"
)

// WriteFile replaces the file at path with content, creating the parent
// directory if needed. Readers never observe a partially written file.
func WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	_, statErr := os.Stat(path)
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	// atomic keeps the mode of a replaced file but creates new ones as 0600.
	if errors.Is(statErr, fs.ErrNotExist) {
		if err := os.Chmod(path, 0o644); err != nil {
			return fmt.Errorf("failed to set mode of %s: %w", path, err)
		}
	}
	return nil
}

// CopyTree copies src into dst recursively, preserving structure and
// overwriting existing files. A missing src is not an error.
func CopyTree(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error accessing path %s: %w", src, err)
	}
	if err := cp.Copy(src, dst); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// FindDirs recursively lists rootPath and every directory below it. Paths for
// which skip returns true are left out together with everything under them.
func FindDirs(rootPath string, skip func(path string) bool) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skip != nil && skip(path) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

// Within reports whether path is dir or lies below it.
func Within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
