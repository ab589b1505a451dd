package config

import (
	"context"
	"path/filepath"
	"strings"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the configuration file at path and returns the changes it
	// makes to the defaults.
	Load(ctx context.Context, path string) (*Patch, error)
}

// ExtensionLoader dispatches to a Loader chosen by file extension.
type ExtensionLoader struct {
	byExt    map[string]Loader
	fallback Loader
}

// ByExtension returns a Loader that hands files whose extension is a key of
// byExt (".yaml", matched case-insensitively) to that loader and everything
// else to fallback.
func ByExtension(fallback Loader, byExt map[string]Loader) *ExtensionLoader {
	normalized := make(map[string]Loader, len(byExt))
	for ext, l := range byExt {
		normalized[strings.ToLower(ext)] = l
	}
	return &ExtensionLoader{byExt: normalized, fallback: fallback}
}

// Load implements Loader.
func (e *ExtensionLoader) Load(ctx context.Context, path string) (*Patch, error) {
	if l, ok := e.byExt[strings.ToLower(filepath.Ext(path))]; ok {
		return l.Load(ctx, path)
	}
	return e.fallback.Load(ctx, path)
}
