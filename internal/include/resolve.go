package include

import (
	"path/filepath"
	"strings"
)

// DefaultExt is appended to references that carry no extension.
const DefaultExt = ".html"

// Resolve turns a marker reference into a file location. Relative references
// are resolved against the directory of from, the including document.
// Existence is not checked.
func Resolve(ref, from string) string {
	location := ref
	if !filepath.IsAbs(ref) {
		location = filepath.Join(filepath.Dir(from), ref)
	}
	location = filepath.Clean(location)
	if filepath.Ext(location) == "" {
		location += DefaultExt
	}
	return location
}

// Logical returns the display path of location used to label extracted
// script and style content: relative to the root document's directory,
// slash-separated, without extension.
func Logical(root, location string) string {
	rel, err := filepath.Rel(filepath.Dir(root), location)
	if err != nil {
		rel = location
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}
