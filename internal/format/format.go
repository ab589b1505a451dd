// Package format turns compiled output into its final shape: minified for
// production builds, indented for development builds.
package format

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// Kind is the media type of the text being formatted.
type Kind string

const (
	HTML Kind = "text/html"
	CSS  Kind = "text/css"
	JS   Kind = "application/javascript"
)

// Mode selects how output is formatted.
type Mode int

const (
	// Compact minifies output for production.
	Compact Mode = iota
	// Readable indents output for development.
	Readable
)

// ModeFor returns Readable for development builds and Compact otherwise.
func ModeFor(dev bool) Mode {
	if dev {
		return Readable
	}
	return Compact
}

func (m Mode) String() string {
	switch m {
	case Compact:
		return "compact"
	case Readable:
		return "readable"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Formatter formats one output artifact.
type Formatter interface {
	Format(text string, kind Kind, mode Mode) (string, error)
}

// Standard minifies with tdewolff/minify. Readable output indents markup with
// gohtml, scripts with jsbeautifier and stylesheets from the tdewolff/parse
// token stream.
type Standard struct {
	m *minify.M
}

// New returns a Standard formatter.
func New() *Standard {
	m := minify.New()
	m.Add(string(HTML), &minhtml.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.AddFunc(string(CSS), css.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`), js.Minify)
	return &Standard{m: m}
}

// Format implements Formatter. Empty input yields empty output.
func (s *Standard) Format(text string, kind Kind, mode Mode) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	switch mode {
	case Compact:
		out, err := s.m.String(string(kind), text)
		if err != nil {
			return "", fmt.Errorf("failed to minify %s: %w", kind, err)
		}
		return out, nil
	case Readable:
		return readable(text, kind)
	default:
		return "", fmt.Errorf("unknown format mode %v", mode)
	}
}
