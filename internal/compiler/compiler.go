package compiler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/specialistvlad/lyke/internal/ctxlog"
	"github.com/specialistvlad/lyke/internal/extract"
	"github.com/specialistvlad/lyke/internal/include"
	"github.com/specialistvlad/lyke/internal/markup"
	"golang.org/x/sync/errgroup"
)

// MaxDepth is the deepest include nesting the compiler follows.
const MaxDepth = 64

// Source is one document taking part in a compilation.
type Source struct {
	Location string // absolute file location
	Content  string
	Logical  string // display path relative to the root document
}

// Compiler inlines included documents and collects their script and style
// content. A Compiler holds no per-run state and may be used concurrently.
type Compiler struct {
	reader      Reader
	concurrency int
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithConcurrency bounds how many sibling includes are read and compiled at
// once. Zero or less means no bound.
func WithConcurrency(n int) Option {
	return func(c *Compiler) {
		c.concurrency = n
	}
}

// New creates a Compiler reading documents through reader. A nil reader
// reads from the local file system.
func New(reader Reader, opts ...Option) *Compiler {
	if reader == nil {
		reader = OSReader{}
	}
	c := &Compiler{reader: reader}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile reads the root document at rootPath and compiles its whole
// include tree.
func (c *Compiler) Compile(ctx context.Context, rootPath string) (*Result, error) {
	location, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root document %s: %w", rootPath, err)
	}
	content, err := c.reader.ReadFile(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read root document %s: %w", rootPath, err)
	}
	return c.CompileText(ctx, string(content), location)
}

// CompileText compiles text as if it were the content of the root document
// at location. Includes are resolved relative to location.
func (c *Compiler) CompileText(ctx context.Context, text, location string) (*Result, error) {
	r := &run{compiler: c, root: location}
	unit, err := r.walk(ctx, Source{
		Location: location,
		Content:  text,
		Logical:  include.Logical(location, location),
	}, nil)
	if err != nil {
		return nil, err
	}
	return unit.result(), nil
}

// run holds the state shared by every call of one compilation.
type run struct {
	compiler *Compiler
	root     string
}

// walk compiles one document and, recursively, everything it includes.
// chain lists the locations of the document's ancestors.
func (r *run) walk(ctx context.Context, src Source, chain []string) (*Unit, error) {
	logger := ctxlog.FromContext(ctx).With("document", src.Logical)

	doc, err := markup.Parse(src.Content)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", src.Location, err)
	}

	unit := &Unit{Tree: &Node{Logical: src.Logical, Location: src.Location}}
	scripts, styles := extract.Extract(doc, src.Logical)
	unit.own(scripts.WrapScript(), styles.WrapStyle())

	text, err := doc.Render()
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", src.Location, err)
	}

	markers := include.Scan(text)
	logger.Debug("Document parsed.", "scripts", len(scripts.Parts), "styles", len(styles.Parts), "markers", len(markers))

	chain = append(slices.Clip(chain), src.Location)
	children := make([]*Unit, len(markers))

	g, gctx := errgroup.WithContext(ctx)
	if r.compiler.concurrency > 0 {
		g.SetLimit(r.compiler.concurrency)
	}
	for i, m := range markers {
		i, m := i, m
		location := include.Resolve(m.Ref, src.Location)
		g.Go(func() error {
			child, err := r.load(gctx, m, location, src.Location, chain)
			if err != nil {
				return err
			}
			children[i] = child
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	replacements := make([]string, len(children))
	for i, child := range children {
		replacements[i] = child.Text
	}
	unit.merge(children)
	unit.Text = strings.TrimSpace(include.Substitute(text, markers, replacements))

	logger.Debug("Document compiled.", "includes", unit.Count)
	return unit, nil
}

// load reads the document a marker refers to and compiles it.
func (r *run) load(ctx context.Context, m include.Marker, location, from string, chain []string) (*Unit, error) {
	if slices.Contains(chain, location) {
		return nil, fmt.Errorf("%w: %s includes %s", ErrIncludeCycle, from, location)
	}
	if len(chain) > MaxDepth {
		return nil, fmt.Errorf("%w: %d levels at %s", ErrIncludeDepth, MaxDepth, location)
	}

	content, err := r.compiler.reader.ReadFile(ctx, location)
	if err != nil {
		// A cancelled run is not a missing document.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &IncludeNotFoundError{Ref: m.Ref, Path: location, From: from, Err: err}
	}

	return r.walk(ctx, Source{
		Location: location,
		Content:  string(content),
		Logical:  include.Logical(r.root, location),
	}, chain)
}
