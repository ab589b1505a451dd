// Package assemble turns a compiled include tree into the files of a build:
// it links the script and style bundles from the markup, formats all three
// artifacts and writes them, then copies the asset directory.
package assemble

import (
	"context"
	"fmt"
	"html"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/specialistvlad/lyke/internal/compiler"
	"github.com/specialistvlad/lyke/internal/config"
	"github.com/specialistvlad/lyke/internal/ctxlog"
	"github.com/specialistvlad/lyke/internal/format"
	"github.com/specialistvlad/lyke/internal/fsutil"
	"github.com/specialistvlad/lyke/internal/markup"
)

// Result is the formatted output of a build.
type Result struct {
	HTML      string
	JS        string
	CSS       string
	FileCount int
	Tree      *compiler.Node
	// Written lists the files written, in write order. Empty for Render.
	Written []string

	// Whether the bundles were non-empty before formatting, and so linked.
	hasJS, hasCSS bool
}

type artifact struct {
	path    string
	content string
}

// Assembler runs the compiler and produces build output.
type Assembler struct {
	compiler  *compiler.Compiler
	formatter format.Formatter
	workDir   string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithWorkDir anchors relative configuration paths at dir instead of the
// process working directory.
func WithWorkDir(dir string) Option {
	return func(a *Assembler) {
		a.workDir = dir
	}
}

// New creates an Assembler.
func New(c *compiler.Compiler, f format.Formatter, opts ...Option) *Assembler {
	a := &Assembler{compiler: c, formatter: f}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Compile builds rootPath with cfg: it compiles the include tree, links and
// formats the bundles, writes the output files and copies the assets. If
// compilation fails nothing is written.
func (a *Assembler) Compile(ctx context.Context, rootPath string, cfg *config.Config, mode format.Mode) (*Result, error) {
	res, err := a.Render(ctx, rootPath, cfg, mode)
	if err != nil {
		return nil, err
	}

	paths, err := a.paths(cfg)
	if err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)

	var writes []artifact
	if res.hasJS {
		writes = append(writes, artifact{paths.JS, res.JS})
	}
	if res.hasCSS {
		writes = append(writes, artifact{paths.CSS, res.CSS})
	}
	writes = append(writes, artifact{paths.HTML, res.HTML})

	for _, w := range writes {
		if err := fsutil.WriteFile(w.path, w.content); err != nil {
			return nil, err
		}
		res.Written = append(res.Written, w.path)
		logger.Debug("Output written.", "path", w.path, "size", humanize.Bytes(uint64(len(w.content))))
	}

	if err := fsutil.CopyTree(paths.AssetsSrc, paths.AssetsDst); err != nil {
		return nil, err
	}
	logger.Debug("Assets copied.", "from", paths.AssetsSrc, "to", paths.AssetsDst)

	return res, nil
}

// Render compiles and formats rootPath without touching the file system
// beyond reading the documents.
func (a *Assembler) Render(ctx context.Context, rootPath string, cfg *config.Config, mode format.Mode) (*Result, error) {
	compiled, err := a.compiler.Compile(ctx, rootPath)
	if err != nil {
		return nil, err
	}

	res := &Result{
		FileCount: compiled.FileCount,
		Tree:      compiled.Tree,
		hasJS:     compiled.JS != "",
		hasCSS:    compiled.CSS != "",
	}
	markupText, err := link(compiled.HTML, cfg, res.hasJS, res.hasCSS)
	if err != nil {
		return nil, err
	}

	if res.HTML, err = a.formatter.Format(markupText, format.HTML, mode); err != nil {
		return nil, err
	}
	if res.JS, err = a.formatter.Format(compiled.JS, format.JS, mode); err != nil {
		return nil, err
	}
	if res.CSS, err = a.formatter.Format(compiled.CSS, format.CSS, mode); err != nil {
		return nil, err
	}
	return res, nil
}

func (a *Assembler) paths(cfg *config.Config) (config.Paths, error) {
	dir := a.workDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return config.Paths{}, fmt.Errorf("failed to determine working directory: %w", err)
		}
		dir = wd
	}
	return cfg.Resolve(dir), nil
}

// ScriptTag references the script bundle from the markup.
func ScriptTag(src string) string {
	return fmt.Sprintf(`<script src="%s"></script>`, html.EscapeString(src))
}

// StyleTag references the style bundle from the markup.
func StyleTag(href string) string {
	return fmt.Sprintf(`<link rel="stylesheet" type="text/css" href="%s"/>`, html.EscapeString(href))
}

// link appends the script tag to the end of <body> and the stylesheet tag to
// the end of <head>. A fragment has neither, so it gets the script at its end
// and the stylesheet at its start.
func link(text string, cfg *config.Config, hasJS, hasCSS bool) (string, error) {
	if !hasJS && !hasCSS {
		return text, nil
	}

	doc, err := markup.Parse(text)
	if err != nil {
		return "", err
	}
	if hasJS {
		body := doc.Root()
		if !doc.IsFragment() {
			body = doc.First("body")
		}
		if err := doc.AppendHTML(body, ScriptTag(cfg.Output.JS)); err != nil {
			return "", err
		}
	}
	if hasCSS {
		if doc.IsFragment() {
			err = doc.PrependHTML(doc.Root(), StyleTag(cfg.Output.CSS))
		} else {
			err = doc.AppendHTML(doc.First("head"), StyleTag(cfg.Output.CSS))
		}
		if err != nil {
			return "", err
		}
	}
	return doc.Render()
}
