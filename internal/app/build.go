package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/specialistvlad/lyke/internal/assemble"
	"github.com/specialistvlad/lyke/internal/ctxlog"
	"github.com/specialistvlad/lyke/internal/format"
	"github.com/specialistvlad/lyke/internal/printer"
)

// Build compiles the input once with minified output and writes the build.
func (a *App) Build(ctx context.Context) (*assemble.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	return a.compile(ctx, format.Compact)
}

func (a *App) compile(ctx context.Context, mode format.Mode) (*assemble.Result, error) {
	ctx = ctxlog.With(ctx, "mode", mode.String())
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build started.", "input", a.input)

	start := time.Now()
	res, err := a.assembler.Compile(ctx, a.input, a.build, mode)
	if err != nil {
		return nil, fmt.Errorf("build failed: %w", err)
	}

	logger.Info(fmt.Sprintf("🏁 Compiled %d files in %dms", res.FileCount, time.Since(start).Milliseconds()),
		"html", humanize.Bytes(uint64(len(res.HTML))),
		"js", humanize.Bytes(uint64(len(res.JS))),
		"css", humanize.Bytes(uint64(len(res.CSS))),
		"output", a.paths.OutputDir,
	)
	return res, nil
}

// Tree compiles the input in memory and prints its include tree.
func (a *App) Tree(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	res, err := a.assembler.Render(ctx, a.input, a.build, format.Compact)
	if err != nil {
		return fmt.Errorf("failed to compile include tree: %w", err)
	}
	return printer.PrintTree(a.outW, res.Tree)
}
