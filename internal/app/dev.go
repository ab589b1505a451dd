package app

import (
	"context"
	"path/filepath"

	"github.com/specialistvlad/lyke/internal/ctxlog"
	"github.com/specialistvlad/lyke/internal/devserver"
	"github.com/specialistvlad/lyke/internal/format"
	"github.com/specialistvlad/lyke/internal/watch"
	"golang.org/x/sync/errgroup"
)

// Dev builds the input with readable output, serves the build and rebuilds
// whenever a file next to the input changes. Build errors are logged and the
// next change retries. Dev returns once ctx is done.
func (a *App) Dev(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger

	if _, err := a.compile(ctx, format.Readable); err != nil {
		logger.Error("Initial build failed, waiting for changes.", "error", err)
	}

	srv := devserver.New(a.build.DevServer.Port, a.paths.OutputDir, a.paths.HTML)
	w := watch.New(filepath.Dir(a.input), watch.DefaultDelay, a.paths.OutputDir)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})
	g.Go(func() error {
		return w.Run(ctx, func(ctx context.Context, paths []string) {
			logger.Info("🔁 Change detected, rebuilding...", "files", len(paths))
			if _, err := a.compile(ctx, format.Readable); err != nil {
				logger.Error("Rebuild failed.", "error", err)
				return
			}
			srv.Reload(ctx)
		})
	})
	return g.Wait()
}
