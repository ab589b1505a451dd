package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/lyke/internal/app"
	"github.com/specialistvlad/lyke/internal/cli"
	"github.com/specialistvlad/lyke/internal/config"
	"github.com/specialistvlad/lyke/internal/hcl"
	"github.com/specialistvlad/lyke/internal/yamlconfig"
)

// main is the entrypoint for the lyke application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		stop()
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// HCL reads .hcl and .json files; YAML files get their own loader.
	yamlLoader := yamlconfig.NewLoader()
	loader := config.ByExtension(hcl.NewLoader(), map[string]config.Loader{
		".yaml": yamlLoader,
		".yml":  yamlLoader,
	})
	lykeApp, err := app.NewApp(outW, appConfig, loader)
	if err != nil {
		return err
	}

	return lykeApp.Run(ctx)
}
