package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/specialistvlad/lyke/internal/assemble"
	"github.com/specialistvlad/lyke/internal/compiler"
	"github.com/specialistvlad/lyke/internal/config"
	"github.com/specialistvlad/lyke/internal/ctxlog"
	"github.com/specialistvlad/lyke/internal/format"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	build     *config.Config
	paths     config.Paths
	input     string
	assembler *assemble.Assembler
}

// NewApp is the constructor for the main application. It loads the build
// configuration through loader and returns a fully initialized App with its
// own isolated logger.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	workDir := appConfig.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		workDir = wd
	}

	build, err := loadBuildConfig(ctx, loader, appConfig.ConfigPath, workDir)
	if err != nil {
		return nil, err
	}
	if appConfig.Port > 0 {
		build.DevServer.Port = appConfig.Port
	}
	if err := build.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debug("Configuration loaded.", "output_dir", build.Output.Dir, "assets", build.Assets)

	input := appConfig.InputPath
	if !filepath.IsAbs(input) {
		input = filepath.Join(workDir, input)
	}

	var opts []compiler.Option
	if appConfig.Concurrency > 0 {
		opts = append(opts, compiler.WithConcurrency(appConfig.Concurrency))
	}
	c := compiler.New(compiler.OSReader{}, opts...)

	return &App{
		outW:      outW,
		logger:    logger,
		config:    appConfig,
		build:     build,
		paths:     build.Resolve(workDir),
		input:     filepath.Clean(input),
		assembler: assemble.New(c, format.New(), assemble.WithWorkDir(workDir)),
	}, nil
}

// loadBuildConfig merges the configuration file over the defaults. Without an
// explicit path the first of ConfigFileNames present in workDir is used, and
// the defaults stand if there is none.
func loadBuildConfig(ctx context.Context, loader config.Loader, path, workDir string) (*config.Config, error) {
	logger := ctxlog.FromContext(ctx)
	cfg := config.Default()

	if path == "" {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(workDir, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			} else if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to check config file %s: %w", candidate, err)
			}
		}
		if path == "" {
			logger.Debug("No config file found, using defaults.")
			return cfg, nil
		}
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	patch, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.Apply(patch)
	logger.Debug("Config file applied.", "path", path)
	return cfg, nil
}

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command, "input", a.input)

	switch a.config.Command {
	case CommandBuild:
		_, err := a.Build(ctx)
		return err
	case CommandDev:
		return a.Dev(ctx)
	case CommandTree:
		return a.Tree(ctx)
	default:
		return fmt.Errorf("unknown command %q", a.config.Command)
	}
}

// BuildConfig returns the merged build configuration. This is primarily for testing.
func (a *App) BuildConfig() *config.Config {
	return a.build
}
