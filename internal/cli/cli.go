package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/lyke/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usage = `
Lyke - compiles an HTML document and its includes into a single page with
bundled scripts and styles.

Usage:
  lyke <command> [options] [FILE]

Commands:
  build   Compile FILE once with minified output.
  dev     Compile FILE with readable output, serve it and rebuild on change.
  tree    Print the include tree of FILE.

Arguments:
  FILE
    Root document. Defaults to index.html.

Options:
`

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("lyke", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usage)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to a .hcl, .json or .yaml config file. Defaults to the first lyke.{hcl,json,yaml,yml} present.")
	cFlag := flagSet.String("c", "", "Path to the config file (shorthand).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	portFlag := flagSet.Int("port", 0, "Port for the dev server. 0 uses the configured dev_server.port.")
	concurrencyFlag := flagSet.Int("concurrency", 0, "Maximum includes read concurrently per document. 0 is unlimited.")

	if len(args) == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	command := args[0]
	switch command {
	case "-h", "-help", "--help", "help":
		flagSet.Usage()
		return nil, true, nil
	case app.CommandBuild, app.CommandDev, app.CommandTree:
	default:
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command: %s", command)}
	}

	// flag stops at the first positional argument, so parsing resumes after
	// each FILE to accept flags on either side of it.
	var files []string
	rest := args[1:]
	for {
		if err := flagSet.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, true, nil
			}
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		if flagSet.NArg() == 0 {
			break
		}
		files = append(files, flagSet.Arg(0))
		rest = flagSet.Args()[1:]
	}
	slog.Debug("Arguments parsed successfully.", "command", command)

	if len(files) > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected at most one FILE, got %d", len(files))}
	}
	inputPath := ""
	if len(files) == 1 {
		inputPath = files[0]
	}

	configPath := *configFlag
	if configPath == "" {
		configPath = *cFlag
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Command:     command,
		InputPath:   inputPath,
		ConfigPath:  configPath,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		Port:        *portFlag,
		Concurrency: *concurrencyFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
