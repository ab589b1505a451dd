package app

import (
	"errors"
	"fmt"
)

// Commands understood by App.Run.
const (
	CommandBuild = "build"
	CommandDev   = "dev"
	CommandTree  = "tree"
)

// DefaultInput is compiled when no input file is named.
const DefaultInput = "index.html"

// ConfigFileNames are looked up in the working directory when no
// configuration file is named.
var ConfigFileNames = []string{"lyke.hcl", "lyke.json", "lyke.yaml", "lyke.yml"}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command    string
	InputPath  string
	ConfigPath string // empty: look up ConfigFileNames in WorkDir
	WorkDir    string // empty: the process working directory

	LogFormat   string
	LogLevel    string
	Port        int // 0 keeps the configured dev_server.port
	Concurrency int // 0 is unlimited
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandBuild, CommandDev, CommandTree:
	case "":
		return nil, errors.New("a command is required")
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	if cfg.InputPath == "" {
		cfg.InputPath = DefaultInput
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port %d is out of range", cfg.Port)
	}
	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("concurrency must not be negative, got %d", cfg.Concurrency)
	}
	return &cfg, nil
}
