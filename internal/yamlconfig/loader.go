// Package yamlconfig loads build configuration from YAML files. Values may
// reference the environment with {{ env.NAME }}; alternatives separated by
// "||" are tried in order, the first non-empty one wins, and a part that is
// not an env reference is used literally.
package yamlconfig

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/specialistvlad/lyke/internal/config"
	"github.com/specialistvlad/lyke/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

var templatePattern = regexp.MustCompile(`\{\{\s*([^}]+?)\s*\}\}`)

type fileRoot struct {
	Output *struct {
		Dir    *string `yaml:"dir"`
		HTML   *string `yaml:"html"`
		CSS    *string `yaml:"css"`
		JS     *string `yaml:"js"`
		Assets *string `yaml:"assets"`
	} `yaml:"output"`
	Assets         *string          `yaml:"assets"`
	DevServer      *devServerConfig `yaml:"dev_server"`
	DevServerCamel *devServerConfig `yaml:"devServer"`
}

type devServerConfig struct {
	Port *int `yaml:"port"`
}

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct {
	lookup func(string) string
}

// NewLoader creates a loader that reads env references from the process
// environment.
func NewLoader() *Loader {
	return &Loader{lookup: os.Getenv}
}

// NewLoaderWithEnv creates a loader that reads env references from env.
func NewLoaderWithEnv(env map[string]string) *Loader {
	return &Loader{lookup: func(name string) string { return env[name] }}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Patch, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file %s: %w", path, err)
	}

	var root fileRoot
	if err := yaml.Unmarshal(l.template(content), &root); err != nil {
		return nil, fmt.Errorf("unable to parse config file %s: %w", path, err)
	}

	patch := &config.Patch{Assets: root.Assets}
	if out := root.Output; out != nil {
		patch.OutputDir = out.Dir
		patch.OutputHTML = out.HTML
		patch.OutputCSS = out.CSS
		patch.OutputJS = out.JS
		patch.OutputAssets = out.Assets
	}
	// dev_server wins over devServer when both are set.
	for _, dev := range []*devServerConfig{root.DevServerCamel, root.DevServer} {
		if dev != nil && dev.Port != nil {
			patch.DevServerPort = dev.Port
		}
	}
	logger.Debug("YAML loading complete.", "path", path)
	return patch, nil
}

func (l *Loader) template(content []byte) []byte {
	return templatePattern.ReplaceAllFunc(content, func(match []byte) []byte {
		expr := templatePattern.FindSubmatch(match)[1]
		for _, part := range strings.Split(string(expr), "||") {
			part = strings.TrimSpace(part)
			if name, ok := strings.CutPrefix(part, "env."); ok {
				if value := l.lookup(name); value != "" {
					return []byte(value)
				}
				continue
			}
			if part != "" {
				return []byte(part)
			}
		}
		return nil
	})
}
