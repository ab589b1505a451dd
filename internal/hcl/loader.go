package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/lyke/internal/config"
	"github.com/specialistvlad/lyke/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	env map[string]string
}

// NewLoader creates a loader that exposes the process environment as `env`.
func NewLoader() *Loader {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if name, value, ok := strings.Cut(kv, "="); ok && name != "" {
			env[name] = value
		}
	}
	return NewLoaderWithEnv(env)
}

// NewLoaderWithEnv creates a loader that exposes env as `env`.
func NewLoaderWithEnv(env map[string]string) *Loader {
	return &Loader{env: env}
}

// Load parses the file at path and translates it into a config.Patch. Files
// ending in .json use HCL's JSON syntax, everything else the native syntax.
func (l *Loader) Load(ctx context.Context, path string) (*config.Patch, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	var (
		file  *hcl.File
		diags hcl.Diagnostics
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		file, diags = parser.ParseJSONFile(path)
	} else {
		file, diags = parser.ParseHCLFile(path)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, l.evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	patch := translate(&root)
	logger.Debug("HCL loading complete.", "path", path)
	return patch, nil
}

// evalContext exposes the environment and a few string helpers to
// expressions in the configuration file.
func (l *Loader) evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(l.env))
	for name, value := range l.env {
		vars[name] = cty.StringVal(value)
	}
	envVal := cty.EmptyObjectVal
	if len(vars) > 0 {
		envVal = cty.ObjectVal(vars)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envVal},
		Functions: map[string]function.Function{
			"lower":    stdlib.LowerFunc,
			"upper":    stdlib.UpperFunc,
			"format":   stdlib.FormatFunc,
			"coalesce": stdlib.CoalesceFunc,
		},
	}
}

// translate converts the HCL-specific schema into the agnostic patch.
func translate(root *fileRoot) *config.Patch {
	patch := &config.Patch{Assets: root.Assets}
	if out := root.Output; out != nil {
		patch.OutputDir = out.Dir
		patch.OutputHTML = out.HTML
		patch.OutputCSS = out.CSS
		patch.OutputJS = out.JS
		patch.OutputAssets = out.Assets
	}
	for _, dev := range []*devServerBlock{root.DevServerCamel, root.DevServer} {
		if dev != nil && dev.Port != nil {
			patch.DevServerPort = dev.Port
		}
	}
	return patch
}
