package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Output names where build artifacts are written. File names are relative
// to Dir; Dir is relative to the working directory unless absolute.
type Output struct {
	Dir    string `key:"dir" validate:"notblank"`
	HTML   string `key:"html" validate:"notblank"`
	CSS    string `key:"css" validate:"notblank"`
	JS     string `key:"js" validate:"notblank"`
	Assets string `key:"assets"`
}

// DevServer configures the development server.
type DevServer struct {
	Port int `key:"port" validate:"min=0,max=65535"`
}

// Config is the complete build configuration.
type Config struct {
	Output    Output    `key:"output"`
	Assets    string    `key:"assets"` // source asset directory
	DevServer DevServer `key:"dev_server"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Output: Output{
			Dir:    "dist",
			HTML:   "index.html",
			CSS:    "style.css",
			JS:     "script.js",
			Assets: "assets",
		},
		Assets:    "assets",
		DevServer: DevServer{Port: 8080},
	}
}

// Patch holds the values a configuration file sets. Nil fields keep the
// value they are merged over.
type Patch struct {
	OutputDir     *string
	OutputHTML    *string
	OutputCSS     *string
	OutputJS      *string
	OutputAssets  *string
	Assets        *string
	DevServerPort *int
}

// Apply merges p over c.
func (c *Config) Apply(p *Patch) {
	if p == nil {
		return
	}
	set(&c.Output.Dir, p.OutputDir)
	set(&c.Output.HTML, p.OutputHTML)
	set(&c.Output.CSS, p.OutputCSS)
	set(&c.Output.JS, p.OutputJS)
	set(&c.Output.Assets, p.OutputAssets)
	set(&c.Assets, p.Assets)
	set(&c.DevServer.Port, p.DevServerPort)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance names fields after their configuration file keys.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			return f.Tag.Get("key")
		})
		// Registration only fails for an empty tag or a nil function.
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
	})
	return validate
}

// Validate reports every field that cannot produce a working build.
func (c *Config) Validate() error {
	err := validatorInstance().Struct(c)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		// Namespace is "Config.output.dir"; drop the type name.
		_, key, _ := strings.Cut(fe.Namespace(), ".")
		switch fe.Tag() {
		case "notblank":
			errs = append(errs, fmt.Errorf("%s must not be empty", key))
		case "min", "max":
			errs = append(errs, fmt.Errorf("%s %v is out of range", key, fe.Value()))
		default:
			errs = append(errs, fmt.Errorf("%s is invalid (%s)", key, fe.Tag()))
		}
	}
	return errors.Join(errs...)
}

// Paths are the absolute file locations a build reads and writes.
type Paths struct {
	OutputDir string
	HTML      string
	CSS       string
	JS        string
	AssetsSrc string
	AssetsDst string
}

// Resolve returns the build locations with relative paths anchored at workDir.
func (c *Config) Resolve(workDir string) Paths {
	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(workDir, p)
	}
	dir := abs(c.Output.Dir)
	return Paths{
		OutputDir: dir,
		HTML:      filepath.Join(dir, c.Output.HTML),
		CSS:       filepath.Join(dir, c.Output.CSS),
		JS:        filepath.Join(dir, c.Output.JS),
		AssetsSrc: abs(c.Assets),
		AssetsDst: filepath.Join(dir, c.Output.Assets),
	}
}
