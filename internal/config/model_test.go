package config

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestApply_MergesOnlySetFields(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Apply(&Patch{
		OutputDir:     ptr("public"),
		OutputJS:      ptr("app.js"),
		DevServerPort: ptr(3000),
	})

	expected := Default()
	expected.Output.Dir = "public"
	expected.Output.JS = "app.js"
	expected.DevServer.Port = 3000

	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_NilPatch(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Apply(nil)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Default().Validate())

	cfg := Default()
	cfg.Output.HTML = " "
	cfg.DevServer.Port = 70000
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.html must not be empty")
	assert.Contains(t, err.Error(), "dev_server.port 70000 is out of range")
}

func TestResolve(t *testing.T) {
	t.Parallel()

	work := filepath.FromSlash("/work")
	paths := Default().Resolve(work)

	assert.Equal(t, Paths{
		OutputDir: filepath.FromSlash("/work/dist"),
		HTML:      filepath.FromSlash("/work/dist/index.html"),
		CSS:       filepath.FromSlash("/work/dist/style.css"),
		JS:        filepath.FromSlash("/work/dist/script.js"),
		AssetsSrc: filepath.FromSlash("/work/assets"),
		AssetsDst: filepath.FromSlash("/work/dist/assets"),
	}, paths)

	cfg := Default()
	cfg.Output.Dir = filepath.FromSlash("/srv/www")
	assert.Equal(t, filepath.FromSlash("/srv/www/index.html"), cfg.Resolve(work).HTML)
}
