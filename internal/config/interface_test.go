package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedLoader string

func (n namedLoader) Load(_ context.Context, _ string) (*Patch, error) {
	name := string(n)
	return &Patch{OutputDir: &name}, nil
}

func TestByExtension(t *testing.T) {
	t.Parallel()

	loader := ByExtension(namedLoader("hcl"), map[string]Loader{
		".yaml": namedLoader("yaml"),
		".YML":  namedLoader("yaml"),
	})

	testCases := []struct {
		path string
		want string
	}{
		{path: "lyke.hcl", want: "hcl"},
		{path: "lyke.json", want: "hcl"},
		{path: "lyke.yaml", want: "yaml"},
		{path: "LYKE.YAML", want: "yaml"},
		{path: "conf/lyke.yml", want: "yaml"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()
			patch, err := loader.Load(context.Background(), tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, *patch.OutputDir)
		})
	}
}
