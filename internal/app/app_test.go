package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/lyke/internal/compiler"
	"github.com/specialistvlad/lyke/internal/hcl"
	"github.com/specialistvlad/lyke/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAppTest creates an App over site for system testing.
func setupAppTest(t *testing.T, site *testutil.Site, cfg Config) (*App, *testutil.SafeBuffer) {
	t.Helper()

	cfg.WorkDir = site.Dir
	cfg.LogLevel = "debug"
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &testutil.SafeBuffer{}
	testApp, err := NewApp(logBuffer, appConfig, hcl.NewLoaderWithEnv(map[string]string{"OUT": "public"}))
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("LYKE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})
	return testApp, logBuffer
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "defaults input", cfg: Config{Command: CommandBuild}},
		{name: "missing command", cfg: Config{}, wantErr: "command is required"},
		{name: "unknown command", cfg: Config{Command: "serve"}, wantErr: `unknown command "serve"`},
		{name: "bad port", cfg: Config{Command: CommandDev, Port: 70000}, wantErr: "out of range"},
		{name: "negative concurrency", cfg: Config{Command: CommandBuild, Concurrency: -1}, wantErr: "must not be negative"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultInput, got.InputPath)
		})
	}
}

func TestBuild_WritesOutputAndLogsSummary(t *testing.T) {
	t.Parallel()

	site := testutil.WriteSite(t, map[string]string{
		"index.html":           `<!DOCTYPE html><html><head></head><body>{{"partials/card"}}{{"partials/card"}}</body></html>`,
		"partials/card.html":   `<div class="card">{{"button"}}</div><style>.card{color:red}</style>`,
		"partials/button.html": `<button>go</button><script>window.clicked = true</script>`,
		"assets/logo.svg":      `<svg></svg>`,
	})
	testApp, logs := setupAppTest(t, site, Config{Command: CommandBuild})

	require.NoError(t, testApp.Run(context.Background()))

	assert.Contains(t, logs.String(), "Compiled 4 files in")
	out := site.Read(t, "dist/index.html")
	assert.Contains(t, out, `<script src="script.js"></script>`)
	assert.Contains(t, out, `href="style.css"`)
	assert.Equal(t, 2, strings.Count(out, "<button>go</button>"))
	assert.Contains(t, site.Read(t, "dist/script.js"), "window.clicked")
	assert.Contains(t, site.Read(t, "dist/style.css"), ".card{color:red}")
	assert.Equal(t, `<svg></svg>`, site.Read(t, "dist/assets/logo.svg"))
}

func TestBuild_ConfigFileOverridesDefaults(t *testing.T) {
	t.Parallel()

	configFile := `
output {
  dir = env.OUT
  js  = "app.js"
}
`
	site := testutil.WriteSite(t, map[string]string{
		"page.html": `<p>hi</p><script>window.x = 1</script>`,
		"lyke.hcl":  configFile,
	})
	testApp, _ := setupAppTest(t, site, Config{Command: CommandBuild, InputPath: "page.html"})

	assert.Equal(t, "public", testApp.BuildConfig().Output.Dir)
	assert.Equal(t, "style.css", testApp.BuildConfig().Output.CSS)

	_, err := testApp.Build(context.Background())
	require.NoError(t, err)
	assert.Contains(t, site.Read(t, "public/index.html"), `<script src="app.js"></script>`)
	assert.Contains(t, site.Read(t, "public/app.js"), "window.x")
	testutil.AssertNotWritten(t, site, "dist")
}

func TestBuild_MissingIncludeWritesNothing(t *testing.T) {
	t.Parallel()

	site := testutil.WriteSite(t, map[string]string{
		"index.html": `<body>{{"missing"}}</body>`,
	})
	testApp, _ := setupAppTest(t, site, Config{Command: CommandBuild})

	err := testApp.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, compiler.ErrIncludeNotFound), "got %v", err)
	testutil.AssertNotWritten(t, site, "dist")
}

func TestNewApp_InvalidConfigFile(t *testing.T) {
	t.Parallel()

	site := testutil.WriteSite(t, map[string]string{
		"index.html": `<p></p>`,
		"lyke.hcl":   `output { dir = "" }`,
	})
	appConfig, err := NewConfig(Config{Command: CommandBuild, WorkDir: site.Dir})
	require.NoError(t, err)

	_, err = NewApp(&testutil.SafeBuffer{}, appConfig, hcl.NewLoaderWithEnv(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.dir must not be empty")
}

func TestTree_PrintsIncludesWithoutWriting(t *testing.T) {
	t.Parallel()

	site := testutil.WriteSite(t, map[string]string{
		"index.html":      `{{"partials/a"}}`,
		"partials/a.html": `{{"b"}}`,
		"partials/b.html": `b`,
	})
	var out testutil.SafeBuffer
	appConfig, err := NewConfig(Config{Command: CommandTree, WorkDir: site.Dir})
	require.NoError(t, err)
	testApp, err := NewApp(&out, appConfig, hcl.NewLoaderWithEnv(nil))
	require.NoError(t, err)

	require.NoError(t, testApp.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "index", lines[0])
	assert.Contains(t, lines[1], "partials/a")
	assert.Contains(t, lines[2], "partials/b")
	testutil.AssertNotWritten(t, site, "dist")
}

func TestDev_RebuildsOnChange(t *testing.T) {
	t.Parallel()

	site := testutil.WriteSite(t, map[string]string{
		"index.html":        `<body>{{"partials/msg"}}</body>`,
		"partials/msg.html": `<p>first</p>`,
		"lyke.hcl":          `dev_server { port = 0 }`,
	})
	testApp, logs := setupAppTest(t, site, Config{Command: CommandDev})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- testApp.Run(ctx) }()
	defer func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Fatal("dev did not stop")
		}
	}()

	require.Eventually(t, func() bool {
		content, err := os.ReadFile(site.Path("dist/index.html"))
		return err == nil && strings.Contains(string(content), "first")
	}, 5*time.Second, 50*time.Millisecond)

	// Writes are repeated until the watcher, which starts after the first
	// build, picks one up. The interval exceeds the watcher's quiet period.
	require.Eventually(t, func() bool {
		content, err := os.ReadFile(filepath.Join(site.Dir, "dist", "index.html"))
		if err == nil && strings.Contains(string(content), "second") {
			return true
		}
		_ = os.WriteFile(site.Path("partials/msg.html"), []byte(`<p>second</p>`), 0o644)
		return false
	}, 15*time.Second, time.Second)

	assert.Contains(t, logs.String(), "Change detected, rebuilding")
}
