package config

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/uibundler/internal/foundation/errors"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("components: []\n"))
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.ComponentsRoot)
	assert.Equal(t, DefaultTarget, cfg.Backend.Target)
	assert.Equal(t, DefaultBinary, cfg.Backend.Native.Binary)
	assert.Equal(t, DefaultVerifyTimeout, cfg.Backend.Native.VerifyTimeout)
	assert.True(t, cfg.Backend.Native.IsEnabled())
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestParse_FullDocument(t *testing.T) {
	t.Setenv("UIB_TEST_BINARY", "/opt/esbuild/bin/esbuild")
	doc := `
mode: production
components_root: ./components
components:
  - name: weather-dashboard
    entry: index.tsx
backend:
  target: ES2022
  native:
    enabled: false
    binary: ${UIB_TEST_BINARY}
    verify_timeout: 3s
server:
  addr: "127.0.0.1:8080"
logging:
  level: WARNING
  format: json
metrics:
  enabled: true
`
	cfg, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Mode)
	require.Len(t, cfg.Components, 1)
	assert.Equal(t, Component{Name: "weather-dashboard", Entry: "index.tsx"}, cfg.Components[0])
	assert.Equal(t, Target("es2022"), NormalizeTarget(cfg.Backend.Target))
	assert.False(t, cfg.Backend.Native.IsEnabled())
	assert.Equal(t, "/opt/esbuild/bin/esbuild", cfg.Backend.Native.Binary)
	assert.Equal(t, 3*time.Second, cfg.Backend.Native.VerifyTimeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"missing name", "components:\n  - entry: a.tsx\n", "name is required"},
		{"bad name", "components:\n  - name: Weather Dashboard\n    entry: a.tsx\n", "invalid name"},
		{"missing entry", "components:\n  - name: a\n", "entry is required"},
		{"duplicate", "components:\n  - name: a\n    entry: a.tsx\n  - name: a\n    entry: b.tsx\n", "duplicate name"},
		{"bad mode", "mode: staging\n", "mode:"},
		{"bad target", "backend:\n  target: es5\n", "backend.target"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file not found")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestInit_WritesLoadableSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uibundler.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Components, 2)
	assert.Equal(t, "weather-dashboard", cfg.Components[0].Name)

	err = Init(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, Init(path, true))
}

func TestLoggingConfig_NewLogger(t *testing.T) {
	var lc LoggingConfig
	lc.Level = "error"
	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()

	logger := lc.NewLogger(f, false)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelDebug))
	assert.True(t, lc.NewLogger(f, true).Enabled(t.Context(), slog.LevelDebug))
}
