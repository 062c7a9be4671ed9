package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/uibundler/internal/foundation/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("uibundler"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = kctx.Run(&Global{Stdout: &out}, &cli)
	return out.String(), err
}

// writeProject lays out a component tree and a config that skips the native
// backend, so tests never depend on an esbuild executable.
func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	components := filepath.Join(dir, "components")
	require.NoError(t, os.MkdirAll(components, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(components, "palette.ts"),
		[]byte("export const accent: string = \"#0af\";\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(components, "index.tsx"),
		[]byte("import { accent } from \"./palette\";\ndocument.body.style.color = accent;\n"), 0o600))

	cfg := "components_root: " + components + "\n" +
		"components:\n  - name: weather-dashboard\n    entry: index.tsx\n" +
		"backend:\n  native:\n    enabled: false\n" +
		"metrics:\n  enabled: true\n"
	path := filepath.Join(dir, "uibundler.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "init", "--output", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "initialized successfully")
	assert.FileExists(t, filepath.Join(dir, DefaultConfigPath))

	_, err = run(t, "init", "--output", dir)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	_, err = run(t, "init", "--output", dir, "--force")
	require.NoError(t, err)
}

func TestBundleCommandToStdout(t *testing.T) {
	cfg := writeProject(t)

	out, err := run(t, "--config", cfg, "bundle", "weather-dashboard", "--mode", "development")
	require.NoError(t, err)
	assert.Contains(t, out, "#0af")
	assert.Contains(t, out, "(() => {")
}

func TestBundleCommandToFile(t *testing.T) {
	cfg := writeProject(t)
	target := filepath.Join(t.TempDir(), "weather.js")

	out, err := run(t, "--config", cfg, "bundle", "weather-dashboard", "-o", target, "--mode", "production")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "#0af")
}

func TestBundleCommandErrors(t *testing.T) {
	cfg := writeProject(t)

	_, err := run(t, "--config", cfg, "bundle", "no-such-component")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))

	_, err = run(t, "--config", cfg, "bundle", "weather-dashboard", "--mode", "staging")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "bundle", "weather-dashboard")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestProbeCommand(t *testing.T) {
	cfg := writeProject(t)

	out, err := run(t, "--config", cfg, "probe")
	require.NoError(t, err)
	assert.Contains(t, out, "backend:  portable")
	assert.Contains(t, out, "native:   disabled")
}

func TestBundleModeSelection(t *testing.T) {
	m, err := (&BundleCmd{Watch: true, Mode: "production"}).mode()
	require.NoError(t, err)
	assert.Equal(t, "development", string(m))

	m, err = (&BundleCmd{}).mode()
	require.NoError(t, err)
	assert.Empty(t, m)
}
