// Package portable runs builds in-process through the esbuild Go API.
package portable

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"git.home.luguber.info/inful/uibundler/internal/bundler/backend"
)

var targets = map[string]api.Target{
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"es2023": api.ES2023,
	"es2024": api.ES2024,
	"esnext": api.ESNext,
}

// Backend never spawns a process, so it has nothing to shut down and cannot
// suffer a transient service failure.
type Backend struct{}

func New() *Backend { return &Backend{} }

// Factory adapts New to backend.Factory.
func Factory() backend.Factory {
	return func() backend.Backend { return New() }
}

func (b *Backend) Variant() backend.Variant { return backend.VariantPortable }

func (b *Backend) Verify(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res := api.Transform(backend.SmokeSource, api.TransformOptions{
		Loader:   api.LoaderJS,
		Format:   api.FormatIIFE,
		LogLevel: api.LogLevelSilent,
	})
	if len(res.Errors) > 0 {
		return fmt.Errorf("portable smoke compile: %s", formatMessages(res.Errors))
	}
	if len(strings.TrimSpace(string(res.Code))) == 0 {
		return errors.New("portable smoke compile produced no output")
	}
	return nil
}

func (b *Backend) Compile(ctx context.Context, entryPath string, opts backend.Options) (*backend.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buildOpts, err := BuildOptions(entryPath, opts)
	if err != nil {
		return nil, err
	}
	res := api.Build(buildOpts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, errors.New(formatMessages(res.Errors))
	}
	if len(res.OutputFiles) != 1 {
		return nil, fmt.Errorf("expected exactly one output file, got %d", len(res.OutputFiles))
	}
	out := &backend.Output{Text: string(res.OutputFiles[0].Contents)}
	if len(res.Warnings) > 0 {
		out.Warnings = api.FormatMessages(res.Warnings, api.FormatMessagesOptions{Kind: api.WarningMessage})
	}
	return out, nil
}

func (b *Backend) Shutdown(context.Context) error { return nil }

// BuildOptions maps the fixed bundle configuration onto esbuild's API. A
// relative entryPath is resolved against the process working directory, not
// opts.WorkingDir.
func BuildOptions(entryPath string, opts backend.Options) (api.BuildOptions, error) {
	target, ok := targets[backend.TargetOrDefault(opts.Target)]
	if !ok {
		return api.BuildOptions{}, fmt.Errorf("unsupported target %q", opts.Target)
	}
	absEntry, err := filepath.Abs(entryPath)
	if err != nil {
		return api.BuildOptions{}, fmt.Errorf("resolve entry path: %w", err)
	}
	dir := opts.WorkingDir
	if dir == "" {
		dir = filepath.Dir(absEntry)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return api.BuildOptions{}, fmt.Errorf("resolve working directory: %w", err)
	}
	return api.BuildOptions{
		EntryPoints:       []string{absEntry},
		AbsWorkingDir:     absDir,
		Bundle:            true,
		Write:             false,
		Format:            api.FormatIIFE,
		Target:            target,
		JSX:               api.JSXAutomatic,
		Loader:            map[string]api.Loader{".ts": api.LoaderTS, ".tsx": api.LoaderTSX},
		MinifyWhitespace:  opts.Minify,
		MinifyIdentifiers: opts.Minify,
		MinifySyntax:      opts.Minify,
		LogLevel:          api.LogLevelSilent,
	}, nil
}

func formatMessages(msgs []api.Message) string {
	formatted := api.FormatMessages(msgs, api.FormatMessagesOptions{Kind: api.ErrorMessage})
	return strings.TrimSpace(strings.Join(formatted, "\n"))
}
