package bundler

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/uibundler/internal/bundler/backend"
	"git.home.luguber.info/inful/uibundler/internal/bundler/backend/fake"
	"git.home.luguber.info/inful/uibundler/internal/config"
)

type fixture struct {
	native   *fake.Backend
	portable *fake.Backend
	resolver *Resolver
	bundler  *Bundler
}

func newFixture(mode config.ProcessMode, native *fake.Backend, opts ...Option) *fixture {
	f := &fixture{native: native, portable: fake.New(backend.VariantPortable)}
	var nativeFactory backend.Factory
	if native != nil {
		nativeFactory = native.Factory()
	}
	f.resolver = NewResolver(nativeFactory, f.portable.Factory())
	f.bundler = New(f.resolver, append([]Option{WithMode(mode)}, opts...)...)
	return f
}

func stopped() fake.Step {
	return fake.Step{Err: errors.New("esbuild: the service was stopped")}
}

// absPath mirrors how the executor resolves relative entries.
func absPath(t *testing.T, p string) string {
	t.Helper()
	abs, err := filepath.Abs(p)
	require.NoError(t, err)
	return abs
}
