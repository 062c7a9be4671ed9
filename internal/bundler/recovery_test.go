package bundler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/uibundler/internal/bundler/backend"
	"git.home.luguber.info/inful/uibundler/internal/bundler/backend/fake"
	"git.home.luguber.info/inful/uibundler/internal/config"
)

func TestIsTransientBackendFailure(t *testing.T) {
	tests := []struct {
		name    string
		variant backend.Variant
		err     error
		want    bool
	}{
		{"nil error", backend.VariantNative, nil, false},
		{"service stopped", backend.VariantNative, errors.New("the service was stopped"), true},
		{"no longer running", backend.VariantNative, errors.New("build failed: the service is no longer running"), true},
		{"binary vanished", backend.VariantNative, errors.New(`esbuild binary could not be found: "esbuild"`), true},
		{"case sensitive", backend.VariantNative, errors.New("The Service Was Stopped"), false},
		{"compile diagnostic", backend.VariantNative, errors.New(`Could not resolve "./missing"`), false},
		{"portable never transient", backend.VariantPortable, errors.New("the service was stopped"), false},
		{"canceled", backend.VariantNative, fmt.Errorf("the service was stopped: %w", context.Canceled), false},
		{"deadline", backend.VariantNative, fmt.Errorf("interrupted: %w", context.DeadlineExceeded), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransientBackendFailure(tt.variant, tt.err))
		})
	}
}

func TestTransientFailureRecoversWithOneRetry(t *testing.T) {
	native := fake.New(backend.VariantNative, stopped(), fake.Step{Text: "(()=>{})();"})
	f := newFixture(config.ModeProduction, native)

	text, err := f.bundler.BundleComponent(t.Context(), "/c/index.tsx")
	require.NoError(t, err)
	assert.Equal(t, "(()=>{})();", text)
	assert.Equal(t, 2, native.CompileCalls())
	assert.Equal(t, 1, native.ShutdownCalls())
	assert.Equal(t, uint64(2), f.resolver.Current().Generation)
	assert.Equal(t, 0, f.portable.CompileCalls())
}

func TestRetryErrorPropagates(t *testing.T) {
	second := errors.New(`Could not resolve "./chart"`)
	native := fake.New(backend.VariantNative, stopped(), fake.Step{Err: second})
	f := newFixture(config.ModeProduction, native)

	_, err := f.bundler.BundleComponent(t.Context(), "/c/index.tsx")
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, second)
	assert.Equal(t, 2, native.CompileCalls())
}

func TestRepeatedTransientFailureRetriesOnlyOnce(t *testing.T) {
	native := fake.New(backend.VariantNative, stopped())
	f := newFixture(config.ModeProduction, native)

	_, err := f.bundler.BundleComponent(t.Context(), "/c/index.tsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service was stopped")
	assert.Equal(t, 2, native.CompileCalls())
}

func TestPermanentErrorIsNotRetried(t *testing.T) {
	native := fake.New(backend.VariantNative, fake.Step{Err: errors.New("Expected \";\" but found \"}\"")})
	f := newFixture(config.ModeProduction, native)

	_, err := f.bundler.BundleComponent(t.Context(), "/c/index.tsx")
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "/c/index.tsx", ce.EntryPath)
	assert.Equal(t, backend.VariantNative, ce.Variant)
	assert.Equal(t, 1, native.CompileCalls())
	assert.Equal(t, 0, native.ShutdownCalls())
}

func TestPortableFailureIsNeverRetried(t *testing.T) {
	native := fake.New(backend.VariantNative).FailVerify(errors.New("no exec"))
	port := fake.New(backend.VariantPortable, stopped())
	b := New(NewResolver(native.Factory(), port.Factory()), WithMode(config.ModeProduction))

	_, err := b.BundleComponent(t.Context(), "/c/index.tsx")
	require.Error(t, err)
	assert.Equal(t, 1, port.CompileCalls())
	assert.Equal(t, 0, port.ShutdownCalls())
}
