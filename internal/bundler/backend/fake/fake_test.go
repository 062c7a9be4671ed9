package fake

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/uibundler/internal/bundler/backend"
)

func TestScriptReplaysAndRepeatsLastStep(t *testing.T) {
	boom := errors.New("boom")
	b := New(backend.VariantNative, Step{Err: boom}, Step{Text: "ok"})

	_, err := b.Compile(t.Context(), "a", backend.Options{})
	require.ErrorIs(t, err, boom)
	for range 2 {
		out, err := b.Compile(t.Context(), "a", backend.Options{Minify: true})
		require.NoError(t, err)
		assert.Equal(t, "ok", out.Text)
	}
	assert.Equal(t, 3, b.CompileCalls())
	assert.True(t, b.LastOptions().Minify)
}

func TestDefaultTextAndVerify(t *testing.T) {
	b := New(backend.VariantPortable)
	out, err := b.Compile(t.Context(), "weather-dashboard", backend.Options{})
	require.NoError(t, err)
	assert.Equal(t, "bundle:weather-dashboard", out.Text)

	require.NoError(t, b.Verify(t.Context()))
	b.FailVerify(errors.New("no exec"))
	require.Error(t, b.Verify(t.Context()))
	assert.Equal(t, 2, b.VerifyCalls())
}
