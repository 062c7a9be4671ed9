package bundler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/uibundler/internal/bundler/backend"
	ferrors "git.home.luguber.info/inful/uibundler/internal/foundation/errors"
)

func TestCompileErrorClassification(t *testing.T) {
	cause := errors.New(`Could not resolve "./chart"`)
	err := &CompileError{EntryPath: "/c/index.tsx", Message: cause.Error(), Variant: backend.VariantPortable, Err: cause}

	assert.Equal(t, `failed to bundle /c/index.tsx: Could not resolve "./chart"`, err.Error())
	assert.ErrorIs(t, err, cause)

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryCompile, ce.Category())
	v, _ := ce.Context().GetString("backend_variant")
	assert.Equal(t, "portable", v)
}

func TestBackendUnavailableClassification(t *testing.T) {
	err := &BackendUnavailableError{Native: errNativeDisabled, Portable: errors.New("broken")}

	assert.Contains(t, err.Error(), "native: native backend disabled")
	assert.ErrorIs(t, err, errNativeDisabled)
	assert.Equal(t, ferrors.CategoryBackend, ferrors.GetCategory(err))
	assert.Len(t, (&BackendUnavailableError{Portable: errPortableMissing}).Unwrap(), 1)
}
