package bundler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/uibundler/internal/bundler/backend"
	"git.home.luguber.info/inful/uibundler/internal/bundler/backend/fake"
)

func TestResolvePrefersVerifiedNative(t *testing.T) {
	native := fake.New(backend.VariantNative)
	portable := fake.New(backend.VariantPortable)
	r := NewResolver(native.Factory(), portable.Factory())

	h, err := r.Resolve(t.Context())
	require.NoError(t, err)
	assert.Equal(t, backend.VariantNative, h.Variant)
	assert.True(t, h.Verified)
	assert.Equal(t, uint64(1), h.Generation)
	assert.Equal(t, 0, portable.VerifyCalls())

	again, err := r.Resolve(t.Context())
	require.NoError(t, err)
	assert.Same(t, h, again)
	assert.Equal(t, 1, native.VerifyCalls())
}

func TestResolveFallsBackToPortable(t *testing.T) {
	native := fake.New(backend.VariantNative).FailVerify(errors.New("permission denied"))
	portable := fake.New(backend.VariantPortable)
	r := NewResolver(native.Factory(), portable.Factory())

	h, err := r.Resolve(t.Context())
	require.NoError(t, err)
	assert.Equal(t, backend.VariantPortable, h.Variant)
	assert.True(t, h.Verified)
	assert.Equal(t, 1, native.ShutdownCalls())
}

func TestNativeFailureIsSticky(t *testing.T) {
	native := fake.New(backend.VariantNative).FailVerify(errors.New("permission denied"))
	r := NewResolver(native.Factory(), fake.New(backend.VariantPortable).Factory())

	_, err := r.Resolve(t.Context())
	require.NoError(t, err)
	r.Reset()
	h, err := r.Resolve(t.Context())
	require.NoError(t, err)

	assert.Equal(t, backend.VariantPortable, h.Variant)
	assert.Equal(t, uint64(2), h.Generation)
	assert.Equal(t, 1, native.VerifyCalls())
}

func TestResetReprobesNativeAfterCrash(t *testing.T) {
	native := fake.New(backend.VariantNative)
	r := NewResolver(native.Factory(), fake.New(backend.VariantPortable).Factory())

	first, err := r.Resolve(t.Context())
	require.NoError(t, err)
	r.Reset()
	assert.Nil(t, r.Current())

	second, err := r.Resolve(t.Context())
	require.NoError(t, err)
	assert.Equal(t, backend.VariantNative, second.Variant)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, native.VerifyCalls())
}

func TestInvalidateIgnoresStaleHandle(t *testing.T) {
	r := NewResolver(fake.New(backend.VariantNative).Factory(), fake.New(backend.VariantPortable).Factory())

	old, err := r.Resolve(t.Context())
	require.NoError(t, err)
	require.True(t, r.Invalidate(old))

	current, err := r.Resolve(t.Context())
	require.NoError(t, err)
	assert.False(t, r.Invalidate(old))
	assert.Same(t, current, r.Current())
	assert.False(t, r.Invalidate(nil))
}

func TestDisabledNativeGoesStraightToPortable(t *testing.T) {
	r := NewResolver(nil, fake.New(backend.VariantPortable).Factory())
	h, err := r.Resolve(t.Context())
	require.NoError(t, err)
	assert.Equal(t, backend.VariantPortable, h.Variant)
}

func TestBothBackendsUnavailable(t *testing.T) {
	nativeErr := errors.New("exec format error")
	portableErr := errors.New("portable broken")
	r := NewResolver(
		fake.New(backend.VariantNative).FailVerify(nativeErr).Factory(),
		fake.New(backend.VariantPortable).FailVerify(portableErr).Factory(),
	)

	_, err := r.Resolve(t.Context())
	var unavailable *BackendUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, err, nativeErr)
	assert.ErrorIs(t, err, portableErr)
	assert.Nil(t, r.Current())
}

func TestMissingPortableFactory(t *testing.T) {
	r := NewResolver(fake.New(backend.VariantNative).FailVerify(errors.New("no")).Factory(), nil)
	_, err := r.Resolve(t.Context())
	var unavailable *BackendUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, unavailable.Portable, errPortableMissing)
}

func TestCanceledProbeIsNotSticky(t *testing.T) {
	native := fake.New(backend.VariantNative)
	r := NewResolver(native.Factory(), fake.New(backend.VariantPortable).Factory())

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := r.Resolve(ctx)
	require.ErrorIs(t, err, context.Canceled)

	h, err := r.Resolve(t.Context())
	require.NoError(t, err)
	assert.Equal(t, backend.VariantNative, h.Variant)
}

func TestConcurrentColdStartProbesOnce(t *testing.T) {
	native := fake.New(backend.VariantNative)
	r := NewResolver(native.Factory(), fake.New(backend.VariantPortable).Factory())

	const callers = 16
	handles := make([]*Handle, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := r.Resolve(t.Context())
			assert.NoError(t, err)
			handles[i] = h
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, native.VerifyCalls())
	for _, h := range handles {
		assert.Same(t, handles[0], h)
	}
}
