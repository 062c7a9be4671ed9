package bundler

import (
	"errors"
	"fmt"

	"git.home.luguber.info/inful/uibundler/internal/bundler/backend"
	ferrors "git.home.luguber.info/inful/uibundler/internal/foundation/errors"
)

// CompileError reports a build the backend rejected. Message is the compiler
// diagnostic and is meant to be shown to the component author verbatim.
type CompileError struct {
	EntryPath string
	Message   string
	Variant   backend.Variant
	Err       error

	// handle is the backend generation that produced the failure, used by
	// recovery to invalidate exactly that generation.
	handle *Handle
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to bundle %s: %s", e.EntryPath, e.Message)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Classified converts the error for HTTP and CLI presentation.
func (e *CompileError) Classified() *ferrors.ClassifiedError {
	return ferrors.CompileError("failed to bundle "+e.EntryPath).
		WithCause(e.Err).
		WithContext("entry_path", e.EntryPath).
		WithContext("backend_variant", string(e.Variant)).
		Build()
}

// BackendUnavailableError reports that neither backend could be verified.
// It is fatal: the portable backend runs in-process, so this only happens
// when the deployment itself is broken.
type BackendUnavailableError struct {
	Native   error
	Portable error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("no compiler backend available: native: %v; portable: %v", e.Native, e.Portable)
}

func (e *BackendUnavailableError) Unwrap() []error {
	var errs []error
	if e.Native != nil {
		errs = append(errs, e.Native)
	}
	if e.Portable != nil {
		errs = append(errs, e.Portable)
	}
	return errs
}

func (e *BackendUnavailableError) Classified() *ferrors.ClassifiedError {
	return ferrors.BackendError("no compiler backend available").
		WithCause(errors.Join(e.Unwrap()...)).
		Build()
}

var (
	errNativeDisabled  = errors.New("native backend disabled")
	errPortableMissing = errors.New("portable backend not configured")
)
