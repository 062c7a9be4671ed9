// Package errors provides the classified error type used at uibundler's edges.
//
// Library code returns plain or typed errors; the HTTP server and the CLI
// convert them into ClassifiedError values so that status codes, exit codes and
// log levels are derived from a single category/severity pair.
//
// Example usage:
//
//	err := errors.CompileError("bundle failed").
//		WithContext("entry_path", entry).
//		WithCause(cause).
//		Build()
package errors
