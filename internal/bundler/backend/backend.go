// Package backend defines the compiler capability the bundler drives.
//
// A Backend turns one entry module into one self-contained IIFE script. Two
// variants exist: native spawns the esbuild executable per build, portable
// runs the esbuild Go API in-process. The resolver and recovery policy only
// see this interface; the single place that must know the variant is the
// transient failure predicate, since only native can lose its process.
package backend

import (
	"context"
)

// Variant identifies a backend implementation.
type Variant string

const (
	VariantNative   Variant = "native"
	VariantPortable Variant = "portable"
)

// DefaultTarget is the minimum syntax level of every bundle.
const DefaultTarget = "es2020"

// SmokeSource is the trivial module compiled by Verify implementations.
const SmokeSource = "export default 1"

// Options is the fixed build configuration for one compile. Bundling, in-memory
// output, IIFE format, automatic JSX and the .ts/.tsx loaders are not optional;
// only minification, the syntax target and the resolution directory vary.
type Options struct {
	Minify     bool
	Target     string
	WorkingDir string
}

// Output is the single artifact of a build.
type Output struct {
	Text     string
	Warnings []string
}

// Backend is one compiler implementation.
type Backend interface {
	Variant() Variant
	// Verify runs a smoke compile. A nil error means the backend executes in
	// this environment.
	Verify(ctx context.Context) error
	Compile(ctx context.Context, entryPath string, opts Options) (*Output, error)
	// Shutdown releases held processes. Safe to call repeatedly or on a dead backend.
	Shutdown(ctx context.Context) error
}

// Factory constructs a fresh backend instance. The resolver calls it on every
// probe so a reset never reuses a dead instance.
type Factory func() Backend

// TargetOrDefault returns t, or DefaultTarget when t is empty.
func TargetOrDefault(t string) string {
	if t == "" {
		return DefaultTarget
	}
	return t
}
