// Package bundler turns registered UI component entry modules into
// self-contained IIFE scripts.
//
// Control flow for one BundleComponent call:
//
//	cache (production only) -> Executor -> Resolver -> Backend.Compile
//	                              |
//	                              +-> Recovery on a transient native failure:
//	                                  Shutdown, Invalidate, re-resolve, retry once
//
// The Resolver memoizes one verified backend, preferring native and falling
// back to portable. A failed native probe is sticky for the resolver's lifetime.
package bundler
