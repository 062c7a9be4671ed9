// Package registry maps registered component names to entry module paths.
//
// The set is fixed at startup from configuration. Only these paths ever reach
// the bundler from the HTTP surface, which keeps the unbounded bundle cache
// bounded by the number of registered components.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/uibundler/internal/config"
	ferrors "git.home.luguber.info/inful/uibundler/internal/foundation/errors"
)

// Component is a registered UI component.
type Component struct {
	Name      string `json:"name"`
	EntryPath string `json:"entry_path"`
}

// Registry is immutable after New.
type Registry struct {
	byName map[string]Component
}

// New resolves every entry against root and checks that it exists.
func New(root string, components []config.Component) (*Registry, error) {
	r := &Registry{byName: make(map[string]Component, len(components))}
	var errs []error
	for _, c := range components {
		path, err := resolveEntry(root, c.Entry)
		if err != nil {
			errs = append(errs, fmt.Errorf("component %q: %w", c.Name, err))
			continue
		}
		r.byName[c.Name] = Component{Name: c.Name, EntryPath: path}
	}
	if len(errs) > 0 {
		return nil, ferrors.WrapError(errors.Join(errs...), ferrors.CategoryConfig, "invalid component registry").Build()
	}
	return r, nil
}

// FromConfig builds the registry declared by cfg.
func FromConfig(cfg *config.Config) (*Registry, error) {
	return New(cfg.ComponentsRoot, cfg.Components)
}

// Lookup returns the component registered under name.
func (r *Registry) Lookup(name string) (Component, error) {
	c, ok := r.byName[name]
	if !ok {
		return Component{}, ferrors.NotFoundError("component not registered").
			WithContext("component", name).
			Build()
	}
	return c, nil
}

// List returns all components sorted by name.
func (r *Registry) List() []Component {
	out := make([]Component, 0, len(r.byName))
	for _, c := range r.byName {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) Len() int { return len(r.byName) }

// EntryFor resolves a CLI argument: a registered name wins, otherwise the
// argument must be an existing entry file.
func (r *Registry) EntryFor(nameOrPath string) (string, error) {
	if r != nil {
		if c, ok := r.byName[nameOrPath]; ok {
			return c.EntryPath, nil
		}
	}
	path, err := resolveEntry("", nameOrPath)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryNotFound, "not a registered component or entry file").
			WithContext("component", nameOrPath).
			Build()
	}
	return path, nil
}

func resolveEntry(root, entry string) (string, error) {
	if entry == "" {
		return "", errors.New("entry path is empty")
	}
	path := entry
	if !filepath.IsAbs(path) && root != "" {
		path = filepath.Join(root, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", entry, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("entry %s: %w", abs, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("entry %s is a directory", abs)
	}
	return abs, nil
}
