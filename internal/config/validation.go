package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var componentNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Validate checks structural invariants. It does not touch the filesystem;
// entry existence is checked when the registry is built.
func (c *Config) Validate() error {
	var errs []error

	if _, err := modeNormalizer.NormalizeWithError(c.Mode); err != nil {
		errs = append(errs, fmt.Errorf("mode: %w", err))
	}
	if _, err := targetNormalizer.NormalizeWithError(c.Backend.Target); err != nil {
		errs = append(errs, fmt.Errorf("backend.target: %w", err))
	}

	seen := make(map[string]struct{}, len(c.Components))
	for i, comp := range c.Components {
		switch {
		case comp.Name == "":
			errs = append(errs, fmt.Errorf("components[%d]: name is required", i))
		case !componentNamePattern.MatchString(comp.Name):
			errs = append(errs, fmt.Errorf("components[%d]: invalid name %q", i, comp.Name))
		}
		if strings.TrimSpace(comp.Entry) == "" {
			errs = append(errs, fmt.Errorf("components[%d] (%s): entry is required", i, comp.Name))
		}
		if _, dup := seen[comp.Name]; dup && comp.Name != "" {
			errs = append(errs, fmt.Errorf("components[%d]: duplicate name %q", i, comp.Name))
		}
		seen[comp.Name] = struct{}{}
	}

	return errors.Join(errs...)
}
