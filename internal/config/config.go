// Package config loads and validates uibundler configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/uibundler/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	// Mode is the raw process mode from the file; use ResolveMode for the effective value.
	Mode           string        `yaml:"mode,omitempty"`
	ComponentsRoot string        `yaml:"components_root,omitempty"`
	Components     []Component   `yaml:"components"`
	Backend        BackendConfig `yaml:"backend"`
	Server         ServerConfig  `yaml:"server"`
	Logging        LoggingConfig `yaml:"logging"`
	Metrics        MetricsConfig `yaml:"metrics"`
}

// Component registers one UI component under a stable name.
type Component struct {
	Name  string `yaml:"name"`
	Entry string `yaml:"entry"` // entry module, relative to components_root unless absolute
}

// BackendConfig controls compiler backend selection.
type BackendConfig struct {
	Native NativeConfig `yaml:"native"`
	// Target is the minimum syntax level of emitted bundles.
	Target string `yaml:"target,omitempty"`
}

// NativeConfig controls the esbuild executable backend.
type NativeConfig struct {
	// Enabled defaults to true; false skips straight to the in-process backend.
	Enabled       *bool         `yaml:"enabled,omitempty"`
	Binary        string        `yaml:"binary,omitempty"`
	VerifyTimeout time.Duration `yaml:"verify_timeout,omitempty"`
}

// IsEnabled reports whether native probing should be attempted.
func (n NativeConfig) IsEnabled() bool {
	return n.Enabled == nil || *n.Enabled
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr            string        `yaml:"addr,omitempty"`
	ReadTimeout     time.Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout    time.Duration `yaml:"write_timeout,omitempty"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// MetricsConfig toggles the Prometheus recorder and /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns a configuration with all defaults applied and no components.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid configuration").
			WithContext("path", configPath).
			Build()
	}
	return cfg, nil
}

// Parse decodes YAML (after ${VAR} expansion), applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

const sampleConfig = `# uibundler configuration
# mode: production        # or development; UIBUNDLER_MODE / NODE_ENV take part in resolution
components_root: ./components
components:
  - name: weather-dashboard
    entry: index.tsx
  - name: stock-dashboard
    entry: stock-entry.tsx
backend:
  target: es2020
  native:
    enabled: true
    binary: esbuild
    verify_timeout: 10s
server:
  addr: ":3000"
logging:
  level: info
  format: text
metrics:
  enabled: true
`

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
