package config

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/uibundler/internal/foundation/normalization"
)

// ProcessMode is fixed at process start. It governs minification and cache participation.
type ProcessMode string

const (
	ModeProduction  ProcessMode = "production"
	ModeDevelopment ProcessMode = "development"
)

// IsProduction reports whether bundles are minified and cached.
func (m ProcessMode) IsProduction() bool { return m == ModeProduction }

// Environment variables consulted by ResolveMode.
const (
	EnvMode    = "UIBUNDLER_MODE"
	EnvNodeEnv = "NODE_ENV"
)

var modeNormalizer = normalization.NewNormalizer(map[string]ProcessMode{
	"production":  ModeProduction,
	"prod":        ModeProduction,
	"development": ModeDevelopment,
	"dev":         ModeDevelopment,
}, ModeDevelopment)

// NormalizeMode converts user input into a ProcessMode; unknown input is development.
func NormalizeMode(raw string) ProcessMode {
	return modeNormalizer.Normalize(raw)
}

// ParseMode is NormalizeMode for explicit user input; unknown values are an error.
func ParseMode(raw string) (ProcessMode, error) {
	return modeNormalizer.NormalizeWithError(raw)
}

// ResolveMode determines the effective process mode.
// Precedence:
// 1. UIBUNDLER_MODE
// 2. mode from the config file
// 3. NODE_ENV=production (any other NODE_ENV value means development)
// 4. fallback: development
func ResolveMode(cfg *Config) ProcessMode {
	if raw := os.Getenv(EnvMode); raw != "" {
		mode, err := modeNormalizer.NormalizeWithError(raw)
		if err != nil {
			slog.Warn("Ignoring invalid "+EnvMode, "value", raw, "error", err)
		} else {
			if cfg != nil && cfg.Mode != "" && NormalizeMode(cfg.Mode) != mode {
				slog.Info("Overriding configured mode due to "+EnvMode, "configured", cfg.Mode, "mode", mode)
			}
			return mode
		}
	}
	if cfg != nil && cfg.Mode != "" {
		return NormalizeMode(cfg.Mode)
	}
	if os.Getenv(EnvNodeEnv) == string(ModeProduction) {
		return ModeProduction
	}
	return ModeDevelopment
}

// Target is the minimum syntax level of emitted bundles.
type Target string

var targetNormalizer = normalization.NewNormalizer(map[string]Target{
	"es2015": "es2015",
	"es2016": "es2016",
	"es2017": "es2017",
	"es2018": "es2018",
	"es2019": "es2019",
	"es2020": "es2020",
	"es2021": "es2021",
	"es2022": "es2022",
	"es2023": "es2023",
	"es2024": "es2024",
	"esnext": "esnext",
}, DefaultTarget)

// NormalizeTarget converts user input into a Target; unknown input yields the default.
func NormalizeTarget(raw string) Target {
	return targetNormalizer.Normalize(raw)
}
