package config

import "time"

const (
	DefaultBinary          = "esbuild"
	DefaultTarget          = "es2020"
	DefaultAddr            = ":3000"
	DefaultVerifyTimeout   = 10 * time.Second
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

func applyDefaults(cfg *Config) {
	if cfg.ComponentsRoot == "" {
		cfg.ComponentsRoot = "."
	}
	if cfg.Backend.Target == "" {
		cfg.Backend.Target = DefaultTarget
	}
	if cfg.Backend.Native.Binary == "" {
		cfg.Backend.Native.Binary = DefaultBinary
	}
	if cfg.Backend.Native.VerifyTimeout <= 0 {
		cfg.Backend.Native.VerifyTimeout = DefaultVerifyTimeout
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	// Cold builds can take a while; keep the write deadline generous.
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	cfg.Logging.Level = string(NormalizeLogLevel(cfg.Logging.Level))
	cfg.Logging.Format = string(NormalizeLogFormat(cfg.Logging.Format))
}
