package config

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// loadEnvFile loads variables from .env/.env.local when present. Existing
// process environment variables are never overwritten.
func loadEnvFile() {
	for _, path := range []string{".env", ".env.local"} {
		if err := godotenv.Load(path); err == nil {
			slog.Debug("Loaded environment file", "path", path)
			return
		}
	}
}
