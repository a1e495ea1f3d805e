// Package config resolves runtime settings from the environment. Nothing
// here is required for the store to work; every knob has a usable default
// so the binary runs with zero configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	Env       string
	StorePath string
	LogLevel  string
}

// Load builds a Config from environment variables. TOTPVAULT_STORE
// overrides the account file location; otherwise it lands in the per-user
// config directory.
func Load() (Config, error) {
	cfg := Config{
		Env:      getenvDefault("ENV", "development"),
		LogLevel: getenvDefault("TOTPVAULT_LOG_LEVEL", "warn"),
	}

	storePath := strings.TrimSpace(os.Getenv("TOTPVAULT_STORE"))
	if storePath == "" {
		var err error
		storePath, err = DefaultStorePath()
		if err != nil {
			return Config{}, err
		}
	}
	cfg.StorePath = storePath

	return cfg, nil
}

// DefaultStorePath returns the per-user account file location. The
// directory is not created here; the store creates it on first save.
func DefaultStorePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config directory: %w (set TOTPVAULT_STORE)", err)
	}
	return filepath.Join(configDir, "totpvault", "accounts.json"), nil
}

func getenvDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
