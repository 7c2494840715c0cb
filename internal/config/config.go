// Package config wraps the viper configuration singleton for memctl.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var v *viper.Viper

// Initialize sets up the viper configuration singleton.
// Should be called once at application startup.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	// Explicitly locate the config file so an unrelated config.json next to
	// it is never picked up.
	// Precedence: project .ai/memctl.yaml > ~/.config/memctl/config.yaml
	configFileSet := false

	// Walk up from CWD so commands work from subdirectories.
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			configPath := filepath.Join(dir, ".ai", "memctl.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
				break
			}
		}
	}

	if !configFileSet {
		if configDir, err := os.UserConfigDir(); err == nil {
			configPath := filepath.Join(configDir, "memctl", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	// Environment variables take precedence over the config file.
	// E.g. MEMCTL_JSON, MEMCTL_COMMIT, MEMCTL_DEBUG.
	v.SetEnvPrefix("MEMCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("commit", "HEAD")
	v.SetDefault("json", false)
	v.SetDefault("debug", false)
	v.SetDefault("out", "-")

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}
	return nil
}

// ensure guards against callers that skip Initialize (tests, library use).
func ensure() *viper.Viper {
	if v == nil {
		_ = Initialize()
	}
	return v
}

// GetString returns a config value as string.
func GetString(key string) string {
	return ensure().GetString(key)
}

// GetBool returns a config value as bool.
func GetBool(key string) bool {
	return ensure().GetBool(key)
}

// Set overrides a config value for the current process.
func Set(key string, value any) {
	ensure().Set(key, value)
}
