// Package config loads application configuration and builds the logger.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig reads configuration from file and environment variables.
// When configPath is empty, a file named presence.{yaml,json,toml} is
// searched in the working directory, ./configs, and /etc/presence.
func LoadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.data_dir", "./data")
	v.SetDefault("server.dev_mode", false)
	v.SetDefault("server.rate_limit_rps", 50)
	v.SetDefault("server.rate_limit_burst", 100)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Shared secret guarding mutating endpoints. Either a plaintext value
	// or a bcrypt hash; at least one must be set for the server to start.
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.secret_hash", "")
	v.SetDefault("auth.session_ttl", "720h")

	// Status/device state persistence.
	v.SetDefault("state.backend", "file")
	v.SetDefault("state.path", "./data/state.json")

	// Visit counters.
	v.SetDefault("visits.enabled", true)
	v.SetDefault("visits.path", "./data/visits.db")
	v.SetDefault("visits.retention", "8760h")
	v.SetDefault("visits.maintenance_interval", "1h")

	// Status page presentation.
	v.SetDefault("page.name", "someone")
	v.SetDefault("page.title", "Online Status")
	v.SetDefault("page.desc", "Am I awake right now?")
	// Empty favicon serves the embedded default; set a URL to redirect.
	v.SetDefault("page.favicon", "")
	v.SetDefault("page.background", "")
	v.SetDefault("page.more_text", "")
	v.SetDefault("page.learn_more_link", "")
	v.SetDefault("page.learn_more_text", "")

	// Status display behavior.
	v.SetDefault("status.refresh_interval", 5000)
	v.SetDefault("status.device_slice", 30)
	v.SetDefault("status.not_using", "not in use")
	v.SetDefault("status.sorted", false)
	v.SetDefault("status.using_first", true)
	v.SetDefault("status.list", []map[string]any{
		{"id": 0, "name": "awake", "desc": "Up and reachable.", "color": "awake"},
		{"id": 1, "name": "asleep", "desc": "Probably sleeping.", "color": "sleeping"},
	})

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("presence")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/presence")
	}

	// Environment variable support: PRESENCE_SERVER_PORT=9090
	v.SetEnvPrefix("PRESENCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}
