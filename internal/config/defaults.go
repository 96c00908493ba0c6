package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/slide.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:  "info",
		DBPath:    "~/.slide/slide.db",
		StepLimit: 100,
		SSH: SSHConfig{
			Address:     ":23235",
			IdleTimeout: 30 * time.Minute,
		},
		Web: WebConfig{
			Address:      ":8080",
			PingInterval: 30 * time.Second,
			MaxSessions:  256,
		},
	}
}
