// Package config provides YAML-based application configuration with
// environment overrides.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Config is the application configuration.
type Config struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL"`
	LevelsDir string `yaml:"levels_dir" env:"LEVELS_DIR"` // Searched before the builtin levels
	DBPath    string `yaml:"db_path" env:"DB_PATH"`
	StepLimit int    `yaml:"step_limit" env:"STEP_LIMIT"` // Slide step ceiling

	SSH SSHConfig `yaml:"ssh" envPrefix:"SSH_"`
	Web WebConfig `yaml:"web" envPrefix:"WEB_"`
}

// SSHConfig configures the wish SSH server.
type SSHConfig struct {
	Address     string        `yaml:"address" env:"ADDRESS"`
	HostKeyPath string        `yaml:"host_key" env:"HOST_KEY"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
}

// WebConfig configures the HTTP API and websocket play server.
type WebConfig struct {
	Address        string        `yaml:"address" env:"ADDRESS"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	PingInterval   time.Duration `yaml:"ping_interval" env:"PING_INTERVAL"`
	MaxSessions    int           `yaml:"max_sessions" env:"MAX_SESSIONS"`
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.StepLimit <= 0 {
		return fmt.Errorf("step_limit must be positive, got %d", c.StepLimit)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must be set")
	}
	if c.SSH.Address == "" {
		return fmt.Errorf("ssh.address must be set")
	}
	if c.Web.Address == "" {
		return fmt.Errorf("web.address must be set")
	}
	if c.Web.PingInterval <= 0 {
		return fmt.Errorf("web.ping_interval must be positive, got %s", c.Web.PingInterval)
	}
	if c.Web.MaxSessions < 0 {
		return fmt.Errorf("web.max_sessions must not be negative, got %d", c.Web.MaxSessions)
	}
	return nil
}

// Level returns the parsed log level, defaulting to info.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
