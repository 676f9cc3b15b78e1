// Package config loads experiment settings files for the CLI. Settings cover
// the run environment — frame rate, session labeling, result persistence —
// not the flow itself, which lives in the survey flow document.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the YAML experiment settings file.
type Config struct {
	// SessionID labels this run. Defaults to a timestamp-derived ID.
	SessionID string `yaml:"session_id"`

	// RefreshRate is the display refresh in Hz the frame loop paces to.
	RefreshRate float64 `yaml:"refresh_rate"`

	// Title shown by renderers that support one.
	Title string `yaml:"title"`

	// ShowProgress asks renderers to display position within the flow.
	ShowProgress bool `yaml:"show_progress"`

	// Redis, when set, enables the Redis result store (e.g. "localhost:6379").
	Redis RedisConfig `yaml:"redis"`

	// DownloadPath overrides where the results file fallback is written.
	DownloadPath string `yaml:"download_path"`
}

// RedisConfig configures the optional Redis result store.
type RedisConfig struct {
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// Default returns the settings used when no file is supplied.
func Default() Config {
	return Config{
		SessionID:   fmt.Sprintf("session-%d", time.Now().Unix()),
		RefreshRate: 60,
	}
}

// Load reads a YAML settings file, filling unset fields with defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if cfg.RefreshRate <= 0 {
		cfg.RefreshRate = 60
	}
	if cfg.SessionID == "" {
		cfg.SessionID = Default().SessionID
	}
	return cfg, nil
}
