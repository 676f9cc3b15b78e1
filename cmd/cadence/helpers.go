package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/openstimuli/cadence/internal/config"
	"github.com/openstimuli/cadence/internal/logging"
	redisstore "github.com/openstimuli/cadence/pkg/adapters/redis"
	"github.com/openstimuli/cadence/pkg/ports"
)

// loadSettings resolves the --settings flag into a Config.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("settings")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newLogger builds the CLI logger honoring --verbose.
func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return logging.New(level)
}

// newResultStore builds the Redis store when configured, nil otherwise.
func newResultStore(cfg config.Config) ports.ResultStore {
	if cfg.Redis.Address == "" {
		return nil
	}
	opts := []redisstore.Option{}
	if cfg.Redis.TTL > 0 {
		opts = append(opts, redisstore.WithTTL(cfg.Redis.TTL))
	}
	return redisstore.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, opts...)
}
