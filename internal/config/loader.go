package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "config/config.yaml"
	envPrefix         = "BETKICK"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for every optional field.
// A missing file is not an error; defaults and environment variables are used instead.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// ReloadFromEnv reloads the configuration when BETKICK_CONFIG_PATH points at a file
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv(envPrefix + "_CONFIG_PATH"); envPath != "" {
		newCfg, err := LoadWithDefaults(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "betkick")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "betkick")
	v.SetDefault("database.user", "betkick")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)

	v.SetDefault("football_data.base_url", "https://api.football-data.org")
	v.SetDefault("football_data.requests_per_minute", 10)
	v.SetDefault("football_data.burst", 10)
	v.SetDefault("football_data.timeout_seconds", 30)
	v.SetDefault("football_data.max_retries", 1)
	v.SetDefault("football_data.retry_wait_min_ms", 500)
	v.SetDefault("football_data.retry_wait_max_ms", 5000)
	v.SetDefault("football_data.breaker_timeout_seconds", 120)
	v.SetDefault("football_data.breaker_min_requests", 5)

	v.SetDefault("odds.weights.team", 0.30)
	v.SetDefault("odds.weights.recent_team", 0.15)
	v.SetDefault("odds.weights.head_to_head", 0.01)
	v.SetDefault("odds.weights.recent_head_to_head", 0.04)
	v.SetDefault("odds.weights.standing_rate", 0.05)
	v.SetDefault("odds.weights.standing_position", 0.45)
	v.SetDefault("odds.batch_size", 3)
	v.SetDefault("odds.stats_window_months", 23)

	v.SetDefault("scheduler.odds_calculation", "@every 65s")
	v.SetDefault("scheduler.match_update", "@every 62s")
	v.SetDefault("scheduler.check_matches_today", "0 0 */12 * * *")
	v.SetDefault("scheduler.start_maintenance", "0 58 23 * * *")
	v.SetDefault("scheduler.save_upcoming_matches", "0 0 0 * * *")
	v.SetDefault("scheduler.first_standings_batch", "10 1 0 * * *")
	v.SetDefault("scheduler.second_standings_batch", "10 2 0 * * *")
	v.SetDefault("scheduler.end_maintenance", "50 3 0 * * *")
	v.SetDefault("scheduler.task_timeout_seconds", 300)
	v.SetDefault("scheduler.upcoming_windows", 9)
	v.SetDefault("scheduler.upcoming_window_days", 10)
	v.SetDefault("scheduler.bootstrap_quota_wait_seconds", 60)
	v.SetDefault("scheduler.run_bootstrap_on_start", true)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl_minutes", 720)
	v.SetDefault("cache.cleanup_minutes", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.stream_prefix", "betkick.events")
	v.SetDefault("redis.stream_max_len", 10000)

	v.SetDefault("events.websocket_enabled", true)
	v.SetDefault("events.client_buffer", 256)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("health.port", 8080)
	v.SetDefault("health.grpc_port", 9090)
}
