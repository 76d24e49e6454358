// Package config provides configuration management for the betkick odds pipeline.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	FootballData FootballDataConfig `mapstructure:"football_data" validate:"required"`
	Odds         OddsConfig         `mapstructure:"odds" validate:"required"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler" validate:"required"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Events       EventsConfig       `mapstructure:"events"`
	Metrics      MetricsConfig      `mapstructure:"metrics" validate:"required"`
	Health       HealthConfig       `mapstructure:"health" validate:"required"`
	Secrets      SecretsConfig      `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// FootballDataConfig represents the football-data.org client configuration
type FootballDataConfig struct {
	BaseURL               string `mapstructure:"base_url" validate:"required,url"`
	APIKey                string `mapstructure:"api_key" validate:"required"`
	RequestsPerMinute     int    `mapstructure:"requests_per_minute" validate:"required,gt=0"`
	Burst                 int    `mapstructure:"burst" validate:"required,gt=0"`
	TimeoutSeconds        int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries            int    `mapstructure:"max_retries" validate:"gte=0,lte=5"`
	RetryWaitMinMillis    int    `mapstructure:"retry_wait_min_ms" validate:"required,gt=0"`
	RetryWaitMaxMillis    int    `mapstructure:"retry_wait_max_ms" validate:"required,gtefield=RetryWaitMinMillis"`
	BreakerTimeoutSeconds int    `mapstructure:"breaker_timeout_seconds" validate:"required,gt=0"`
	BreakerMinRequests    int    `mapstructure:"breaker_min_requests" validate:"required,gt=0"`
}

// OddsConfig represents probability model and pricing configuration
type OddsConfig struct {
	Weights           WeightsConfig `mapstructure:"weights" validate:"required"`
	BatchSize         int           `mapstructure:"batch_size" validate:"required,gt=0"`
	StatsWindowMonths int           `mapstructure:"stats_window_months" validate:"required,gt=0,lte=24"`
}

// WeightsConfig holds the blend weights of the probability model. They must sum to 1.
type WeightsConfig struct {
	Team             float64 `mapstructure:"team" validate:"gte=0,lte=1"`
	RecentTeam       float64 `mapstructure:"recent_team" validate:"gte=0,lte=1"`
	HeadToHead       float64 `mapstructure:"head_to_head" validate:"gte=0,lte=1"`
	RecentHeadToHead float64 `mapstructure:"recent_head_to_head" validate:"gte=0,lte=1"`
	StandingRate     float64 `mapstructure:"standing_rate" validate:"gte=0,lte=1"`
	StandingPosition float64 `mapstructure:"standing_position" validate:"gte=0,lte=1"`
}

// Sum returns the total of all weights
func (w WeightsConfig) Sum() float64 {
	return w.Team + w.RecentTeam + w.HeadToHead + w.RecentHeadToHead + w.StandingRate + w.StandingPosition
}

// SchedulerConfig represents the cron specs and timing of scheduled tasks
type SchedulerConfig struct {
	OddsCalculation      string `mapstructure:"odds_calculation" validate:"required,cronspec"`
	MatchUpdate          string `mapstructure:"match_update" validate:"required,cronspec"`
	CheckMatchesToday    string `mapstructure:"check_matches_today" validate:"required,cronspec"`
	StartMaintenance     string `mapstructure:"start_maintenance" validate:"required,cronspec"`
	SaveUpcomingMatches  string `mapstructure:"save_upcoming_matches" validate:"required,cronspec"`
	FirstStandingsBatch  string `mapstructure:"first_standings_batch" validate:"required,cronspec"`
	SecondStandingsBatch string `mapstructure:"second_standings_batch" validate:"required,cronspec"`
	EndMaintenance       string `mapstructure:"end_maintenance" validate:"required,cronspec"`

	TaskTimeoutSeconds        int  `mapstructure:"task_timeout_seconds" validate:"required,gt=0"`
	UpcomingWindows           int  `mapstructure:"upcoming_windows" validate:"required,gt=0"`
	UpcomingWindowDays        int  `mapstructure:"upcoming_window_days" validate:"required,gt=0"`
	BootstrapQuotaWaitSeconds int  `mapstructure:"bootstrap_quota_wait_seconds" validate:"gte=0"`
	RunBootstrapOnStart       bool `mapstructure:"run_bootstrap_on_start"`
}

// CacheConfig represents the in-memory provider payload cache
type CacheConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	TTLMinutes     int  `mapstructure:"ttl_minutes" validate:"omitempty,gt=0"`
	CleanupMinutes int  `mapstructure:"cleanup_minutes" validate:"omitempty,gt=0"`
}

// RedisConfig represents the Redis stream event publisher
type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Addr         string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db" validate:"gte=0"`
	StreamPrefix string `mapstructure:"stream_prefix"`
	StreamMaxLen int64  `mapstructure:"stream_max_len" validate:"gte=0"`
}

// EventsConfig represents the websocket event hub
type EventsConfig struct {
	WebsocketEnabled bool `mapstructure:"websocket_enabled"`
	ClientBuffer     int  `mapstructure:"client_buffer" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents the health, metrics and event server ports
type HealthConfig struct {
	Port     int `mapstructure:"port" validate:"required,min=1,max=65535"`
	GRPCPort int `mapstructure:"grpc_port" validate:"omitempty,min=1,max=65535"`
}

// SecretsConfig locates the optional AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
		c.Database.MaxConnections,
	)
}

// TaskTimeout returns the deadline applied to a single scheduled task run
func (c *Config) TaskTimeout() time.Duration {
	return time.Duration(c.Scheduler.TaskTimeoutSeconds) * time.Second
}

// BootstrapQuotaWait returns the pause between bootstrap steps that spend provider quota
func (c *Config) BootstrapQuotaWait() time.Duration {
	return time.Duration(c.Scheduler.BootstrapQuotaWaitSeconds) * time.Second
}
