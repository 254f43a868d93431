package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm"     validate:"required"`
	Usage   UsageConfig   `mapstructure:"usage"   validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Auth    AuthConfig    `mapstructure:"auth"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// RequestsPerMinute and Burst bound how fast a single IP may call the API.
	// This protects the process and is unrelated to the daily usage quota.
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"gt=0"`
	Burst             int `mapstructure:"burst"               validate:"gt=0"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`

	// StrictRanking makes the extractor reject results whose ranks are not 1..N.
	StrictRanking bool `mapstructure:"strict_ranking"`
}

// UsageConfig controls the rolling per-client quota.
type UsageConfig struct {
	DailyLimit int           `mapstructure:"daily_limit" validate:"gt=0"`
	Window     time.Duration `mapstructure:"window"      validate:"gt=0"`
}

// Storage backend names.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// StorageConfig selects the key-value backends. The persistent backend holds
// usage counters; the session backend holds cached results.
type StorageConfig struct {
	PersistentBackend string `mapstructure:"persistent_backend" validate:"required,oneof=memory redis postgres"`
	SessionBackend    string `mapstructure:"session_backend"    validate:"required,oneof=memory redis"`

	RedisURL    string `mapstructure:"redis_url"`
	DatabaseURL string `mapstructure:"database_url" validate:"omitempty,url"`
}

// NeedsRedis reports whether either backend is Redis.
func (s StorageConfig) NeedsRedis() bool {
	return s.PersistentBackend == BackendRedis || s.SessionBackend == BackendRedis
}

// NeedsPostgres reports whether the persistent backend is PostgreSQL.
func (s StorageConfig) NeedsPostgres() bool {
	return s.PersistentBackend == BackendPostgres
}

// AuthConfig contains session token settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// SessionLifetime is how long an issued session token stays valid. It is
	// also the lifetime of that session's cached results.
	SessionLifetime time.Duration `mapstructure:"session_lifetime" validate:"gt=0"`
}
