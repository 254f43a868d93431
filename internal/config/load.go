package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. TRENDS_SERVER_PORT.
const EnvPrefix = "TRENDS"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper already knows about; keys without
	// defaults must be bound explicitly.
	for _, key := range []string{
		"llm.gemini_api_key",
		"storage.redis_url",
		"storage.database_url",
		"auth.jwt_secret",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and the cross-field storage requirements.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Storage.NeedsRedis() && cfg.Storage.RedisURL == "" {
		return fmt.Errorf("config validation failed: storage.redis_url is required when a redis backend is selected")
	}
	if cfg.Storage.NeedsPostgres() && cfg.Storage.DatabaseURL == "" {
		return fmt.Errorf("config validation failed: storage.database_url is required when the postgres backend is selected")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.requests_per_minute", 60)
	v.SetDefault("server.burst", 10)

	v.SetDefault("llm.model_name", "gemini-2.5-pro")
	v.SetDefault("llm.strict_ranking", false)

	v.SetDefault("usage.daily_limit", 5)
	v.SetDefault("usage.window", "24h")

	v.SetDefault("storage.persistent_backend", BackendMemory)
	v.SetDefault("storage.session_backend", BackendMemory)

	v.SetDefault("auth.session_lifetime", "12h")
}
