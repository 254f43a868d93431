package ciutil

import (
	"log/slog"
	"os"

	"github.com/phrazzld/trend-finder/internal/redact"
)

// Common environment variable names used across the codebase.
const (
	// CI environment detection variables
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvCircleCI      = "CIRCLECI"

	// Integration test backends
	EnvDatabaseURL       = "DATABASE_URL"
	EnvTrendsTestDBURL   = "TRENDS_TEST_DB_URL" // Preferred name
	EnvTrendsDatabaseURL = "TRENDS_STORAGE_DATABASE_URL"
	EnvTrendsTestRedis   = "TRENDS_TEST_REDIS_URL"
	EnvTrendsRedisURL    = "TRENDS_STORAGE_REDIS_URL"
)

// IsCI returns true if the current environment is a CI environment.
func IsCI() bool {
	return os.Getenv(EnvCI) != "" ||
		os.Getenv(EnvGitHubActions) != "" ||
		os.Getenv(EnvGitLabCI) != "" ||
		os.Getenv(EnvJenkinsURL) != "" ||
		os.Getenv(EnvCircleCI) != ""
}

// GetEnvWithFallbacks returns the value of the first non-empty environment variable
// from the provided list. If no environment variables are set, it returns the defaultValue.
// Using any name but the first is logged, with credentials redacted.
func GetEnvWithFallbacks(envVars []string, defaultValue string, logger *slog.Logger) string {
	for i, envVar := range envVars {
		val := os.Getenv(envVar)
		if val == "" {
			continue
		}
		if i > 0 && logger != nil {
			logger.Warn("Using fallback environment variable",
				"used_var", envVar,
				"preferred_var", envVars[0],
				"value", redact.Secrets(val),
			)
		}
		return val
	}
	return defaultValue
}
