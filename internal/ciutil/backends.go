package ciutil

import "log/slog"

// GetTestDatabaseURL returns the PostgreSQL URL for integration tests.
// It checks TRENDS_TEST_DB_URL, DATABASE_URL and TRENDS_STORAGE_DATABASE_URL
// in that order, and returns "" when none is set.
func GetTestDatabaseURL(logger *slog.Logger) string {
	return GetEnvWithFallbacks(
		[]string{EnvTrendsTestDBURL, EnvDatabaseURL, EnvTrendsDatabaseURL}, "", logger)
}

// GetTestRedisURL returns the Redis URL for integration tests.
// It checks TRENDS_TEST_REDIS_URL then TRENDS_STORAGE_REDIS_URL, and
// returns "" when neither is set.
func GetTestRedisURL(logger *slog.Logger) string {
	return GetEnvWithFallbacks([]string{EnvTrendsTestRedis, EnvTrendsRedisURL}, "", logger)
}
