//go:build integration

// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database. Tests are skipped when no database URL is configured.
//
// Typical use:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    kv := postgres.NewKVStore(db, nil)
//	    ...
//	}
//
// GetTestDBWithT applies the embedded migrations once per connection and
// registers cleanup of the rows a test created under its key prefix.
//
// # Environment Variables
//
// Resolved by ciutil.GetTestDatabaseURL:
// - TRENDS_TEST_DB_URL: Preferred connection string
// - DATABASE_URL: Fallback, as set by most CI services
// - TRENDS_STORAGE_DATABASE_URL: The application's own setting
package testdb
