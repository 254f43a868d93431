// Package postgres provides a PostgreSQL implementation of store.KeyValueStore.
// Entries live in a single kv_entries table whose schema is managed by the
// goose migrations embedded in this package. It is the durable choice for
// the persistent (usage counter) store.
package postgres
