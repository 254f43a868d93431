// Package store defines the key-value abstraction the trend finder persists
// through. The usage limiter and the response cache only ever see a
// KeyValueStore; which backend sits behind it (memory, Redis, PostgreSQL) is
// decided at wiring time.
//
// Stores report failures as errors rather than panicking. Callers treat
// ErrNotFound as a normal miss and everything else as "store unavailable".
package store
