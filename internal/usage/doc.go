// Package usage enforces the rolling per-client call quota.
//
// The counter lives in an injected store.KeyValueStore, so the limiter holds
// no state of its own beyond a mutex used when the store cannot update
// atomically. Storage problems never block a caller: an unreadable or
// malformed record starts a fresh window, and a failed write is logged and
// ignored, so quota enforcement degrades to "unlimited" rather than failing.
package usage
