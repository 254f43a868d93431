// Package mocks provides hand-written test doubles for the interfaces the
// service and API layers depend on. Each mock records its calls so tests can
// assert on what was sent, and lets a test override behavior with a function
// field.
package mocks
