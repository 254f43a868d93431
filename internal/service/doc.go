// Package service contains the trend lookup use case. It sequences the
// per-client usage quota, the per-session response cache, prompt building,
// the model call and response extraction, and translates failures from those
// stages into the small error taxonomy the API layer maps to HTTP responses.
//
// The service depends on the store, usage, cache and generation packages and
// on the generation.Model interface, never on a concrete backend or model
// provider. Backends are chosen and injected by cmd/server.
package service
