// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between external clients
// and the trend service, translating HTTP concerns to service calls and
// service errors back to status codes and safe messages.
package api
