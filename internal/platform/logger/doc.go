// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels, request-scoped loggers carried on the context, and a
// handler that scrubs credentials from error attributes before they are written.
package logger
