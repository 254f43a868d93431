// Package ciutil centralizes environment detection and the environment
// variables that integration tests read to find their PostgreSQL and Redis
// servers. Tests call it instead of os.Getenv so variable names and their
// precedence stay consistent across packages.
package ciutil
