package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/trend-finder/internal/store"
)

const backendName = "postgres"

// PostgreSQL error classes that mean the server, not the query, is the problem.
const (
	connectionExceptionClass  = "08" // connection_exception
	operatorInterventionClass = "57" // admin_shutdown, cannot_connect_now, ...
	insufficientResourceClass = "53" // too_many_connections, disk_full, ...
)

// MapError maps a database error to a store error. sql.ErrNoRows becomes
// store.ErrNotFound; context errors pass through unchanged; everything
// else is reported as store.ErrUnavailable.
func MapError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrUnavailable) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return store.Unavailable(backendName, op, key, err)
}

// IsConnectionError reports whether err is a PostgreSQL error from a class
// that indicates the server is unreachable or refusing work.
func IsConnectionError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	for _, class := range []string{connectionExceptionClass, operatorInterventionClass, insufficientResourceClass} {
		if strings.HasPrefix(pgErr.Code, class) {
			return true
		}
	}
	return false
}
