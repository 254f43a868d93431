// Package auth issues and validates the anonymous session tokens that give
// each API client a stable identity. The token subject is the client ID,
// which scopes the persistent usage quota; the token ID is the session ID,
// which scopes the response cache.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/trend-finder/internal/domain"
)

// SessionService defines operations for managing session tokens.
type SessionService interface {
	// IssueSession creates a new session for clientID. A zero clientID
	// means a new client and one is generated.
	IssueSession(ctx context.Context, clientID uuid.UUID) (Session, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Session is a freshly issued token with its identifiers.
type Session struct {
	Token     string
	ClientID  uuid.UUID
	SessionID uuid.UUID
	ExpiresAt time.Time
}

// Claims represents the validated contents of a session token.
type Claims struct {
	ClientID  uuid.UUID
	SessionID uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Caller converts the claims into the identity used to scope stores.
func (c *Claims) Caller() domain.Caller {
	return domain.Caller{
		ClientID:  c.ClientID.String(),
		SessionID: c.SessionID.String(),
	}
}
