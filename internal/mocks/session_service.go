package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/trend-finder/internal/service/auth"
)

// MockSessionService implements auth.SessionService for testing.
type MockSessionService struct {
	IssueSessionFn  func(ctx context.Context, clientID uuid.UUID) (auth.Session, error)
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)

	// Claims is returned by ValidateToken when ValidateTokenFn is nil.
	Claims *auth.Claims
	Err    error

	mu              sync.Mutex
	IssuedFor       []uuid.UUID
	ValidatedTokens []string
}

var _ auth.SessionService = (*MockSessionService)(nil)

// NewMockSessionServiceFor returns a mock that validates every token as the
// given client and session.
func NewMockSessionServiceFor(clientID, sessionID uuid.UUID) *MockSessionService {
	return &MockSessionService{
		Claims: &auth.Claims{
			ClientID:  clientID,
			SessionID: sessionID,
			IssuedAt:  time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

// IssueSession implements auth.SessionService.
func (m *MockSessionService) IssueSession(ctx context.Context, clientID uuid.UUID) (auth.Session, error) {
	m.mu.Lock()
	m.IssuedFor = append(m.IssuedFor, clientID)
	m.mu.Unlock()

	if m.IssueSessionFn != nil {
		return m.IssueSessionFn(ctx, clientID)
	}
	if m.Err != nil {
		return auth.Session{}, m.Err
	}
	if clientID == uuid.Nil {
		clientID = uuid.New()
	}
	return auth.Session{
		Token:     "mock-token-" + clientID.String(),
		ClientID:  clientID,
		SessionID: uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

// ValidateToken implements auth.SessionService.
func (m *MockSessionService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	m.mu.Lock()
	m.ValidatedTokens = append(m.ValidatedTokens, token)
	m.mu.Unlock()

	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Claims == nil {
		return nil, auth.ErrInvalidToken
	}
	return m.Claims, nil
}
