package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/trend-finder/internal/api/middleware"
	"github.com/phrazzld/trend-finder/internal/api/shared"
	"github.com/phrazzld/trend-finder/internal/platform/logger"
	"github.com/phrazzld/trend-finder/internal/service/auth"
)

// SessionHandler issues anonymous session tokens.
type SessionHandler struct {
	sessions auth.SessionService
	logger   *slog.Logger
}

// NewSessionHandler creates a new SessionHandler with the given dependencies.
func NewSessionHandler(sessions auth.SessionService, log *slog.Logger) *SessionHandler {
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &SessionHandler{
		sessions: sessions,
		logger:   log.With(slog.String("component", "session_handler")),
	}
}

// CreateSession handles POST /api/sessions. A still-valid bearer token keeps
// its client ID so quota follows the client; anything else starts a new
// client.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	clientID := uuid.Nil
	if token, err := middleware.BearerToken(r); err == nil {
		claims, err := h.sessions.ValidateToken(r.Context(), token)
		if err == nil {
			clientID = claims.ClientID
		} else {
			log.Debug("ignoring unusable token on session request", slog.String("error", err.Error()))
		}
	}

	session, err := h.sessions.IssueSession(r.Context(), clientID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create session")
		return
	}

	log.Info("session issued",
		slog.String("client_id", session.ClientID.String()),
		slog.Bool("returning_client", clientID != uuid.Nil))

	shared.RespondWithJSON(w, r, http.StatusCreated, SessionResponse{
		ClientID:  session.ClientID.String(),
		SessionID: session.SessionID.String(),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
