package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/vibevocab/internal/service/session"
)

// sessionService defines the minimal interface needed by SessionHandler.
type sessionService interface {
	Create(ctx context.Context, language string) (*session.Session, error)
}

// SessionHandler serves the anonymous session endpoint.
type SessionHandler struct {
	svc sessionService
	log *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(svc sessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, log: logger.With("handler", "session")}
}

type createSessionRequest struct {
	Language string `json:"language"`
}

type sessionResponse struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Language  string    `json:"language"`
}

// Create handles POST /api/sessions. The body is optional.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, h.log, err)
			return
		}
	}

	s, err := h.svc.Create(r.Context(), req.Language)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID: s.ID.String(),
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		Language:  s.Language,
	})
}
