package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/vibevocab/internal/domain"
	"github.com/heartmarshall/vibevocab/internal/service/lookup"
)

// lookupService defines the minimal interface needed by LookupHandler.
type lookupService interface {
	LookupOrFallback(ctx context.Context, input lookup.Input) (*domain.LookupResult, error)
	Languages() []domain.Language
	DefaultLanguage() string
}

// LookupHandler serves single-word lookups and the language list.
type LookupHandler struct {
	svc lookupService
	log *slog.Logger
}

// NewLookupHandler creates a LookupHandler.
func NewLookupHandler(svc lookupService, logger *slog.Logger) *LookupHandler {
	return &LookupHandler{svc: svc, log: logger.With("handler", "lookup")}
}

type lookupRequest struct {
	Query    string `json:"query"`
	Language string `json:"language"`
}

type lookupResponse struct {
	*domain.LookupResult
	Notice string `json:"notice,omitempty"`
}

type languagesResponse struct {
	Languages []domain.Language `json:"languages"`
	Default   string            `json:"default"`
}

// Languages handles GET /api/languages.
func (h *LookupHandler) Languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, languagesResponse{
		Languages: h.svc.Languages(),
		Default:   h.svc.DefaultLanguage(),
	})
}

// Lookup handles POST /api/lookup. Collaborator failures degrade to a fallback card.
func (h *LookupHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if req.Language == "" {
		req.Language = h.svc.DefaultLanguage()
	}

	res, err := h.svc.LookupOrFallback(r.Context(), lookup.Input{Query: req.Query, Language: req.Language})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, lookupResponse{LookupResult: res, Notice: res.CorrectionNotice()})
}
