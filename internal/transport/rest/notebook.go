package rest

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/vibevocab/internal/domain"
	"github.com/heartmarshall/vibevocab/internal/service/lookup"
	"github.com/heartmarshall/vibevocab/internal/service/notebook"
)

// notebookService defines the minimal interface needed by NotebookHandler.
type notebookService interface {
	Save(ctx context.Context, input notebook.SaveInput) (*domain.SavedEntry, error)
	Refresh(ctx context.Context, word string, entry domain.LexicalEntry) (*domain.SavedEntry, error)
	SetTags(ctx context.Context, word string, tags []string) (*domain.SavedEntry, error)
	Remove(ctx context.Context, word string) error
	Get(ctx context.Context, word string) (*domain.SavedEntry, error)
	List(ctx context.Context, tag string) ([]domain.SavedEntry, error)
	Tags(ctx context.Context) (*notebook.TagsResult, error)
	AddTag(ctx context.Context, label string) (string, error)
}

// wordResolver re-resolves a saved word for Refresh. Fallback cards are never stored.
type wordResolver interface {
	Lookup(ctx context.Context, input lookup.Input) (*domain.LookupResult, error)
	DefaultLanguage() string
}

// NotebookHandler serves the per-session notebook.
type NotebookHandler struct {
	svc      notebookService
	resolver wordResolver
	log      *slog.Logger
}

// NewNotebookHandler creates a NotebookHandler.
func NewNotebookHandler(svc notebookService, resolver wordResolver, logger *slog.Logger) *NotebookHandler {
	return &NotebookHandler{svc: svc, resolver: resolver, log: logger.With("handler", "notebook")}
}

type saveEntryRequest struct {
	Entry domain.LexicalEntry `json:"entry"`
	Tags  []string            `json:"tags"`
}

type setTagsRequest struct {
	Tags []string `json:"tags"`
}

type refreshRequest struct {
	Entry    *domain.LexicalEntry `json:"entry"`
	Language string               `json:"language"`
}

type addTagRequest struct {
	Label string `json:"label"`
}

type entriesResponse struct {
	Entries []domain.SavedEntry `json:"entries"`
	Tag     string              `json:"tag"`
}

type tagsResponse struct {
	Tags   []string          `json:"tags"`
	Counts []domain.TagCount `json:"counts"`
}

type tagResponse struct {
	Tag string `json:"tag"`
}

// List handles GET /api/notebook?tag=. A missing tag lists everything.
func (h *NotebookHandler) List(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")
	if tag == "" {
		tag = domain.TagAll
	}

	entries, err := h.svc.List(r.Context(), tag)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if entries == nil {
		entries = []domain.SavedEntry{}
	}

	writeJSON(w, http.StatusOK, entriesResponse{Entries: entries, Tag: tag})
}

// Get handles GET /api/notebook/entries/{word}.
func (h *NotebookHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), wordParam(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Save handles PUT /api/notebook/entries/{word}. Saving a known word merges its tags.
func (h *NotebookHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveEntryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	e, err := h.svc.Save(r.Context(), notebook.SaveInput{Word: wordParam(r), Entry: req.Entry, Tags: req.Tags})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// SetTags handles PUT /api/notebook/entries/{word}/tags.
func (h *NotebookHandler) SetTags(w http.ResponseWriter, r *http.Request) {
	var req setTagsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	e, err := h.svc.SetTags(r.Context(), wordParam(r), req.Tags)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Refresh handles POST /api/notebook/entries/{word}/refresh. Without an entry in the
// body the word is looked up again; a collaborator failure leaves the saved entry as is.
func (h *NotebookHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, h.log, err)
			return
		}
	}

	word := wordParam(r)
	entry := req.Entry
	if entry == nil {
		lang := req.Language
		if lang == "" {
			lang = h.resolver.DefaultLanguage()
		}
		res, err := h.resolver.Lookup(r.Context(), lookup.Input{Query: word, Language: lang})
		if err != nil {
			handleError(w, r, h.log, err)
			return
		}
		entry = &res.Entry
	}

	e, err := h.svc.Refresh(r.Context(), word, *entry)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Delete handles DELETE /api/notebook/entries/{word}.
func (h *NotebookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), wordParam(r)); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Tags handles GET /api/notebook/tags.
func (h *NotebookHandler) Tags(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Tags(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tagsResponse{Tags: res.Tags, Counts: res.Counts})
}

// AddTag handles POST /api/notebook/tags.
func (h *NotebookHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	var req addTagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	tag, err := h.svc.AddTag(r.Context(), req.Label)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, tagResponse{Tag: tag})
}

func wordParam(r *http.Request) string {
	raw := chi.URLParam(r, "word")
	if w, err := url.PathUnescape(raw); err == nil {
		return w
	}
	return raw
}
