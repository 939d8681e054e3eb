package rest

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"

	"github.com/heartmarshall/vibevocab/internal/service/study"
)

// studyService defines the minimal interface needed by StudyHandler.
type studyService interface {
	Flashcards(ctx context.Context, input study.FlashcardsInput) (*study.Deck, error)
	Story(ctx context.Context, input study.StoryInput) (*study.Story, error)
}

// StudyHandler serves the study modes.
type StudyHandler struct {
	svc studyService
	log *slog.Logger
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(svc studyService, logger *slog.Logger) *StudyHandler {
	return &StudyHandler{svc: svc, log: logger.With("handler", "study")}
}

type flashcardsRequest struct {
	Tag     string `json:"tag"`
	Shuffle bool   `json:"shuffle"`
	// Seed replays a previous shuffle. Ignored unless Shuffle is set.
	Seed uint64 `json:"seed"`
}

type flashcardsResponse struct {
	Cards    []study.Card   `json:"cards"`
	Progress study.Progress `json:"progress"`
	Seed     uint64         `json:"seed,omitempty"`
}

type storyRequest struct {
	Words    []string `json:"words"`
	Language string   `json:"language"`
}

// Flashcards handles POST /api/study/flashcards. The deck is returned whole; the client
// drives the again/known loop.
func (h *StudyHandler) Flashcards(w http.ResponseWriter, r *http.Request) {
	var req flashcardsRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, h.log, err)
			return
		}
	}

	var seed uint64
	if req.Shuffle {
		seed = req.Seed
		for seed == 0 {
			seed = rand.Uint64()
		}
	}

	deck, err := h.svc.Flashcards(r.Context(), study.FlashcardsInput{Tag: req.Tag, Seed: seed})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, flashcardsResponse{
		Cards:    deck.Cards(),
		Progress: deck.Progress(),
		Seed:     seed,
	})
}

// Story handles POST /api/study/story.
func (h *StudyHandler) Story(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	story, err := h.svc.Story(r.Context(), study.StoryInput{Words: req.Words, Language: req.Language})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, story)
}
