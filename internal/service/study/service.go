// Package study builds flashcard decks from the notebook and asks the AI
// collaborator for short practice stories.
package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/vibevocab/internal/config"
	"github.com/heartmarshall/vibevocab/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type generator interface {
	Generate(ctx context.Context, p domain.Prompt) (string, error)
}

type notebookLister interface {
	List(ctx context.Context, tag string) ([]domain.SavedEntry, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the study modes.
type Service struct {
	log       *slog.Logger
	gen       generator
	notebook  notebookLister
	languages domain.LanguageSet
}

// NewService creates a study service. cfg must have been validated.
func NewService(logger *slog.Logger, gen generator, nb notebookLister, cfg config.LookupConfig) *Service {
	languages, _ := domain.NewLanguageSet(cfg.Languages)
	return &Service{
		log:       logger.With("service", "study"),
		gen:       gen,
		notebook:  nb,
		languages: languages,
	}
}

// Flashcards builds a deck from the session notebook entries carrying input.Tag.
func (s *Service) Flashcards(ctx context.Context, input FlashcardsInput) (*Deck, error) {
	entries, err := s.notebook.List(ctx, input.Tag)
	if err != nil {
		return nil, fmt.Errorf("list notebook: %w", err)
	}

	deck := NewDeck(entries, input.Seed)

	s.log.InfoContext(ctx, "flashcard deck built",
		slog.String("tag", input.Tag),
		slog.Int("cards", deck.Progress().Total),
	)
	return deck, nil
}

// Story asks the collaborator for a short story that uses every given word.
// Collaborator failures are reported as upstream failures; there is no fallback story.
func (s *Service) Story(ctx context.Context, input StoryInput) (*Story, error) {
	lang, err := input.validate(s.languages)
	if err != nil {
		return nil, err
	}

	text, err := s.gen.Generate(ctx, buildStoryPrompt(input.Words, lang))
	if err != nil {
		joined := strings.Join(input.Words, ", ")
		if errors.Is(err, domain.ErrNoCredentials) {
			return nil, domain.NewConfigMissingError(joined, err)
		}
		return nil, domain.NewUpstreamError(joined, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewUpstreamError(strings.Join(input.Words, ", "), errors.New("empty story"))
	}

	s.log.InfoContext(ctx, "story generated",
		slog.Int("words", len(input.Words)),
		slog.String("language", lang.Code),
	)

	return &Story{Text: text, Words: input.Words, Language: lang.Code}, nil
}

func buildStoryPrompt(words []string, lang domain.Language) domain.Prompt {
	return domain.Prompt{
		Instruction: fmt.Sprintf(`Write a short, vivid story (at most 200 words) for a language learner.
Use every one of these words at least once: %s.
Write the story in English, then add a one-paragraph summary in %s.
Wrap each of the listed words in **double asterisks** where it appears in the story.
Return only the story and the summary, without a title or any commentary.`,
			strings.Join(words, ", "), lang.Name),
	}
}
