package lookup

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/vibevocab/internal/config"
	"github.com/heartmarshall/vibevocab/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type generator interface {
	Generate(ctx context.Context, p domain.Prompt) (string, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service resolves single words into lexical entries through the AI collaborator.
// It performs exactly one collaborator call per lookup and never retries.
type Service struct {
	log       *slog.Logger
	gen       generator
	languages domain.LanguageSet
	cfg       config.LookupConfig
}

// NewService creates a new lookup service. cfg must have been validated so that
// cfg.Languages holds the parsed language codes.
func NewService(logger *slog.Logger, gen generator, cfg config.LookupConfig) *Service {
	languages, _ := domain.NewLanguageSet(cfg.Languages)
	return &Service{
		log:       logger.With("service", "lookup"),
		gen:       gen,
		languages: languages,
		cfg:       cfg,
	}
}

// Languages returns the supported explanation languages.
func (s *Service) Languages() []domain.Language {
	return s.languages.All()
}

// DefaultLanguage returns the configured default explanation language code.
func (s *Service) DefaultLanguage() string {
	return s.cfg.DefaultLanguage
}
