package importer

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/vibevocab/internal/config"
	"github.com/heartmarshall/vibevocab/internal/domain"
	"github.com/heartmarshall/vibevocab/internal/service/lookup"
	"github.com/heartmarshall/vibevocab/internal/service/notebook"
)

// DefaultConcurrency is the number of lookups allowed in flight when none is configured.
const DefaultConcurrency = 10

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type lookuper interface {
	Lookup(ctx context.Context, input lookup.Input) (*domain.LookupResult, error)
}

type notebookStore interface {
	WordKeys(ctx context.Context) (map[string]struct{}, error)
	Commit(ctx context.Context, candidates []domain.SavedEntry) (*notebook.CommitResult, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service resolves word lists into notebook candidates with bounded concurrency.
type Service struct {
	log         *slog.Logger
	lookup      lookuper
	notebook    notebookStore
	concurrency int
	languages   domain.LanguageSet
	cfg         config.ImportConfig
}

// NewService creates a batch importer. The concurrency cap is clamped to
// [1, config.MaxImportConcurrency]; zero means DefaultConcurrency. lookupCfg must have
// been validated so that its languages are parsed.
func NewService(logger *slog.Logger, lk lookuper, nb notebookStore, cfg config.ImportConfig, lookupCfg config.LookupConfig) *Service {
	n := cfg.Concurrency
	switch {
	case n <= 0:
		n = DefaultConcurrency
	case n > config.MaxImportConcurrency:
		n = config.MaxImportConcurrency
	}
	if cfg.DefaultTag == "" {
		cfg.DefaultTag = domain.TagImported
	}
	languages, _ := domain.NewLanguageSet(lookupCfg.Languages)

	return &Service{
		log:         logger.With("service", "importer"),
		lookup:      lk,
		notebook:    nb,
		concurrency: n,
		languages:   languages,
		cfg:         cfg,
	}
}

// Concurrency returns the effective cap on in-flight lookups.
func (s *Service) Concurrency() int { return s.concurrency }
