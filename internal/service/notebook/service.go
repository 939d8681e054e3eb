package notebook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/vibevocab/internal/config"
	"github.com/heartmarshall/vibevocab/internal/domain"
	"github.com/heartmarshall/vibevocab/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type repository interface {
	LoadNotebook(ctx context.Context, sessionID uuid.UUID) (domain.NotebookSnapshot, error)
	SaveEntry(ctx context.Context, sessionID uuid.UUID, entry domain.SavedEntry) error
	SaveEntries(ctx context.Context, sessionID uuid.UUID, entries []domain.SavedEntry) error
	DeleteEntry(ctx context.Context, sessionID uuid.UUID, word string) error
	SaveTag(ctx context.Context, sessionID uuid.UUID, tag string) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service exposes the per-session notebook. When a repository is configured every
// mutation is written through before it becomes visible in memory.
type Service struct {
	log  *slog.Logger
	repo repository
	reg  *Registry
}

// NewService creates a notebook service. repo may be nil for session-only storage.
func NewService(logger *slog.Logger, repo repository, cfg config.NotebookConfig, sessionCfg config.SessionConfig) *Service {
	log := logger.With("service", "notebook")
	defaults := cfg.DefaultTags
	if len(defaults) == 0 {
		defaults = domain.DefaultTags
	}
	return &Service{
		log:  log,
		repo: repo,
		reg:  newRegistry(log, repo, defaults, cfg.MaxEntries, sessionCfg.IdleTimeout),
	}
}

// Registry returns the live-notebook registry, for the idle sweeper.
func (s *Service) Registry() *Registry { return s.reg }

// withNotebook runs fn on the caller's session notebook with the session lock held.
func (s *Service) withNotebook(ctx context.Context, fn func(id uuid.UUID, nb *Notebook) error) error {
	id, ok := ctxutil.SessionIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	ln, err := s.reg.acquire(ctx, id)
	if err != nil {
		return err
	}

	ln.mu.Lock()
	defer ln.mu.Unlock()
	return fn(id, ln.nb)
}

func (s *Service) saveEntry(ctx context.Context, id uuid.UUID, e domain.SavedEntry) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SaveEntry(ctx, id, e); err != nil {
		return fmt.Errorf("save entry %q: %w", e.Word, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// Save upserts a word: a new word is inserted, an existing one only has its tags replaced.
func (s *Service) Save(ctx context.Context, input SaveInput) (*domain.SavedEntry, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var out domain.SavedEntry
	err := s.withNotebook(ctx, func(id uuid.UUID, nb *Notebook) error {
		next, err := nb.PlanUpsert(input.Word, input.Entry, input.Tags)
		if err != nil {
			return err
		}
		if err := s.saveEntry(ctx, id, next); err != nil {
			return err
		}
		nb.Put(next)
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "word saved", slog.String("word", out.Word), slog.Any("tags", out.Tags))
	return &out, nil
}

// Refresh replaces the payload of a saved word with a freshly looked-up entry.
func (s *Service) Refresh(ctx context.Context, word string, entry domain.LexicalEntry) (*domain.SavedEntry, error) {
	var out domain.SavedEntry
	err := s.withNotebook(ctx, func(id uuid.UUID, nb *Notebook) error {
		next, err := nb.PlanRefresh(word, entry)
		if err != nil {
			return err
		}
		if err := s.saveEntry(ctx, id, next); err != nil {
			return err
		}
		nb.Put(next)
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetTags replaces the tags of a saved word.
func (s *Service) SetTags(ctx context.Context, word string, tags []string) (*domain.SavedEntry, error) {
	var out domain.SavedEntry
	err := s.withNotebook(ctx, func(id uuid.UUID, nb *Notebook) error {
		next, err := nb.PlanSetTags(word, tags)
		if err != nil {
			return err
		}
		if err := s.saveEntry(ctx, id, next); err != nil {
			return err
		}
		nb.Put(next)
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Remove deletes a saved word. Removing a word that is not saved is not an error.
func (s *Service) Remove(ctx context.Context, word string) error {
	return s.withNotebook(ctx, func(id uuid.UUID, nb *Notebook) error {
		if !nb.Contains(word) {
			return nil
		}
		if s.repo != nil {
			if err := s.repo.DeleteEntry(ctx, id, domain.WordKey(word)); err != nil {
				return fmt.Errorf("delete entry %q: %w", word, err)
			}
		}
		nb.Remove(word)
		s.log.InfoContext(ctx, "word removed", slog.String("word", word))
		return nil
	})
}

// Get returns one saved word.
func (s *Service) Get(ctx context.Context, word string) (*domain.SavedEntry, error) {
	var out domain.SavedEntry
	err := s.withNotebook(ctx, func(_ uuid.UUID, nb *Notebook) error {
		e, ok := nb.Get(word)
		if !ok {
			return domain.ErrNotFound
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns saved words carrying tag, in the order they were saved. domain.TagAll lists everything.
func (s *Service) List(ctx context.Context, tag string) ([]domain.SavedEntry, error) {
	var out []domain.SavedEntry
	err := s.withNotebook(ctx, func(_ uuid.UUID, nb *Notebook) error {
		out = nb.FilterByTag(tag)
		return nil
	})
	return out, err
}

// Tags returns the tag catalog and the current count per tag.
func (s *Service) Tags(ctx context.Context) (*TagsResult, error) {
	var out TagsResult
	err := s.withNotebook(ctx, func(_ uuid.UUID, nb *Notebook) error {
		out = TagsResult{Tags: nb.Tags(), Counts: nb.TagCounts()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AddTag appends a label to the catalog and returns its catalog spelling.
func (s *Service) AddTag(ctx context.Context, label string) (string, error) {
	var out string
	err := s.withNotebook(ctx, func(id uuid.UUID, nb *Notebook) error {
		tag, known, err := nb.PlanTag(label)
		if err != nil {
			return err
		}
		if !known && s.repo != nil {
			if err := s.repo.SaveTag(ctx, id, tag); err != nil {
				return fmt.Errorf("save tag %q: %w", tag, err)
			}
		}
		out, err = nb.AddTag(tag)
		return err
	})
	return out, err
}

// WordKeys returns the identity keys of every saved word.
func (s *Service) WordKeys(ctx context.Context) (map[string]struct{}, error) {
	var out map[string]struct{}
	err := s.withNotebook(ctx, func(_ uuid.UUID, nb *Notebook) error {
		out = nb.WordKeys()
		return nil
	})
	return out, err
}

// Commit saves resolved import candidates after a batch has settled.
// Words already in the notebook, and repeats within candidates, are skipped rather than retagged.
// The commit is all-or-nothing: a batch that does not fit, or a failed write, leaves both the
// notebook and the repository unchanged.
func (s *Service) Commit(ctx context.Context, candidates []domain.SavedEntry) (*CommitResult, error) {
	if err := validateCandidates(candidates); err != nil {
		return nil, err
	}

	result := &CommitResult{}
	err := s.withNotebook(ctx, func(id uuid.UUID, nb *Notebook) error {
		planned, skipped, err := nb.PlanCommit(candidates)
		if err != nil {
			return err
		}
		if s.repo != nil && len(planned) > 0 {
			if err := s.repo.SaveEntries(ctx, id, planned); err != nil {
				return fmt.Errorf("save %d entries: %w", len(planned), err)
			}
		}
		for _, e := range planned {
			nb.Put(e)
		}
		result.Saved = planned
		result.Skipped = skipped
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "import committed",
		slog.Int("saved", len(result.Saved)),
		slog.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}
