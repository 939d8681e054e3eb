package importer

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/vibevocab/internal/domain"
	"github.com/heartmarshall/vibevocab/internal/service/lookup"
)

// Import resolves a list of words into tagged notebook candidates.
//
// At most Concurrency lookups are in flight at once. A word that fails to resolve is
// logged and dropped; the batch itself only fails on invalid input (including a language
// outside the configured set) or a notebook error. A commit stores all candidates or none.
// Words already in the notebook (case-insensitively, by input or corrected spelling) are
// excluded. Cancelling ctx stops new lookups from starting; the import then returns
// ctx.Err() and commits nothing.
func (s *Service) Import(ctx context.Context, input Input) (*Result, error) {
	words, tags, err := input.prepare(s.languages, s.cfg.MaxWords, s.cfg.DefaultTag)
	if err != nil {
		return nil, err
	}

	existing, err := s.notebook.WordKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("word keys: %w", err)
	}

	result := &Result{Requested: len(words)}

	pending := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := existing[domain.WordKey(w)]; ok {
			result.Existing++
			continue
		}
		pending = append(pending, w)
	}

	resolved := make([]*domain.LookupResult, len(pending))
	var failed atomic.Int32

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, w := range pending {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res, err := s.lookup.Lookup(ctx, lookup.Input{Query: w, Language: input.Language})
			if err != nil {
				failed.Add(1)
				s.log.WarnContext(ctx, "import lookup failed",
					slog.String("word", w),
					slog.String("error", err.Error()),
				)
				return nil
			}
			resolved[i] = res
			return nil
		})
	}
	_ = g.Wait()

	result.Failed = int(failed.Load())
	result.Entries = s.collect(resolved, existing, tags, result)

	if err := ctx.Err(); err != nil {
		s.log.InfoContext(ctx, "import cancelled",
			slog.Int("resolved", len(result.Entries)),
			slog.Int("requested", result.Requested),
		)
		return nil, err
	}

	if input.Commit && len(result.Entries) > 0 {
		committed, err := s.notebook.Commit(ctx, result.Entries)
		if err != nil {
			return nil, fmt.Errorf("commit: %w", err)
		}
		result.Entries = committed.Saved
		result.Existing += len(committed.Skipped)
		result.Committed = true
	}

	s.log.InfoContext(ctx, "import finished",
		slog.Int("requested", result.Requested),
		slog.Int("resolved", len(result.Entries)),
		slog.Int("existing", result.Existing),
		slog.Int("failed", result.Failed),
		slog.Bool("committed", result.Committed),
	)

	return result, nil
}

// collect turns lookup results into candidates in input order. A corrected spelling can
// collide with a saved word or with another result; the first occurrence wins.
func (s *Service) collect(resolved []*domain.LookupResult, existing map[string]struct{}, tags []string, result *Result) []domain.SavedEntry {
	seen := make(map[string]bool, len(resolved))
	out := make([]domain.SavedEntry, 0, len(resolved))

	for _, res := range resolved {
		if res == nil {
			continue
		}
		word := res.Entry.Word()
		key := domain.WordKey(word)
		if _, ok := existing[key]; ok {
			result.Existing++
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, domain.SavedEntry{
			Word:  word,
			Entry: res.Entry,
			Tags:  append([]string(nil), tags...),
		})
	}
	return out
}
