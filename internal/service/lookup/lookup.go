package lookup

import (
	"context"
	"errors"
	"log/slog"

	"github.com/heartmarshall/vibevocab/internal/domain"
)

// Lookup resolves one word. Validation failures are returned before any collaborator call;
// collaborator failures come back as *domain.LookupError.
func (s *Service) Lookup(ctx context.Context, input Input) (*domain.LookupResult, error) {
	lang, err := input.validate(s.languages, s.cfg.MaxQueryLength)
	if err != nil {
		return nil, err
	}

	raw, err := s.gen.Generate(ctx, buildLookupPrompt(input.Query, lang))
	if err != nil {
		if errors.Is(err, domain.ErrNoCredentials) {
			return nil, domain.NewConfigMissingError(input.Query, err)
		}
		return nil, domain.NewUpstreamError(input.Query, err)
	}

	p, err := parseEntry(raw, input.Query)
	if err != nil {
		return nil, domain.NewUpstreamError(input.Query, err)
	}

	result := &domain.LookupResult{
		Entry:    p.entry,
		Input:    input.Query,
		Language: lang.Code,
	}
	if p.correction != "" {
		result.Entry.Query = p.correction
		result.Entry.CorrectedSpelling = p.correction
		result.Corrected = true
	}

	s.log.DebugContext(ctx, "word resolved",
		slog.String("query", input.Query),
		slog.String("word", result.Entry.Word()),
		slog.Bool("corrected", result.Corrected),
	)

	return result, nil
}

// LookupOrFallback is Lookup for primary lookups: collaborator failures are logged and
// converted into a clearly marked placeholder so the caller always has something to render.
// Only validation errors are returned.
func (s *Service) LookupOrFallback(ctx context.Context, input Input) (*domain.LookupResult, error) {
	result, err := s.Lookup(ctx, input)
	if err == nil {
		return result, nil
	}

	var lerr *domain.LookupError
	if !errors.As(err, &lerr) {
		return nil, err
	}

	query := domain.CleanWord(input.Query)
	lang, _ := s.languages.Get(input.Language)

	s.log.WarnContext(ctx, "lookup failed, serving fallback",
		slog.String("query", query),
		slog.String("error", err.Error()),
	)

	return &domain.LookupResult{
		Entry:    fallbackEntry(query, lerr.Kind),
		Input:    query,
		Fallback: true,
		Language: lang.Code,
	}, nil
}
