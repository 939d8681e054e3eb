// Package session creates anonymous notebook sessions and resolves their bearer tokens.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/vibevocab/internal/auth"
	"github.com/heartmarshall/vibevocab/internal/config"
	"github.com/heartmarshall/vibevocab/internal/domain"
)

type tokenManager interface {
	Generate(sessionID uuid.UUID, language string) (auth.SessionToken, error)
	Validate(token string) (uuid.UUID, string, error)
}

// Session is a freshly created anonymous session.
type Session struct {
	ID        uuid.UUID
	Token     string
	ExpiresAt time.Time
	Language  string
}

// Service issues session tokens.
type Service struct {
	log             *slog.Logger
	tokens          tokenManager
	languages       domain.LanguageSet
	defaultLanguage string
}

// NewService creates a session service. lookupCfg must be validated.
func NewService(logger *slog.Logger, tokens tokenManager, lookupCfg config.LookupConfig) *Service {
	languages, _ := domain.NewLanguageSet(lookupCfg.Languages)
	return &Service{
		log:             logger.With("service", "session"),
		tokens:          tokens,
		languages:       languages,
		defaultLanguage: lookupCfg.DefaultLanguage,
	}
}

// Create starts a new session with an empty notebook. An empty language selects the default.
func (s *Service) Create(ctx context.Context, language string) (*Session, error) {
	if language == "" {
		language = s.defaultLanguage
	}
	lang, ok := s.languages.Get(language)
	if !ok {
		return nil, domain.NewValidationError("language", "unsupported")
	}

	id := uuid.New()
	tok, err := s.tokens.Generate(id, lang.Code)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.log.InfoContext(ctx, "session created", slog.String("session_id", id.String()), slog.String("language", lang.Code))

	return &Session{
		ID:        id,
		Token:     tok.Token,
		ExpiresAt: tok.ExpiresAt,
		Language:  lang.Code,
	}, nil
}

// ValidateToken resolves a bearer token to its session ID.
func (s *Service) ValidateToken(_ context.Context, token string) (uuid.UUID, error) {
	id, _, err := s.tokens.Validate(token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return id, nil
}
