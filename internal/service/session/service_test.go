package session

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/vibevocab/internal/auth"
	"github.com/heartmarshall/vibevocab/internal/config"
	"github.com/heartmarshall/vibevocab/internal/domain"
)

func newTestService() *Service {
	jwt := auth.NewJWTManager("test-secret-at-least-32-chars-long-for-security", "vibevocab-test", time.Hour)
	return NewService(slog.Default(), jwt, config.LookupConfig{
		Languages:       []string{"en", "zh-TW"},
		DefaultLanguage: "en",
	})
}

func TestCreate_DefaultLanguage(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	s, err := svc.Create(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "en", s.Language)
	assert.NotEmpty(t, s.Token)

	id, err := svc.ValidateToken(context.Background(), s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.ID, id)
}

func TestCreate_CanonicalLanguage(t *testing.T) {
	t.Parallel()

	s, err := newTestService().Create(context.Background(), "ZH-tw")
	require.NoError(t, err)
	assert.Equal(t, "zh-TW", s.Language)
}

func TestCreate_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	_, err := newTestService().Create(context.Background(), "ja")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateToken_Invalid(t *testing.T) {
	t.Parallel()

	_, err := newTestService().ValidateToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
