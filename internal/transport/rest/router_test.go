package rest

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/vibevocab/internal/config"
	"github.com/heartmarshall/vibevocab/internal/domain"
	"github.com/heartmarshall/vibevocab/internal/service/lookup"
	"github.com/heartmarshall/vibevocab/internal/service/session"
	"github.com/heartmarshall/vibevocab/internal/transport/middleware"
)

func TestRouter_Probes(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	for _, path := range []string{"/live", "/ready", "/health"} {
		rec := env.do(t, http.MethodGet, path, nil, false)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouter_CreateSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	expires := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	env.session.CreateFunc = func(_ context.Context, language string) (*session.Session, error) {
		assert.Equal(t, "ja", language)
		return &session.Session{ID: testSessionID, Token: "tok", ExpiresAt: expires, Language: "ja"}, nil
	}

	rec := env.do(t, http.MethodPost, "/api/sessions", map[string]string{"language": "ja"}, false)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody[sessionResponse](t, rec)
	assert.Equal(t, testSessionID.String(), resp.SessionID)
	assert.Equal(t, "tok", resp.Token)
	assert.True(t, resp.ExpiresAt.Equal(expires))
}

func TestRouter_CreateSession_EmptyBody(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.session.CreateFunc = func(_ context.Context, language string) (*session.Session, error) {
		assert.Empty(t, language)
		return &session.Session{ID: uuid.New(), Token: "tok", Language: "en"}, nil
	}

	rec := env.do(t, http.MethodPost, "/api/sessions", nil, false)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_CreateSession_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.session.CreateFunc = func(_ context.Context, _ string) (*session.Session, error) {
		return nil, domain.NewValidationError("language", "unsupported")
	}

	rec := env.do(t, http.MethodPost, "/api/sessions", map[string]string{"language": "xx"}, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_NotebookWithoutSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.notebook.ListFunc = func(ctx context.Context, _ string) ([]domain.SavedEntry, error) {
		return nil, requireSession(ctx)
	}

	rec := env.do(t, http.MethodGet, "/api/notebook", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_InvalidToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.notebook.ListFunc = func(_ context.Context, _ string) ([]domain.SavedEntry, error) {
		t.Fatal("handler must not run with an invalid token")
		return nil, nil
	}

	rec := env.doWithToken(t, http.MethodGet, "/api/notebook", "forged")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
}

func TestRouter_RequestIDOnAPI(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec := env.do(t, http.MethodGet, "/api/languages", nil, false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	resp := decodeBody[languagesResponse](t, rec)
	assert.Equal(t, "en", resp.Default)
	assert.Len(t, resp.Languages, 1)
}

func TestRouter_LookupRateLimited(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.limiter = middleware.NewRateLimiter(time.Minute)
	t.Cleanup(env.limiter.Stop)
	env.limits = config.RateLimitConfig{LookupPerMinute: 2}
	env.lookup.LookupOrFallbackFunc = func(_ context.Context, in lookup.Input) (*domain.LookupResult, error) {
		return &domain.LookupResult{Entry: sampleEntry(in.Query), Input: in.Query, Language: in.Language}, nil
	}

	h := env.router(t)
	codes := make([]int, 0, 3)
	for range 3 {
		rec := serve(t, h, http.MethodPost, "/api/lookup", `{"query":"cat"}`)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Other groups keep their own budget.
	rec := serve(t, h, http.MethodGet, "/api/languages", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_NoLimiterConfigured(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.lookup.LookupOrFallbackFunc = func(_ context.Context, in lookup.Input) (*domain.LookupResult, error) {
		return &domain.LookupResult{Entry: sampleEntry(in.Query), Input: in.Query}, nil
	}

	h := env.router(t)
	for range 5 {
		rec := serve(t, h, http.MethodPost, "/api/lookup", `{"query":"cat"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
