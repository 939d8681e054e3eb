package rest

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/vibevocab/internal/domain"
	"github.com/heartmarshall/vibevocab/internal/service/lookup"
)

func TestLookup_DefaultLanguageAndNotice(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.lookup.LookupOrFallbackFunc = func(_ context.Context, in lookup.Input) (*domain.LookupResult, error) {
		assert.Equal(t, "recieve", in.Query)
		assert.Equal(t, "en", in.Language)
		e := sampleEntry("receive")
		e.CorrectedSpelling = "receive"
		return &domain.LookupResult{Entry: e, Input: in.Query, Corrected: true, Language: "en"}, nil
	}

	rec := env.do(t, http.MethodPost, "/api/lookup", lookupRequest{Query: "recieve"}, false)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "corrected from recieve to receive", resp["notice"])
	assert.Equal(t, true, resp["corrected"])
	assert.Equal(t, "recieve", resp["input"])
}

func TestLookup_FallbackCard(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.lookup.LookupOrFallbackFunc = func(_ context.Context, in lookup.Input) (*domain.LookupResult, error) {
		return &domain.LookupResult{Entry: sampleEntry(in.Query), Input: in.Query, Fallback: true, Language: in.Language}, nil
	}

	rec := env.do(t, http.MethodPost, "/api/lookup", lookupRequest{Query: "cat", Language: "ja"}, false)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[map[string]any](t, rec)
	assert.Equal(t, true, resp["fallback"])
	assert.NotContains(t, resp, "notice")
}

func TestLookup_ValidationError(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.lookup.LookupOrFallbackFunc = func(_ context.Context, _ lookup.Input) (*domain.LookupResult, error) {
		return nil, domain.NewValidationError("query", "required")
	}

	rec := env.do(t, http.MethodPost, "/api/lookup", lookupRequest{Query: "   "}, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLookup_MalformedBody(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	rec := env.do(t, http.MethodPost, "/api/lookup", `{"query":`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
