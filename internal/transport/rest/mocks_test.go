package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/vibevocab/internal/config"
	"github.com/heartmarshall/vibevocab/internal/domain"
	"github.com/heartmarshall/vibevocab/internal/service/importer"
	"github.com/heartmarshall/vibevocab/internal/service/lookup"
	"github.com/heartmarshall/vibevocab/internal/service/notebook"
	"github.com/heartmarshall/vibevocab/internal/service/session"
	"github.com/heartmarshall/vibevocab/internal/service/study"
	"github.com/heartmarshall/vibevocab/internal/transport/middleware"
	"github.com/heartmarshall/vibevocab/pkg/ctxutil"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type sessionServiceMock struct {
	CreateFunc func(ctx context.Context, language string) (*session.Session, error)
}

func (m *sessionServiceMock) Create(ctx context.Context, language string) (*session.Session, error) {
	return m.CreateFunc(ctx, language)
}

type lookupServiceMock struct {
	LookupFunc           func(ctx context.Context, input lookup.Input) (*domain.LookupResult, error)
	LookupOrFallbackFunc func(ctx context.Context, input lookup.Input) (*domain.LookupResult, error)
	LanguagesFunc        func() []domain.Language
	DefaultLanguageFunc  func() string
}

func (m *lookupServiceMock) Lookup(ctx context.Context, input lookup.Input) (*domain.LookupResult, error) {
	return m.LookupFunc(ctx, input)
}

func (m *lookupServiceMock) LookupOrFallback(ctx context.Context, input lookup.Input) (*domain.LookupResult, error) {
	return m.LookupOrFallbackFunc(ctx, input)
}

func (m *lookupServiceMock) Languages() []domain.Language {
	if m.LanguagesFunc == nil {
		return []domain.Language{{Code: "en", Name: "English"}}
	}
	return m.LanguagesFunc()
}

func (m *lookupServiceMock) DefaultLanguage() string {
	if m.DefaultLanguageFunc == nil {
		return "en"
	}
	return m.DefaultLanguageFunc()
}

type notebookServiceMock struct {
	SaveFunc    func(ctx context.Context, input notebook.SaveInput) (*domain.SavedEntry, error)
	RefreshFunc func(ctx context.Context, word string, entry domain.LexicalEntry) (*domain.SavedEntry, error)
	SetTagsFunc func(ctx context.Context, word string, tags []string) (*domain.SavedEntry, error)
	RemoveFunc  func(ctx context.Context, word string) error
	GetFunc     func(ctx context.Context, word string) (*domain.SavedEntry, error)
	ListFunc    func(ctx context.Context, tag string) ([]domain.SavedEntry, error)
	TagsFunc    func(ctx context.Context) (*notebook.TagsResult, error)
	AddTagFunc  func(ctx context.Context, label string) (string, error)
	CommitFunc  func(ctx context.Context, candidates []domain.SavedEntry) (*notebook.CommitResult, error)
}

func (m *notebookServiceMock) Save(ctx context.Context, input notebook.SaveInput) (*domain.SavedEntry, error) {
	return m.SaveFunc(ctx, input)
}

func (m *notebookServiceMock) Refresh(ctx context.Context, word string, entry domain.LexicalEntry) (*domain.SavedEntry, error) {
	return m.RefreshFunc(ctx, word, entry)
}

func (m *notebookServiceMock) SetTags(ctx context.Context, word string, tags []string) (*domain.SavedEntry, error) {
	return m.SetTagsFunc(ctx, word, tags)
}

func (m *notebookServiceMock) Remove(ctx context.Context, word string) error {
	return m.RemoveFunc(ctx, word)
}

func (m *notebookServiceMock) Get(ctx context.Context, word string) (*domain.SavedEntry, error) {
	return m.GetFunc(ctx, word)
}

func (m *notebookServiceMock) List(ctx context.Context, tag string) ([]domain.SavedEntry, error) {
	return m.ListFunc(ctx, tag)
}

func (m *notebookServiceMock) Tags(ctx context.Context) (*notebook.TagsResult, error) {
	return m.TagsFunc(ctx)
}

func (m *notebookServiceMock) AddTag(ctx context.Context, label string) (string, error) {
	return m.AddTagFunc(ctx, label)
}

func (m *notebookServiceMock) Commit(ctx context.Context, candidates []domain.SavedEntry) (*notebook.CommitResult, error) {
	return m.CommitFunc(ctx, candidates)
}

type importServiceMock struct {
	ImportFunc func(ctx context.Context, input importer.Input) (*importer.Result, error)
}

func (m *importServiceMock) Import(ctx context.Context, input importer.Input) (*importer.Result, error) {
	return m.ImportFunc(ctx, input)
}

type imageScannerMock struct {
	ExtractWordsFunc func(ctx context.Context, image []byte, mimeType string) ([]string, error)
	maxBytes         int64
}

func (m *imageScannerMock) ExtractWords(ctx context.Context, image []byte, mimeType string) ([]string, error) {
	return m.ExtractWordsFunc(ctx, image, mimeType)
}

func (m *imageScannerMock) MaxBytes() int64 {
	if m.maxBytes == 0 {
		return 1 << 20
	}
	return m.maxBytes
}

type studyServiceMock struct {
	FlashcardsFunc func(ctx context.Context, input study.FlashcardsInput) (*study.Deck, error)
	StoryFunc      func(ctx context.Context, input study.StoryInput) (*study.Story, error)
}

func (m *studyServiceMock) Flashcards(ctx context.Context, input study.FlashcardsInput) (*study.Deck, error) {
	return m.FlashcardsFunc(ctx, input)
}

func (m *studyServiceMock) Story(ctx context.Context, input study.StoryInput) (*study.Story, error) {
	return m.StoryFunc(ctx, input)
}

type tokenValidatorMock struct {
	ValidateTokenFunc func(ctx context.Context, token string) (uuid.UUID, error)
}

func (m *tokenValidatorMock) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	return m.ValidateTokenFunc(ctx, token)
}

// ===========================================================================
// Helpers
// ===========================================================================

var (
	testSessionID = uuid.MustParse("7f6d1c5e-2b1a-4c3d-9e8f-0a1b2c3d4e5f")
	testToken     = "valid-token"
)

type testEnv struct {
	session  *sessionServiceMock
	lookup   *lookupServiceMock
	notebook *notebookServiceMock
	importer *importServiceMock
	scanner  *imageScannerMock
	study    *studyServiceMock
	limiter  *middleware.RateLimiter
	limits   config.RateLimitConfig
}

func newTestEnv() *testEnv {
	return &testEnv{
		session:  &sessionServiceMock{},
		lookup:   &lookupServiceMock{},
		notebook: &notebookServiceMock{},
		importer: &importServiceMock{},
		scanner:  &imageScannerMock{},
		study:    &studyServiceMock{},
	}
}

func (e *testEnv) router(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens := &tokenValidatorMock{ValidateTokenFunc: func(_ context.Context, token string) (uuid.UUID, error) {
		if token != testToken {
			return uuid.Nil, domain.ErrUnauthorized
		}
		return testSessionID, nil
	}}

	return NewRouter(Deps{
		Logger:      logger,
		CORS:        config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST", AllowedHeaders: "Authorization"},
		RateLimit:   e.limits,
		RateLimiter: e.limiter,
		Tokens:      tokens,
		Health:      NewHealthHandler(nil, config.StorageMemory, true, "test"),
		Session:     NewSessionHandler(e.session, logger),
		Lookup:      NewLookupHandler(e.lookup, logger),
		Notebook:    NewNotebookHandler(e.notebook, e.lookup, logger),
		Import:      NewImportHandler(e.importer, e.notebook, e.scanner, logger),
		Study:       NewStudyHandler(e.study, logger),
	})
}

// do sends a request through the router. A non-nil body is JSON-encoded.
func (e *testEnv) do(t *testing.T, method, path string, body any, withSession bool) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			rd = bytes.NewBufferString(s)
		} else {
			b, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			rd = bytes.NewReader(b)
		}
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withSession {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}

	rec := httptest.NewRecorder()
	e.router(t).ServeHTTP(rec, req)
	return rec
}

// doWithToken sends a bodiless request carrying an arbitrary bearer token.
func (e *testEnv) doWithToken(t *testing.T, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.router(t).ServeHTTP(rec, req)
	return rec
}

// serve sends a raw-body request to an already built handler, with the test session.
func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// requireSession mimics the notebook service: no session on the context means unauthorized.
func requireSession(ctx context.Context) error {
	if _, ok := ctxutil.SessionIDFromCtx(ctx); !ok {
		return domain.ErrUnauthorized
	}
	return nil
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func sampleEntry(word string) domain.LexicalEntry {
	return domain.LexicalEntry{
		Query:    word,
		Meanings: []domain.Meaning{{PartOfSpeech: "noun", Meaning: "meaning of " + word}},
	}
}
