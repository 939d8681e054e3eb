package rest

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/vibevocab/internal/domain"
	"github.com/heartmarshall/vibevocab/internal/service/importer"
	"github.com/heartmarshall/vibevocab/internal/service/notebook"
)

func TestImport_PassesInput(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.importer.ImportFunc = func(_ context.Context, in importer.Input) (*importer.Result, error) {
		assert.Equal(t, []string{"cat", "dog"}, in.Words)
		assert.Equal(t, "ja", in.Language)
		assert.Equal(t, []string{"Zoo"}, in.Tags)
		assert.True(t, in.Commit)
		return &importer.Result{
			Entries:   []domain.SavedEntry{{Word: "cat", Entry: sampleEntry("cat"), Tags: []string{"Zoo"}}},
			Requested: 2,
			Failed:    1,
			Committed: true,
		}, nil
	}

	rec := env.do(t, http.MethodPost, "/api/import",
		importRequest{Words: []string{"cat", "dog"}, Language: "ja", Tags: []string{"Zoo"}, Commit: true}, true)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[importResponse](t, rec)
	assert.Equal(t, 2, resp.Requested)
	assert.Equal(t, 1, resp.Failed)
	assert.True(t, resp.Committed)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "cat", resp.Entries[0].Word)
}

func TestImport_EmptyResultEncodesArray(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.importer.ImportFunc = func(_ context.Context, in importer.Input) (*importer.Result, error) {
		return &importer.Result{Requested: len(in.Words), Failed: len(in.Words)}, nil
	}

	rec := env.do(t, http.MethodPost, "/api/import", importRequest{Words: []string{"zzz"}, Language: "en"}, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"entries":[],"requested":1,"existing":0,"failed":1,"committed":false}`, rec.Body.String())
}

func TestImport_ValidationError(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.importer.ImportFunc = func(_ context.Context, _ importer.Input) (*importer.Result, error) {
		return nil, domain.NewValidationError("words", "required")
	}

	rec := env.do(t, http.MethodPost, "/api/import", importRequest{Language: "en"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImport_Confirm(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.notebook.CommitFunc = func(_ context.Context, candidates []domain.SavedEntry) (*notebook.CommitResult, error) {
		require.Len(t, candidates, 2)
		return &notebook.CommitResult{Saved: candidates[:1], Skipped: []string{candidates[1].Word}}, nil
	}

	rec := env.do(t, http.MethodPost, "/api/import/confirm", confirmRequest{Entries: []domain.SavedEntry{
		{Word: "cat", Entry: sampleEntry("cat")},
		{Word: "dog", Entry: sampleEntry("dog")},
	}}, true)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[confirmResponse](t, rec)
	require.Len(t, resp.Saved, 1)
	assert.Equal(t, []string{"dog"}, resp.Skipped)
}

func TestImport_ConfirmRequiresEntries(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.notebook.CommitFunc = func(_ context.Context, _ []domain.SavedEntry) (*notebook.CommitResult, error) {
		t.Fatal("commit must not run without entries")
		return nil, nil
	}

	rec := env.do(t, http.MethodPost, "/api/import/confirm", confirmRequest{}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartImage(t *testing.T, field, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="page.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestImport_Scan(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.scanner.ExtractWordsFunc = func(_ context.Context, image []byte, mimeType string) ([]string, error) {
		assert.Equal(t, []byte("fake-png"), image)
		assert.Equal(t, "image/png", mimeType)
		return []string{"apple", "banana"}, nil
	}

	body, ct := multipartImage(t, "image", "image/png", []byte("fake-png"))
	req := httptest.NewRequest(http.MethodPost, "/api/import/scan", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()

	env.router(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"apple", "banana"}, decodeBody[scanResponse](t, rec).Words)
}

func TestImport_ScanMissingImage(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.scanner.ExtractWordsFunc = func(_ context.Context, _ []byte, _ string) ([]string, error) {
		t.Fatal("scanner must not run without an image")
		return nil, nil
	}

	body, ct := multipartImage(t, "photo", "image/png", []byte("fake-png"))
	req := httptest.NewRequest(http.MethodPost, "/api/import/scan", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()

	env.router(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[errorResponse](t, rec)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "image", resp.Fields[0].Field)
}

func TestImport_ScanTooLarge(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.scanner.maxBytes = 1024
	env.scanner.ExtractWordsFunc = func(_ context.Context, _ []byte, _ string) ([]string, error) {
		t.Fatal("scanner must not run for an oversized upload")
		return nil, nil
	}

	body, ct := multipartImage(t, "image", "image/png", bytes.Repeat([]byte("x"), 1024+multipartOverhead+1))
	req := httptest.NewRequest(http.MethodPost, "/api/import/scan", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()

	env.router(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
