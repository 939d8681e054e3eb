package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/vibevocab/internal/domain"
	"github.com/heartmarshall/vibevocab/internal/service/importer"
	"github.com/heartmarshall/vibevocab/internal/service/notebook"
)

// multipartOverhead is the allowance for form boundaries and headers around an uploaded image.
const multipartOverhead = 64 << 10

// importService defines the minimal interface needed by ImportHandler.
type importService interface {
	Import(ctx context.Context, input importer.Input) (*importer.Result, error)
}

// importCommitter stores candidates resolved by an earlier uncommitted import.
type importCommitter interface {
	Commit(ctx context.Context, candidates []domain.SavedEntry) (*notebook.CommitResult, error)
}

// imageScanner extracts candidate words from a photo.
type imageScanner interface {
	ExtractWords(ctx context.Context, image []byte, mimeType string) ([]string, error)
	MaxBytes() int64
}

// ImportHandler serves batch imports and image scans.
type ImportHandler struct {
	svc       importService
	committer importCommitter
	scanner   imageScanner
	log       *slog.Logger
}

// NewImportHandler creates an ImportHandler.
func NewImportHandler(svc importService, committer importCommitter, scanner imageScanner, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{svc: svc, committer: committer, scanner: scanner, log: logger.With("handler", "import")}
}

type importRequest struct {
	Words    []string `json:"words"`
	Language string   `json:"language"`
	Tags     []string `json:"tags"`
	Commit   bool     `json:"commit"`
}

type importResponse struct {
	Entries   []domain.SavedEntry `json:"entries"`
	Requested int                 `json:"requested"`
	Existing  int                 `json:"existing"`
	Failed    int                 `json:"failed"`
	Committed bool                `json:"committed"`
}

type confirmRequest struct {
	Entries []domain.SavedEntry `json:"entries"`
}

type confirmResponse struct {
	Saved   []domain.SavedEntry `json:"saved"`
	Skipped []string            `json:"skipped"`
}

type scanResponse struct {
	Words []string `json:"words"`
}

// Import handles POST /api/import.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	res, err := h.svc.Import(r.Context(), importer.Input{
		Words:    req.Words,
		Language: req.Language,
		Tags:     req.Tags,
		Commit:   req.Commit,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	entries := res.Entries
	if entries == nil {
		entries = []domain.SavedEntry{}
	}
	writeJSON(w, http.StatusOK, importResponse{
		Entries:   entries,
		Requested: res.Requested,
		Existing:  res.Existing,
		Failed:    res.Failed,
		Committed: res.Committed,
	})
}

// Confirm handles POST /api/import/confirm.
func (h *ImportHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if len(req.Entries) == 0 {
		handleError(w, r, h.log, domain.NewValidationError("entries", "required"))
		return
	}

	res, err := h.committer.Commit(r.Context(), req.Entries)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	saved, skipped := res.Saved, res.Skipped
	if saved == nil {
		saved = []domain.SavedEntry{}
	}
	if skipped == nil {
		skipped = []string{}
	}
	writeJSON(w, http.StatusOK, confirmResponse{Saved: saved, Skipped: skipped})
}

// Scan handles POST /api/import/scan with a multipart "image" field.
func (h *ImportHandler) Scan(w http.ResponseWriter, r *http.Request) {
	limit := h.scanner.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handleError(w, r, h.log, domain.NewValidationError("image", fmt.Sprintf("too large (max %d bytes)", limit)))
			return
		}
		handleError(w, r, h.log, domain.NewValidationError("body", "invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("image")
	if err != nil {
		handleError(w, r, h.log, domain.NewValidationError("image", "required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		handleError(w, r, h.log, fmt.Errorf("read image: %w", err))
		return
	}

	words, err := h.scanner.ExtractWords(r.Context(), data, header.Header.Get("Content-Type"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if words == nil {
		words = []string{}
	}
	writeJSON(w, http.StatusOK, scanResponse{Words: words})
}
