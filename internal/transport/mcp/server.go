// Package mcp exposes the notebook and lookups as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/heartmarshall/vibevocab/internal/domain"
	"github.com/heartmarshall/vibevocab/internal/service/importer"
	"github.com/heartmarshall/vibevocab/internal/service/lookup"
	"github.com/heartmarshall/vibevocab/internal/service/notebook"
	"github.com/heartmarshall/vibevocab/pkg/ctxutil"
)

// TagsURI is the resource listing the tag catalog with counts.
const TagsURI = "notebook://tags"

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type lookupService interface {
	Lookup(ctx context.Context, input lookup.Input) (*domain.LookupResult, error)
	LookupOrFallback(ctx context.Context, input lookup.Input) (*domain.LookupResult, error)
}

type notebookService interface {
	Save(ctx context.Context, input notebook.SaveInput) (*domain.SavedEntry, error)
	List(ctx context.Context, tag string) ([]domain.SavedEntry, error)
	Tags(ctx context.Context) (*notebook.TagsResult, error)
}

type importService interface {
	Import(ctx context.Context, input importer.Input) (*importer.Result, error)
}

// Deps holds dependencies for the MCP server.
type Deps struct {
	Logger   *slog.Logger
	Lookup   lookupService
	Notebook notebookService
	Importer importService
	// SessionID is the notebook every tool call operates on.
	SessionID uuid.UUID
	// Language is the explanation language used when a call does not name one.
	Language string
	Version  string
}

type handlers struct {
	deps Deps
	log  *slog.Logger
}

// NewServer creates an MCP server with the vocabulary tools and resources registered.
func NewServer(deps Deps) *server.MCPServer {
	h := &handlers{deps: deps, log: deps.Logger.With("transport", "mcp")}

	s := server.NewMCPServer(
		"vibevocab",
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("vibevocab: look up words with rich explanations and keep them in a tagged notebook."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcplib.NewTool("lookup_word",
			mcplib.WithDescription("Explain a word or phrase: meanings, usage patterns, vibe, etymology, examples. Misspellings are corrected."),
			mcplib.WithString("word", mcplib.Description("Word or short phrase to explain"), mcplib.Required()),
			mcplib.WithString("language", mcplib.Description("Explanation language code, e.g. en, ja, zh-TW")),
		),
		h.lookupWord,
	)

	s.AddTool(
		mcplib.NewTool("save_word",
			mcplib.WithDescription("Look up a word and save it to the notebook. Saving a word that is already saved adds the tags."),
			mcplib.WithString("word", mcplib.Description("Word to save"), mcplib.Required()),
			mcplib.WithString("language", mcplib.Description("Explanation language code")),
			mcplib.WithArray("tags", mcplib.Description("Tags to apply"), mcplib.WithStringItems()),
		),
		h.saveWord,
	)

	s.AddTool(
		mcplib.NewTool("list_words",
			mcplib.WithDescription("List saved words, optionally only those carrying a tag."),
			mcplib.WithString("tag", mcplib.Description("Tag filter; omit or use All for every word")),
		),
		h.listWords,
	)

	s.AddTool(
		mcplib.NewTool("import_words",
			mcplib.WithDescription("Resolve a batch of words concurrently and save the ones that resolved. Words already saved are skipped."),
			mcplib.WithArray("words", mcplib.Description("Words to import"), mcplib.Required(), mcplib.WithStringItems()),
			mcplib.WithString("language", mcplib.Description("Explanation language code")),
			mcplib.WithArray("tags", mcplib.Description("Tags for the imported words; defaults to Imported"), mcplib.WithStringItems()),
		),
		h.importWords,
	)

	s.AddResource(
		mcplib.NewResource(
			TagsURI,
			"Notebook Tags",
			mcplib.WithResourceDescription("Tag catalog with the number of saved words per tag"),
			mcplib.WithMIMEType("application/json"),
		),
		h.tagsResource,
	)

	return s
}

// Serve runs the server over the given streams until ctx is cancelled or in is closed.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s)
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	return nil
}

func (h *handlers) session(ctx context.Context) context.Context {
	return ctxutil.WithSessionID(ctx, h.deps.SessionID)
}

func (h *handlers) language(req mcplib.CallToolRequest) string {
	return req.GetString("language", h.deps.Language)
}

func (h *handlers) lookupWord(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	word, err := req.RequireString("word")
	if err != nil {
		return toolError("word is required"), nil
	}

	res, err := h.deps.Lookup.LookupOrFallback(ctx, lookup.Input{Query: word, Language: h.language(req)})
	if err != nil {
		return h.fail(ctx, "lookup_word", err), nil
	}
	return toolJSON(res)
}

func (h *handlers) saveWord(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	word, err := req.RequireString("word")
	if err != nil {
		return toolError("word is required"), nil
	}

	// Offline placeholder cards cannot be saved, so saving needs a strict lookup.
	res, err := h.deps.Lookup.Lookup(ctx, lookup.Input{Query: word, Language: h.language(req)})
	if err != nil {
		return h.fail(ctx, "save_word", err), nil
	}

	saved, err := h.deps.Notebook.Save(h.session(ctx), notebook.SaveInput{
		Word:  res.Entry.Word(),
		Entry: res.Entry,
		Tags:  req.GetStringSlice("tags", nil),
	})
	if err != nil {
		return h.fail(ctx, "save_word", err), nil
	}

	msg := fmt.Sprintf("Saved %q", saved.Word)
	if notice := res.CorrectionNotice(); notice != "" {
		msg += " (" + notice + ")"
	}
	if len(saved.Tags) > 0 {
		b, _ := json.Marshal(saved.Tags)
		msg += " with tags " + string(b)
	}
	return toolText(msg), nil
}

type wordSummary struct {
	Word    string   `json:"word"`
	Meaning string   `json:"meaning,omitempty"`
	Tags    []string `json:"tags"`
}

func (h *handlers) listWords(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	tag := req.GetString("tag", domain.TagAll)

	entries, err := h.deps.Notebook.List(h.session(ctx), tag)
	if err != nil {
		return h.fail(ctx, "list_words", err), nil
	}

	out := make([]wordSummary, 0, len(entries))
	for _, e := range entries {
		s := wordSummary{Word: e.Word, Tags: e.Tags}
		if len(e.Entry.Meanings) > 0 {
			s.Meaning = e.Entry.Meanings[0].Meaning
		}
		out = append(out, s)
	}
	return toolJSON(out)
}

type importSummary struct {
	Saved     []string `json:"saved"`
	Requested int      `json:"requested"`
	Existing  int      `json:"existing"`
	Failed    int      `json:"failed"`
}

func (h *handlers) importWords(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	words := req.GetStringSlice("words", nil)
	if len(words) == 0 {
		return toolError("words is required"), nil
	}

	res, err := h.deps.Importer.Import(h.session(ctx), importer.Input{
		Words:    words,
		Language: h.language(req),
		Tags:     req.GetStringSlice("tags", nil),
		Commit:   true,
	})
	if err != nil {
		return h.fail(ctx, "import_words", err), nil
	}

	sum := importSummary{
		Saved:     make([]string, 0, len(res.Entries)),
		Requested: res.Requested,
		Existing:  res.Existing,
		Failed:    res.Failed,
	}
	for _, e := range res.Entries {
		sum.Saved = append(sum.Saved, e.Word)
	}
	return toolJSON(sum)
}

func (h *handlers) tagsResource(ctx context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	res, err := h.deps.Notebook.Tags(h.session(ctx))
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}

	b, err := json.Marshal(res.Counts)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}

	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}

// fail turns a service error into a tool error. Messages stay user-facing; details go to the log.
func (h *handlers) fail(ctx context.Context, tool string, err error) *mcplib.CallToolResult {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return toolError(verr.Error())
	case errors.Is(err, domain.ErrConfigMissing):
		return toolError("the AI collaborator is not configured; set LLM_API_KEY")
	case errors.Is(err, domain.ErrUpstreamFailure):
		h.log.WarnContext(ctx, "tool upstream failure", slog.String("tool", tool), slog.String("error", err.Error()))
		return toolError("the AI collaborator failed; try again")
	default:
		h.log.ErrorContext(ctx, "tool failed", slog.String("tool", tool), slog.String("error", err.Error()))
		return toolError(tool + " failed")
	}
}

func toolJSON(v any) (*mcplib.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return toolError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return toolText(string(b)), nil
}

func toolText(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: text},
		},
	}
}

func toolError(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
