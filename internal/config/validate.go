package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/vibevocab/internal/domain"
)

// MaxImportConcurrency caps the importer fan-out. Unbounded fan-out is never allowed.
const MaxImportConcurrency = 50

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("session.secret must be at least 32 characters (got %d)", len(c.Session.Secret))
	}

	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be > 0 (got %d)", c.LLM.MaxTokens)
	}

	if err := c.Lookup.validate(); err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	if err := c.Import.validate(); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	if err := c.Notebook.validate(); err != nil {
		return fmt.Errorf("notebook: %w", err)
	}

	switch c.Notebook.Storage {
	case StoragePostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required when notebook.storage is %q", StoragePostgres)
		}
	case StorageSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required when notebook.storage is %q", StorageSQLite)
		}
	}

	if c.MCP.SessionID != "" {
		if _, err := uuid.Parse(c.MCP.SessionID); err != nil {
			return fmt.Errorf("mcp.session_id must be a UUID: %w", err)
		}
	}
	if !slices.Contains(c.Lookup.Languages, c.MCP.Language) {
		return fmt.Errorf("mcp.language %q is not one of lookup.languages", c.MCP.Language)
	}

	return nil
}

func (l *LookupConfig) validate() error {
	l.Languages = ParseList(l.LanguagesRaw)
	if len(l.Languages) == 0 {
		return fmt.Errorf("languages must not be empty")
	}
	if _, unknown := domain.NewLanguageSet(l.Languages); len(unknown) > 0 {
		return fmt.Errorf("unsupported languages: %s", strings.Join(unknown, ", "))
	}
	if !slices.Contains(l.Languages, l.DefaultLanguage) {
		return fmt.Errorf("default_language %q is not one of languages", l.DefaultLanguage)
	}
	if l.MaxQueryLength <= 0 {
		return fmt.Errorf("max_query_length must be > 0 (got %d)", l.MaxQueryLength)
	}
	return nil
}

func (i *ImportConfig) validate() error {
	if i.Concurrency < 1 || i.Concurrency > MaxImportConcurrency {
		return fmt.Errorf("concurrency must be in [1, %d] (got %d)", MaxImportConcurrency, i.Concurrency)
	}
	if i.MaxWords <= 0 {
		return fmt.Errorf("max_words must be > 0 (got %d)", i.MaxWords)
	}
	if strings.TrimSpace(i.DefaultTag) == "" {
		return fmt.Errorf("default_tag must not be empty")
	}
	if i.MaxImageMB <= 0 {
		return fmt.Errorf("max_image_mb must be > 0 (got %d)", i.MaxImageMB)
	}
	return nil
}

func (n *NotebookConfig) validate() error {
	switch n.Storage {
	case StorageMemory, StoragePostgres, StorageSQLite:
	default:
		return fmt.Errorf("storage must be one of memory, postgres, sqlite (got %q)", n.Storage)
	}
	n.DefaultTags = ParseList(n.DefaultTagsRaw)
	if n.MaxEntries <= 0 {
		return fmt.Errorf("max_entries must be > 0 (got %d)", n.MaxEntries)
	}
	return nil
}

// ParseList splits a comma-separated string, trimming items and dropping empty ones.
// An empty string returns a nil slice.
func ParseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		items = append(items, p)
	}
	return items
}
