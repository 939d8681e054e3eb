package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/heartmarshall/vibevocab/internal/domain"
)

const timeLayout = time.RFC3339Nano

// NotebookRepo provides notebook persistence backed by SQLite.
// Tags are stored as a JSON array; timestamps as RFC 3339 text in UTC.
type NotebookRepo struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

// NewNotebookRepo creates a notebook repository over an opened database.
func NewNotebookRepo(db *sql.DB) *NotebookRepo {
	return &NotebookRepo{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question).RunWith(db),
	}
}

// Ping checks the database connection.
func (r *NotebookRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// LoadNotebook returns the stored entries and custom tags of a session in insertion order.
func (r *NotebookRepo) LoadNotebook(ctx context.Context, sessionID uuid.UUID) (domain.NotebookSnapshot, error) {
	entries, err := r.loadEntries(ctx, sessionID)
	if err != nil {
		return domain.NotebookSnapshot{}, err
	}
	tags, err := r.loadTags(ctx, sessionID)
	if err != nil {
		return domain.NotebookSnapshot{}, err
	}
	return domain.NotebookSnapshot{Entries: entries, Tags: tags}, nil
}

// loadEntries and loadTags each close their rows before returning: the pool holds one connection.
func (r *NotebookRepo) loadEntries(ctx context.Context, sessionID uuid.UUID) ([]domain.SavedEntry, error) {
	rows, err := r.sb.
		Select("id", "word", "entry", "tags", "created_at").
		From("notebook_entries").
		Where(squirrel.Eq{"session_id": sessionID.String()}).
		OrderBy("position").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("load notebook %s: %w", sessionID, err)
	}
	defer rows.Close()

	var entries []domain.SavedEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load notebook %s: %w", sessionID, err)
	}
	return entries, nil
}

func (r *NotebookRepo) loadTags(ctx context.Context, sessionID uuid.UUID) ([]string, error) {
	rows, err := r.sb.
		Select("label").
		From("notebook_tags").
		Where(squirrel.Eq{"session_id": sessionID.String()}).
		OrderBy("position").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("load notebook tags %s: %w", sessionID, err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scan notebook tag: %w", err)
		}
		tags = append(tags, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load notebook tags %s: %w", sessionID, err)
	}
	return tags, nil
}

func scanEntry(rows *sql.Rows) (domain.SavedEntry, error) {
	var (
		e                        domain.SavedEntry
		id, payload, tags, added string
	)
	if err := rows.Scan(&id, &e.Word, &payload, &tags, &added); err != nil {
		return e, fmt.Errorf("scan notebook entry: %w", err)
	}

	var err error
	if e.ID, err = uuid.Parse(id); err != nil {
		return e, fmt.Errorf("entry %q: parse id: %w", e.Word, err)
	}
	if err := json.Unmarshal([]byte(payload), &e.Entry); err != nil {
		return e, fmt.Errorf("entry %q: decode payload: %w", e.Word, err)
	}
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return e, fmt.Errorf("entry %q: decode tags: %w", e.Word, err)
	}
	if e.CreatedAt, err = time.Parse(timeLayout, added); err != nil {
		return e, fmt.Errorf("entry %q: parse created_at: %w", e.Word, err)
	}
	return e, nil
}

// SaveEntry inserts or replaces an entry and records its tags in the session catalog,
// in one transaction.
func (r *NotebookRepo) SaveEntry(ctx context.Context, sessionID uuid.UUID, e domain.SavedEntry) error {
	return r.SaveEntries(ctx, sessionID, []domain.SavedEntry{e})
}

// SaveEntries stores a batch of entries in one transaction: either all of them are
// written or none is.
func (r *NotebookRepo) SaveEntries(ctx context.Context, sessionID uuid.UUID, entries []domain.SavedEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, e := range entries {
		if err := r.saveEntry(ctx, tx, sessionID, e); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *NotebookRepo) saveEntry(ctx context.Context, tx *sql.Tx, sessionID uuid.UUID, e domain.SavedEntry) error {
	payload, err := json.Marshal(e.Entry)
	if err != nil {
		return fmt.Errorf("encode entry %q: %w", e.Word, err)
	}
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tags %q: %w", e.Word, err)
	}

	_, err = r.sb.RunWith(tx).
		Insert("notebook_entries").
		Columns("session_id", "word_key", "id", "word", "entry", "tags", "created_at").
		Values(sessionID.String(), e.Key(), e.ID.String(), e.Word, string(payload), string(tagsJSON),
			e.CreatedAt.UTC().Format(timeLayout)).
		Suffix(`ON CONFLICT (session_id, word_key) DO UPDATE
SET word = excluded.word, entry = excluded.entry, tags = excluded.tags, updated_at = CURRENT_TIMESTAMP`).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("save entry %q: %w", e.Word, err)
	}

	return r.insertTags(ctx, tx, sessionID, tags...)
}

// DeleteEntry removes an entry by word, case-insensitively. Removing an absent word is not an error.
func (r *NotebookRepo) DeleteEntry(ctx context.Context, sessionID uuid.UUID, word string) error {
	_, err := r.sb.
		Delete("notebook_entries").
		Where(squirrel.Eq{"session_id": sessionID.String(), "word_key": domain.WordKey(word)}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete entry %q: %w", word, err)
	}
	return nil
}

// SaveTag adds a label to the session catalog. Known labels are ignored.
func (r *NotebookRepo) SaveTag(ctx context.Context, sessionID uuid.UUID, tag string) error {
	return r.insertTags(ctx, r.db, sessionID, tag)
}

func (r *NotebookRepo) insertTags(ctx context.Context, runner squirrel.BaseRunner, sessionID uuid.UUID, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}

	b := r.sb.RunWith(runner).Insert("notebook_tags").Columns("session_id", "label_key", "label")
	for _, t := range tags {
		b = b.Values(sessionID.String(), strings.ToLower(t), t)
	}
	if _, err := b.Suffix("ON CONFLICT (session_id, label_key) DO NOTHING").ExecContext(ctx); err != nil {
		return fmt.Errorf("save tags %s: %w", strings.Join(tags, ","), err)
	}
	return nil
}

// PurgeIdle deletes every notebook whose newest change is older than cutoff and
// returns how many entries were removed.
func (r *NotebookRepo) PurgeIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	stamp := cutoff.UTC().Format(time.DateTime)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, `
DELETE FROM notebook_entries
WHERE session_id IN (
    SELECT session_id FROM notebook_entries
    GROUP BY session_id
    HAVING max(updated_at) < ?
)`, stamp)
	if err != nil {
		return 0, fmt.Errorf("purge idle entries: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge idle entries: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
DELETE FROM notebook_tags
WHERE created_at < ?
  AND session_id NOT IN (SELECT session_id FROM notebook_entries)`, stamp); err != nil {
		return 0, fmt.Errorf("purge idle tags: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return removed, nil
}
