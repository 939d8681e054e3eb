// Package notebook persists session notebooks in PostgreSQL.
// Entries keep their insertion order through the position column; an upsert on
// (session_id, word_key) keeps the original position.
package notebook

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/vibevocab/internal/adapter/postgres"
	"github.com/heartmarshall/vibevocab/internal/domain"
)

const (
	entriesTable = "notebook_entries"
	tagsTable    = "notebook_tags"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides notebook persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	tx   *postgres.TxManager
}

// New creates a new notebook repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, tx: postgres.NewTxManager(pool)}
}

// Ping checks the database connection.
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// LoadNotebook returns the stored entries and custom tags of a session in insertion order.
// An unknown session yields an empty snapshot.
func (r *Repo) LoadNotebook(ctx context.Context, sessionID uuid.UUID) (domain.NotebookSnapshot, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.
		Select("id", "word", "entry", "tags", "created_at").
		From(entriesTable).
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return domain.NotebookSnapshot{}, fmt.Errorf("build load entries query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return domain.NotebookSnapshot{}, postgres.MapError(err, "notebook", sessionID)
	}
	defer rows.Close()

	var snap domain.NotebookSnapshot
	for rows.Next() {
		var (
			e       domain.SavedEntry
			payload []byte
		)
		if err := rows.Scan(&e.ID, &e.Word, &payload, &e.Tags, &e.CreatedAt); err != nil {
			return domain.NotebookSnapshot{}, fmt.Errorf("scan notebook entry: %w", err)
		}
		if err := json.Unmarshal(payload, &e.Entry); err != nil {
			return domain.NotebookSnapshot{}, fmt.Errorf("decode entry %q: %w", e.Word, err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		snap.Entries = append(snap.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return domain.NotebookSnapshot{}, postgres.MapError(err, "notebook", sessionID)
	}

	tags, err := r.loadTags(ctx, q, sessionID)
	if err != nil {
		return domain.NotebookSnapshot{}, err
	}
	snap.Tags = tags

	return snap, nil
}

func (r *Repo) loadTags(ctx context.Context, q postgres.Querier, sessionID uuid.UUID) ([]string, error) {
	query, args, err := psql.
		Select("label").
		From(tagsTable).
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load tags query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "notebook tags", sessionID)
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
		return nil, postgres.MapError(err, "notebook tags", sessionID)
	}
	return tags, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// SaveEntry inserts or replaces an entry and records its tags in the session catalog,
// in one transaction.
func (r *Repo) SaveEntry(ctx context.Context, sessionID uuid.UUID, e domain.SavedEntry) error {
	payload, err := json.Marshal(e.Entry)
	if err != nil {
		return fmt.Errorf("encode entry %q: %w", e.Word, err)
	}
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}

	query, args, err := psql.
		Insert(entriesTable).
		Columns("session_id", "word_key", "id", "word", "entry", "tags", "created_at").
		Values(sessionID, e.Key(), e.ID, e.Word, payload, tags, e.CreatedAt).
		Suffix(`ON CONFLICT (session_id, word_key) DO UPDATE
SET word = EXCLUDED.word, entry = EXCLUDED.entry, tags = EXCLUDED.tags, updated_at = now()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save entry query: %w", err)
	}

	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
			return postgres.MapError(err, "notebook_entry", e.Word)
		}
		return r.insertTags(ctx, sessionID, tags...)
	})
}

// SaveEntries stores a batch of entries in one transaction: either all of them are
// written or none is.
func (r *Repo) SaveEntries(ctx context.Context, sessionID uuid.UUID, entries []domain.SavedEntry) error {
	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, e := range entries {
			if err := r.SaveEntry(ctx, sessionID, e); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteEntry removes an entry by word, case-insensitively. Removing an absent word is not an error.
func (r *Repo) DeleteEntry(ctx context.Context, sessionID uuid.UUID, word string) error {
	query, args, err := psql.
		Delete(entriesTable).
		Where(squirrel.Eq{"session_id": sessionID, "word_key": domain.WordKey(word)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete entry query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "notebook_entry", word)
	}
	return nil
}

// SaveTag adds a label to the session catalog. Known labels are ignored.
func (r *Repo) SaveTag(ctx context.Context, sessionID uuid.UUID, tag string) error {
	return r.insertTags(ctx, sessionID, tag)
}

func (r *Repo) insertTags(ctx context.Context, sessionID uuid.UUID, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}

	b := psql.Insert(tagsTable).Columns("session_id", "label_key", "label")
	for _, t := range tags {
		b = b.Values(sessionID, strings.ToLower(t), t)
	}
	query, args, err := b.Suffix("ON CONFLICT (session_id, label_key) DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("build insert tags query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "notebook_tag", strings.Join(tags, ","))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Maintenance
// ---------------------------------------------------------------------------

// PurgeIdle deletes every notebook whose newest entry is older than cutoff and
// returns how many entries were removed.
func (r *Repo) PurgeIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.pool)

		tag, err := q.Exec(ctx, `
DELETE FROM notebook_entries
WHERE session_id IN (
    SELECT session_id FROM notebook_entries
    GROUP BY session_id
    HAVING max(updated_at) < $1
)`, cutoff)
		if err != nil {
			return fmt.Errorf("purge idle entries: %w", err)
		}
		removed = tag.RowsAffected()

		if _, err := q.Exec(ctx, `
DELETE FROM notebook_tags t
WHERE t.created_at < $1
  AND NOT EXISTS (SELECT 1 FROM notebook_entries e WHERE e.session_id = t.session_id)`, cutoff); err != nil {
			return fmt.Errorf("purge idle tags: %w", err)
		}
		return nil
	})
	return removed, err
}
