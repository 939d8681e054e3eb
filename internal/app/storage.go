package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/vibevocab/internal/adapter/postgres"
	pgnotebook "github.com/heartmarshall/vibevocab/internal/adapter/postgres/notebook"
	"github.com/heartmarshall/vibevocab/internal/adapter/sqlite"
	"github.com/heartmarshall/vibevocab/internal/config"
	"github.com/heartmarshall/vibevocab/internal/domain"
	"github.com/heartmarshall/vibevocab/migrations"
)

// notebookRepo is what both database drivers provide.
type notebookRepo interface {
	LoadNotebook(ctx context.Context, sessionID uuid.UUID) (domain.NotebookSnapshot, error)
	SaveEntry(ctx context.Context, sessionID uuid.UUID, entry domain.SavedEntry) error
	SaveEntries(ctx context.Context, sessionID uuid.UUID, entries []domain.SavedEntry) error
	DeleteEntry(ctx context.Context, sessionID uuid.UUID, word string) error
	SaveTag(ctx context.Context, sessionID uuid.UUID, tag string) error
	PurgeIdle(ctx context.Context, cutoff time.Time) (int64, error)
	Ping(ctx context.Context) error
}

// storage is an opened notebook database. repo is nil for the memory driver.
type storage struct {
	driver  string
	dialect string
	repo    notebookRepo
	db      *sql.DB
	close   func()
}

// openStorage connects the configured driver and applies pending migrations.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	switch cfg.Notebook.Storage {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		db := postgres.OpenDB(pool)

		n, err := migrations.Up(ctx, migrations.Postgres, db)
		if err != nil {
			db.Close()
			pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		logger.Info("storage ready", slog.String("driver", config.StoragePostgres), slog.Int("migrations_applied", n))

		return &storage{
			driver:  config.StoragePostgres,
			dialect: migrations.Postgres,
			repo:    pgnotebook.New(pool),
			db:      db,
			close: func() {
				db.Close()
				pool.Close()
			},
		}, nil

	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Info("storage ready", slog.String("driver", config.StorageSQLite), slog.String("path", cfg.SQLite.Path))

		return &storage{
			driver:  config.StorageSQLite,
			dialect: migrations.SQLite,
			repo:    sqlite.NewNotebookRepo(db),
			db:      db,
			close:   func() { db.Close() },
		}, nil

	default:
		logger.Info("storage ready", slog.String("driver", config.StorageMemory))
		return &storage{driver: config.StorageMemory, close: func() {}}, nil
	}
}

// MigrationStatus reports every known migration of the configured database.
func MigrationStatus(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]*goose.MigrationStatus, error) {
	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer st.close()

	if st.db == nil {
		return nil, fmt.Errorf("notebook.storage %q has no migrations", st.driver)
	}

	p, err := migrations.NewProvider(st.dialect, st.db)
	if err != nil {
		return nil, err
	}
	return p.Status(ctx)
}

// Migrate applies pending migrations and returns the resulting schema version.
func Migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) (int64, error) {
	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return 0, err
	}
	defer st.close()

	if st.db == nil {
		return 0, fmt.Errorf("notebook.storage %q has no migrations", st.driver)
	}

	p, err := migrations.NewProvider(st.dialect, st.db)
	if err != nil {
		return 0, err
	}
	v, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// Purge deletes stored notebooks whose last change is older than olderThan and returns how many entries went with them.
func Purge(ctx context.Context, cfg *config.Config, logger *slog.Logger, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("purge: older-than must be positive")
	}

	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return 0, err
	}
	defer st.close()

	if st.repo == nil {
		return 0, fmt.Errorf("notebook.storage %q keeps nothing to purge", st.driver)
	}

	cutoff := time.Now().Add(-olderThan)
	n, err := st.repo.PurgeIdle(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}

	logger.Info("idle notebooks purged", slog.Int64("rows", n), slog.Time("cutoff", cutoff))
	return n, nil
}
