package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/vibevocab/internal/adapter/postgres"
	"github.com/heartmarshall/vibevocab/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/vibevocab/internal/domain"
)

func addTag(ctx context.Context, pool *pgxpool.Pool, sessionID uuid.UUID, label string) error {
	_, err := postgres.QuerierFromCtx(ctx, pool).Exec(ctx,
		`INSERT INTO notebook_tags (session_id, label_key, label) VALUES ($1, lower($2), $2)`,
		sessionID, label)
	return err
}

func tagCount(t *testing.T, pool *pgxpool.Pool, sessionID uuid.UUID) int {
	t.Helper()
	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT count(*) FROM notebook_tags WHERE session_id = $1`, sessionID).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestRunInTx(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)
	errBusiness := errors.New("notebook full")

	tests := []struct {
		name     string
		fn       func(ctx context.Context, id uuid.UUID) error
		wantErr  error
		wantRows int
	}{
		{
			name: "commits both writes",
			fn: func(ctx context.Context, id uuid.UUID) error {
				if err := addTag(ctx, pool, id, "Daily"); err != nil {
					return err
				}
				return addTag(ctx, pool, id, "Work")
			},
			wantRows: 2,
		},
		{
			name: "error rolls back earlier writes",
			fn: func(ctx context.Context, id uuid.UUID) error {
				require.NoError(t, addTag(ctx, pool, id, "Daily"))
				return errBusiness
			},
			wantErr: errBusiness,
		},
		{
			name: "nested call joins the outer transaction",
			fn: func(ctx context.Context, id uuid.UUID) error {
				if err := tm.RunInTx(ctx, func(ctx context.Context) error {
					return addTag(ctx, pool, id, "Travel")
				}); err != nil {
					return err
				}
				return errBusiness
			},
			wantErr: errBusiness,
		},
		{
			name: "constraint violation aborts the unit",
			fn: func(ctx context.Context, id uuid.UUID) error {
				require.NoError(t, addTag(ctx, pool, id, "Daily"))
				return postgres.MapError(addTag(ctx, pool, id, "Daily"), "notebook_tag", "Daily")
			},
			wantErr: domain.ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.New()

			err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
				return tt.fn(ctx, id)
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantRows, tagCount(t, pool, id))
		})
	}
}

func TestRunInTx_PanicRollsBack(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)
	id := uuid.New()

	assert.PanicsWithValue(t, "registry corrupted", func() {
		_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
			require.NoError(t, addTag(ctx, pool, id, "Daily"))
			panic("registry corrupted")
		})
	})
	assert.Zero(t, tagCount(t, pool, id))
}
