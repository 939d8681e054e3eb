package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS(t *testing.T) {
	t.Parallel()

	for _, dialect := range []string{Postgres, SQLite} {
		fsys, err := FS(dialect)
		require.NoError(t, err)

		names, err := fs.Glob(fsys, "*.sql")
		require.NoError(t, err)
		require.NotEmpty(t, names, dialect)

		for _, name := range names {
			body, err := fs.ReadFile(fsys, name)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(body), "-- +goose Up"), "%s/%s", dialect, name)
			assert.Contains(t, string(body), "-- +goose Down", "%s/%s", dialect, name)
		}
	}
}

func TestFS_UnknownDialect(t *testing.T) {
	t.Parallel()

	_, err := FS("mysql")
	assert.Error(t, err)
}
