package testhelper

import (
	"context"
	"testing"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	var n int
	err := pool.QueryRow(context.Background(), `SELECT count(*) FROM notebook_entries WHERE false`).Scan(&n)
	if err != nil {
		t.Fatalf("expected migrated notebook_entries table, got error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 rows, got %d", n)
	}
}
