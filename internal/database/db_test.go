package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "mealmuse.db")

	db, err := NewDB(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	var name string
	err = db.SQL.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'generation_metrics'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "generation_metrics", name)

	// Reopening an up-to-date database applies nothing and succeeds.
	db2, err := NewDB(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	assert.NoError(t, db2.Close())
}
