package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Migrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "blog.db")

	database, err := Open(path)
	require.NoError(t, err)
	defer database.Close()

	for _, table := range []string{"posts", "post_tags", "comments", "users", "sessions"} {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.db")

	first, err := Open(path)
	require.NoError(t, err)
	first.Close()

	// Reopening an existing database reapplies the schema without error.
	second, err := Open(path)
	require.NoError(t, err)
	second.Close()
}
