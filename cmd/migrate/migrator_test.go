package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	return dir
}

func TestLoadMigrations_SortsAndPairs(t *testing.T) {
	dir := writeFiles(t,
		"000002_indexes.up.sql",
		"000001_init.down.sql",
		"000001_init.up.sql",
		"README.md",
	)

	migrations, err := loadMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Equal(t, "init", migrations[0].Name)
	assert.NotEmpty(t, migrations[0].DownPath)
	assert.Equal(t, int64(2), migrations[1].Version)
	assert.Empty(t, migrations[1].DownPath)
}

func TestLoadMigrations_Rejects(t *testing.T) {
	tests := map[string][]string{
		"missing up":        {"000001_init.down.sql"},
		"no direction":      {"000001_init.sql"},
		"bad version":       {"abc_init.up.sql"},
		"duplicate version": {"000001_a.up.sql", "000001_b.up.sql"},
	}
	for name, files := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := loadMigrations(writeFiles(t, files...))
			assert.Error(t, err)
		})
	}
}

func TestLoadRepositoryMigrations(t *testing.T) {
	migrations, err := loadMigrations(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	for _, m := range migrations {
		assert.NotEmpty(t, m.DownPath, "migration %d should be reversible", m.Version)
	}
}

func TestPending(t *testing.T) {
	all := []migration{{Version: 1}, {Version: 2}, {Version: 3}}
	got := pending(all, map[int64]bool{1: true, 3: true})
	assert.Equal(t, []migration{{Version: 2}}, got)
}

func TestDescribe(t *testing.T) {
	assert.NoError(t, describe(nil))

	plain := errors.New("boom")
	assert.Same(t, plain, describe(plain))

	pqErr := &pq.Error{Code: "42P07", Message: `relation "users" already exists`, Detail: "d"}
	err := describe(pqErr)
	assert.Contains(t, err.Error(), "SQLSTATE 42P07")
	assert.ErrorIs(t, err, pqErr)
}
