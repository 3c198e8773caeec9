package iocache

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/huangsam/repovalue/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCacheNoneBackend(t *testing.T) {
	err := MigrateCache(&bytes.Buffer{}, schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "not supported for NoneBackend")
}

func TestMigrateCacheUnsupportedBackend(t *testing.T) {
	err := MigrateCache(&bytes.Buffer{}, "oracle", "", -1)
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestMigrateCacheSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")
	var out bytes.Buffer

	require.NoError(t, MigrateCache(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "from version 0 to version 2")

	out.Reset()
	require.NoError(t, MigrateCache(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "No migration needed")

	out.Reset()
	require.NoError(t, MigrateCache(&out, schema.SQLiteBackend, dbPath, 1))
	assert.Contains(t, out.String(), "from version 2 to version 1")

	out.Reset()
	require.NoError(t, MigrateCache(&out, schema.SQLiteBackend, dbPath, 0))
	assert.Contains(t, out.String(), "to version 0")

	// The store still works on a migrated database.
	require.NoError(t, MigrateCache(&out, schema.SQLiteBackend, dbPath, -1))
	store, err := NewCacheStore(responseTable, schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	assert.NoError(t, store.Set("k", []byte("v"), 1, 1))
}
