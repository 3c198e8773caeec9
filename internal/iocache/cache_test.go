package iocache

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/repovalue/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager.Lock()
	Manager.response = nil
	Manager.Unlock()
	t.Cleanup(func() {
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
	})
}

func newMemoryStore(t *testing.T, ttl time.Duration) *SQLStore {
	t.Helper()
	store, err := NewCacheStore("test_table", schema.SQLiteBackend, ":memory:", ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCaching(t *testing.T) {
	t.Run("single setup", func(t *testing.T) {
		resetGlobals(t)
		dbPath := filepath.Join(t.TempDir(), "cache.db")

		require.NoError(t, InitCaching(schema.SQLiteBackend, dbPath, time.Hour))
		assert.NotNil(t, Manager.GetResponseStore())
		CloseCaching()

		_, err := os.Stat(dbPath)
		assert.NoError(t, err, "Database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals(t)
		dbPath := filepath.Join(t.TempDir(), "cache.db")

		assert.NoError(t, InitCaching(schema.SQLiteBackend, dbPath, time.Hour))
		first := Manager.GetResponseStore()
		assert.NoError(t, InitCaching(schema.SQLiteBackend, dbPath, time.Hour))
		assert.Same(t, first, Manager.GetResponseStore())

		CloseCaching()
		CloseCaching()
	})

	t.Run("none backend", func(t *testing.T) {
		resetGlobals(t)
		require.NoError(t, InitCaching(schema.NoneBackend, "", time.Hour))

		store := Manager.GetResponseStore()
		require.NotNil(t, store)
		_, _, _, err := store.Get("k")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, store.Set("k", []byte("v"), 1, 1))
		_, _, _, err = store.Get("k")
		assert.ErrorIs(t, err, sql.ErrNoRows)

		pruned, err := store.Prune(time.Now().Unix())
		assert.NoError(t, err)
		assert.Zero(t, pruned)

		status, err := store.GetStatus()
		assert.NoError(t, err)
		assert.Equal(t, schema.CacheStatus{Backend: "none"}, status)
		CloseCaching()
	})

	t.Run("init error", func(t *testing.T) {
		resetGlobals(t)
		err := InitCaching(schema.MySQLBackend, "invalid://connection", time.Hour)
		assert.Error(t, err)
		assert.Nil(t, Manager.GetResponseStore())
	})
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"valid simple name", "response_cache", false},
		{"valid name with numbers", "cache_123", false},
		{"valid name starting with underscore", "_cache", false},
		{"valid mixed case", "ResponseCache_1", false},
		{"empty name", "", true},
		{"starts with number", "1_cache", true},
		{"contains dash", "response-cache", true},
		{"contains space", "response cache", true},
		{"sql injection attempt", "t'; DROP TABLE users; --", true},
		{"contains dot", "db.cache", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, `"response_cache"`},
		{schema.MySQLBackend, "`response_cache`"},
		{schema.PostgreSQLBackend, `"response_cache"`},
		{schema.NoneBackend, `"response_cache"`},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.want, quoteTableName("response_cache", tt.backend))
		})
	}
}

func TestSQLiteBackendOperations(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		store := newMemoryStore(t, 0)
		require.NoError(t, store.Set("key", []byte("value"), 1, 1234567890))

		value, version, ts, err := store.Get("key")
		require.NoError(t, err)
		assert.Equal(t, "value", string(value))
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1234567890), ts)
	})

	t.Run("upsert", func(t *testing.T) {
		store := newMemoryStore(t, 0)
		require.NoError(t, store.Set("key", []byte("initial"), 1, 1000))
		require.NoError(t, store.Set("key", []byte("updated"), 2, 2000))

		value, version, ts, err := store.Get("key")
		require.NoError(t, err)
		assert.Equal(t, "updated", string(value))
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(2000), ts)
	})

	t.Run("missing key", func(t *testing.T) {
		store := newMemoryStore(t, 0)
		_, _, _, err := store.Get("missing")
		assert.Equal(t, sql.ErrNoRows, err)
	})

	t.Run("prune", func(t *testing.T) {
		store := newMemoryStore(t, 0)
		for i, key := range []string{"a", "b", "c"} {
			require.NoError(t, store.Set(key, []byte(key), 1, int64(1000*(i+1))))
		}

		pruned, err := store.Prune(2500)
		require.NoError(t, err)
		assert.Equal(t, int64(2), pruned)

		_, _, _, err = store.Get("a")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		_, _, _, err = store.Get("c")
		assert.NoError(t, err)
	})
}

func TestGetStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newMemoryStore(t, time.Hour)
	store.now = func() time.Time { return now }

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Zero(t, status.TotalEntries)

	require.NoError(t, store.Set("fresh", []byte("x"), 1, now.Add(-time.Minute).Unix()))
	require.NoError(t, store.Set("stale", []byte("y"), 1, now.Add(-2*time.Hour).Unix()))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, 1, status.ExpiredEntries)
	assert.Equal(t, now.Add(-time.Minute).Unix(), status.LastEntryTime.Unix())
	assert.Equal(t, now.Add(-2*time.Hour).Unix(), status.OldestEntryTime.Unix())
	assert.Positive(t, status.TableSizeBytes)
}

func TestGetPlaceholder(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, "?"},
		{schema.MySQLBackend, "?"},
		{schema.PostgreSQLBackend, "$1"},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			store := &SQLStore{backend: tt.backend}
			assert.Equal(t, tt.want, store.getPlaceholder())
		})
	}
}

func TestGetUpsertQuery(t *testing.T) {
	tests := []struct {
		backend      schema.DatabaseBackend
		wantContains []string
	}{
		{schema.SQLiteBackend, []string{"INSERT OR REPLACE", `"response_cache"`}},
		{schema.MySQLBackend, []string{"INSERT INTO", "ON DUPLICATE KEY UPDATE", "`response_cache`"}},
		{schema.PostgreSQLBackend, []string{"ON CONFLICT (cache_key)", "DO UPDATE SET", "$1", "$4"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			store := &SQLStore{backend: tt.backend, tableName: "response_cache"}
			got := store.getUpsertQuery()
			for _, want := range tt.wantContains {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestGetCreateTableQuery(t *testing.T) {
	tests := []struct {
		backend      schema.DatabaseBackend
		wantContains []string
	}{
		{schema.SQLiteBackend, []string{"CREATE TABLE IF NOT EXISTS", "cache_key TEXT PRIMARY KEY", "cache_value BLOB", "cache_timestamp INTEGER"}},
		{schema.MySQLBackend, []string{"cache_key VARCHAR(255) PRIMARY KEY", "cache_value LONGBLOB", "cache_timestamp BIGINT"}},
		{schema.PostgreSQLBackend, []string{"cache_key TEXT PRIMARY KEY", "cache_value BYTEA", "cache_timestamp BIGINT"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			got := getCreateTableQuery("response_cache", tt.backend)
			for _, want := range tt.wantContains {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestNewCacheStoreErrors(t *testing.T) {
	_, err := NewCacheStore("invalid-name", schema.SQLiteBackend, ":memory:", 0)
	assert.Error(t, err)

	_, err = NewCacheStore("", schema.SQLiteBackend, ":memory:", 0)
	assert.Error(t, err)

	_, err = NewCacheStore("response_cache", "unsupported", "", 0)
	assert.Error(t, err)
}

func TestClearCache(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "clear.db")
		store, err := NewCacheStore(responseTable, schema.SQLiteBackend, dbPath, 0)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.SQLiteBackend, filepath.Join(t.TempDir(), "none.db"), ""))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	})

	t.Run("empty sqlite path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, ClearCache("unsupported", "", ""))
	})
}

func TestCacheStoreManagerConcurrency(t *testing.T) {
	resetGlobals(t)
	require.NoError(t, InitCaching(schema.SQLiteBackend, ":memory:", time.Hour))
	defer CloseCaching()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store := Manager.GetResponseStore()
			if assert.NotNil(t, store) {
				assert.NoError(t, store.Set("concurrent", []byte("v"), 1, int64(1000+i)))
			}
		}()
	}
	wg.Wait()
}
