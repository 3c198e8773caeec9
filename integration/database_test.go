//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/repovalue/internal/iocache"
	"github.com/huangsam/repovalue/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startMySQL starts a MySQL container and returns its connection string.
func startMySQL(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "repovalue",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mysqlC.Terminate(ctx) })

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	return fmt.Sprintf("root:secret123@tcp(%s:%s)/repovalue?parseTime=true", host, port.Port())
}

// startPostgres starts a PostgreSQL container and returns its connection string.
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
}

func TestRepovalueWithMySQL(t *testing.T) {
	runCacheLifecycle(t, schema.MySQLBackend, startMySQL(t))
}

func TestRepovalueWithPostgres(t *testing.T) {
	runCacheLifecycle(t, schema.PostgreSQLBackend, startPostgres(t))
}

func TestCacheStoreWithMySQL(t *testing.T) {
	exerciseCacheStore(t, schema.MySQLBackend, startMySQL(t))
}

func TestCacheStoreWithPostgres(t *testing.T) {
	exerciseCacheStore(t, schema.PostgreSQLBackend, startPostgres(t))
}

// runCacheLifecycle drives the CLI against a database cache: migrate, warm the cache,
// serve a repeat run without touching GitHub, then prune and clear.
func runCacheLifecycle(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	t.Helper()
	fake := newFakeGitHub(t)
	env := []string{
		"REPOVALUE_CACHE_BACKEND=" + string(backend),
		"REPOVALUE_CACHE_DB_CONNECT=" + connStr,
		"REPOVALUE_GITHUB_API_URL=" + fake.URL,
	}

	_, err := runRepovalue(t, env, "cache", "clear")
	require.NoError(t, err)

	out, err := runRepovalue(t, env, "cache", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "version")

	_, err = runRepovalue(t, env, "analyze", "octo/hello", "--output", "json")
	require.NoError(t, err)
	warm := fake.hits.Load()
	require.Positive(t, warm)

	_, err = runRepovalue(t, env, "analyze", "octo/hello", "--output", "json")
	require.NoError(t, err)
	assert.Equal(t, warm, fake.hits.Load(), "repeat run should be served from the cache")

	out, err = runRepovalue(t, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Connected: true")
	assert.Contains(t, out, "Total Entries:")

	out, err = runRepovalue(t, env, "cache", "prune", "--cache-ttl", "24h")
	require.NoError(t, err)
	assert.Contains(t, out, "Pruned 0 cached responses")

	_, err = runRepovalue(t, env, "cache", "clear")
	require.NoError(t, err)
}

// exerciseCacheStore runs the response store directly against the database.
func exerciseCacheStore(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	t.Helper()
	store, err := iocache.NewCacheStore("response_cache_it", backend, connStr, time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	now := time.Now().Unix()
	require.NoError(t, store.Set("fresh", []byte(`{"ok":true}`), 1, now))
	require.NoError(t, store.Set("stale", []byte(`{}`), 1, now-7200))
	require.NoError(t, store.Set("fresh", []byte(`{"ok":false}`), 2, now))

	value, version, ts, err := store.Get("fresh")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":false}`, string(value))
	assert.Equal(t, 2, version)
	assert.Equal(t, now, ts)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, 1, status.ExpiredEntries)

	removed, err := store.Prune(now - 3600)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, _, _, err = store.Get("stale")
	assert.Error(t, err)
}
