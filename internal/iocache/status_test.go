package iocache

import (
	"bytes"
	"testing"
	"time"

	"github.com/huangsam/repovalue/schema"
	"github.com/stretchr/testify/assert"
)

func TestPrintCacheStatus(t *testing.T) {
	t.Run("disconnected", func(t *testing.T) {
		var buf bytes.Buffer
		PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
		assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())
	})

	t.Run("connected with entries", func(t *testing.T) {
		ts := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
		var buf bytes.Buffer
		PrintCacheStatus(&buf, schema.CacheStatus{
			Backend:         "sqlite",
			Connected:       true,
			TotalEntries:    3,
			ExpiredEntries:  1,
			LastEntryTime:   ts,
			OldestEntryTime: ts.Add(-time.Hour),
			TableSizeBytes:  4096,
		})
		out := buf.String()
		assert.Contains(t, out, "Total Entries: 3\n")
		assert.Contains(t, out, "Expired Entries: 1\n")
		assert.Contains(t, out, "Last Entry: 2025-05-01T08:00:00Z\n")
		assert.Contains(t, out, "Table Size: 4.1 kB\n")
	})
}
