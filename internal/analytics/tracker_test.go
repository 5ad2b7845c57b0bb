package analytics

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/taskdesk/internal/events"
	"github.com/mattjoyce/taskdesk/internal/storage"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "db.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func countEvents(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM analytics_events;`).Scan(&n))
	return n
}

func TestTrackerPersistsOnClose(t *testing.T) {
	db := openDB(t)
	hub := events.NewHub(8)
	tr := New(db, Config{Enabled: true, BufferSize: 8}, hub, discardLogger())

	tr.Track("session_start", map[string]any{"version": "1.0.0"})
	tr.Track("project_created", nil)
	tr.Close()
	tr.Close()

	assert.Equal(t, 2, countEvents(t, db))

	var props, distinct string
	require.NoError(t, db.QueryRow(`SELECT properties, distinct_id FROM analytics_events WHERE event = 'session_start';`).Scan(&props, &distinct))
	assert.JSONEq(t, `{"version":"1.0.0"}`, props)
	assert.Equal(t, DistinctID(), distinct)

	assert.Len(t, hub.SnapshotSince(0), 2)

	// Tracking after close is ignored rather than panicking.
	tr.Track("late", nil)
}

func TestTrackerDisabledIsNoop(t *testing.T) {
	db := openDB(t)
	tr := New(db, Config{Enabled: false}, nil, discardLogger())
	assert.False(t, tr.Enabled())

	tr.Track("session_start", nil)
	tr.Close()
	assert.Equal(t, 0, countEvents(t, db))
}

func TestTrackerDropsWhenFull(t *testing.T) {
	tr := &Tracker{
		logger:  discardLogger(),
		enabled: true,
		ch:      make(chan event, 1),
	}

	tr.Track("a", nil)
	tr.Track("b", nil)
	tr.Track("c", nil)

	assert.Equal(t, int64(2), tr.Dropped())
	assert.Len(t, tr.ch, 1)
}

func TestDistinctIDStable(t *testing.T) {
	a := DistinctID()
	assert.Len(t, a, 32)
	assert.Equal(t, a, DistinctID())
}
