// Package analytics records usage events locally without ever blocking the
// caller.
package analytics

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeebo/blake3"

	"github.com/mattjoyce/taskdesk/internal/events"
	"github.com/mattjoyce/taskdesk/internal/storage"
)

const writeTimeout = 5 * time.Second

type Config struct {
	Enabled    bool
	BufferSize int
}

type event struct {
	name  string
	props map[string]any
	at    time.Time
}

// Tracker queues events on a bounded channel drained by one writer goroutine.
// When the buffer is full new events are dropped.
type Tracker struct {
	db         *sql.DB
	pub        events.Publisher
	logger     *slog.Logger
	enabled    bool
	distinctID string

	mu     sync.RWMutex
	closed bool
	ch     chan event
	wg     sync.WaitGroup

	dropped atomic.Int64
}

func New(db *sql.DB, cfg Config, pub events.Publisher, logger *slog.Logger) *Tracker {
	t := &Tracker{
		db:         db,
		pub:        pub,
		logger:     logger,
		enabled:    cfg.Enabled,
		distinctID: DistinctID(),
	}
	if !t.enabled {
		return t
	}

	size := cfg.BufferSize
	if size <= 0 {
		size = 64
	}
	t.ch = make(chan event, size)
	t.wg.Add(1)
	go t.flush()
	return t
}

func (t *Tracker) Enabled() bool { return t.enabled }

// Track enqueues an event and returns immediately.
func (t *Tracker) Track(name string, props map[string]any) {
	if !t.enabled {
		return
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}

	select {
	case t.ch <- event{name: name, props: props, at: time.Now()}:
	default:
		n := t.dropped.Add(1)
		t.logger.Debug("analytics buffer full, dropping event", "event", name, "dropped_total", n)
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (t *Tracker) Dropped() int64 { return t.dropped.Load() }

// Close stops accepting events and waits for queued ones to be written.
func (t *Tracker) Close() {
	if !t.enabled {
		return
	}
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	close(t.ch)
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *Tracker) flush() {
	defer t.wg.Done()
	for ev := range t.ch {
		if err := t.write(ev); err != nil {
			t.logger.Warn("failed to persist analytics event", "event", ev.name, "error", err)
			continue
		}
		if t.pub != nil {
			t.pub.Publish("analytics.tracked", map[string]any{"event": ev.name})
		}
	}
}

func (t *Tracker) write(ev event) error {
	props := ev.props
	if props == nil {
		props = map[string]any{}
	}
	b, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("encode properties: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_, err = t.db.ExecContext(ctx, `
INSERT INTO analytics_events(event, distinct_id, properties, created_at)
VALUES(?, ?, ?, ?);
`, ev.name, t.distinctID, string(b), storage.FormatTime(ev.at))
	if err != nil {
		return fmt.Errorf("insert analytics event: %w", err)
	}
	return nil
}

// DistinctID is a stable anonymous fingerprint of this machine and user.
func DistinctID() string {
	host, _ := os.Hostname()
	home, _ := os.UserHomeDir()
	sum := blake3.Sum256([]byte(host + "\x00" + home))
	return hex.EncodeToString(sum[:16])
}
