package bridge

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mattjoyce/taskdesk/internal/events"
)

func TestParseLastEventID(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]int64{"": 0, "7": 7, "-3": 0, "abc": 0} {
		if got := parseLastEventID(in); got != want {
			t.Fatalf("parseLastEventID(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestEventsStreamReplaysThenFollows(t *testing.T) {
	hub := events.NewHub(16)
	srv := New(Config{}, &mockInvoker{}, hub, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	hub.Publish("deployment.initialized", nil)
	hub.Publish("config.updated", map[string]string{"k": "v"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Last-Event-ID", "1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	lines := bufio.NewScanner(resp.Body)
	readUntil := func(want string) {
		t.Helper()
		for lines.Scan() {
			line := lines.Text()
			if strings.HasPrefix(line, "event: deployment.initialized") {
				t.Fatalf("event before Last-Event-ID was replayed")
			}
			if line == want {
				return
			}
		}
		t.Fatalf("stream ended before %q: %v", want, lines.Err())
	}

	readUntil("event: config.updated")
	readUntil(`data: {"k":"v"}`)

	hub.Publish("window.shown", map[string]string{"state": "visible"})
	readUntil("event: window.shown")
}

func TestEventsKeepAlive(t *testing.T) {
	prev := keepAliveInterval
	keepAliveInterval = 20 * time.Millisecond
	defer func() { keepAliveInterval = prev }()

	srv := New(Config{}, &mockInvoker{}, events.NewHub(4), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	for lines.Scan() {
		if lines.Text() == ": keep-alive" {
			return
		}
	}
	t.Fatalf("no keep-alive received: %v", lines.Err())
}

func TestEventsStreamFiltersByType(t *testing.T) {
	hub := events.NewHub(16)
	srv := New(Config{}, &mockInvoker{}, hub, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	hub.Publish("config.updated", nil)
	hub.Publish("window.hidden", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events?type=window.", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	readUntil := func(want string) {
		t.Helper()
		for lines.Scan() {
			line := lines.Text()
			if strings.HasPrefix(line, "event: config.") {
				t.Fatalf("unfiltered event on stream: %q", line)
			}
			if line == want {
				return
			}
		}
		t.Fatalf("stream ended before %q: %v", want, lines.Err())
	}

	readUntil("event: window.hidden")
	hub.Publish("config.updated", nil)
	hub.Publish("window.shown", nil)
	readUntil("event: window.shown")
}
