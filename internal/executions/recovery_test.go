package executions

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type fakeRecoveryStore struct {
	running   []*Execution
	findErr   error
	failIDs   map[string]bool
	recovered map[string]int
}

func (f *fakeRecoveryStore) FindByStatus(_ context.Context, status Status) ([]*Execution, error) {
	if status != StatusRunning {
		return nil, nil
	}
	return f.running, f.findErr
}

func (f *fakeRecoveryStore) UpdateForRecovery(_ context.Context, id string, status Status, attempt int, lastError string) error {
	if f.failIDs[id] {
		return errors.New("db locked")
	}
	if status != StatusKilled || lastError == "" {
		return errors.New("unexpected recovery update")
	}
	if f.recovered == nil {
		f.recovered = map[string]int{}
	}
	f.recovered[id] = attempt
	return nil
}

func TestRecoverOrphans(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := &fakeRecoveryStore{
		running: []*Execution{
			{ID: "e1", TaskID: "t1", Attempt: 1, MaxAttempts: 3},
			{ID: "e2", TaskID: "t2", Attempt: 3, MaxAttempts: 3},
			{ID: "e3", TaskID: "t3", Attempt: 1, MaxAttempts: 3},
		},
		failIDs: map[string]bool{"e3": true},
	}

	n, err := RecoverOrphans(context.Background(), store, logger)
	if err != nil {
		t.Fatalf("RecoverOrphans: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 recovered, got %d", n)
	}
	if store.recovered["e1"] != 2 || store.recovered["e2"] != 4 {
		t.Fatalf("unexpected attempts: %#v", store.recovered)
	}
}

func TestRecoverOrphansFindError(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := &fakeRecoveryStore{findErr: errors.New("db error")}
	if _, err := RecoverOrphans(context.Background(), store, logger); err == nil {
		t.Fatal("expected error")
	}
}

func TestRecoverOrphansAgainstSQLite(t *testing.T) {
	t.Parallel()

	s, db := newTestStore(t)
	seedTask(t, db, "t1")
	ctx := context.Background()

	id, err := s.Start(ctx, StartRequest{TaskID: "t1", Executor: "gemini-cli"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if n, err := RecoverOrphans(ctx, s, logger); err != nil || n != 1 {
		t.Fatalf("RecoverOrphans: n=%d err=%v", n, err)
	}

	e, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.Status != StatusKilled || e.Attempt != 2 || e.LastError == nil || e.CompletedAt == nil {
		t.Fatalf("unexpected recovered execution: %#v", e)
	}

	running, err := s.FindByStatus(ctx, StatusRunning)
	if err != nil || len(running) != 0 {
		t.Fatalf("expected no running executions, got %d err=%v", len(running), err)
	}
}
