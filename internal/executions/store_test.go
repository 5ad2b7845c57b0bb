package executions

import (
	"context"
	"errors"
	"testing"
)

func TestStoreStartAndComplete(t *testing.T) {
	t.Parallel()

	s, db := newTestStore(t)
	seedTask(t, db, "t1")
	ctx := context.Background()

	id, err := s.Start(ctx, StartRequest{TaskID: "t1", Executor: "claude-code", RepoPath: "/repo", Branch: "td/t1"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	e, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.Status != StatusRunning || e.Attempt != 1 || e.MaxAttempts != 3 || e.StartedAt == nil {
		t.Fatalf("unexpected started execution: %#v", e)
	}
	if e.BeforeHeadCommit != nil {
		t.Fatalf("expected empty before head, got %q", *e.BeforeHeadCommit)
	}

	after := "abc123"
	if err := s.Complete(ctx, id, StatusCompleted, &after, nil); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	e, err = s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get after complete: %v", err)
	}
	if e.Status != StatusCompleted || e.CompletedAt == nil || e.AfterHeadCommit == nil || *e.AfterHeadCommit != after {
		t.Fatalf("unexpected completed execution: %#v", e)
	}
	if e.MergeStatus == nil || *e.MergeStatus != MergeOpen {
		t.Fatalf("expected open merge, got %v", e.MergeStatus)
	}

	open, err := s.ListOpenMerges(ctx)
	if err != nil {
		t.Fatalf("ListOpenMerges: %v", err)
	}
	if len(open) != 1 || open[0].ID != id {
		t.Fatalf("unexpected open merges: %#v", open)
	}
}

func TestStoreStartUsesConfiguredMaxAttempts(t *testing.T) {
	t.Parallel()

	_, db := newTestStore(t)
	seedTask(t, db, "t1")
	ctx := context.Background()
	s := New(db, 5)

	id, err := s.Start(ctx, StartRequest{TaskID: "t1", Executor: "codex"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	e, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.MaxAttempts != 5 {
		t.Fatalf("max_attempts = %d, want 5", e.MaxAttempts)
	}

	id, err = s.Start(ctx, StartRequest{TaskID: "t1", Executor: "codex", MaxAttempts: 2})
	if err != nil {
		t.Fatalf("Start with override: %v", err)
	}
	e, err = s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.MaxAttempts != 2 {
		t.Fatalf("max_attempts = %d, want request value 2", e.MaxAttempts)
	}
}

func TestStoreCompleteRejectsNonTerminal(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	if err := s.Complete(context.Background(), "x", StatusRunning, nil, nil); err == nil {
		t.Fatal("expected error for non-terminal status")
	}
}

func TestStoreMissingExecution(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "nope"); !errors.Is(err, ErrExecutionNotFound) {
		t.Fatalf("Get: expected ErrExecutionNotFound, got %v", err)
	}
	if err := s.SetRepoName(ctx, "nope", "x"); !errors.Is(err, ErrExecutionNotFound) {
		t.Fatalf("SetRepoName: expected ErrExecutionNotFound, got %v", err)
	}
	if err := s.MarkMerged(ctx, "nope"); !errors.Is(err, ErrExecutionNotFound) {
		t.Fatalf("MarkMerged: expected ErrExecutionNotFound, got %v", err)
	}
}

func TestStoreBackfillQueries(t *testing.T) {
	t.Parallel()

	s, db := newTestStore(t)
	seedTask(t, db, "t1")
	ctx := context.Background()

	withRepo, err := s.Start(ctx, StartRequest{TaskID: "t1", Executor: "codex", RepoPath: "/repo"})
	if err != nil {
		t.Fatalf("Start with repo: %v", err)
	}
	if _, err := s.Start(ctx, StartRequest{TaskID: "t1", Executor: "codex"}); err != nil {
		t.Fatalf("Start without repo: %v", err)
	}

	missingHead, err := s.ListMissingBeforeHead(ctx)
	if err != nil {
		t.Fatalf("ListMissingBeforeHead: %v", err)
	}
	if len(missingHead) != 1 || missingHead[0].ID != withRepo {
		t.Fatalf("unexpected missing-head rows: %#v", missingHead)
	}
	if err := s.SetBeforeHead(ctx, withRepo, "deadbeef"); err != nil {
		t.Fatalf("SetBeforeHead: %v", err)
	}
	missingHead, err = s.ListMissingBeforeHead(ctx)
	if err != nil || len(missingHead) != 0 {
		t.Fatalf("expected no missing-head rows, got %d err=%v", len(missingHead), err)
	}

	missingName, err := s.ListMissingRepoName(ctx)
	if err != nil {
		t.Fatalf("ListMissingRepoName: %v", err)
	}
	if len(missingName) != 1 {
		t.Fatalf("expected one missing-name row, got %d", len(missingName))
	}
	if err := s.SetRepoName(ctx, withRepo, "repo"); err != nil {
		t.Fatalf("SetRepoName: %v", err)
	}
	e, err := s.Get(ctx, withRepo)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.RepoName == nil || *e.RepoName != "repo" || e.BeforeHeadCommit == nil || *e.BeforeHeadCommit != "deadbeef" {
		t.Fatalf("backfilled fields not persisted: %#v", e)
	}
}

func TestStoreMarkMergedCompletesTask(t *testing.T) {
	t.Parallel()

	s, db := newTestStore(t)
	seedTask(t, db, "t1")
	ctx := context.Background()

	id, err := s.Start(ctx, StartRequest{TaskID: "t1", Executor: "claude-code", RepoPath: "/repo", Branch: "td/t1"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Complete(ctx, id, StatusCompleted, nil, nil); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := s.MarkMerged(ctx, id); err != nil {
		t.Fatalf("MarkMerged: %v", err)
	}

	var status string
	if err := db.QueryRow(`SELECT status FROM tasks WHERE id = 't1';`).Scan(&status); err != nil {
		t.Fatalf("read task: %v", err)
	}
	if status != "done" {
		t.Fatalf("expected task done, got %q", status)
	}
	open, err := s.ListOpenMerges(ctx)
	if err != nil || len(open) != 0 {
		t.Fatalf("expected no open merges, got %d err=%v", len(open), err)
	}
}
