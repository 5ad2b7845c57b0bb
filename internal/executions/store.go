package executions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mattjoyce/taskdesk/internal/storage"
)

const (
	maxErrorBytes      = 16 * 1024
	defaultMaxAttempts = 3
)

const selectColumns = `
  id, task_id, executor, status, attempt, max_attempts, repo_path, repo_name, branch,
  before_head_commit, after_head_commit, merge_status, created_at, started_at, completed_at, last_error`

type Store struct {
	db          *sql.DB
	maxAttempts int
}

// New returns a store whose executions default to maxAttempts attempts.
// Non-positive values fall back to 3.
func New(db *sql.DB, maxAttempts int) *Store {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Store{db: db, maxAttempts: maxAttempts}
}

// Start records a new running execution and returns its id.
func (s *Store) Start(ctx context.Context, req StartRequest) (string, error) {
	if req.TaskID == "" {
		return "", fmt.Errorf("task_id is empty")
	}
	if req.Executor == "" {
		return "", fmt.Errorf("executor is empty")
	}

	id := uuid.NewString()
	now := storage.FormatTime(time.Now())

	maxAttempts := req.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = s.maxAttempts
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO executions(
  id, task_id, executor, status, attempt, max_attempts, repo_path, branch, before_head_commit,
  created_at, started_at
)
VALUES(?, ?, ?, ?, 1, ?, ?, ?, ?, ?, ?);
`, id, req.TaskID, req.Executor, StatusRunning, maxAttempts,
		nullIfEmpty(req.RepoPath), nullIfEmpty(req.Branch), nullIfEmpty(req.BeforeHeadCommit), now, now)
	if err != nil {
		return "", fmt.Errorf("start execution: %w", err)
	}
	return id, nil
}

// Complete marks an execution terminal. A completed run on a branch becomes an
// open merge for the monitor to watch.
func (s *Store) Complete(ctx context.Context, id string, status Status, afterHead, lastError *string) error {
	if id == "" {
		return fmt.Errorf("execution id is empty")
	}
	if !status.Terminal() {
		return fmt.Errorf("invalid terminal status: %q", status)
	}

	res, err := s.db.ExecContext(ctx, `
UPDATE executions
SET status = ?, completed_at = ?, after_head_commit = ?, last_error = ?,
    merge_status = CASE WHEN ? = 'completed' AND branch IS NOT NULL THEN 'open' ELSE merge_status END
WHERE id = ?;
`, status, storage.FormatTime(time.Now()), afterHead, truncate(lastError), status, id)
	if err != nil {
		return fmt.Errorf("complete execution: %w", err)
	}
	return expectOne(res, id)
}

func (s *Store) Get(ctx context.Context, id string) (*Execution, error) {
	row := s.db.QueryRowContext(ctx, `SELECT`+selectColumns+` FROM executions WHERE id = ?;`, id)
	e, err := scanExecution(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrExecutionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get execution: %w", err)
	}
	return e, nil
}

// FindByStatus lists executions in the given state, oldest first.
func (s *Store) FindByStatus(ctx context.Context, status Status) ([]*Execution, error) {
	return s.query(ctx, "find executions by status", `
SELECT`+selectColumns+`
FROM executions
WHERE status = ?
ORDER BY created_at ASC, rowid ASC;
`, status)
}

// UpdateForRecovery rewrites status and attempt for an orphaned execution.
func (s *Store) UpdateForRecovery(ctx context.Context, id string, status Status, attempt int, lastError string) error {
	var errVal any
	if lastError != "" {
		errVal = lastError
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE executions
SET status = ?, attempt = ?, last_error = ?, completed_at = ?
WHERE id = ?;
`, status, attempt, errVal, storage.FormatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("update execution for recovery: %w", err)
	}
	return expectOne(res, id)
}

// ListMissingBeforeHead returns executions with a repository but no recorded
// starting commit.
func (s *Store) ListMissingBeforeHead(ctx context.Context) ([]*Execution, error) {
	return s.query(ctx, "list executions missing before head", `
SELECT`+selectColumns+`
FROM executions
WHERE before_head_commit IS NULL AND repo_path IS NOT NULL
ORDER BY created_at ASC;
`)
}

func (s *Store) SetBeforeHead(ctx context.Context, id, commit string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE executions SET before_head_commit = ? WHERE id = ?;`, commit, id)
	if err != nil {
		return fmt.Errorf("set before head commit: %w", err)
	}
	return expectOne(res, id)
}

// ListMissingRepoName returns executions with a repository but no display name.
func (s *Store) ListMissingRepoName(ctx context.Context) ([]*Execution, error) {
	return s.query(ctx, "list executions missing repo name", `
SELECT`+selectColumns+`
FROM executions
WHERE repo_name IS NULL AND repo_path IS NOT NULL
ORDER BY created_at ASC;
`)
}

func (s *Store) SetRepoName(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE executions SET repo_name = ? WHERE id = ?;`, name, id)
	if err != nil {
		return fmt.Errorf("set repo name: %w", err)
	}
	return expectOne(res, id)
}

// ListOpenMerges returns completed executions whose branch has not been seen
// merged yet.
func (s *Store) ListOpenMerges(ctx context.Context) ([]*Execution, error) {
	return s.query(ctx, "list open merges", `
SELECT`+selectColumns+`
FROM executions
WHERE merge_status = ? AND repo_path IS NOT NULL AND branch IS NOT NULL
ORDER BY completed_at ASC;
`, MergeOpen)
}

// MarkMerged closes the merge and moves the owning task to done.
func (s *Store) MarkMerged(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var taskID string
	if err := tx.QueryRowContext(ctx, `SELECT task_id FROM executions WHERE id = ?;`, id).Scan(&taskID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrExecutionNotFound, id)
		}
		return fmt.Errorf("load execution for merge: %w", err)
	}

	now := storage.FormatTime(time.Now())
	if _, err := tx.ExecContext(ctx, `UPDATE executions SET merge_status = ? WHERE id = ?;`, MergeMerged, id); err != nil {
		return fmt.Errorf("mark execution merged: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE tasks SET status = 'done', updated_at = ? WHERE id = ?;`, now, taskID); err != nil {
		return fmt.Errorf("mark task done: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit merge: %w", err)
	}
	return nil
}

func (s *Store) query(ctx context.Context, op, q string, args ...any) ([]*Execution, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Execution
	for rows.Next() {
		e, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExecution(row scanner) (*Execution, error) {
	var (
		e            Execution
		statusS      string
		repoPath     sql.NullString
		repoName     sql.NullString
		branch       sql.NullString
		beforeHead   sql.NullString
		afterHead    sql.NullString
		mergeStatus  sql.NullString
		createdAtS   string
		startedAtS   sql.NullString
		completedAtS sql.NullString
		lastError    sql.NullString
	)
	err := row.Scan(
		&e.ID, &e.TaskID, &e.Executor, &statusS, &e.Attempt, &e.MaxAttempts, &repoPath, &repoName, &branch,
		&beforeHead, &afterHead, &mergeStatus, &createdAtS, &startedAtS, &completedAtS, &lastError,
	)
	if err != nil {
		return nil, err
	}

	e.Status = Status(statusS)
	e.RepoPath = nullString(repoPath)
	e.RepoName = nullString(repoName)
	e.Branch = nullString(branch)
	e.BeforeHeadCommit = nullString(beforeHead)
	e.AfterHeadCommit = nullString(afterHead)
	if mergeStatus.Valid {
		ms := MergeStatus(mergeStatus.String)
		e.MergeStatus = &ms
	}
	e.CreatedAt = storage.ParseTime(createdAtS)
	e.StartedAt = storage.ParseNullTime(startedAtS)
	e.CompletedAt = storage.ParseNullTime(completedAtS)
	e.LastError = nullString(lastError)
	return &e, nil
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrExecutionNotFound, id)
	}
	return nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func truncate(s *string) any {
	if s == nil {
		return nil
	}
	v := *s
	if len(v) > maxErrorBytes {
		v = v[:maxErrorBytes]
	}
	return v
}
