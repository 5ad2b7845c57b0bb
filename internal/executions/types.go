package executions

import (
	"errors"
	"time"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusKilled    Status = "killed"
)

func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusKilled:
		return true
	default:
		return false
	}
}

type MergeStatus string

const (
	MergeOpen   MergeStatus = "open"
	MergeMerged MergeStatus = "merged"
)

// Execution is one attempt of an executor working a task inside a git worktree.
type Execution struct {
	ID               string
	TaskID           string
	Executor         string
	Status           Status
	Attempt          int
	MaxAttempts      int
	RepoPath         *string
	RepoName         *string
	Branch           *string
	BeforeHeadCommit *string
	AfterHeadCommit  *string
	MergeStatus      *MergeStatus
	CreatedAt        time.Time
	StartedAt        *time.Time
	CompletedAt      *time.Time
	LastError        *string
}

type StartRequest struct {
	TaskID      string
	Executor    string
	RepoPath    string
	Branch      string
	MaxAttempts int
	// BeforeHeadCommit may be left empty; the startup backfill resolves it.
	BeforeHeadCommit string
}

var ErrExecutionNotFound = errors.New("execution not found")
