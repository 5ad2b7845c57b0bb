// Package deployment defines the contract between the desktop shell and the
// engine that owns task/project semantics, persistence and executor runs.
//
// The shell never reaches past these interfaces. The engine shipped with this
// repository lives in deployment/local; tests substitute gomock doubles from
// deployment/mocks.
package deployment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mocks/mock_deployment.go -package=mocks github.com/mattjoyce/taskdesk/internal/deployment Deployment,Store,Container

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidStatus   = errors.New("invalid task status")
)

// TaskStatus is the board column a task sits in.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "inprogress"
	TaskStatusInReview   TaskStatus = "inreview"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) String() string { return string(s) }

// ParseTaskStatus validates a textual status.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch st := TaskStatus(s); st {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusInReview, TaskStatusDone, TaskStatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

type Project struct {
	ID          uuid.UUID
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Task struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Title       string
	Description *string
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectUpdate carries optional field changes; nil leaves a field untouched.
type ProjectUpdate struct {
	Name        *string
	Description *string
}

// TaskUpdate carries optional field changes; nil leaves a field untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *TaskStatus
}

// Store is the database accessor of a deployment.
type Store interface {
	ListProjects(ctx context.Context) ([]*Project, error)
	// GetProject returns (nil, nil) when the project does not exist.
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, upd ProjectUpdate) (*Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error

	ListTasks(ctx context.Context, projectID uuid.UUID) ([]*Task, error)
	// GetTask returns (nil, nil) when the task does not exist.
	GetTask(ctx context.Context, id uuid.UUID) (*Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, upd TaskUpdate) (*Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

// Container groups the maintenance routines run once per process start.
type Container interface {
	CleanupOrphanExecutions(ctx context.Context) error
	BackfillBeforeHeadCommits(ctx context.Context) error
	BackfillRepoNames(ctx context.Context) error
}

// Deployment is one live engine instance. Implementations must be safe for
// concurrent use; the shell shares a single instance across every command.
type Deployment interface {
	DB() Store
	Container() Container

	CreateProject(ctx context.Context, name string, description *string) (*Project, error)
	CreateTask(ctx context.Context, projectID uuid.UUID, title string, description *string) (*Task, error)

	// SpawnMonitorService starts the background monitor and returns immediately.
	// The monitor stops when ctx is cancelled.
	SpawnMonitorService(ctx context.Context)
	// TrackIfAnalyticsAllowed records an event when analytics are enabled. It
	// must not block on network or storage I/O.
	TrackIfAnalyticsAllowed(ctx context.Context, event string, props map[string]any)

	AssetsDir() string
}
