package shell

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mattjoyce/taskdesk/internal/deployment"
	"github.com/mattjoyce/taskdesk/internal/events"
)

const (
	msgInitialized        = "Deployment initialized successfully"
	msgAlreadyInitialized = "Deployment already initialized"
)

// Factory builds a deployment: open storage, migrate, prepare services.
type Factory func(ctx context.Context) (deployment.Deployment, error)

// Orchestrator performs the one-time startup sequence that populates the
// handle and then runs the maintenance steps.
type Orchestrator struct {
	handle   *Handle
	factory  Factory
	events   events.Publisher
	logger   *slog.Logger
	lifetime context.Context

	// mu serializes construction so only one factory call can be in flight.
	mu sync.Mutex
}

// NewOrchestrator wires the startup sequence. lifetime bounds the background
// services spawned during startup and should live as long as the process.
func NewOrchestrator(lifetime context.Context, handle *Handle, factory Factory, pub events.Publisher, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		handle:   handle,
		factory:  factory,
		events:   pub,
		logger:   logger,
		lifetime: lifetime,
	}
}

type step struct {
	name string
	run  func(ctx context.Context) error
}

// Initialize runs the startup sequence once. Only a factory failure leaves the
// handle empty; a later call may then retry. Calls after success return
// immediately without building a second deployment.
func (o *Orchestrator) Initialize(ctx context.Context) (string, error) {
	started := time.Now()
	d, err := o.construct(ctx)
	if err != nil {
		return "", err
	}
	if d == nil {
		return msgAlreadyInitialized, nil
	}
	o.events.Publish("deployment.initialized", map[string]any{"assets_dir": d.AssetsDir()})

	steps := []step{
		{"cleanup_orphan_executions", func(ctx context.Context) error {
			return d.Container().CleanupOrphanExecutions(ctx)
		}},
		{"backfill_before_head_commits", func(ctx context.Context) error {
			return d.Container().BackfillBeforeHeadCommits(ctx)
		}},
		{"backfill_repo_names", func(ctx context.Context) error {
			return d.Container().BackfillRepoNames(ctx)
		}},
		{"spawn_monitor_service", func(context.Context) error {
			d.SpawnMonitorService(o.lifetime)
			return nil
		}},
		{"track_session_start", func(ctx context.Context) error {
			d.TrackIfAnalyticsAllowed(ctx, "session_start", map[string]any{})
			return nil
		}},
	}

	failed := 0
	for _, s := range steps {
		if !o.runBestEffort(ctx, s.name, s.run) {
			failed++
		}
	}

	o.logger.Info("deployment initialized", "duration", time.Since(started).String(), "failed_steps", failed)
	return msgInitialized, nil
}

// construct builds and stores the deployment. It returns nil with no error
// when another caller already populated the handle. o.mu covers only the
// factory and Populate; the startup steps run unlocked.
func (o *Orchestrator) construct(ctx context.Context) (deployment.Deployment, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.handle.IsInitialized() {
		o.logger.Debug("initialize requested but deployment already present")
		return nil, nil
	}

	o.logger.Info("initializing deployment")
	d, err := o.factory(ctx)
	if err != nil {
		o.logger.Error("deployment construction failed", "error", err)
		o.events.Publish("deployment.init_failed", map[string]any{"error": err.Error()})
		return nil, DeploymentError(err)
	}
	if d == nil {
		return nil, DeploymentError(fmt.Errorf("deployment factory returned nil"))
	}
	if !o.handle.Populate(d) {
		return nil, nil
	}
	return d, nil
}

// runBestEffort runs fn, logging and publishing any error or panic instead of
// propagating it. It reports whether the step succeeded.
func (o *Orchestrator) runBestEffort(ctx context.Context, name string, fn func(context.Context) error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			o.stepFailed(name, fmt.Errorf("panic: %v", r))
			ok = false
		}
	}()

	if err := fn(ctx); err != nil {
		o.stepFailed(name, err)
		return false
	}
	o.logger.Debug("startup step done", "step", name)
	return true
}

func (o *Orchestrator) stepFailed(name string, err error) {
	o.logger.Warn("startup step failed, continuing", "step", name, "error", err)
	o.events.Publish("deployment.step_failed", map[string]any{
		"step":  name,
		"error": err.Error(),
	})
}

// InitTask tracks one detached Initialize run.
type InitTask struct {
	done chan struct{}
	msg  string
	err  error
}

// Done is closed when the run finishes.
func (t *InitTask) Done() <-chan struct{} { return t.done }

// Err is the run's error. Only meaningful after Done is closed.
func (t *InitTask) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Message is the run's confirmation. Only meaningful after Done is closed.
func (t *InitTask) Message() string {
	select {
	case <-t.done:
		return t.msg
	default:
		return ""
	}
}

// Start runs Initialize in its own goroutine and returns at once. Failures are
// logged here so no caller has to watch the task.
func (o *Orchestrator) Start(ctx context.Context) *InitTask {
	t := &InitTask{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.msg, t.err = o.Initialize(ctx)
		if t.err != nil {
			o.logger.Error("background initialization failed", "error", t.err)
		}
	}()
	return t
}
