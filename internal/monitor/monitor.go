// Package monitor watches finished executions and closes their tasks once the
// execution branch lands on the base branch.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mattjoyce/taskdesk/internal/events"
	"github.com/mattjoyce/taskdesk/internal/executions"
)

// MergeStore is the execution persistence the monitor needs.
type MergeStore interface {
	ListOpenMerges(ctx context.Context) ([]*executions.Execution, error)
	MarkMerged(ctx context.Context, id string) error
}

// MergeChecker reports whether branch has been merged into base.
type MergeChecker func(repoPath, branch, base string) (bool, error)

type Monitor struct {
	store      MergeStore
	events     events.Publisher
	logger     *slog.Logger
	interval   time.Duration
	baseBranch string
	isMerged   MergeChecker

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func New(store MergeStore, pub events.Publisher, interval time.Duration, baseBranch string, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = time.Minute
	}
	if baseBranch == "" {
		baseBranch = "main"
	}
	return &Monitor{
		store:      store,
		events:     pub,
		logger:     logger,
		interval:   interval,
		baseBranch: baseBranch,
		isMerged:   executions.IsMerged,
		stopCh:     make(chan struct{}),
	}
}

// WithChecker swaps the merge check, mainly for tests.
func (m *Monitor) WithChecker(fn MergeChecker) *Monitor {
	m.isMerged = fn
	return m
}

// Start launches the tick loop and returns immediately. Later calls are no-ops.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true

	m.logger.Info("starting monitor", "interval", m.interval.String(), "base_branch", m.baseBranch)
	m.wg.Add(1)
	go m.loop(ctx)
}

// Stop ends the tick loop and waits for it.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	select {
	case <-m.stopCh:
	default:
		close(m.stopCh)
	}
	m.mu.Unlock()
	m.wg.Wait()
}

func (m *Monitor) loop(ctx context.Context) {
	defer m.wg.Done()

	m.Tick(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Tick(ctx)
		case <-m.stopCh:
			m.logger.Info("monitor stopped")
			return
		case <-ctx.Done():
			m.logger.Debug("monitor context cancelled")
			return
		}
	}
}

// Tick performs one pass over open merges and returns how many were closed.
func (m *Monitor) Tick(ctx context.Context) int {
	open, err := m.store.ListOpenMerges(ctx)
	if err != nil {
		m.logger.Error("failed to list open merges", "error", err)
		return 0
	}

	merged := 0
	for _, e := range open {
		if e.RepoPath == nil || e.Branch == nil {
			continue
		}
		ok, err := m.isMerged(*e.RepoPath, *e.Branch, m.baseBranch)
		if err != nil {
			m.logger.Warn("merge check failed",
				"execution_id", e.ID,
				"repo_path", *e.RepoPath,
				"branch", *e.Branch,
				"error", err,
			)
			continue
		}
		if !ok {
			continue
		}
		if err := m.store.MarkMerged(ctx, e.ID); err != nil {
			m.logger.Error("failed to mark execution merged", "execution_id", e.ID, "error", err)
			continue
		}
		m.logger.Info("execution branch merged", "execution_id", e.ID, "task_id", e.TaskID, "branch", *e.Branch)
		m.events.Publish("monitor.merged", map[string]any{
			"execution_id": e.ID,
			"task_id":      e.TaskID,
			"branch":       *e.Branch,
		})
		merged++
	}
	return merged
}
