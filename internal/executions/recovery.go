package executions

import (
	"context"
	"fmt"
	"log/slog"
)

const orphanedError = "execution orphaned: process exited while running"

// RecoveryStore is the subset of Store used by RecoverOrphans.
type RecoveryStore interface {
	FindByStatus(ctx context.Context, status Status) ([]*Execution, error)
	UpdateForRecovery(ctx context.Context, id string, status Status, attempt int, lastError string) error
}

// RecoverOrphans marks executions left running by a previous process as
// killed. The executor process is gone, so they cannot resume; the attempt
// counter is bumped so a retry starts from the next attempt.
func RecoverOrphans(ctx context.Context, store RecoveryStore, logger *slog.Logger) (int, error) {
	running, err := store.FindByStatus(ctx, StatusRunning)
	if err != nil {
		return 0, fmt.Errorf("find running executions for recovery: %w", err)
	}
	if len(running) == 0 {
		logger.Debug("no orphaned executions")
		return 0, nil
	}

	logger.Warn("found orphaned executions", "count", len(running))

	recovered := 0
	for _, e := range running {
		attempt := e.Attempt + 1
		if err := store.UpdateForRecovery(ctx, e.ID, StatusKilled, attempt, orphanedError); err != nil {
			logger.Error("failed to recover orphaned execution",
				"execution_id", e.ID,
				"task_id", e.TaskID,
				"error", err,
			)
			continue
		}
		logger.Warn("marked orphaned execution killed",
			"execution_id", e.ID,
			"task_id", e.TaskID,
			"executor", e.Executor,
			"attempt", attempt,
			"max_attempts", e.MaxAttempts,
		)
		recovered++
	}
	return recovered, nil
}
