package local

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mattjoyce/taskdesk/internal/deployment"
	"github.com/mattjoyce/taskdesk/internal/executions"
)

// Container runs the startup maintenance over the executions table.
type Container struct {
	execs  *executions.Store
	logger *slog.Logger

	headCommit func(repoPath string) (string, error)
	repoName   func(repoPath string) (string, error)
}

var _ deployment.Container = (*Container)(nil)

func NewContainer(execs *executions.Store, logger *slog.Logger) *Container {
	return &Container{
		execs:      execs,
		logger:     logger,
		headCommit: executions.HeadCommit,
		repoName:   executions.RepoName,
	}
}

func (c *Container) CleanupOrphanExecutions(ctx context.Context) error {
	n, err := executions.RecoverOrphans(ctx, c.execs, c.logger)
	if err != nil {
		return err
	}
	if n > 0 {
		c.logger.Info("cleaned up orphaned executions", "count", n)
	}
	return nil
}

// BackfillBeforeHeadCommits records the current HEAD for executions that never
// captured one. Repositories that can no longer be opened are skipped.
func (c *Container) BackfillBeforeHeadCommits(ctx context.Context) error {
	missing, err := c.execs.ListMissingBeforeHead(ctx)
	if err != nil {
		return fmt.Errorf("backfill before head commits: %w", err)
	}

	filled := 0
	for _, e := range missing {
		head, err := c.headCommit(*e.RepoPath)
		if err != nil {
			c.logger.Warn("skipping before head backfill", "execution_id", e.ID, "repo_path", *e.RepoPath, "error", err)
			continue
		}
		if err := c.execs.SetBeforeHead(ctx, e.ID, head); err != nil {
			c.logger.Warn("failed to store before head commit", "execution_id", e.ID, "error", err)
			continue
		}
		filled++
	}
	c.logger.Debug("before head backfill done", "candidates", len(missing), "filled", filled)
	return nil
}

// BackfillRepoNames derives a display name for executions that lack one.
func (c *Container) BackfillRepoNames(ctx context.Context) error {
	missing, err := c.execs.ListMissingRepoName(ctx)
	if err != nil {
		return fmt.Errorf("backfill repo names: %w", err)
	}

	filled := 0
	for _, e := range missing {
		name, err := c.repoName(*e.RepoPath)
		if err != nil {
			c.logger.Warn("skipping repo name backfill", "execution_id", e.ID, "repo_path", *e.RepoPath, "error", err)
			continue
		}
		if err := c.execs.SetRepoName(ctx, e.ID, name); err != nil {
			c.logger.Warn("failed to store repo name", "execution_id", e.ID, "error", err)
			continue
		}
		filled++
	}
	c.logger.Debug("repo name backfill done", "candidates", len(missing), "filled", filled)
	return nil
}
