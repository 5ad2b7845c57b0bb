// Package local is the engine that ships with taskdesk: SQLite persistence,
// execution bookkeeping, the merge monitor and local analytics.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/mattjoyce/taskdesk/internal/analytics"
	"github.com/mattjoyce/taskdesk/internal/config"
	"github.com/mattjoyce/taskdesk/internal/deployment"
	"github.com/mattjoyce/taskdesk/internal/events"
	"github.com/mattjoyce/taskdesk/internal/executions"
	tlog "github.com/mattjoyce/taskdesk/internal/log"
	"github.com/mattjoyce/taskdesk/internal/monitor"
	"github.com/mattjoyce/taskdesk/internal/storage"
)

type Deployment struct {
	db        *sql.DB
	store     *Store
	container *Container
	monitor   *monitor.Monitor
	tracker   *analytics.Tracker
	assetsDir string
	logger    *slog.Logger
}

var _ deployment.Deployment = (*Deployment)(nil)

// New opens storage, applies migrations and prepares the background services.
// Nothing is started until SpawnMonitorService is called.
func New(ctx context.Context, cfg *config.Config, pub events.Publisher) (*Deployment, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	logger := tlog.WithComponent("deployment")

	db, err := storage.OpenSQLite(ctx, cfg.State.Path)
	if err != nil {
		return nil, fmt.Errorf("open deployment storage: %w", err)
	}

	assetsDir := cfg.State.AssetsDir
	if assetsDir != "" {
		if err := os.MkdirAll(assetsDir, 0o755); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create assets dir: %w", err)
		}
	}

	execs := executions.New(db, cfg.Executions.MaxAttempts)
	d := &Deployment{
		db:        db,
		store:     NewStore(db),
		container: NewContainer(execs, tlog.WithComponent("executions")),
		monitor: monitor.New(execs, pub, cfg.Monitor.Interval, cfg.Monitor.BaseBranch,
			tlog.WithComponent("monitor")),
		tracker: analytics.New(db, analytics.Config{
			Enabled:    cfg.Analytics.Enabled,
			BufferSize: cfg.Analytics.BufferSize,
		}, pub, tlog.WithComponent("analytics")),
		assetsDir: assetsDir,
		logger:    logger,
	}

	schema, _, err := storage.SchemaVersion(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("read deployment schema: %w", err)
	}

	logger.Info("deployment ready", "db_path", cfg.State.Path, "assets_dir", assetsDir, "schema_version", schema)
	return d, nil
}

func (d *Deployment) DB() deployment.Store { return d.store }

func (d *Deployment) Container() deployment.Container { return d.container }

func (d *Deployment) AssetsDir() string { return d.assetsDir }

func (d *Deployment) CreateProject(ctx context.Context, name string, description *string) (*deployment.Project, error) {
	p, err := d.store.createProject(ctx, name, description)
	if err != nil {
		return nil, err
	}
	d.tracker.Track("project_created", map[string]any{"project_id": p.ID.String()})
	return p, nil
}

func (d *Deployment) CreateTask(ctx context.Context, projectID uuid.UUID, title string, description *string) (*deployment.Task, error) {
	t, err := d.store.createTask(ctx, projectID, title, description)
	if err != nil {
		return nil, err
	}
	d.tracker.Track("task_created", map[string]any{
		"task_id":    t.ID.String(),
		"project_id": projectID.String(),
	})
	return t, nil
}

func (d *Deployment) SpawnMonitorService(ctx context.Context) {
	d.monitor.Start(ctx)
}

func (d *Deployment) TrackIfAnalyticsAllowed(_ context.Context, event string, props map[string]any) {
	d.tracker.Track(event, props)
}

// Close stops background services and releases the database.
func (d *Deployment) Close() error {
	d.monitor.Stop()
	d.tracker.Close()
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("close deployment storage: %w", err)
	}
	d.logger.Info("deployment closed")
	return nil
}
