// Package shell is the application core: the deployment handle, the startup
// orchestrator and the named commands the window invokes.
package shell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/mattjoyce/taskdesk/internal/events"
)

// ErrUnknownCommand is returned by Invoke for names not in the table.
var ErrUnknownCommand = errors.New("unknown command")

// Command is one named operation. params is the raw JSON argument object.
type Command func(ctx context.Context, app *App, params json.RawMessage) (any, error)

// WindowController is the part of the window lifecycle commands can drive.
type WindowController interface {
	Show() error
	Hide() error
	// RequestClose handles a close request; the process stays resident.
	RequestClose() error
	// Quit is the explicit exit path.
	Quit()
}

type Options struct {
	// Lifetime bounds background services started during initialization.
	Lifetime  context.Context
	Factory   Factory
	Events    events.Publisher
	Window    WindowController
	Version   string
	AssetsDir string
	// FS backs the filesystem commands; defaults to the host filesystem.
	FS     billy.Filesystem
	Logger *slog.Logger
}

// App is the process-wide context handed to every command.
type App struct {
	Handle       *Handle
	Config       *ConfigBlob
	Orchestrator *Orchestrator

	events    events.Publisher
	window    WindowController
	version   string
	assetsDir string
	fs        billy.Filesystem
	logger    *slog.Logger
	commands  map[string]Command
}

func NewApp(opts Options) *App {
	lifetime := opts.Lifetime
	if lifetime == nil {
		lifetime = context.Background()
	}
	pub := opts.Events
	if pub == nil {
		pub = events.NewHub(100)
	}
	fs := opts.FS
	if fs == nil {
		fs = osfs.New("/")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handle := NewHandle()
	a := &App{
		Handle:       handle,
		Config:       &ConfigBlob{},
		Orchestrator: NewOrchestrator(lifetime, handle, opts.Factory, pub, logger),
		events:       pub,
		window:       opts.Window,
		version:      opts.Version,
		assetsDir:    opts.AssetsDir,
		fs:           fs,
		logger:       logger,
	}
	a.commands = a.commandTable()
	return a
}

func (a *App) commandTable() map[string]Command {
	table := map[string]Command{
		"health_check":          healthCheck,
		"get_deployment_info":   getDeploymentInfo,
		"initialize_deployment": initializeDeployment,

		"get_projects":   getProjects,
		"get_project":    getProject,
		"create_project": createProject,
		"update_project": updateProject,
		"delete_project": deleteProject,

		"get_tasks":   getTasks,
		"get_task":    getTask,
		"create_task": createTask,
		"update_task": updateTask,
		"delete_task": deleteTask,

		"get_executors":          getExecutors,
		"get_executor_config":    getExecutorConfig,
		"update_executor_config": updateExecutorConfig,

		"read_file":      readFile,
		"write_file":     writeFile,
		"list_directory": listDirectory,

		"get_config":    getConfig,
		"update_config": updateConfig,
	}
	if a.window != nil {
		table["window_show"] = windowShow
		table["window_hide"] = windowHide
		table["window_close"] = windowClose
		table["quit"] = quit
	}
	return table
}

// Commands lists every registered command name, sorted.
func (a *App) Commands() []string {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named command. Every failure is a *CommandError except for
// unknown names, which wrap ErrUnknownCommand.
func (a *App) Invoke(ctx context.Context, name string, params json.RawMessage) (any, error) {
	cmd, ok := a.commands[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	started := time.Now()
	out, err := a.run(ctx, name, cmd, params)
	if err != nil {
		a.logger.Debug("command failed", "command", name, "kind", KindOf(err), "error", err, "duration", time.Since(started).String())
		return nil, err
	}
	a.logger.Debug("command ok", "command", name, "duration", time.Since(started).String())
	return out, nil
}

func (a *App) run(ctx context.Context, name string, cmd Command, params json.RawMessage) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("command panicked", "command", name, "panic", r)
			out, err = nil, DeploymentError(fmt.Errorf("command %s panicked: %v", name, r))
		}
	}()

	out, err = cmd(ctx, a, params)
	if err == nil {
		return out, nil
	}
	var ce *CommandError
	if !errors.As(err, &ce) {
		err = DeploymentError(err)
	}
	return nil, err
}

// Events exposes the publisher for the bridge's stream endpoint.
func (a *App) Events() events.Publisher { return a.events }

// decodeParams unmarshals the argument object. Missing params decode to the
// zero value so argument-less commands accept an empty body.
func decodeParams[T any](raw json.RawMessage) (T, error) {
	var p T
	if len(raw) == 0 || string(raw) == "null" {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, InvalidRequest("invalid parameters: %v", err)
	}
	return p, nil
}
