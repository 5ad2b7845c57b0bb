package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mattjoyce/taskdesk/internal/bridge"
	"github.com/mattjoyce/taskdesk/internal/config"
	"github.com/mattjoyce/taskdesk/internal/deployment"
	"github.com/mattjoyce/taskdesk/internal/deployment/local"
	"github.com/mattjoyce/taskdesk/internal/events"
	"github.com/mattjoyce/taskdesk/internal/lock"
	"github.com/mattjoyce/taskdesk/internal/log"
	"github.com/mattjoyce/taskdesk/internal/shell"
	"github.com/mattjoyce/taskdesk/internal/window"
)

var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	os.Exit(runCLI(os.Args[1:]))
}

func runCLI(cliArgs []string) int {
	if len(cliArgs) < 1 {
		printUsage()
		return 1
	}

	cmd := cliArgs[0]
	args := cliArgs[1:]

	switch cmd {
	case "start":
		if hasHelpFlag(args) {
			printStartHelp()
			return 0
		}
		return runStart(args)
	case "config":
		return runConfigNoun(args)
	case "version", "--version":
		return runVersion(args)
	case "help", "--help", "-h":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		return 1
	}
}

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func runVersion(args []string) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "Output version metadata as JSON")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "Usage: taskdesk version [--json]")
		return 1
	}

	info := currentVersionInfo()

	if *jsonOut {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render version JSON: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	fmt.Printf("taskdesk %s\n", info.Version)
	fmt.Printf("commit: %s\n", info.Commit)
	fmt.Printf("built_at: %s\n", info.BuildTime)
	return 0
}

func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:   strings.TrimSpace(version),
		Commit:    "unknown",
		BuildTime: "unknown",
	}
	if info.Version == "" {
		info.Version = "0.0.0-dev"
	}

	commit := strings.TrimSpace(gitCommit)
	if commit == "" || commit == "unknown" {
		commit = strings.TrimSpace(readBuildSetting("vcs.revision"))
	}
	if commit != "" {
		info.Commit = shortenCommit(commit)
	}

	built := strings.TrimSpace(buildDate)
	if built == "" || built == "unknown" {
		built = strings.TrimSpace(readBuildSetting("vcs.time"))
	}
	if t, err := time.Parse(time.RFC3339Nano, built); err == nil {
		info.BuildTime = t.UTC().Format(time.RFC3339)
	}
	return info
}

func shortenCommit(commit string) string {
	if len(commit) <= 12 {
		return commit
	}
	return commit[:12]
}

func readBuildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

func printUsage() {
	fmt.Print(`taskdesk - desktop task board shell

Usage:
  taskdesk <command> [flags]

Commands:
  start             Run the shell: command bridge, deployment and monitor
  config show [p]   Print the effective configuration (optionally one path)
  config init       Write a default config file
  version           Show version information
  help              Show this help message

Use 'taskdesk <command> --help' for command flags.
`)
}

func printStartHelp() {
	fmt.Println("Usage: taskdesk start [--config PATH] [--listen ADDR]")
}

func printConfigNounHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: taskdesk config <show|init> [flags]")
}

func isHelpToken(token string) bool {
	return token == "help" || token == "--help" || token == "-h"
}

func hasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}

func runConfigNoun(args []string) int {
	if len(args) < 1 {
		printConfigNounHelp(os.Stderr)
		return 1
	}
	if isHelpToken(args[0]) {
		printConfigNounHelp(os.Stdout)
		return 0
	}

	action := args[0]
	actionArgs := args[1:]

	switch action {
	case "show":
		return runConfigShow(actionArgs)
	case "init":
		return runConfigInit(actionArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n", action)
		return 1
	}
}

func runConfigShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to configuration file or directory")
	jsonOut := fs.Bool("json", false, "Output in structured JSON format")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Load error: %v\n", err)
		return 1
	}

	var result any = cfg
	if fs.NArg() > 0 {
		res, err := cfg.GetPath(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		result = res
	}

	if err := renderValue(os.Stdout, result, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render config: %v\n", err)
		return 1
	}
	return 0
}

func renderValue(w io.Writer, v any, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func runConfigInit(args []string) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	path := fs.String("path", config.DefaultPath(), "Where to write config.yaml")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}
	if err := config.WriteDefault(*path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("Wrote %s\n", *path)
	return 0
}

func runStart(args []string) int {
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to configuration file or directory")
	listen := fs.String("listen", "", "Override bridge.listen")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if *listen != "" {
		cfg.Bridge.Listen = *listen
	}

	log.Setup(cfg.Service.LogLevel)
	logger := log.WithComponent("main")
	logger.Info("taskdesk starting", "version", version, "config", cfg.SourceFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, logger, nil); err != nil {
		logger.Error("taskdesk failed", "error", err)
		return 1
	}
	logger.Info("taskdesk stopped")
	return 0
}

// serve runs the shell until ctx ends, the window asks to quit, or the bridge
// fails. onReady, when set, receives the bound bridge address.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, onReady func(net.Addr)) error {
	pidLockPath := lock.PathFor(cfg.State.Path)
	pidLock, err := lock.AcquirePIDLock(pidLockPath)
	if err != nil {
		return fmt.Errorf("acquire PID lock %s: %w", pidLockPath, err)
	}
	defer pidLock.Release()
	logger.Info("acquired PID lock", "path", pidLockPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := events.NewHub(256)
	win := window.New(hub, log.WithComponent("window"))

	app := shell.NewApp(shell.Options{
		Lifetime: ctx,
		Factory: func(ctx context.Context) (deployment.Deployment, error) {
			d, err := local.New(ctx, cfg, hub)
			if err != nil {
				return nil, err
			}
			return d, nil
		},
		Events:    hub,
		Window:    win,
		Version:   version,
		AssetsDir: cfg.State.AssetsDir,
		Logger:    log.WithComponent("shell"),
	})

	srv := bridge.New(bridge.Config{
		Listen:         cfg.Bridge.Listen,
		Token:          cfg.Bridge.Token,
		AllowedOrigins: cfg.Bridge.AllowedOrigins,
	}, app, hub, log.WithComponent("bridge"))

	ln, err := srv.Listen()
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	serveDone := make(chan struct{})
	go func() {
		defer close(serveDone)
		if err := srv.Serve(ctx, ln); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("bridge: %w", err)
		}
	}()

	// The window can reach the shell once the bridge is bound.
	var initTask *shell.InitTask
	win.OnCreated(func() {
		initTask = app.Orchestrator.Start(ctx)
	})
	win.Created()

	if onReady != nil {
		onReady(ln.Addr())
	}
	logger.Info("taskdesk running", "bridge", ln.Addr().String())

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
		win.Quit()
	case <-win.QuitRequested():
		logger.Info("quit requested")
	case runErr = <-errCh:
		logger.Error("component failed", "error", runErr)
	}

	cancel()
	<-serveDone

	if initTask != nil {
		select {
		case <-initTask.Done():
		case <-time.After(10 * time.Second):
			logger.Warn("initialization still running at shutdown")
		}
	}
	if d, ok := app.Handle.Get(); ok {
		if c, ok := d.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logger.Warn("failed to close deployment", "error", err)
			}
		}
	}
	return runErr
}
