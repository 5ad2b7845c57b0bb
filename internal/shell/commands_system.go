package shell

import (
	"context"
	"encoding/json"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type DeploymentInfo struct {
	AssetsDir     string `json:"assets_dir"`
	IsInitialized bool   `json:"is_initialized"`
}

type ExecutorInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Configured  bool   `json:"configured"`
}

// executorCatalog is static; Configured does not reflect real setup state.
var executorCatalog = []ExecutorInfo{
	{Name: "claude-code", DisplayName: "Claude Code", Description: "Anthropic's Claude Code AI assistant", Configured: true},
	{Name: "codex", DisplayName: "OpenAI Codex", Description: "OpenAI's Codex AI assistant", Configured: false},
	{Name: "gemini-cli", DisplayName: "Gemini CLI", Description: "Google's Gemini AI assistant", Configured: false},
}

func healthCheck(_ context.Context, app *App, _ json.RawMessage) (any, error) {
	return HealthResponse{Status: "healthy", Version: app.version}, nil
}

func getDeploymentInfo(_ context.Context, app *App, _ json.RawMessage) (any, error) {
	info := DeploymentInfo{AssetsDir: app.assetsDir}
	if d, ok := app.Handle.Get(); ok {
		info.IsInitialized = true
		if dir := d.AssetsDir(); dir != "" {
			info.AssetsDir = dir
		}
	}
	return info, nil
}

func initializeDeployment(ctx context.Context, app *App, _ json.RawMessage) (any, error) {
	// A dropped client must not abort startup halfway through.
	return app.Orchestrator.Initialize(context.WithoutCancel(ctx))
}

func getExecutors(context.Context, *App, json.RawMessage) (any, error) {
	out := make([]ExecutorInfo, len(executorCatalog))
	copy(out, executorCatalog)
	return out, nil
}

type executorConfigParams struct {
	Name   string                     `json:"name"`
	Config map[string]json.RawMessage `json:"config"`
}

// TODO: persist per-executor settings once executors read them; both
// handlers are placeholders for now.
func getExecutorConfig(_ context.Context, _ *App, raw json.RawMessage) (any, error) {
	if _, err := decodeParams[executorConfigParams](raw); err != nil {
		return nil, err
	}
	return map[string]any{}, nil
}

func updateExecutorConfig(_ context.Context, _ *App, raw json.RawMessage) (any, error) {
	if _, err := decodeParams[executorConfigParams](raw); err != nil {
		return nil, err
	}
	return nil, nil
}

type updateConfigParams struct {
	Config json.RawMessage `json:"config"`
}

func getConfig(_ context.Context, app *App, _ json.RawMessage) (any, error) {
	return app.Config.Get(), nil
}

func updateConfig(_ context.Context, app *App, raw json.RawMessage) (any, error) {
	p, err := decodeParams[updateConfigParams](raw)
	if err != nil {
		return nil, err
	}
	if err := app.Config.Set(p.Config); err != nil {
		return nil, err
	}
	app.events.Publish("config.updated", nil)
	return nil, nil
}

func windowShow(_ context.Context, app *App, _ json.RawMessage) (any, error) {
	if err := app.window.Show(); err != nil {
		return nil, DeploymentError(err)
	}
	return nil, nil
}

func windowHide(_ context.Context, app *App, _ json.RawMessage) (any, error) {
	if err := app.window.Hide(); err != nil {
		return nil, DeploymentError(err)
	}
	return nil, nil
}

func windowClose(_ context.Context, app *App, _ json.RawMessage) (any, error) {
	if err := app.window.RequestClose(); err != nil {
		return nil, DeploymentError(err)
	}
	return nil, nil
}

func quit(_ context.Context, app *App, _ json.RawMessage) (any, error) {
	app.window.Quit()
	return nil, nil
}
