package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		wantErr bool
		checkFn func(t *testing.T, cfg *Config)
	}{
		{
			name: "minimal valid config",
			yaml: `
state:
  path: ./test.db
bridge:
  listen: 127.0.0.1:9000
monitor:
  interval: 15s
`,
			checkFn: func(t *testing.T, cfg *Config) {
				if cfg.State.Path != "./test.db" {
					t.Error("state.path not parsed")
				}
				if cfg.Bridge.Listen != "127.0.0.1:9000" {
					t.Error("bridge.listen not parsed")
				}
				if cfg.Monitor.Interval != 15*time.Second {
					t.Errorf("monitor.interval = %v", cfg.Monitor.Interval)
				}
				// Defaults applied for omitted keys.
				if cfg.Monitor.BaseBranch != "main" {
					t.Errorf("monitor.base_branch default not applied: %q", cfg.Monitor.BaseBranch)
				}
				if cfg.Executions.MaxAttempts != 3 {
					t.Errorf("executions.max_attempts default not applied: %d", cfg.Executions.MaxAttempts)
				}
			},
		},
		{
			name: "log env var overrides file",
			yaml: `
service:
  log_level: info
state:
  path: ./test.db
`,
			env: map[string]string{LogEnvVar: "debug"},
			checkFn: func(t *testing.T, cfg *Config) {
				if cfg.Service.LogLevel != "debug" {
					t.Errorf("expected %s override, got %q", LogEnvVar, cfg.Service.LogLevel)
				}
			},
		},
		{
			name: "prefixed env var overrides nested key",
			yaml: `
state:
  path: ./test.db
`,
			env: map[string]string{"TASKDESK_BRIDGE_LISTEN": "127.0.0.1:7000"},
			checkFn: func(t *testing.T, cfg *Config) {
				if cfg.Bridge.Listen != "127.0.0.1:7000" {
					t.Errorf("expected env override, got %q", cfg.Bridge.Listen)
				}
			},
		},
		{
			name: "non-positive interval rejected",
			yaml: `
state:
  path: ./test.db
monitor:
  interval: 0s
`,
			wantErr: true,
		},
		{
			name: "incompatible major version rejected",
			yaml: `
version: 2.0.0
state:
  path: ./test.db
`,
			wantErr: true,
		},
		{
			name: "compatible minor version accepted",
			yaml: `
version: 1.4.0
state:
  path: ./test.db
`,
			checkFn: func(t *testing.T, cfg *Config) {
				if cfg.Version != "1.4.0" {
					t.Errorf("version = %q", cfg.Version)
				}
			},
		},
		{
			name: "non-positive max attempts rejected",
			yaml: `
state:
  path: ./test.db
executions:
  max_attempts: 0
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeConfig(t, tt.yaml)

			cfg, err := Load(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.SourceFile != path {
				t.Errorf("SourceFile = %q, want %q", cfg.SourceFile, path)
			}
			if tt.checkFn != nil {
				tt.checkFn(t, cfg)
			}
		})
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDirectoryResolvesConfigYAML(t *testing.T) {
	path := writeConfig(t, "state:\n  path: ./dir.db\n")
	cfg, err := Load(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, "./dir.db", cfg.State.Path)
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	d := Defaults()
	assert.Equal(t, d.Bridge.Listen, cfg.Bridge.Listen)
	assert.Equal(t, d.Monitor.Interval, cfg.Monitor.Interval)
	assert.Equal(t, d.Bridge.AllowedOrigins, cfg.Bridge.AllowedOrigins)

	assert.Error(t, WriteDefault(path), "second write must refuse to overwrite")
}

func TestIsCompatible(t *testing.T) {
	for version, want := range map[string]bool{
		"1.0.0": true,
		"1.9.3": true,
		"0.9.0": false,
		"2.0.0": false,
	} {
		got, err := IsCompatible(version)
		require.NoError(t, err, version)
		assert.Equal(t, want, got, version)
	}

	_, err := IsCompatible("not-a-version")
	assert.Error(t, err)
}
