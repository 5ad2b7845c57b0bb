package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const appName = "taskdesk"

// SchemaVersion is the config schema this build reads. Files declaring any
// 1.x version are accepted.
const SchemaVersion = "1.0.0"

// Config represents the complete taskdesk configuration.
type Config struct {
	// Version declares the config schema the file was written for.
	Version    string           `mapstructure:"version" yaml:"version"`
	Service    ServiceConfig    `mapstructure:"service" yaml:"service"`
	State      StateConfig      `mapstructure:"state" yaml:"state"`
	Bridge     BridgeConfig     `mapstructure:"bridge" yaml:"bridge"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics" yaml:"analytics"`
	Monitor    MonitorConfig    `mapstructure:"monitor" yaml:"monitor"`
	Executions ExecutionsConfig `mapstructure:"executions" yaml:"executions"`

	// SourceFile is the config file that was read, empty when running on defaults.
	SourceFile string `mapstructure:"-" yaml:"-"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name     string `mapstructure:"name" yaml:"name"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// StateConfig defines where the deployment keeps its data.
type StateConfig struct {
	Path      string `mapstructure:"path" yaml:"path"`
	AssetsDir string `mapstructure:"assets_dir" yaml:"assets_dir"`
}

// BridgeConfig defines the local command bridge the window talks to.
type BridgeConfig struct {
	Listen string `mapstructure:"listen" yaml:"listen"`
	// Token, when set, must be presented as a bearer token on every protected route.
	Token          string   `mapstructure:"token" yaml:"token,omitempty"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// AnalyticsConfig controls session telemetry.
type AnalyticsConfig struct {
	Enabled    bool `mapstructure:"enabled" yaml:"enabled"`
	BufferSize int  `mapstructure:"buffer_size" yaml:"buffer_size"`
}

// MonitorConfig controls the background merge monitor.
type MonitorConfig struct {
	Interval   time.Duration `mapstructure:"interval" yaml:"interval"`
	BaseBranch string        `mapstructure:"base_branch" yaml:"base_branch"`
}

// ExecutionsConfig controls executor run bookkeeping.
type ExecutionsConfig struct {
	MaxAttempts int `mapstructure:"max_attempts" yaml:"max_attempts"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	dataDir := filepath.Join(xdg.DataHome, appName)
	return &Config{
		Version: SchemaVersion,
		Service: ServiceConfig{
			Name:     appName,
			LogLevel: "info",
		},
		State: StateConfig{
			Path:      filepath.Join(dataDir, "db.sqlite"),
			AssetsDir: dataDir,
		},
		Bridge: BridgeConfig{
			Listen: "127.0.0.1:8765",
			AllowedOrigins: []string{
				"tauri://localhost",
				"http://localhost:5173",
				"http://127.0.0.1:5173",
			},
		},
		Analytics: AnalyticsConfig{
			Enabled:    true,
			BufferSize: 64,
		},
		Monitor: MonitorConfig{
			Interval:   60 * time.Second,
			BaseBranch: "main",
		},
		Executions: ExecutionsConfig{
			MaxAttempts: 3,
		},
	}
}
