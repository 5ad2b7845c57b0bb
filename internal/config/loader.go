package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. TASKDESK_BRIDGE_LISTEN.
const EnvPrefix = "TASKDESK"

// LogEnvVar selects log verbosity for every named subsystem.
const LogEnvVar = "TASKDESK_LOG"

// Load reads configuration from configPath, or discovers config.yaml when
// configPath is empty. A missing discovered file is not an error; defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())
	v.SetConfigType("yaml")

	explicit := configPath != ""
	if !explicit {
		if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
			configPath = p
			explicit = true
		}
	}

	if explicit {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
		}
		if info, err := os.Stat(absPath); err == nil && info.IsDir() {
			absPath = filepath.Join(absPath, "config.yaml")
		}
		v.SetConfigFile(absPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("service.log_level", LogEnvVar, EnvPrefix+"_SERVICE_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("bind %s: %w", LogEnvVar, err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.SourceFile = v.ConfigFileUsed()

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("service.name", d.Service.Name)
	v.SetDefault("service.log_level", d.Service.LogLevel)
	v.SetDefault("state.path", d.State.Path)
	v.SetDefault("state.assets_dir", d.State.AssetsDir)
	v.SetDefault("bridge.listen", d.Bridge.Listen)
	v.SetDefault("bridge.token", d.Bridge.Token)
	v.SetDefault("bridge.allowed_origins", d.Bridge.AllowedOrigins)
	v.SetDefault("analytics.enabled", d.Analytics.Enabled)
	v.SetDefault("analytics.buffer_size", d.Analytics.BufferSize)
	v.SetDefault("monitor.interval", d.Monitor.Interval)
	v.SetDefault("monitor.base_branch", d.Monitor.BaseBranch)
	v.SetDefault("executions.max_attempts", d.Executions.MaxAttempts)
}

func validate(cfg *Config) error {
	var problems []string
	if ok, err := IsCompatible(cfg.Version); err != nil {
		problems = append(problems, err.Error())
	} else if !ok {
		problems = append(problems, fmt.Sprintf("version %s is not compatible with schema %s", cfg.Version, SchemaVersion))
	}
	if strings.TrimSpace(cfg.State.Path) == "" {
		problems = append(problems, "state.path is required")
	}
	if strings.TrimSpace(cfg.Bridge.Listen) == "" {
		problems = append(problems, "bridge.listen is required")
	}
	if cfg.Monitor.Interval <= 0 {
		problems = append(problems, "monitor.interval must be positive")
	}
	if cfg.Executions.MaxAttempts <= 0 {
		problems = append(problems, "executions.max_attempts must be positive")
	}
	if cfg.Analytics.BufferSize < 0 {
		problems = append(problems, "analytics.buffer_size must not be negative")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// IsCompatible checks a declared config version against SchemaVersion using a
// caret constraint.
func IsCompatible(declared string) (bool, error) {
	constraint, err := semver.NewConstraint("^" + SchemaVersion)
	if err != nil {
		return false, fmt.Errorf("invalid schema version: %w", err)
	}
	v, err := semver.NewVersion(declared)
	if err != nil {
		return false, fmt.Errorf("invalid config version %q: %w", declared, err)
	}
	return constraint.Check(v), nil
}

// WriteDefault writes the default configuration as YAML to path. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultPath is where `config init` writes when no path is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}
