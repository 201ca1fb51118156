// Package config holds the immutable run configuration: the target table, the
// Kibana panel table, selectors, timeouts and credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Mode selects which capture steps run for a console target.
type Mode string

const (
	// ModeFull captures the home dashboard and the health issues panel.
	ModeFull Mode = "full"
	// ModeStatus captures only the status pane.
	ModeStatus Mode = "status"
)

// Config represents the run configuration.
type Config struct {
	OutputDir string        `toml:"output_dir" yaml:"output_dir"`
	Headless  bool          `toml:"headless" yaml:"headless"`
	Console   ConsoleConfig `toml:"console" yaml:"console"`
	Kibana    KibanaConfig  `toml:"kibana" yaml:"kibana"`
	Targets   []Target      `toml:"targets" yaml:"targets"`
	Logging   LoggingConfig `toml:"logging" yaml:"logging"`
	Metrics   MetricsConfig `toml:"metrics" yaml:"metrics"`
}

// Target is one cluster-management console to capture.
type Target struct {
	Label     string `toml:"label" yaml:"label"`
	BaseURL   string `toml:"base_url" yaml:"base_url"`
	ClusterID string `toml:"cluster_id" yaml:"cluster_id"`
	Mode      Mode   `toml:"mode" yaml:"mode"`
}

// LoginURL returns the console login page.
func (t Target) LoginURL() string {
	return strings.TrimRight(t.BaseURL, "/") + "/cmf/login"
}

// HealthURL returns the health issues page for the target's cluster.
func (t Target) HealthURL() string {
	return fmt.Sprintf("%s/cmf/allHealthIssues?clusterId=%s", strings.TrimRight(t.BaseURL, "/"), t.ClusterID)
}

// ConsoleConfig contains the cluster-management console settings shared by all targets.
type ConsoleConfig struct {
	Username string `toml:"-" yaml:"-"`
	Password string `toml:"-" yaml:"-"`

	UsernameField  string `toml:"username_field" yaml:"username_field"`
	PasswordField  string `toml:"password_field" yaml:"password_field"`
	HomePath       string `toml:"home_path" yaml:"home_path"`
	HomeSelector   string `toml:"home_selector" yaml:"home_selector"`
	HealthSelector string `toml:"health_selector" yaml:"health_selector"`
	StatusSelector string `toml:"status_selector" yaml:"status_selector"`
	HealthButton   string `toml:"health_button" yaml:"health_button"`

	LoginTimeout   Duration `toml:"login_timeout" yaml:"login_timeout"`
	VisibleTimeout Duration `toml:"visible_timeout" yaml:"visible_timeout"`
	ButtonTimeout  Duration `toml:"button_timeout" yaml:"button_timeout"`
	IdleTimeout    Duration `toml:"idle_timeout" yaml:"idle_timeout"`
	Settle         Duration `toml:"settle" yaml:"settle"`
	StyleSettle    Duration `toml:"style_settle" yaml:"style_settle"`

	FullViewport   Viewport `toml:"full_viewport" yaml:"full_viewport"`
	StatusViewport Viewport `toml:"status_viewport" yaml:"status_viewport"`
}

// KibanaConfig contains the Kibana panel capture settings.
type KibanaConfig struct {
	Username string `toml:"-" yaml:"-"`
	Password string `toml:"-" yaml:"-"`

	Panels        []Panel  `toml:"panels" yaml:"panels"`
	ReadySelector string   `toml:"ready_selector" yaml:"ready_selector"`
	Zoom          string   `toml:"zoom" yaml:"zoom"`
	Viewport      Viewport `toml:"viewport" yaml:"viewport"`

	FieldTimeout Duration `toml:"field_timeout" yaml:"field_timeout"`
	LoginTimeout Duration `toml:"login_timeout" yaml:"login_timeout"`
	IdleTimeout  Duration `toml:"idle_timeout" yaml:"idle_timeout"`
	ReadyTimeout Duration `toml:"ready_timeout" yaml:"ready_timeout"`
	Settle       Duration `toml:"settle" yaml:"settle"`
	ZoomSettle   Duration `toml:"zoom_settle" yaml:"zoom_settle"`
}

// Panel is one Kibana dashboard panel, saved as <Name>.png.
type Panel struct {
	Name string `toml:"name" yaml:"name"`
	URL  string `toml:"url" yaml:"url"`
}

// Viewport is a browser window size in CSS pixels.
type Viewport struct {
	Width  int64 `toml:"width" yaml:"width"`
	Height int64 `toml:"height" yaml:"height"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// MetricsConfig contains the optional InfluxDB sink. Metrics are disabled
// when URL is empty.
type MetricsConfig struct {
	URL    string `toml:"url" yaml:"url"`
	Token  string `toml:"-" yaml:"-"`
	Org    string `toml:"org" yaml:"org"`
	Bucket string `toml:"bucket" yaml:"bucket"`
}

// Duration is a time.Duration written as a Go duration string in config files.
type Duration struct {
	time.Duration
}

// UnmarshalText parses values like "15s" or "500ms".
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Load builds the configuration with priority: defaults -> file -> env.
// Credentials are read from the environment and validated; a missing console
// credential yields a *MissingCredentialsError.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	// Tables in the file replace the built-in ones rather than extend them.
	targets, panels := cfg.Targets, cfg.Kibana.Panels
	cfg.Targets, cfg.Kibana.Panels = nil, nil

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("config file %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if cfg.Targets == nil {
		cfg.Targets = targets
	}
	if cfg.Kibana.Panels == nil {
		cfg.Kibana.Panels = panels
	}
	return nil
}

// applyEnvOverrides applies environment overrides and credentials to config.
func applyEnvOverrides(cfg *Config) {
	if dir := os.Getenv("PANELSHOT_OUTPUT_DIR"); dir != "" {
		cfg.OutputDir = dir
	}
	if level := os.Getenv("PANELSHOT_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if file := os.Getenv("PANELSHOT_LOG_FILE"); file != "" {
		cfg.Logging.File = file
	}

	cfg.Console.Username = os.Getenv("CLOUDERA_USER")
	cfg.Console.Password = os.Getenv("CLOUDERA_PASSWORD")
	cfg.Kibana.Username = os.Getenv("KIBANA_USER")
	cfg.Kibana.Password = os.Getenv("KIBANA_PASSWORD")

	if url := os.Getenv("INFLUXDB_URL"); url != "" {
		cfg.Metrics.URL = url
	}
	if org := os.Getenv("INFLUXDB_ORG"); org != "" {
		cfg.Metrics.Org = org
	}
	if bucket := os.Getenv("INFLUXDB_BUCKET"); bucket != "" {
		cfg.Metrics.Bucket = bucket
	}
	cfg.Metrics.Token = os.Getenv("INFLUXDB_TOKEN")
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(cfg *Config, headless bool, outputDir string) {
	cfg.Headless = headless
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
}
