package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/procview/internal/intent"
)

// EnvPrefix is prepended to environment overrides, e.g.
// PROCVIEW_REFRESH_INTERVAL for refresh.interval.
const EnvPrefix = "PROCVIEW"

// Config represents the complete procview configuration
type Config struct {
	Refresh RefreshConfig `mapstructure:"refresh" yaml:"refresh"`
	View    ViewConfig    `mapstructure:"view" yaml:"view"`
	Process ProcessConfig `mapstructure:"process" yaml:"process"`
	TUI     TUIConfig     `mapstructure:"tui" yaml:"tui"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Paths   PathsConfig   `mapstructure:"paths" yaml:"paths"`
}

// RefreshConfig controls the background refresher
type RefreshConfig struct {
	// Interval between process table samples (default: 1s, min: 100ms, max: 1m)
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// ViewConfig sets the initial view state. Saved preferences take precedence
// when Remember is on.
type ViewConfig struct {
	// Hierarchical starts in tree view (default: true)
	Hierarchical bool `mapstructure:"hierarchical" yaml:"hierarchical"`
	// ShowThreads includes kernel and userland threads (default: false)
	ShowThreads bool `mapstructure:"show_threads" yaml:"show_threads"`
	// Sort is the flat-view sort, written as "category:direction" (default: "cpu:desc")
	Sort intent.SortMethod `mapstructure:"sort" yaml:"sort"`
	// Remember persists the view state between runs (default: true)
	Remember bool `mapstructure:"remember" yaml:"remember"`
}

// ProcessConfig controls process enumeration
type ProcessConfig struct {
	// IncludeTasks lists userland threads as children of their process (default: false)
	IncludeTasks bool `mapstructure:"include_tasks" yaml:"include_tasks"`
	// Workers bounds parallel metric collection; 0 picks a default (default: 0)
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// Theme is the color theme for the TUI (default: "default")
	Theme string `mapstructure:"theme" yaml:"theme"`
	// Mouse enables header clicks and wheel scrolling (default: true)
	Mouse bool `mapstructure:"mouse" yaml:"mouse"`
	// ConfirmKill asks before sending SIGKILL (default: true)
	ConfirmKill bool `mapstructure:"confirm_kill" yaml:"confirm_kill"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// PathsConfig controls where procview stores data
type PathsConfig struct {
	// DataDir holds the log file and saved view preferences.
	// If empty, defaults to $XDG_STATE_HOME/procview.
	// Supports ~ for home directory expansion.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

// ResolveDataDir returns the resolved data directory path.
func (p *PathsConfig) ResolveDataDir() string {
	if p.DataDir == "" {
		return DefaultDataDir()
	}
	return expandHome(p.DataDir)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Refresh: RefreshConfig{
			Interval: time.Second,
		},
		View: ViewConfig{
			Hierarchical: true,
			ShowThreads:  false,
			Sort:         intent.DefaultSortMethod(),
			Remember:     true,
		},
		Process: ProcessConfig{
			IncludeTasks: false,
			Workers:      0,
		},
		TUI: TUIConfig{
			Theme:       "default",
			Mouse:       true,
			ConfirmKill: true,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   false,
		},
		Paths: PathsConfig{
			DataDir: "", // Empty means use default: $XDG_STATE_HOME/procview
		},
	}
}

// InitialState is the view state the config asks for before saved
// preferences are applied.
func (c *Config) InitialState() intent.State {
	st := intent.DefaultState()
	st.Hierarchical = c.View.Hierarchical
	st.ShowThreads = c.View.ShowThreads
	st.Sort = c.View.Sort
	return st
}

// SetDefaults registers default values with the global viper instance
func SetDefaults() {
	SetDefaultsOn(viper.GetViper())
}

// SetDefaultsOn registers default values with v
func SetDefaultsOn(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("refresh.interval", defaults.Refresh.Interval.String())

	v.SetDefault("view.hierarchical", defaults.View.Hierarchical)
	v.SetDefault("view.show_threads", defaults.View.ShowThreads)
	v.SetDefault("view.sort", defaults.View.Sort.String())
	v.SetDefault("view.remember", defaults.View.Remember)

	v.SetDefault("process.include_tasks", defaults.Process.IncludeTasks)
	v.SetDefault("process.workers", defaults.Process.Workers)

	v.SetDefault("tui.theme", defaults.TUI.Theme)
	v.SetDefault("tui.mouse", defaults.TUI.Mouse)
	v.SetDefault("tui.confirm_kill", defaults.TUI.ConfirmKill)

	v.SetDefault("logging.enabled", defaults.Logging.Enabled)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	v.SetDefault("logging.compress", defaults.Logging.Compress)

	v.SetDefault("paths.data_dir", defaults.Paths.DataDir)
}

// decodeHook turns config strings into durations and text-encoded values
// such as the sort method.
func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// Load reads the configuration from the global viper into a Config struct and validates it
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads the configuration from v and validates it
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "procview")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".procview"
	}
	return filepath.Join(home, ".config", "procview")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultDataDir returns $XDG_STATE_HOME/procview, falling back to
// ~/.local/state/procview.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "procview")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".procview", "state")
	}
	return filepath.Join(home, ".local", "state", "procview")
}
