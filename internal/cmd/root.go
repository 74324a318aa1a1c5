// Package cmd wires the procview command line.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/procview/internal/clipboard"
	"github.com/Iron-Ham/procview/internal/config"
	"github.com/Iron-Ham/procview/internal/intent"
	"github.com/Iron-Ham/procview/internal/logging"
	"github.com/Iron-Ham/procview/internal/prefs"
	"github.com/Iron-Ham/procview/internal/process"
	"github.com/Iron-Ham/procview/internal/snapshot"
	"github.com/Iron-Ham/procview/internal/tui"
	"github.com/Iron-Ham/procview/internal/tui/styles"
)

var rootCmd = &cobra.Command{
	Use:   "procview",
	Short: "Interactive process monitor",
	Long: `procview shows the running processes as a live table or tree.

The table refreshes in the background; space pauses it, r refreshes once.
Filter with /, sort with 1-8 or by clicking a column header, and press ?
for every key binding.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

var (
	rootInterval time.Duration
	rootFlat     bool
	rootThreads  bool
	rootFilter   string
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/procview/config.yaml)")

	rootCmd.Flags().DurationVar(&rootInterval, "interval", 0, "refresh interval (overrides refresh.interval)")
	rootCmd.Flags().BoolVar(&rootFlat, "flat", false, "start in flat view")
	rootCmd.Flags().BoolVar(&rootThreads, "threads", false, "show kernel and userland threads")
	rootCmd.Flags().StringVar(&rootFilter, "filter", "", "initial process filter")
}

func initConfig() {
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	// Values already in the environment win over .env files.
	if err := config.LoadDotEnv(config.DotEnvFiles()...); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	config.Setup(viper.GetViper(), viper.GetString("config"))
	if err := config.ReadInConfig(viper.GetViper()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read config: %v\n", err)
	}
}

// loadConfig reads and validates the configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger opens procview.log in the data directory, or returns a logger
// that discards everything when logging is disabled.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.NewLoggerWithRotation(cfg.Paths.ResolveDataDir(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	})
}

func runTUI(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("interval") {
		viper.Set("refresh.interval", rootInterval.String())
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer func() { _ = logger.Close() }()
	logger.Info("starting", "interval", cfg.Refresh.Interval.String(), "config", viper.ConfigFileUsed())

	in := intent.NewStore(cfg.InitialState())
	var store prefs.Store
	if cfg.View.Remember {
		fs := prefs.NewOSFileStore(cfg.Paths.ResolveDataDir())
		store = fs
		restorePrefs(fs, in, logger)
	}
	applyViewFlags(cmd, in)

	source := process.NewGopsutilSource(process.SourceConfig{
		IncludeTasks: cfg.Process.IncludeTasks,
		Workers:      cfg.Process.Workers,
	}, logger)
	snapshots := snapshot.NewStore(source, logger)
	refresher := snapshot.NewRefresher(snapshots, in, cfg.Refresh.Interval, logger)

	if viper.ConfigFileUsed() != "" {
		config.Watch(viper.GetViper(), func(c *config.Config) {
			refresher.SetInterval(c.Refresh.Interval)
		}, func(err error) {
			logger.Warn("ignoring invalid config change", "error", err.Error())
		})
	}

	app := tui.New(tui.Options{
		Snapshots:   snapshots,
		Intent:      in,
		Users:       process.NewUserCache(),
		Signaller:   process.NewGopsutilSignaller(logger),
		Clipboard:   clipboard.NewForTerminal(),
		Prefs:       store,
		Logger:      logger,
		Styles:      loadStyles(cfg, logger),
		Mouse:       cfg.TUI.Mouse,
		ConfirmKill: cfg.TUI.ConfirmKill,
	}, refresher)

	return app.Run()
}

// restorePrefs applies saved preferences over the state taken from the
// config. A present file always wins, even when it holds the default values.
func restorePrefs(store *prefs.FileStore, in *intent.Store, logger *logging.Logger) {
	p, found, err := store.LoadSaved()
	switch {
	case err != nil:
		logger.LogError("ignoring saved preferences", err, "path", store.Path())
	case found:
		in.ApplyPrefs(p)
	}
}

// applyViewFlags lets explicit command-line flags override both the config
// file and saved preferences.
func applyViewFlags(cmd *cobra.Command, in *intent.Store) {
	if cmd.Flags().Changed("flat") {
		in.SetHierarchical(!rootFlat)
	}
	if cmd.Flags().Changed("threads") {
		in.SetShowThreads(rootThreads)
	}
	if cmd.Flags().Changed("filter") {
		in.SetFilter(rootFilter)
	}
}

// ThemesDir returns the directory searched for custom theme files.
func ThemesDir() string {
	return filepath.Join(config.ConfigDir(), "themes")
}

func loadStyles(cfg *config.Config, logger *logging.Logger) *styles.Styles {
	registry := styles.NewRegistry()
	loaded, errs := registry.Discover(ThemesDir())
	for _, err := range errs {
		logger.Warn("skipping custom theme", "error", err.Error())
	}
	if len(loaded) > 0 {
		logger.Debug("loaded custom themes", "themes", loaded)
	}
	if !registry.IsValidTheme(cfg.TUI.Theme) {
		logger.Warn("unknown theme, using default", "theme", cfg.TUI.Theme)
	}
	return styles.New(styles.GetPalette(styles.ThemeName(cfg.TUI.Theme), registry))
}
