package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/procview/internal/config"
	"github.com/Iron-Ham/procview/internal/prefs"
	"github.com/Iron-Ham/procview/internal/tui/styles"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify procview configuration",
	Long: `View or modify procview configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  procview config set refresh.interval 2s
  procview config set view.sort memory:desc
  procview config set tui.theme nord

Valid keys:
` + config.KeyHelp(),
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a commented config file at $XDG_CONFIG_HOME/procview/config.yaml with every option at its default.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configResetViewCmd = &cobra.Command{
	Use:   "reset-view",
	Short: "Forget the saved view state",
	Long:  `Remove state.json so the next start uses the view settings from the config file.`,
	RunE:  runConfigResetView,
}

var configThemesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List color themes",
	Long: `List the built-in themes and any custom themes found in the themes
directory. With --export, print a theme as YAML; save the output to
<config dir>/themes/<name>.yaml and edit it to create a custom theme.`,
	RunE: runConfigThemes,
}

var configThemesExport string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configResetViewCmd)
	configCmd.AddCommand(configThemesCmd)

	configThemesCmd.Flags().StringVar(&configThemesExport, "export", "", "print this theme as YAML")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	// Show where config is being read from
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	return enc.Close()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	value, err := config.ParseValue(key, raw)
	if err != nil {
		return fmt.Errorf("%w\nRun 'procview config set --help' to see valid keys", err)
	}

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = config.ConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set(key, value)
	if _, err := loadConfig(); err != nil {
		return err
	}
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, value)
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", configFile)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFile()
	if err := config.WriteTemplate(configFile); err != nil {
		return fmt.Errorf("%w\nUse 'procview config set' to modify values", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit this file to customize procview's behavior.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", config.ConfigFile())
	fmt.Fprintln(out, "  2. ./config.yaml (current directory)")

	fmt.Fprintln(out, "\n.env files:")
	for _, f := range config.DotEnvFiles() {
		fmt.Fprintf(out, "  %s\n", f)
	}

	fmt.Fprintf(out, "\nEnvironment variables: %s_* (e.g., %s_REFRESH_INTERVAL)\n", config.EnvPrefix, config.EnvPrefix)
	fmt.Fprintf(out, "Themes directory: %s\n", ThemesDir())
	if cfg, err := loadConfig(); err == nil {
		fmt.Fprintf(out, "Data directory: %s\n", cfg.Paths.ResolveDataDir())
	}
	return nil
}

func runConfigResetView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := prefs.NewOSFileStore(cfg.Paths.ResolveDataDir())
	if err := store.Reset(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", store.Path())
	return nil
}

func runConfigThemes(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	registry := styles.NewRegistry()
	_, errs := registry.Discover(ThemesDir())

	if configThemesExport != "" {
		data, err := styles.ExportTheme(styles.ThemeName(configThemesExport), registry)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	current := ""
	if cfg, err := loadConfig(); err == nil {
		current = cfg.TUI.Theme
	}
	mark := func(name string) string {
		if name == current {
			return "* " + name
		}
		return "  " + name
	}

	fmt.Fprintln(out, "Built-in themes:")
	for _, name := range styles.BuiltinThemes() {
		fmt.Fprintln(out, mark(name))
	}
	if custom := registry.Names(); len(custom) > 0 {
		fmt.Fprintf(out, "\nCustom themes (%s):\n", ThemesDir())
		for _, name := range custom {
			fmt.Fprintln(out, mark(name))
		}
	}
	for _, err := range errs {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	if current != "" && !registry.IsValidTheme(current) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: configured theme %s not found, the default is used\n", current)
	}
	return nil
}
