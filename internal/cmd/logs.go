package cmd

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/procview/internal/config"
	"github.com/Iron-Ham/procview/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View procview logs",
	Long: `View and filter procview.log from the data directory.

Examples:
  # Show the last 50 entries
  procview logs

  # Show everything
  procview logs -n 0

  # Warnings and errors from the refresher in the last hour
  procview logs --level warn --component refresher --since 1h

  # Signals sent to one process
  procview logs --pid 4242 --grep signal`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsTail      int
	logsLevel     string
	logsComponent string
	logsPID       int32
	logsSince     time.Duration
	logsGrep      string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "Filter by component (tui, refresher, source, ...)")
	logsCmd.Flags().Int32Var(&logsPID, "pid", 0, "Filter by process id")
	logsCmd.Flags().DurationVar(&logsSince, "since", 0, "Show entries newer than this (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter entries whose message contains this text")
}

// logsFilter builds the entry filter from the command flags.
func logsFilter(now time.Time) (logging.Filter, error) {
	f := logging.Filter{
		Component: logsComponent,
		PID:       logsPID,
		Contains:  logsGrep,
	}
	if logsLevel != "" {
		level := strings.ToLower(logsLevel)
		if !slices.Contains(config.ValidLogLevels(), level) {
			return f, fmt.Errorf("invalid --level %q: must be one of %s", logsLevel, strings.Join(config.ValidLogLevels(), ", "))
		}
		f.Level = logging.ParseLevel(level)
	}
	if logsSince < 0 {
		return f, fmt.Errorf("invalid --since %s: must be positive", logsSince)
	}
	if logsSince > 0 {
		f.Since = now.Add(-logsSince)
	}
	return f, nil
}

func runLogs(cmd *cobra.Command, args []string) error {
	if logsTail < 0 {
		return fmt.Errorf("invalid --tail %d: must be non-negative", logsTail)
	}
	filter, err := logsFilter(time.Now())
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	entries, err := logging.ReadEntries(cfg.Paths.ResolveDataDir())
	if err != nil {
		return err
	}
	entries = logging.FilterEntries(entries, filter)
	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}
	return logging.WriteText(cmd.OutOrStdout(), entries)
}
