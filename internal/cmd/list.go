package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/procview/internal/intent"
	"github.com/Iron-Ham/procview/internal/logging"
	"github.com/Iron-Ham/procview/internal/process"
	"github.com/Iron-Ham/procview/internal/snapshot"
	"github.com/Iron-Ham/procview/internal/view"
)

// Output formats accepted by list --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// maxSample bounds list --sample.
const maxSample = time.Minute

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the process table once",
	Long: `Print the process table once and exit.

CPU and disk figures are computed between two samples; without --sample
they read zero. The view settings from the config file apply unless
overridden by flags: --tree=false prints a sorted table even when
view.hierarchical is on.

Examples:
  # Top CPU consumers
  procview list --sample 1s --sort cpu:desc

  # Process tree as JSON
  procview list --tree --output json

  # Everything owned by www-data
  procview list --filter www-data --threads`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listTree    bool
	listThreads bool
	listFilter  string
	listSort    string
	listOutput  string
	listSample  time.Duration
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listTree, "tree", false, "print the process tree instead of a sorted table")
	listCmd.Flags().BoolVar(&listThreads, "threads", false, "include kernel and userland threads")
	listCmd.Flags().StringVar(&listFilter, "filter", "", "keep processes whose name, user or path contains this text")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort as category:asc|desc (default from view.sort)")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", OutputTable, "output format: table, json or yaml")
	listCmd.Flags().DurationVar(&listSample, "sample", 0, "take a second sample after this long so CPU and disk rates are meaningful")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := listState(cmd, cfg.InitialState())
	if err != nil {
		return err
	}
	switch listOutput {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", listOutput)
	}
	if listSample < 0 || listSample > maxSample {
		return fmt.Errorf("--sample must be between 0 and %s", maxSample)
	}

	source := process.NewGopsutilSource(process.SourceConfig{
		IncludeTasks: cfg.Process.IncludeTasks,
		Workers:      cfg.Process.Workers,
	}, logging.NopLogger())

	rows, err := sampleRows(cmd.Context(), source, st, listSample, process.NewUserCache())
	if err != nil {
		return err
	}
	return writeRows(cmd.OutOrStdout(), rows, listOutput, st.Hierarchical)
}

// listState derives the view state for list from the config and flags.
func listState(cmd *cobra.Command, st intent.State) (intent.State, error) {
	if cmd.Flags().Changed("tree") {
		st.Hierarchical = listTree
	}
	st.Filter = listFilter
	if cmd.Flags().Changed("threads") {
		st.ShowThreads = listThreads
	}
	if listSort != "" {
		m, err := intent.ParseSortMethod(listSort)
		if err != nil {
			return st, fmt.Errorf("invalid --sort: %w", err)
		}
		st.Sort = m
	}
	return st, nil
}

// sampleRows refreshes once, or twice sample apart, and runs the pipeline
// over the result.
func sampleRows(ctx context.Context, source process.Source, st intent.State, sample time.Duration, users process.UserResolver) ([]view.Row, error) {
	store := snapshot.NewStore(source, nil)
	if err := store.Refresh(ctx); err != nil {
		return nil, err
	}
	if sample > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sample):
		}
		if err := store.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	return view.FromStore(store, intent.NewStore(st), users).Rows, nil
}

func writeRows(w io.Writer, rows []view.Row, format string, hierarchical bool) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeTable(w, rows, terminalWidth(w), hierarchical)
	}
}

// terminalWidth returns the width of w when it is a terminal, or 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// writeTable prints rows in the TUI's column layout. A width of 0 means
// unlimited: the Path column is never truncated.
func writeTable(w io.Writer, rows []view.Row, width int, hierarchical bool) error {
	widths := make([]int, len(view.Columns))
	fixed := len(view.Columns) - 1
	pathCol := -1
	for i, c := range view.Columns {
		if c.Width == 0 {
			pathCol = i
			continue
		}
		widths[i] = c.Width
		fixed += c.Width
	}
	if pathCol >= 0 {
		widths[pathCol] = pathWidth(rows, width-fixed)
	}

	header := make([]string, len(view.Columns))
	for i, c := range view.Columns {
		header[i] = c.Pad(c.Title, widths[i])
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(header, " "), " ")); err != nil {
		return err
	}

	cells := make([]string, len(view.Columns))
	for _, row := range rows {
		for i, c := range view.Columns {
			cells[i] = c.Pad(c.Cell(row, hierarchical), widths[i])
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " ")); err != nil {
			return err
		}
	}
	return nil
}

// pathWidth sizes the Path column: whatever room is left on a terminal,
// otherwise the longest path.
func pathWidth(rows []view.Row, room int) int {
	const minWidth = 12
	if room > 0 {
		return max(minWidth, room)
	}
	longest := len("Path")
	for _, r := range rows {
		longest = max(longest, len(r.Path))
	}
	return longest
}
