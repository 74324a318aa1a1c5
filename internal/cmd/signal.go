package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/procview/internal/process"
)

const signalTimeout = 5 * time.Second

var signalCmd = &cobra.Command{
	Use:   "signal <pid>",
	Short: "Terminate or kill a process",
	Long: `Send SIGTERM (default) or SIGKILL to a process.

Examples:
  procview signal 4242
  procview signal 4242 --kill`,
	Args: cobra.ExactArgs(1),
	RunE: runSignal,
}

var signalKill bool

func init() {
	rootCmd.AddCommand(signalCmd)

	signalCmd.Flags().BoolVarP(&signalKill, "kill", "k", false, "send SIGKILL instead of SIGTERM")
}

// parsePID accepts a positive process id.
func parsePID(raw string) (int32, error) {
	pid, err := cast.ToInt32E(raw)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid %q: expected a positive integer", raw)
	}
	return pid, nil
}

func runSignal(cmd *cobra.Command, args []string) error {
	pid, err := parsePID(args[0])
	if err != nil {
		return err
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

	return sendSignal(cmd, process.NewGopsutilSignaller(logger), pid, signalKill)
}

func sendSignal(cmd *cobra.Command, sig process.Signaller, pid int32, kill bool) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), signalTimeout)
	defer cancel()

	name, send := "SIGTERM", sig.Terminate
	if kill {
		name, send = "SIGKILL", sig.Kill
	}
	if err := send(ctx, pid); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sent %s to %d\n", name, pid)
	return nil
}
