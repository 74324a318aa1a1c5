package process

import (
	"context"
	"strconv"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/Iron-Ham/procview/internal/errors"
	"github.com/Iron-Ham/procview/internal/logging"
)

// GopsutilSignaller sends SIGTERM/SIGKILL (TerminateProcess on Windows)
// through gopsutil.
type GopsutilSignaller struct {
	logger *logging.Logger
}

// NewGopsutilSignaller creates a signaller. A nil logger discards output.
func NewGopsutilSignaller(logger *logging.Logger) *GopsutilSignaller {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &GopsutilSignaller{logger: logger.WithComponent("signal")}
}

// Terminate asks the process to exit.
func (s *GopsutilSignaller) Terminate(ctx context.Context, pid int32) error {
	return s.send(ctx, pid, "SIGTERM", (*process.Process).TerminateWithContext)
}

// Kill forcefully stops the process.
func (s *GopsutilSignaller) Kill(ctx context.Context, pid int32) error {
	return s.send(ctx, pid, "SIGKILL", (*process.Process).KillWithContext)
}

func (s *GopsutilSignaller) send(ctx context.Context, pid int32, name string, fn func(*process.Process, context.Context) error) error {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		notFound := errors.NewNotFoundError("process", strconv.Itoa(int(pid))).WithCause(err)
		return errors.NewSignalError("cannot signal process", notFound).WithPID(pid).WithSignal(name)
	}

	if err := fn(p, ctx); err != nil {
		s.logger.WithPID(pid).Warn("signal failed", "signal", name, "error", err.Error())
		return errors.NewSignalError("signal rejected", err).WithPID(pid).WithSignal(name)
	}

	s.logger.WithPID(pid).Info("signal sent", "signal", name)
	return nil
}
