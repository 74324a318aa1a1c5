//go:build unix

package process

import (
	"context"
	"errors"
	"os/exec"
	"syscall"
	"testing"

	pverrors "github.com/Iron-Ham/procview/internal/errors"
)

func startSleeper(t *testing.T) *exec.Cmd {
	t.Helper()
	path, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep binary not available")
	}
	cmd := exec.Command(path, "30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start sleeper: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})
	return cmd
}

func TestGopsutilSignaller(t *testing.T) {
	sig := NewGopsutilSignaller(nil)
	ctx := context.Background()

	t.Run("terminate", func(t *testing.T) {
		cmd := startSleeper(t)
		if err := sig.Terminate(ctx, int32(cmd.Process.Pid)); err != nil {
			t.Fatalf("Terminate() = %v", err)
		}
		err := cmd.Wait()
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("expected exit error, got %v", err)
		}
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signal() != syscall.SIGTERM {
			t.Errorf("signal = %v, want SIGTERM", ws.Signal())
		}
	})

	t.Run("kill", func(t *testing.T) {
		cmd := startSleeper(t)
		if err := sig.Kill(ctx, int32(cmd.Process.Pid)); err != nil {
			t.Fatalf("Kill() = %v", err)
		}
		err := cmd.Wait()
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("expected exit error, got %v", err)
		}
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signal() != syscall.SIGKILL {
			t.Errorf("signal = %v, want SIGKILL", ws.Signal())
		}
	})

	t.Run("missing process", func(t *testing.T) {
		err := sig.Terminate(ctx, 1<<30)
		if err == nil {
			t.Fatal("expected error for missing pid")
		}
		if !pverrors.Is(err, pverrors.ErrProcessNotFound) {
			t.Errorf("error %v does not match ErrProcessNotFound", err)
		}
		var sigErr *pverrors.SignalError
		if !pverrors.As(err, &sigErr) || sigErr.Signal != "SIGTERM" {
			t.Errorf("expected SignalError with SIGTERM, got %v", err)
		}
	})
}
