package errors

import (
	"errors"
	"fmt"
	"testing"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// SnapshotError Tests
// -----------------------------------------------------------------------------

func TestNewSnapshotError_Retryability(t *testing.T) {
	tests := []struct {
		name          string
		cause         error
		wantRetryable bool
		wantSeverity  Severity
	}{
		{"contention", ErrRefreshInProgress, true, SeverityDebug},
		{"panic", ErrSourcePanicked, true, SeverityDebug},
		{"wrapped contention", fmt.Errorf("tick: %w", ErrRefreshInProgress), true, SeverityDebug},
		{"enumeration failure", ErrEnumerationFailed, false, SeverityError},
		{"nil cause", nil, false, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSnapshotError("refresh", tt.cause)
			if err.IsRetryable() != tt.wantRetryable {
				t.Errorf("IsRetryable() = %v, want %v", err.IsRetryable(), tt.wantRetryable)
			}
			if err.Severity() != tt.wantSeverity {
				t.Errorf("Severity() = %v, want %v", err.Severity(), tt.wantSeverity)
			}
			if err.IsUserFacing() {
				t.Error("IsUserFacing() = true, want false")
			}
		})
	}
}

func TestSnapshotError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *SnapshotError
		want string
	}{
		{
			name: "basic error",
			err:  NewSnapshotError("refresh skipped", nil),
			want: "snapshot error: refresh skipped",
		},
		{
			name: "with cause",
			err:  NewSnapshotError("refresh skipped", ErrRefreshInProgress),
			want: "snapshot error: refresh skipped: refresh already in progress",
		},
		{
			name: "with trigger and cause",
			err:  NewSnapshotError("refresh skipped", ErrSourcePanicked).WithTrigger("tick"),
			want: "snapshot error [trigger=tick]: refresh skipped: process source panicked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSnapshotError_Is(t *testing.T) {
	err := NewSnapshotError("refresh", ErrRefreshInProgress).WithTrigger("manual")

	if !Is(err, &SnapshotError{}) {
		t.Error("Is(SnapshotError{}) = false, want true")
	}
	if !Is(err, ErrRefreshInProgress) {
		t.Error("Is(ErrRefreshInProgress) = false, want true")
	}
	if Is(err, ErrSourcePanicked) {
		t.Error("Is(ErrSourcePanicked) = true, want false")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	var snapErr *SnapshotError
	if !As(wrapped, &snapErr) {
		t.Fatal("As(SnapshotError) = false, want true")
	}
	if snapErr.Trigger != "manual" {
		t.Errorf("Trigger = %q, want %q", snapErr.Trigger, "manual")
	}
}

func TestSnapshotError_WithRetryable(t *testing.T) {
	err := NewSnapshotError("refresh", ErrEnumerationFailed).WithRetryable(true)
	if !err.IsRetryable() {
		t.Error("IsRetryable() = false, want true")
	}
}

// -----------------------------------------------------------------------------
// SignalError Tests
// -----------------------------------------------------------------------------

func TestSignalError(t *testing.T) {
	cause := errors.New("operation not permitted")
	err := NewSignalError("terminate failed", cause).WithPID(42).WithSignal("SIGTERM")

	want := "signal error [pid=42, signal=SIGTERM]: terminate failed: operation not permitted"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !err.IsUserFacing() {
		t.Error("IsUserFacing() = false, want true")
	}
	if err.IsRetryable() {
		t.Error("IsRetryable() = true, want false")
	}
	if !Is(err, ErrSignalFailed) {
		t.Error("Is(ErrSignalFailed) = false, want true")
	}
	if !Is(err, cause) {
		t.Error("Is(cause) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// PrefsError Tests
// -----------------------------------------------------------------------------

func TestPrefsError(t *testing.T) {
	err := NewPrefsError("decode failed", ErrPrefsCorrupted).WithPath("/tmp/state.json")

	want := "prefs error [path=/tmp/state.json]: decode failed: preferences data corrupted"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrPrefsCorrupted) {
		t.Error("Is(ErrPrefsCorrupted) = false, want true")
	}
	if !Is(err, &PrefsError{}) {
		t.Error("Is(PrefsError{}) = false, want true")
	}
	if Is(err, &SignalError{}) {
		t.Error("Is(SignalError{}) = true, want false")
	}
}

// -----------------------------------------------------------------------------
// Semantic Error Tests
// -----------------------------------------------------------------------------

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("process", "4242")

	if got := err.Error(); got != "process '4242' not found" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(err, ErrProcessNotFound) {
		t.Error("Is(ErrProcessNotFound) = false, want true")
	}

	other := NewNotFoundError("theme", "neon")
	if Is(other, ErrProcessNotFound) {
		t.Error("theme NotFoundError matched ErrProcessNotFound")
	}

	withCause := NewNotFoundError("process", "7").WithCause(errors.New("gone"))
	if got := withCause.Error(); got != "process '7' not found: gone" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("unknown sort category").WithField("sort").WithValue("rss")

	want := "validation error [field=sort, value=rss]: unknown sort category"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("Is(ErrInvalidInput) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// Classification Helper Tests
// -----------------------------------------------------------------------------

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"bare contention sentinel", ErrRefreshInProgress, true},
		{"wrapped panic sentinel", Wrap(ErrSourcePanicked, "tick"), true},
		{"snapshot contention", NewSnapshotError("x", ErrRefreshInProgress), true},
		{"signal error", NewSignalError("x", nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("IsUserFacing(nil) = true")
	}
	if IsUserFacing(errors.New("raw")) {
		t.Error("IsUserFacing(raw) = true")
	}
	if !IsUserFacing(Wrap(NewSignalError("x", nil), "ctx")) {
		t.Error("IsUserFacing(wrapped SignalError) = false")
	}
}

func TestGetSeverity(t *testing.T) {
	if got := GetSeverity(nil); got != SeverityDebug {
		t.Errorf("GetSeverity(nil) = %v", got)
	}
	if got := GetSeverity(errors.New("raw")); got != SeverityError {
		t.Errorf("GetSeverity(raw) = %v", got)
	}
	if got := GetSeverity(NewPrefsError("x", nil)); got != SeverityWarning {
		t.Errorf("GetSeverity(PrefsError) = %v", got)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) != nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) != nil")
	}

	err := Wrapf(ErrProcessNotFound, "pid %d", 9)
	if err.Error() != "pid 9: process not found" {
		t.Errorf("Wrapf() = %q", err.Error())
	}
	if !Is(err, ErrProcessNotFound) {
		t.Error("Wrapf lost the sentinel")
	}
}
