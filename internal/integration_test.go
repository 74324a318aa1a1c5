// Package internal contains integration tests that drive the process source,
// snapshot store, refresher and view pipeline together.
package internal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/procview/internal/intent"
	"github.com/Iron-Ham/procview/internal/logging"
	"github.com/Iron-Ham/procview/internal/prefs"
	"github.com/Iron-Ham/procview/internal/process"
	"github.com/Iron-Ham/procview/internal/snapshot"
	"github.com/Iron-Ham/procview/internal/testutil"
	"github.com/Iron-Ham/procview/internal/view"
)

func pids(rows []view.Row) []int32 {
	out := make([]int32, len(rows))
	for i, r := range rows {
		out[i] = r.PID
	}
	return out
}

func equalPIDs(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestRefreshToRows simulates the TUI loop: the refresher publishes, the
// callback rebuilds rows from the store and the intent.
func TestRefreshToRows(t *testing.T) {
	src := testutil.NewFakeSource(1,
		testutil.Proc(1, "init", testutil.WithCPU(2)),
		testutil.Child(10, 1, "sshd", testutil.WithCPU(8)),
		testutil.Child(11, 10, "bash"),
		testutil.Child(20, 1, "kworker", testutil.WithThreadKind(process.ThreadKernel)),
	)
	store := snapshot.NewStore(src, logging.NopLogger())
	in := intent.NewStore(intent.DefaultState())
	in.SetSelectedPID(11)

	refresher := snapshot.NewRefresher(store, in, time.Hour, logging.NopLogger())

	var mu sync.Mutex
	var rows []view.Row
	refresher.OnRefresh(func(uint64) {
		mu.Lock()
		defer mu.Unlock()
		rows = view.FromStore(store, in, nil).Rows
	})

	ctx := context.Background()
	if !refresher.Tick(ctx) {
		t.Fatal("first tick did not publish")
	}
	mu.Lock()
	if got, want := pids(rows), []int32{1, 10, 11}; !equalPIDs(got, want) {
		t.Errorf("tree rows = %v, want %v", got, want)
	}
	mu.Unlock()
	if pid, ok := in.State().Selected(); !ok || pid != 11 {
		t.Errorf("selection = %d, %v; want 11", pid, ok)
	}

	// bash exits; the selection must not outlive it.
	src.SetRecords(
		testutil.Proc(1, "init", testutil.WithCPU(2)),
		testutil.Child(10, 1, "sshd", testutil.WithCPU(8)),
	)
	in.SetHierarchical(false)
	if !refresher.Tick(ctx) {
		t.Fatal("second tick did not publish")
	}
	mu.Lock()
	if got, want := pids(rows), []int32{10, 1}; !equalPIDs(got, want) {
		t.Errorf("flat rows = %v, want %v (cpu:desc)", got, want)
	}
	mu.Unlock()
	if _, ok := in.State().Selected(); ok {
		t.Error("selection survived the process exit")
	}

	in.TogglePause()
	if refresher.Tick(ctx) {
		t.Error("tick published while paused")
	}
	if store.Generation() != 2 {
		t.Errorf("generation = %d, want 2", store.Generation())
	}
}

// TestPrefsRestoreView saves the view state, restores it into a fresh
// intent store and checks the pipeline honours it.
func TestPrefsRestoreView(t *testing.T) {
	fs := afero.NewMemMapFs()
	saved := prefs.NewFileStore(fs, "/state")

	before := intent.NewStore(intent.DefaultState())
	before.SetHierarchical(false)
	before.SetSort(intent.SortMethod{Category: intent.SortByMemory, Direction: intent.Ascending})
	before.SetFilter("d")
	if err := saved.Save(before.Prefs()); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	p, err := saved.Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	after := intent.NewStore(intent.DefaultState())
	after.ApplyPrefs(p)

	src := testutil.NewFakeSource(1,
		testutil.Proc(1, "init", testutil.WithMemory(100)),
		testutil.Child(2, 1, "sshd", testutil.WithMemory(300)),
		testutil.Child(3, 1, "systemd-udevd", testutil.WithMemory(200)),
	)
	store := snapshot.NewStore(src, nil)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() = %v", err)
	}

	rows := view.FromStore(store, after, nil).Rows
	if got, want := pids(rows), []int32{3, 2}; !equalPIDs(got, want) {
		t.Errorf("restored rows = %v, want %v", got, want)
	}
}
