package process

import (
	"context"
	"os"
	"os/user"
	"runtime"
	"sync"
	"testing"
	"time"
)

func TestThreadKind(t *testing.T) {
	tests := []struct {
		kind     ThreadKind
		name     string
		isThread bool
	}{
		{ThreadNone, "none", false},
		{ThreadKernel, "kernel", true},
		{ThreadUserland, "userland", true},
		{ThreadKind(42), "unknown", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.kind.IsThread(); got != tt.isThread {
				t.Errorf("IsThread() = %v, want %v", got, tt.isThread)
			}
		})
	}
}

func TestIsKernelThread(t *testing.T) {
	tests := []struct {
		name string
		goos string
		rec  Record
		want bool
	}{
		{"kthreadd", "linux", Record{PID: 2}, true},
		{"child of kthreadd", "linux", Record{PID: 57, ParentPID: 2, HasParent: true}, true},
		{"regular process", "linux", Record{PID: 900, ParentPID: 1, HasParent: true}, false},
		{"init", "linux", Record{PID: 1}, false},
		{"pid 2 on darwin", "darwin", Record{PID: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isKernelThread(tt.goos, tt.rec); got != tt.want {
				t.Errorf("isKernelThread() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDelta(t *testing.T) {
	if got := delta(150, 100); got != 50 {
		t.Errorf("delta(150, 100) = %d", got)
	}
	if got := delta(10, 100); got != 0 {
		t.Errorf("delta(10, 100) = %d, want 0 for a reset counter", got)
	}
}

func TestStatusLabel(t *testing.T) {
	tests := map[string]string{
		"running": "Running",
		"sleep":   "Sleeping",
		"stop":    "Stopped",
		"zombie":  "Zombie",
		"idle":    "Idle",
		"":        "Unknown",
		"parked":  "parked",
	}
	for in, want := range tests {
		if got := statusLabel(in); got != want {
			t.Errorf("statusLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRecordParent(t *testing.T) {
	r := Record{PID: 3, ParentPID: 2, HasParent: true}
	if ppid, ok := r.Parent(); !ok || ppid != 2 {
		t.Errorf("Parent() = %d, %v", ppid, ok)
	}
	root := Record{PID: 1}
	if _, ok := root.Parent(); ok {
		t.Error("root reported a parent")
	}
}

func TestUserCache(t *testing.T) {
	var mu sync.Mutex
	calls := map[string]int{}
	lookup := func(uid string) (*user.User, error) {
		mu.Lock()
		calls[uid]++
		mu.Unlock()
		if uid == "1000" {
			return &user.User{Uid: uid, Username: "alice"}, nil
		}
		return nil, user.UnknownUserIdError(0)
	}
	cache := newUserCache(lookup)

	for i := 0; i < 3; i++ {
		name, ok := cache.LookupUser(1000)
		if !ok || name != "alice" {
			t.Fatalf("LookupUser(1000) = %q, %v", name, ok)
		}
		if _, ok := cache.LookupUser(4242); ok {
			t.Fatal("LookupUser(4242) resolved unexpectedly")
		}
	}

	if calls["1000"] != 1 || calls["4242"] != 1 {
		t.Errorf("lookups not cached: %v", calls)
	}
}

func TestGopsutilSourceFindsSelf(t *testing.T) {
	src := NewGopsutilSource(SourceConfig{Workers: 4}, nil)
	if src.CPUCount() < 1 {
		t.Fatalf("CPUCount() = %d", src.CPUCount())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for round := 0; round < 2; round++ {
		records, err := src.Processes(ctx)
		if err != nil {
			t.Fatalf("Processes() round %d: %v", round, err)
		}

		seen := make(map[int32]bool, len(records))
		var self *Record
		for i := range records {
			r := &records[i]
			if seen[r.PID] {
				t.Fatalf("duplicate pid %d", r.PID)
			}
			seen[r.PID] = true
			if r.PID == int32(os.Getpid()) {
				self = r
			}
		}

		if self == nil {
			t.Fatalf("own pid %d missing from round %d", os.Getpid(), round)
		}
		if !self.HasName {
			t.Error("own process has no name")
		}
		if self.ThreadKind != ThreadNone {
			t.Errorf("own process ThreadKind = %v", self.ThreadKind)
		}
		if self.CPU < 0 {
			t.Errorf("negative CPU %f", self.CPU)
		}
	}
}

func TestGopsutilSourceCancelledContext(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("context cancellation is only checked by the linux enumerator")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewGopsutilSource(SourceConfig{}, nil)
	// Must not panic; an error or a partial table are both acceptable.
	_, _ = src.Processes(ctx)
}
