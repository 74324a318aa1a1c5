package proctree

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/Iron-Ham/procview/internal/process"
	"github.com/Iron-Ham/procview/internal/testutil"
)

func flattenPIDs(f *Forest) ([]int32, []int) {
	records, depths := f.Flatten()
	pids := make([]int32, len(records))
	for i, r := range records {
		pids[i] = r.PID
	}
	return pids, depths
}

func TestBuildAndFlatten(t *testing.T) {
	tests := []struct {
		name       string
		records    []process.Record
		wantPIDs   []int32
		wantDepths []int
	}{
		{
			name: "simple chain",
			records: []process.Record{
				testutil.Proc(1, "init"),
				testutil.Child(2, 1, "shell"),
				testutil.Child(3, 2, "editor"),
			},
			wantPIDs:   []int32{1, 2, 3},
			wantDepths: []int{0, 1, 2},
		},
		{
			name: "children listed before parents keep input order",
			records: []process.Record{
				testutil.Child(30, 10, "b"),
				testutil.Child(20, 10, "a"),
				testutil.Proc(10, "root"),
				testutil.Child(40, 20, "a-child"),
			},
			wantPIDs:   []int32{10, 30, 20, 40},
			wantDepths: []int{0, 1, 1, 2},
		},
		{
			name: "multiple roots",
			records: []process.Record{
				testutil.Proc(1, "init"),
				testutil.Proc(2, "kthreadd"),
				testutil.Child(5, 2, "kworker"),
				testutil.Child(6, 1, "sshd"),
			},
			wantPIDs:   []int32{1, 6, 2, 5},
			wantDepths: []int{0, 1, 0, 1},
		},
		{
			name: "orphan and its descendants are dropped",
			records: []process.Record{
				testutil.Proc(1, "init"),
				testutil.Child(3, 2, "shell"),
				testutil.Child(4, 3, "editor"),
				testutil.Child(5, 1, "cron"),
			},
			wantPIDs:   []int32{1, 5},
			wantDepths: []int{0, 1},
		},
		{
			name: "parent cycle without root is unreachable",
			records: []process.Record{
				testutil.Child(7, 8, "a"),
				testutil.Child(8, 7, "b"),
				testutil.Proc(1, "init"),
			},
			wantPIDs:   []int32{1},
			wantDepths: []int{0},
		},
		{
			name: "self parent is unreachable",
			records: []process.Record{
				testutil.Child(9, 9, "loop"),
			},
			wantPIDs:   nil,
			wantDepths: nil,
		},
		{
			name:       "empty input",
			records:    nil,
			wantPIDs:   nil,
			wantDepths: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forest := Build(tt.records)
			pids, depths := flattenPIDs(forest)

			if !slices.Equal(pids, tt.wantPIDs) {
				t.Errorf("pids = %v, want %v", pids, tt.wantPIDs)
			}
			if !slices.Equal(depths, tt.wantDepths) {
				t.Errorf("depths = %v, want %v", depths, tt.wantDepths)
			}
		})
	}
}

func TestFlattenBorrowsRecords(t *testing.T) {
	records := []process.Record{testutil.Proc(1, "init")}
	flat, _ := Build(records).Flatten()
	if flat[0] != &records[0] {
		t.Error("Flatten returned a copy instead of the input record")
	}
}

// randomForest returns a shuffled table where roughly one in eight records
// has a parent pid that does not exist.
func randomForest(rng *rand.Rand, n int) []process.Record {
	records := make([]process.Record, 0, n)
	for i := 1; i <= n; i++ {
		pid := int32(i)
		switch {
		case i == 1 || rng.Intn(10) == 0:
			records = append(records, testutil.Proc(pid, "root"))
		case rng.Intn(8) == 0:
			records = append(records, testutil.Child(pid, int32(n+1+rng.Intn(50)), "orphan"))
		default:
			records = append(records, testutil.Child(pid, int32(1+rng.Intn(i-1)), "child"))
		}
	}
	rng.Shuffle(len(records), func(i, j int) { records[i], records[j] = records[j], records[i] })
	return records
}

// reachable counts records connected to a root via parent links present in
// records.
func reachable(records []process.Record) map[int32]bool {
	byPID := make(map[int32]*process.Record, len(records))
	for i := range records {
		byPID[records[i].PID] = &records[i]
	}

	memo := make(map[int32]bool)
	var isReachable func(pid int32, hops int) bool
	isReachable = func(pid int32, hops int) bool {
		if v, ok := memo[pid]; ok {
			return v
		}
		r, ok := byPID[pid]
		if !ok || hops > len(records) {
			return false
		}
		ppid, hasParent := r.Parent()
		v := !hasParent || isReachable(ppid, hops+1)
		memo[pid] = v
		return v
	}

	out := make(map[int32]bool)
	for pid := range byPID {
		if isReachable(pid, 0) {
			out[pid] = true
		}
	}
	return out
}

func TestFlattenProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		records := randomForest(rng, 5+rng.Intn(200))
		flat, depths := Build(records).Flatten()

		want := reachable(records)
		if len(flat) != len(want) {
			t.Fatalf("round %d: flattened %d nodes, want %d reachable", round, len(flat), len(want))
		}

		depthOf := make(map[int32]int, len(flat))
		for i, r := range flat {
			if !want[r.PID] {
				t.Fatalf("round %d: unreachable pid %d in output", round, r.PID)
			}
			if _, dup := depthOf[r.PID]; dup {
				t.Fatalf("round %d: pid %d emitted twice", round, r.PID)
			}
			depthOf[r.PID] = depths[i]

			ppid, hasParent := r.Parent()
			if !hasParent {
				if depths[i] != 0 {
					t.Fatalf("round %d: root %d at depth %d", round, r.PID, depths[i])
				}
				continue
			}
			parentDepth, seen := depthOf[ppid]
			if !seen {
				t.Fatalf("round %d: pid %d emitted before its parent %d", round, r.PID, ppid)
			}
			if depths[i] != parentDepth+1 {
				t.Fatalf("round %d: pid %d depth %d, parent depth %d", round, r.PID, depths[i], parentDepth)
			}
		}
	}
}

func TestBuildDeepChainDoesNotRecurse(t *testing.T) {
	const n = 200000
	records := make([]process.Record, n)
	records[0] = testutil.Proc(1, "root")
	for i := 1; i < n; i++ {
		records[i] = testutil.Child(int32(i+1), int32(i), "link")
	}

	flat, depths := Build(records).Flatten()
	if len(flat) != n {
		t.Fatalf("flattened %d nodes, want %d", len(flat), n)
	}
	if depths[n-1] != n-1 {
		t.Errorf("last depth = %d, want %d", depths[n-1], n-1)
	}
}
