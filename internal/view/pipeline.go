// Package view turns a process snapshot plus the operator's view state into
// the ordered rows shown on screen.
//
// The pipeline runs: thread filter, then either tree build and pre-order
// flatten (hierarchical view) or a stable sort (flat view), then the text
// filter. Field extraction happens as rows are produced. The text filter is
// applied to the extracted rows; since it only removes rows and the sort is
// stable, filtering before or after sorting yields the same sequence.
package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Iron-Ham/procview/internal/intent"
	"github.com/Iron-Ham/procview/internal/process"
	"github.com/Iron-Ham/procview/internal/proctree"
	"github.com/Iron-Ham/procview/internal/snapshot"
)

// Placeholder is shown for any field the source could not resolve.
const Placeholder = "-"

// Row is one display line. Rows are rebuilt on every run and never mutated.
type Row struct {
	PID    int32  `json:"pid" yaml:"pid"`
	Name   string `json:"name" yaml:"name"`
	User   string `json:"user" yaml:"user"`
	Memory uint64 `json:"memory_bytes" yaml:"memory_bytes"`
	// CPU is the usage across all cores formatted as "12.34%".
	CPU string `json:"cpu" yaml:"cpu"`
	// CPUPercent is the numeric value behind CPU.
	CPUPercent float64            `json:"cpu_percent" yaml:"cpu_percent"`
	DiskRead   uint64             `json:"disk_read_bytes" yaml:"disk_read_bytes"`
	DiskWrite  uint64             `json:"disk_write_bytes" yaml:"disk_write_bytes"`
	Path       string             `json:"path" yaml:"path"`
	Status     string             `json:"status" yaml:"status"`
	Depth      int                `json:"depth" yaml:"depth"`
	ThreadKind process.ThreadKind `json:"-" yaml:"-"`
}

// Build runs the pipeline over snap. snap must stay valid for the duration
// of the call; callers holding a snapshot.Store should use FromStore so the
// whole run happens under one read lock.
func Build(snap *snapshot.Snapshot, st intent.State, users process.UserResolver) []Row {
	cpus := snap.CPUCount
	if cpus <= 0 {
		cpus = 1
	}

	visible := make([]process.Record, 0, len(snap.Records))
	for i := range snap.Records {
		if st.ShowThreads || !snap.Records[i].ThreadKind.IsThread() {
			visible = append(visible, snap.Records[i])
		}
	}

	var rows []Row
	if st.Hierarchical {
		ordered, depths := proctree.Build(visible).Flatten()
		rows = make([]Row, 0, len(ordered))
		for i, r := range ordered {
			rows = append(rows, extract(r, depths[i], users, cpus))
		}
	} else {
		rows = make([]Row, 0, len(visible))
		for i := range visible {
			rows = append(rows, extract(&visible[i], 0, users, cpus))
		}
	}

	rows = filterText(rows, st.Filter)

	if !st.Hierarchical {
		SortRows(rows, st.Sort)
	}
	return rows
}

// Result is one pipeline run together with the snapshot it was built from.
type Result struct {
	Rows       []Row
	Generation uint64
	TakenAt    time.Time
	// SelectionCleared is set when the selected process was gone from the
	// snapshot.
	SelectionCleared bool
}

// FromStore runs Build inside a single read-locked View on store. Under the
// same lock it drops a selection whose process has exited, then copies the
// view state out of in. Rows is never nil.
func FromStore(store *snapshot.Store, in *intent.Store, users process.UserResolver) Result {
	var res Result
	store.View(func(snap *snapshot.Snapshot) {
		res.SelectionCleared = in.ReconcileSelection(snap)
		res.Rows = Build(snap, in.State(), users)
		res.Generation = snap.Generation
		res.TakenAt = snap.TakenAt
	})
	if res.Rows == nil {
		res.Rows = []Row{}
	}
	return res
}

func extract(r *process.Record, depth int, users process.UserResolver, cpus int) Row {
	row := Row{
		PID:        r.PID,
		Name:       Placeholder,
		User:       Placeholder,
		Memory:     r.Memory,
		CPUPercent: r.CPU / float64(cpus),
		DiskRead:   r.ReadBytes,
		DiskWrite:  r.WrittenBytes,
		Path:       Placeholder,
		Status:     r.Status,
		Depth:      depth,
		ThreadKind: r.ThreadKind,
	}
	row.CPU = fmt.Sprintf("%.2f%%", row.CPUPercent)

	if r.HasName && r.Name != "" {
		row.Name = r.Name
	}
	if r.Exe != "" {
		row.Path = r.Exe
	}
	if r.HasUID && users != nil {
		if name, ok := users.LookupUser(r.UID); ok && name != "" {
			row.User = name
		}
	}
	if row.Status == "" {
		row.Status = Placeholder
	}
	return row
}

// filterText keeps rows whose name, user or path contains text. The match
// is case-sensitive. The input slice is reused.
func filterText(rows []Row, text string) []Row {
	if text == "" {
		return rows
	}
	kept := rows[:0]
	for _, row := range rows {
		if MatchesFilter(row, text) {
			kept = append(kept, row)
		}
	}
	return kept
}

// MatchesFilter reports whether row passes the text filter.
func MatchesFilter(row Row, text string) bool {
	return strings.Contains(row.Name, text) ||
		strings.Contains(row.User, text) ||
		strings.Contains(row.Path, text)
}

// SortRows orders rows by m's category with a stable ascending sort, then
// reverses the whole slice for descending order. Descending is therefore
// the exact mirror of ascending, ties included.
func SortRows(rows []Row, m intent.SortMethod) {
	slices.SortStableFunc(rows, compareBy(m.Category))
	if m.Direction == intent.Descending {
		slices.Reverse(rows)
	}
}

func compareBy(c intent.SortCategory) func(a, b Row) int {
	switch c {
	case intent.SortByMemory:
		return func(a, b Row) int { return cmp.Compare(a.Memory, b.Memory) }
	case intent.SortByCPU:
		return func(a, b Row) int { return cmp.Compare(a.CPUPercent, b.CPUPercent) }
	case intent.SortByDiskRead:
		return func(a, b Row) int { return cmp.Compare(a.DiskRead, b.DiskRead) }
	case intent.SortByDiskWrite:
		return func(a, b Row) int { return cmp.Compare(a.DiskWrite, b.DiskWrite) }
	case intent.SortByStatus:
		return func(a, b Row) int { return cmp.Compare(a.Status, b.Status) }
	case intent.SortByName:
		return func(a, b Row) int { return cmp.Compare(a.Name, b.Name) }
	case intent.SortByUser:
		return func(a, b Row) int { return cmp.Compare(a.User, b.User) }
	default:
		return func(a, b Row) int { return cmp.Compare(a.PID, b.PID) }
	}
}

// SelectionIndex returns the index of the row with pid.
func SelectionIndex(rows []Row, pid int32) (int, bool) {
	for i := range rows {
		if rows[i].PID == pid {
			return i, true
		}
	}
	return -1, false
}
