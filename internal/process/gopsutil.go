package process

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/sourcegraph/conc/iter"

	"github.com/Iron-Ham/procview/internal/errors"
	"github.com/Iron-Ham/procview/internal/logging"
)

// kthreaddPID is the Linux kernel thread daemon; every kernel thread other
// than itself is its child.
const kthreaddPID = 2

// SourceConfig configures a GopsutilSource.
type SourceConfig struct {
	// IncludeTasks emits one ThreadUserland record per non-leader task of
	// each process. Linux only; ignored elsewhere.
	IncludeTasks bool
	// Workers bounds the number of goroutines collecting per-process
	// metrics. Zero uses GOMAXPROCS.
	Workers int
}

// tracked holds per-pid state that must survive between refreshes so CPU
// percentages and disk counters can be computed as deltas.
type tracked struct {
	proc       *process.Process
	createTime int64
	owner      int32 // owning pid for userland tasks, 0 for processes

	primed    bool
	lastRead  uint64
	lastWrite uint64
}

// GopsutilSource enumerates processes through gopsutil. The first refresh
// reports zero CPU and disk activity for every process since both are
// computed against the previous sample.
type GopsutilSource struct {
	cfg      SourceConfig
	cpuCount int
	logger   *logging.Logger

	mu      sync.Mutex // serializes Processes; guards tracked
	tracked map[int32]*tracked
}

// NewGopsutilSource creates a source. A nil logger discards output.
func NewGopsutilSource(cfg SourceConfig, logger *logging.Logger) *GopsutilSource {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	count, err := cpu.Counts(true)
	if err != nil || count <= 0 {
		count = runtime.NumCPU()
	}

	return &GopsutilSource{
		cfg:      cfg,
		cpuCount: count,
		logger:   logger.WithComponent("source"),
		tracked:  make(map[int32]*tracked),
	}
}

// CPUCount returns the number of logical cores.
func (s *GopsutilSource) CPUCount() int {
	return s.cpuCount
}

// Processes enumerates the process table and samples every process in
// parallel. Fields that cannot be read are left unresolved rather than
// failing the record.
func (s *GopsutilSource) Processes(ctx context.Context) ([]Record, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrEnumerationFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	includeTasks := s.cfg.IncludeTasks && runtime.GOOS == "linux"
	next := make(map[int32]*tracked, len(procs))
	entries := make([]*tracked, 0, len(procs))

	track := func(p *process.Process, owner int32) {
		if _, dup := next[p.Pid]; dup {
			return
		}
		createTime, _ := p.CreateTimeWithContext(ctx)
		t, ok := s.tracked[p.Pid]
		if !ok || t.createTime != createTime || t.owner != owner {
			t = &tracked{proc: p, createTime: createTime, owner: owner}
		}
		next[p.Pid] = t
		entries = append(entries, t)
	}

	for _, p := range procs {
		track(p, 0)
	}
	if includeTasks {
		for _, p := range procs {
			for _, tid := range s.taskIDs(ctx, p) {
				tp, err := process.NewProcessWithContext(ctx, tid)
				if err != nil {
					continue
				}
				track(tp, p.Pid)
			}
		}
	}
	s.tracked = next

	mapper := iter.Mapper[*tracked, Record]{MaxGoroutines: s.cfg.Workers}
	records := mapper.Map(entries, func(t **tracked) Record {
		return collect(ctx, *t)
	})

	s.logger.Debug("enumerated processes", "processes", len(procs), "records", len(records))
	return records, nil
}

// taskIDs returns the ids of p's tasks other than p itself.
func (s *GopsutilSource) taskIDs(ctx context.Context, p *process.Process) []int32 {
	threads, err := p.ThreadsWithContext(ctx)
	if err != nil {
		return nil
	}
	ids := make([]int32, 0, len(threads))
	for tid := range threads {
		if tid != p.Pid {
			ids = append(ids, tid)
		}
	}
	return ids
}

// collect samples a single tracked process. It only touches t, so distinct
// entries may be collected concurrently.
func collect(ctx context.Context, t *tracked) Record {
	p := t.proc
	r := Record{PID: p.Pid, Status: statusLabel("")}

	if t.owner != 0 {
		r.ParentPID, r.HasParent = t.owner, true
		r.ThreadKind = ThreadUserland
	} else if ppid, err := p.PpidWithContext(ctx); err == nil && ppid > 0 {
		r.ParentPID, r.HasParent = ppid, true
	}

	if name, err := p.NameWithContext(ctx); err == nil && name != "" {
		r.Name, r.HasName = name, true
	}
	if exe, err := p.ExeWithContext(ctx); err == nil {
		r.Exe = exe
	}
	if uids, err := p.UidsWithContext(ctx); err == nil && len(uids) > 0 && uids[0] >= 0 {
		r.UID, r.HasUID = uint32(uids[0]), true
	}
	if mem, err := p.MemoryInfoWithContext(ctx); err == nil && mem != nil {
		r.Memory = mem.RSS
	}
	if pct, err := p.PercentWithContext(ctx, 0); err == nil {
		r.CPU = pct
	}
	if io, err := p.IOCountersWithContext(ctx); err == nil && io != nil {
		if t.primed {
			r.ReadBytes = delta(io.ReadBytes, t.lastRead)
			r.WrittenBytes = delta(io.WriteBytes, t.lastWrite)
		}
		t.lastRead, t.lastWrite, t.primed = io.ReadBytes, io.WriteBytes, true
	}
	if status, err := p.StatusWithContext(ctx); err == nil && len(status) > 0 {
		r.Status = statusLabel(status[0])
	}

	if r.ThreadKind == ThreadNone && isKernelThread(runtime.GOOS, r) {
		r.ThreadKind = ThreadKernel
	}
	return r
}

// isKernelThread reports whether r is a Linux kernel thread: kthreadd
// itself or one of its children.
func isKernelThread(goos string, r Record) bool {
	if goos != "linux" {
		return false
	}
	return r.PID == kthreaddPID || (r.HasParent && r.ParentPID == kthreaddPID)
}

// delta returns cur-prev, or 0 when the counter went backwards.
func delta(cur, prev uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}

// statusLabel turns a gopsutil state into the word shown in the status
// column.
func statusLabel(state string) string {
	switch state {
	case process.Running:
		return "Running"
	case process.Sleep:
		return "Sleeping"
	case process.Stop:
		return "Stopped"
	case process.Idle:
		return "Idle"
	case process.Zombie:
		return "Zombie"
	case process.Wait:
		return "Waiting"
	case process.Lock:
		return "Locked"
	case "":
		return "Unknown"
	default:
		return state
	}
}
