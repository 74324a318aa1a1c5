// Package process defines the raw process record captured on every refresh
// and the collaborators that produce or act on it: the enumeration source,
// the user resolver and the signal sender.
package process

import "context"

// ThreadKind distinguishes true processes from lightweight thread entries.
type ThreadKind int

const (
	// ThreadNone marks a true process.
	ThreadNone ThreadKind = iota
	// ThreadKernel marks a kernel thread.
	ThreadKernel
	// ThreadUserland marks a userland task of another process.
	ThreadUserland
)

// String returns the lower-case name of the kind.
func (k ThreadKind) String() string {
	switch k {
	case ThreadNone:
		return "none"
	case ThreadKernel:
		return "kernel"
	case ThreadUserland:
		return "userland"
	default:
		return "unknown"
	}
}

// IsThread reports whether the record is a thread entry rather than a
// process.
func (k ThreadKind) IsThread() bool {
	return k != ThreadNone
}

// Record is the raw per-process sample taken during one refresh. Records are
// replaced wholesale each cycle; a pid in one snapshot has no guaranteed
// relation to the same pid in the next.
type Record struct {
	PID int32

	ParentPID int32
	HasParent bool

	Name    string
	HasName bool

	// Exe is the executable path; empty when it could not be resolved.
	Exe string

	UID    uint32
	HasUID bool

	// Memory is the resident set size in bytes.
	Memory uint64
	// CPU is the usage percentage of a single core, not divided by the
	// number of cores.
	CPU float64

	// ReadBytes and WrittenBytes count disk I/O since the previous refresh.
	ReadBytes    uint64
	WrittenBytes uint64

	ThreadKind ThreadKind
	Status     string
}

// Parent returns the parent pid and whether one is known.
func (r *Record) Parent() (int32, bool) {
	return r.ParentPID, r.HasParent
}

// Source enumerates the live process table.
type Source interface {
	// Processes returns one Record per live process. Pids are unique within
	// a single call.
	Processes(ctx context.Context) ([]Record, error)
	// CPUCount returns the number of logical cores.
	CPUCount() int
}

// UserResolver maps an owner id to an account name.
type UserResolver interface {
	LookupUser(uid uint32) (string, bool)
}

// Signaller delivers termination requests. Both calls are fire-and-forget:
// a nil error only means the request was handed to the OS.
type Signaller interface {
	Terminate(ctx context.Context, pid int32) error
	Kill(ctx context.Context, pid int32) error
}
