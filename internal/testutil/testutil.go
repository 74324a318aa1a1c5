// Package testutil provides fakes and builders shared by procview tests.
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/Iron-Ham/procview/internal/process"
)

// RecordOption customizes a record built by Proc or Child.
type RecordOption func(*process.Record)

// Proc builds a root process record with a resolved name.
func Proc(pid int32, name string, opts ...RecordOption) process.Record {
	r := process.Record{
		PID:     pid,
		Name:    name,
		HasName: name != "",
		Status:  "Running",
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Child builds a record whose parent is ppid.
func Child(pid, ppid int32, name string, opts ...RecordOption) process.Record {
	r := Proc(pid, name, opts...)
	r.ParentPID, r.HasParent = ppid, true
	return r
}

// WithExe sets the executable path.
func WithExe(path string) RecordOption {
	return func(r *process.Record) { r.Exe = path }
}

// WithUID sets a resolved owner id.
func WithUID(uid uint32) RecordOption {
	return func(r *process.Record) { r.UID, r.HasUID = uid, true }
}

// WithMemory sets the resident memory in bytes.
func WithMemory(bytes uint64) RecordOption {
	return func(r *process.Record) { r.Memory = bytes }
}

// WithCPU sets the unnormalized CPU percentage.
func WithCPU(pct float64) RecordOption {
	return func(r *process.Record) { r.CPU = pct }
}

// WithDisk sets the read and written byte counters.
func WithDisk(read, written uint64) RecordOption {
	return func(r *process.Record) { r.ReadBytes, r.WrittenBytes = read, written }
}

// WithStatus sets the status label.
func WithStatus(status string) RecordOption {
	return func(r *process.Record) { r.Status = status }
}

// WithThreadKind marks the record as a thread entry.
func WithThreadKind(kind process.ThreadKind) RecordOption {
	return func(r *process.Record) { r.ThreadKind = kind }
}

// PIDs extracts the pids of records in order.
func PIDs(records []process.Record) []int32 {
	out := make([]int32, len(records))
	for i := range records {
		out[i] = records[i].PID
	}
	return out
}

// FakeSource is a scriptable process.Source. It is safe for concurrent use.
type FakeSource struct {
	mu       sync.Mutex
	records  []process.Record
	cpus     int
	err      error
	panicVal any
	gate     chan struct{}
	entered  chan struct{}
	calls    int
}

// NewFakeSource returns a source that reports records on every call.
func NewFakeSource(cpus int, records ...process.Record) *FakeSource {
	return &FakeSource{records: records, cpus: cpus}
}

// SetRecords replaces the table returned by subsequent calls.
func (f *FakeSource) SetRecords(records ...process.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = records
}

// FailWith makes subsequent calls return err. Nil clears it.
func (f *FakeSource) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// PanicWith makes subsequent calls panic with v. Nil clears it.
func (f *FakeSource) PanicWith(v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.panicVal = v
}

// Block makes subsequent calls wait until the returned release func is
// called. The entered channel receives once per blocked call.
func (f *FakeSource) Block() (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	f.entered = make(chan struct{}, 16)
	gate := f.gate
	var once sync.Once
	return f.entered, func() { once.Do(func() { close(gate) }) }
}

// Calls returns the number of Processes calls so far.
func (f *FakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Processes implements process.Source.
func (f *FakeSource) Processes(ctx context.Context) ([]process.Record, error) {
	f.mu.Lock()
	f.calls++
	records := append([]process.Record(nil), f.records...)
	err, panicVal, gate, entered := f.err, f.panicVal, f.gate, f.entered
	f.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if panicVal != nil {
		panic(panicVal)
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CPUCount implements process.Source.
func (f *FakeSource) CPUCount() int {
	return f.cpus
}

// FakeUsers is a map-backed process.UserResolver.
type FakeUsers map[uint32]string

// LookupUser implements process.UserResolver.
func (u FakeUsers) LookupUser(uid uint32) (string, bool) {
	name, ok := u[uid]
	return name, ok
}

// Signal is one call recorded by FakeSignaller.
type Signal struct {
	PID  int32
	Kill bool
}

// FakeSignaller records terminate/kill requests.
type FakeSignaller struct {
	mu   sync.Mutex
	sent []Signal
	Err  error
}

// Terminate implements process.Signaller.
func (s *FakeSignaller) Terminate(_ context.Context, pid int32) error {
	return s.record(Signal{PID: pid})
}

// Kill implements process.Signaller.
func (s *FakeSignaller) Kill(_ context.Context, pid int32) error {
	return s.record(Signal{PID: pid, Kill: true})
}

func (s *FakeSignaller) record(sig Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sig)
	return s.Err
}

// Sent returns a copy of the recorded requests.
func (s *FakeSignaller) Sent() []Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Signal(nil), s.sent...)
}

// FakeClipboard records clipboard writes.
type FakeClipboard struct {
	mu     sync.Mutex
	writes []string
	Err    error
}

// WriteText implements clipboard.Writer.
func (c *FakeClipboard) WriteText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.writes = append(c.writes, text)
	return nil
}

// Last returns the most recent write, or "" if there was none.
func (c *FakeClipboard) Last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.writes) == 0 {
		return ""
	}
	return c.writes[len(c.writes)-1]
}

// Writes returns the number of successful writes.
func (c *FakeClipboard) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.writes)
}

// IsolateDirs points HOME and the XDG base directories at a fresh temp dir
// so config and state files never touch the real user profile.
func IsolateDirs(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root+"/config")
	t.Setenv("XDG_STATE_HOME", root+"/state")
	return root
}
