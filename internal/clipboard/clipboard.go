// Package clipboard copies text to the system clipboard through the
// terminal using OSC 52 escape sequences.
package clipboard

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/mattn/go-isatty"

	"github.com/Iron-Ham/procview/internal/errors"
)

// Writer places text on the clipboard.
type Writer interface {
	WriteText(text string) error
}

// Multiplexer is the terminal multiplexer the sequence must pass through.
type Multiplexer int

const (
	MuxNone Multiplexer = iota
	MuxTmux
	MuxScreen
)

// DetectMultiplexer inspects TMUX and TERM in the environment.
func DetectMultiplexer(getenv func(string) string) Multiplexer {
	if getenv("TMUX") != "" {
		return MuxTmux
	}
	if strings.HasPrefix(getenv("TERM"), "screen") {
		return MuxScreen
	}
	return MuxNone
}

// OSC52 writes clipboard sequences to a terminal.
type OSC52 struct {
	mu  sync.Mutex
	out io.Writer
	mux Multiplexer
	// limit caps the payload size; 0 means no limit.
	limit int
}

// New returns an OSC52 writer on out. Writes fail with
// ErrClipboardUnavailable unless out is a terminal.
func New(out io.Writer, mux Multiplexer) *OSC52 {
	return &OSC52{out: out, mux: mux}
}

// NewForTerminal writes to stderr so the sequences never mix with the
// program's rendered output on stdout.
func NewForTerminal() *OSC52 {
	return New(os.Stderr, DetectMultiplexer(os.Getenv))
}

// WithLimit caps the encoded payload size.
func (c *OSC52) WithLimit(n int) *OSC52 {
	c.limit = n
	return c
}

// WriteText implements Writer.
func (c *OSC52) WriteText(text string) error {
	if !isTerminal(c.out) {
		return errors.ErrClipboardUnavailable
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := Sequence(text, c.mux, c.limit).WriteTo(c.out); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrClipboardUnavailable, err)
	}
	return nil
}

// Sequence builds the escape sequence for text.
func Sequence(text string, mux Multiplexer, limit int) osc52.Sequence {
	seq := osc52.New(text)
	switch mux {
	case MuxTmux:
		seq = seq.Tmux()
	case MuxScreen:
		seq = seq.Screen()
	}
	if limit > 0 {
		seq = seq.Limit(limit)
	}
	return seq
}

type fdWriter interface {
	Fd() uintptr
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Discard drops every write. Used when the clipboard is disabled.
type Discard struct{}

// WriteText implements Writer.
func (Discard) WriteText(string) error { return errors.ErrClipboardUnavailable }
