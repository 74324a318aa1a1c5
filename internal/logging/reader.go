package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"
)

// Entry is one parsed line of procview.log.
type Entry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	Component string         `json:"component,omitempty"`
	PID       int32          `json:"pid,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// Filter selects log entries. Zero-valued fields match everything.
type Filter struct {
	// Level keeps entries at or above this level.
	Level string
	// Component keeps entries from this component only.
	Component string
	// PID keeps entries tagged with this pid.
	PID int32
	// Since keeps entries at or after this time.
	Since time.Time
	// Contains keeps entries whose message contains this substring.
	Contains string
}

var levelRank = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ReadEntries parses {dir}/procview.log. Lines that are not valid JSON are
// skipped. Entries are returned in time order.
func ReadEntries(dir string) ([]Entry, error) {
	path := filepath.Join(dir, LogFileName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no log file at %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return parseEntries(f)
}

func parseEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := parseEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time.Before(entries[j].Time)
	})
	return entries, nil
}

func parseEntry(line string) (Entry, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, fmt.Errorf("invalid JSON: %w", err)
	}

	var e Entry
	for key, value := range raw {
		switch key {
		case "time":
			if s, ok := value.(string); ok {
				if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
					e.Time = t
				}
			}
		case "level":
			e.Level, _ = value.(string)
		case "msg":
			e.Message, _ = value.(string)
		case "component":
			e.Component, _ = value.(string)
		case "pid":
			if n, ok := value.(float64); ok {
				e.PID = int32(n)
			}
		default:
			if e.Attrs == nil {
				e.Attrs = make(map[string]any)
			}
			e.Attrs[key] = value
		}
	}
	return e, nil
}

// FilterEntries returns the entries matching every criterion of f.
func FilterEntries(entries []Entry, f Filter) []Entry {
	if f == (Filter{}) {
		return entries
	}

	var out []Entry
	for _, e := range entries {
		if f.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (f Filter) matches(e Entry) bool {
	if f.Level != "" {
		want, okWant := levelRank[strings.ToUpper(f.Level)]
		got, okGot := levelRank[e.Level]
		if okWant && okGot && got < want {
			return false
		}
	}
	if f.Component != "" && e.Component != f.Component {
		return false
	}
	if f.PID != 0 && e.PID != f.PID {
		return false
	}
	if !f.Since.IsZero() && e.Time.Before(f.Since) {
		return false
	}
	if f.Contains != "" && !strings.Contains(e.Message, f.Contains) {
		return false
	}
	return true
}

// WriteText renders entries as one human-readable line each:
//
//	2024-01-02 15:04:05 WARN  [refresher] refresh skipped error=...
func WriteText(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		var b strings.Builder
		fmt.Fprintf(&b, "%s %-5s", e.Time.Local().Format("2006-01-02 15:04:05"), e.Level)
		if e.Component != "" {
			fmt.Fprintf(&b, " [%s]", e.Component)
		}
		b.WriteString(" ")
		b.WriteString(e.Message)
		if e.PID != 0 {
			fmt.Fprintf(&b, " pid=%d", e.PID)
		}

		keys := make([]string, 0, len(e.Attrs))
		for k := range e.Attrs {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.Attrs[k])
		}

		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
