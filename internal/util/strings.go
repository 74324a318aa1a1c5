// Package util provides column layout helpers shared by the TUI and the
// list command.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/docker/go-units"
	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated cell content.
const Ellipsis = "..."

// TruncateANSI truncates a string to maxWidth visual columns, adding "..." if truncated.
// Escape sequences are preserved, so styled strings stay well formed.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= len(Ellipsis) {
		return Ellipsis
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, Ellipsis)
}

// Truncate shortens plain text to width display columns. Wide runes count
// as two columns. A width of 0 or less yields "".
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= len(Ellipsis) {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// PadRight truncates s to width and pads it with spaces on the right.
func PadRight(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// PadLeft truncates s to width and pads it with spaces on the left.
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(Truncate(s, width), width)
}

// Indent returns the tree indentation for depth: two spaces per level.
func Indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat("  ", depth)
}

// FormatBytes renders n in binary units, e.g. "1.5MiB".
func FormatBytes(n uint64) string {
	return units.BytesSize(float64(n))
}
