package tui

import "github.com/Iron-Ham/procview/internal/view"

// Layout constants
const (
	columnGap    = 1  // spaces between columns
	minPathWidth = 12 // Path never shrinks below this
	wheelStep    = 3  // rows moved per wheel notch

	headerLine    = 0 // screen row of the column titles
	bodyTop       = 1 // first screen row of the table body
	defaultHeight = 24
	defaultWidth  = 120
)

// columnWidths returns the width of every entry in view.Columns for a
// terminal total columns wide. Path takes whatever is left.
func columnWidths(total int) []int {
	widths := make([]int, len(view.Columns))
	fixed := columnGap * (len(view.Columns) - 1)
	flex := -1
	for i, c := range view.Columns {
		if c.Width == 0 {
			flex = i
			continue
		}
		widths[i] = c.Width
		fixed += c.Width
	}
	if flex >= 0 {
		widths[flex] = max(minPathWidth, total-fixed)
	}
	return widths
}

// columnAt returns the index of the column under screen column x. Gaps
// belong to no column.
func columnAt(widths []int, x int) (int, bool) {
	start := 0
	for i, w := range widths {
		if x >= start && x < start+w {
			return i, true
		}
		start += w + columnGap
	}
	return -1, false
}
