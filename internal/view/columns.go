package view

import (
	"strconv"

	"github.com/Iron-Ham/procview/internal/intent"
	"github.com/Iron-Ham/procview/internal/util"
)

// Align is the horizontal alignment of a column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column describes one table column.
type Column struct {
	Title    string
	Width    int
	Align    Align
	Sortable bool
	Category intent.SortCategory
}

// Columns lists the table columns in display order. Path is not sortable.
var Columns = []Column{
	{Title: "Name", Width: 24, Align: AlignLeft, Sortable: true, Category: intent.SortByName},
	{Title: "ID", Width: 8, Align: AlignRight, Sortable: true, Category: intent.SortByID},
	{Title: "User", Width: 12, Align: AlignLeft, Sortable: true, Category: intent.SortByUser},
	{Title: "Memory", Width: 10, Align: AlignRight, Sortable: true, Category: intent.SortByMemory},
	{Title: "CPU", Width: 8, Align: AlignRight, Sortable: true, Category: intent.SortByCPU},
	{Title: "Disk Read", Width: 10, Align: AlignRight, Sortable: true, Category: intent.SortByDiskRead},
	{Title: "Disk Write", Width: 10, Align: AlignRight, Sortable: true, Category: intent.SortByDiskWrite},
	{Title: "Path", Width: 0, Align: AlignLeft},
	{Title: "Status", Width: 9, Align: AlignLeft, Sortable: true, Category: intent.SortByStatus},
}

// SortableColumns returns the sortable columns in display order; the TUI
// binds them to the number keys 1 through 8.
func SortableColumns() []Column {
	out := make([]Column, 0, len(Columns))
	for _, c := range Columns {
		if c.Sortable {
			out = append(out, c)
		}
	}
	return out
}

// Indicator returns the arrow shown next to the active sort column, or ""
// for inactive columns and for hierarchical view, where sort is ignored.
func Indicator(c Column, st intent.State) string {
	if st.Hierarchical || !c.Sortable || c.Category != st.Sort.Category {
		return ""
	}
	if st.Sort.Direction == intent.Descending {
		return "v"
	}
	return "^"
}

// Cell returns the display text of row in column c. Names are indented by
// depth when hierarchical is set.
func (c Column) Cell(row Row, hierarchical bool) string {
	switch c.Title {
	case "Name":
		if hierarchical {
			return util.Indent(row.Depth) + row.Name
		}
		return row.Name
	case "ID":
		return strconv.FormatInt(int64(row.PID), 10)
	case "User":
		return row.User
	case "Memory":
		return util.FormatBytes(row.Memory)
	case "CPU":
		return row.CPU
	case "Disk Read":
		return util.FormatBytes(row.DiskRead)
	case "Disk Write":
		return util.FormatBytes(row.DiskWrite)
	case "Path":
		return row.Path
	case "Status":
		return row.Status
	}
	return ""
}

// Pad truncates or pads s to width according to the column's alignment.
func (c Column) Pad(s string, width int) string {
	if c.Align == AlignRight {
		return util.PadLeft(s, width)
	}
	return util.PadRight(s, width)
}
