package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/procview/internal/tui/keymap"
	"github.com/Iron-Ham/procview/internal/util"
	"github.com/Iron-Ham/procview/internal/view"
)

// View renders the current frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.mode == keymap.ModeHelp {
		b.WriteString(m.renderHelp())
	} else {
		widths := columnWidths(m.width)
		b.WriteString(m.renderHeader(widths))
		b.WriteByte('\n')
		b.WriteString(m.renderBody(widths))
	}
	if m.showFilterLine() {
		b.WriteString(m.renderFilterLine())
		b.WriteByte('\n')
	}
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader(widths []int) string {
	st := m.opts.Intent.State()
	cells := make([]string, len(view.Columns))
	for i, c := range view.Columns {
		title := c.Title
		style := m.styles.Header
		if ind := view.Indicator(c, st); ind != "" {
			title += " " + ind
			style = m.styles.HeaderActive
		}
		cells[i] = style.Render(c.Pad(title, widths[i]))
	}
	return strings.Join(cells, strings.Repeat(" ", columnGap))
}

func (m Model) renderBody(widths []int) string {
	h := m.bodyHeight()
	var b strings.Builder

	if len(m.rows) == 0 {
		empty := "No processes"
		if m.opts.Intent.State().Filter != "" {
			empty = "No processes match the filter"
		}
		b.WriteString(m.styles.Muted.Render(empty))
		b.WriteByte('\n')
		h--
	}

	cur := m.cursor()
	hier := m.opts.Intent.State().Hierarchical
	end := min(m.offset+h, len(m.rows))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(m.rows[i], widths, hier, i == cur))
		b.WriteByte('\n')
	}
	for i := max(0, end-m.offset); i < h; i++ {
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) renderRow(row view.Row, widths []int, hierarchical bool, selected bool) string {
	gap := strings.Repeat(" ", columnGap)
	cells := make([]string, len(view.Columns))
	for i, c := range view.Columns {
		text := c.Pad(c.Cell(row, hierarchical), widths[i])
		if selected {
			cells[i] = text
			continue
		}
		cells[i] = m.cellStyle(c, row).Render(text)
	}
	line := strings.Join(cells, gap)
	if selected {
		return m.styles.Selected.Render(line)
	}
	return line
}

func (m Model) cellStyle(c view.Column, row view.Row) lipgloss.Style {
	switch c.Title {
	case "Name":
		if row.ThreadKind.IsThread() {
			return m.styles.Thread
		}
	case "CPU":
		return m.styles.Cell.Foreground(m.styles.CPUColor(row.CPUPercent))
	case "Status":
		return m.styles.Cell.Foreground(m.styles.StatusColor(row.Status))
	case "User":
		if row.User == view.Placeholder {
			return m.styles.Muted
		}
	case "Path":
		if row.Path == view.Placeholder {
			return m.styles.Muted
		}
	}
	return m.styles.Cell
}

func (m Model) renderFilterLine() string {
	if m.mode == keymap.ModeFilter {
		return m.filter.View()
	}
	return m.styles.Muted.Render("filter: ") + m.opts.Intent.State().Filter
}

func (m Model) renderStatusBar() string {
	st := m.opts.Intent.State()

	left := fmt.Sprintf("procview  %d processes", len(m.rows))
	if m.generation == 0 {
		left = "procview  loading..."
	} else {
		left += "  " + formatAge(m.opts.Now().Sub(m.takenAt))
	}

	parts := []string{m.styles.StatusBar.Render(left)}
	if !st.ContinueRefreshing {
		parts = append(parts, m.styles.Paused.Render(" PAUSED "))
	}

	switch {
	case m.mode == keymap.ModeConfirm:
		prompt := fmt.Sprintf("Kill %d (%s)? y/n", m.pending.PID, m.pending.Name)
		parts = append(parts, m.styles.Prompt.Render(prompt))
	case m.message != "" && m.messageErr:
		parts = append(parts, m.styles.Error.Render(" "+m.message+" "))
	case m.message != "":
		parts = append(parts, m.styles.Message.Render(" "+m.message+" "))
	default:
		parts = append(parts, m.styles.Muted.Render(" ? help  q quit"))
	}

	return util.TruncateANSI(strings.Join(parts, " "), max(m.width, 4))
}

// formatAge renders how long ago the snapshot was taken.
func formatAge(d time.Duration) string {
	if d < time.Second {
		return "updated just now"
	}
	return "updated " + d.Truncate(time.Second).String() + " ago"
}

func (m Model) renderHelp() string {
	help := m.keys.Help(keymap.ModeNormal)

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("procview keys"))
	b.WriteString("\n")
	for _, cat := range m.keys.GetCategories(keymap.ModeNormal) {
		b.WriteString("\n")
		b.WriteString(m.styles.HelpCategory.Render(cat))
		b.WriteString("\n")
		for _, e := range help[cat] {
			keys := strings.Join(e.Keys, "/")
			b.WriteString("  ")
			b.WriteString(m.styles.HelpKey.Render(util.PadRight(keys, 24)))
			b.WriteString(m.styles.HelpDesc.Render(e.Description))
			b.WriteString("\n")
		}
	}

	box := m.styles.HelpBox.Render(strings.TrimRight(b.String(), "\n"))
	lines := strings.Count(box, "\n") + 1
	pad := max(0, m.height-1-lines)
	if m.showFilterLine() {
		pad--
	}
	return box + strings.Repeat("\n", max(1, pad+1))
}
