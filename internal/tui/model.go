// Package tui implements the interactive process table.
package tui

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/procview/internal/clipboard"
	"github.com/Iron-Ham/procview/internal/errors"
	"github.com/Iron-Ham/procview/internal/intent"
	"github.com/Iron-Ham/procview/internal/logging"
	"github.com/Iron-Ham/procview/internal/prefs"
	"github.com/Iron-Ham/procview/internal/process"
	"github.com/Iron-Ham/procview/internal/snapshot"
	"github.com/Iron-Ham/procview/internal/tui/keymap"
	"github.com/Iron-Ham/procview/internal/tui/styles"
	"github.com/Iron-Ham/procview/internal/view"
)

// Action timeouts.
const (
	signalTimeout  = 5 * time.Second
	refreshTimeout = 10 * time.Second
)

// Options carries the model's collaborators. Snapshots and Intent are
// required; everything else has a usable default.
type Options struct {
	Snapshots *snapshot.Store
	Intent    *intent.Store
	Users     process.UserResolver
	Signaller process.Signaller
	Clipboard clipboard.Writer
	// Prefs is saved on quit. Nil disables persistence.
	Prefs  prefs.Store
	Logger *logging.Logger
	Keymap *keymap.Keymap
	Styles *styles.Styles

	Mouse       bool
	ConfirmKill bool

	// Now is the clock used for the snapshot age.
	Now func() time.Time
}

// Model is the bubbletea model for the process table.
type Model struct {
	opts   Options
	logger *logging.Logger
	keys   *keymap.Keymap
	styles *styles.Styles

	mode   keymap.Mode
	filter textinput.Model

	rows       []view.Row
	generation uint64
	takenAt    time.Time
	offset     int
	width      int
	height     int

	pending    view.Row
	message    string
	messageErr bool
	quitting   bool
}

// NewModel builds a model and runs the pipeline once over whatever the
// snapshot store currently holds.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	if opts.Keymap == nil {
		opts.Keymap = keymap.DefaultKeymap()
	}
	if opts.Styles == nil {
		opts.Styles = styles.New(styles.DefaultPalette())
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.Discard{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter by name, user or path"
	ti.CharLimit = 256
	ti.SetValue(opts.Intent.State().Filter)

	m := Model{
		opts:   opts,
		logger: opts.Logger.WithComponent("tui"),
		keys:   opts.Keymap,
		styles: opts.Styles,
		mode:   keymap.ModeNormal,
		filter: ti,
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.rebuild()
	return m
}

// Init requests an immediate refresh so the first frame is populated.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), ageTick())
}

// Update handles messages and user input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.filter.Width = max(0, msg.Width-2)
		m.ensureVisible()
		return m, nil

	case refreshedMsg:
		m.rebuild()
		return m, nil

	case ageTickMsg:
		return m, ageTick()

	case actionMsg:
		m.setResult(msg.text, msg.err)
		return m, nil

	case quitMsg:
		return m.quit()

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case keymap.ModeFilter:
			return m.handleFilterKey(msg)
		case keymap.ModeConfirm:
			return m.handleConfirmKey(msg)
		case keymap.ModeHelp:
			return m.handleHelpKey(msg)
		default:
			return m.handleNormalKey(msg)
		}
	}
	return m, nil
}

// Rows returns the rows of the last pipeline run.
func (m Model) Rows() []view.Row {
	return m.rows
}

// Mode returns the current input mode.
func (m Model) Mode() keymap.Mode {
	return m.mode
}

// Message returns the status bar message and whether it is an error.
func (m Model) Message() (string, bool) {
	return m.message, m.messageErr
}

// rebuild reconciles the selection and reruns the pipeline inside a single
// read-locked view of the snapshot.
func (m *Model) rebuild() {
	res := view.FromStore(m.opts.Snapshots, m.opts.Intent, m.opts.Users)
	if res.SelectionCleared {
		m.logger.Debug("selection cleared, process exited")
	}
	m.rows, m.generation, m.takenAt = res.Rows, res.Generation, res.TakenAt
	m.ensureVisible()
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, ok := m.keys.GetBinding(msg, keymap.ModeNormal)
	if !ok {
		return m, nil
	}

	in := m.opts.Intent
	switch cmd {
	case keymap.CmdMoveDown:
		m.moveSelection(1)
	case keymap.CmdMoveUp:
		m.moveSelection(-1)
	case keymap.CmdPageDown:
		m.moveSelection(m.bodyHeight())
	case keymap.CmdPageUp:
		m.moveSelection(-m.bodyHeight())
	case keymap.CmdTop:
		m.selectIndex(0)
	case keymap.CmdBottom:
		m.selectIndex(len(m.rows) - 1)

	case keymap.CmdEditFilter:
		m.mode = keymap.ModeFilter
		m.filter.SetValue(in.State().Filter)
		m.filter.CursorEnd()
		return m, m.filter.Focus()
	case keymap.CmdClearFilter:
		if in.State().Filter != "" {
			in.ClearFilter()
			m.filter.SetValue("")
			m.rebuild()
			m.setMessage("Filter cleared")
		}
	case keymap.CmdToggleThreads:
		if in.ToggleThreads() {
			m.setMessage("Showing threads")
		} else {
			m.setMessage("Hiding threads")
		}
		m.rebuild()
	case keymap.CmdToggleTree:
		if in.ToggleHierarchical() {
			m.setMessage("Tree view")
		} else {
			m.setMessage("Flat view, sorted by " + in.State().Sort.String())
		}
		m.rebuild()
	case keymap.CmdSortColumn:
		m.sortByKey(msg)
	case keymap.CmdTogglePause:
		if in.TogglePause() {
			m.setMessage("Refresh paused")
		} else {
			m.setMessage("Refresh resumed")
		}
	case keymap.CmdRefresh:
		return m, m.refreshCmd()
	case keymap.CmdToggleHelp:
		m.mode = keymap.ModeHelp

	case keymap.CmdTerminate:
		if row, ok := m.selectedRow(); ok {
			return m, m.signalCmd(row, false)
		}
		m.setError("No process selected")
	case keymap.CmdKill:
		row, ok := m.selectedRow()
		if !ok {
			m.setError("No process selected")
			break
		}
		if m.opts.ConfirmKill {
			m.pending = row
			m.mode = keymap.ModeConfirm
			break
		}
		return m, m.signalCmd(row, true)

	case keymap.CmdCopyPID:
		m.copySelected("pid", func(r view.Row) string { return fmt.Sprint(r.PID) })
	case keymap.CmdCopyName:
		m.copySelected("name", func(r view.Row) string { return resolved(r.Name) })
	case keymap.CmdCopyPath:
		m.copySelected("path", func(r view.Row) string { return resolved(r.Path) })

	case keymap.CmdQuit:
		return m.quit()
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.keys.GetBinding(msg, keymap.ModeFilter); ok {
		switch cmd {
		case keymap.CmdConfirm:
			m.mode = keymap.ModeNormal
			m.filter.Blur()
			return m, nil
		case keymap.CmdCancel:
			m.mode = keymap.ModeNormal
			m.filter.Blur()
			m.filter.SetValue("")
			m.opts.Intent.ClearFilter()
			m.rebuild()
			return m, nil
		case keymap.CmdQuit:
			return m.quit()
		}
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if v := m.filter.Value(); v != before {
		m.opts.Intent.SetFilter(v)
		m.rebuild()
	}
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, ok := m.keys.GetBinding(msg, keymap.ModeConfirm)
	if !ok {
		return m, nil
	}
	switch cmd {
	case keymap.CmdConfirm:
		m.mode = keymap.ModeNormal
		row := m.pending
		m.pending = view.Row{}
		return m, m.signalCmd(row, true)
	case keymap.CmdCancel:
		m.mode = keymap.ModeNormal
		m.pending = view.Row{}
		m.setMessage("Kill cancelled")
	case keymap.CmdQuit:
		return m.quit()
	}
	return m, nil
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, ok := m.keys.GetBinding(msg, keymap.ModeHelp)
	if !ok {
		return m, nil
	}
	switch cmd {
	case keymap.CmdToggleHelp, keymap.CmdCancel:
		m.mode = keymap.ModeNormal
	case keymap.CmdQuit:
		return m.quit()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.opts.Mouse || m.mode != keymap.ModeNormal {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveSelection(-wheelStep)
	case tea.MouseButtonWheelDown:
		m.moveSelection(wheelStep)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			break
		}
		if msg.Y == headerLine {
			m.clickHeader(msg.X)
			break
		}
		line := msg.Y - bodyTop
		if line >= 0 && line < m.bodyHeight() && m.offset+line < len(m.rows) {
			m.selectIndex(m.offset + line)
		}
	}
	return m, nil
}

func (m *Model) clickHeader(x int) {
	i, ok := columnAt(columnWidths(m.width), x)
	if !ok || !view.Columns[i].Sortable {
		return
	}
	m.applySort(view.Columns[i])
}

func (m *Model) sortByKey(msg tea.KeyMsg) {
	if len(msg.Runes) != 1 {
		return
	}
	i := slices.Index(keymap.SortKeys, msg.Runes[0])
	cols := view.SortableColumns()
	if i < 0 || i >= len(cols) {
		return
	}
	m.applySort(cols[i])
}

func (m *Model) applySort(c view.Column) {
	method := m.opts.Intent.ClickSortColumn(c.Category)
	m.rebuild()
	if m.opts.Intent.State().Hierarchical {
		m.setMessage(fmt.Sprintf("Sort set to %s (applies in flat view)", method))
		return
	}
	m.setMessage("Sorted by " + method.String())
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.savePrefs()
	return *m, tea.Quit
}

func (m *Model) savePrefs() {
	if m.opts.Prefs == nil {
		return
	}
	if err := m.opts.Prefs.Save(m.opts.Intent.Prefs()); err != nil {
		m.logger.Warn("failed to save preferences", "error", err.Error())
	}
}

// cursor returns the index of the selected row, or -1 when nothing visible
// is selected.
func (m Model) cursor() int {
	pid, ok := m.opts.Intent.State().Selected()
	if !ok {
		return -1
	}
	i, _ := view.SelectionIndex(m.rows, pid)
	return i
}

func (m Model) selectedRow() (view.Row, bool) {
	i := m.cursor()
	if i < 0 {
		return view.Row{}, false
	}
	return m.rows[i], true
}

func (m *Model) moveSelection(delta int) {
	if len(m.rows) == 0 {
		return
	}
	cur := m.cursor()
	switch {
	case cur < 0 && delta > 0:
		m.selectIndex(0)
	case cur < 0:
		m.selectIndex(len(m.rows) - 1)
	default:
		m.selectIndex(cur + delta)
	}
}

func (m *Model) selectIndex(i int) {
	if len(m.rows) == 0 {
		return
	}
	i = max(0, min(i, len(m.rows)-1))
	m.opts.Intent.SetSelectedPID(m.rows[i].PID)
	m.ensureVisible()
}

// ensureVisible scrolls so the selected row is on screen and the offset
// stays within the table.
func (m *Model) ensureVisible() {
	h := m.bodyHeight()
	if cur := m.cursor(); cur >= 0 {
		if cur < m.offset {
			m.offset = cur
		}
		if cur >= m.offset+h {
			m.offset = cur - h + 1
		}
	}
	m.offset = max(0, min(m.offset, len(m.rows)-h))
}

// bodyHeight is the number of table rows that fit between the header and
// the bottom lines.
func (m Model) bodyHeight() int {
	chrome := 2 // header and status bar
	if m.showFilterLine() {
		chrome++
	}
	return max(1, m.height-chrome)
}

func (m Model) showFilterLine() bool {
	return m.mode == keymap.ModeFilter || m.opts.Intent.State().Filter != ""
}

func (m *Model) copySelected(what string, pick func(view.Row) string) {
	row, ok := m.selectedRow()
	if !ok {
		m.setError("No process selected")
		return
	}
	text := pick(row)
	if err := m.opts.Clipboard.WriteText(text); err != nil {
		m.logger.Debug("clipboard write failed", "what", what, "error", err.Error())
		m.setResult("", err)
		return
	}
	m.setMessage(fmt.Sprintf("Copied %s %q", what, text))
}

// resolved maps the placeholder for an unresolved field back to "".
func resolved(s string) string {
	if s == view.Placeholder {
		return ""
	}
	return s
}

func (m Model) refreshCmd() tea.Cmd {
	store, logger := m.opts.Snapshots, m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		if err := store.Refresh(ctx); err != nil {
			if errors.IsRetryable(err) {
				// The refresh already in flight will publish.
				logger.Debug("manual refresh skipped", "error", err.Error())
				return nil
			}
			logger.LogError("manual refresh failed", err)
			return actionMsg{err: err}
		}
		return refreshedMsg{generation: store.Generation()}
	}
}

func (m Model) signalCmd(row view.Row, kill bool) tea.Cmd {
	sig := m.opts.Signaller
	logger := m.logger.WithPID(row.PID)
	return func() tea.Msg {
		if sig == nil {
			return actionMsg{err: errors.New("signals are not available")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), signalTimeout)
		defer cancel()

		verb, send := "Terminated", sig.Terminate
		if kill {
			verb, send = "Killed", sig.Kill
		}
		if err := send(ctx, row.PID); err != nil {
			logger.LogError("signal failed", err, "kill", kill)
			return actionMsg{err: err}
		}
		logger.Info("signal sent", "kill", kill, "name", row.Name)
		return actionMsg{text: fmt.Sprintf("%s %d (%s)", verb, row.PID, row.Name)}
	}
}

func (m *Model) setMessage(text string) {
	m.message, m.messageErr = text, false
}

func (m *Model) setError(text string) {
	m.message, m.messageErr = text, true
}

func (m *Model) setResult(text string, err error) {
	if err != nil {
		m.setError(err.Error())
		return
	}
	m.setMessage(text)
}
