package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ageInterval is how often the status bar's snapshot age is redrawn.
const ageInterval = time.Second

// refreshedMsg announces a newly published snapshot.
type refreshedMsg struct {
	generation uint64
}

// ageTickMsg redraws the snapshot age while the table is frozen.
type ageTickMsg time.Time

// actionMsg reports the outcome of an asynchronous operator action.
type actionMsg struct {
	text string
	err  error
}

// quitMsg asks the model to save preferences and exit. It is sent when the
// process receives SIGINT, SIGTERM or SIGHUP.
type quitMsg struct{}

func ageTick() tea.Cmd {
	return tea.Tick(ageInterval, func(t time.Time) tea.Msg {
		return ageTickMsg(t)
	})
}
