package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/procview/internal/snapshot"
)

// App wraps the Bubbletea program
type App struct {
	program   *tea.Program
	model     Model
	refresher *snapshot.Refresher
}

// New creates a new TUI application. The refresher is started by Run and
// stopped when the program exits.
func New(opts Options, refresher *snapshot.Refresher) *App {
	return &App{
		model:     NewModel(opts),
		refresher: refresher,
	}
}

// Run starts the TUI application
func (a *App) Run() error {
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if a.model.opts.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	a.program = tea.NewProgram(a.model, progOpts...)

	// Quit through the model so preferences are saved on signals too.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		if _, ok := <-sigChan; ok {
			a.program.Send(quitMsg{})
		}
	}()

	if a.refresher != nil {
		a.refresher.OnRefresh(func(generation uint64) {
			a.program.Send(refreshedMsg{generation: generation})
		})
		a.refresher.Start()
	}

	_, err := a.program.Run()

	if a.refresher != nil {
		a.refresher.Stop()
		a.refresher.OnRefresh(nil)
	}
	signal.Stop(sigChan)
	close(sigChan)

	return err
}
