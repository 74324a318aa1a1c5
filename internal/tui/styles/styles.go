package styles

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles holds the lipgloss styles used to render one frame.
type Styles struct {
	Palette *ColorPalette

	Title        lipgloss.Style
	Header       lipgloss.Style
	HeaderActive lipgloss.Style
	Cell         lipgloss.Style
	Selected     lipgloss.Style
	Muted        lipgloss.Style
	Thread       lipgloss.Style
	StatusBar    lipgloss.Style
	Paused       lipgloss.Style
	Message      lipgloss.Style
	Error        lipgloss.Style
	Prompt       lipgloss.Style
	HelpBox      lipgloss.Style
	HelpKey      lipgloss.Style
	HelpDesc     lipgloss.Style
	HelpCategory lipgloss.Style

	cold, hot colorful.Color
	heatOK    bool
}

// New builds the styles for p.
func New(p *ColorPalette) *Styles {
	s := &Styles{
		Palette: p,

		Title:        lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Header:       lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		HeaderActive: lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Cell:         lipgloss.NewStyle().Foreground(p.Text),
		Selected:     lipgloss.NewStyle().Bold(true).Foreground(p.Text).Background(p.Surface),
		Muted:        lipgloss.NewStyle().Foreground(p.Muted),
		Thread:       lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		StatusBar:    lipgloss.NewStyle().Foreground(p.Text).Background(p.Surface).Padding(0, 1),
		Paused:       lipgloss.NewStyle().Bold(true).Foreground(p.Warning).Background(p.Surface),
		Message:      lipgloss.NewStyle().Foreground(p.Secondary).Background(p.Surface),
		Error:        lipgloss.NewStyle().Foreground(p.Error).Background(p.Surface),
		Prompt:       lipgloss.NewStyle().Bold(true).Foreground(p.Warning),
		HelpBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(1, 2),
		HelpKey:      lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		HelpDesc:     lipgloss.NewStyle().Foreground(p.Muted),
		HelpCategory: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(p.Secondary),
	}

	cold, errCold := colorful.Hex(string(p.CPUCold))
	hot, errHot := colorful.Hex(string(p.CPUHot))
	if errCold == nil && errHot == nil {
		s.cold, s.hot, s.heatOK = cold, hot, true
	}
	return s
}

// CPUColor maps a CPU percentage (0 to 100, normalized across cores) onto
// the palette's cold-to-hot gradient. Values outside the range clamp.
func (s *Styles) CPUColor(percent float64) lipgloss.Color {
	if !s.heatOK {
		return s.Palette.Text
	}
	if math.IsNaN(percent) {
		percent = 0
	}
	t := math.Max(0, math.Min(1, percent/100))
	return lipgloss.Color(s.cold.BlendLab(s.hot, t).Clamped().Hex())
}

// StatusColor returns the foreground for a process status label.
func (s *Styles) StatusColor(status string) lipgloss.Color {
	switch status {
	case "Running":
		return s.Palette.Secondary
	case "Stopped", "Locked":
		return s.Palette.Warning
	case "Zombie":
		return s.Palette.Error
	default:
		return s.Palette.Muted
	}
}
