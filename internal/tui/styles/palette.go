// Package styles holds the TUI color palettes and the lipgloss styles
// derived from them.
package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault       ThemeName = "default"        // Purple/green dark theme
	ThemeMonokai       ThemeName = "monokai"        // Classic Monokai editor colors
	ThemeDracula       ThemeName = "dracula"        // Dracula theme colors
	ThemeNord          ThemeName = "nord"           // Nord theme - cool blue-gray
	ThemeSolarizedDark ThemeName = "solarized-dark" // Solarized Dark by Ethan Schoonover
	ThemeGruvbox       ThemeName = "gruvbox"        // Gruvbox retro groove
	ThemeTokyoNight    ThemeName = "tokyo-night"    // Tokyo Night modern theme
	ThemeCatppuccin    ThemeName = "catppuccin"     // Catppuccin Mocha pastel theme
)

// BuiltinThemes returns all built-in theme names.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeMonokai),
		string(ThemeDracula),
		string(ThemeNord),
		string(ThemeSolarizedDark),
		string(ThemeGruvbox),
		string(ThemeTokyoNight),
		string(ThemeCatppuccin),
	}
}

// IsBuiltinTheme checks if a theme name is a built-in theme.
func IsBuiltinTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// ColorPalette defines the color scheme for a theme.
type ColorPalette struct {
	// Primary accent color (header, active sort column)
	Primary lipgloss.Color
	// Secondary accent color (running processes, success messages)
	Secondary lipgloss.Color
	// Warning color (paused indicator, confirm prompt)
	Warning lipgloss.Color
	// Error color (failed actions, zombies)
	Error lipgloss.Color
	// Muted color (placeholders, tree guides, help descriptions)
	Muted lipgloss.Color
	// Surface color (status bar and selection background)
	Surface lipgloss.Color
	// Text color (primary text)
	Text lipgloss.Color
	// Border color (help overlay border)
	Border lipgloss.Color

	// CPU heat gradient endpoints, idle to saturated
	CPUCold lipgloss.Color
	CPUHot  lipgloss.Color
}

// DefaultPalette returns the default purple/green dark theme palette.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Surface:   lipgloss.Color("#1F2937"), // Dark surface
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500
		CPUCold:   lipgloss.Color("#9CA3AF"),
		CPUHot:    lipgloss.Color("#F87171"),
	}
}

// MonokaiPalette returns the classic Monokai editor theme palette.
func MonokaiPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#F92672"), // Monokai pink/magenta
		Secondary: lipgloss.Color("#A6E22E"), // Monokai green
		Warning:   lipgloss.Color("#E6DB74"), // Monokai yellow
		Error:     lipgloss.Color("#F92672"), // Monokai pink (same as primary)
		Muted:     lipgloss.Color("#75715E"), // Monokai comment gray
		Surface:   lipgloss.Color("#272822"), // Monokai background
		Text:      lipgloss.Color("#F8F8F2"), // Monokai foreground
		Border:    lipgloss.Color("#49483E"), // Monokai selection
		CPUCold:   lipgloss.Color("#75715E"),
		CPUHot:    lipgloss.Color("#FD971F"),
	}
}

// DraculaPalette returns the Dracula theme palette.
func DraculaPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#BD93F9"), // Dracula purple
		Secondary: lipgloss.Color("#50FA7B"), // Dracula green
		Warning:   lipgloss.Color("#F1FA8C"), // Dracula yellow
		Error:     lipgloss.Color("#FF5555"), // Dracula red
		Muted:     lipgloss.Color("#6272A4"), // Dracula comment
		Surface:   lipgloss.Color("#282A36"), // Dracula background
		Text:      lipgloss.Color("#F8F8F2"), // Dracula foreground
		Border:    lipgloss.Color("#44475A"), // Dracula selection
		CPUCold:   lipgloss.Color("#6272A4"),
		CPUHot:    lipgloss.Color("#FF5555"),
	}
}

// NordPalette returns the Nord theme palette.
func NordPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#88C0D0"), // Nord frost (cyan)
		Secondary: lipgloss.Color("#A3BE8C"), // Nord aurora green
		Warning:   lipgloss.Color("#EBCB8B"), // Nord aurora yellow
		Error:     lipgloss.Color("#BF616A"), // Nord aurora red
		Muted:     lipgloss.Color("#4C566A"), // Nord polar night 3
		Surface:   lipgloss.Color("#2E3440"), // Nord polar night 0
		Text:      lipgloss.Color("#ECEFF4"), // Nord snow storm 2
		Border:    lipgloss.Color("#3B4252"), // Nord polar night 1
		CPUCold:   lipgloss.Color("#81A1C1"),
		CPUHot:    lipgloss.Color("#D08770"),
	}
}

// SolarizedDarkPalette returns the Solarized Dark palette.
func SolarizedDarkPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#268BD2"), // Solarized blue
		Secondary: lipgloss.Color("#859900"), // Solarized green
		Warning:   lipgloss.Color("#B58900"), // Solarized yellow
		Error:     lipgloss.Color("#DC322F"), // Solarized red
		Muted:     lipgloss.Color("#586E75"), // Base01
		Surface:   lipgloss.Color("#002B36"), // Base03 background
		Text:      lipgloss.Color("#839496"), // Base0 text
		Border:    lipgloss.Color("#073642"), // Base02
		CPUCold:   lipgloss.Color("#586E75"),
		CPUHot:    lipgloss.Color("#CB4B16"),
	}
}

// GruvboxPalette returns the Gruvbox dark palette.
func GruvboxPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#83A598"), // Gruvbox aqua
		Secondary: lipgloss.Color("#B8BB26"), // Gruvbox green
		Warning:   lipgloss.Color("#FABD2F"), // Gruvbox yellow
		Error:     lipgloss.Color("#FB4934"), // Gruvbox red
		Muted:     lipgloss.Color("#928374"), // Gruvbox gray
		Surface:   lipgloss.Color("#282828"), // Gruvbox bg0
		Text:      lipgloss.Color("#EBDBB2"), // Gruvbox fg
		Border:    lipgloss.Color("#3C3836"), // Gruvbox bg1
		CPUCold:   lipgloss.Color("#928374"),
		CPUHot:    lipgloss.Color("#FE8019"),
	}
}

// TokyoNightPalette returns the Tokyo Night palette.
func TokyoNightPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#7AA2F7"), // Tokyo Night blue
		Secondary: lipgloss.Color("#9ECE6A"), // Tokyo Night green
		Warning:   lipgloss.Color("#E0AF68"), // Tokyo Night yellow
		Error:     lipgloss.Color("#F7768E"), // Tokyo Night red
		Muted:     lipgloss.Color("#565F89"), // Tokyo Night comment
		Surface:   lipgloss.Color("#1A1B26"), // Tokyo Night bg
		Text:      lipgloss.Color("#C0CAF5"), // Tokyo Night fg
		Border:    lipgloss.Color("#292E42"), // Tokyo Night bg_highlight
		CPUCold:   lipgloss.Color("#565F89"),
		CPUHot:    lipgloss.Color("#FF9E64"),
	}
}

// CatppuccinPalette returns the Catppuccin Mocha palette.
func CatppuccinPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#89B4FA"), // Catppuccin blue
		Secondary: lipgloss.Color("#A6E3A1"), // Catppuccin green
		Warning:   lipgloss.Color("#F9E2AF"), // Catppuccin yellow
		Error:     lipgloss.Color("#F38BA8"), // Catppuccin red
		Muted:     lipgloss.Color("#6C7086"), // Catppuccin overlay0
		Surface:   lipgloss.Color("#1E1E2E"), // Catppuccin base
		Text:      lipgloss.Color("#CDD6F4"), // Catppuccin text
		Border:    lipgloss.Color("#313244"), // Catppuccin surface0
		CPUCold:   lipgloss.Color("#6C7086"),
		CPUHot:    lipgloss.Color("#FAB387"),
	}
}

// GetPalette returns the color palette for the given theme name.
// Checks themes registered with r first, then built-in themes.
// Returns the default palette for unknown theme names.
func GetPalette(name ThemeName, r *Registry) *ColorPalette {
	if r != nil {
		if custom := r.Get(name); custom != nil {
			return custom.ToPalette()
		}
	}

	switch name {
	case ThemeMonokai:
		return MonokaiPalette()
	case ThemeDracula:
		return DraculaPalette()
	case ThemeNord:
		return NordPalette()
	case ThemeSolarizedDark:
		return SolarizedDarkPalette()
	case ThemeGruvbox:
		return GruvboxPalette()
	case ThemeTokyoNight:
		return TokyoNightPalette()
	case ThemeCatppuccin:
		return CatppuccinPalette()
	default:
		return DefaultPalette()
	}
}
