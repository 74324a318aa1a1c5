// Package keymap provides key binding definitions and lookup for the TUI.
// Bindings are declared per input mode so the model's Update method only
// maps a key to a Command and dispatches on it.
package keymap

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current input mode of the TUI.
// Different modes have different key bindings active.
type Mode string

const (
	ModeNormal  Mode = "normal"  // Browsing the process table
	ModeFilter  Mode = "filter"  // Editing the text filter (after /)
	ModeConfirm Mode = "confirm" // Waiting for y/n before a kill
	ModeHelp    Mode = "help"    // Help overlay shown
)

// Command represents a named action that can be triggered by a key binding.
type Command string

// Normal mode commands
const (
	// Selection
	CmdMoveDown Command = "move_down"
	CmdMoveUp   Command = "move_up"
	CmdPageDown Command = "page_down"
	CmdPageUp   Command = "page_up"
	CmdTop      Command = "top"
	CmdBottom   Command = "bottom"

	// View
	CmdEditFilter    Command = "edit_filter"
	CmdClearFilter   Command = "clear_filter"
	CmdToggleThreads Command = "toggle_threads"
	CmdToggleTree    Command = "toggle_tree"
	CmdSortColumn    Command = "sort_column" // 1-8 keys
	CmdTogglePause   Command = "toggle_pause"
	CmdRefresh       Command = "refresh"
	CmdToggleHelp    Command = "toggle_help"

	// Process control
	CmdTerminate Command = "terminate"
	CmdKill      Command = "kill"

	// Clipboard
	CmdCopyPID  Command = "copy_pid"
	CmdCopyName Command = "copy_name"
	CmdCopyPath Command = "copy_path"

	// Exit
	CmdQuit Command = "quit"
)

// Filter and confirm mode commands
const (
	CmdConfirm    Command = "confirm"
	CmdCancel     Command = "cancel"
	CmdInsertChar Command = "insert_char"
)

// Modifier represents keyboard modifiers.
type Modifier uint8

const (
	ModNone Modifier = 0
	ModAlt  Modifier = 1 << iota
)

// String returns a human-readable representation of modifiers.
func (m Modifier) String() string {
	if m&ModAlt != 0 {
		return "alt+"
	}
	return ""
}

// KeyBinding represents a single key binding configuration.
type KeyBinding struct {
	// KeyType is the key for this binding. For rune keys, use tea.KeyRunes
	// and set Rune.
	KeyType tea.KeyType

	// Rune is the character for rune-based keys. Zero matches any rune.
	Rune rune

	// Modifiers contains the modifier keys that must be pressed.
	Modifiers Modifier

	// Command is the action to execute when this binding is triggered.
	Command Command

	// Description is a human-readable description for help display.
	Description string

	// Category groups related bindings together in help display.
	Category string

	// Hidden bindings work but are left out of the help overlay.
	Hidden bool
}

// Matches checks if a tea.KeyMsg matches this binding.
func (kb KeyBinding) Matches(msg tea.KeyMsg) bool {
	wantAlt := kb.Modifiers&ModAlt != 0
	if msg.Alt != wantAlt {
		return false
	}

	if kb.KeyType != tea.KeyRunes {
		return msg.Type == kb.KeyType
	}

	if msg.Type != tea.KeyRunes || len(msg.Runes) == 0 {
		return false
	}

	// If Rune is 0, this is a catch-all binding for any rune
	if kb.Rune == 0 {
		return true
	}

	return msg.Runes[0] == kb.Rune
}

// String returns a human-readable representation of the key binding.
func (kb KeyBinding) String() string {
	prefix := kb.Modifiers.String()

	if kb.KeyType != tea.KeyRunes {
		return prefix + kb.KeyType.String()
	}

	switch kb.Rune {
	case ' ':
		return prefix + "space"
	case 0:
		return prefix + "any"
	default:
		return prefix + string(kb.Rune)
	}
}

// ModeBindings holds all key bindings for a specific mode.
type ModeBindings struct {
	Mode     Mode
	Bindings []KeyBinding
}

// GetBinding looks up a command for a key in this mode.
// Returns the command and true if found, or empty command and false if not.
func (mb *ModeBindings) GetBinding(msg tea.KeyMsg) (Command, bool) {
	for _, binding := range mb.Bindings {
		if binding.Matches(msg) {
			return binding.Command, true
		}
	}
	return "", false
}

// Keymap contains all key bindings organized by mode.
type Keymap struct {
	// Name identifies this keymap.
	Name string

	// Description provides a human-readable description.
	Description string

	// Modes maps each mode to its bindings.
	Modes map[Mode]*ModeBindings
}

// GetBinding looks up a command for a key in a specific mode.
func (km *Keymap) GetBinding(msg tea.KeyMsg, mode Mode) (Command, bool) {
	mb, ok := km.Modes[mode]
	if !ok {
		return "", false
	}
	return mb.GetBinding(msg)
}

// GetModeBindings returns all bindings for a specific mode.
func (km *Keymap) GetModeBindings(mode Mode) []KeyBinding {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}
	return mb.Bindings
}

// GetBindingsForCommand returns all bindings that trigger a specific command.
func (km *Keymap) GetBindingsForCommand(cmd Command, mode Mode) []KeyBinding {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}

	var result []KeyBinding
	for _, binding := range mb.Bindings {
		if binding.Command == cmd {
			result = append(result, binding)
		}
	}
	return result
}

// GetCategories returns all unique categories in a mode's bindings, in
// declaration order.
func (km *Keymap) GetCategories(mode Mode) []string {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	var categories []string

	for _, binding := range mb.Bindings {
		if binding.Category != "" && !seen[binding.Category] {
			seen[binding.Category] = true
			categories = append(categories, binding.Category)
		}
	}
	return categories
}

// HelpEntry is one line of the help overlay: every key bound to a command
// within a category, joined for display.
type HelpEntry struct {
	Keys        []string
	Description string
}

// Help returns the visible bindings of mode grouped by category, merging
// bindings that share a command and description.
func (km *Keymap) Help(mode Mode) map[string][]HelpEntry {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}

	result := make(map[string][]HelpEntry)
	index := make(map[string]int)
	for _, binding := range mb.Bindings {
		if binding.Hidden {
			continue
		}
		cat := binding.Category
		if cat == "" {
			cat = "Other"
		}
		key := cat + "\x00" + string(binding.Command) + "\x00" + binding.Description
		if i, ok := index[key]; ok {
			result[cat][i].Keys = append(result[cat][i].Keys, binding.String())
			continue
		}
		index[key] = len(result[cat])
		result[cat] = append(result[cat], HelpEntry{
			Keys:        []string{binding.String()},
			Description: binding.Description,
		})
	}
	return result
}
