package keymap

import tea "github.com/charmbracelet/bubbletea"

// SortKeys are the runes bound to CmdSortColumn, in sortable-column order.
var SortKeys = []rune{'1', '2', '3', '4', '5', '6', '7', '8'}

// DefaultKeymap returns the default keymap configuration.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name:        "default",
		Description: "Default procview key bindings",
		Modes: map[Mode]*ModeBindings{
			ModeNormal:  defaultNormalBindings(),
			ModeFilter:  defaultFilterBindings(),
			ModeConfirm: defaultConfirmBindings(),
			ModeHelp:    defaultHelpBindings(),
		},
	}
}

func defaultNormalBindings() *ModeBindings {
	bindings := []KeyBinding{
		// Selection
		{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdMoveDown, Description: "Select next", Category: "Selection"},
		{KeyType: tea.KeyDown, Command: CmdMoveDown, Description: "Select next", Category: "Selection"},
		{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdMoveUp, Description: "Select previous", Category: "Selection"},
		{KeyType: tea.KeyUp, Command: CmdMoveUp, Description: "Select previous", Category: "Selection"},
		{KeyType: tea.KeyPgDown, Command: CmdPageDown, Description: "Page down", Category: "Selection"},
		{KeyType: tea.KeyCtrlF, Command: CmdPageDown, Description: "Page down", Category: "Selection"},
		{KeyType: tea.KeyPgUp, Command: CmdPageUp, Description: "Page up", Category: "Selection"},
		{KeyType: tea.KeyCtrlB, Command: CmdPageUp, Description: "Page up", Category: "Selection"},
		{KeyType: tea.KeyRunes, Rune: 'g', Command: CmdTop, Description: "Go to top", Category: "Selection"},
		{KeyType: tea.KeyHome, Command: CmdTop, Description: "Go to top", Category: "Selection"},
		{KeyType: tea.KeyRunes, Rune: 'G', Command: CmdBottom, Description: "Go to bottom", Category: "Selection"},
		{KeyType: tea.KeyEnd, Command: CmdBottom, Description: "Go to bottom", Category: "Selection"},

		// View
		{KeyType: tea.KeyRunes, Rune: '/', Command: CmdEditFilter, Description: "Edit filter", Category: "View"},
		{KeyType: tea.KeyEsc, Command: CmdClearFilter, Description: "Clear filter", Category: "View"},
		{KeyType: tea.KeyRunes, Rune: 't', Command: CmdToggleThreads, Description: "Toggle threads", Category: "View"},
		{KeyType: tea.KeyRunes, Rune: 'h', Command: CmdToggleTree, Description: "Toggle tree view", Category: "View"},
		{KeyType: tea.KeySpace, Command: CmdTogglePause, Description: "Pause/resume refresh", Category: "View"},
		{KeyType: tea.KeyRunes, Rune: 'r', Command: CmdRefresh, Description: "Refresh now", Category: "View"},
	}

	for _, r := range SortKeys {
		bindings = append(bindings, KeyBinding{
			KeyType: tea.KeyRunes, Rune: r, Command: CmdSortColumn,
			Description: "Sort by column", Category: "View",
		})
	}

	bindings = append(bindings,
		// Process control
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'T', Command: CmdTerminate, Description: "Terminate (SIGTERM)", Category: "Process"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'K', Command: CmdKill, Description: "Kill (SIGKILL)", Category: "Process"},

		// Clipboard
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'y', Command: CmdCopyPID, Description: "Copy pid", Category: "Clipboard"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'n', Command: CmdCopyName, Description: "Copy name", Category: "Clipboard"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'p', Command: CmdCopyPath, Description: "Copy path", Category: "Clipboard"},

		// Application
		KeyBinding{KeyType: tea.KeyRunes, Rune: '?', Command: CmdToggleHelp, Description: "Toggle help", Category: "Application"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "Quit", Category: "Application"},
		KeyBinding{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
	)

	return &ModeBindings{Mode: ModeNormal, Bindings: bindings}
}

func defaultFilterBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeFilter,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyEnter, Command: CmdConfirm, Description: "Keep filter", Category: "Filter"},
			{KeyType: tea.KeyEsc, Command: CmdCancel, Description: "Clear filter", Category: "Filter"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Filter", Hidden: true},
		},
	}
}

func defaultConfirmBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeConfirm,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyRunes, Rune: 'y', Command: CmdConfirm, Description: "Confirm", Category: "Confirm"},
			{KeyType: tea.KeyRunes, Rune: 'Y', Command: CmdConfirm, Description: "Confirm", Category: "Confirm", Hidden: true},
			{KeyType: tea.KeyEnter, Command: CmdConfirm, Description: "Confirm", Category: "Confirm", Hidden: true},
			{KeyType: tea.KeyRunes, Rune: 'n', Command: CmdCancel, Description: "Cancel", Category: "Confirm"},
			{KeyType: tea.KeyEsc, Command: CmdCancel, Description: "Cancel", Category: "Confirm"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Confirm", Hidden: true},
		},
	}
}

func defaultHelpBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeHelp,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyRunes, Rune: '?', Command: CmdToggleHelp, Description: "Close help", Category: "Help"},
			{KeyType: tea.KeyEsc, Command: CmdToggleHelp, Description: "Close help", Category: "Help"},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdToggleHelp, Description: "Close help", Category: "Help"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Help", Hidden: true},
		},
	}
}
