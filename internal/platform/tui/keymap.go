package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-slide/internal/core"
)

// KeyMapper translates Bubble Tea key messages to semantic actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a play action.
// Arrows and hjkl move (sliding when the move is blocked); shifted arrows
// and HJKL always slide.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit
	case "up", "k", "w":
		return core.ActionUp
	case "down", "j", "s":
		return core.ActionDown
	case "left", "h", "a":
		return core.ActionLeft
	case "right", "l", "d":
		return core.ActionRight
	case "shift+up", "K", "W":
		return core.ActionSlideUp
	case "shift+down", "J", "S":
		return core.ActionSlideDown
	case "shift+left", "H", "A":
		return core.ActionSlideLeft
	case "shift+right", "L", "D":
		return core.ActionSlideRight
	case "tab":
		return core.ActionNextAgent
	case "shift+tab":
		return core.ActionPrevAgent
	case "u", "z", "ctrl+z":
		return core.ActionUndo
	case "r":
		return core.ActionRestart
	case "ctrl+s":
		return core.ActionSave
	case "enter", " ":
		return core.ActionConfirm
	case "b", "esc":
		return core.ActionBack
	}
	return core.ActionNone
}

// AgentKey returns the agent selected by a digit key.
func (km *KeyMapper) AgentKey(msg tea.KeyMsg) (int, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '0'), true
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionResults
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionResults
	}
	return MenuActionNone
}
