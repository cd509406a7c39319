package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/input"
)

var playKeys = map[string]core.Action{
	"ctrl+c": core.ActionQuit,
	"q":      core.ActionQuit,
	"w":      core.ActionUp,
	"up":     core.ActionUp,
	"s":      core.ActionDown,
	"down":   core.ActionDown,
	"enter":  core.ActionConfirm,
	"esc":    core.ActionBack,
	"b":      core.ActionBack,
	"r":      core.ActionRematch,
	"m":      core.ActionToggleSound,
	"l":      core.ActionLeaderboard,
}

var paddleKeys = map[string]input.Key{
	"up":   input.KeyArrowUp,
	"w":    input.KeyW,
	"down": input.KeyArrowDown,
	"s":    input.KeyS,
}

// MenuAction is a navigation step on the main menu.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// Letters are left to the text inputs, so only ctrl+c quits from the menu.
var menuKeys = map[string]MenuAction{
	"ctrl+c":    MenuActionQuit,
	"up":        MenuActionUp,
	"shift+tab": MenuActionUp,
	"down":      MenuActionDown,
	"tab":       MenuActionDown,
	"enter":     MenuActionSelect,
	"esc":       MenuActionBack,
}

// KeyMapper turns key messages into client actions.
type KeyMapper struct{}

// NewKeyMapper returns the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey resolves a key outside the menu. isQuit is set for q and ctrl+c.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	action, ok := playKeys[msg.String()]
	if !ok {
		return core.ActionNone, false
	}
	return action, action == core.ActionQuit
}

// PaddleKey reports which held-key source a paddle key drives.
func (km *KeyMapper) PaddleKey(msg tea.KeyMsg) (input.Key, bool) {
	k, ok := paddleKeys[msg.String()]
	return k, ok
}

// MapKeyToMenuAction resolves a key on the menu.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	return menuKeys[msg.String()]
}
