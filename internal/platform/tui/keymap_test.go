package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/input"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{runeKey("q"), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{runeKey("w"), core.ActionUp, false},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{runeKey("s"), core.ActionDown, false},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionDown, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{runeKey("r"), core.ActionRematch, false},
		{runeKey("m"), core.ActionToggleSound, false},
		{runeKey("l"), core.ActionLeaderboard, false},
		{runeKey("x"), core.ActionNone, false},
	}

	for _, tt := range tests {
		action, quit := km.MapKey(tt.msg)
		if action != tt.action || quit != tt.quit {
			t.Errorf("MapKey(%q) = (%v, %v), expected (%v, %v)", tt.msg.String(), action, quit, tt.action, tt.quit)
		}
	}
}

func TestPaddleKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg tea.KeyMsg
		key input.Key
		ok  bool
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, input.KeyArrowUp, true},
		{runeKey("w"), input.KeyW, true},
		{tea.KeyMsg{Type: tea.KeyDown}, input.KeyArrowDown, true},
		{runeKey("s"), input.KeyS, true},
		{runeKey("r"), 0, false},
	}

	for _, tt := range tests {
		k, ok := km.PaddleKey(tt.msg)
		if ok != tt.ok || (ok && k != tt.key) {
			t.Errorf("PaddleKey(%q) = (%v, %v), expected (%v, %v)", tt.msg.String(), k, ok, tt.key, tt.ok)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg    tea.KeyMsg
		action MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyCtrlC}, MenuActionQuit},
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runeKey("q"), MenuActionNone}, // letters belong to the text inputs
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.action {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tt.msg.String(), got, tt.action)
		}
	}
}
