package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/netpong/internal/cues"
	"github.com/vovakirdan/netpong/internal/protocol"
)

// MenuChoice is what the player picked on the main menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoiceCreate
	ChoiceJoin
	ChoicePractice
	ChoiceLeaderboard
	ChoiceQuit
)

type menuRow int

const (
	rowName menuRow = iota
	rowCreate
	rowCode
	rowJoin
	rowPractice
	rowLeaderboard
	rowQuit
	rowCount
)

var rowLabels = map[menuRow]string{
	rowCreate:      "Create room",
	rowJoin:        "Join room",
	rowPractice:    "Practice vs AI",
	rowLeaderboard: "Leaderboard",
	rowQuit:        "Quit",
}

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuCursor     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuDim        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuNotice     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// MenuModel is the main menu: player name, room code, and the mode picker.
type MenuModel struct {
	name      textinput.Model
	code      textinput.Model
	cursor    menuRow
	keyMapper *KeyMapper
	audio     cues.AudioCue
}

// NewMenuModel creates a menu prefilled with name.
func NewMenuModel(name string, audio cues.AudioCue) MenuModel {
	if audio == nil {
		audio = cues.Silent{}
	}

	n := textinput.New()
	n.Placeholder = "Player"
	n.CharLimit = 20
	n.Width = 20
	n.Prompt = "Name: "
	n.SetValue(name)

	c := textinput.New()
	c.Placeholder = "ABCD"
	c.CharLimit = protocol.RoomCodeLength
	c.Width = protocol.RoomCodeLength + 1
	c.Prompt = "Room code: "

	m := MenuModel{
		name:      n,
		code:      c,
		cursor:    rowCreate,
		keyMapper: NewKeyMapper(),
		audio:     audio,
	}
	return m
}

// Init starts the cursor blink.
func (m MenuModel) Init() tea.Cmd {
	return textinput.Blink
}

// Name returns the entered player name, untrimmed.
func (m MenuModel) Name() string {
	return m.name.Value()
}

// RoomCode returns the entered room code, untrimmed.
func (m MenuModel) RoomCode() string {
	return m.code.Value()
}

// Update handles a message and reports the choice it completed, if any.
func (m MenuModel) Update(msg tea.Msg) (MenuModel, tea.Cmd, MenuChoice) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	switch m.keyMapper.MapKeyToMenuAction(keyMsg) {
	case MenuActionQuit:
		return m, nil, ChoiceQuit
	case MenuActionUp:
		return m.move(-1), nil, ChoiceNone
	case MenuActionDown:
		return m.move(1), nil, ChoiceNone
	case MenuActionSelect:
		return m.selectRow()
	}

	if !m.onInput() {
		switch keyMsg.String() {
		case "q":
			return m, nil, ChoiceQuit
		case "k":
			return m.move(-1), nil, ChoiceNone
		case "j":
			return m.move(1), nil, ChoiceNone
		case "p":
			return m, nil, ChoicePractice
		case "l":
			return m, nil, ChoiceLeaderboard
		case "c":
			return m, nil, ChoiceCreate
		}
		return m, nil, ChoiceNone
	}

	return m.updateInputs(msg)
}

func (m MenuModel) updateInputs(msg tea.Msg) (MenuModel, tea.Cmd, MenuChoice) {
	var nameCmd, codeCmd tea.Cmd
	m.name, nameCmd = m.name.Update(msg)
	m.code, codeCmd = m.code.Update(msg)
	if v := m.code.Value(); v != strings.ToUpper(v) {
		m.code.SetValue(strings.ToUpper(v))
	}
	return m, tea.Batch(nameCmd, codeCmd), ChoiceNone
}

func (m MenuModel) selectRow() (MenuModel, tea.Cmd, MenuChoice) {
	switch m.cursor {
	case rowName:
		return m.move(1), nil, ChoiceNone
	case rowCreate:
		return m, nil, ChoiceCreate
	case rowCode, rowJoin:
		return m, nil, ChoiceJoin
	case rowPractice:
		return m, nil, ChoicePractice
	case rowLeaderboard:
		return m, nil, ChoiceLeaderboard
	case rowQuit:
		return m, nil, ChoiceQuit
	}
	return m, nil, ChoiceNone
}

func (m MenuModel) move(delta int) MenuModel {
	next := menuRow((int(m.cursor) + delta + int(rowCount)) % int(rowCount))
	m.cursor = next
	m.name.Blur()
	m.code.Blur()
	switch next {
	case rowName:
		m.name.Focus()
	case rowCode:
		m.code.Focus()
	}
	m.audio.Play(cues.MenuHover)
	return m
}

// Editing reports whether a text field has focus, so letter keys belong to it.
func (m MenuModel) Editing() bool {
	return m.onInput()
}

func (m MenuModel) onInput() bool {
	return m.cursor == rowName || m.cursor == rowCode
}

// View renders the menu for a width-wide terminal.
func (m MenuModel) View(width int, status, notice string) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("N E T P O N G"), width))
	b.WriteString("\n")
	b.WriteString(centerText(menuDim.Render(status), width))
	b.WriteString("\n\n")

	for r := rowName; r < rowCount; r++ {
		var line string
		switch r {
		case rowName:
			line = m.name.View()
		case rowCode:
			line = m.code.View()
		default:
			line = rowLabels[r]
		}
		if r == m.cursor {
			line = menuCursor.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(centerText(line, width))
		b.WriteString("\n")
		if r == rowJoin || r == rowLeaderboard {
			b.WriteString("\n")
		}
	}

	if notice != "" {
		b.WriteString("\n")
		b.WriteString(centerText(menuNotice.Render(notice), width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  m: Sound  |  Ctrl+C: Quit"
	b.WriteString(centerText(menuDim.Render(controls), width))
	b.WriteString("\n")

	return b.String()
}
