package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/netpong/internal/leaderboard"
)

// BoardLoadedMsg carries the result of a leaderboard load.
type BoardLoadedMsg struct {
	Board leaderboard.Board
	Err   error
}

// loadBoardCmd fetches the leaderboard off the UI goroutine.
func loadBoardCmd(svc *leaderboard.Service, limit int) tea.Cmd {
	return func() tea.Msg {
		if svc == nil {
			return BoardLoadedMsg{Err: leaderboard.ErrUnavailable}
		}
		board, err := svc.Load(context.Background(), limit)
		return BoardLoadedMsg{Board: board, Err: err}
	}
}

// LeaderboardKeyMap defines the key bindings for the leaderboard.
type LeaderboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp implements help.KeyMap.
func (k LeaderboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k LeaderboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Refresh},
		{k.Back, k.Quit},
	}
}

// DefaultLeaderboardKeyMap returns default key bindings.
func DefaultLeaderboardKeyMap() LeaderboardKeyMap {
	return LeaderboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// LeaderboardModel shows the server leaderboard in a table.
type LeaderboardModel struct {
	svc     *leaderboard.Service
	limit   int
	board   leaderboard.Board
	err     error
	loading bool
	table   table.Model
	help    help.Model
	keys    LeaderboardKeyMap
	width   int
	height  int
	back    bool
	quit    bool
}

// NewLeaderboardModel creates the view. Call Init to start loading.
func NewLeaderboardModel(svc *leaderboard.Service, limit, width, height int) LeaderboardModel {
	if limit <= 0 {
		limit = leaderboard.DefaultLimit
	}
	h := help.New()
	h.Width = width
	m := LeaderboardModel{
		svc:     svc,
		limit:   limit,
		loading: true,
		help:    h,
		keys:    DefaultLeaderboardKeyMap(),
		width:   width,
		height:  height,
	}
	m.table = m.newTable()
	return m
}

// Init starts the first load.
func (m LeaderboardModel) Init() tea.Cmd {
	return loadBoardCmd(m.svc, m.limit)
}

var (
	boardTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	boardMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	boardFrame   = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("30")).Padding(0, 1)
	boardEmpty   = boardMuted.Italic(true).Padding(1, 3)
	boardOffline = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func boardTableStyles() table.Styles {
	st := table.DefaultStyles()
	st.Header = st.Header.Bold(true).Foreground(lipgloss.Color("51")).
		BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("30"))
	st.Selected = st.Selected.Bold(false).Foreground(lipgloss.Color("16")).Background(lipgloss.Color("51"))
	return st
}

// newTable rebuilds the table for the current size and board.
func (m LeaderboardModel) newTable() table.Model {
	// rows left after title, status, help and borders
	rows := max(m.height-9, 3)
	t := table.New(
		table.WithColumns(LeaderboardColumns()),
		table.WithRows(LeaderboardRows(m.board.Entries)),
		table.WithHeight(rows),
		table.WithFocused(true),
		table.WithStyles(boardTableStyles()),
	)
	return t
}

// LeaderboardColumns returns the table columns.
func LeaderboardColumns() []table.Column {
	return []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Player", Width: 18},
		{Title: "W-L", Width: 8},
		{Title: "Win %", Width: 7},
		{Title: "Score", Width: 7},
		{Title: "Latency", Width: 9},
	}
}

// LeaderboardRows converts entries to table rows.
func LeaderboardRows(entries []leaderboard.Entry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			e.PlayerName,
			fmt.Sprintf("%d-%d", e.TotalWins, e.Losses()),
			fmt.Sprintf("%.1f", e.WinRate),
			humanize.Comma(int64(e.TotalScore)),
			fmt.Sprintf("%.0fms", e.AvgLatencyMs),
		}
	}
	return rows
}

// Update handles messages for the leaderboard.
func (m LeaderboardModel) Update(msg tea.Msg) (LeaderboardModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case BoardLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.board = msg.Board
		}
		m.table.SetRows(LeaderboardRows(m.board.Entries))
		m.table.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quit = true
			return m, nil
		case key.Matches(msg, m.keys.Back):
			m.back = true
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, loadBoardCmd(m.svc, m.limit)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.newTable()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// Done reports whether the player left the view and whether they quit.
func (m LeaderboardModel) Done() (back, quit bool) {
	return m.back, m.quit
}

// View renders the leaderboard.
func (m LeaderboardModel) View() string {
	status := boardMuted
	if m.board.Offline || m.err != nil {
		status = boardOffline
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(boardTitle.Render("L E A D E R B O A R D"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(status.Render(m.statusLine()), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(boardFrame.Render(m.body()), m.width))
	b.WriteString("\n")
	b.WriteString(boardMuted.Render(m.help.View(m.keys)))
	return b.String()
}

func (m LeaderboardModel) statusLine() string {
	switch {
	case m.loading:
		return "Loading..."
	case m.err != nil:
		return "Leaderboard unavailable"
	case m.board.Offline:
		return "OFFLINE - cached " + humanize.Time(m.board.FetchedAt)
	default:
		return "Updated " + m.board.FetchedAt.Format("15:04:05")
	}
}

func (m LeaderboardModel) body() string {
	if len(m.board.Entries) == 0 {
		return boardEmpty.Render("No matches recorded yet.\nPlay online to get ranked!")
	}
	return m.table.View()
}
