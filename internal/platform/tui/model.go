package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/netpong/internal/config"
	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/cues"
	"github.com/vovakirdan/netpong/internal/input"
	"github.com/vovakirdan/netpong/internal/leaderboard"
	"github.com/vovakirdan/netpong/internal/netclient"
	"github.com/vovakirdan/netpong/internal/protocol"
	"github.com/vovakirdan/netpong/internal/session"
	"github.com/vovakirdan/netpong/internal/storage"
)

// firstRepeatDelay covers the terminal's delay before key auto-repeat
// starts, so a held key is not released between the press and the first
// repeat.
const firstRepeatDelay = 500 * time.Millisecond

// Link is the outbound side of the server connection.
type Link interface {
	session.Sender
	Close()
}

// Prefs persists small user preferences.
type Prefs interface {
	SetPref(key, value string) error
}

// Deps wires a Model to its collaborators.
type Deps struct {
	Config  config.ClientConfig
	Link    Link
	Sink    *netclient.Sink
	Audio   *cues.Switch
	Boards  *leaderboard.Service
	Prefs   Prefs
	Logger  *log.Logger
	Quality core.RenderQuality
	Seed    int64
	Width   int
	Height  int
	// Practice skips the menu and starts a practice match.
	Practice bool
}

type gesture int

const (
	gestureNone gesture = iota
	gestureButtonUp
	gestureButtonDown
	gestureDrag
	gestureSwipe
)

// eventMsg carries one connection event into the UI loop.
type eventMsg struct {
	evt protocol.Event
}

// Model is the top-level Bubble Tea model. It owns the session machine and
// is the only goroutine that touches it.
type Model struct {
	deps    Deps
	logger  *log.Logger
	machine *session.Machine
	keys    *KeyMapper
	screen  *core.Screen
	layout  Layout
	now     func() time.Time

	frames   *core.Loop
	pingGen  uint64
	lastMode session.Mode

	holds   map[input.Key]uint64
	holdSeq uint64
	gesture gesture

	menu  MenuModel
	board *LeaderboardModel

	width    int
	height   int
	quitting bool
	closed   bool
}

// NewModel creates the client model.
func NewModel(d Deps) *Model {
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	if d.Audio == nil {
		d.Audio = cues.NewSwitch(cues.Silent{}, true)
	}
	if d.Link == nil {
		d.Link = offlineLink{}
	}
	if d.Width <= 0 || d.Height <= 0 {
		d.Width, d.Height = core.DefaultScreenW, core.DefaultScreenH
	}

	m := &Model{
		deps:   d,
		logger: d.Logger.WithPrefix("tui"),
		keys:   NewKeyMapper(),
		screen: core.NewScreen(d.Width, d.Height),
		now:    time.Now,
		frames: &core.Loop{},
		holds:  make(map[input.Key]uint64),
		width:  d.Width,
		height: d.Height,
	}
	m.machine = session.New(d.Link, session.Options{
		PlayerName: d.Config.Player.Name,
		Practice:   d.Config.PracticeSettings(),
		Input:      d.Config.InputSettings(),
		Seed:       d.Seed,
		Audio:      d.Audio,
		Logger:     d.Logger,
	})
	m.menu = NewMenuModel(m.machine.PlayerName(), d.Audio)
	m.layout = NewLayout(d.Width, d.Height, m.geometry())
	return m
}

// Machine exposes the session machine.
func (m *Model) Machine() *session.Machine {
	return m.machine
}

func (m *Model) geometry() Geometry {
	p := m.deps.Config.Physics
	return Geometry{
		Width:        p.Width,
		Height:       p.Height,
		PaddleHeight: p.PaddleHeight,
		PaddleInset:  p.PaddleInset,
	}
}

// Init starts listening for connection events.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForEvent(), m.menu.Init()}
	if m.deps.Practice {
		m.machine.StartPractice()
	}
	cmds = append(cmds, m.syncLoops()...)
	return tea.Batch(cmds...)
}

// waitForEvent returns a command that waits for the next connection event.
func (m *Model) waitForEvent() tea.Cmd {
	sink := m.deps.Sink
	if sink == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case evt := <-sink.Events():
			return eventMsg{evt: evt}
		case <-sink.Done():
			return nil
		}
	}
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.board != nil {
			var cmd tea.Cmd
			*m.board, cmd = m.board.Update(msg)
			cmds = append(cmds, cmd)
		}

	case eventMsg:
		m.machine.HandleEvent(msg.evt, m.now())
		cmds = append(cmds, m.waitForEvent())

	case FrameMsg:
		if m.frames.Accept(msg.Gen) {
			m.machine.Frame(msg.At)
			cmds = append(cmds, frameCmd(m.deps.Config.Display.FPS, msg.Gen))
		}

	case PingMsg:
		if m.machine.PingLoop().Accept(msg.Gen) {
			m.machine.PingTick(msg.At)
			cmds = append(cmds, pingCmd(m.deps.Config.Server.PingInterval, msg.Gen))
		}

	case keyReleaseMsg:
		if seq, ok := m.holds[msg.key]; ok && seq == msg.seq {
			delete(m.holds, msg.key)
			m.machine.ApplyCommand(m.machine.Input().Release(msg.key))
		}

	case BoardLoadedMsg:
		if m.board != nil {
			var cmd tea.Cmd
			*m.board, cmd = m.board.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		m.handleMouse(msg)

	default:
		if m.machine.Mode() == session.ModeMenu && m.board == nil {
			var cmd tea.Cmd
			m.menu, cmd, _ = m.menu.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if m.quitting {
		m.Shutdown()
		return m, tea.Quit
	}

	cmds = append(cmds, m.syncLoops()...)
	return m, tea.Batch(cmds...)
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.screen.Resize(w, h)
	m.layout = NewLayout(w, h, m.geometry())
}

// syncLoops starts or stops the frame loop to match the mode and schedules
// the ping interval whenever the machine starts a new ping generation.
func (m *Model) syncLoops() []tea.Cmd {
	var cmds []tea.Cmd
	mode := m.machine.Mode()

	if mode != m.lastMode {
		m.logger.Debug("screen", "mode", mode)
		clear(m.holds)
		m.gesture = gestureNone
		m.lastMode = mode
	}

	if mode == session.ModeNetworked || mode == session.ModePractice {
		if gen, started := m.frames.Start(); started {
			cmds = append(cmds, frameCmd(m.deps.Config.Display.FPS, gen))
		}
	} else {
		m.frames.Stop()
	}

	pl := m.machine.PingLoop()
	if pl.Running() {
		if gen := pl.Generation(); gen != m.pingGen {
			m.pingGen = gen
			cmds = append(cmds, pingCmd(m.deps.Config.Server.PingInterval, gen))
		}
	}
	return cmds
}

// handleKey routes a key to the leaderboard, the menu, or the active screen.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.board != nil {
		var cmd tea.Cmd
		*m.board, cmd = m.board.Update(msg)
		back, quit := m.board.Done()
		switch {
		case quit:
			m.quitting = true
		case back:
			m.board = nil
		}
		return cmd
	}

	if m.machine.Mode() == session.ModeMenu {
		return m.handleMenuKey(msg)
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quit()
		return nil
	}
	if action == core.ActionToggleSound {
		m.toggleSound()
		return nil
	}

	switch m.machine.Mode() {
	case session.ModeWaiting:
		if action == core.ActionBack {
			m.machine.CancelWaiting()
		}

	case session.ModeNetworked, session.ModePractice:
		if k, ok := m.keys.PaddleKey(msg); ok {
			return m.holdKey(k)
		}
		if action == core.ActionBack {
			m.machine.LeaveMatch()
			m.machine.ExitPractice()
		}

	case session.ModeGameOver:
		switch action {
		case core.ActionRematch:
			m.machine.Rematch()
		case core.ActionBack, core.ActionConfirm:
			m.machine.MainMenu()
		}
	}
	return nil
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	if !m.menu.Editing() && msg.String() == "m" {
		m.toggleSound()
		return nil
	}

	var cmd tea.Cmd
	var choice MenuChoice
	m.menu, cmd, choice = m.menu.Update(msg)
	if choice == ChoiceNone {
		return cmd
	}
	m.logger.Debug("menu", "choice", choice)

	switch choice {
	case ChoiceCreate:
		m.applyName()
		m.machine.CreateRoom()
	case ChoiceJoin:
		m.applyName()
		if err := m.machine.JoinRoom(m.menu.RoomCode()); err != nil {
			m.logger.Debug("join rejected", "err", err)
		}
	case ChoicePractice:
		m.applyName()
		m.machine.StartPractice()
	case ChoiceLeaderboard:
		m.machine.ClearNotice()
		b := NewLeaderboardModel(m.deps.Boards, leaderboard.DefaultLimit, m.width, m.height)
		m.board = &b
		return tea.Batch(cmd, b.Init())
	case ChoiceQuit:
		m.quit()
	}
	return cmd
}

// holdKey presses k and schedules its release unless a repeat arrives first.
func (m *Model) holdKey(k input.Key) tea.Cmd {
	hold := m.deps.Config.Input.KeyHold
	if _, held := m.holds[k]; !held {
		hold = max(hold, firstRepeatDelay)
	}
	m.holdSeq++
	m.holds[k] = m.holdSeq
	m.machine.ApplyCommand(m.machine.Input().Press(k))
	return releaseCmd(hold, k, m.holdSeq)
}

// handleMouse feeds buttons, swipe and drag gestures during play.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	mode := m.machine.Mode()
	if mode != session.ModeNetworked && mode != session.ModePractice {
		return
	}
	u := m.machine.Input()

	switch msg.Action {
	case tea.MouseActionPress:
		switch {
		case msg.Button == tea.MouseButtonLeft && m.layout.Up.Contains(msg.X, msg.Y):
			m.gesture = gestureButtonUp
			m.machine.ApplyCommand(u.Press(input.KeyButtonUp))
		case msg.Button == tea.MouseButtonLeft && m.layout.Down.Contains(msg.X, msg.Y):
			m.gesture = gestureButtonDown
			m.machine.ApplyCommand(u.Press(input.KeyButtonDown))
		case msg.Button == tea.MouseButtonLeft && m.layout.InField(msg.X, msg.Y):
			m.gesture = gestureDrag
			u.DragTo(m.layout.LogicalY(msg.Y))
		case msg.Button == tea.MouseButtonRight && m.layout.InField(msg.X, msg.Y):
			m.gesture = gestureSwipe
			m.machine.ApplyCommand(u.SwipeMove(m.layout.LogicalY(msg.Y), m.now()))
		}

	case tea.MouseActionMotion:
		switch m.gesture {
		case gestureDrag:
			u.DragTo(m.layout.LogicalY(msg.Y))
		case gestureSwipe:
			m.machine.ApplyCommand(u.SwipeMove(m.layout.LogicalY(msg.Y), m.now()))
		}

	case tea.MouseActionRelease:
		switch m.gesture {
		case gestureButtonUp:
			m.machine.ApplyCommand(u.Release(input.KeyButtonUp))
		case gestureButtonDown:
			m.machine.ApplyCommand(u.Release(input.KeyButtonDown))
		case gestureDrag:
			u.DragEnd()
			m.machine.ApplyCommand(u.Command())
		case gestureSwipe:
			m.machine.ApplyCommand(u.SwipeEnd())
		}
		m.gesture = gestureNone
	}
}

func (m *Model) applyName() {
	m.machine.SetPlayerName(m.menu.Name())
	if m.deps.Prefs == nil {
		return
	}
	if err := m.deps.Prefs.SetPref(storage.PrefPlayerName, m.machine.PlayerName()); err != nil {
		m.logger.Warn("could not save player name", "err", err)
	}
}

func (m *Model) toggleSound() {
	on := m.deps.Audio.Toggle()
	if m.deps.Prefs == nil {
		return
	}
	v := "off"
	if on {
		v = "on"
	}
	if err := m.deps.Prefs.SetPref(storage.PrefSound, v); err != nil {
		m.logger.Warn("could not save sound setting", "err", err)
	}
}

// quit leaves any room politely before exiting.
func (m *Model) quit() {
	m.machine.CancelWaiting()
	m.machine.LeaveMatch()
	m.quitting = true
}

// Shutdown stops the loops and closes the connection. Safe to call more
// than once.
func (m *Model) Shutdown() {
	if m.closed {
		return
	}
	m.closed = true
	m.frames.Stop()
	m.machine.PingLoop().Stop()
	m.deps.Link.Close()
	if m.deps.Sink != nil {
		m.deps.Sink.Close()
	}
}

func (m *Model) hud() HUD {
	mode := m.machine.Mode()
	h := HUD{
		Indicator:  m.machine.Status().String(),
		LocalIndex: m.machine.LocalIndex(),
		Notice:     m.machine.Notice(),
		Sound:      m.deps.Audio.Enabled(),
		Help:       "w/s move  esc leave  q quit",
	}
	if mode == session.ModePractice {
		h.Indicator = IndicatorPractice
	}
	if mode == session.ModeNetworked && len(m.machine.Latency().Samples()) > 0 {
		h.HasLatency = true
		h.AvgLatency = m.machine.Latency().Average()
	}
	return h
}

// View renders the current screen.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.board != nil {
		return m.board.View()
	}

	switch m.machine.Mode() {
	case session.ModeWaiting:
		DrawWaiting(m.screen, m.machine.RoomCode(), m.hud())
	case session.ModeNetworked, session.ModePractice:
		DrawMatch(m.screen, m.layout, m.machine.Snapshot(), m.hud(), m.deps.Quality)
	case session.ModeGameOver:
		DrawGameOver(m.screen, m.machine.Snapshot(), m.machine.LocalIndex(), m.machine.Origin() == session.ModePractice)
	default:
		sound := "sound on"
		if !m.deps.Audio.Enabled() {
			sound = "muted"
		}
		status := "server " + m.machine.Status().String() + "  |  " + sound
		return m.menu.View(m.width, status, m.machine.Notice())
	}
	return RenderScreen(m.screen, m.deps.Quality)
}

// Run starts the Bubble Tea program with a model built from d.
func Run(d Deps, opts ...tea.ProgramOption) error {
	model := NewModel(d)
	defer model.Shutdown()

	opts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}, opts...)
	p := tea.NewProgram(model, opts...)

	_, err := p.Run()
	return err
}

// offlineLink drops every intent; used when no connection is configured.
type offlineLink struct{}

func (offlineLink) Send(protocol.Message) {}
func (offlineLink) Close()                {}
