package session

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/cues"
	"github.com/vovakirdan/netpong/internal/input"
	"github.com/vovakirdan/netpong/internal/latency"
	"github.com/vovakirdan/netpong/internal/netclient"
	"github.com/vovakirdan/netpong/internal/practice"
	"github.com/vovakirdan/netpong/internal/protocol"
)

// DefaultPlayerName is used when no name was entered.
const DefaultPlayerName = "Player"

// Sender delivers outbound intents. *netclient.Connection implements it.
type Sender interface {
	Send(msg protocol.Message)
}

// Options configure a Machine.
type Options struct {
	PlayerName string
	Practice   practice.Settings
	Input      input.Settings
	// Seed for practice serves; 0 picks a time-based seed per match.
	Seed   int64
	Audio  cues.AudioCue
	Logger *log.Logger
}

// Machine is the single owner of the client mode and the current snapshot.
// All methods must be called from one goroutine (the UI loop); snapshots it
// hands out are never modified afterwards.
type Machine struct {
	opts   Options
	send   Sender
	audio  cues.AudioCue
	logger *log.Logger

	mode     Mode
	producer producer
	origin   Mode // mode that produced the current GameOver
	status   Status
	notice   string

	playerName    string
	playerID      string
	localIndex    int
	roomCode      string
	pendingCreate bool
	pendingJoin   bool
	introPlayed   bool

	snap      *core.Snapshot
	sim       *practice.Simulator
	matches   int64
	unifier   *input.Unifier
	net       *input.NetworkController
	estimator *latency.Estimator
	detector  cues.Detector
	pingLoop  core.Loop
}

// New creates a machine in the menu.
func New(send Sender, opts Options) *Machine {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Practice == (practice.Settings{}) {
		opts.Practice = practice.DefaultSettings()
	}
	if opts.Input == (input.Settings{}) {
		opts.Input = input.DefaultSettings()
	}
	audio := opts.Audio
	if audio == nil {
		audio = cues.Silent{}
	}
	m := &Machine{
		opts:       opts,
		send:       send,
		audio:      audio,
		logger:     logger.WithPrefix("session"),
		localIndex: -1,
		unifier:    input.NewUnifier(opts.Input),
		estimator:  latency.NewEstimator(),
	}
	m.SetPlayerName(opts.PlayerName)
	m.net = input.NewNetworkController(m.sendDirection, m.unifier.Settings().DragTolerance)
	return m
}

// Mode returns the active mode.
func (m *Machine) Mode() Mode { return m.mode }

// Origin returns the mode that ended in the current GameOver.
func (m *Machine) Origin() Mode { return m.origin }

// Snapshot returns the snapshot for this frame, or nil when no producer is
// active.
func (m *Machine) Snapshot() *core.Snapshot { return m.snap }

// Status returns the connectivity indicator.
func (m *Machine) Status() Status { return m.status }

// Notice returns the pending user-facing message.
func (m *Machine) Notice() string { return m.notice }

// ClearNotice dismisses the current notice.
func (m *Machine) ClearNotice() { m.notice = "" }

// RoomCode returns the room being hosted or joined.
func (m *Machine) RoomCode() string { return m.roomCode }

// LocalIndex returns the local player's slot, or -1 until resolved for the
// current match.
func (m *Machine) LocalIndex() int { return m.localIndex }

// PlayerID returns the id assigned by the server.
func (m *Machine) PlayerID() string { return m.playerID }

// PlayerName returns the name sent with room requests.
func (m *Machine) PlayerName() string { return m.playerName }

// Pending reports whether a create or join request awaits an answer.
func (m *Machine) Pending() bool { return m.pendingCreate || m.pendingJoin }

// Input returns the input unifier the platform layer feeds.
func (m *Machine) Input() *input.Unifier { return m.unifier }

// Latency returns the round-trip estimator.
func (m *Machine) Latency() *latency.Estimator { return m.estimator }

// PingLoop returns the handle for the one-second ping interval.
func (m *Machine) PingLoop() *core.Loop { return &m.pingLoop }

// SetPlayerName trims name and falls back to DefaultPlayerName.
func (m *Machine) SetPlayerName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPlayerName
	}
	m.playerName = name
}

// CreateRoom asks the server for a new room. The machine stays in the menu
// until room_created arrives.
func (m *Machine) CreateRoom() {
	if m.mode != ModeMenu {
		return
	}
	m.pendingCreate = true
	m.notice = NoticeCreatingRoom
	m.send.Send(protocol.CreateRoom{PlayerName: m.playerName})
	m.menuSelect()
}

// JoinRoom validates raw and asks to join that room. Invalid codes are
// rejected with a notice and nothing is sent.
func (m *Machine) JoinRoom(raw string) error {
	if m.mode != ModeMenu {
		return nil
	}
	msg, err := protocol.NewJoinRoom(raw, m.playerName)
	if err != nil {
		if errors.Is(err, protocol.ErrInvalidRoomCode) {
			m.notice = NoticeBadRoomCode
		}
		return err
	}
	m.pendingJoin = true
	m.roomCode = msg.RoomCode
	m.notice = NoticeJoiningRoom
	m.send.Send(msg)
	m.menuSelect()
	return nil
}

// CancelWaiting leaves a hosted room before an opponent arrives.
func (m *Machine) CancelWaiting() {
	if m.mode != ModeWaiting {
		return
	}
	m.send.Send(protocol.Disconnect{})
	m.enterMenu()
}

// LeaveMatch quits a networked match from the player's side.
func (m *Machine) LeaveMatch() {
	if m.mode != ModeNetworked {
		return
	}
	m.send.Send(protocol.Disconnect{})
	m.enterMenu()
}

// StartPractice begins a fresh local match against the scripted opponent.
func (m *Machine) StartPractice() {
	if m.mode != ModeMenu && m.mode != ModeGameOver {
		return
	}
	m.matches++
	seed := m.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	} else {
		seed += m.matches - 1
	}
	m.resetTransient()
	m.sim = practice.New(m.opts.Practice, m.playerName, seed)
	m.snap = m.sim.Snapshot()
	m.localIndex = 0
	m.setMode(ModePractice, producerLocal)
	m.notice = ""
	m.menuSelect()
}

// menuSelect plays the intro on the first selection of the session and the
// click cue on every one.
func (m *Machine) menuSelect() {
	if !m.introPlayed {
		m.introPlayed = true
		m.audio.Play(cues.Intro)
	}
	m.audio.Play(cues.MenuClick)
}

// ExitPractice abandons the local match and discards the simulator.
func (m *Machine) ExitPractice() {
	if m.mode != ModePractice {
		return
	}
	m.enterMenu()
}

// Rematch repeats whatever produced the current GameOver: a new hosted room
// for networked play or a new local match for practice.
func (m *Machine) Rematch() {
	if m.mode != ModeGameOver {
		return
	}
	if m.origin == ModePractice {
		m.StartPractice()
		return
	}
	m.enterMenu()
	m.CreateRoom()
}

// MainMenu returns to the menu from GameOver.
func (m *Machine) MainMenu() {
	if m.mode != ModeGameOver {
		return
	}
	m.enterMenu()
}

// ApplyCommand routes the unified command to the owner of the local paddle.
// Only direction changes reach the network; practice never sends.
func (m *Machine) ApplyCommand(cmd input.Command) {
	switch m.producer {
	case producerLocal:
		m.sim.Pulse(cmd)
	case producerNetwork:
		m.net.Pulse(cmd)
	}
}

// Frame runs one display-frame callback and returns the snapshot to paint.
func (m *Machine) Frame(now time.Time) *core.Snapshot {
	switch m.producer {
	case producerLocal:
		m.stepPractice(now)
	case producerNetwork:
		if target, ok := m.unifier.DragTarget(); ok {
			m.net.SetAbsolute(target)
		}
	}
	return m.snap
}

// PingTick sends a ping while a networked match is running.
func (m *Machine) PingTick(now time.Time) {
	if m.mode != ModeNetworked {
		return
	}
	m.send.Send(m.estimator.Ping(now))
}

func (m *Machine) stepPractice(now time.Time) {
	if target, ok := m.unifier.DragTarget(); ok {
		m.sim.SetAbsolute(target)
	}
	res := m.sim.Step(now)
	m.snap = res.Snapshot
	for _, c := range res.Cues {
		m.audio.Play(c)
	}
	if res.Finished {
		m.enterGameOver(ModePractice, m.sim.Winner())
		m.sim = nil
	}
}

// HandleEvent applies one event from the connection.
func (m *Machine) HandleEvent(evt protocol.Event, now time.Time) {
	switch e := evt.(type) {
	case netclient.LinkUp:
		m.status = StatusOnline
		if m.notice == NoticeConnectionLost {
			m.notice = ""
		}
	case netclient.LinkDown:
		wasOnline := m.status == StatusOnline
		m.status = StatusOffline
		m.net.Reset()
		if wasOnline && (m.mode == ModeNetworked || m.mode == ModeWaiting) {
			m.notice = NoticeConnectionLost
		}
	case protocol.Connected:
		m.playerID = e.PlayerID
		m.localIndex = -1
		m.logger.Debug("assigned id", "player_id", e.PlayerID)
	case protocol.RoomCreated:
		if m.mode != ModeMenu {
			return
		}
		m.pendingCreate = false
		m.roomCode = e.RoomCode
		m.notice = ""
		m.setMode(ModeWaiting, producerNone)
	case protocol.RoomJoined:
		if m.mode != ModeMenu {
			return
		}
		m.pendingJoin = false
		m.roomCode = e.RoomCode
		m.notice = ""
		m.enterNetworked()
	case protocol.PlayerJoined:
		if m.mode != ModeWaiting {
			return
		}
		m.enterNetworked()
	case protocol.GameState:
		if m.producer != producerNetwork {
			return
		}
		m.applyGameState(e)
	case protocol.Pong:
		upd := m.estimator.HandlePong(e, now)
		if m.mode == ModeNetworked {
			m.send.Send(upd)
		}
	case protocol.ScoreEvent:
		if m.mode == ModeNetworked {
			m.audio.Play(cues.Score)
		}
	case protocol.GameOver:
		if m.mode != ModeNetworked {
			return
		}
		m.enterGameOver(ModeNetworked, e.Winner)
	case protocol.PlayerDisconnected:
		if m.mode != ModeNetworked && m.mode != ModeWaiting {
			return
		}
		m.enterMenu()
		m.notice = NoticeOpponentLeft
	case protocol.ServerError:
		m.pendingCreate = false
		m.pendingJoin = false
		m.notice = e.Message
	}
}

// applyGameState replaces the snapshot wholesale with the server's view.
func (m *Machine) applyGameState(gs protocol.GameState) {
	if m.localIndex < 0 && m.playerID != "" {
		m.localIndex = gs.IndexOf(m.playerID)
	}

	cfg := m.opts.Practice
	half := cfg.PaddleHeight / 2
	players := make([]core.Player, len(gs.Players))
	for i, p := range gs.Players {
		players[i] = core.Player{
			ID:        p.ID,
			Name:      p.Name,
			PaddleY:   core.ClampF(p.PaddleY, half, cfg.Height-half),
			Score:     p.Score,
			LatencyMs: p.LatencyMs,
		}
	}
	snap := &core.Snapshot{
		Phase: phaseOf(gs.State),
		Ball: core.Ball{
			X: gs.Ball.X, Y: gs.Ball.Y,
			VX: gs.Ball.VX, VY: gs.Ball.VY,
			Radius: cfg.BallRadius,
		},
		Players: players,
	}
	prev := m.snap
	m.snap = snap

	if snap.Phase == core.PhaseCountdown && (prev == nil || prev.Phase != core.PhaseCountdown) {
		m.audio.Play(cues.Countdown)
	}
	if m.localIndex >= 0 && m.localIndex < len(players) {
		m.net.ObservePaddle(players[m.localIndex].PaddleY)
	}
	if c, ok := m.detector.Observe(snap); ok {
		m.audio.Play(c)
	}
}

func phaseOf(state string) core.Phase {
	switch state {
	case protocol.StateWaiting:
		return core.PhaseCountdown
	case protocol.StateFinished:
		return core.PhaseFinished
	default:
		return core.PhasePlaying
	}
}

func (m *Machine) enterNetworked() {
	m.resetTransient()
	m.snap = nil
	m.localIndex = -1
	m.setMode(ModeNetworked, producerNetwork)
	m.startPing()
}

func (m *Machine) enterGameOver(origin Mode, winner string) {
	m.stopPing()
	if m.snap != nil {
		final := m.snap.Clone()
		final.Phase = core.PhaseFinished
		final.Winner = winner
		m.snap = final
	} else {
		m.snap = &core.Snapshot{Phase: core.PhaseFinished, Winner: winner}
	}
	m.origin = origin
	m.setMode(ModeGameOver, producerNone)
	m.audio.Play(cues.Victory)
}

func (m *Machine) enterMenu() {
	m.stopPing()
	m.resetTransient()
	m.sim = nil
	m.snap = nil
	m.roomCode = ""
	m.pendingCreate = false
	m.pendingJoin = false
	m.setMode(ModeMenu, producerNone)
}

// resetTransient clears per-match input and inference state.
func (m *Machine) resetTransient() {
	m.unifier.Reset()
	m.net.Reset()
	m.detector.Reset()
}

func (m *Machine) setMode(mode Mode, p producer) {
	if mode != m.mode {
		m.logger.Debug("mode change", "from", m.mode, "to", mode)
	}
	m.mode = mode
	m.producer = p
}

func (m *Machine) startPing() {
	if _, started := m.pingLoop.Start(); started {
		m.logger.Debug("ping loop started")
	}
}

func (m *Machine) stopPing() {
	m.pingLoop.Stop()
}

func (m *Machine) sendDirection(dir int) {
	if m.producer != producerNetwork {
		return
	}
	m.send.Send(protocol.PaddleInput{Direction: dir})
}
