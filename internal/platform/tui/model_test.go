package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/netpong/internal/config"
	"github.com/vovakirdan/netpong/internal/cues"
	"github.com/vovakirdan/netpong/internal/input"
	"github.com/vovakirdan/netpong/internal/leaderboard"
	"github.com/vovakirdan/netpong/internal/netclient"
	"github.com/vovakirdan/netpong/internal/protocol"
	"github.com/vovakirdan/netpong/internal/session"
	"github.com/vovakirdan/netpong/internal/storage"
)

var t0 = time.UnixMilli(1_700_000_000_000)

type fakeLink struct {
	sent   []protocol.Message
	closed bool
}

func (f *fakeLink) Send(msg protocol.Message) {
	f.sent = append(f.sent, msg)
}

func (f *fakeLink) Close() {
	f.closed = true
}

func (f *fakeLink) last() protocol.Message {
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

type fakePrefs map[string]string

func (p fakePrefs) SetPref(key, value string) error {
	p[key] = value
	return nil
}

func newTestModel(t *testing.T) (*Model, *fakeLink) {
	t.Helper()
	link := &fakeLink{}
	m := NewModel(Deps{
		Config: config.DefaultConfig(),
		Link:   link,
		Audio:  cues.NewSwitch(&cues.Recorder{}, true),
		Seed:   7,
		Width:  82,
		Height: 27,
	})
	m.Init()
	return m, link
}

func send(m *Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

var (
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func TestPracticeRunsFrameLoop(t *testing.T) {
	m, link := newTestModel(t)

	send(m, runeKey("p"))
	require.Equal(t, session.ModePractice, m.Machine().Mode())
	require.True(t, m.frames.Running())

	gen := m.frames.Generation()
	before := m.Machine().Snapshot()
	send(m, FrameMsg{Gen: gen, At: t0})
	after := m.Machine().Snapshot()
	assert.NotSame(t, before, after, "a live frame steps the simulator")

	send(m, FrameMsg{Gen: gen - 1, At: t0.Add(time.Second)})
	assert.Same(t, after, m.Machine().Snapshot(), "stale frames are dropped")

	assert.Contains(t, m.View(), "PRACTICE MODE")

	send(m, keyEsc)
	assert.Equal(t, session.ModeMenu, m.Machine().Mode())
	assert.False(t, m.frames.Running())

	send(m, FrameMsg{Gen: gen, At: t0.Add(2 * time.Second)})
	assert.Nil(t, m.Machine().Snapshot())
	assert.Empty(t, link.sent, "practice never talks to the server")
}

func TestKeyHoldRelease(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, runeKey("p"))
	u := m.Machine().Input()

	send(m, runeKey("w"))
	require.True(t, u.Held(input.KeyW))
	first := m.holdSeq

	send(m, runeKey("w"))
	send(m, keyReleaseMsg{key: input.KeyW, seq: first})
	assert.True(t, u.Held(input.KeyW), "a repeat extends the hold")

	send(m, keyReleaseMsg{key: input.KeyW, seq: m.holdSeq})
	assert.False(t, u.Held(input.KeyW))
	assert.Equal(t, 0, u.Command().Direction)
}

func TestMouseGestures(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, runeKey("p"))
	u := m.Machine().Input()
	l := m.layout

	row := l.Field.Y + 2
	send(m, tea.MouseMsg{X: l.Field.X + 5, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	target, ok := u.DragTarget()
	require.True(t, ok)
	assert.InDelta(t, l.LogicalY(row), target, 1e-9)

	send(m, tea.MouseMsg{X: l.Field.X + 5, Y: row + 4, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	target, _ = u.DragTarget()
	assert.InDelta(t, l.LogicalY(row+4), target, 1e-9)

	send(m, tea.MouseMsg{X: l.Field.X + 5, Y: row + 4, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	_, ok = u.DragTarget()
	assert.False(t, ok)

	send(m, tea.MouseMsg{X: l.Up.X + 1, Y: l.Up.Y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.True(t, u.Held(input.KeyButtonUp))
	assert.Equal(t, -1, u.Command().Direction)

	send(m, tea.MouseMsg{X: l.Up.X + 1, Y: l.Up.Y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.False(t, u.Held(input.KeyButtonUp))
}

func TestNetworkedFlow(t *testing.T) {
	m, link := newTestModel(t)

	send(m, runeKey("c"))
	require.Equal(t, protocol.CreateRoom{PlayerName: "Player"}, link.last())

	send(m, eventMsg{evt: protocol.RoomCreated{RoomCode: "QX7Z"}})
	require.Equal(t, session.ModeWaiting, m.Machine().Mode())
	assert.Contains(t, m.View(), "[ QX7Z ]")
	assert.False(t, m.frames.Running())

	send(m, eventMsg{evt: protocol.PlayerJoined{}})
	require.Equal(t, session.ModeNetworked, m.Machine().Mode())
	assert.True(t, m.frames.Running())

	pl := m.Machine().PingLoop()
	require.True(t, pl.Running())
	assert.Equal(t, pl.Generation(), m.pingGen, "ping interval scheduled")

	send(m, PingMsg{Gen: m.pingGen, At: t0})
	assert.Equal(t, protocol.Ping{Timestamp: t0.UnixMilli()}, link.last())

	sent := len(link.sent)
	send(m, PingMsg{Gen: m.pingGen - 1, At: t0})
	assert.Len(t, link.sent, sent, "stale ping ticks are dropped")

	send(m, keyEsc)
	assert.Equal(t, protocol.Disconnect{}, link.last())
	assert.Equal(t, session.ModeMenu, m.Machine().Mode())
	assert.False(t, pl.Running())
	assert.False(t, m.frames.Running())
}

func TestJoinRejectsShortCode(t *testing.T) {
	m, link := newTestModel(t)

	send(m, keyDown) // room code field
	require.True(t, m.menu.Editing())
	send(m, runeKey("a"), runeKey("b"), keyEnter)

	assert.Equal(t, "AB", m.menu.RoomCode())
	assert.Equal(t, session.NoticeBadRoomCode, m.Machine().Notice())
	assert.Empty(t, link.sent)
	assert.Equal(t, session.ModeMenu, m.Machine().Mode())
}

func TestJoinSendsNormalizedCode(t *testing.T) {
	m, link := newTestModel(t)

	send(m, keyDown, runeKey("q"), runeKey("x"), runeKey("7"), runeKey("z"), keyEnter)

	require.Len(t, link.sent, 1)
	assert.Equal(t, protocol.JoinRoom{RoomCode: "QX7Z", PlayerName: "Player"}, link.sent[0])
}

func TestSoundToggleIsPersisted(t *testing.T) {
	m, _ := newTestModel(t)
	prefs := fakePrefs{}
	m.deps.Prefs = prefs

	send(m, runeKey("m"))
	assert.False(t, m.deps.Audio.Enabled())
	assert.Equal(t, "off", prefs[storage.PrefSound])
	assert.Contains(t, m.View(), "muted")

	send(m, runeKey("m"))
	assert.True(t, m.deps.Audio.Enabled())
	assert.Equal(t, "on", prefs[storage.PrefSound])
}

func TestLeaderboardView(t *testing.T) {
	m, _ := newTestModel(t)

	send(m, runeKey("l"))
	require.NotNil(t, m.board)
	assert.Contains(t, m.View(), "Loading")

	send(m, BoardLoadedMsg{Board: leaderboard.Board{
		Entries:   []leaderboard.Entry{{PlayerName: "Ann", TotalWins: 2, TotalMatches: 3, WinRate: 66.7}},
		FetchedAt: t0,
		Offline:   true,
	}})
	view := m.View()
	assert.Contains(t, view, "Ann")
	assert.Contains(t, view, "2-1")
	assert.Contains(t, view, "OFFLINE")

	send(m, keyEsc)
	assert.Nil(t, m.board)
	assert.Contains(t, m.View(), "N E T P O N G")
}

func TestQuitClosesLink(t *testing.T) {
	m, link := newTestModel(t)

	send(m, tea.KeyMsg{Type: tea.KeyCtrlC})

	assert.True(t, link.closed)
	assert.Empty(t, m.View())
}

func TestEventsArriveThroughSink(t *testing.T) {
	link := &fakeLink{}
	sink := netclient.NewSink(8)
	m := NewModel(Deps{Config: config.DefaultConfig(), Link: link, Sink: sink})

	sink.Send(netclient.LinkUp{})
	sink.Send(protocol.Connected{PlayerID: "p-1"})

	for range 2 {
		msg := m.waitForEvent()()
		send(m, msg)
	}

	assert.Equal(t, session.StatusOnline, m.Machine().Status())
	assert.Equal(t, "p-1", m.Machine().PlayerID())

	sink.Close()
	assert.Nil(t, m.waitForEvent()(), "closed sink ends the pump")
}
