package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/cues"
	"github.com/vovakirdan/netpong/internal/input"
	"github.com/vovakirdan/netpong/internal/netclient"
	"github.com/vovakirdan/netpong/internal/practice"
	"github.com/vovakirdan/netpong/internal/protocol"
)

type fakeSender struct {
	sent []protocol.Message
}

func (f *fakeSender) Send(msg protocol.Message) {
	f.sent = append(f.sent, msg)
}

func (f *fakeSender) ofType(tag string) []protocol.Message {
	var out []protocol.Message
	for _, m := range f.sent {
		if m.MessageType() == tag {
			out = append(out, m)
		}
	}
	return out
}

var t0 = time.UnixMilli(1_700_000_000_000)

func newMachine(t *testing.T) (*Machine, *fakeSender, *cues.Recorder) {
	t.Helper()
	send := &fakeSender{}
	rec := &cues.Recorder{}
	m := New(send, Options{PlayerName: "  Ann ", Seed: 5, Audio: rec})
	return m, send, rec
}

func gameState(vx float64, players ...string) protocol.GameState {
	gs := protocol.GameState{
		State: protocol.StatePlaying,
		Ball:  protocol.Ball{X: 400, Y: 300, VX: vx, VY: 40},
	}
	for i, id := range players {
		gs.Players = append(gs.Players, protocol.PlayerState{ID: id, Name: id, PaddleY: 200 + float64(i)*100})
	}
	return gs
}

// intoNetworked drives a fresh machine into a joined match.
func intoNetworked(t *testing.T, m *Machine) {
	t.Helper()
	m.HandleEvent(netclient.LinkUp{}, t0)
	m.HandleEvent(protocol.Connected{PlayerID: "me"}, t0)
	require.NoError(t, m.JoinRoom("abcd"))
	m.HandleEvent(protocol.RoomJoined{RoomCode: "ABCD"}, t0)
	require.Equal(t, ModeNetworked, m.Mode())
}

func TestCreateRoomWaitsForConfirmation(t *testing.T) {
	m, send, _ := newMachine(t)

	m.CreateRoom()
	assert.Equal(t, ModeMenu, m.Mode())
	assert.True(t, m.Pending())
	require.Len(t, send.sent, 1)
	assert.Equal(t, protocol.CreateRoom{PlayerName: "Ann"}, send.sent[0])

	m.HandleEvent(protocol.RoomCreated{RoomCode: "QWER"}, t0)
	assert.Equal(t, ModeWaiting, m.Mode())
	assert.Equal(t, "QWER", m.RoomCode())
	assert.False(t, m.Pending())
	assert.Nil(t, m.Snapshot())
}

func TestJoinRoomRejectsShortCode(t *testing.T) {
	m, send, _ := newMachine(t)

	err := m.JoinRoom("AB")
	assert.ErrorIs(t, err, protocol.ErrInvalidRoomCode)
	assert.Empty(t, send.sent, "no message may be sent for an invalid code")
	assert.Equal(t, NoticeBadRoomCode, m.Notice())
	assert.Equal(t, ModeMenu, m.Mode())
}

func TestJoinRoomNormalizesAndStartsMatch(t *testing.T) {
	m, send, _ := newMachine(t)

	require.NoError(t, m.JoinRoom(" wxyz "))
	require.Len(t, send.sent, 1)
	assert.Equal(t, protocol.JoinRoom{RoomCode: "WXYZ", PlayerName: "Ann"}, send.sent[0])
	assert.Equal(t, ModeMenu, m.Mode())

	m.HandleEvent(protocol.RoomJoined{RoomCode: "WXYZ"}, t0)
	assert.Equal(t, ModeNetworked, m.Mode())
	assert.True(t, m.PingLoop().Running())
}

func TestHostFlow(t *testing.T) {
	m, send, _ := newMachine(t)
	m.CreateRoom()
	m.HandleEvent(protocol.RoomCreated{RoomCode: "QWER"}, t0)

	m.HandleEvent(protocol.PlayerJoined{}, t0)
	assert.Equal(t, ModeNetworked, m.Mode())
	assert.True(t, m.PingLoop().Running())

	// Late duplicates are ignored.
	m.HandleEvent(protocol.PlayerJoined{}, t0)
	assert.Equal(t, ModeNetworked, m.Mode())
	assert.Len(t, send.sent, 1)
}

func TestCancelWaitingSendsDisconnect(t *testing.T) {
	m, send, _ := newMachine(t)
	m.CreateRoom()
	m.HandleEvent(protocol.RoomCreated{RoomCode: "QWER"}, t0)

	m.CancelWaiting()
	assert.Equal(t, ModeMenu, m.Mode())
	assert.Len(t, send.ofType(protocol.TypeDisconnect), 1)
	assert.Empty(t, m.RoomCode())
}

func TestPaddleInputEdgeTriggered(t *testing.T) {
	m, send, _ := newMachine(t)
	intoNetworked(t, m)
	send.sent = nil

	dirs := []int{0, 1, 1, 1, -1, -1, 0, 0, 1}
	for _, d := range dirs {
		m.ApplyCommand(input.Command{Direction: d, SpeedMultiplier: 2})
		m.Frame(t0)
	}

	var got []int
	for _, msg := range send.ofType(protocol.TypePaddleInput) {
		got = append(got, msg.(protocol.PaddleInput).Direction)
	}
	assert.Equal(t, []int{1, -1, 0, 1}, got)
}

func TestPracticeSendsNothing(t *testing.T) {
	m, send, _ := newMachine(t)
	m.HandleEvent(netclient.LinkUp{}, t0)

	m.StartPractice()
	require.Equal(t, ModePractice, m.Mode())

	now := t0
	for i := 0; i < 300; i++ {
		m.ApplyCommand(input.Command{Direction: i%3 - 1, SpeedMultiplier: 1})
		m.Input().DragTo(float64(i))
		m.Frame(now)
		m.PingTick(now)
		now = now.Add(16 * time.Millisecond)
	}
	m.HandleEvent(protocol.Pong{ClientTimestamp: t0.UnixMilli()}, now)

	assert.Empty(t, send.sent)
	snap := m.Snapshot()
	require.True(t, snap.Ready())
	assert.Equal(t, 0, m.LocalIndex())
}

func TestPracticeIgnoresServerState(t *testing.T) {
	m, _, _ := newMachine(t)
	m.StartPractice()
	before := m.Snapshot()

	m.HandleEvent(gameState(100, "x", "y"), t0)
	assert.Same(t, before, m.Snapshot())
}

func TestLocalIndexResolvedOnce(t *testing.T) {
	m, _, _ := newMachine(t)
	intoNetworked(t, m)
	assert.Equal(t, -1, m.LocalIndex())

	m.HandleEvent(gameState(100, "other", "me"), t0)
	assert.Equal(t, 1, m.LocalIndex())

	m.HandleEvent(gameState(100, "x", "y"), t0)
	assert.Equal(t, 1, m.LocalIndex())

	m.HandleEvent(gameState(100, "me", "other"), t0)
	assert.Equal(t, 1, m.LocalIndex(), "resolved index must never be recomputed")
}

func TestLocalIndexRetriesUntilPresent(t *testing.T) {
	m, _, _ := newMachine(t)
	intoNetworked(t, m)

	m.HandleEvent(gameState(100, "other"), t0)
	assert.Equal(t, -1, m.LocalIndex())

	m.HandleEvent(gameState(100, "me", "other"), t0)
	assert.Equal(t, 0, m.LocalIndex())
}

func TestGameStateReplacesSnapshot(t *testing.T) {
	m, _, _ := newMachine(t)
	intoNetworked(t, m)

	m.HandleEvent(gameState(100, "me", "other"), t0)
	first := m.Snapshot()
	m.HandleEvent(gameState(-100, "me", "other"), t0)
	second := m.Snapshot()

	assert.NotSame(t, first, second)
	assert.Equal(t, 100.0, first.Ball.VX, "published snapshot must not change")
	assert.Equal(t, -100.0, second.Ball.VX)
	assert.Equal(t, core.PhasePlaying, second.Phase)
}

func TestPaddleHitInferredFromVelocityFlip(t *testing.T) {
	m, _, rec := newMachine(t)
	intoNetworked(t, m)

	m.HandleEvent(gameState(-120, "me", "other"), t0)
	m.HandleEvent(gameState(120, "me", "other"), t0)

	assert.Equal(t, 1, rec.Count(cues.PaddleHit))
	assert.Equal(t, 0, rec.Count(cues.WallHit))
}

func TestGameOverAndNetworkRematch(t *testing.T) {
	m, send, rec := newMachine(t)
	intoNetworked(t, m)
	m.HandleEvent(gameState(100, "me", "other"), t0)

	m.HandleEvent(protocol.GameOver{Winner: "Ann"}, t0)
	assert.Equal(t, ModeGameOver, m.Mode())
	assert.Equal(t, ModeNetworked, m.Origin())
	assert.False(t, m.PingLoop().Running())
	assert.Equal(t, 1, rec.Count(cues.Victory))

	snap := m.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, core.PhaseFinished, snap.Phase)
	assert.Equal(t, "Ann", snap.Winner)
	assert.Len(t, snap.Players, 2)

	send.sent = nil
	m.Rematch()
	assert.Equal(t, ModeMenu, m.Mode())
	assert.Len(t, send.ofType(protocol.TypeCreateRoom), 1)

	m.HandleEvent(protocol.RoomCreated{RoomCode: "ZZZZ"}, t0)
	assert.Equal(t, ModeWaiting, m.Mode())
}

func TestOpponentDisconnectReturnsToMenu(t *testing.T) {
	m, _, _ := newMachine(t)
	intoNetworked(t, m)

	m.HandleEvent(protocol.PlayerDisconnected{}, t0)
	assert.Equal(t, ModeMenu, m.Mode())
	assert.Equal(t, NoticeOpponentLeft, m.Notice())
	assert.False(t, m.PingLoop().Running())
	assert.Nil(t, m.Snapshot())
}

func TestLinkLossKeepsScreen(t *testing.T) {
	m, _, _ := newMachine(t)
	intoNetworked(t, m)
	assert.Equal(t, StatusOnline, m.Status())

	m.HandleEvent(netclient.LinkDown{}, t0)
	assert.Equal(t, ModeNetworked, m.Mode())
	assert.Equal(t, StatusOffline, m.Status())
	assert.Equal(t, NoticeConnectionLost, m.Notice())

	m.HandleEvent(netclient.LinkUp{}, t0)
	assert.Equal(t, StatusOnline, m.Status())
	assert.Empty(t, m.Notice())
}

func TestServerErrorShownVerbatim(t *testing.T) {
	m, _, _ := newMachine(t)
	require.NoError(t, m.JoinRoom("NOPE"))

	m.HandleEvent(protocol.ServerError{Message: "Room NOPE not found"}, t0)
	assert.Equal(t, "Room NOPE not found", m.Notice())
	assert.Equal(t, ModeMenu, m.Mode())
	assert.False(t, m.Pending())
}

func TestPingAndPong(t *testing.T) {
	m, send, _ := newMachine(t)

	m.PingTick(t0)
	assert.Empty(t, send.sent, "no pings outside a match")

	intoNetworked(t, m)
	send.sent = nil

	m.PingTick(t0)
	require.Len(t, send.sent, 1)
	assert.Equal(t, protocol.Ping{Timestamp: t0.UnixMilli()}, send.sent[0])

	m.HandleEvent(protocol.Pong{ClientTimestamp: t0.UnixMilli()}, t0.Add(35*time.Millisecond))
	require.Len(t, send.sent, 2)
	assert.Equal(t, protocol.LatencyUpdate{LatencyMs: 35}, send.sent[1])
	assert.Equal(t, 35.0, m.Latency().Average())
}

func TestPracticeRunsToGameOverAndRestarts(t *testing.T) {
	send := &fakeSender{}
	rec := &cues.Recorder{}
	cfg := practice.DefaultSettings()
	cfg.WinScore = 1
	cfg.PaddleHeight = 2
	cfg.Difficulty = 0.1
	m := New(send, Options{Practice: cfg, Seed: 9, Audio: rec})

	m.StartPractice()
	now := t0
	for i := 0; i < 20000 && m.Mode() == ModePractice; i++ {
		m.Frame(now)
		now = now.Add(33 * time.Millisecond)
	}

	require.Equal(t, ModeGameOver, m.Mode())
	assert.Equal(t, ModePractice, m.Origin())
	assert.NotEmpty(t, m.Snapshot().Winner)
	assert.Equal(t, 1, rec.Count(cues.Score))
	assert.Equal(t, 1, rec.Count(cues.Victory))

	m.Rematch()
	assert.Equal(t, ModePractice, m.Mode())
	assert.Equal(t, 0, m.Snapshot().Players[0].Score)
	assert.Empty(t, send.sent)
}

func TestExitPracticeDiscardsSimulator(t *testing.T) {
	m, _, _ := newMachine(t)
	m.StartPractice()
	m.ExitPractice()

	assert.Equal(t, ModeMenu, m.Mode())
	assert.Nil(t, m.Snapshot())
	// Frames in the menu have no producer.
	assert.Nil(t, m.Frame(t0))
}

func TestPlayerNameDefault(t *testing.T) {
	m := New(&fakeSender{}, Options{})
	assert.Equal(t, DefaultPlayerName, m.PlayerName())

	m.SetPlayerName("  Bo  ")
	assert.Equal(t, "Bo", m.PlayerName())
}

func TestNetworkedDragWaitsForServerPaddle(t *testing.T) {
	m, send, _ := newMachine(t)
	intoNetworked(t, m)
	send.sent = nil

	m.Input().DragTo(300)
	m.Frame(t0)
	assert.Empty(t, send.ofType(protocol.TypePaddleInput), "no paddle position reported yet")

	gs := gameState(120, "me", "them")
	gs.Players[0].PaddleY = 300
	m.HandleEvent(gs, t0)
	m.Frame(t0)
	assert.Empty(t, send.ofType(protocol.TypePaddleInput), "drag already on the paddle")

	m.Input().DragTo(450)
	m.Frame(t0)
	require.Len(t, send.ofType(protocol.TypePaddleInput), 1)
	assert.Equal(t, protocol.PaddleInput{Direction: 1}, send.ofType(protocol.TypePaddleInput)[0])
}

func TestLatePongOutsideMatchSendsNothing(t *testing.T) {
	m, send, _ := newMachine(t)
	intoNetworked(t, m)
	m.PingTick(t0)
	m.LeaveMatch()
	require.Equal(t, ModeMenu, m.Mode())
	send.sent = nil

	m.HandleEvent(protocol.Pong{ClientTimestamp: t0.UnixMilli()}, t0.Add(40*time.Millisecond))
	assert.Empty(t, send.ofType(protocol.TypeLatencyUpdate))
}

func TestCountdownCueOnEnteringCountdown(t *testing.T) {
	m, _, rec := newMachine(t)
	intoNetworked(t, m)

	waiting := gameState(0, "me", "them")
	waiting.State = protocol.StateWaiting
	m.HandleEvent(waiting, t0)
	m.HandleEvent(waiting, t0)
	assert.Equal(t, 1, rec.Count(cues.Countdown))

	m.HandleEvent(gameState(120, "me", "them"), t0)
	m.HandleEvent(waiting, t0)
	assert.Equal(t, 2, rec.Count(cues.Countdown))
}

func TestIntroPlaysOnFirstMenuSelection(t *testing.T) {
	m, _, rec := newMachine(t)

	m.StartPractice()
	m.ExitPractice()
	m.CreateRoom()

	assert.Equal(t, 1, rec.Count(cues.Intro))
	assert.Equal(t, 2, rec.Count(cues.MenuClick))
	assert.Equal(t, cues.Intro, rec.Played()[0])
}
