// Package tui provides the Bubble Tea integration for the netpong client.
// It owns the terminal UI loop, maps keys and mouse gestures to input
// sources, and schedules frame and ping ticks.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/netpong/internal/input"
)

// FrameMsg is one display-frame callback. Gen is the frame loop generation
// it was scheduled under.
type FrameMsg struct {
	Gen uint64
	At  time.Time
}

// PingMsg fires the ping interval.
type PingMsg struct {
	Gen uint64
	At  time.Time
}

// keyReleaseMsg ends a held key when no repeat arrived in time.
type keyReleaseMsg struct {
	key input.Key
	seq uint64
}

// frameCmd returns a command that sends the next frame at the given rate.
func frameCmd(fps int, gen uint64) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg{Gen: gen, At: t}
	})
}

func pingCmd(interval time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return PingMsg{Gen: gen, At: t}
	})
}

func releaseCmd(hold time.Duration, k input.Key, seq uint64) tea.Cmd {
	return tea.Tick(hold, func(time.Time) tea.Msg {
		return keyReleaseMsg{key: k, seq: seq}
	})
}
