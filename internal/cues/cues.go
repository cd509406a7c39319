// Package cues names the audio/visual triggers of a match and infers
// collision cues from successive snapshots.
package cues

import (
	"io"
	"sync"
)

// Cue is a named trigger.
type Cue int

const (
	PaddleHit Cue = iota
	WallHit
	Score
	Countdown
	Victory
	Intro
	MenuClick
	MenuHover
)

func (c Cue) String() string {
	switch c {
	case PaddleHit:
		return "paddle_hit"
	case WallHit:
		return "wall_hit"
	case Score:
		return "score"
	case Countdown:
		return "countdown"
	case Victory:
		return "victory"
	case Intro:
		return "intro"
	case MenuClick:
		return "menu_click"
	case MenuHover:
		return "menu_hover"
	default:
		return "unknown"
	}
}

// AudioCue plays a cue. Implementations must not block.
type AudioCue interface {
	Play(c Cue)
}

// Bell plays cues as the terminal bell on w. Only cues listed in rings make
// a sound; the rest are silent in a terminal.
type Bell struct {
	mu    sync.Mutex
	w     io.Writer
	rings map[Cue]bool
}

// NewBell creates a bell that rings for paddle hits, scores and victory.
func NewBell(w io.Writer) *Bell {
	return &Bell{
		w:     w,
		rings: map[Cue]bool{PaddleHit: true, Score: true, Victory: true},
	}
}

// Play implements AudioCue.
func (b *Bell) Play(c Cue) {
	if b == nil || b.w == nil || !b.rings[c] {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.WriteString(b.w, "\a")
}

// Switch wraps an AudioCue with a mute toggle.
type Switch struct {
	mu      sync.Mutex
	out     AudioCue
	enabled bool
}

// NewSwitch creates an enabled switch in front of out.
func NewSwitch(out AudioCue, enabled bool) *Switch {
	return &Switch{out: out, enabled: enabled}
}

// Play implements AudioCue. Muted cues are dropped.
func (s *Switch) Play(c Cue) {
	s.mu.Lock()
	on := s.enabled
	s.mu.Unlock()
	if on && s.out != nil {
		s.out.Play(c)
	}
}

// Toggle flips the switch and returns the new state.
func (s *Switch) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = !s.enabled
	return s.enabled
}

// Enabled reports whether cues are audible.
func (s *Switch) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Recorder collects played cues in order.
type Recorder struct {
	mu     sync.Mutex
	played []Cue
}

// Play implements AudioCue.
func (r *Recorder) Play(c Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, c)
}

// Played returns a copy of the cues seen so far.
func (r *Recorder) Played() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Cue(nil), r.played...)
}

// Count returns how many times c was played.
func (r *Recorder) Count(c Cue) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.played {
		if p == c {
			n++
		}
	}
	return n
}

// Silent discards every cue.
type Silent struct{}

// Play implements AudioCue.
func (Silent) Play(Cue) {}
