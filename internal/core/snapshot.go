package core

import "math"

// Phase is the match phase carried by a snapshot.
type Phase int

const (
	PhaseCountdown Phase = iota
	PhasePlaying
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Playfield dimensions in logical units. Renderers scale from these.
const (
	FieldWidth  = 800.0
	FieldHeight = 600.0
)

// Ball is the ball in logical coordinates; velocity is in units per second.
type Ball struct {
	X, Y   float64
	VX, VY float64
	Radius float64
}

// Speed returns the length of the velocity vector.
func (b Ball) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

// Player is one paddle slot. Slot 0 is the left paddle, slot 1 the right.
type Player struct {
	ID        string
	Name      string
	PaddleY   float64 // paddle center
	Score     int
	LatencyMs float64
}

// Snapshot is the complete playfield at one instant. A snapshot is never
// modified after it is published; producers build a new one per update.
type Snapshot struct {
	Phase   Phase
	Ball    Ball
	Players []Player
	Winner  string // set only in PhaseFinished
}

// Ready reports whether both player slots are present and may be indexed.
func (s *Snapshot) Ready() bool {
	return s != nil && len(s.Players) == 2
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Players = append([]Player(nil), s.Players...)
	return &out
}
