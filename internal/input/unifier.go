// Package input merges keyboard, on-screen buttons, swipe gestures and
// drag-to-follow into a single paddle Command.
package input

import (
	"math"
	"time"
)

// Key identifies one discrete held input.
type Key int

const (
	KeyArrowUp Key = iota
	KeyW
	KeyButtonUp
	KeyArrowDown
	KeyS
	KeyButtonDown
)

// direction returns -1 for up keys and 1 for down keys.
func (k Key) direction() int {
	switch k {
	case KeyArrowDown, KeyS, KeyButtonDown:
		return 1
	default:
		return -1
	}
}

// Command is the unified paddle intent. Direction is -1 (up), 0 or 1 (down);
// SpeedMultiplier is always >= 1.
type Command struct {
	Direction       int
	SpeedMultiplier float64
}

// Idle is the neutral command.
var Idle = Command{Direction: 0, SpeedMultiplier: 1}

// Settings tune the continuous sources.
type Settings struct {
	SwipeDeadzone      float64 // units/second below which a swipe is neutral
	SwipeGain          float64 // units/second above the deadzone per +1 multiplier
	MaxSpeedMultiplier float64
	DragTolerance      float64 // units of slack before drag infers a direction
}

// DefaultSettings returns the stock tuning.
func DefaultSettings() Settings {
	return Settings{
		SwipeDeadzone:      120,
		SwipeGain:          400,
		MaxSpeedMultiplier: 3,
		DragTolerance:      5,
	}
}

// DirectionOf computes the direction for a set of held keys.
// Down keys are checked first, so down wins when both are held.
func DirectionOf(held map[Key]bool) int {
	for k, on := range held {
		if on && k.direction() == 1 {
			return 1
		}
	}
	for k, on := range held {
		if on && k.direction() == -1 {
			return -1
		}
	}
	return 0
}

// Unifier tracks every raw source and produces the current Command.
// It is driven from the UI goroutine only.
type Unifier struct {
	settings Settings
	held     map[Key]bool
	swipe    swipe
	drag     drag
}

// NewUnifier creates a unifier with the given settings.
func NewUnifier(s Settings) *Unifier {
	if s.MaxSpeedMultiplier < 1 {
		s.MaxSpeedMultiplier = 1
	}
	if s.SwipeGain <= 0 {
		s.SwipeGain = DefaultSettings().SwipeGain
	}
	return &Unifier{
		settings: s,
		held:     make(map[Key]bool),
	}
}

// Settings returns the unifier tuning.
func (u *Unifier) Settings() Settings {
	return u.settings
}

// Press marks k held.
func (u *Unifier) Press(k Key) Command {
	u.held[k] = true
	return u.Command()
}

// Release marks k no longer held.
func (u *Unifier) Release(k Key) Command {
	delete(u.held, k)
	return u.Command()
}

// Held reports whether k is currently held.
func (u *Unifier) Held(k Key) bool {
	return u.held[k]
}

// Reset clears all sources, e.g. on a mode change.
func (u *Unifier) Reset() {
	clear(u.held)
	u.swipe = swipe{}
	u.drag = drag{}
}

// SwipeMove feeds one pointer sample of an ongoing swipe at logical y.
func (u *Unifier) SwipeMove(y float64, at time.Time) Command {
	u.swipe.move(y, at, u.settings)
	return u.Command()
}

// SwipeEnd finishes the gesture and returns to neutral.
func (u *Unifier) SwipeEnd() Command {
	u.swipe = swipe{}
	return u.Command()
}

// DragTo starts or continues drag-to-follow toward logical y.
func (u *Unifier) DragTo(y float64) {
	u.drag = drag{active: true, target: y}
}

// DragEnd stops drag-to-follow.
func (u *Unifier) DragEnd() {
	u.drag = drag{}
}

// DragTarget returns the drag target while a drag is active.
func (u *Unifier) DragTarget() (float64, bool) {
	return u.drag.target, u.drag.active
}

// Command returns the current unified command. An active swipe with a
// direction takes precedence over held keys.
func (u *Unifier) Command() Command {
	if u.swipe.active && u.swipe.direction != 0 {
		return Command{Direction: u.swipe.direction, SpeedMultiplier: u.swipe.multiplier}
	}
	return Command{Direction: DirectionOf(u.held), SpeedMultiplier: 1}
}

type drag struct {
	active bool
	target float64
}

type swipe struct {
	active     bool
	lastY      float64
	lastAt     time.Time
	direction  int
	multiplier float64
}

func (s *swipe) move(y float64, at time.Time, cfg Settings) {
	if !s.active {
		*s = swipe{active: true, lastY: y, lastAt: at, multiplier: 1}
		return
	}
	dt := at.Sub(s.lastAt).Seconds()
	if dt <= 0 {
		s.lastY = y
		return
	}
	v := (y - s.lastY) / dt
	s.lastY = y
	s.lastAt = at

	speed := math.Abs(v)
	if speed < cfg.SwipeDeadzone {
		s.direction = 0
		s.multiplier = 1
		return
	}
	if v > 0 {
		s.direction = 1
	} else {
		s.direction = -1
	}
	s.multiplier = math.Min(1+(speed-cfg.SwipeDeadzone)/cfg.SwipeGain, cfg.MaxSpeedMultiplier)
}
