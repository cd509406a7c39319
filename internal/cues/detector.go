package cues

import "github.com/vovakirdan/netpong/internal/core"

// Detector infers paddle and wall hits from the ball velocity of successive
// snapshots. An x sign flip is a paddle hit; otherwise a y sign flip is a
// wall hit. Missed or merged frames can drop or misclassify a cue.
type Detector struct {
	primed bool
	vx, vy float64
}

// Observe compares s with the previous snapshot and returns the inferred
// cue, if any. The first snapshot after a Reset only primes the detector.
func (d *Detector) Observe(s *core.Snapshot) (Cue, bool) {
	if s == nil {
		return 0, false
	}
	vx, vy := s.Ball.VX, s.Ball.VY
	if !d.primed {
		d.primed = true
		d.vx, d.vy = vx, vy
		return 0, false
	}

	oldX, oldY := d.vx, d.vy
	d.vx, d.vy = vx, vy

	if vx == oldX && vy == oldY {
		return 0, false
	}
	if oldX != 0 && core.Sign(oldX) != core.Sign(vx) {
		return PaddleHit, true
	}
	if oldY != 0 && core.Sign(oldY) != core.Sign(vy) {
		return WallHit, true
	}
	return 0, false
}

// Reset forgets the previous velocity. Call it whenever the snapshot
// producer changes.
func (d *Detector) Reset() {
	*d = Detector{}
}
