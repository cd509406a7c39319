package practice

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/netpong/internal/cues"
	"github.com/vovakirdan/netpong/internal/input"
)

const frame = 1.0 / 60

func countCue(list []cues.Cue, c cues.Cue) int {
	n := 0
	for _, x := range list {
		if x == c {
			n++
		}
	}
	return n
}

func TestStraightShotHitsRightPaddleOnce(t *testing.T) {
	cfg := DefaultSettings()
	sim := New(cfg, "Ann", 1)
	sim.Launch(300, 0)

	hits := 0
	for i := 0; i < 600; i++ {
		res := sim.Advance(frame)
		hits += countCue(res.Cues, cues.PaddleHit)
		if hits > 0 && res.Snapshot.Ball.X < cfg.Width/2 {
			break
		}
	}

	if hits != 1 {
		t.Fatalf("paddle hits = %d, expected exactly 1", hits)
	}
	b := sim.Snapshot().Ball
	expected := -300 * cfg.SpeedIncrement
	if math.Abs(b.VX-expected) > 1e-9 {
		t.Errorf("VX after hit = %v, expected %v", b.VX, expected)
	}
	if b.VY != 0 {
		t.Errorf("VY after center hit = %v, expected 0", b.VY)
	}
}

func TestFirstStepHasZeroDelta(t *testing.T) {
	sim := New(DefaultSettings(), "Ann", 1)
	before := sim.Snapshot().Ball

	sim.Step(time.Unix(100, 0))
	after := sim.Snapshot().Ball
	if before.X != after.X || before.Y != after.Y {
		t.Errorf("first Step moved the ball from %+v to %+v", before, after)
	}
}

func TestStepCapsDelta(t *testing.T) {
	cfg := DefaultSettings()
	sim := New(cfg, "Ann", 1)
	sim.Launch(300, 0)

	t0 := time.Unix(100, 0)
	sim.Step(t0)
	sim.Step(t0.Add(5 * time.Second))

	moved := sim.Snapshot().Ball.X - cfg.Width/2
	if math.Abs(moved-300*cfg.MaxStep) > 1e-9 {
		t.Errorf("ball moved %v after a stall, expected one capped step of %v", moved, 300*cfg.MaxStep)
	}
}

func TestBallSpeedNeverExceedsMax(t *testing.T) {
	cfg := DefaultSettings()
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		sim := New(cfg, "Ann", int64(trial))
		sim.Launch((rng.Float64()*2-1)*900, (rng.Float64()*2-1)*900)

		for i := 0; i < 2000 && !sim.Finished(); i++ {
			sim.Pulse(input.Command{Direction: rng.Intn(3) - 1, SpeedMultiplier: 1 + rng.Float64()*2})
			res := sim.Advance(frame)
			if speed := res.Snapshot.Ball.Speed(); speed > cfg.MaxBallSpeed+1e-9 {
				t.Fatalf("trial %d step %d: speed %v exceeds max %v", trial, i, speed, cfg.MaxBallSpeed)
			}
		}
	}
}

func TestPaddlesStayInBounds(t *testing.T) {
	cfg := DefaultSettings()
	rng := rand.New(rand.NewSource(7))
	sim := New(cfg, "Ann", 7)
	lo, hi := cfg.PaddleHeight/2, cfg.Height-cfg.PaddleHeight/2

	for i := 0; i < 3000 && !sim.Finished(); i++ {
		if i%97 == 0 {
			sim.SetAbsolute((rng.Float64()*2 - 0.5) * cfg.Height)
		}
		sim.Pulse(input.Command{Direction: rng.Intn(3) - 1, SpeedMultiplier: 1 + rng.Float64()*5})
		res := sim.Advance(frame)
		for slot, p := range res.Snapshot.Players {
			if p.PaddleY < lo || p.PaddleY > hi {
				t.Fatalf("step %d: paddle %d y = %v outside [%v, %v]", i, slot, p.PaddleY, lo, hi)
			}
		}
	}
}

func TestSameSeedSameRally(t *testing.T) {
	cfg := DefaultSettings()
	a := New(cfg, "Ann", 99)
	b := New(cfg, "Ann", 99)

	for i := 0; i < 5000 && !a.Finished(); i++ {
		ra := a.Advance(frame)
		rb := b.Advance(frame)
		if ra.Snapshot.Ball != rb.Snapshot.Ball {
			t.Fatalf("step %d: trajectories diverged: %+v vs %+v", i, ra.Snapshot.Ball, rb.Snapshot.Ball)
		}
	}
}

func TestScoringAndWin(t *testing.T) {
	cfg := DefaultSettings()
	cfg.WinScore = 2
	sim := New(cfg, "Ann", 3)

	// Keep the local paddle parked at the bottom and shoot left past it.
	sim.SetAbsolute(cfg.Height)
	var scores int
	for round := 0; round < 2; round++ {
		sim.Launch(-600, 0)
		for i := 0; i < 200; i++ {
			res := sim.Advance(frame)
			if n := countCue(res.Cues, cues.Score); n > 0 {
				scores += n
				break
			}
		}
	}

	if scores != 2 {
		t.Fatalf("score cues = %d, expected 2", scores)
	}
	if !sim.Finished() {
		t.Fatal("Finished() = false after opponent reached win score")
	}
	snap := sim.Snapshot()
	if snap.Winner != OpponentName {
		t.Errorf("Winner = %q, expected %q", snap.Winner, OpponentName)
	}
	if snap.Players[1].Score != 2 || snap.Players[0].Score != 0 {
		t.Errorf("scores = %d-%d, expected 0-2", snap.Players[0].Score, snap.Players[1].Score)
	}

	// Finished simulator is frozen.
	res := sim.Advance(frame)
	if !res.Finished || len(res.Cues) != 0 {
		t.Errorf("Advance after finish = %+v, expected frozen result", res)
	}
}

func TestServeAngleBounded(t *testing.T) {
	cfg := DefaultSettings()
	sim := New(cfg, "Ann", 11)
	limit := cfg.ServeAngle / 2 * math.Pi / 180

	for i := 0; i < 200; i++ {
		sim.serve()
		b := sim.ball
		angle := math.Atan2(math.Abs(b.VY), math.Abs(b.VX))
		if angle > limit+1e-9 {
			t.Fatalf("serve angle %v exceeds %v", angle, limit)
		}
		if math.Abs(b.Speed()-cfg.ServeSpeed) > 1e-6 {
			t.Fatalf("serve speed %v, expected %v", b.Speed(), cfg.ServeSpeed)
		}
	}
}

func TestWallBounce(t *testing.T) {
	cfg := DefaultSettings()
	sim := New(cfg, "Ann", 1)
	sim.Launch(0, -300)

	walls := 0
	for i := 0; i < 120; i++ {
		walls += countCue(sim.Advance(frame).Cues, cues.WallHit)
		if walls > 0 {
			break
		}
	}
	if walls != 1 {
		t.Fatalf("wall hits = %d, expected 1", walls)
	}
	b := sim.Snapshot().Ball
	if b.VY <= 0 || b.Y < b.Radius {
		t.Errorf("after top wall ball = %+v, expected moving down inside the field", b)
	}
}
