// Package practice implements the client-local match against a scripted
// opponent. It never touches the network.
package practice

import (
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/cues"
	"github.com/vovakirdan/netpong/internal/input"
)

// Opponent identity used in snapshots.
const (
	LocalID      = "local"
	OpponentID   = "ai"
	OpponentName = "AI Opponent"
)

// Settings holds the physics and opponent tuning. Distances are logical
// units, velocities units per second, paddle speeds units per step.
type Settings struct {
	Width          float64
	Height         float64
	PaddleHeight   float64
	PaddleWidth    float64
	PaddleInset    float64 // paddle center distance from its side wall
	PaddleSpeed    float64
	BallRadius     float64
	ServeSpeed     float64
	InitialVX      float64
	InitialVY      float64
	SpeedIncrement float64
	MaxBallSpeed   float64
	SpinFactor     float64
	MaxStep        float64 // seconds
	ServeAngle     float64 // total launch span in degrees, centered on horizontal
	Difficulty     float64 // opponent speed as a fraction of PaddleSpeed, in (0,1]
	AIDeadband     float64
	WinScore       int
}

// DefaultSettings returns the stock practice tuning.
func DefaultSettings() Settings {
	return Settings{
		Width:          core.FieldWidth,
		Height:         core.FieldHeight,
		PaddleHeight:   100,
		PaddleWidth:    20,
		PaddleInset:    40,
		PaddleSpeed:    8,
		BallRadius:     10,
		ServeSpeed:     300,
		InitialVX:      300,
		InitialVY:      200,
		SpeedIncrement: 1.02,
		MaxBallSpeed:   600,
		SpinFactor:     50,
		MaxStep:        0.033,
		ServeAngle:     60,
		Difficulty:     0.7,
		AIDeadband:     10,
		WinScore:       5,
	}
}

// Result is the outcome of one step.
type Result struct {
	Snapshot *core.Snapshot
	Cues     []cues.Cue
	Finished bool
}

// Simulator advances ball, paddles and score. Slot 0 is the local player on
// the left; slot 1 is the scripted opponent on the right.
type Simulator struct {
	cfg Settings
	rng *rand.Rand

	ball    core.Ball
	paddles [2]float64
	scores  [2]int
	names   [2]string
	cmd     input.Command

	lastTime time.Time
	finished bool
	winner   string
	snap     *core.Snapshot
}

var _ input.PaddleController = (*Simulator)(nil)

// New creates a simulator with a fresh match. The seed drives every serve
// after the opening one, so equal seeds give equal rallies.
func New(cfg Settings, playerName string, seed int64) *Simulator {
	if playerName == "" {
		playerName = "Player"
	}
	sim := &Simulator{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		names: [2]string{playerName, OpponentName},
		cmd:   input.Idle,
	}
	center := cfg.Height / 2
	sim.paddles = [2]float64{center, center}
	sim.ball = core.Ball{
		X:      cfg.Width / 2,
		Y:      cfg.Height / 2,
		VX:     cfg.InitialVX,
		VY:     cfg.InitialVY,
		Radius: cfg.BallRadius,
	}
	sim.publish()
	return sim
}

// Settings returns the simulator tuning.
func (s *Simulator) Settings() Settings {
	return s.cfg
}

// SetAbsolute moves the local paddle straight to y, clamped to the field.
func (s *Simulator) SetAbsolute(y float64) {
	s.paddles[0] = s.clampPaddle(y)
	s.publish()
}

// Pulse sets the command applied to the local paddle on following steps.
func (s *Simulator) Pulse(cmd input.Command) {
	if cmd.SpeedMultiplier < 1 {
		cmd.SpeedMultiplier = 1
	}
	s.cmd = cmd
}

// Launch recenters the ball with the given velocity, capped at the maximum
// speed.
func (s *Simulator) Launch(vx, vy float64) {
	v := core.Vec2{X: vx, Y: vy}.LimitLen(s.cfg.MaxBallSpeed)
	s.ball.X = s.cfg.Width / 2
	s.ball.Y = s.cfg.Height / 2
	s.ball.VX, s.ball.VY = v.X, v.Y
	s.publish()
}

// Snapshot returns the latest published snapshot.
func (s *Simulator) Snapshot() *core.Snapshot {
	return s.snap
}

// Finished reports whether a player reached the win score.
func (s *Simulator) Finished() bool {
	return s.finished
}

// Winner returns the winning player's name once finished.
func (s *Simulator) Winner() string {
	return s.winner
}

// Step advances by the wall-clock time since the previous step, capped at
// MaxStep. The first step after New has a zero time step.
func (s *Simulator) Step(now time.Time) Result {
	dt := 0.0
	if !s.lastTime.IsZero() {
		dt = math.Min(now.Sub(s.lastTime).Seconds(), s.cfg.MaxStep)
		dt = math.Max(dt, 0)
	}
	s.lastTime = now
	return s.Advance(dt)
}

// Advance runs one step of dt seconds.
func (s *Simulator) Advance(dt float64) Result {
	if s.finished {
		return Result{Snapshot: s.snap, Finished: true}
	}
	var out []cues.Cue

	s.movePlayer()
	s.moveOpponent()

	b := &s.ball
	b.X += b.VX * dt
	b.Y += b.VY * dt

	if s.bounceWalls() {
		out = append(out, cues.WallHit)
	}
	if s.bouncePaddles() {
		out = append(out, cues.PaddleHit)
	}

	v := core.Vec2{X: b.VX, Y: b.VY}.LimitLen(s.cfg.MaxBallSpeed)
	b.VX, b.VY = v.X, v.Y

	if s.checkScore() {
		out = append(out, cues.Score)
	}

	s.publish()
	return Result{Snapshot: s.snap, Cues: out, Finished: s.finished}
}

func (s *Simulator) movePlayer() {
	if s.cmd.Direction == 0 {
		return
	}
	delta := float64(s.cmd.Direction) * s.cfg.PaddleSpeed * s.cmd.SpeedMultiplier
	s.paddles[0] = s.clampPaddle(s.paddles[0] + delta)
}

func (s *Simulator) moveOpponent() {
	gap := s.ball.Y - s.paddles[1]
	if math.Abs(gap) <= s.cfg.AIDeadband {
		return
	}
	speed := s.cfg.PaddleSpeed * s.cfg.Difficulty
	if gap > 0 {
		s.paddles[1] = s.clampPaddle(s.paddles[1] + speed)
	} else {
		s.paddles[1] = s.clampPaddle(s.paddles[1] - speed)
	}
}

// bounceWalls reflects the ball off the top and bottom walls. Only a ball
// moving into a wall is reflected.
func (s *Simulator) bounceWalls() bool {
	b := &s.ball
	hit := false
	if b.Y-b.Radius <= 0 {
		b.Y = b.Radius
		if b.VY < 0 {
			b.VY = -b.VY
			hit = true
		}
	}
	if b.Y+b.Radius >= s.cfg.Height {
		b.Y = s.cfg.Height - b.Radius
		if b.VY > 0 {
			b.VY = -b.VY
			hit = true
		}
	}
	return hit
}

// bouncePaddles returns the ball off a paddle face it is moving toward.
// Hits speed the ball up and add spin from the offset to the paddle center.
func (s *Simulator) bouncePaddles() bool {
	b := &s.ball
	halfW := s.cfg.PaddleWidth / 2
	reach := s.cfg.PaddleHeight/2 + b.Radius

	leftFace := s.cfg.PaddleInset + halfW
	if b.VX < 0 && b.X-b.Radius <= leftFace && math.Abs(b.Y-s.paddles[0]) < reach {
		b.VX = math.Abs(b.VX) * s.cfg.SpeedIncrement
		b.X = leftFace + b.Radius
		b.VY += s.spin(s.paddles[0])
		return true
	}

	rightFace := s.cfg.Width - s.cfg.PaddleInset - halfW
	if b.VX > 0 && b.X+b.Radius >= rightFace && math.Abs(b.Y-s.paddles[1]) < reach {
		b.VX = -math.Abs(b.VX) * s.cfg.SpeedIncrement
		b.X = rightFace - b.Radius
		b.VY += s.spin(s.paddles[1])
		return true
	}
	return false
}

func (s *Simulator) spin(paddleY float64) float64 {
	hitPos := (s.ball.Y - paddleY) / (s.cfg.PaddleHeight / 2)
	return hitPos * s.cfg.SpinFactor
}

func (s *Simulator) checkScore() bool {
	b := &s.ball
	switch {
	case b.X-b.Radius <= 0:
		s.scores[1]++
	case b.X+b.Radius >= s.cfg.Width:
		s.scores[0]++
	default:
		return false
	}

	for i, sc := range s.scores {
		if sc >= s.cfg.WinScore {
			s.finished = true
			s.winner = s.names[i]
		}
	}
	s.serve()
	return true
}

// serve recenters the ball at serve speed in a random direction within
// ServeAngle of horizontal.
func (s *Simulator) serve() {
	span := s.cfg.ServeAngle * math.Pi / 180
	angle := (s.rng.Float64() - 0.5) * span
	dir := 1.0
	if s.rng.Float64() < 0.5 {
		dir = -1
	}
	s.ball.X = s.cfg.Width / 2
	s.ball.Y = s.cfg.Height / 2
	s.ball.VX = math.Cos(angle) * s.cfg.ServeSpeed * dir
	s.ball.VY = math.Sin(angle) * s.cfg.ServeSpeed
}

func (s *Simulator) clampPaddle(y float64) float64 {
	half := s.cfg.PaddleHeight / 2
	return core.ClampF(y, half, s.cfg.Height-half)
}

func (s *Simulator) publish() {
	phase := core.PhasePlaying
	winner := ""
	if s.finished {
		phase = core.PhaseFinished
		winner = s.winner
	}
	s.snap = &core.Snapshot{
		Phase: phase,
		Ball:  s.ball,
		Players: []core.Player{
			{ID: LocalID, Name: s.names[0], PaddleY: s.paddles[0], Score: s.scores[0]},
			{ID: OpponentID, Name: s.names[1], PaddleY: s.paddles[1], Score: s.scores[1]},
		},
		Winner: winner,
	}
}
