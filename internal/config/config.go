// Package config provides YAML-based client configuration loading and
// difficulty presets.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/netpong/internal/input"
	"github.com/vovakirdan/netpong/internal/practice"
)

// ClientConfig contains all configuration for the netpong client.
type ClientConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Player   PlayerConfig   `yaml:"player"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Practice PracticeConfig `yaml:"practice"`
	Input    InputConfig    `yaml:"input"`
	Display  DisplayConfig  `yaml:"display"`
}

// ServerConfig locates the game server and tunes the link.
type ServerConfig struct {
	WSURL          string        `yaml:"ws_url"`
	APIURL         string        `yaml:"api_url"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`
}

// PlayerConfig holds the local player identity.
type PlayerConfig struct {
	Name string `yaml:"name"`
}

// PhysicsConfig defines the practice playfield in logical units.
type PhysicsConfig struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	PaddleHeight   float64 `yaml:"paddle_height"`
	PaddleWidth    float64 `yaml:"paddle_width"`
	PaddleInset    float64 `yaml:"paddle_inset"`
	PaddleSpeed    float64 `yaml:"paddle_speed"` // units per step
	BallRadius     float64 `yaml:"ball_radius"`
	ServeSpeed     float64 `yaml:"serve_speed"`
	InitialVX      float64 `yaml:"initial_vx"`
	InitialVY      float64 `yaml:"initial_vy"`
	SpeedIncrement float64 `yaml:"speed_increment"`
	MaxBallSpeed   float64 `yaml:"max_ball_speed"`
	SpinFactor     float64 `yaml:"spin_factor"`
	MaxStep        float64 `yaml:"max_step"`    // seconds
	ServeAngle     float64 `yaml:"serve_angle"` // degrees, total span
}

// PracticeConfig tunes the scripted opponent and match length.
type PracticeConfig struct {
	Difficulty float64 `yaml:"difficulty"`
	WinScore   int     `yaml:"win_score"`
	AIDeadband float64 `yaml:"ai_deadband"`
}

// InputConfig tunes the continuous input sources.
type InputConfig struct {
	SwipeDeadzone      float64       `yaml:"swipe_deadzone"`
	SwipeGain          float64       `yaml:"swipe_gain"`
	MaxSpeedMultiplier float64       `yaml:"max_speed_multiplier"`
	DragTolerance      float64       `yaml:"drag_tolerance"`
	KeyHold            time.Duration `yaml:"key_hold"` // terminal key-repeat release window
}

// DisplayConfig controls the render loop.
type DisplayConfig struct {
	FPS         int  `yaml:"fps"`
	LowFidelity bool `yaml:"low_fidelity"`
}

// PracticeSettings converts the physics and practice sections for the simulator.
func (c ClientConfig) PracticeSettings() practice.Settings {
	p := c.Physics
	return practice.Settings{
		Width:          p.Width,
		Height:         p.Height,
		PaddleHeight:   p.PaddleHeight,
		PaddleWidth:    p.PaddleWidth,
		PaddleInset:    p.PaddleInset,
		PaddleSpeed:    p.PaddleSpeed,
		BallRadius:     p.BallRadius,
		ServeSpeed:     p.ServeSpeed,
		InitialVX:      p.InitialVX,
		InitialVY:      p.InitialVY,
		SpeedIncrement: p.SpeedIncrement,
		MaxBallSpeed:   p.MaxBallSpeed,
		SpinFactor:     p.SpinFactor,
		MaxStep:        p.MaxStep,
		ServeAngle:     p.ServeAngle,
		Difficulty:     c.Practice.Difficulty,
		AIDeadband:     c.Practice.AIDeadband,
		WinScore:       c.Practice.WinScore,
	}
}

// InputSettings converts the input section for the unifier.
func (c ClientConfig) InputSettings() input.Settings {
	return input.Settings{
		SwipeDeadzone:      c.Input.SwipeDeadzone,
		SwipeGain:          c.Input.SwipeGain,
		MaxSpeedMultiplier: c.Input.MaxSpeedMultiplier,
		DragTolerance:      c.Input.DragTolerance,
	}
}

// Validate rejects values the client cannot run with.
func (c ClientConfig) Validate() error {
	switch {
	case c.Server.WSURL == "":
		return fmt.Errorf("config: server.ws_url is empty")
	case c.Server.ReconnectDelay <= 0:
		return fmt.Errorf("config: server.reconnect_delay must be positive")
	case c.Server.PingInterval <= 0:
		return fmt.Errorf("config: server.ping_interval must be positive")
	case c.Physics.Width <= 0 || c.Physics.Height <= 0:
		return fmt.Errorf("config: physics width and height must be positive")
	case c.Physics.PaddleHeight <= 0 || c.Physics.PaddleHeight >= c.Physics.Height:
		return fmt.Errorf("config: physics.paddle_height out of range")
	case c.Physics.SpeedIncrement <= 1:
		return fmt.Errorf("config: physics.speed_increment must be greater than 1")
	case c.Physics.MaxBallSpeed <= 0:
		return fmt.Errorf("config: physics.max_ball_speed must be positive")
	case c.Physics.MaxStep <= 0:
		return fmt.Errorf("config: physics.max_step must be positive")
	case c.Practice.Difficulty <= 0 || c.Practice.Difficulty > 1:
		return fmt.Errorf("config: practice.difficulty must be in (0, 1]")
	case c.Practice.WinScore < 1:
		return fmt.Errorf("config: practice.win_score must be at least 1")
	case c.Input.MaxSpeedMultiplier < 1:
		return fmt.Errorf("config: input.max_speed_multiplier must be at least 1")
	case c.Display.FPS < 1:
		return fmt.Errorf("config: display.fps must be at least 1")
	}
	return nil
}
