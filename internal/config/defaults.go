package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/netpong.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// DefaultConfig returns the hardcoded default configuration.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		Server: ServerConfig{
			WSURL:          "ws://localhost:8000/ws",
			APIURL:         "http://localhost:8000",
			ReconnectDelay: 3 * time.Second,
			PingInterval:   time.Second,
			HTTPTimeout:    5 * time.Second,
		},
		Player: PlayerConfig{
			Name: "Player",
		},
		Physics: PhysicsConfig{
			Width:          800,
			Height:         600,
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
		},
		Practice: PracticeConfig{
			Difficulty: 0.7,
			WinScore:   5,
			AIDeadband: 10,
		},
		Input: InputConfig{
			SwipeDeadzone:      120,
			SwipeGain:          400,
			MaxSpeedMultiplier: 3,
			DragTolerance:      5,
			KeyHold:            180 * time.Millisecond,
		},
		Display: DisplayConfig{
			FPS:         60,
			LowFidelity: false,
		},
	}
}
