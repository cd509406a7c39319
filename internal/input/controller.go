package input

// PaddleController is how the session applies a command to whoever owns the
// local paddle. Local physics accepts absolute positions; the network only
// accepts direction pulses.
type PaddleController interface {
	// SetAbsolute moves the paddle straight to y (drag-to-follow).
	SetAbsolute(y float64)
	// Pulse applies a discrete direction at the given speed multiplier.
	Pulse(cmd Command)
}

// Sender transmits a paddle direction to the authoritative peer.
type Sender func(direction int)

// NetworkController turns commands into edge-triggered direction sends.
// Absolute positions cannot be asserted to the server, so SetAbsolute
// infers a direction against the last known paddle y instead.
type NetworkController struct {
	send      Sender
	tolerance float64
	paddleY   float64
	known     bool // paddleY has been reported at least once
	lastSent  int
}

// NewNetworkController creates a controller that reports changes via send.
func NewNetworkController(send Sender, tolerance float64) *NetworkController {
	return &NetworkController{send: send, tolerance: tolerance}
}

// ObservePaddle records the paddle y most recently reported by the server.
func (c *NetworkController) ObservePaddle(y float64) {
	c.paddleY = y
	c.known = true
}

// SetAbsolute implements PaddleController. Nothing is sent until the
// server has reported where the paddle is.
func (c *NetworkController) SetAbsolute(y float64) {
	if !c.known {
		return
	}
	c.emit(InferDirection(y, c.paddleY, c.tolerance))
}

// InferDirection is the direction that moves a paddle at paddleY toward
// target, or 0 within tolerance of it.
func InferDirection(target, paddleY, tolerance float64) int {
	diff := target - paddleY
	switch {
	case diff > tolerance:
		return 1
	case diff < -tolerance:
		return -1
	}
	return 0
}

// Pulse implements PaddleController. Only the direction is sent.
func (c *NetworkController) Pulse(cmd Command) {
	c.emit(cmd.Direction)
}

// LastSent returns the last direction transmitted.
func (c *NetworkController) LastSent() int {
	return c.lastSent
}

// Reset forgets the last sent direction and the observed paddle, as at the
// start of a match.
func (c *NetworkController) Reset() {
	c.lastSent = 0
	c.paddleY = 0
	c.known = false
}

func (c *NetworkController) emit(dir int) {
	if dir == c.lastSent {
		return
	}
	c.lastSent = dir
	if c.send != nil {
		c.send(dir)
	}
}
