package core

// Action represents a semantic client action, abstracted from physical key presses.
// The platform layer maps keys and mouse events to actions; the session
// layer only ever sees actions.
type Action int

const (
	ActionNone      Action = iota
	ActionUp               // W, Up arrow - paddle up (held)
	ActionDown             // S, Down arrow - paddle down (held)
	ActionConfirm          // Enter - confirm selection in menu
	ActionBack             // Escape - leave the current screen
	ActionRematch          // R - play again after game over
	ActionQuit             // Q, Ctrl+C - exit the client
	ActionToggleSound      // M - mute/unmute cues
	ActionLeaderboard      // L - open the leaderboard from the menu
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRematch:
		return "Rematch"
	case ActionQuit:
		return "Quit"
	case ActionToggleSound:
		return "ToggleSound"
	case ActionLeaderboard:
		return "Leaderboard"
	default:
		return "Unknown"
	}
}

// IsPaddle reports whether the action is one of the held paddle keys.
func (a Action) IsPaddle() bool {
	return a == ActionUp || a == ActionDown
}
