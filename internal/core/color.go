package core

// Color represents a foreground color for a screen cell.
// The platform layer maps these to ANSI 256-color styles.
type Color uint8

// Predefined colors for playfield elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorMagenta
	ColorWhite
	ColorOrange
	ColorGray
)
