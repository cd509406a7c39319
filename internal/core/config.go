package core

// Terminal size assumed when the real one cannot be read.
const (
	DefaultScreenW = 80
	DefaultScreenH = 24
)

// RenderQuality is computed once at startup and threaded into the renderer.
// LowFidelity disables colors and decorative detail.
type RenderQuality struct {
	LowFidelity bool
}
