// Package core provides fundamental types and utilities shared by the
// client packages. It has no external dependencies (especially no Bubble
// Tea) so game and session logic stays pure and testable.
package core

import "math"

// Vec2 is a 2D vector in logical playfield units.
type Vec2 struct {
	X, Y float64
}

// Len returns the Euclidean length of the vector.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Scale returns the vector multiplied by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// LimitLen rescales the vector uniformly so its length does not exceed max.
// Direction is preserved.
func (v Vec2) LimitLen(max float64) Vec2 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Scale(max / l)
}

// Rect is an axis-aligned block of screen cells.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect builds a Rect from its top-left cell and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right is the first column past r.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom is the first row past r.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains reports whether cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Inset shrinks r by n cells on every side, never below zero size.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: max(r.W-2*n, 0), H: max(r.H-2*n, 0)}
}

// Clamp bounds val to [lo, hi].
func Clamp(val, lo, hi int) int {
	switch {
	case val < lo:
		return lo
	case val > hi:
		return hi
	}
	return val
}

// ClampF bounds val to [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	switch {
	case val < lo:
		return lo
	case val > hi:
		return hi
	}
	return val
}

// Sign returns -1, 0 or 1 according to the sign of x.
func Sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

