// Package geom holds the small geometric vocabulary shared by the paint
// pipeline: points, rectangles, cubic Bézier segments and closed paths.
package geom

import "math"

// Vector is a point (or displacement) in CSS pixel space.
type Vector struct {
	X float64
	Y float64
}

// V is shorthand for Vector{x, y}.
func V(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// Add returns the vector moved by (dx, dy).
func (v Vector) Add(dx, dy float64) Vector {
	return Vector{X: v.X + dx, Y: v.Y + dy}
}

// Lerp interpolates between a and b.
func Lerp(a, b Vector, t float64) Vector {
	return Vector{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Vector) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func (Vector) isSegment() {}
