package geom

import "math"

// Matrix is a 2D affine transform in CSS matrix(a, b, c, d, e, f) order:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the transform that leaves points unchanged.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

func Translate(x, y float64) Matrix { return Matrix{A: 1, D: 1, E: x, F: y} }
func Scale(x, y float64) Matrix     { return Matrix{A: x, D: y} }

// Rotate returns a clockwise rotation (CSS convention, y axis down).
func Rotate(radians float64) Matrix {
	s, c := math.Sincos(radians)
	return Matrix{A: c, B: s, C: -s, D: c}
}

// Skew returns a skew by the given angles.
func Skew(ax, ay float64) Matrix {
	return Matrix{A: 1, B: math.Tan(ay), C: math.Tan(ax), D: 1}
}

// Then returns the transform that applies m first and n second.
func (m Matrix) Then(n Matrix) Matrix {
	return Matrix{
		A: n.A*m.A + n.C*m.B,
		B: n.B*m.A + n.D*m.B,
		C: n.A*m.C + n.C*m.D,
		D: n.B*m.C + n.D*m.D,
		E: n.A*m.E + n.C*m.F + n.E,
		F: n.B*m.E + n.D*m.F + n.F,
	}
}

// Apply transforms a point.
func (m Matrix) Apply(v Vector) Vector {
	return Vector{X: m.A*v.X + m.C*v.Y + m.E, Y: m.B*v.X + m.D*v.Y + m.F}
}

// Det is the determinant of the linear part.
func (m Matrix) Det() float64 {
	return m.A*m.D - m.B*m.C
}

// Invert returns the inverse transform. ok is false for degenerate matrices.
func (m Matrix) Invert() (inv Matrix, ok bool) {
	det := m.Det()
	if det == 0 || math.IsNaN(det) {
		return Matrix{}, false
	}
	inv = Matrix{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
	}
	inv.E = -(inv.A*m.E + inv.C*m.F)
	inv.F = -(inv.B*m.E + inv.D*m.F)
	return inv, true
}

// IsIdentity reports whether m leaves every point unchanged.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}
