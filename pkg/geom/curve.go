package geom

// BezierCurve is a cubic Bézier segment.
type BezierCurve struct {
	Start        Vector
	StartControl Vector
	EndControl   Vector
	End          Vector
}

func (BezierCurve) isSegment() {}

// Subdivide splits the curve at t using de Casteljau's construction and
// returns the first or the second half.
func (c BezierCurve) Subdivide(t float64, firstHalf bool) BezierCurve {
	ab := Lerp(c.Start, c.StartControl, t)
	bc := Lerp(c.StartControl, c.EndControl, t)
	cd := Lerp(c.EndControl, c.End, t)
	abbc := Lerp(ab, bc, t)
	bccd := Lerp(bc, cd, t)
	dest := Lerp(abbc, bccd, t)
	if firstHalf {
		return BezierCurve{Start: c.Start, StartControl: ab, EndControl: abbc, End: dest}
	}
	return BezierCurve{Start: dest, StartControl: bccd, EndControl: cd, End: c.End}
}

// Reverse returns the same curve traversed from end to start.
func (c BezierCurve) Reverse() BezierCurve {
	return BezierCurve{Start: c.End, StartControl: c.EndControl, EndControl: c.StartControl, End: c.Start}
}

// Add translates every point of the curve.
func (c BezierCurve) Add(dx, dy float64) BezierCurve {
	return BezierCurve{
		Start:        c.Start.Add(dx, dy),
		StartControl: c.StartControl.Add(dx, dy),
		EndControl:   c.EndControl.Add(dx, dy),
		End:          c.End.Add(dx, dy),
	}
}

// Point evaluates the curve at t.
func (c BezierCurve) Point(t float64) Vector {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	cc := 3 * mt * t * t
	d := t * t * t
	return Vector{
		X: a*c.Start.X + b*c.StartControl.X + cc*c.EndControl.X + d*c.End.X,
		Y: a*c.Start.Y + b*c.StartControl.Y + cc*c.EndControl.Y + d*c.End.Y,
	}
}
