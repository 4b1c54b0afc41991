package geom

import "math"

// Segment is either a Vector (a straight vertex) or a BezierCurve.
type Segment interface {
	isSegment()
}

// Path is an ordered list of segments. When drawn as a closed path the last
// segment connects back to the first.
type Path []Segment

// StartOf returns the point where a segment begins.
func StartOf(s Segment) Vector {
	switch s := s.(type) {
	case BezierCurve:
		return s.Start
	case Vector:
		return s
	}
	return Vector{}
}

// EndOf returns the point where a segment ends.
func EndOf(s Segment) Vector {
	switch s := s.(type) {
	case BezierCurve:
		return s.End
	case Vector:
		return s
	}
	return Vector{}
}

func addSegment(s Segment, dx, dy float64) Segment {
	switch s := s.(type) {
	case BezierCurve:
		return s.Add(dx, dy)
	case Vector:
		return s.Add(dx, dy)
	}
	return s
}

// Translate moves every segment of the path.
func (p Path) Translate(dx, dy float64) Path {
	out := make(Path, len(p))
	for i, s := range p {
		out[i] = addSegment(s, dx, dy)
	}
	return out
}

// Resize moves a four corner box path by (dx, dy) and grows it by (dw, dh):
// the top-right corner gains dw, the bottom corners gain dh.
func (p Path) Resize(dx, dy, dw, dh float64) Path {
	out := make(Path, len(p))
	for i, s := range p {
		switch i {
		case 0:
			out[i] = addSegment(s, dx, dy)
		case 1:
			out[i] = addSegment(s, dx+dw, dy)
		case 2:
			out[i] = addSegment(s, dx+dw, dy+dh)
		case 3:
			out[i] = addSegment(s, dx, dy+dh)
		default:
			out[i] = s
		}
	}
	return out
}

// Reverse returns the path walked in the opposite direction.
func (p Path) Reverse() Path {
	out := make(Path, len(p))
	for i, s := range p {
		if c, ok := s.(BezierCurve); ok {
			s = c.Reverse()
		}
		out[len(p)-1-i] = s
	}
	return out
}

// Equal compares two paths segment by segment.
func Equal(a, b Path) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Flatten approximates the open polyline through the path's segments, each
// curve split into steps pieces.
func (p Path) Flatten(steps int) []Vector {
	if steps < 1 {
		steps = 1
	}
	var pts []Vector
	for _, s := range p {
		switch s := s.(type) {
		case Vector:
			pts = append(pts, s)
		case BezierCurve:
			for i := 0; i <= steps; i++ {
				pts = append(pts, s.Point(float64(i)/float64(steps)))
			}
		}
	}
	return pts
}

// BoundingBox returns the bounds of every point and control point.
func (p Path) BoundingBox() Bounds {
	if len(p) == 0 {
		return Bounds{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(v Vector) {
		minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
		minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
	}
	for _, s := range p {
		switch s := s.(type) {
		case Vector:
			grow(s)
		case BezierCurve:
			grow(s.Start)
			grow(s.StartControl)
			grow(s.EndControl)
			grow(s.End)
		}
	}
	return Bounds{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}
