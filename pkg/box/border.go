package box

import (
	"math"

	"screenpaint/pkg/css"
	"screenpaint/pkg/geom"
)

// sideCorners returns the two corners a side runs between, in clockwise
// order.
func sideCorners(side css.Side) (css.Corner, css.Corner) {
	switch side {
	case css.SideTop:
		return css.CornerTopLeft, css.CornerTopRight
	case css.SideRight:
		return css.CornerTopRight, css.CornerBottomRight
	case css.SideBottom:
		return css.CornerBottomRight, css.CornerBottomLeft
	default:
		return css.CornerBottomLeft, css.CornerTopLeft
	}
}

func firstHalf(s geom.Segment) geom.Segment {
	if c, ok := s.(geom.BezierCurve); ok {
		return c.Subdivide(0.5, true)
	}
	return s
}

func secondHalf(s geom.Segment) geom.Segment {
	if c, ok := s.(geom.BezierCurve); ok {
		return c.Subdivide(0.5, false)
	}
	return s
}

func reversed(s geom.Segment) geom.Segment {
	if c, ok := s.(geom.BezierCurve); ok {
		return c.Reverse()
	}
	return s
}

// pathBetween builds the closed band of one side between an outer and an
// inner outline, each corner split at its midpoint. The result always has
// four segments: outer start, outer end, inner end, inner start.
func pathBetween(outer, inner Corners, side css.Side) geom.Path {
	a, b := sideCorners(side)
	return geom.Path{
		secondHalf(outer[a]),
		firstHalf(outer[b]),
		reversed(firstHalf(inner[b])),
		reversed(secondHalf(inner[a])),
	}
}

// BorderPath is the area of one border side, between the border and padding
// edges.
func BorderPath(c *BoundCurves, side css.Side) geom.Path {
	return pathBetween(c.Border, c.Padding, side)
}

// DoubleBorderOuterPath is the outer third of a double border side.
func DoubleBorderOuterPath(c *BoundCurves, side css.Side) geom.Path {
	return pathBetween(c.Border, c.DoubleOuter, side)
}

// DoubleBorderInnerPath is the inner third of a double border side.
func DoubleBorderInnerPath(c *BoundCurves, side css.Side) geom.Path {
	return pathBetween(c.DoubleInner, c.Padding, side)
}

// BorderStrokePath is the open centerline of one border side.
func BorderStrokePath(c *BoundCurves, side css.Side) geom.Path {
	a, b := sideCorners(side)
	return geom.Path{secondHalf(c.Stroke[a]), firstHalf(c.Stroke[b])}
}

// SideLength is the length of a side measured along the outer edge between
// the corner midpoints of a BorderPath.
func SideLength(band geom.Path, side css.Side) float64 {
	start := geom.StartOf(band[0])
	end := geom.EndOf(band[1])
	if side == css.SideTop || side == css.SideBottom {
		return math.Abs(start.X - end.X)
	}
	return math.Abs(start.Y - end.Y)
}
