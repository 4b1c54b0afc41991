// Package box computes paint geometry for a single element: the nested
// rounded box outlines, background and mask areas, image sizes and tiles,
// and the paths and dash patterns used to paint borders.
package box

import (
	"math"

	"screenpaint/pkg/css"
	"screenpaint/pkg/dom"
	"screenpaint/pkg/geom"
)

// kappa places the control points of a cubic approximating a quarter
// ellipse; they sit at radius*(1-kappa) ≈ radius*0.4477 from the corner.
var kappa = 4 * ((math.Sqrt2 - 1) / 3)

// Corners holds the four corners of a box outline in top-left, top-right,
// bottom-right, bottom-left order. Each is a geom.Vector for a square corner
// or a geom.BezierCurve running clockwise around the box.
type Corners [4]geom.Segment

// Path returns the closed outline through the corners.
func (c Corners) Path() geom.Path {
	return geom.Path{c[0], c[1], c[2], c[3]}
}

// BoundCurves are the outlines of one element's boxes.
type BoundCurves struct {
	Border      Corners
	DoubleOuter Corners // one third into the border
	DoubleInner Corners // two thirds into the border
	Stroke      Corners // border centerline
	Padding     Corners
	Content     Corners
}

type radii struct {
	h, v float64
}

// NewBoundCurves builds the outlines of el from its bounds, radii, border
// widths and padding.
func NewBoundCurves(el *dom.Element) *BoundCurves {
	s, b := el.Style, el.Bounds
	rs := resolveRadii(s.BorderRadius, b)

	bw := s.BorderWidth
	third := css.BoxEdge{Top: bw.Top / 3, Right: bw.Right / 3, Bottom: bw.Bottom / 3, Left: bw.Left / 3}
	twoThirds := css.BoxEdge{Top: bw.Top * 2 / 3, Right: bw.Right * 2 / 3, Bottom: bw.Bottom * 2 / 3, Left: bw.Left * 2 / 3}
	half := css.BoxEdge{Top: bw.Top / 2, Right: bw.Right / 2, Bottom: bw.Bottom / 2, Left: bw.Left / 2}
	p := s.Padding
	content := css.BoxEdge{Top: bw.Top + p.Top, Right: bw.Right + p.Right, Bottom: bw.Bottom + p.Bottom, Left: bw.Left + p.Left}

	return &BoundCurves{
		Border:      insetCorners(b, css.BoxEdge{}, rs),
		DoubleOuter: insetCorners(b, third, rs),
		DoubleInner: insetCorners(b, twoThirds, rs),
		Stroke:      insetCorners(b, half, rs),
		Padding:     insetCorners(b, bw, rs),
		Content:     insetCorners(b, content, rs),
	}
}

// resolveRadii resolves percentages and scales every radius down by the
// same factor when two adjacent radii do not fit on their side.
func resolveRadii(r [4]css.CornerRadius, b geom.Bounds) [4]radii {
	var rs [4]radii
	for i, c := range r {
		rs[i] = radii{h: math.Max(0, c.X.Resolve(b.Width)), v: math.Max(0, c.Y.Resolve(b.Height))}
	}
	tl, tr, br, bl := rs[css.CornerTopLeft], rs[css.CornerTopRight], rs[css.CornerBottomRight], rs[css.CornerBottomLeft]

	factor := 0.0
	if b.Width > 0 {
		factor = math.Max(factor, (tl.h+tr.h)/b.Width)
		factor = math.Max(factor, (bl.h+br.h)/b.Width)
	}
	if b.Height > 0 {
		factor = math.Max(factor, (tl.v+bl.v)/b.Height)
		factor = math.Max(factor, (tr.v+br.v)/b.Height)
	}
	if factor > 1 {
		for i := range rs {
			rs[i].h /= factor
			rs[i].v /= factor
		}
	}
	return rs
}

// insetCorners returns the outline of b shrunk by in on each side, with the
// corner radii shrunk by the same amounts.
func insetCorners(b geom.Bounds, in css.BoxEdge, rs [4]radii) Corners {
	left, top := b.Left+in.Left, b.Top+in.Top
	right, bottom := b.Right()-in.Right, b.Bottom()-in.Bottom

	tl := radii{math.Max(0, rs[css.CornerTopLeft].h-in.Left), math.Max(0, rs[css.CornerTopLeft].v-in.Top)}
	tr := radii{math.Max(0, rs[css.CornerTopRight].h-in.Right), math.Max(0, rs[css.CornerTopRight].v-in.Top)}
	br := radii{math.Max(0, rs[css.CornerBottomRight].h-in.Right), math.Max(0, rs[css.CornerBottomRight].v-in.Bottom)}
	bl := radii{math.Max(0, rs[css.CornerBottomLeft].h-in.Left), math.Max(0, rs[css.CornerBottomLeft].v-in.Bottom)}

	return Corners{
		corner(left, top, tl, css.CornerTopLeft),
		corner(right-tr.h, top, tr, css.CornerTopRight),
		corner(right-br.h, bottom-br.v, br, css.CornerBottomRight),
		corner(left, bottom-bl.v, bl, css.CornerBottomLeft),
	}
}

// corner returns the curve of one rounded corner, (x, y) being the top-left
// of the quarter ellipse's bounding box, or the corner point when both radii
// are zero.
func corner(x, y float64, r radii, pos css.Corner) geom.Segment {
	if r.h <= 0 && r.v <= 0 {
		return geom.V(x, y)
	}
	return curvePoints(x, y, r.h, r.v, pos)
}

func curvePoints(x, y, r1, r2 float64, pos css.Corner) geom.BezierCurve {
	ox := r1 * kappa
	oy := r2 * kappa
	xm := x + r1
	ym := y + r2

	switch pos {
	case css.CornerTopLeft:
		return geom.BezierCurve{Start: geom.V(x, ym), StartControl: geom.V(x, ym-oy), EndControl: geom.V(xm-ox, y), End: geom.V(xm, y)}
	case css.CornerTopRight:
		return geom.BezierCurve{Start: geom.V(x, y), StartControl: geom.V(x+ox, y), EndControl: geom.V(xm, ym-oy), End: geom.V(xm, ym)}
	case css.CornerBottomRight:
		return geom.BezierCurve{Start: geom.V(xm, y), StartControl: geom.V(xm, y+oy), EndControl: geom.V(x+ox, ym), End: geom.V(x, ym)}
	default:
		return geom.BezierCurve{Start: geom.V(xm, ym), StartControl: geom.V(xm-ox, ym), EndControl: geom.V(x, y+oy), End: geom.V(x, y)}
	}
}
