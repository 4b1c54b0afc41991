package render

import (
	"screenpaint/pkg/box"
	"screenpaint/pkg/css"
	"screenpaint/pkg/geom"
	"screenpaint/pkg/stacking"
)

// paintBorders paints the four border sides in top, right, bottom, left
// order.
func (r *Renderer) paintBorders(p *stacking.ElementPaint) {
	st := p.Element.Style
	for side := css.SideTop; side <= css.SideLeft; side++ {
		b := st.Border(side)
		if !b.Style.Visible() || b.Color.IsTransparent() || b.Width <= 0 {
			continue
		}
		switch b.Style {
		case css.BorderStyleDashed:
			r.paintDashedBorder(b, side, p.Curves)
		case css.BorderStyleDotted:
			r.paintDottedBorder(b, side, p.Curves)
		case css.BorderStyleDouble:
			r.paintDoubleBorder(b, side, p.Curves)
		default:
			r.surface.Fill(box.BorderPath(p.Curves, side), b.Color)
		}
	}
}

// paintDoubleBorder fills the outer and inner thirds of a side. Borders too
// thin to show a gap are painted solid.
func (r *Renderer) paintDoubleBorder(b css.BorderSide, side css.Side, curves *box.BoundCurves) {
	if b.Width < 3 {
		r.surface.Fill(box.BorderPath(curves, side), b.Color)
		return
	}
	r.surface.Fill(box.DoubleBorderOuterPath(curves, side), b.Color)
	r.surface.Fill(box.DoubleBorderInnerPath(curves, side), b.Color)
}

// paintDashedBorder strokes the outer edge of the side with a stroke wide
// enough to cover the whole band, clipped to the band.
func (r *Renderer) paintDashedBorder(b css.BorderSide, side css.Side, curves *box.BoundCurves) {
	s := r.surface
	band := box.BorderPath(curves, side)
	d := box.ComputeDashes(box.SideLength(band, side), b.Width, css.BorderStyleDashed)

	s.Push()
	defer s.Pop()
	s.Clip(band)

	st := Stroke{Color: b.Color, Width: b.Width*2 + 1.1}
	if !d.Solid {
		st.Dash = []float64{d.Dash, d.Gap}
	}
	s.StrokePath(band[:2], st)

	// Rounded corners leave a gap between the dashes of neighbouring sides.
	st.Dash = nil
	if _, ok := band[0].(geom.BezierCurve); ok {
		s.StrokePath(geom.Path{geom.EndOf(band[3]), geom.StartOf(band[0])}, st)
	}
	if _, ok := band[1].(geom.BezierCurve); ok {
		s.StrokePath(geom.Path{geom.EndOf(band[1]), geom.StartOf(band[2])}, st)
	}
}

// paintDottedBorder places round dots of the border width along the side's
// centerline.
func (r *Renderer) paintDottedBorder(b css.BorderSide, side css.Side, curves *box.BoundCurves) {
	band := box.BorderPath(curves, side)
	d := box.ComputeDashes(box.SideLength(band, side), b.Width, css.BorderStyleDotted)
	line := box.BorderStrokePath(curves, side).Flatten(16)

	if d.Solid {
		r.surface.StrokePath(polyline(line), Stroke{Color: b.Color, Width: b.Width})
		return
	}
	for _, pt := range pointsAlong(line, d.Dash+d.Gap) {
		r.surface.FillCircle(pt, b.Width/2, b.Color)
	}
}

func polyline(pts []geom.Vector) geom.Path {
	p := make(geom.Path, len(pts))
	for i, v := range pts {
		p[i] = v
	}
	return p
}

// pointsAlong returns points every step units along a polyline, starting
// with its first point.
func pointsAlong(pts []geom.Vector, step float64) []geom.Vector {
	if len(pts) == 0 || step <= 0 {
		return nil
	}
	out := []geom.Vector{pts[0]}
	next := step
	walked := 0.0
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		seg := geom.Distance(a, b)
		for seg > 0 && next <= walked+seg+1e-9 {
			out = append(out, geom.Lerp(a, b, (next-walked)/seg))
			next += step
		}
		walked += seg
	}
	return out
}
