package render

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"screenpaint/pkg/css"
)

// gradientDirection returns the length of the gradient line of a linear
// gradient at angle over a w×h box and its start and end points.
func gradientDirection(angle, w, h float64) (length, x0, x1, y0, y1 float64) {
	length = math.Abs(w*math.Sin(angle)) + math.Abs(h*math.Cos(angle))
	halfW, halfH, halfLen := w/2, h/2, length/2
	yDiff := math.Sin(angle-math.Pi/2) * halfLen
	xDiff := math.Cos(angle-math.Pi/2) * halfLen
	return length, halfW - xDiff, halfW + xDiff, halfH - yDiff, halfH + yDiff
}

func distance(x, y float64) float64 {
	return math.Sqrt(x*x + y*y)
}

// findCorner returns the corner of a w×h box closest to, or farthest from,
// (x, y).
func findCorner(w, h, x, y float64, closest bool) (float64, float64) {
	corners := [4][2]float64{{0, 0}, {0, h}, {w, 0}, {w, h}}
	best := corners[0]
	bestStat := distance(x-best[0], y-best[1])
	for _, c := range corners[1:] {
		d := distance(x-c[0], y-c[1])
		if (closest && d < bestStat) || (!closest && d > bestStat) {
			best, bestStat = c, d
		}
	}
	return best[0], best[1]
}

// gradientRadius returns the horizontal and vertical radius of a radial
// gradient centered on (x, y) in a w×h box.
func gradientRadius(g *css.Gradient, x, y, w, h float64) (rx, ry float64) {
	if len(g.Radii) > 0 {
		rx = g.Radii[0].Resolve(w)
		ry = rx
		if len(g.Radii) > 1 {
			ry = g.Radii[1].Resolve(h)
		}
		return rx, ry
	}
	circle := g.Shape == css.ShapeCircle
	switch g.Extent {
	case css.ClosestSide:
		if circle {
			rx = math.Min(math.Min(math.Abs(x), math.Abs(x-w)), math.Min(math.Abs(y), math.Abs(y-h)))
			return rx, rx
		}
		return math.Min(math.Abs(x), math.Abs(x-w)), math.Min(math.Abs(y), math.Abs(y-h))
	case css.ClosestCorner:
		if circle {
			rx = math.Min(math.Min(distance(x, y), distance(x, y-h)), math.Min(distance(x-w, y), distance(x-w, y-h)))
			return rx, rx
		}
		// same aspect ratio as closest-side
		c := math.Min(math.Abs(y), math.Abs(y-h)) / math.Min(math.Abs(x), math.Abs(x-w))
		cx, cy := findCorner(w, h, x, y, true)
		rx = distance(cx-x, (cy-y)/c)
		return rx, c * rx
	case css.FarthestSide:
		if circle {
			rx = math.Max(math.Max(math.Abs(x), math.Abs(x-w)), math.Max(math.Abs(y), math.Abs(y-h)))
			return rx, rx
		}
		return math.Max(math.Abs(x), math.Abs(x-w)), math.Max(math.Abs(y), math.Abs(y-h))
	default:
		if circle {
			rx = math.Max(math.Max(distance(x, y), distance(x, y-h)), math.Max(distance(x-w, y), distance(x-w, y-h)))
			return rx, rx
		}
		c := math.Max(math.Abs(y), math.Abs(y-h)) / math.Max(math.Abs(x), math.Abs(x-w))
		cx, cy := findCorner(w, h, x, y, false)
		rx = distance(cx-x, (cy-y)/c)
		return rx, c * rx
	}
}

// addStops copies resolved stops into a gg gradient. Stops sharing an
// offset are nudged apart so their order survives sorting.
func addStops(dst gg.Gradient, stops []css.ResolvedStop) {
	prev := math.Inf(-1)
	for _, st := range stops {
		off := st.Offset
		if off <= prev {
			off = prev + 1e-9
		}
		dst.AddColorStop(off, st.Color.NRGBA())
		prev = off
	}
}

// gradientTile renders g over a w×h document unit box at k device pixels
// per unit. It returns nil when the gradient paints nothing.
func gradientTile(g *css.Gradient, w, h, k float64) *image.RGBA {
	tw, th := int(math.Round(w*k)), int(math.Round(h*k))
	if tw <= 0 || th <= 0 || len(g.ColorStops) == 0 {
		return nil
	}
	kx, ky := float64(tw)/w, float64(th)/h
	dc := gg.NewContext(tw, th)

	switch g.Type {
	case css.GradientRadial:
		x, y := g.Center.X.Resolve(w), g.Center.Y.Resolve(h)
		rx, ry := gradientRadius(g, x, y, w, h)
		if !(rx > 0 && ry > 0) {
			return nil
		}
		cx, cy := x*kx, y*ky
		grad := gg.NewRadialGradient(cx, cy, 0, cx, cy, rx*kx)
		addStops(grad, g.ResolveStops(rx))
		var pat gg.Pattern = grad
		if f := (ry * ky) / (rx * kx); f != 1 {
			pat = squashed{p: grad, cy: cy, f: f}
		}
		dc.SetFillStyle(pat)
	default:
		length, x0, x1, y0, y1 := gradientDirection(g.AngleFor(w, h), w, h)
		grad := gg.NewLinearGradient(x0*kx, y0*ky, x1*kx, y1*ky)
		addStops(grad, g.ResolveStops(length))
		dc.SetFillStyle(grad)
	}
	dc.DrawRectangle(0, 0, float64(tw), float64(th))
	dc.Fill()
	return dc.Image().(*image.RGBA)
}

// squashed draws a circular pattern as an ellipse f times as tall as wide,
// around the horizontal line y = cy.
type squashed struct {
	p  gg.Pattern
	cy float64
	f  float64
}

func (s squashed) ColorAt(x, y int) color.Color {
	yy := s.cy + (float64(y)+0.5-s.cy)/s.f
	return s.p.ColorAt(x, int(math.Floor(yy)))
}
