package css

import "math"

// GradientType represents the type of CSS gradient
type GradientType int

const (
	GradientLinear GradientType = iota
	GradientRadial
)

// RadialShape is the ending shape of a radial gradient.
type RadialShape int

const (
	ShapeEllipse RadialShape = iota
	ShapeCircle
)

// RadialExtent is the size keyword of a radial gradient.
type RadialExtent string

const (
	FarthestCorner RadialExtent = "farthest-corner"
	FarthestSide   RadialExtent = "farthest-side"
	ClosestCorner  RadialExtent = "closest-corner"
	ClosestSide    RadialExtent = "closest-side"
)

// ColorStop represents a color and its position in a gradient. A nil Offset
// means the position was not specified.
type ColorStop struct {
	Color  Color
	Offset *Length
}

// Stop returns a color stop at the given offset.
func Stop(c Color, offset Length) ColorStop {
	return ColorStop{Color: c, Offset: &offset}
}

// ResolvedStop is a color stop with its offset along the gradient line as a
// fraction in 0..1.
type ResolvedStop struct {
	Color  Color
	Offset float64
}

// Gradient represents a CSS gradient
type Gradient struct {
	Type GradientType

	// Angle is the direction of a linear gradient in radians, 0 pointing up
	// and increasing clockwise. ToCorner overrides it for "to <corner>"
	// directions, whose angle depends on the box size.
	Angle    float64
	ToCorner *Corner

	// Radial gradients: Radii holds explicit radii (one for circles, two for
	// ellipses) and takes precedence over Extent.
	Shape  RadialShape
	Extent RadialExtent
	Radii  []Length
	Center BackgroundPosition

	ColorStops []ColorStop
}

// LinearGradient returns a linear gradient at the given angle in degrees.
func LinearGradient(deg float64, stops ...ColorStop) *Gradient {
	return &Gradient{Type: GradientLinear, Angle: deg * math.Pi / 180, ColorStops: stops}
}

// RadialGradient returns an ellipse farthest-corner gradient centered in the box.
func RadialGradient(stops ...ColorStop) *Gradient {
	return &Gradient{
		Type:       GradientRadial,
		Shape:      ShapeEllipse,
		Extent:     FarthestCorner,
		Center:     BackgroundPosition{X: Percent(50), Y: Percent(50)},
		ColorStops: stops,
	}
}

// AngleFor returns the direction of a linear gradient over a box of the given
// size. "to <corner>" points perpendicular to the diagonal joining the two
// neighbouring corners.
func (g *Gradient) AngleFor(width, height float64) float64 {
	if g.ToCorner == nil {
		return g.Angle
	}
	sx, sy := 1.0, 1.0
	switch *g.ToCorner {
	case CornerTopLeft:
		sx, sy = -1, -1
	case CornerTopRight:
		sy = -1
	case CornerBottomLeft:
		sx = -1
	}
	a := math.Atan2(sx*height, -sy*width)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// ResolveStops converts the color stops to fractions of a gradient line of
// the given length. Missing first and last positions become 0% and 100%,
// positions never decrease, and runs of missing positions are spread evenly
// between their neighbours.
func (g *Gradient) ResolveStops(lineLength float64) []ResolvedStop {
	n := len(g.ColorStops)
	if n == 0 {
		return nil
	}
	pos := make([]float64, n)
	known := make([]bool, n)
	previous := 0.0
	for i, cs := range g.ColorStops {
		var off *Length
		switch {
		case cs.Offset != nil:
			off = cs.Offset
		case i == 0:
			zero := Px(0)
			off = &zero
		case i == n-1:
			full := Percent(100)
			off = &full
		default:
			continue
		}
		v := off.Resolve(lineLength)
		if v < previous {
			v = previous
		}
		pos[i], known[i], previous = v, true, v
	}

	gapBegin := -1
	for i := range pos {
		if !known[i] {
			if gapBegin < 0 {
				gapBegin = i
			}
			continue
		}
		if gapBegin >= 0 {
			gapLength := i - gapBegin
			before := pos[gapBegin-1]
			step := (pos[i] - before) / float64(gapLength+1)
			for k := 1; k <= gapLength; k++ {
				pos[gapBegin+k-1] = before + step*float64(k)
			}
			gapBegin = -1
		}
	}

	out := make([]ResolvedStop, n)
	for i, cs := range g.ColorStops {
		f := 0.0
		if lineLength > 0 {
			f = math.Max(0, math.Min(1, pos[i]/lineLength))
		}
		out[i] = ResolvedStop{Color: cs.Color, Offset: f}
	}
	return out
}
