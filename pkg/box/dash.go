package box

import (
	"math"

	"screenpaint/pkg/css"
)

// Dashes is the dash pattern of one dashed or dotted border side.
type Dashes struct {
	Dash  float64
	Gap   float64
	Count int

	// Solid is set when the side is too short for a pattern and is painted
	// as a continuous stroke.
	Solid bool
}

// Total is the length covered by Count dashes and the gaps between them.
func (d Dashes) Total() float64 {
	if d.Count == 0 {
		return 0
	}
	return float64(d.Count)*d.Dash + float64(d.Count-1)*d.Gap
}

// NominalDashes returns the dash and gap lengths a border width asks for
// before fitting them to a side.
func NominalDashes(width float64, style css.BorderStyle) (dash, gap float64) {
	if style == css.BorderStyleDotted {
		return width, width
	}
	if width < 3 {
		return width * 3, width * 2
	}
	return width * 2, width
}

// ComputeDashes distributes dashes along a side of the given length so that
// the pattern starts and ends with a dash. Among n and n+1 dashes it keeps
// the count whose gap is closest to the nominal gap.
func ComputeDashes(length, width float64, style css.BorderStyle) Dashes {
	dash, gap := NominalDashes(width, style)

	switch {
	case length <= dash*2:
		return Dashes{Dash: dash, Gap: gap, Count: 1, Solid: true}
	case length <= dash*2+gap:
		f := length / (2*dash + gap)
		return Dashes{Dash: dash * f, Gap: gap * f, Count: 2}
	}

	n := math.Floor((length + gap) / (dash + gap))
	minSpace := (length - n*dash) / (n - 1)
	maxSpace := (length - (n+1)*dash) / n
	if maxSpace <= 0 || math.Abs(gap-minSpace) < math.Abs(gap-maxSpace) {
		return Dashes{Dash: dash, Gap: minSpace, Count: int(n)}
	}
	return Dashes{Dash: dash, Gap: maxSpace, Count: int(n) + 1}
}
