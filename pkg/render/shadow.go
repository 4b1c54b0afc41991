package render

import (
	"math"

	"screenpaint/pkg/css"
	"screenpaint/pkg/geom"
	"screenpaint/pkg/stacking"
)

// maskOffset moves a shadow casting shape away from the element; only its
// shadow, cast back by the same distance, lands on the element.
const maskOffset = 10000

// paintBoxShadows paints box shadows, the last declared one first.
func (r *Renderer) paintBoxShadows(p *stacking.ElementPaint) {
	shadows := p.Element.Style.BoxShadow
	border := p.Curves.Border.Path()
	for i := len(shadows) - 1; i >= 0; i-- {
		if shadows[i].Color.IsTransparent() {
			continue
		}
		r.paintBoxShadow(border, shadows[i])
	}
}

func (r *Renderer) paintBoxShadow(border geom.Path, sh css.Shadow) {
	s := r.surface
	s.Push()
	defer s.Pop()

	sign := -1.0
	if sh.Inset {
		sign = 1
	}
	spread := sh.Spread
	area := border.Resize(-maskOffset+sign*spread, sign*spread, -2*sign*spread, -2*sign*spread)
	cast := Shadow{Color: sh.Color, Blur: sh.Blur, OffsetX: sh.OffsetX + maskOffset, OffsetY: sh.OffsetY}

	if !sh.Inset {
		s.ClipOut(border)
		s.FillShadowed(cast, area)
		return
	}

	// An inset shadow is cast by a frame around the deflated box.
	s.Clip(border)
	margin := math.Abs(sh.OffsetX) + math.Abs(sh.OffsetY) + math.Abs(spread) + 3*sh.Blur + 1
	frame := area.BoundingBox().Add(-margin, -margin, 2*margin, 2*margin)
	s.FillShadowed(cast, frame.Corners(), area)
}
