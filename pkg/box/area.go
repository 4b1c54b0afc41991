package box

import (
	"screenpaint/pkg/css"
	"screenpaint/pkg/dom"
	"screenpaint/pkg/geom"
)

// PaddingBox returns the element's bounds inset by its border widths.
func PaddingBox(el *dom.Element) geom.Bounds {
	bw := el.Style.BorderWidth
	return el.Bounds.Add(bw.Left, bw.Top, -(bw.Left + bw.Right), -(bw.Top + bw.Bottom))
}

// ContentBox returns the padding box further inset by padding.
func ContentBox(el *dom.Element) geom.Bounds {
	bw, p := el.Style.BorderWidth, el.Style.Padding
	return el.Bounds.Add(
		bw.Left+p.Left,
		bw.Top+p.Top,
		-(bw.Left + bw.Right + p.Left + p.Right),
		-(bw.Top + bw.Bottom + p.Top + p.Bottom),
	)
}

// Area maps a box keyword to the matching rectangle of el. Unknown keywords
// resolve to the padding box.
func Area(k css.BoxKeyword, el *dom.Element) geom.Bounds {
	switch k {
	case css.BorderBox:
		return el.Bounds
	case css.ContentBox:
		return ContentBox(el)
	default:
		return PaddingBox(el)
	}
}

// PositioningArea is the box an image layer's position and size are
// computed against.
func PositioningArea(origin css.BoxKeyword, el *dom.Element) geom.Bounds {
	return Area(origin, el)
}

// PaintingArea is the box an image layer may paint into.
func PaintingArea(clip css.BoxKeyword, el *dom.Element) geom.Bounds {
	return Area(clip, el)
}

// CurvedPaintingArea is the rounded outline matching PaintingArea.
func CurvedPaintingArea(clip css.BoxKeyword, curves *BoundCurves) geom.Path {
	switch clip {
	case css.BorderBox:
		return curves.Border.Path()
	case css.ContentBox:
		return curves.Content.Path()
	default:
		return curves.Padding.Path()
	}
}
