package box

import (
	"fmt"
	"math"

	"screenpaint/pkg/css"
	"screenpaint/pkg/dom"
	"screenpaint/pkg/geom"
)

// RepeatPath returns the region an image tiled with the given repeat mode
// covers. pos is the image's offset inside the positioning area and size its
// rendered size. round, space and repeat all cover the painting area.
// Coordinates are rounded to whole pixels.
func RepeatPath(repeat css.Repeat, pos geom.Vector, size geom.Vector, positioning, painting geom.Bounds) geom.Path {
	var r geom.Bounds
	switch repeat {
	case css.RepeatX:
		r = geom.Rect(positioning.Left, positioning.Top+pos.Y, positioning.Width, size.Y)
	case css.RepeatY:
		r = geom.Rect(positioning.Left+pos.X, positioning.Top, size.X, positioning.Height)
	case css.NoRepeat:
		r = geom.Rect(positioning.Left+pos.X, positioning.Top+pos.Y, size.X, size.Y)
	default:
		r = painting
	}
	return geom.Path{
		geom.V(math.Round(r.Left), math.Round(r.Top)),
		geom.V(math.Round(r.Right()), math.Round(r.Top)),
		geom.V(math.Round(r.Right()), math.Round(r.Bottom())),
		geom.V(math.Round(r.Left), math.Round(r.Bottom())),
	}
}

// Tile is where and how large one image layer is painted.
type Tile struct {
	Path   geom.Path   // region receiving the repeated image
	Offset geom.Vector // pattern origin, whole pixels
	Width  float64
	Height float64

	PositioningArea geom.Bounds
	PaintingArea    geom.Bounds
}

// PositionMode selects what percentages in a layer position refer to.
type PositionMode int

const (
	// PositionFreeSpace resolves percentages against the positioning area
	// minus the image size, as background-position does.
	PositionFreeSpace PositionMode = iota
	// PositionArea resolves percentages against the positioning area itself.
	PositionArea
)

// PlaceLayer resolves size, position and repeat region of image layer i.
func PlaceLayer(l css.LayerStyle, el *dom.Element, in Intrinsic, mode PositionMode) (Tile, error) {
	positioning := PositioningArea(l.Origin, el)
	painting := PaintingArea(l.Clip, el)

	w, h, err := ResolveSize(l.Size, in, positioning)
	if err != nil {
		return Tile{}, fmt.Errorf("size %+v in %gx%g: %w", l.Size, positioning.Width, positioning.Height, err)
	}

	baseX, baseY := positioning.Width, positioning.Height
	if mode == PositionFreeSpace {
		baseX -= w
		baseY -= h
	}
	pos := geom.V(l.Position.X.Resolve(baseX), l.Position.Y.Resolve(baseY))

	return Tile{
		Path:            RepeatPath(l.Repeat, pos, geom.V(w, h), positioning, painting),
		Offset:          geom.V(math.Round(positioning.Left+pos.X), math.Round(positioning.Top+pos.Y)),
		Width:           w,
		Height:          h,
		PositioningArea: positioning,
		PaintingArea:    painting,
	}, nil
}
