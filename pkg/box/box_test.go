package box

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenpaint/pkg/css"
	"screenpaint/pkg/dom"
	"screenpaint/pkg/geom"
)

func newBox(b geom.Bounds) *dom.Element {
	return dom.NewElement("div", b)
}

func TestBoundCurvesSquareCorners(t *testing.T) {
	el := newBox(geom.Rect(10, 20, 100, 50))
	el.Style.BorderWidth = css.BoxEdge{Top: 1, Right: 2, Bottom: 3, Left: 4}
	el.Style.Padding = css.Uniform(5)

	c := NewBoundCurves(el)
	assert.Equal(t, geom.Path{geom.V(10, 20), geom.V(110, 20), geom.V(110, 70), geom.V(10, 70)}, c.Border.Path())
	assert.Equal(t, geom.Path{geom.V(14, 21), geom.V(108, 21), geom.V(108, 67), geom.V(14, 67)}, c.Padding.Path())
	assert.Equal(t, geom.Path{geom.V(19, 26), geom.V(103, 26), geom.V(103, 62), geom.V(19, 62)}, c.Content.Path())
}

func TestBoundCurvesRoundedCorner(t *testing.T) {
	el := newBox(geom.Rect(0, 0, 100, 100))
	el.Style.BorderRadius[css.CornerTopLeft] = css.Radius(20)

	c := NewBoundCurves(el)
	tl, ok := c.Border[css.CornerTopLeft].(geom.BezierCurve)
	require.True(t, ok)
	assert.Equal(t, geom.V(0, 20), tl.Start)
	assert.Equal(t, geom.V(20, 0), tl.End)
	// control points sit at radius*0.4477 from the corner
	assert.InDelta(t, 20*0.4477, tl.StartControl.Y, 1e-3)
	assert.InDelta(t, 20*0.4477, tl.EndControl.X, 1e-3)

	_, square := c.Border[css.CornerTopRight].(geom.Vector)
	assert.True(t, square)
}

func TestBoundCurvesOverlapCorrection(t *testing.T) {
	el := newBox(geom.Rect(0, 0, 100, 50))
	for i := range el.Style.BorderRadius {
		el.Style.BorderRadius[i] = css.Radius(50)
	}

	c := NewBoundCurves(el)
	// vertical sums are 100 on a 50 high box: every radius halves
	tl := c.Border[css.CornerTopLeft].(geom.BezierCurve)
	assert.InDelta(t, 25, tl.End.X, 1e-9)
	assert.InDelta(t, 25, tl.Start.Y, 1e-9)
}

func TestBoundCurvesInnerRadiiShrink(t *testing.T) {
	el := newBox(geom.Rect(0, 0, 100, 100))
	el.Style.BorderRadius[css.CornerTopLeft] = css.Radius(10)
	el.Style.SetBorder(4, css.BorderStyleSolid, css.Black)
	el.Style.Padding = css.Uniform(8)

	c := NewBoundCurves(el)
	pad := c.Padding[css.CornerTopLeft].(geom.BezierCurve)
	assert.Equal(t, geom.V(4, 10), pad.Start)
	assert.Equal(t, geom.V(10, 4), pad.End)

	// radius 10 minus border and padding 12 is clamped to a square corner
	assert.Equal(t, geom.V(12, 12), c.Content[css.CornerTopLeft])
}

func TestAreas(t *testing.T) {
	el := newBox(geom.Rect(0, 0, 100, 100))
	el.Style.SetBorder(5, css.BorderStyleSolid, css.Black)
	el.Style.Padding = css.Uniform(10)

	tests := []struct {
		k    css.BoxKeyword
		want geom.Bounds
	}{
		{css.BorderBox, geom.Rect(0, 0, 100, 100)},
		{css.PaddingBox, geom.Rect(5, 5, 90, 90)},
		{css.ContentBox, geom.Rect(15, 15, 70, 70)},
		{"", geom.Rect(5, 5, 90, 90)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PositioningArea(tt.k, el), "origin %q", tt.k)
		assert.Equal(t, tt.want, PaintingArea(tt.k, el), "clip %q", tt.k)
	}

	c := NewBoundCurves(el)
	assert.Equal(t, c.Content.Path(), CurvedPaintingArea(css.ContentBox, c))
}

func TestResolveSize(t *testing.T) {
	area := geom.Rect(0, 0, 200, 100)
	px := func(v float64) css.SizeValue { return css.SizeOf(css.Px(v)) }
	pct := func(v float64) css.SizeValue { return css.SizeOf(css.Percent(v)) }

	tests := []struct {
		name  string
		size  css.BackgroundSize
		in    Intrinsic
		wantW float64
		wantH float64
	}{
		{"explicit both", css.BackgroundSize{Width: px(30), Height: pct(50)}, IntrinsicOf(10, 10), 30, 50},
		{"contain ratio 2", css.BackgroundSize{Keyword: css.SizeContain}, Intrinsic{Ratio: 2}, 200, 100},
		{"contain tall", css.BackgroundSize{Keyword: css.SizeContain}, IntrinsicOf(10, 20), 50, 100},
		{"cover tall", css.BackgroundSize{Keyword: css.SizeCover}, IntrinsicOf(10, 20), 200, 400},
		{"cover no ratio", css.BackgroundSize{Keyword: css.SizeCover}, Intrinsic{}, 200, 100},
		{"auto auto intrinsic", css.SizeAutoAuto, IntrinsicOf(30, 40), 30, 40},
		{"auto auto nothing", css.SizeAutoAuto, Intrinsic{}, 200, 100},
		{"auto auto ratio only", css.SizeAutoAuto, Intrinsic{Ratio: 4}, 200, 50},
		{"auto auto width and ratio", css.SizeAutoAuto, Intrinsic{Width: 40, Ratio: 2}, 40, 20},
		{"auto auto height only", css.SizeAutoAuto, Intrinsic{Height: 30}, 200, 30},
		{"width auto with ratio", css.BackgroundSize{Width: px(50), Height: css.Auto()}, IntrinsicOf(10, 20), 50, 100},
		{"auto height with ratio", css.BackgroundSize{Width: css.Auto(), Height: px(10)}, IntrinsicOf(30, 10), 30, 10},
		{"single width value", css.BackgroundSize{Width: pct(10)}, Intrinsic{Ratio: 1}, 20, 20},
		{"width auto no ratio", css.BackgroundSize{Width: px(50), Height: css.Auto()}, Intrinsic{Height: 7}, 50, 7},
		{"width auto nothing", css.BackgroundSize{Width: px(50), Height: css.Auto()}, Intrinsic{}, 50, 100},
		{"auto height nothing", css.BackgroundSize{Width: css.Auto(), Height: px(5)}, Intrinsic{}, 200, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := ResolveSize(tt.size, tt.in, area)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantW, w, 1e-9)
			assert.InDelta(t, tt.wantH, h, 1e-9)
		})
	}
}

func TestResolveSizeContainFits(t *testing.T) {
	area := geom.Rect(0, 0, 200, 100)
	w, h, err := ResolveSize(css.BackgroundSize{Keyword: css.SizeContain}, Intrinsic{Ratio: 2}, area)
	require.NoError(t, err)
	assert.InDelta(t, 2, w/h, 1e-9)
	assert.LessOrEqual(t, w, area.Width)
	assert.LessOrEqual(t, h, area.Height)
	assert.True(t, w == area.Width || h == area.Height)
}

func TestResolveSizeUnresolved(t *testing.T) {
	area := geom.Rect(0, 0, 200, 100)
	_, _, err := ResolveSize(css.BackgroundSize{}, Intrinsic{}, area)
	assert.True(t, errors.Is(err, ErrUnresolvedSize))

	_, _, err = ResolveSize(css.BackgroundSize{Width: css.SizeOf(css.Px(math.Inf(1))), Height: css.SizeOf(css.Px(1))}, Intrinsic{}, area)
	assert.ErrorIs(t, err, ErrUnresolvedSize)
}

func TestRepeatPath(t *testing.T) {
	positioning := geom.Rect(10, 10, 200, 100)
	painting := geom.Rect(0, 0, 220, 120)
	pos, size := geom.V(10.4, 20), geom.V(50, 50)

	tests := []struct {
		repeat css.Repeat
		want   geom.Bounds
	}{
		{css.RepeatX, geom.Rect(10, 30, 200, 50)},
		{css.RepeatY, geom.Rect(20, 10, 50, 100)},
		{css.NoRepeat, geom.Rect(20, 30, 50, 50)},
		{css.RepeatBoth, painting},
		{css.RepeatRound, painting},
		{css.RepeatSpace, painting},
	}
	for _, tt := range tests {
		got := RepeatPath(tt.repeat, pos, size, positioning, painting)
		assert.Equal(t, tt.want.Corners(), got, "repeat %s", tt.repeat)
	}
}

func TestPlaceLayerMaskRepeatX(t *testing.T) {
	el := newBox(geom.Rect(5, 7, 200, 100))
	l := el.Style.MaskLayer(0)
	l.Repeat = css.RepeatX
	l.Position = css.BackgroundPosition{X: css.Px(10), Y: css.Percent(20)}
	l.Size = css.BackgroundSize{Width: css.SizeOf(css.Px(50)), Height: css.SizeOf(css.Px(50))}

	tile, err := PlaceLayer(l, el, Intrinsic{}, PositionArea)
	require.NoError(t, err)
	assert.Equal(t, geom.Rect(5, 27, 200, 50).Corners(), tile.Path)
	assert.Equal(t, geom.V(15, 27), tile.Offset)
	assert.Equal(t, 50.0, tile.Width)
}

func TestPlaceLayerBackgroundPositionUsesFreeSpace(t *testing.T) {
	el := newBox(geom.Rect(0, 0, 200, 100))
	l := el.Style.BackgroundLayer(0)
	l.Repeat = css.NoRepeat
	l.Position = css.BackgroundPosition{X: css.Percent(100), Y: css.Percent(50)}

	tile, err := PlaceLayer(l, el, IntrinsicOf(50, 20), PositionFreeSpace)
	require.NoError(t, err)
	assert.Equal(t, geom.V(150, 40), tile.Offset)
	assert.Equal(t, geom.Rect(150, 40, 50, 20).Corners(), tile.Path)
}

func TestPlaceLayerUnresolved(t *testing.T) {
	el := newBox(geom.Rect(0, 0, 10, 10))
	l := el.Style.BackgroundLayer(0)
	l.Size = css.BackgroundSize{}
	_, err := PlaceLayer(l, el, Intrinsic{}, PositionFreeSpace)
	assert.ErrorIs(t, err, ErrUnresolvedSize)
}

func TestBorderPaths(t *testing.T) {
	el := newBox(geom.Rect(0, 0, 100, 60))
	el.Style.SetBorder(6, css.BorderStyleDouble, css.Black)
	c := NewBoundCurves(el)

	top := BorderPath(c, css.SideTop)
	assert.Equal(t, geom.Path{geom.V(0, 0), geom.V(100, 0), geom.V(94, 6), geom.V(6, 6)}, top)

	left := BorderPath(c, css.SideLeft)
	assert.Equal(t, geom.Path{geom.V(0, 60), geom.V(0, 0), geom.V(6, 6), geom.V(6, 54)}, left)

	outer := DoubleBorderOuterPath(c, css.SideTop)
	assert.Equal(t, geom.Path{geom.V(0, 0), geom.V(100, 0), geom.V(98, 2), geom.V(2, 2)}, outer)
	inner := DoubleBorderInnerPath(c, css.SideTop)
	assert.Equal(t, geom.Path{geom.V(4, 4), geom.V(96, 4), geom.V(94, 6), geom.V(6, 6)}, inner)

	stroke := BorderStrokePath(c, css.SideRight)
	assert.Equal(t, geom.Path{geom.V(97, 3), geom.V(97, 57)}, stroke)

	assert.Equal(t, 100.0, SideLength(top, css.SideTop))
	assert.Equal(t, 60.0, SideLength(left, css.SideLeft))
}

func TestBorderPathRoundedCornerSplitsCurves(t *testing.T) {
	el := newBox(geom.Rect(0, 0, 100, 100))
	el.Style.SetBorder(2, css.BorderStyleSolid, css.Black)
	for i := range el.Style.BorderRadius {
		el.Style.BorderRadius[i] = css.Radius(20)
	}
	c := NewBoundCurves(el)
	top := BorderPath(c, css.SideTop)
	require.Len(t, top, 4)

	start := top[0].(geom.BezierCurve)
	full := c.Border[css.CornerTopLeft].(geom.BezierCurve)
	mid := full.Point(0.5)
	assert.InDelta(t, mid.X, start.Start.X, 1e-9)
	assert.InDelta(t, mid.Y, start.Start.Y, 1e-9)
	assert.Equal(t, full.End, start.End)
}

func TestComputeDashes(t *testing.T) {
	dash, gap := NominalDashes(4, css.BorderStyleDashed)
	assert.Equal(t, 8.0, dash)
	assert.Equal(t, 4.0, gap)

	d := ComputeDashes(100, 4, css.BorderStyleDashed)
	require.False(t, d.Solid)
	assert.GreaterOrEqual(t, d.Count, 2)
	assert.InDelta(t, 100, d.Total(), 1e-9)

	// the other candidate count must not be closer to the nominal gap
	other := d.Count - 1
	if d.Count == 8 {
		other = 9
	}
	otherGap := (100 - float64(other)*8) / float64(other-1)
	assert.LessOrEqual(t, math.Abs(d.Gap-4), math.Abs(otherGap-4))
	assert.Equal(t, 9, d.Count)
	assert.InDelta(t, 3.5, d.Gap, 1e-9)
}

func TestComputeDashesShortSides(t *testing.T) {
	d := ComputeDashes(16, 4, css.BorderStyleDashed)
	assert.True(t, d.Solid)

	d = ComputeDashes(18, 4, css.BorderStyleDashed)
	assert.False(t, d.Solid)
	assert.Equal(t, 2, d.Count)
	assert.InDelta(t, 18, d.Total(), 1e-9)

	dash, gap := NominalDashes(2, css.BorderStyleDashed)
	assert.Equal(t, 6.0, dash)
	assert.Equal(t, 4.0, gap)

	dash, gap = NominalDashes(5, css.BorderStyleDotted)
	assert.Equal(t, 5.0, dash)
	assert.Equal(t, 5.0, gap)
}
