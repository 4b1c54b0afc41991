// Package css holds resolved style values: every property the paint pipeline
// reads, already converted from text to typed numbers, keywords and colors.
package css

import (
	"image/color"
)

// Style is the resolved style of one element.
type Style struct {
	Display    DisplayType
	Position   PositionType
	Float      FloatType
	ZIndex     ZIndex
	Visibility Visibility
	Overflow   Overflow
	Opacity    float64

	Transform       Transform
	TransformOrigin [2]Length

	Color           Color
	BackgroundColor Color

	BackgroundImage    []Image
	BackgroundOrigin   []BoxKeyword
	BackgroundClip     []BoxKeyword
	BackgroundSize     []BackgroundSize
	BackgroundPosition []BackgroundPosition
	BackgroundRepeat   []Repeat

	MaskImage    []Image
	MaskOrigin   []BoxKeyword
	MaskClip     []BoxKeyword
	MaskSize     []BackgroundSize
	MaskPosition []BackgroundPosition
	MaskRepeat   []Repeat

	BorderWidth  BoxEdge
	BorderStyle  [4]BorderStyle  // indexed by Side
	BorderColor  [4]Color        // indexed by Side
	BorderRadius [4]CornerRadius // indexed by Corner
	Padding      BoxEdge

	BoxShadow  []Shadow
	TextShadow []Shadow

	FontFamily          []string
	FontSize            float64
	FontWeight          FontWeight
	FontStyle           FontStyle
	LineHeight          float64 // 0 means 1.2 × font-size
	TextAlign           TextAlign
	TextDecoration      TextDecorationLine
	TextDecorationColor *Color
	TextTransform       TextTransform

	ListStyleType  ListStyleType
	ListStyleImage string
}

// NewStyle returns the initial values of a visible, static block box.
func NewStyle() *Style {
	return &Style{
		Display:         DisplayBlock,
		Position:        PositionStatic,
		Float:           FloatNone,
		ZIndex:          ZIndex{Auto: true},
		Visibility:      VisibilityVisible,
		Overflow:        OverflowVisible,
		Opacity:         1,
		TransformOrigin: [2]Length{Percent(50), Percent(50)},
		Color:           Black,
		FontSize:        16,
		FontWeight:      FontWeightNormal,
		FontStyle:       FontStyleNormal,
		TextAlign:       TextAlignLeft,
		ListStyleType:   ListStyleDisc,
	}
}

// BoxEdge holds one value per box side.
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Uniform returns a BoxEdge with the same value on every side.
func Uniform(v float64) BoxEdge {
	return BoxEdge{Top: v, Right: v, Bottom: v, Left: v}
}

// Side indexes per-side border properties in top, right, bottom, left order.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

// Get returns the value for one side.
func (e BoxEdge) Get(side Side) float64 {
	switch side {
	case SideTop:
		return e.Top
	case SideRight:
		return e.Right
	case SideBottom:
		return e.Bottom
	default:
		return e.Left
	}
}

// Corner indexes border radii in top-left, top-right, bottom-right,
// bottom-left order.
type Corner int

const (
	CornerTopLeft Corner = iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft
)

// CornerRadius is the horizontal and vertical radius of one corner.
type CornerRadius struct {
	X Length
	Y Length
}

// Radius returns a circular corner radius in pixels.
func Radius(px float64) CornerRadius {
	return CornerRadius{X: Px(px), Y: Px(px)}
}

// Length is a pixel or percentage value.
type Length struct {
	Value   float64
	Percent bool
}

func Px(v float64) Length      { return Length{Value: v} }
func Percent(v float64) Length { return Length{Value: v, Percent: true} }

// Resolve converts the length to pixels, percentages being taken of base.
func (l Length) Resolve(base float64) float64 {
	if l.Percent {
		return l.Value / 100 * base
	}
	return l.Value
}

// Color is an sRGB color with a straight (non-premultiplied) alpha in 0..1.
type Color struct {
	R, G, B uint8
	A       float64
}

var (
	Black       = Color{0, 0, 0, 1}
	White       = Color{255, 255, 255, 1}
	Transparent = Color{}
)

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// IsTransparent reports whether painting the color would have no effect.
func (c Color) IsTransparent() bool {
	return c.A <= 0
}

// NRGBA converts the color for image/color consumers.
func (c Color) NRGBA() color.NRGBA {
	a := c.A
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(a*255 + 0.5)}
}

// WithAlpha returns the color with its alpha multiplied by f.
func (c Color) WithAlpha(f float64) Color {
	c.A *= f
	return c
}

// Shadow is one box-shadow or text-shadow entry.
type Shadow struct {
	OffsetX float64
	OffsetY float64
	Blur    float64
	Spread  float64
	Color   Color
	Inset   bool
}

// PositionType represents the position property value
type PositionType string

const (
	PositionStatic   PositionType = "static"
	PositionRelative PositionType = "relative"
	PositionAbsolute PositionType = "absolute"
	PositionFixed    PositionType = "fixed"
	PositionSticky   PositionType = "sticky"
)

// ZIndex is either auto or an integer stack level.
type ZIndex struct {
	Auto  bool
	Value int
}

// Order returns the stack level used for sorting; auto sorts as 0.
func (z ZIndex) Order() int {
	if z.Auto {
		return 0
	}
	return z.Value
}

// FloatType represents the float property value
type FloatType string

const (
	FloatNone  FloatType = "none"
	FloatLeft  FloatType = "left"
	FloatRight FloatType = "right"
)

// DisplayType represents the display property value
type DisplayType string

const (
	DisplayBlock       DisplayType = "block"
	DisplayInline      DisplayType = "inline"
	DisplayInlineBlock DisplayType = "inline-block"
	DisplayListItem    DisplayType = "list-item"
	DisplayFlex        DisplayType = "flex"
	DisplayInlineFlex  DisplayType = "inline-flex"
	DisplayTable       DisplayType = "table"
	DisplayInlineTable DisplayType = "inline-table"
	DisplayNone        DisplayType = "none"
)

// IsInlineLevel reports whether boxes of this display type take part in an
// inline formatting context.
func (d DisplayType) IsInlineLevel() bool {
	switch d {
	case DisplayInline, DisplayInlineBlock, DisplayInlineFlex, DisplayInlineTable:
		return true
	}
	return false
}

// IsAtomicInline reports whether boxes of this display type sit in an inline
// formatting context as one opaque box.
func (d DisplayType) IsAtomicInline() bool {
	return d.IsInlineLevel() && d != DisplayInline
}

type Visibility string

const (
	VisibilityVisible  Visibility = "visible"
	VisibilityHidden   Visibility = "hidden"
	VisibilityCollapse Visibility = "collapse"
)

type Overflow string

const (
	OverflowVisible Overflow = "visible"
	OverflowHidden  Overflow = "hidden"
	OverflowScroll  Overflow = "scroll"
	OverflowAuto    Overflow = "auto"
	OverflowClip    Overflow = "clip"
)

// BorderStyle represents a border-*-style value
type BorderStyle string

const (
	BorderStyleNone   BorderStyle = "none"
	BorderStyleHidden BorderStyle = "hidden"
	BorderStyleSolid  BorderStyle = "solid"
	BorderStyleDashed BorderStyle = "dashed"
	BorderStyleDotted BorderStyle = "dotted"
	BorderStyleDouble BorderStyle = "double"
)

// Visible reports whether a border with this style paints anything.
func (b BorderStyle) Visible() bool {
	return b != "" && b != BorderStyleNone && b != BorderStyleHidden
}

// BorderSide is the resolved border of one side.
type BorderSide struct {
	Style BorderStyle
	Color Color
	Width float64
}

// Border returns the border of one side.
func (s *Style) Border(side Side) BorderSide {
	return BorderSide{
		Style: s.BorderStyle[side],
		Color: s.BorderColor[side],
		Width: s.BorderWidth.Get(side),
	}
}

// SetBorder sets width, style and color on every side.
func (s *Style) SetBorder(width float64, style BorderStyle, c Color) {
	s.BorderWidth = Uniform(width)
	for i := range s.BorderStyle {
		s.BorderStyle[i] = style
		s.BorderColor[i] = c
	}
}

type FontWeight string

const (
	FontWeightNormal FontWeight = "normal"
	FontWeightBold   FontWeight = "bold"
)

type FontStyle string

const (
	FontStyleNormal FontStyle = "normal"
	FontStyleItalic FontStyle = "italic"
)

type TextAlign string

const (
	TextAlignLeft   TextAlign = "left"
	TextAlignCenter TextAlign = "center"
	TextAlignRight  TextAlign = "right"
)

type TextTransform string

const (
	TextTransformNone       TextTransform = "none"
	TextTransformUppercase  TextTransform = "uppercase"
	TextTransformLowercase  TextTransform = "lowercase"
	TextTransformCapitalize TextTransform = "capitalize"
)

// TextDecorationLine is a set of decoration lines.
type TextDecorationLine uint8

const (
	TextDecorationUnderline TextDecorationLine = 1 << iota
	TextDecorationOverline
	TextDecorationLineThrough
)

// Has reports whether line is part of the set.
func (t TextDecorationLine) Has(line TextDecorationLine) bool {
	return t&line != 0
}

// IsPositioned reports whether the element is not statically positioned.
func (s *Style) IsPositioned() bool {
	return s.Position != "" && s.Position != PositionStatic
}

// IsPositionedWithZIndex reports whether the element is positioned and has
// an integer z-index.
func (s *Style) IsPositionedWithZIndex() bool {
	return s.IsPositioned() && !s.ZIndex.Auto
}

// IsFloating reports whether the element floats.
func (s *Style) IsFloating() bool {
	return s.Float != "" && s.Float != FloatNone
}

// IsTransformed reports whether a non-empty transform applies.
func (s *Style) IsTransformed() bool {
	return len(s.Transform) > 0
}

// IsVisible reports whether the element's own boxes are painted.
func (s *Style) IsVisible() bool {
	return s.Display != DisplayNone && s.Opacity > 0 && s.Visibility == VisibilityVisible
}

// IsInFlow reports whether the element stays in its parent's flow, i.e. is
// not absolutely or fixed positioned.
func (s *Style) IsInFlow() bool {
	return s.Position != PositionAbsolute && s.Position != PositionFixed
}

// Clips reports whether overflow clipping applies.
func (s *Style) Clips() bool {
	return s.Overflow != "" && s.Overflow != OverflowVisible
}

// LineHeightPx returns the used line height in pixels.
func (s *Style) LineHeightPx() float64 {
	if s.LineHeight > 0 {
		return s.LineHeight
	}
	return s.FontSize * 1.2
}

// IsMonospace reports whether the first font family is a monospace one.
func (s *Style) IsMonospace() bool {
	return len(s.FontFamily) > 0 && s.FontFamily[0] == "monospace"
}
