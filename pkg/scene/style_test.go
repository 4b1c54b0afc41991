package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenpaint/pkg/css"
)

func TestParseStyle_Initial(t *testing.T) {
	s, err := ParseStyle("")
	require.NoError(t, err)
	assert.Equal(t, css.NewStyle(), s)
}

func TestParseStyle_Keywords(t *testing.T) {
	s, err := ParseStyle("display: inline-block; position: ABSOLUTE; z-index: -3; float: left; visibility: hidden; overflow: hidden auto; opacity: 40%")
	require.NoError(t, err)
	assert.Equal(t, css.DisplayInlineBlock, s.Display)
	assert.Equal(t, css.PositionAbsolute, s.Position)
	assert.Equal(t, css.ZIndex{Value: -3}, s.ZIndex)
	assert.Equal(t, css.FloatLeft, s.Float)
	assert.Equal(t, css.VisibilityHidden, s.Visibility)
	assert.Equal(t, css.OverflowHidden, s.Overflow)
	assert.InDelta(t, 0.4, s.Opacity, 1e-9)
}

func TestParseStyle_SemicolonInsideURL(t *testing.T) {
	s, err := ParseStyle("background-image: url(data:image/png;base64,AAAA); color: red")
	require.NoError(t, err)
	require.Len(t, s.BackgroundImage, 1)
	assert.Equal(t, "data:image/png;base64,AAAA", s.BackgroundImage[0].URL)
	assert.Equal(t, css.RGB(255, 0, 0), s.Color)
}

func TestParseStyle_BorderShorthand(t *testing.T) {
	s, err := ParseStyle("border: 2px dashed blue; border-left: thick solid")
	require.NoError(t, err)
	assert.Equal(t, css.BoxEdge{Top: 2, Right: 2, Bottom: 2, Left: 5}, s.BorderWidth)
	for side := css.SideTop; side < css.SideLeft; side++ {
		assert.Equal(t, css.BorderStyleDashed, s.BorderStyle[side])
		assert.Equal(t, css.RGB(0, 0, 255), s.BorderColor[side])
	}
	assert.Equal(t, css.BorderStyleSolid, s.BorderStyle[css.SideLeft])
	assert.Equal(t, css.Black, s.BorderColor[css.SideLeft], "missing color falls back to currentColor")
}

func TestParseStyle_BorderColorUsesCurrentColor(t *testing.T) {
	// color is applied before the border regardless of declaration order.
	s, err := ParseStyle("border: 1px solid; color: green")
	require.NoError(t, err)
	assert.Equal(t, css.RGB(0, 128, 0), s.BorderColor[css.SideTop])
}

func TestParseStyle_BorderLonghands(t *testing.T) {
	s, err := ParseStyle("border-width: 1px 4px; border-style: solid none double; border-color: red green blue black; border-bottom-width: 0")
	require.NoError(t, err)
	assert.Equal(t, css.BoxEdge{Top: 1, Right: 4, Bottom: 0, Left: 4}, s.BorderWidth)
	assert.Equal(t, [4]css.BorderStyle{css.BorderStyleSolid, css.BorderStyleNone, css.BorderStyleDouble, css.BorderStyleNone}, s.BorderStyle)
	assert.Equal(t, css.RGB(0, 0, 0), s.BorderColor[css.SideLeft])
	assert.Equal(t, css.RGB(0, 128, 0), s.BorderColor[css.SideRight])
}

func TestParseStyle_BorderRadius(t *testing.T) {
	tests := []struct {
		name  string
		decl  string
		radii [4]css.CornerRadius
	}{
		{
			name:  "uniform",
			decl:  "border-radius: 8px",
			radii: [4]css.CornerRadius{css.Radius(8), css.Radius(8), css.Radius(8), css.Radius(8)},
		},
		{
			name: "slash",
			decl: "border-radius: 10px 20% / 5px",
			radii: [4]css.CornerRadius{
				{X: css.Px(10), Y: css.Px(5)},
				{X: css.Percent(20), Y: css.Px(5)},
				{X: css.Px(10), Y: css.Px(5)},
				{X: css.Percent(20), Y: css.Px(5)},
			},
		},
		{
			name: "single corner",
			decl: "border-bottom-left-radius: 4px 6px",
			radii: [4]css.CornerRadius{
				3: {X: css.Px(4), Y: css.Px(6)},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseStyle(tt.decl)
			require.NoError(t, err)
			assert.Equal(t, tt.radii, s.BorderRadius)
		})
	}
}

func TestParseStyle_Padding(t *testing.T) {
	s, err := ParseStyle("padding: 1px 2px 3px; padding-left: 9px")
	require.NoError(t, err)
	assert.Equal(t, css.BoxEdge{Top: 1, Right: 2, Bottom: 3, Left: 9}, s.Padding)
}

func TestParseStyle_BackgroundLayers(t *testing.T) {
	s, err := ParseStyle(`background-image: url("a.png"), linear-gradient(to right, red, blue);
		background-size: cover, 10px 20px;
		background-position: center, right 5px;
		background-repeat: no-repeat;
		background-origin: content-box;
		background-clip: padding-box, border-box`)
	require.NoError(t, err)
	require.Len(t, s.BackgroundImage, 2)
	assert.Equal(t, "a.png", s.BackgroundImage[0].URL)
	assert.NotNil(t, s.BackgroundImage[1].Gradient)
	assert.Equal(t, []css.BackgroundSize{
		{Keyword: css.SizeCover},
		{Width: css.SizeOf(css.Px(10)), Height: css.SizeOf(css.Px(20))},
	}, s.BackgroundSize)
	assert.Equal(t, css.BackgroundPosition{X: css.Percent(100), Y: css.Px(5)}, s.BackgroundPosition[1])
	assert.Equal(t, []css.Repeat{css.NoRepeat}, s.BackgroundRepeat)
	assert.Equal(t, []css.BoxKeyword{css.ContentBox}, s.BackgroundOrigin)
	assert.Equal(t, []css.BoxKeyword{css.PaddingBox, css.BorderBox}, s.BackgroundClip)
}

func TestParseStyle_BackgroundShorthand(t *testing.T) {
	s, err := ParseStyle("background: teal")
	require.NoError(t, err)
	assert.Equal(t, css.RGB(0, 128, 128), s.BackgroundColor)

	s, err = ParseStyle("background-color: red; background: url(x.png)")
	require.NoError(t, err)
	assert.True(t, s.BackgroundColor.IsTransparent())
	require.Len(t, s.BackgroundImage, 1)

	_, err = ParseStyle("background: red url(x.png) no-repeat")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseStyle_Mask(t *testing.T) {
	s, err := ParseStyle("mask-image: linear-gradient(black, transparent); mask-size: 50% auto; mask-repeat: repeat-y; mask-position: 0 0; mask-origin: border-box; mask-clip: content-box")
	require.NoError(t, err)
	require.Len(t, s.MaskImage, 1)
	assert.True(t, s.HasMask())
	assert.Equal(t, []css.BackgroundSize{{Width: css.SizeOf(css.Percent(50)), Height: css.Auto()}}, s.MaskSize)
	assert.Equal(t, []css.Repeat{css.RepeatY}, s.MaskRepeat)
	assert.Equal(t, []css.BackgroundPosition{{X: css.Px(0), Y: css.Px(0)}}, s.MaskPosition)
	assert.Equal(t, []css.BoxKeyword{css.BorderBox}, s.MaskOrigin)
	assert.Equal(t, []css.BoxKeyword{css.ContentBox}, s.MaskClip)

	s, err = ParseStyle("mask-image: none")
	require.NoError(t, err)
	assert.False(t, s.HasMask())
}

func TestParseStyle_Shadows(t *testing.T) {
	s, err := ParseStyle("box-shadow: 0 0 4px; text-shadow: 1px 1px navy; color: red")
	require.NoError(t, err)
	require.Len(t, s.BoxShadow, 1)
	assert.Equal(t, css.RGB(255, 0, 0), s.BoxShadow[0].Color)
	assert.Equal(t, 4.0, s.BoxShadow[0].Blur)
	require.Len(t, s.TextShadow, 1)
	assert.Equal(t, css.RGB(0, 0, 128), s.TextShadow[0].Color)

	_, err = ParseStyle("text-shadow: inset 1px 1px")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseStyle_Font(t *testing.T) {
	tests := []struct {
		decl       string
		size       float64
		lineHeight float64
	}{
		{"font-size: 20px; line-height: 1.5", 20, 30},
		{"line-height: 1.5; font-size: 20px", 20, 30},
		{"font-size: 150%; line-height: 200%", 24, 48},
		{"font-size: 10px; line-height: 14px", 10, 14},
		{"line-height: normal", 16, 0},
	}
	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			s, err := ParseStyle(tt.decl)
			require.NoError(t, err)
			assert.Equal(t, tt.size, s.FontSize)
			assert.Equal(t, tt.lineHeight, s.LineHeight)
		})
	}

	s, err := ParseStyle(`font-family: monospace, "Go Mono"; font-weight: 700; font-style: oblique`)
	require.NoError(t, err)
	assert.Equal(t, []string{"monospace", "Go Mono"}, s.FontFamily)
	assert.Equal(t, css.FontWeightBold, s.FontWeight)
	assert.Equal(t, css.FontStyleItalic, s.FontStyle)
	assert.True(t, s.IsMonospace())
}

func TestParseStyle_Text(t *testing.T) {
	s, err := ParseStyle("text-align: end; text-transform: uppercase; text-decoration: underline line-through wavy red")
	require.NoError(t, err)
	assert.Equal(t, css.TextAlignRight, s.TextAlign)
	assert.Equal(t, css.TextTransformUppercase, s.TextTransform)
	assert.True(t, s.TextDecoration.Has(css.TextDecorationUnderline))
	assert.True(t, s.TextDecoration.Has(css.TextDecorationLineThrough))
	assert.False(t, s.TextDecoration.Has(css.TextDecorationOverline))
	require.NotNil(t, s.TextDecorationColor)
	assert.Equal(t, css.RGB(255, 0, 0), *s.TextDecorationColor)

	_, err = ParseStyle("text-decoration-line: underline red")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseStyle_ListStyle(t *testing.T) {
	s, err := ParseStyle("list-style: upper-roman inside")
	require.NoError(t, err)
	assert.Equal(t, css.ListStyleUpperRoman, s.ListStyleType)

	s, err = ParseStyle("list-style: square url(marker.png)")
	require.NoError(t, err)
	assert.Equal(t, css.ListStyleSquare, s.ListStyleType)
	assert.Equal(t, "marker.png", s.ListStyleImage)

	s, err = ParseStyle("list-style-type: lower-alpha; list-style-image: url('m.png')")
	require.NoError(t, err)
	assert.Equal(t, css.ListStyleLowerAlpha, s.ListStyleType)
	assert.Equal(t, "m.png", s.ListStyleImage)
}

func TestParseStyle_Transform(t *testing.T) {
	s, err := ParseStyle("transform: rotate(45deg); transform-origin: left top")
	require.NoError(t, err)
	assert.Equal(t, css.Transform{css.Rotate(45)}, s.Transform)
	assert.Equal(t, [2]css.Length{css.Percent(0), css.Percent(0)}, s.TransformOrigin)
	assert.True(t, s.IsTransformed())
}

func TestParseStyle_IgnoresUnknownAndMalformed(t *testing.T) {
	s, err := ParseStyle("cursor: pointer; nonsense; ; color: blue")
	require.NoError(t, err)
	assert.Equal(t, css.RGB(0, 0, 255), s.Color)
}

func TestParseStyle_JoinsErrors(t *testing.T) {
	s, err := ParseStyle("color: nope; z-index: 1.5; padding: -1px; background-color: lime")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "color: ")
	assert.Contains(t, err.Error(), "z-index: ")
	assert.Contains(t, err.Error(), "padding: ")
	assert.Equal(t, css.RGB(0, 255, 0), s.BackgroundColor, "valid declarations still apply")
}

func TestParseDeclarations(t *testing.T) {
	tests := []struct {
		name     string
		block    string
		expected []Declaration
	}{
		{"empty", "", nil},
		{"property case", "Color: red", []Declaration{{Property: "color", Value: "red"}}},
		{"extra semicolons", "; color: red;; margin: 0;", []Declaration{
			{Property: "color", Value: "red"},
			{Property: "margin", Value: "0"},
		}},
		{"important", "color: red ! IMPORTANT; margin: 0", []Declaration{
			{Property: "color", Value: "red", Important: true},
			{Property: "margin", Value: "0"},
		}},
		{"malformed skipped", "nonsense; color: red", []Declaration{{Property: "color", Value: "red"}}},
		{"comment skipped", "color: /* x */ red", []Declaration{{Property: "color", Value: "red"}}},
		{"function kept whole", "box-shadow: 1px 2px rgb(0, 0, 0)", []Declaration{
			{Property: "box-shadow", Value: "1px 2px rgb(0,0,0)"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseDeclarations(tt.block))
		})
	}
}

func TestApplyDeclarations_ImportantWins(t *testing.T) {
	tests := []struct {
		name     string
		decls    []Declaration
		expected css.Color
	}{
		{"later wins", []Declaration{{Property: "color", Value: "red"}, {Property: "color", Value: "blue"}}, css.RGB(0, 0, 255)},
		{"important beats later", []Declaration{{Property: "color", Value: "red", Important: true}, {Property: "color", Value: "blue"}}, css.RGB(255, 0, 0)},
		{"later important wins", []Declaration{
			{Property: "color", Value: "red", Important: true},
			{Property: "color", Value: "blue", Important: true},
		}, css.RGB(0, 0, 255)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := css.NewStyle()
			require.NoError(t, applyDeclarations(s, tt.decls))
			assert.Equal(t, tt.expected, s.Color)
		})
	}
}

func TestSplitValues(t *testing.T) {
	tests := []struct {
		name     string
		split    func(string) []string
		input    string
		expected []string
	}{
		{"fields", fields, "1px  solid\tred", []string{"1px", "solid", "red"}},
		{"fields keep calls", fields, "rotate(45deg) translate(1px, 2px)", []string{"rotate(45deg)", "translate(1px, 2px)"}},
		{"fields skip comments", fields, "a /* b */ c", []string{"a", "c"}},
		{"commas", splitCommas, "url(a.png), linear-gradient(red, blue)", []string{"url(a.png)", "linear-gradient(red, blue)"}},
		{"commas drop empty", splitCommas, "a,, b ,", []string{"a", "b"}},
		{"commas nested parens", splitCommas, "calc((1 + 2) * 3), x", []string{"calc((1 + 2) * 3)", "x"}},
		{"empty", fields, "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.split(tt.input))
		})
	}
}
