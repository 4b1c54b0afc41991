package render

import (
	"context"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/font"

	"screenpaint/pkg/box"
	"screenpaint/pkg/css"
	"screenpaint/pkg/dom"
	"screenpaint/pkg/geom"
	"screenpaint/pkg/stacking"
	"screenpaint/pkg/text"
)

// face returns the font face for st at the surface resolution, with its
// ascent and descent in document units.
func (r *Renderer) face(st *css.Style) (f font.Face, ascent, descent float64) {
	k := r.surface.DeviceScale()
	f = r.opts.Fonts.Face(st, st.FontSize*k)
	ascent, descent = text.Metrics(f)
	return f, ascent / k, descent / k
}

// baseline places the baseline of a line box so that the glyph extent is
// centered in it.
func baseline(b geom.Bounds, ascent, descent float64) float64 {
	return b.Top + (b.Height-(ascent+descent))/2 + ascent
}

// paintText draws the element's text runs with their shadows and
// decorations.
func (r *Renderer) paintText(p *stacking.ElementPaint) {
	el := p.Element
	if len(el.TextRuns) == 0 {
		return
	}
	st := el.Style
	face, ascent, descent := r.face(st)

	for _, run := range el.TextRuns {
		str := applyTextTransform(run.Text, st.TextTransform)
		x, y := run.Bounds.Left, baseline(run.Bounds, ascent, descent)

		// shadows go below the glyphs, the first declared one on top
		if strings.TrimSpace(str) != "" {
			for i := len(st.TextShadow) - 1; i >= 0; i-- {
				sh := st.TextShadow[i]
				r.surface.TextShadow(str, x, y, face, Shadow{Color: sh.Color, Blur: sh.Blur, OffsetX: sh.OffsetX, OffsetY: sh.OffsetY})
			}
		}
		r.surface.DrawText(str, x, y, face, st.Color)
		r.paintDecorations(run.Bounds, y, st)
	}
}

// paintDecorations draws one pixel high underline, overline and
// line-through rules across a text run.
func (r *Renderer) paintDecorations(b geom.Bounds, baselineY float64, st *css.Style) {
	if st.TextDecoration == 0 {
		return
	}
	c := st.Color
	if st.TextDecorationColor != nil {
		c = *st.TextDecorationColor
	}
	rule := func(y float64) {
		r.surface.Fill(geom.Rect(b.Left, y, b.Width, 1).Corners(), c)
	}
	if st.TextDecoration.Has(css.TextDecorationUnderline) {
		rule(math.Round(baselineY))
	}
	if st.TextDecoration.Has(css.TextDecorationOverline) {
		rule(math.Round(b.Top))
	}
	if st.TextDecoration.Has(css.TextDecorationLineThrough) {
		rule(math.Ceil(b.Top + b.Height/2))
	}
}

// applyTextTransform applies CSS text-transform to a string
func applyTextTransform(s string, transform css.TextTransform) string {
	switch transform {
	case css.TextTransformUppercase:
		return strings.ToUpper(s)
	case css.TextTransformLowercase:
		return strings.ToLower(s)
	case css.TextTransformCapitalize:
		// first letter of each word; other letters keep their case
		var sb strings.Builder
		inWord := false
		for _, c := range s {
			if unicode.IsLetter(c) || unicode.IsDigit(c) {
				if !inWord {
					c = unicode.ToTitle(c)
				}
				inWord = true
			} else {
				inWord = false
			}
			sb.WriteRune(c)
		}
		return sb.String()
	}
	return s
}

// paintInputValue draws the value of a text control inside its content box.
func (r *Renderer) paintInputValue(p *stacking.ElementPaint, in *dom.Input) {
	if in.Value == "" {
		return
	}
	el := p.Element
	st := el.Style
	value := in.Value
	if in.Type == dom.InputPassword {
		value = strings.Repeat("•", utf8.RuneCountInString(value))
	}
	value = applyTextTransform(value, st.TextTransform)

	face, ascent, descent := r.face(st)
	cb := box.ContentBox(el)
	w := text.MeasureText(face, value) / r.surface.DeviceScale()
	x := cb.Left
	switch st.TextAlign {
	case css.TextAlignCenter:
		x += (cb.Width - w) / 2
	case css.TextAlignRight:
		x += cb.Width - w
	}

	s := r.surface
	s.Push()
	defer s.Pop()
	s.Clip(cb.Corners())
	s.DrawText(value, x, baseline(cb, ascent, descent), face, st.Color)
}

// paintListMarker draws the list-style-image left of the item or, failing
// that, the counter text right-aligned against the item's left edge.
func (r *Renderer) paintListMarker(ctx context.Context, p *stacking.ElementPaint) {
	el := p.Element
	st := el.Style
	b := el.Bounds

	if st.ListStyleImage != "" {
		bm, err := r.opts.Bridge.Resolve(ctx, st.ListStyleImage)
		if err != nil {
			Logger().Error("list marker image omitted", "tag", el.Tag, "err", err)
			return
		}
		k := r.surface.DeviceScale()
		dst := geom.Rect(b.Left-(bm.Width+10), b.Top, bm.Width, bm.Height)
		r.surface.DrawImage(bm.Scaled(devicePixels(bm.Width, k), devicePixels(bm.Height, k)), dst)
		return
	}
	if p.ListValue == "" || st.ListStyleType == css.ListStyleNone {
		return
	}

	face, ascent, descent := r.face(st)
	w := text.MeasureText(face, p.ListValue) / r.surface.DeviceScale()
	line := geom.Rect(b.Left-w, b.Top+st.Padding.Top, w, st.LineHeightPx())
	r.surface.DrawText(p.ListValue, line.Left, baseline(line, ascent, descent), face, st.Color)
}
