package scene

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	csslex "github.com/tdewolff/parse/v2/css"

	"screenpaint/pkg/css"
)

// Declaration is one "property: value" pair of a style rule or attribute.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// parseDeclarations reads an inline style block. Semicolons inside url() and
// other functions do not end a declaration. Malformed declarations are
// logged and skipped.
func parseDeclarations(block string) []Declaration {
	var decls []Declaration
	p := csslex.NewParser(parse.NewInputString(block), true)
	for {
		gt, _, data := p.Next()
		switch gt {
		case csslex.ErrorGrammar:
			if errors.Is(p.Err(), io.EOF) {
				return decls
			}
			Logger().Warn("malformed declaration", "declaration", tokensString(p.Values()), "error", p.Err())
		case csslex.DeclarationGrammar:
			decls = append(decls, declarationOf(string(data), p.Values()))
		case csslex.AtRuleGrammar, csslex.BeginAtRuleGrammar:
			Logger().Warn("ignored at-rule", "rule", string(data))
		}
	}
}

// declarationOf joins the value tokens of a declaration, lifting a trailing
// "!important" into Important.
func declarationOf(property string, values []csslex.Token) Declaration {
	d := Declaration{Property: strings.ToLower(property)}
	if n := len(values); n >= 2 &&
		values[n-2].TokenType == csslex.DelimToken && string(values[n-2].Data) == "!" &&
		values[n-1].TokenType == csslex.IdentToken && strings.EqualFold(string(values[n-1].Data), "important") {
		d.Important = true
		values = values[:n-2]
	}
	d.Value = strings.TrimSpace(tokensString(values))
	return d
}

func tokensString(tokens []csslex.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.Write(t.Data)
	}
	return strings.TrimSpace(strings.TrimSuffix(b.String(), ";"))
}

// ParseStyle reads CSS declarations, such as the body of a style attribute,
// into a style starting from initial values.
func ParseStyle(block string) (*css.Style, error) {
	s := css.NewStyle()
	return s, ApplyDeclarations(s, block)
}

// ApplyDeclarations applies CSS declarations to s. Unknown properties are
// logged and skipped; invalid values are reported together.
func ApplyDeclarations(s *css.Style, block string) error {
	return applyDeclarations(s, parseDeclarations(block))
}

// applyDeclarations applies decls in order, later ones winning. color and
// font-size go first since shadows, borders and line-height depend on them.
// Important declarations go after normal ones of the same group.
func applyDeclarations(s *css.Style, decls []Declaration) error {
	decls = append([]Declaration(nil), decls...)
	sort.SliceStable(decls, func(i, j int) bool {
		pi, pj := priority(decls[i].Property), priority(decls[j].Property)
		if pi != pj {
			return pi < pj
		}
		return !decls[i].Important && decls[j].Important
	})
	parentFontSize := s.FontSize
	var errs []error
	for _, d := range decls {
		var err error
		if d.Property == "font-size" {
			err = applyFontSize(s, d.Value, parentFontSize)
		} else {
			err = applyDeclaration(s, d.Property, d.Value)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Property, err))
		}
	}
	return errors.Join(errs...)
}

// inheritedStyle returns the starting style of a child of an element styled
// parent: initial values, except for inherited properties which take the
// parent's.
func inheritedStyle(parent *css.Style) *css.Style {
	s := css.NewStyle()
	if parent == nil {
		return s
	}
	s.Visibility = parent.Visibility
	s.Color = parent.Color
	s.TextShadow = parent.TextShadow
	s.FontFamily = parent.FontFamily
	s.FontSize = parent.FontSize
	s.FontWeight = parent.FontWeight
	s.FontStyle = parent.FontStyle
	s.LineHeight = parent.LineHeight
	s.TextAlign = parent.TextAlign
	s.TextTransform = parent.TextTransform
	s.ListStyleType = parent.ListStyleType
	s.ListStyleImage = parent.ListStyleImage
	return s
}

func priority(property string) int {
	switch property {
	case "color", "font-size":
		return 0
	}
	return 1
}

// setKeyword stores kw in dst when it is one of allowed.
func setKeyword[T ~string](dst *T, kw string, allowed ...T) error {
	for _, a := range allowed {
		if string(a) == kw {
			*dst = a
			return nil
		}
	}
	return invalid("keyword %q", kw)
}

var listStyleTypes = []css.ListStyleType{
	css.ListStyleNone, css.ListStyleDisc, css.ListStyleCircle, css.ListStyleSquare,
	css.ListStyleDecimal, css.ListStyleDecimalLeadingZero, css.ListStyleLowerAlpha, css.ListStyleUpperAlpha,
	css.ListStyleLowerRoman, css.ListStyleUpperRoman,
}

var sideNames = [4]string{"top", "right", "bottom", "left"}

var cornerNames = [4]string{"top-left", "top-right", "bottom-right", "bottom-left"}

func setEdge(e *css.BoxEdge, side css.Side, v float64) {
	switch side {
	case css.SideTop:
		e.Top = v
	case css.SideRight:
		e.Right = v
	case css.SideBottom:
		e.Bottom = v
	case css.SideLeft:
		e.Left = v
	}
}

// boxValues expands the one to four value box shorthand into top, right,
// bottom and left.
// Supports: "10px" (all), "10px 20px" (vertical horizontal),
// "10px 20px 30px" (top h bottom), "10px 20px 30px 40px" (t r b l)
func boxValues(value string) ([4]string, error) {
	parts := fields(value)
	switch len(parts) {
	case 1:
		return [4]string{parts[0], parts[0], parts[0], parts[0]}, nil
	case 2:
		return [4]string{parts[0], parts[1], parts[0], parts[1]}, nil
	case 3:
		return [4]string{parts[0], parts[1], parts[2], parts[1]}, nil
	case 4:
		return [4]string{parts[0], parts[1], parts[2], parts[3]}, nil
	}
	return [4]string{}, invalid("expected one to four values in %q", value)
}

func applyDeclaration(s *css.Style, property, value string) error {
	kw := strings.ToLower(value)
	switch property {
	case "display":
		return setKeyword(&s.Display, kw, css.DisplayBlock, css.DisplayInline, css.DisplayInlineBlock,
			css.DisplayListItem, css.DisplayFlex, css.DisplayInlineFlex, css.DisplayTable, css.DisplayInlineTable, css.DisplayNone)
	case "position":
		return setKeyword(&s.Position, kw, css.PositionStatic, css.PositionRelative, css.PositionAbsolute, css.PositionFixed, css.PositionSticky)
	case "float":
		return setKeyword(&s.Float, kw, css.FloatNone, css.FloatLeft, css.FloatRight)
	case "visibility":
		return setKeyword(&s.Visibility, kw, css.VisibilityVisible, css.VisibilityHidden, css.VisibilityCollapse)
	case "overflow":
		parts := strings.Fields(kw)
		if len(parts) == 0 {
			return invalid("empty overflow")
		}
		return setKeyword(&s.Overflow, parts[0], css.OverflowVisible, css.OverflowHidden, css.OverflowScroll, css.OverflowAuto, css.OverflowClip)
	case "z-index":
		if kw == "auto" {
			s.ZIndex = css.ZIndex{Auto: true}
			return nil
		}
		z, err := strconv.Atoi(kw)
		if err != nil {
			return invalid("z-index %q", value)
		}
		s.ZIndex = css.ZIndex{Value: z}
		return nil
	case "opacity":
		a, err := parseAlpha(value)
		if err != nil {
			return err
		}
		s.Opacity = a
		return nil
	case "transform":
		t, err := ParseTransform(value)
		if err != nil {
			return err
		}
		s.Transform = t
		return nil
	case "transform-origin":
		pos, err := ParsePosition(value)
		if err != nil {
			return err
		}
		s.TransformOrigin = [2]css.Length{pos.X, pos.Y}
		return nil

	case "color":
		return setColor(&s.Color, value)
	case "background-color":
		return setColor(&s.BackgroundColor, value)
	case "background":
		return applyBackground(s, value)
	case "background-image":
		return setList(&s.BackgroundImage, value, ParseImage, true)
	case "background-origin":
		return setList(&s.BackgroundOrigin, value, ParseBox, false)
	case "background-clip":
		return setList(&s.BackgroundClip, value, ParseBox, false)
	case "background-size":
		return setList(&s.BackgroundSize, value, ParseSize, false)
	case "background-position":
		return setList(&s.BackgroundPosition, value, ParsePosition, false)
	case "background-repeat":
		return setList(&s.BackgroundRepeat, value, ParseRepeat, false)
	case "mask-image":
		return setList(&s.MaskImage, value, ParseImage, true)
	case "mask-origin":
		return setList(&s.MaskOrigin, value, ParseBox, false)
	case "mask-clip":
		return setList(&s.MaskClip, value, ParseBox, false)
	case "mask-size":
		return setList(&s.MaskSize, value, ParseSize, false)
	case "mask-position":
		return setList(&s.MaskPosition, value, ParsePosition, false)
	case "mask-repeat":
		return setList(&s.MaskRepeat, value, ParseRepeat, false)

	case "border":
		for side := css.SideTop; side <= css.SideLeft; side++ {
			if err := applyBorderSide(s, side, value); err != nil {
				return err
			}
		}
		return nil
	case "border-width", "border-style", "border-color":
		vals, err := boxValues(value)
		if err != nil {
			return err
		}
		part := strings.TrimPrefix(property, "border-")
		for side := css.SideTop; side <= css.SideLeft; side++ {
			if err := applyBorderPart(s, side, part, vals[side]); err != nil {
				return err
			}
		}
		return nil
	case "border-radius":
		return applyBorderRadius(s, value)
	case "padding":
		vals, err := boxValues(value)
		if err != nil {
			return err
		}
		for side := css.SideTop; side <= css.SideLeft; side++ {
			if err := applyPadding(s, side, vals[side]); err != nil {
				return err
			}
		}
		return nil

	case "box-shadow":
		shadows, err := ParseShadows(value, s.Color, true)
		if err != nil {
			return err
		}
		s.BoxShadow = shadows
		return nil
	case "text-shadow":
		shadows, err := ParseShadows(value, s.Color, false)
		if err != nil {
			return err
		}
		s.TextShadow = shadows
		return nil

	case "font-family":
		var families []string
		for _, f := range splitCommas(value) {
			families = append(families, strings.Trim(f, `"'`))
		}
		if len(families) == 0 {
			return invalid("empty font-family")
		}
		s.FontFamily = families
		return nil
	case "font-weight":
		switch kw {
		case "normal", "lighter", "100", "200", "300", "400", "500":
			s.FontWeight = css.FontWeightNormal
		case "bold", "bolder", "600", "700", "800", "900":
			s.FontWeight = css.FontWeightBold
		default:
			return invalid("font-weight %q", value)
		}
		return nil
	case "font-style":
		if kw == "oblique" {
			kw = string(css.FontStyleItalic)
		}
		return setKeyword(&s.FontStyle, kw, css.FontStyleNormal, css.FontStyleItalic)
	case "line-height":
		return applyLineHeight(s, kw)
	case "text-align":
		switch kw {
		case "start":
			kw = string(css.TextAlignLeft)
		case "end":
			kw = string(css.TextAlignRight)
		}
		return setKeyword(&s.TextAlign, kw, css.TextAlignLeft, css.TextAlignCenter, css.TextAlignRight)
	case "text-transform":
		return setKeyword(&s.TextTransform, kw, css.TextTransformNone, css.TextTransformUppercase, css.TextTransformLowercase, css.TextTransformCapitalize)
	case "text-decoration", "text-decoration-line":
		return applyTextDecoration(s, value, property == "text-decoration")
	case "text-decoration-color":
		c, err := ParseColor(value)
		if err != nil {
			return err
		}
		s.TextDecorationColor = &c
		return nil

	case "list-style-type":
		return setKeyword(&s.ListStyleType, kw, listStyleTypes...)
	case "list-style-image":
		img, err := ParseImage(value)
		if err != nil {
			return err
		}
		s.ListStyleImage = img.URL
		return nil
	case "list-style":
		return applyListStyle(s, value)
	}

	for side, name := range sideNames {
		switch property {
		case "border-" + name:
			return applyBorderSide(s, css.Side(side), value)
		case "border-" + name + "-width":
			return applyBorderPart(s, css.Side(side), "width", value)
		case "border-" + name + "-style":
			return applyBorderPart(s, css.Side(side), "style", value)
		case "border-" + name + "-color":
			return applyBorderPart(s, css.Side(side), "color", value)
		case "padding-" + name:
			return applyPadding(s, css.Side(side), value)
		}
	}
	for corner, name := range cornerNames {
		if property == "border-"+name+"-radius" {
			return applyCornerRadius(s, css.Corner(corner), value)
		}
	}

	Logger().Warn("ignored property", "property", property, "value", value)
	return nil
}

func setColor(dst *css.Color, value string) error {
	c, err := ParseColor(value)
	if err != nil {
		return err
	}
	*dst = c
	return nil
}

// setList parses a comma separated per-layer list into dst. With allowNone
// the single keyword none clears the list.
func setList[T any](dst *[]T, value string, parse func(string) (T, error), allowNone bool) error {
	if allowNone && strings.EqualFold(strings.TrimSpace(value), "none") {
		*dst = nil
		return nil
	}
	list, err := parseList(value, parse)
	if err != nil {
		return err
	}
	*dst = list
	return nil
}

// applyBackground handles the background shorthand in its two simple forms:
// a color or a single image.
func applyBackground(s *css.Style, value string) error {
	if c, err := ParseColor(value); err == nil {
		s.BackgroundColor = c
		s.BackgroundImage = nil
		return nil
	}
	imgs, err := ParseImages(value)
	if err != nil {
		return invalid("background %q: only a color or images are supported", value)
	}
	s.BackgroundColor = css.Transparent
	s.BackgroundImage = imgs
	return nil
}

var borderWidthKeywords = map[string]float64{"thin": 1, "medium": 3, "thick": 5}

func isBorderStyle(kw string) bool {
	switch css.BorderStyle(kw) {
	case css.BorderStyleNone, css.BorderStyleHidden, css.BorderStyleSolid,
		css.BorderStyleDashed, css.BorderStyleDotted, css.BorderStyleDouble:
		return true
	}
	return false
}

// applyBorderSide expands a border shorthand such as "1px solid black" or
// "2px dotted #FF0000" on one side. Omitted parts take their initial value.
func applyBorderSide(s *css.Style, side css.Side, value string) error {
	width, style, c := 3.0, css.BorderStyleNone, s.Color
	for _, part := range fields(value) {
		kw := strings.ToLower(part)
		if w, ok := borderWidthKeywords[kw]; ok {
			width = w
			continue
		}
		if isBorderStyle(kw) {
			style = css.BorderStyle(kw)
			continue
		}
		if w, err := parsePx(part); err == nil {
			if w < 0 {
				return invalid("negative border width %q", part)
			}
			width = w
			continue
		}
		parsed, err := ParseColor(part)
		if err != nil {
			return invalid("border %q", value)
		}
		c = parsed
	}
	setEdge(&s.BorderWidth, side, width)
	s.BorderStyle[side] = style
	s.BorderColor[side] = c
	return nil
}

func applyBorderPart(s *css.Style, side css.Side, part, value string) error {
	kw := strings.ToLower(strings.TrimSpace(value))
	switch part {
	case "width":
		if w, ok := borderWidthKeywords[kw]; ok {
			setEdge(&s.BorderWidth, side, w)
			return nil
		}
		w, err := parsePx(value)
		if err != nil {
			return err
		}
		if w < 0 {
			return invalid("negative border width %q", value)
		}
		setEdge(&s.BorderWidth, side, w)
	case "style":
		if !isBorderStyle(kw) {
			return invalid("border style %q", value)
		}
		s.BorderStyle[side] = css.BorderStyle(kw)
	case "color":
		return setColor(&s.BorderColor[side], value)
	}
	return nil
}

func applyPadding(s *css.Style, side css.Side, value string) error {
	w, err := parsePx(value)
	if err != nil {
		return err
	}
	if w < 0 {
		return invalid("negative padding %q", value)
	}
	setEdge(&s.Padding, side, w)
	return nil
}

// applyBorderRadius handles "h" and "h / v" forms with one to four values
// on each side of the slash, in top-left, top-right, bottom-right,
// bottom-left order.
func applyBorderRadius(s *css.Style, value string) error {
	horizontal, vertical, hasVertical := strings.Cut(value, "/")
	hs, err := boxValues(horizontal)
	if err != nil {
		return err
	}
	vs := hs
	if hasVertical {
		if vs, err = boxValues(vertical); err != nil {
			return err
		}
	}
	for i := range s.BorderRadius {
		r, err := cornerRadius(hs[i], vs[i])
		if err != nil {
			return err
		}
		s.BorderRadius[i] = r
	}
	return nil
}

func applyCornerRadius(s *css.Style, corner css.Corner, value string) error {
	parts := fields(value)
	switch len(parts) {
	case 1:
		parts = append(parts, parts[0])
	case 2:
	default:
		return invalid("corner radius %q", value)
	}
	r, err := cornerRadius(parts[0], parts[1])
	if err != nil {
		return err
	}
	s.BorderRadius[corner] = r
	return nil
}

func cornerRadius(h, v string) (css.CornerRadius, error) {
	x, err := ParseLength(h)
	if err != nil {
		return css.CornerRadius{}, err
	}
	y, err := ParseLength(v)
	if err != nil {
		return css.CornerRadius{}, err
	}
	if x.Value < 0 || y.Value < 0 {
		return css.CornerRadius{}, invalid("negative radius")
	}
	return css.CornerRadius{X: x, Y: y}, nil
}

// applyFontSize resolves percentages against the inherited font size.
func applyFontSize(s *css.Style, value string, parent float64) error {
	l, err := ParseLength(value)
	if err != nil {
		return err
	}
	size := l.Resolve(parent)
	if size <= 0 {
		return invalid("font-size %q", value)
	}
	s.FontSize = size
	return nil
}

// applyLineHeight resolves normal, plain multipliers and percentages
// against the current font size.
func applyLineHeight(s *css.Style, kw string) error {
	if kw == "normal" {
		s.LineHeight = 0
		return nil
	}
	if n, err := parseFinite(kw); err == nil {
		s.LineHeight = n * s.FontSize
		return nil
	}
	l, err := ParseLength(kw)
	if err != nil {
		return err
	}
	s.LineHeight = l.Resolve(s.FontSize)
	return nil
}

// applyTextDecoration sets the decoration lines. The text-decoration
// shorthand may also carry a style, which is ignored, and a color.
func applyTextDecoration(s *css.Style, value string, shorthand bool) error {
	var lines css.TextDecorationLine
	for _, part := range fields(value) {
		switch strings.ToLower(part) {
		case "none":
		case "underline":
			lines |= css.TextDecorationUnderline
		case "overline":
			lines |= css.TextDecorationOverline
		case "line-through":
			lines |= css.TextDecorationLineThrough
		case "solid", "double", "dotted", "dashed", "wavy":
			if !shorthand {
				return invalid("text-decoration-line %q", value)
			}
		default:
			if !shorthand {
				return invalid("text-decoration-line %q", value)
			}
			c, err := ParseColor(part)
			if err != nil {
				return err
			}
			s.TextDecorationColor = &c
		}
	}
	s.TextDecoration = lines
	return nil
}

// applyListStyle expands the list-style shorthand. The marker position is
// accepted and ignored.
func applyListStyle(s *css.Style, value string) error {
	for _, part := range fields(value) {
		kw := strings.ToLower(part)
		switch {
		case kw == "inside" || kw == "outside":
		case strings.HasPrefix(kw, "url("):
			img, err := ParseImage(part)
			if err != nil {
				return err
			}
			s.ListStyleImage = img.URL
		default:
			if err := setKeyword(&s.ListStyleType, kw, listStyleTypes...); err != nil {
				return err
			}
		}
	}
	return nil
}
