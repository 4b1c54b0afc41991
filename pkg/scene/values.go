package scene

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tdewolff/parse/v2"
	csslex "github.com/tdewolff/parse/v2/css"
	"golang.org/x/image/colornames"

	"screenpaint/pkg/css"
)

// ErrInvalid is returned for documents, declarations and values that cannot
// be read.
var ErrInvalid = errors.New("scene: invalid")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// splitTokens splits s wherever sep matches a token outside parentheses and
// function calls. Parts are trimmed and empty parts dropped. Comments are
// skipped.
func splitTokens(s string, sep func(csslex.TokenType) bool) []string {
	var parts []string
	var current strings.Builder
	flush := func() {
		if p := strings.TrimSpace(current.String()); p != "" {
			parts = append(parts, p)
		}
		current.Reset()
	}
	l := csslex.NewLexer(parse.NewInputString(s))
	depth := 0
	for {
		tt, data := l.Next()
		switch tt {
		case csslex.ErrorToken:
			flush()
			return parts
		case csslex.CommentToken:
			continue
		case csslex.FunctionToken, csslex.LeftParenthesisToken:
			depth++
		case csslex.RightParenthesisToken:
			depth--
		default:
			if depth == 0 && sep(tt) {
				flush()
				continue
			}
		}
		current.Write(data)
	}
}

func splitCommas(s string) []string {
	return splitTokens(s, func(tt csslex.TokenType) bool { return tt == csslex.CommaToken })
}

// fields splits s at whitespace, keeping function calls such as
// rgb(0, 0, 0) in one piece.
func fields(s string) []string {
	return splitTokens(s, func(tt csslex.TokenType) bool { return tt == csslex.WhitespaceToken })
}

// functionArgs splits a call such as rgb(1, 2, 3) into its name and its
// comma separated arguments.
func functionArgs(s string) (name string, args []string, err error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return "", nil, invalid("function %q", s)
	}
	name = strings.ToLower(strings.TrimSpace(s[:open]))
	return name, splitCommas(s[open+1 : len(s)-1]), nil
}

// ParseLength parses a length value such as "100px", "100" or "50%".
func ParseLength(val string) (css.Length, error) {
	val = strings.TrimSpace(val)
	if p, ok := strings.CutSuffix(val, "%"); ok {
		n, err := parseFinite(p)
		if err != nil {
			return css.Length{}, invalid("length %q", val)
		}
		return css.Percent(n), nil
	}
	n, err := parseFinite(strings.TrimSuffix(val, "px"))
	if err != nil {
		return css.Length{}, invalid("length %q", val)
	}
	return css.Px(n), nil
}

func parseFinite(s string) (float64, error) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// parsePx parses a length that may not be a percentage.
func parsePx(val string) (float64, error) {
	l, err := ParseLength(val)
	if err != nil {
		return 0, err
	}
	if l.Percent {
		return 0, invalid("percentage not allowed in %q", val)
	}
	return l.Value, nil
}

var angleUnits = []struct {
	suffix string
	deg    float64
}{
	{"deg", 1},
	{"grad", 0.9},
	{"rad", 180 / math.Pi},
	{"turn", 360},
}

// parseAngle returns an angle in degrees.
func parseAngle(val string) (float64, error) {
	val = strings.ToLower(strings.TrimSpace(val))
	if val == "0" {
		return 0, nil
	}
	for _, u := range angleUnits {
		if p, ok := strings.CutSuffix(val, u.suffix); ok {
			n, err := parseFinite(p)
			if err != nil {
				break
			}
			return n * u.deg, nil
		}
	}
	return 0, invalid("angle %q", val)
}

// ParseColor parses named colors, #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(),
// rgba(), hsl(), hsla() and transparent.
func ParseColor(val string) (css.Color, error) {
	s := strings.ToLower(strings.TrimSpace(val))
	switch {
	case s == "transparent":
		return css.Transparent, nil
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgb"):
		return parseRGBFunc(s)
	case strings.HasPrefix(s, "hsl"):
		return parseHSLFunc(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return css.RGB(c.R, c.G, c.B), nil
	}
	return css.Color{}, invalid("color %q", val)
}

func parseHex(s string) (css.Color, error) {
	alpha := 1.0
	if len(s) == 5 || len(s) == 9 {
		n := (len(s) - 1) / 4
		a, err := strconv.ParseUint(s[len(s)-n:], 16, 8)
		if err != nil {
			return css.Color{}, invalid("color %q", s)
		}
		if n == 1 {
			a *= 17
		}
		alpha = float64(a) / 255
		s = s[:len(s)-n]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return css.Color{}, invalid("color %q", s)
	}
	r, g, b := c.RGB255()
	return css.Color{R: r, G: g, B: b, A: alpha}, nil
}

// colorArgs accepts both the comma and the space separated forms of the
// color functions.
func colorArgs(s string) ([]string, error) {
	_, args, err := functionArgs(s)
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		args = strings.Fields(strings.ReplaceAll(args[0], "/", " "))
	}
	if len(args) != 3 && len(args) != 4 {
		return nil, invalid("color %q", s)
	}
	return args, nil
}

func parseRGBFunc(s string) (css.Color, error) {
	args, err := colorArgs(s)
	if err != nil {
		return css.Color{}, err
	}
	var ch [3]uint8
	for i := range ch {
		l, err := ParseLength(args[i])
		if err != nil {
			return css.Color{}, invalid("color %q", s)
		}
		v := l.Value
		if l.Percent {
			v = v * 255 / 100
		}
		ch[i] = uint8(math.Round(clamp(v, 0, 255)))
	}
	a := 1.0
	if len(args) == 4 {
		if a, err = parseAlpha(args[3]); err != nil {
			return css.Color{}, err
		}
	}
	return css.Color{R: ch[0], G: ch[1], B: ch[2], A: a}, nil
}

func parseHSLFunc(s string) (css.Color, error) {
	args, err := colorArgs(s)
	if err != nil {
		return css.Color{}, err
	}
	h, err := parseAngle(args[0])
	if err != nil {
		if h, err = parseFinite(args[0]); err != nil {
			return css.Color{}, invalid("color %q", s)
		}
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	sat, err := ParseLength(args[1])
	if err != nil || !sat.Percent {
		return css.Color{}, invalid("color %q", s)
	}
	light, err := ParseLength(args[2])
	if err != nil || !light.Percent {
		return css.Color{}, invalid("color %q", s)
	}
	a := 1.0
	if len(args) == 4 {
		if a, err = parseAlpha(args[3]); err != nil {
			return css.Color{}, err
		}
	}
	c := colorful.Hsl(h, clamp(sat.Value/100, 0, 1), clamp(light.Value/100, 0, 1)).Clamped()
	r, g, b := c.RGB255()
	return css.Color{R: r, G: g, B: b, A: a}, nil
}

// parseAlpha parses an alpha value given as a number or a percentage.
func parseAlpha(val string) (float64, error) {
	l, err := ParseLength(val)
	if err != nil {
		return 0, invalid("alpha %q", val)
	}
	if l.Percent {
		return clamp(l.Value/100, 0, 1), nil
	}
	return clamp(l.Value, 0, 1), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ParseImage parses none, url(), linear-gradient() and radial-gradient().
func ParseImage(val string) (css.Image, error) {
	s := strings.TrimSpace(val)
	lower := strings.ToLower(s)
	switch {
	case lower == "none":
		return css.Image{}, nil
	case strings.HasPrefix(lower, "url(") && strings.HasSuffix(s, ")"):
		ref := strings.Trim(strings.TrimSpace(s[4:len(s)-1]), `"'`)
		if ref == "" {
			return css.Image{}, invalid("empty url in %q", val)
		}
		return css.URL(ref), nil
	case strings.HasPrefix(lower, "linear-gradient("):
		g, err := parseLinearGradient(s)
		return css.Image{Gradient: g}, err
	case strings.HasPrefix(lower, "radial-gradient("):
		g, err := parseRadialGradient(s)
		return css.Image{Gradient: g}, err
	}
	return css.Image{}, invalid("image %q", val)
}

// ParseImages parses a comma separated image list.
func ParseImages(val string) ([]css.Image, error) {
	if strings.EqualFold(strings.TrimSpace(val), "none") {
		return nil, nil
	}
	var out []css.Image
	for _, part := range splitCommas(val) {
		img, err := ParseImage(part)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

// parseLinearGradient parses a linear-gradient() value.
// Example: "linear-gradient(to right, blue 0, blue 150px, red 150px, red 300px)"
func parseLinearGradient(value string) (*css.Gradient, error) {
	_, parts, err := functionArgs(value)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, invalid("gradient %q", value)
	}

	g := css.LinearGradient(180)
	first := strings.ToLower(parts[0])
	if words := strings.Fields(first); len(words) > 1 && words[0] == "to" {
		if err := applyDirection(g, words[1:]); err != nil {
			return nil, err
		}
		parts = parts[1:]
	} else if deg, err := parseAngle(first); err == nil {
		g.Angle = deg * math.Pi / 180
		parts = parts[1:]
	}

	if g.ColorStops, err = parseColorStops(parts); err != nil {
		return nil, fmt.Errorf("gradient %q: %w", value, err)
	}
	return g, nil
}

// applyDirection sets the angle or corner named by the words following "to".
func applyDirection(g *css.Gradient, words []string) error {
	sides := map[string]float64{"top": 0, "right": 90, "bottom": 180, "left": 270}
	switch len(words) {
	case 1:
		deg, ok := sides[words[0]]
		if !ok {
			return invalid("direction %q", words[0])
		}
		g.Angle = deg * math.Pi / 180
		return nil
	case 2:
		corners := map[string]css.Corner{
			"top left": css.CornerTopLeft, "left top": css.CornerTopLeft,
			"top right": css.CornerTopRight, "right top": css.CornerTopRight,
			"bottom right": css.CornerBottomRight, "right bottom": css.CornerBottomRight,
			"bottom left": css.CornerBottomLeft, "left bottom": css.CornerBottomLeft,
		}
		c, ok := corners[words[0]+" "+words[1]]
		if !ok {
			return invalid("direction %q", strings.Join(words, " "))
		}
		g.ToCorner = &c
		return nil
	}
	return invalid("direction %q", strings.Join(words, " "))
}

// parseColorStops parses stops like "blue", "blue 150px" or "red 10% 50%".
// A stop with two positions yields two stops of the same color.
func parseColorStops(parts []string) ([]css.ColorStop, error) {
	var stops []css.ColorStop
	for _, part := range parts {
		f := fields(part)
		if len(f) > 3 {
			return nil, invalid("color stop %q", part)
		}
		c, err := ParseColor(f[0])
		if err != nil {
			return nil, err
		}
		if len(f) == 1 {
			stops = append(stops, css.ColorStop{Color: c})
			continue
		}
		for _, pos := range f[1:] {
			l, err := ParseLength(pos)
			if err != nil {
				return nil, err
			}
			stops = append(stops, css.Stop(c, l))
		}
	}
	if len(stops) < 2 {
		return nil, invalid("at least two color stops needed")
	}
	return stops, nil
}

var radialKeywords = map[string]bool{
	"circle": true, "ellipse": true, "at": true,
	string(css.ClosestSide): true, string(css.ClosestCorner): true,
	string(css.FarthestSide): true, string(css.FarthestCorner): true,
}

// parseRadialGradient parses a radial-gradient() value with an optional
// "[shape] [extent | radii] [at position]" prelude.
func parseRadialGradient(value string) (*css.Gradient, error) {
	_, parts, err := functionArgs(value)
	if err != nil {
		return nil, err
	}
	g := css.RadialGradient()
	if len(parts) > 0 {
		words := fields(strings.ToLower(parts[0]))
		_, lengthErr := ParseLength(words[0])
		if radialKeywords[words[0]] || lengthErr == nil {
			if err := applyRadialPrelude(g, words); err != nil {
				return nil, fmt.Errorf("gradient %q: %w", value, err)
			}
			parts = parts[1:]
		}
	}
	if g.ColorStops, err = parseColorStops(parts); err != nil {
		return nil, fmt.Errorf("gradient %q: %w", value, err)
	}
	return g, nil
}

func applyRadialPrelude(g *css.Gradient, words []string) error {
	shapeSet := false
	for i, w := range words {
		switch w {
		case "circle":
			g.Shape, shapeSet = css.ShapeCircle, true
		case "ellipse":
			g.Shape, shapeSet = css.ShapeEllipse, true
		case string(css.ClosestSide), string(css.ClosestCorner), string(css.FarthestSide), string(css.FarthestCorner):
			g.Extent = css.RadialExtent(w)
		case "at":
			pos, err := ParsePosition(strings.Join(words[i+1:], " "))
			if err != nil {
				return err
			}
			g.Center = pos
			return checkRadii(g, shapeSet)
		default:
			l, err := ParseLength(w)
			if err != nil {
				return err
			}
			g.Radii = append(g.Radii, l)
		}
	}
	return checkRadii(g, shapeSet)
}

// checkRadii applies the shape implied by the number of explicit radii.
func checkRadii(g *css.Gradient, shapeSet bool) error {
	switch len(g.Radii) {
	case 0:
		return nil
	case 1:
		if shapeSet && g.Shape == css.ShapeEllipse {
			return invalid("ellipse needs two radii")
		}
		g.Shape = css.ShapeCircle
		if g.Radii[0].Percent {
			return invalid("circle radius cannot be a percentage")
		}
	case 2:
		if shapeSet && g.Shape == css.ShapeCircle {
			return invalid("circle takes one radius")
		}
		g.Shape = css.ShapeEllipse
	default:
		return invalid("too many radii")
	}
	return nil
}

// ParsePosition parses a one or two component position. Keywords map to
// percentages and may come in either order.
func ParsePosition(val string) (css.BackgroundPosition, error) {
	f := fields(strings.ToLower(val))
	switch len(f) {
	case 1:
		if f[0] == "top" || f[0] == "bottom" {
			f = []string{"center", f[0]}
		} else {
			f = append(f, "center")
		}
	case 2:
		if f[0] == "top" || f[0] == "bottom" || f[1] == "left" || f[1] == "right" {
			f[0], f[1] = f[1], f[0]
		}
	default:
		return css.BackgroundPosition{}, invalid("position %q", val)
	}
	x, err := positionComponent(f[0], "left", "right")
	if err != nil {
		return css.BackgroundPosition{}, err
	}
	y, err := positionComponent(f[1], "top", "bottom")
	if err != nil {
		return css.BackgroundPosition{}, err
	}
	return css.BackgroundPosition{X: x, Y: y}, nil
}

func positionComponent(s, start, end string) (css.Length, error) {
	switch s {
	case start:
		return css.Percent(0), nil
	case "center":
		return css.Percent(50), nil
	case end:
		return css.Percent(100), nil
	}
	return ParseLength(s)
}

// ParseSize parses a background-size or mask-size value.
func ParseSize(val string) (css.BackgroundSize, error) {
	f := fields(strings.ToLower(val))
	if len(f) == 1 {
		switch f[0] {
		case string(css.SizeCover):
			return css.BackgroundSize{Keyword: css.SizeCover}, nil
		case string(css.SizeContain):
			return css.BackgroundSize{Keyword: css.SizeContain}, nil
		}
	}
	if len(f) == 0 || len(f) > 2 {
		return css.BackgroundSize{}, invalid("size %q", val)
	}
	var size css.BackgroundSize
	var err error
	if size.Width, err = sizeComponent(f[0]); err != nil {
		return css.BackgroundSize{}, err
	}
	if len(f) == 2 {
		if size.Height, err = sizeComponent(f[1]); err != nil {
			return css.BackgroundSize{}, err
		}
	}
	return size, nil
}

func sizeComponent(s string) (css.SizeValue, error) {
	if s == "auto" {
		return css.Auto(), nil
	}
	l, err := ParseLength(s)
	if err != nil {
		return css.SizeValue{}, err
	}
	if l.Value < 0 {
		return css.SizeValue{}, invalid("negative size %q", s)
	}
	return css.SizeOf(l), nil
}

// ParseRepeat parses a one or two keyword repeat value.
func ParseRepeat(val string) (css.Repeat, error) {
	f := strings.Fields(strings.ToLower(val))
	if len(f) == 1 {
		r := css.Repeat(f[0])
		switch r {
		case css.RepeatBoth, css.RepeatX, css.RepeatY, css.NoRepeat, css.RepeatRound, css.RepeatSpace:
			return r, nil
		}
	}
	if len(f) == 2 {
		switch f[0] + " " + f[1] {
		case "repeat repeat":
			return css.RepeatBoth, nil
		case "repeat no-repeat":
			return css.RepeatX, nil
		case "no-repeat repeat":
			return css.RepeatY, nil
		case "no-repeat no-repeat":
			return css.NoRepeat, nil
		case "round round":
			return css.RepeatRound, nil
		case "space space":
			return css.RepeatSpace, nil
		}
	}
	return "", invalid("repeat %q", val)
}

// ParseBox parses border-box, padding-box or content-box.
func ParseBox(val string) (css.BoxKeyword, error) {
	k := css.BoxKeyword(strings.ToLower(strings.TrimSpace(val)))
	switch k {
	case css.BorderBox, css.PaddingBox, css.ContentBox:
		return k, nil
	}
	return "", invalid("box %q", val)
}

// parseList applies parse to every comma separated entry of val.
func parseList[T any](val string, parse func(string) (T, error)) ([]T, error) {
	var out []T
	for _, part := range splitCommas(val) {
		v, err := parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, invalid("empty list")
	}
	return out, nil
}

// ParseShadows parses a box-shadow or text-shadow list. Shadows without a
// color take fallback; none yields no shadows.
func ParseShadows(val string, fallback css.Color, allowInset bool) ([]css.Shadow, error) {
	if strings.EqualFold(strings.TrimSpace(val), "none") {
		return nil, nil
	}
	maxLengths := 3
	if allowInset {
		maxLengths = 4
	}
	var out []css.Shadow
	for _, part := range splitCommas(val) {
		sh := css.Shadow{Color: fallback}
		var lengths []float64
		for _, tok := range fields(part) {
			if allowInset && strings.EqualFold(tok, "inset") {
				sh.Inset = true
				continue
			}
			if px, err := parsePx(tok); err == nil {
				lengths = append(lengths, px)
				continue
			}
			c, err := ParseColor(tok)
			if err != nil {
				return nil, invalid("shadow %q", part)
			}
			sh.Color = c
		}
		if len(lengths) < 2 || len(lengths) > maxLengths {
			return nil, invalid("shadow %q", part)
		}
		sh.OffsetX, sh.OffsetY = lengths[0], lengths[1]
		if len(lengths) > 2 {
			if lengths[2] < 0 {
				return nil, invalid("negative blur in %q", part)
			}
			sh.Blur = lengths[2]
		}
		if len(lengths) > 3 {
			sh.Spread = lengths[3]
		}
		out = append(out, sh)
	}
	return out, nil
}

// ParseTransform parses a transform list such as
// "translate(10px, 5px) rotate(45deg)".
func ParseTransform(val string) (css.Transform, error) {
	s := strings.TrimSpace(val)
	if strings.EqualFold(s, "none") {
		return nil, nil
	}
	var t css.Transform
	for _, call := range fields(s) {
		name, args, err := functionArgs(call)
		if err != nil {
			return nil, err
		}
		f, err := transformFunc(name, args)
		if err != nil {
			return nil, fmt.Errorf("transform %q: %w", call, err)
		}
		t = append(t, f)
	}
	return t, nil
}

func transformFunc(name string, args []string) (css.TransformFunc, error) {
	count := func(lo, hi int) error {
		if len(args) < lo || len(args) > hi {
			return invalid("%s takes %d to %d arguments", name, lo, hi)
		}
		return nil
	}
	switch name {
	case "translate", "translatex", "translatey":
		maxArgs := 2
		if name != "translate" {
			maxArgs = 1
		}
		if err := count(1, maxArgs); err != nil {
			return css.TransformFunc{}, err
		}
		ls := make([]css.Length, 2)
		for i, a := range args {
			l, err := ParseLength(a)
			if err != nil {
				return css.TransformFunc{}, err
			}
			ls[i] = l
		}
		if name == "translatey" {
			ls[0], ls[1] = ls[1], ls[0]
		}
		return css.Translate(ls[0], ls[1]), nil

	case "scale", "scalex", "scaley":
		maxArgs := 2
		if name != "scale" {
			maxArgs = 1
		}
		if err := count(1, maxArgs); err != nil {
			return css.TransformFunc{}, err
		}
		ns, err := numbers(args)
		if err != nil {
			return css.TransformFunc{}, err
		}
		switch {
		case name == "scalex":
			return css.ScaleBy(ns[0], 1), nil
		case name == "scaley":
			return css.ScaleBy(1, ns[0]), nil
		case len(ns) == 1:
			return css.ScaleBy(ns[0], ns[0]), nil
		}
		return css.ScaleBy(ns[0], ns[1]), nil

	case "rotate":
		if err := count(1, 1); err != nil {
			return css.TransformFunc{}, err
		}
		deg, err := parseAngle(args[0])
		if err != nil {
			return css.TransformFunc{}, err
		}
		return css.Rotate(deg), nil

	case "skew", "skewx", "skewy":
		maxArgs := 2
		if name != "skew" {
			maxArgs = 1
		}
		if err := count(1, maxArgs); err != nil {
			return css.TransformFunc{}, err
		}
		degs := make([]float64, 2)
		for i, a := range args {
			deg, err := parseAngle(a)
			if err != nil {
				return css.TransformFunc{}, err
			}
			degs[i] = deg
		}
		if name == "skewy" {
			degs[0], degs[1] = degs[1], degs[0]
		}
		return css.TransformFunc{Type: css.TransformSkew, Values: []css.Length{css.Px(degs[0]), css.Px(degs[1])}}, nil

	case "matrix":
		if err := count(6, 6); err != nil {
			return css.TransformFunc{}, err
		}
		ns, err := numbers(args)
		if err != nil {
			return css.TransformFunc{}, err
		}
		vals := make([]css.Length, len(ns))
		for i, n := range ns {
			vals[i] = css.Px(n)
		}
		return css.TransformFunc{Type: css.TransformMatrix, Values: vals}, nil
	}
	return css.TransformFunc{}, invalid("unknown transform function %q", name)
}

func numbers(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		n, err := parseFinite(strings.TrimSpace(a))
		if err != nil {
			return nil, invalid("number %q", a)
		}
		out[i] = n
	}
	return out, nil
}
