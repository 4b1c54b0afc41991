package css

// BoxKeyword names one of the three CSS boxes used by background-origin,
// background-clip and their mask counterparts.
type BoxKeyword string

const (
	BorderBox  BoxKeyword = "border-box"
	PaddingBox BoxKeyword = "padding-box"
	ContentBox BoxKeyword = "content-box"
)

// Repeat represents a background-repeat or mask-repeat value
type Repeat string

const (
	RepeatBoth  Repeat = "repeat"
	RepeatX     Repeat = "repeat-x"
	RepeatY     Repeat = "repeat-y"
	NoRepeat    Repeat = "no-repeat"
	RepeatRound Repeat = "round"
	RepeatSpace Repeat = "space"
)

// SizeKeyword is the keyword form of background-size.
type SizeKeyword string

const (
	SizeExplicit SizeKeyword = ""
	SizeContain  SizeKeyword = "contain"
	SizeCover    SizeKeyword = "cover"
)

// SizeKind tells which form one background-size component takes.
type SizeKind int

const (
	// SizeUnset marks a missing component. A missing second component
	// behaves like auto; a missing first one cannot be resolved.
	SizeUnset SizeKind = iota
	SizeAuto
	SizeLength
)

// SizeValue is one component of a background-size.
type SizeValue struct {
	Kind   SizeKind
	Length Length
}

func Auto() SizeValue           { return SizeValue{Kind: SizeAuto} }
func SizeOf(l Length) SizeValue { return SizeValue{Kind: SizeLength, Length: l} }

// IsAuto reports whether the component is auto or missing.
func (v SizeValue) IsAuto() bool {
	return v.Kind == SizeAuto || v.Kind == SizeUnset
}

// BackgroundSize is a resolved background-size or mask-size value.
type BackgroundSize struct {
	Keyword SizeKeyword
	Width   SizeValue
	Height  SizeValue
}

// SizeAutoAuto is the initial value of background-size.
var SizeAutoAuto = BackgroundSize{Width: Auto(), Height: Auto()}

// BackgroundPosition is a resolved background-position or mask-position.
type BackgroundPosition struct {
	X Length
	Y Length
}

// Image is one entry of a background-image or mask-image list: either a URL
// reference or a gradient.
type Image struct {
	URL      string
	Gradient *Gradient
}

// URL returns an image referencing a resource.
func URL(ref string) Image {
	return Image{URL: ref}
}

// IsNone reports whether the image is empty (CSS none).
func (i Image) IsNone() bool {
	return i.URL == "" && i.Gradient == nil
}

// LayerStyle gathers the per-layer properties of one image layer.
type LayerStyle struct {
	Origin   BoxKeyword
	Clip     BoxKeyword
	Size     BackgroundSize
	Position BackgroundPosition
	Repeat   Repeat
}

// Layer returns values[i], or values[0] when i is past the end of the list.
// CSS repeats short per-layer lists; the paint pipeline resolves a missing
// entry to the first value. An empty list yields fallback.
func Layer[T any](values []T, i int, fallback T) T {
	if len(values) == 0 {
		return fallback
	}
	if i < 0 || i >= len(values) {
		return values[0]
	}
	return values[i]
}

// BackgroundLayer returns the per-layer properties of background layer i.
func (s *Style) BackgroundLayer(i int) LayerStyle {
	return LayerStyle{
		Origin:   Layer(s.BackgroundOrigin, i, PaddingBox),
		Clip:     Layer(s.BackgroundClip, i, BorderBox),
		Size:     Layer(s.BackgroundSize, i, SizeAutoAuto),
		Position: Layer(s.BackgroundPosition, i, BackgroundPosition{}),
		Repeat:   Layer(s.BackgroundRepeat, i, RepeatBoth),
	}
}

// MaskLayer returns the per-layer properties of mask layer i.
func (s *Style) MaskLayer(i int) LayerStyle {
	return LayerStyle{
		Origin:   Layer(s.MaskOrigin, i, BorderBox),
		Clip:     Layer(s.MaskClip, i, BorderBox),
		Size:     Layer(s.MaskSize, i, SizeAutoAuto),
		Position: Layer(s.MaskPosition, i, BackgroundPosition{}),
		Repeat:   Layer(s.MaskRepeat, i, RepeatBoth),
	}
}

// HasBackground reports whether any background paint is needed.
func (s *Style) HasBackground() bool {
	return !s.BackgroundColor.IsTransparent() || len(s.BackgroundImage) > 0
}

// HasMask reports whether at least one mask image is set.
func (s *Style) HasMask() bool {
	for _, m := range s.MaskImage {
		if !m.IsNone() {
			return true
		}
	}
	return false
}
