// Package text provides font faces for painting text runs. Fonts come from
// configured TrueType files; anything missing falls back to the Go fonts.
package text

import (
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"screenpaint/pkg/css"
)

// FontConfig holds paths to font files used for text rendering. Empty paths
// select the matching Go font.
type FontConfig struct {
	Regular    string
	Bold       string
	Italic     string
	BoldItalic string
	Monospace  string
	MonoBold   string
}

// DefaultFontConfig returns a FontConfig using only the bundled Go fonts.
func DefaultFontConfig() FontConfig {
	return FontConfig{}
}

type variant int

const (
	variantRegular variant = iota
	variantBold
	variantItalic
	variantBoldItalic
	variantMono
	variantMonoBold
)

func variantOf(bold, italic, mono bool) variant {
	switch {
	case mono && bold:
		return variantMonoBold
	case mono:
		return variantMono
	case bold && italic:
		return variantBoldItalic
	case bold:
		return variantBold
	case italic:
		return variantItalic
	}
	return variantRegular
}

// FontPath returns the font path for the given style combination.
func (fc FontConfig) FontPath(bold, italic, mono bool) string {
	switch variantOf(bold, italic, mono) {
	case variantMonoBold:
		if fc.MonoBold != "" {
			return fc.MonoBold
		}
		return fc.Monospace
	case variantMono:
		return fc.Monospace
	case variantBoldItalic:
		if fc.BoldItalic != "" {
			return fc.BoldItalic
		}
		return fc.Bold
	case variantBold:
		return fc.Bold
	case variantItalic:
		return fc.Italic
	}
	return fc.Regular
}

var goFonts = map[variant][]byte{
	variantRegular:    goregular.TTF,
	variantBold:       gobold.TTF,
	variantItalic:     goitalic.TTF,
	variantBoldItalic: gobolditalic.TTF,
	variantMono:       gomono.TTF,
	variantMonoBold:   gomonobold.TTF,
}

type faceKey struct {
	v    variant
	size float64
}

// Faces loads fonts once and caches faces per variant and size. It is safe
// for concurrent use.
type Faces struct {
	cfg FontConfig

	mu    sync.Mutex
	fonts map[variant]*truetype.Font
	faces map[faceKey]font.Face
}

// NewFaces returns a face cache for cfg.
func NewFaces(cfg FontConfig) *Faces {
	return &Faces{
		cfg:   cfg,
		fonts: make(map[variant]*truetype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Face returns the face matching the style's font at size device pixels.
func (f *Faces) Face(s *css.Style, size float64) font.Face {
	v := variantOf(s.FontWeight == css.FontWeightBold, s.FontStyle == css.FontStyleItalic, s.IsMonospace())
	key := faceKey{v: v, size: size}

	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[key]; ok {
		return face
	}
	face := truetype.NewFace(f.font(v, s), &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
	f.faces[key] = face
	return face
}

// font returns the parsed font for v. Must be called with f.mu held.
func (f *Faces) font(v variant, s *css.Style) *truetype.Font {
	if ft, ok := f.fonts[v]; ok {
		return ft
	}
	ft, err := f.load(v, s)
	if err != nil {
		Logger().Warn("font fallback", "variant", v, "err", err)
		ft, _ = truetype.Parse(goFonts[v])
	}
	f.fonts[v] = ft
	return ft
}

func (f *Faces) load(v variant, s *css.Style) (*truetype.Font, error) {
	path := f.cfg.FontPath(s.FontWeight == css.FontWeightBold, s.FontStyle == css.FontStyleItalic, s.IsMonospace())
	if path == "" {
		return truetype.Parse(goFonts[v])
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}
	ft, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return ft, nil
}

// MeasureText returns the advance width of s in face.
func MeasureText(face font.Face, s string) float64 {
	return fixedToFloat(font.MeasureString(face, s))
}

// Metrics returns the ascent and descent of face.
func Metrics(face font.Face) (ascent, descent float64) {
	m := face.Metrics()
	return fixedToFloat(m.Ascent), fixedToFloat(m.Descent)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
