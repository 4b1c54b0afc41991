package box

import (
	"errors"
	"math"

	"screenpaint/pkg/css"
	"screenpaint/pkg/geom"
)

// ErrUnresolvedSize is returned when an image layer's size cannot be
// determined. Only that layer is affected.
var ErrUnresolvedSize = errors.New("box: unable to resolve image size")

// Intrinsic describes what an image knows about its own size. Zero means
// unknown: gradients have no intrinsic size, bitmaps know all three.
type Intrinsic struct {
	Width  float64
	Height float64
	Ratio  float64
}

// IntrinsicOf returns the intrinsic size of a w×h bitmap.
func IntrinsicOf(w, h float64) Intrinsic {
	in := Intrinsic{Width: w, Height: h}
	if w > 0 && h > 0 {
		in.Ratio = w / h
	}
	return in
}

// ResolveSize computes the rendered size of an image layer following the
// CSS background sizing rules.
func ResolveSize(size css.BackgroundSize, in Intrinsic, area geom.Bounds) (w, h float64, err error) {
	w, h, err = resolveSize(size, in, area)
	if err != nil {
		return 0, 0, err
	}
	if !finite(w) || !finite(h) {
		return 0, 0, ErrUnresolvedSize
	}
	return w, h, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func resolveSize(size css.BackgroundSize, in Intrinsic, area geom.Bounds) (float64, float64, error) {
	hasWidth, hasHeight, hasRatio := in.Width > 0, in.Height > 0, in.Ratio > 0

	switch size.Keyword {
	case css.SizeContain, css.SizeCover:
		return fit(size.Keyword == css.SizeCover, in.Ratio, area)
	}

	first, second := size.Width, size.Height
	if first.Kind == css.SizeUnset {
		return 0, 0, ErrUnresolvedSize
	}
	if first.Kind == css.SizeLength && second.Kind == css.SizeLength {
		return first.Length.Resolve(area.Width), second.Length.Resolve(area.Height), nil
	}

	if first.IsAuto() && second.IsAuto() {
		switch {
		case hasWidth && hasHeight:
			return in.Width, in.Height, nil
		case !hasWidth && !hasHeight && !hasRatio:
			return area.Width, area.Height, nil
		case !hasWidth && !hasHeight:
			return fit(false, in.Ratio, area)
		case hasRatio:
			if hasWidth {
				return in.Width, in.Width / in.Ratio, nil
			}
			return in.Height * in.Ratio, in.Height, nil
		case hasWidth:
			return in.Width, area.Height, nil
		default:
			return area.Width, in.Height, nil
		}
	}

	// One axis explicit, the other auto.
	if hasRatio {
		if first.Kind == css.SizeLength {
			w := first.Length.Resolve(area.Width)
			return w, w / in.Ratio, nil
		}
		h := second.Length.Resolve(area.Height)
		return h * in.Ratio, h, nil
	}

	if first.Kind == css.SizeLength {
		w := first.Length.Resolve(area.Width)
		switch {
		case hasWidth && hasHeight:
			return w, w / in.Width * in.Height, nil
		case hasHeight:
			return w, in.Height, nil
		default:
			return w, area.Height, nil
		}
	}
	h := second.Length.Resolve(area.Height)
	switch {
	case hasWidth && hasHeight:
		return h / in.Height * in.Width, h, nil
	case hasWidth:
		return in.Width, h, nil
	default:
		return area.Width, h, nil
	}
}

// fit implements contain (cover false) and cover for a known ratio and
// stretches to the area otherwise.
func fit(cover bool, ratio float64, area geom.Bounds) (float64, float64, error) {
	if ratio <= 0 {
		return area.Width, area.Height, nil
	}
	if area.Height <= 0 {
		return 0, 0, ErrUnresolvedSize
	}
	target := area.Width / area.Height
	if (target < ratio) != cover {
		return area.Width, area.Width / ratio, nil
	}
	return area.Height * ratio, area.Height, nil
}
