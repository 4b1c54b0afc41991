package css

import (
	"math"

	"screenpaint/pkg/geom"
)

// TransformType names a 2D transform function.
type TransformType string

const (
	TransformTranslate TransformType = "translate"
	TransformRotate    TransformType = "rotate"
	TransformScale     TransformType = "scale"
	TransformSkew      TransformType = "skew"
	TransformMatrix    TransformType = "matrix"
)

// TransformFunc is one entry of a transform list. Rotate and skew take
// degrees, matrix takes the six values a, b, c, d, e, f.
type TransformFunc struct {
	Type   TransformType
	Values []Length
}

// Transform is a transform list applied left to right.
type Transform []TransformFunc

// Translate returns a translate() entry.
func Translate(x, y Length) TransformFunc {
	return TransformFunc{Type: TransformTranslate, Values: []Length{x, y}}
}

// Rotate returns a rotate() entry in degrees.
func Rotate(deg float64) TransformFunc {
	return TransformFunc{Type: TransformRotate, Values: []Length{Px(deg)}}
}

// ScaleBy returns a scale() entry.
func ScaleBy(x, y float64) TransformFunc {
	return TransformFunc{Type: TransformScale, Values: []Length{Px(x), Px(y)}}
}

func (f TransformFunc) value(i int, base float64, fallback float64) float64 {
	if i >= len(f.Values) {
		return fallback
	}
	return f.Values[i].Resolve(base)
}

// Matrix folds the list into one matrix. Percentages in translate() resolve
// against the border box size.
func (t Transform) Matrix(width, height float64) geom.Matrix {
	m := geom.Identity()
	for _, f := range t {
		var step geom.Matrix
		switch f.Type {
		case TransformTranslate:
			step = geom.Translate(f.value(0, width, 0), f.value(1, height, 0))
		case TransformRotate:
			step = geom.Rotate(f.value(0, 0, 0) * math.Pi / 180)
		case TransformScale:
			sx := f.value(0, 0, 1)
			step = geom.Scale(sx, f.value(1, 0, sx))
		case TransformSkew:
			step = geom.Skew(f.value(0, 0, 0)*math.Pi/180, f.value(1, 0, 0)*math.Pi/180)
		case TransformMatrix:
			if len(f.Values) < 6 {
				continue
			}
			step = geom.Matrix{
				A: f.Values[0].Value, B: f.Values[1].Value,
				C: f.Values[2].Value, D: f.Values[3].Value,
				E: f.Values[4].Value, F: f.Values[5].Value,
			}
		default:
			continue
		}
		// Later functions apply first to the element's coordinates.
		m = step.Then(m)
	}
	return m
}
