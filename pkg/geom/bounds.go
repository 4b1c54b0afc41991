package geom

import "math"

// Bounds is an axis aligned rectangle.
type Bounds struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Rect is shorthand for Bounds{left, top, width, height}.
func Rect(left, top, width, height float64) Bounds {
	return Bounds{Left: left, Top: top, Width: width, Height: height}
}

// Add grows or moves the rectangle: x and y move the top-left corner,
// w and h are added to the size.
func (b Bounds) Add(x, y, w, h float64) Bounds {
	return Bounds{Left: b.Left + x, Top: b.Top + y, Width: b.Width + w, Height: b.Height + h}
}

func (b Bounds) Right() float64  { return b.Left + b.Width }
func (b Bounds) Bottom() float64 { return b.Top + b.Height }

// Empty reports whether the rectangle has no area.
func (b Bounds) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Corners returns the rectangle as a closed four point path, clockwise from
// the top-left corner.
func (b Bounds) Corners() Path {
	return Path{
		V(b.Left, b.Top),
		V(b.Right(), b.Top),
		V(b.Right(), b.Bottom()),
		V(b.Left, b.Bottom()),
	}
}

// Union returns the smallest rectangle containing both a and b.
func Union(a, b Bounds) Bounds {
	left := math.Min(a.Left, b.Left)
	top := math.Min(a.Top, b.Top)
	right := math.Max(a.Right(), b.Right())
	bottom := math.Max(a.Bottom(), b.Bottom())
	return Bounds{Left: left, Top: top, Width: right - left, Height: bottom - top}
}
