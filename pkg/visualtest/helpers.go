package visualtest

import (
	"image"
	"image/color"
	"image/draw"
)

// Solid returns a w×h image filled with c.
func Solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// PixelAt returns the straight alpha color of one pixel.
func PixelAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

// Near reports whether every channel of a and b differs by at most
// tolerance.
func Near(a, b color.Color, tolerance int) bool {
	return channelDiff(a, b) <= tolerance
}

// CountDiffering counts the pixels inside r that are not within tolerance
// of c.
func CountDiffering(img image.Image, r image.Rectangle, c color.Color, tolerance int) int {
	r = r.Intersect(img.Bounds())
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !Near(img.At(x, y), c, tolerance) {
				n++
			}
		}
	}
	return n
}
