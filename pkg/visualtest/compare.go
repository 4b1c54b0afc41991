// Package visualtest checks rendered images against reference images and
// expected region colors, with a per-channel tolerance.
package visualtest

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// DefaultTolerance absorbs anti-aliasing differences between runs of the
// rasterizer.
const DefaultTolerance = 2

// ErrSize is returned when two images do not cover the same bounds.
var ErrSize = errors.New("visualtest: image bounds differ")

// Diff summarizes how a rendering differs from a reference.
type Diff struct {
	Pixels int // pixels differing by more than the tolerance
	Total  int
	Max    int // largest channel difference seen

	// Bounds is the smallest rectangle holding every differing pixel.
	Bounds image.Rectangle
}

// Match reports whether no pixel differs beyond the tolerance.
func (d Diff) Match() bool { return d.Pixels == 0 }

func (d Diff) String() string {
	if d.Match() {
		return fmt.Sprintf("match (max difference %d)", d.Max)
	}
	return fmt.Sprintf("%d of %d pixels differ within %v, max difference %d", d.Pixels, d.Total, d.Bounds, d.Max)
}

// Compare compares actual with expected pixel by pixel.
func Compare(actual, expected image.Image, tolerance int) (Diff, error) {
	b := actual.Bounds()
	if b != expected.Bounds() {
		return Diff{}, fmt.Errorf("%w: %v vs %v", ErrSize, b, expected.Bounds())
	}
	d := Diff{Total: b.Dx() * b.Dy()}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			diff := channelDiff(actual.At(x, y), expected.At(x, y))
			d.Max = max(d.Max, diff)
			if diff > tolerance {
				d.Pixels++
				d.Bounds = d.Bounds.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return d, nil
}

// Expect names the color a region of a rendering must have.
type Expect struct {
	Name  string
	Rect  image.Rectangle
	Color color.Color
}

// Check returns one message for every expectation whose region holds pixels
// off its color. An empty result means the image meets them all.
func Check(img image.Image, tolerance int, expects ...Expect) []string {
	var failures []string
	for _, e := range expects {
		r := e.Rect.Intersect(img.Bounds())
		if r.Empty() {
			failures = append(failures, fmt.Sprintf("%s: %v is outside the image", e.Name, e.Rect))
			continue
		}
		if n := CountDiffering(img, r, e.Color, tolerance); n > 0 {
			failures = append(failures, fmt.Sprintf("%s: %d of %d pixels in %v are not %v",
				e.Name, n, r.Dx()*r.Dy(), r, color.NRGBAModel.Convert(e.Color)))
		}
	}
	return failures
}

// LoadPNG decodes a PNG file.
func LoadPNG(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return png.Decode(file)
}

// SavePNG writes img to path as a PNG.
func SavePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// channelDiff is the largest 8-bit channel difference between a and b.
func channelDiff(a, b color.Color) int {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return max(
		absInt(int(ar>>8)-int(br>>8)),
		absInt(int(ag>>8)-int(bg>>8)),
		absInt(int(ab>>8)-int(bb>>8)),
		absInt(int(aa>>8)-int(ba>>8)),
	)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
