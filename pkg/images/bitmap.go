// Package images resolves image references to decoded bitmaps: data URIs,
// local files and http(s) URLs, in any of PNG, JPEG, GIF, WebP, BMP or SVG.
package images

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

var (
	// ErrUnsupported is returned for content that is not a decodable image.
	ErrUnsupported = errors.New("images: unsupported image format")
	// ErrNotFound is returned when the referenced resource does not exist.
	ErrNotFound = errors.New("images: image not found")
)

// Bridge resolves an image reference to a bitmap. Implementations may block
// on I/O and must honor ctx.
type Bridge interface {
	Resolve(ctx context.Context, ref string) (*Bitmap, error)
}

// BridgeFunc adapts a function to the Bridge interface.
type BridgeFunc func(ctx context.Context, ref string) (*Bitmap, error)

func (f BridgeFunc) Resolve(ctx context.Context, ref string) (*Bitmap, error) {
	return f(ctx, ref)
}

// Bitmap is a decoded image with its intrinsic size in CSS pixels. Vector
// images keep their document and are rasterized again at the size they are
// drawn at.
type Bitmap struct {
	Image  image.Image
	Width  float64
	Height float64

	mu  sync.Mutex
	svg *oksvg.SvgIcon
}

// FromImage wraps an already decoded image.
func FromImage(img image.Image) *Bitmap {
	b := img.Bounds()
	return &Bitmap{Image: img, Width: float64(b.Dx()), Height: float64(b.Dy())}
}

// IsVector reports whether the bitmap came from an SVG document.
func (b *Bitmap) IsVector() bool {
	return b.svg != nil
}

// Scaled returns the image resampled to w×h device pixels.
func (b *Bitmap) Scaled(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	if b.svg != nil {
		b.mu.Lock()
		defer b.mu.Unlock()
		return rasterizeSVG(b.svg, w, h)
	}
	src := b.Image.Bounds()
	if src.Dx() == w && src.Dy() == h {
		return b.Image
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), b.Image, src, draw.Src, nil)
	return dst
}

func rasterizeSVG(icon *oksvg.SvgIcon, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return dst
}
