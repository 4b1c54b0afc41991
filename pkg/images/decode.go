package images

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net/url"
	"strings"

	"github.com/h2non/filetype"
	"github.com/srwiley/oksvg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Default size of an SVG document without a usable viewBox.
const (
	defaultSVGWidth  = 300
	defaultSVGHeight = 150
)

// IsDataURI reports whether ref is an inline data: URI.
func IsDataURI(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}

// parseDataURI splits a data URI into its media type and payload.
func parseDataURI(ref string) (mediaType string, data []byte, err error) {
	if !IsDataURI(ref) {
		return "", nil, fmt.Errorf("not a data URI: %w", ErrUnsupported)
	}
	header, payload, ok := strings.Cut(ref[len("data:"):], ",")
	if !ok {
		return "", nil, fmt.Errorf("data URI without payload: %w", ErrUnsupported)
	}
	mediaType = header
	isBase64 := false
	if strings.HasSuffix(header, ";base64") {
		mediaType = strings.TrimSuffix(header, ";base64")
		isBase64 = true
	}
	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("decoding base64 payload: %w", err)
		}
		return mediaType, data, nil
	}
	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decoding data URI payload: %w", err)
	}
	return mediaType, []byte(unescaped), nil
}

// DecodeDataURI decodes an image embedded in a data URI.
func DecodeDataURI(ref string) (*Bitmap, error) {
	mediaType, data, err := parseDataURI(ref)
	if err != nil {
		return nil, err
	}
	return Decode(data, mediaType)
}

func isSVG(data []byte, contentType string) bool {
	if strings.Contains(contentType, "svg") {
		return true
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(head, []byte("<svg"))
}

// Decode decodes raster or SVG image data. contentType may be empty; the
// format is sniffed from the bytes.
func Decode(data []byte, contentType string) (*Bitmap, error) {
	if isSVG(data, contentType) {
		return DecodeSVG(data)
	}
	kind, _ := filetype.Match(data)
	if kind == filetype.Unknown || !filetype.IsImage(data) {
		return nil, fmt.Errorf("content type %q: %w", contentType, ErrUnsupported)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", kind.MIME.Value, err)
	}
	return FromImage(img), nil
}

// DecodeSVG parses an SVG document. Its intrinsic size comes from the
// viewBox.
func DecodeSVG(data []byte) (*Bitmap, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parsing svg: %w", err)
	}
	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = defaultSVGWidth, defaultSVGHeight
		icon.ViewBox.W, icon.ViewBox.H = w, h
	}
	b := &Bitmap{Width: w, Height: h, svg: icon}
	b.Image = rasterizeSVG(icon, int(math.Ceil(w)), int(math.Ceil(h)))
	return b, nil
}
