// Package render paints an element tree into a raster image. Elements are
// visited in CSS painting order as fixed by package stacking; each one paints
// its background, shadows, borders and content onto a Surface.
package render

import (
	"context"
	"fmt"
	"image"
	"math"

	"screenpaint/pkg/css"
	"screenpaint/pkg/dom"
	"screenpaint/pkg/geom"
	"screenpaint/pkg/images"
	"screenpaint/pkg/resource"
	"screenpaint/pkg/stacking"
	"screenpaint/pkg/text"
)

// DefaultMaxIFrameDepth limits how deeply iframes nested in iframes are
// painted.
const DefaultMaxIFrameDepth = 8

// Viewport is the document region rendered, in CSS pixels.
type Viewport struct {
	X, Y          float64
	Width, Height float64
}

// Options configures a render.
type Options struct {
	Viewport Viewport

	// Scale is the number of device pixels per CSS pixel. Zero means 1.
	Scale float64

	// BackgroundColor pre-fills the surface unless transparent.
	BackgroundColor css.Color

	// Bridge resolves image references. Nil uses a loader reading local
	// files, data URIs and http(s) URLs.
	Bridge images.Bridge

	// Fonts provides text faces. Nil uses the Go fonts.
	Fonts *text.Faces

	// MaxIFrameDepth caps iframe nesting. Zero means DefaultMaxIFrameDepth.
	MaxIFrameDepth int
}

func (o Options) withDefaults() Options {
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Bridge == nil {
		o.Bridge = images.NewLoader(resource.NewFetcher(""))
	}
	if o.Fonts == nil {
		o.Fonts = text.NewFaces(text.DefaultFontConfig())
	}
	if o.MaxIFrameDepth <= 0 {
		o.MaxIFrameDepth = DefaultMaxIFrameDepth
	}
	return o
}

// Renderer paints one element tree onto its own surface.
type Renderer struct {
	opts    Options
	surface *Surface
	effects *EffectStack
	depth   int // iframe nesting of this renderer
}

// NewRenderer allocates the surface for opts. It fails with ErrSurface when
// the viewport or scale cannot produce a surface.
func NewRenderer(opts Options) (*Renderer, error) {
	opts = opts.withDefaults()
	v := opts.Viewport
	if !(v.Width > 0 && v.Height > 0 && opts.Scale > 0) ||
		math.IsInf(v.Width*opts.Scale, 0) || math.IsInf(v.Height*opts.Scale, 0) {
		return nil, fmt.Errorf("%w: viewport %gx%g at scale %g", ErrSurface, v.Width, v.Height, opts.Scale)
	}
	w := int(math.Ceil(v.Width * opts.Scale))
	h := int(math.Ceil(v.Height * opts.Scale))
	ctm := geom.Translate(-v.X, -v.Y).Then(geom.Scale(opts.Scale, opts.Scale))
	s, err := NewSurface(w, h, ctm)
	if err != nil {
		return nil, err
	}
	return &Renderer{opts: opts, surface: s, effects: NewEffectStack(s)}, nil
}

// Render paints root and everything below it and returns the surface pixels.
func (r *Renderer) Render(ctx context.Context, root *dom.Element) *image.RGBA {
	if !r.opts.BackgroundColor.IsTransparent() {
		r.surface.Clear(r.opts.BackgroundColor)
	}
	if root != nil {
		r.renderStack(ctx, stacking.Build(root))
	}
	return r.surface.Image()
}

// Render paints root into a new image described by opts.
func Render(ctx context.Context, root *dom.Element, opts Options) (*image.RGBA, error) {
	r, err := NewRenderer(opts)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, root), nil
}

// renderStack paints a stacking context in CSS painting order.
func (r *Renderer) renderStack(ctx context.Context, sc *stacking.StackingContext) {
	p := sc.Element
	visible := p.Element.Style.IsVisible()
	Logger().Debug("stacking context", "tag", p.Element.Tag, "visible", visible)

	if visible {
		r.renderNodeBackgroundAndBorders(ctx, p)
	}
	for _, child := range sc.NegativeZIndex {
		r.renderStack(ctx, child)
	}
	if visible {
		r.renderNodeContent(ctx, p)
	}
	for _, child := range sc.NonInlineLevel {
		r.renderNode(ctx, child)
	}
	for _, child := range sc.NonPositionedFloats {
		r.renderStack(ctx, child)
	}
	for _, child := range sc.NonPositionedInlineLevel {
		r.renderStack(ctx, child)
	}
	for _, child := range sc.InlineLevel {
		r.renderNode(ctx, child)
	}
	for _, child := range sc.ZeroOrAutoZIndexOrTransformedOrOpacity {
		r.renderStack(ctx, child)
	}
	for _, child := range sc.PositiveZIndex {
		r.renderStack(ctx, child)
	}
}

// renderNode paints an element that does not form its own context.
func (r *Renderer) renderNode(ctx context.Context, p *stacking.ElementPaint) {
	if !p.Element.Style.IsVisible() {
		return
	}
	r.renderNodeBackgroundAndBorders(ctx, p)
	r.renderNodeContent(ctx, p)
}

func (r *Renderer) renderNodeBackgroundAndBorders(ctx context.Context, p *stacking.ElementPaint) {
	defer r.effects.Apply(p.EffectsFor(stacking.TargetBackgroundBorders))()
	if r.surface.Invisible() {
		return
	}
	st := p.Element.Style
	if st.HasBackground() || len(st.BoxShadow) > 0 {
		r.paintBackground(ctx, p)
		r.paintBoxShadows(p)
	}
	r.paintBorders(p)
}

func (r *Renderer) renderNodeContent(ctx context.Context, p *stacking.ElementPaint) {
	defer r.effects.Apply(p.EffectsFor(stacking.TargetContent))()
	if r.surface.Invisible() {
		return
	}
	r.paintText(p)

	switch c := p.Element.Content.(type) {
	case *dom.Image:
		r.paintImageElement(ctx, p, c)
	case *dom.Canvas:
		if c.Bitmap != nil {
			r.paintReplaced(p, images.FromImage(c.Bitmap))
		}
	case *dom.SVG:
		r.paintSVG(ctx, p, c)
	case *dom.IFrame:
		r.paintIFrame(ctx, p, c)
	case *dom.Input:
		r.paintInput(p, c)
	}

	if p.Element.IsListItem() {
		r.paintListMarker(ctx, p)
	}
}

// devicePixels converts a document length to a whole, non-zero number of
// device pixels.
func devicePixels(v, k float64) int {
	n := int(math.Round(v * k))
	if n < 1 {
		return 1
	}
	return n
}
