package render

import (
	"context"
	"math"

	"screenpaint/pkg/box"
	"screenpaint/pkg/css"
	"screenpaint/pkg/dom"
	"screenpaint/pkg/geom"
	"screenpaint/pkg/images"
	"screenpaint/pkg/stacking"
)

// inputColor paints checkbox ticks and radio dots.
var inputColor = css.RGB(42, 42, 42)

// paintReplaced draws bm stretched over the content box, clipped to the
// padding box curves.
func (r *Renderer) paintReplaced(p *stacking.ElementPaint, bm *images.Bitmap) {
	if !(bm.Width > 0 && bm.Height > 0) {
		return
	}
	cb := box.ContentBox(p.Element)
	if cb.Empty() {
		return
	}
	s := r.surface
	k := s.DeviceScale()
	s.Push()
	defer s.Pop()
	s.Clip(p.Curves.Padding.Path())
	s.DrawImage(bm.Scaled(devicePixels(cb.Width, k), devicePixels(cb.Height, k)), cb)
}

func (r *Renderer) paintImageElement(ctx context.Context, p *stacking.ElementPaint, img *dom.Image) {
	bm, err := r.opts.Bridge.Resolve(ctx, img.Src)
	if err != nil {
		Logger().Error("image omitted", "tag", p.Element.Tag, "err", err)
		return
	}
	r.paintReplaced(p, bm)
}

func (r *Renderer) paintSVG(ctx context.Context, p *stacking.ElementPaint, svg *dom.SVG) {
	var (
		bm  *images.Bitmap
		err error
	)
	if svg.Markup != "" {
		bm, err = images.DecodeSVG([]byte(svg.Markup))
	} else {
		bm, err = r.opts.Bridge.Resolve(ctx, svg.Src)
	}
	if err != nil {
		Logger().Error("svg omitted", "tag", p.Element.Tag, "err", err)
		return
	}
	r.paintReplaced(p, bm)
}

// paintIFrame renders the nested document on its own surface and draws it
// into the content box.
func (r *Renderer) paintIFrame(ctx context.Context, p *stacking.ElementPaint, f *dom.IFrame) {
	if f.Root == nil || !(f.Width > 0 && f.Height > 0) {
		return
	}
	if r.depth+1 > r.opts.MaxIFrameDepth {
		Logger().Error("iframe omitted", "tag", p.Element.Tag, "depth", r.depth+1, "max", r.opts.MaxIFrameDepth)
		return
	}
	sub, err := NewRenderer(Options{
		Viewport:        Viewport{Width: f.Width, Height: f.Height},
		Scale:           r.opts.Scale,
		BackgroundColor: f.BackgroundColor,
		Bridge:          r.opts.Bridge,
		Fonts:           r.opts.Fonts,
		MaxIFrameDepth:  r.opts.MaxIFrameDepth,
	})
	if err != nil {
		Logger().Error("iframe omitted", "tag", p.Element.Tag, "err", err)
		return
	}
	sub.depth = r.depth + 1
	Logger().Debug("iframe", "tag", p.Element.Tag, "depth", sub.depth, "width", f.Width, "height", f.Height)
	img := sub.Render(ctx, f.Root)

	s := r.surface
	s.Push()
	defer s.Pop()
	s.Clip(p.Curves.Padding.Path())
	s.DrawImage(img, box.ContentBox(p.Element))
}

// checkmark is the tick of a checked checkbox whose box side is size.
func checkmark(b geom.Bounds, size float64) geom.Path {
	pt := func(fx, fy float64) geom.Segment {
		return geom.V(b.Left+size*fx, b.Top+size*fy)
	}
	return geom.Path{
		pt(0.39363, 0.79),
		pt(0.16, 0.5549),
		pt(0.27347, 0.44071),
		pt(0.39694, 0.5649),
		pt(0.72983, 0.23),
		pt(0.84, 0.34085),
		pt(0.39363, 0.79),
	}
}

func (r *Renderer) paintInput(p *stacking.ElementPaint, in *dom.Input) {
	b := p.Element.Bounds
	size := math.Min(b.Width, b.Height)
	switch in.Type {
	case dom.InputCheckbox:
		if in.Checked {
			r.surface.Fill(checkmark(b, size), inputColor)
		}
	case dom.InputRadio:
		if in.Checked {
			r.surface.FillCircle(geom.V(b.Left+size/2, b.Top+size/2), size/4, inputColor)
		}
	default:
		r.paintInputValue(p, in)
	}
}
