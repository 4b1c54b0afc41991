package render

import (
	"context"
	"fmt"
	"image"

	"screenpaint/pkg/box"
	"screenpaint/pkg/css"
	"screenpaint/pkg/dom"
	"screenpaint/pkg/stacking"
)

// paintBackground fills the background color and image layers inside the
// painting area of the first layer. With a mask the background is painted
// offscreen, masked and composited back.
func (r *Renderer) paintBackground(ctx context.Context, p *stacking.ElementPaint) {
	el := p.Element
	st := el.Style
	if !st.HasBackground() {
		return
	}

	target := r.surface
	masked := st.HasMask()
	if masked {
		target = r.surface.Offscreen()
	}

	area := box.CurvedPaintingArea(css.Layer(st.BackgroundClip, 0, css.BorderBox), p.Curves)
	target.Push()
	target.Clip(area)
	target.Fill(area, st.BackgroundColor)
	r.paintImageLayers(ctx, target, el, st.BackgroundImage, st.BackgroundLayer, box.PositionFreeSpace)
	target.Pop()

	if !masked {
		return
	}
	mask := r.surface.Offscreen()
	r.paintImageLayers(ctx, mask, el, st.MaskImage, st.MaskLayer, box.PositionArea)
	mergeMask(target.Image(), mask.Image())
	r.surface.Composite(target)
}

// paintImageLayers paints image layers last to first, so that layer 0 ends
// up on top. A layer that fails is logged and left out.
func (r *Renderer) paintImageLayers(ctx context.Context, s *Surface, el *dom.Element, layers []css.Image, layerStyle func(int) css.LayerStyle, mode box.PositionMode) {
	for i := len(layers) - 1; i >= 0; i-- {
		if layers[i].IsNone() {
			continue
		}
		if err := r.paintImageLayer(ctx, s, el, layers[i], layerStyle(i), mode); err != nil {
			Logger().Error("image layer omitted", "tag", el.Tag, "layer", i, "err", err)
		}
	}
}

func (r *Renderer) paintImageLayer(ctx context.Context, s *Surface, el *dom.Element, img css.Image, l css.LayerStyle, mode box.PositionMode) error {
	k := s.DeviceScale()

	if img.Gradient != nil {
		t, err := box.PlaceLayer(l, el, box.Intrinsic{}, mode)
		if err != nil {
			return fmt.Errorf("gradient layer: %w", err)
		}
		if t.Width <= 0 || t.Height <= 0 {
			return nil
		}
		tile := gradientTile(img.Gradient, t.Width, t.Height, k)
		if tile == nil {
			return nil
		}
		Logger().Debug("gradient tile", "tag", el.Tag, "width", t.Width, "height", t.Height, "offset", t.Offset)
		s.FillTiled(t.Path, tile, t.Offset, t.Width, t.Height)
		return nil
	}

	bm, err := r.opts.Bridge.Resolve(ctx, img.URL)
	if err != nil {
		return fmt.Errorf("resolving image layer: %w", err)
	}
	t, err := box.PlaceLayer(l, el, box.IntrinsicOf(bm.Width, bm.Height), mode)
	if err != nil {
		return fmt.Errorf("image layer %q: %w", img.URL, err)
	}
	if t.Width <= 0 || t.Height <= 0 {
		return nil
	}
	Logger().Debug("image tile", "tag", el.Tag, "width", t.Width, "height", t.Height, "offset", t.Offset, "repeat", l.Repeat)
	s.FillTiled(t.Path, bm.Scaled(devicePixels(t.Width, k), devicePixels(t.Height, k)), t.Offset, t.Width, t.Height)
	return nil
}

// mergeMask replaces the alpha of every painted pixel of layer with the
// alpha of mask, keeping its color. Fully transparent layer pixels stay
// untouched so the surface below shows through them.
func mergeMask(layer, mask *image.RGBA) {
	b := layer.Rect.Intersect(mask.Rect)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := layer.RGBAAt(x, y)
			if px.A == 0 {
				continue
			}
			c := toNRGBA(px)
			c.A = mask.RGBAAt(x, y).A
			layer.SetRGBA(x, y, toRGBA(c))
		}
	}
}
