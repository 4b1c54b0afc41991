package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"

	"screenpaint/pkg/css"
	"screenpaint/pkg/geom"
)

// ErrSurface is returned when a drawing surface cannot be created.
var ErrSurface = errors.New("render: invalid surface")

// maxSurfaceSide bounds either dimension of a surface in device pixels.
const maxSurfaceSide = 1 << 15

// Surface is a raster target with an explicit graphics state. Paths are given
// in document coordinates and mapped to device pixels by the current
// transform; every paint operation honors the clip mask and global alpha.
type Surface struct {
	img *image.RGBA
	dc  *gg.Context

	state
	stack []state
}

type state struct {
	ctm   geom.Matrix
	alpha float64
	clip  *image.Alpha // nil when unclipped
}

// NewSurface returns a transparent width×height surface whose document to
// device transform is ctm.
func NewSurface(width, height int, ctm geom.Matrix) (*Surface, error) {
	if width <= 0 || height <= 0 || width > maxSurfaceSide || height > maxSurfaceSide {
		return nil, fmt.Errorf("%w: %dx%d pixels", ErrSurface, width, height)
	}
	if _, ok := ctm.Invert(); !ok {
		return nil, fmt.Errorf("%w: degenerate transform", ErrSurface)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	return &Surface{
		img:   img,
		dc:    gg.NewContextForRGBA(img),
		state: state{ctm: ctm, alpha: 1},
	}, nil
}

// Offscreen returns an empty surface of the same size sharing the current
// transform, without clip or alpha.
func (s *Surface) Offscreen() *Surface {
	img := image.NewRGBA(s.img.Rect)
	return &Surface{
		img:   img,
		dc:    gg.NewContextForRGBA(img),
		state: state{ctm: s.ctm, alpha: 1},
	}
}

// Image returns the pixels painted so far.
func (s *Surface) Image() *image.RGBA { return s.img }

func (s *Surface) Width() int  { return s.img.Rect.Dx() }
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Push saves the graphics state.
func (s *Surface) Push() {
	s.stack = append(s.stack, s.state)
}

// Pop restores the state saved by the matching Push.
func (s *Surface) Pop() {
	n := len(s.stack)
	if n == 0 {
		return
	}
	s.state, s.stack = s.stack[n-1], s.stack[:n-1]
	s.syncClip()
}

// Depth returns the number of saved states.
func (s *Surface) Depth() int { return len(s.stack) }

// Transform prepends m to the current transform: points are mapped by m
// before everything already in effect.
func (s *Surface) Transform(m geom.Matrix) {
	s.ctm = m.Then(s.ctm)
}

// Matrix returns the current document to device transform.
func (s *Surface) Matrix() geom.Matrix { return s.ctm }

// DeviceScale returns the average number of device pixels per document unit.
func (s *Surface) DeviceScale() float64 {
	return math.Sqrt(math.Abs(s.ctm.Det()))
}

// MultiplyAlpha scales the global alpha.
func (s *Surface) MultiplyAlpha(a float64) {
	s.alpha *= math.Max(0, math.Min(1, a))
}

// Alpha returns the global alpha.
func (s *Surface) Alpha() float64 { return s.alpha }

// Invisible reports whether nothing painted now could show.
func (s *Surface) Invisible() bool { return s.alpha <= 0 }

// Clear fills the whole surface with c, ignoring clip and alpha.
func (s *Surface) Clear(c css.Color) {
	draw.Draw(s.img, s.img.Rect, image.NewUniform(c.NRGBA()), image.Point{}, draw.Src)
}

// Clip intersects the clip with the inside of p.
func (s *Surface) Clip(p geom.Path) {
	s.clip = intersect(s.clip, s.rasterize(gg.FillRuleWinding, p))
	s.syncClip()
}

// ClipOut intersects the clip with the outside of p.
func (s *Surface) ClipOut(p geom.Path) {
	m := s.rasterize(gg.FillRuleWinding, p)
	for i, v := range m.Pix {
		m.Pix[i] = 255 - v
	}
	s.clip = intersect(s.clip, m)
	s.syncClip()
}

func (s *Surface) syncClip() {
	if s.clip == nil {
		s.dc.ResetClip()
		return
	}
	// gg rejects masks whose bounds differ from its image; rasterize always
	// produces surface-sized masks.
	if err := s.dc.SetMask(s.clip); err != nil {
		Logger().Error("clip mask rejected", "bounds", s.clip.Rect, "err", err)
	}
}

// intersect multiplies two coverage masks. The result is a new mask.
func intersect(a, b *image.Alpha) *image.Alpha {
	if a == nil {
		return b
	}
	out := image.NewAlpha(a.Rect)
	for i := range out.Pix {
		out.Pix[i] = uint8(uint32(a.Pix[i]) * uint32(b.Pix[i]) / 255)
	}
	return out
}

// rasterize returns the coverage of p in device space.
func (s *Surface) rasterize(rule gg.FillRule, paths ...geom.Path) *image.Alpha {
	dc := gg.NewContext(s.Width(), s.Height())
	dc.SetFillRule(rule)
	for _, p := range paths {
		trace(dc, s.ctm, p, true)
	}
	dc.SetRGBA(1, 1, 1, 1)
	dc.Fill()
	return dc.AsMask()
}

// trace adds p to the current path of dc, mapped through m.
func trace(dc *gg.Context, m geom.Matrix, p geom.Path, closed bool) {
	if len(p) == 0 {
		return
	}
	dc.NewSubPath()
	for i, seg := range p {
		start := m.Apply(geom.StartOf(seg))
		if i == 0 {
			dc.MoveTo(start.X, start.Y)
		} else {
			dc.LineTo(start.X, start.Y)
		}
		if c, ok := seg.(geom.BezierCurve); ok {
			c1, c2, end := m.Apply(c.StartControl), m.Apply(c.EndControl), m.Apply(c.End)
			dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
		}
	}
	if closed {
		dc.ClosePath()
	}
}

// color applies the global alpha to c.
func (s *Surface) color(c css.Color) color.Color {
	return c.WithAlpha(s.alpha).NRGBA()
}

// Fill paints the inside of p with c.
func (s *Surface) Fill(p geom.Path, c css.Color) {
	if s.Invisible() || c.IsTransparent() || len(p) == 0 {
		return
	}
	trace(s.dc, s.ctm, p, true)
	s.dc.SetColor(s.color(c))
	s.dc.Fill()
}

// FillPattern paints the inside of p with a device space pattern.
func (s *Surface) FillPattern(p geom.Path, pat gg.Pattern) {
	if s.Invisible() || len(p) == 0 {
		return
	}
	if s.alpha < 1 {
		pat = alphaPattern{pat, s.alpha}
	}
	trace(s.dc, s.ctm, p, true)
	s.dc.SetFillStyle(pat)
	s.dc.Fill()
}

// FillTiled paints the inside of p with tile repeated on a w×h grid anchored
// at origin. tile is expected at device resolution.
func (s *Surface) FillTiled(p geom.Path, tile image.Image, origin geom.Vector, w, h float64) {
	inv, ok := s.ctm.Invert()
	b := tile.Bounds()
	if !ok || b.Empty() || w <= 0 || h <= 0 {
		return
	}
	s.FillPattern(p, &tilePattern{
		tile:   tile,
		inv:    inv,
		origin: origin,
		w:      w,
		h:      h,
		sx:     float64(b.Dx()) / w,
		sy:     float64(b.Dy()) / h,
	})
}

// Stroke describes how a path outline is drawn.
type Stroke struct {
	Color css.Color
	Width float64
	Dash  []float64 // dash and gap lengths in document units
}

// StrokePath draws the open polyline through p.
func (s *Surface) StrokePath(p geom.Path, st Stroke) {
	if s.Invisible() || st.Color.IsTransparent() || st.Width <= 0 || len(p) == 0 {
		return
	}
	k := s.DeviceScale()
	trace(s.dc, s.ctm, p, false)
	s.dc.SetColor(s.color(st.Color))
	s.dc.SetLineWidth(st.Width * k)
	s.dc.SetLineCap(gg.LineCapButt)
	if len(st.Dash) > 0 {
		dash := make([]float64, len(st.Dash))
		for i, d := range st.Dash {
			dash[i] = d * k
		}
		s.dc.SetDash(dash...)
	}
	s.dc.Stroke()
	s.dc.SetDash()
}

// FillCircle paints a disc of radius r centered on c.
func (s *Surface) FillCircle(center geom.Vector, r float64, c css.Color) {
	if s.Invisible() || c.IsTransparent() || r <= 0 {
		return
	}
	p := s.ctm.Apply(center)
	s.dc.DrawCircle(p.X, p.Y, r*s.DeviceScale())
	s.dc.SetColor(s.color(c))
	s.dc.Fill()
}

// DrawImage draws img stretched over dst.
func (s *Surface) DrawImage(img image.Image, dst geom.Bounds) {
	sb := img.Bounds()
	if s.Invisible() || sb.Empty() || dst.Empty() {
		return
	}
	m := geom.Translate(-float64(sb.Min.X), -float64(sb.Min.Y)).
		Then(geom.Scale(dst.Width/float64(sb.Dx()), dst.Height/float64(sb.Dy()))).
		Then(geom.Translate(dst.Left, dst.Top)).
		Then(s.ctm)
	opts := &draw.Options{}
	if s.clip != nil {
		opts.DstMask = s.clip
	}
	if s.alpha < 1 {
		opts.SrcMask = image.NewUniform(color.Alpha16{A: uint16(s.alpha * 0xffff)})
	}
	draw.BiLinear.Transform(s.img, f64.Aff3{m.A, m.C, m.E, m.B, m.D, m.F}, img, sb, draw.Over, opts)
}

// DrawText draws str with its baseline starting at (x, y). face must be
// sized in device pixels. The baseline origin follows the transform; glyphs
// keep their device orientation.
func (s *Surface) DrawText(str string, x, y float64, face font.Face, c css.Color) {
	if s.Invisible() || c.IsTransparent() || str == "" {
		return
	}
	p := s.ctm.Apply(geom.V(x, y))
	s.dc.SetFontFace(face)
	s.dc.SetColor(s.color(c))
	s.dc.DrawString(str, p.X, p.Y)
}

// Shadow is a blurred, offset copy of a shape painted in a single color.
type Shadow struct {
	Color   css.Color
	Blur    float64
	OffsetX float64
	OffsetY float64
}

// FillShadowed paints the shadow p would cast, without p itself. Holes are
// cut out of p with the even-odd rule.
func (s *Surface) FillShadowed(sh Shadow, p geom.Path, holes ...geom.Path) {
	if s.Invisible() || sh.Color.IsTransparent() {
		return
	}
	rule := gg.FillRuleWinding
	if len(holes) > 0 {
		rule = gg.FillRuleEvenOdd
	}
	paths := []geom.Path{p.Translate(sh.OffsetX, sh.OffsetY)}
	for _, h := range holes {
		paths = append(paths, h.Translate(sh.OffsetX, sh.OffsetY))
	}
	s.paintShadow(s.rasterize(rule, paths...), sh)
}

// TextShadow paints the shadow of str drawn at (x, y).
func (s *Surface) TextShadow(str string, x, y float64, face font.Face, sh Shadow) {
	if s.Invisible() || sh.Color.IsTransparent() || str == "" {
		return
	}
	p := s.ctm.Apply(geom.V(x+sh.OffsetX, y+sh.OffsetY))
	dc := gg.NewContext(s.Width(), s.Height())
	dc.SetFontFace(face)
	dc.SetRGBA(1, 1, 1, 1)
	dc.DrawString(str, p.X, p.Y)
	s.paintShadow(dc.AsMask(), sh)
}

// paintShadow blurs the coverage mask with a Gaussian of σ = blur/2 and
// paints the shadow color through it.
func (s *Surface) paintShadow(shape *image.Alpha, sh Shadow) {
	coverage := image.Image(shape)
	if sigma := sh.Blur / 2 * s.DeviceScale(); sigma > 0 {
		coverage = blur.Gaussian(shape, sigma)
	}
	mask := image.NewAlpha(s.img.Rect)
	b := s.img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := coverage.At(x, y).RGBA()
			v := a >> 8
			if s.clip != nil {
				v = v * uint32(s.clip.AlphaAt(x, y).A) / 255
			}
			mask.SetAlpha(x, y, color.Alpha{A: uint8(v)})
		}
	}
	src := image.NewUniform(s.color(sh.Color))
	draw.DrawMask(s.img, b, src, image.Point{}, mask, b.Min, draw.Over)
}

// Composite paints layer over the surface with source-over, honoring the
// clip and the global alpha.
func (s *Surface) Composite(layer *Surface) {
	if s.Invisible() {
		return
	}
	b := s.img.Rect.Intersect(layer.img.Rect)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			fg := layer.img.RGBAAt(x, y)
			if fg.A == 0 {
				continue
			}
			a := s.alpha
			if s.clip != nil {
				a *= float64(s.clip.AlphaAt(x, y).A) / 255
			}
			if a <= 0 {
				continue
			}
			bg := toNRGBA(s.img.RGBAAt(x, y))
			s.img.SetRGBA(x, y, toRGBA(sourceOver(bg, toNRGBA(fg), a)))
		}
	}
}

// sourceOver composites fg, its alpha scaled by alpha, over bg using
// straight colors:
//
//	α = αbg + αm − αbg·αm
//	c = (cbg·αbg·(1−αm) + cm·αm) / α
func sourceOver(bg, fg color.NRGBA, alpha float64) color.NRGBA {
	am := float64(fg.A) / 255 * alpha
	ab := float64(bg.A) / 255
	ao := ab + am - ab*am
	if ao <= 0 {
		return color.NRGBA{}
	}
	ch := func(cb, cm uint8) uint8 {
		v := (float64(cb)*ab*(1-am) + float64(cm)*am) / ao
		return uint8(math.Max(0, math.Min(255, math.Round(v))))
	}
	return color.NRGBA{
		R: ch(bg.R, fg.R),
		G: ch(bg.G, fg.G),
		B: ch(bg.B, fg.B),
		A: uint8(math.Round(ao * 255)),
	}
}

func toNRGBA(c color.RGBA) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func toRGBA(c color.NRGBA) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// alphaPattern scales the alpha of every color of a pattern.
type alphaPattern struct {
	p     gg.Pattern
	alpha float64
}

func (a alphaPattern) ColorAt(x, y int) color.Color {
	r, g, b, al := a.p.ColorAt(x, y).RGBA()
	f := a.alpha
	return color.RGBA64{
		R: uint16(float64(r) * f),
		G: uint16(float64(g) * f),
		B: uint16(float64(b) * f),
		A: uint16(float64(al) * f),
	}
}

// tilePattern repeats a device resolution tile on a grid of w×h document
// units anchored at origin.
type tilePattern struct {
	tile   image.Image
	inv    geom.Matrix // device to document
	origin geom.Vector
	w, h   float64
	sx, sy float64 // tile pixels per document unit
}

func (p *tilePattern) ColorAt(x, y int) color.Color {
	u := p.inv.Apply(geom.V(float64(x)+0.5, float64(y)+0.5))
	b := p.tile.Bounds()
	tx := clampInt(int(wrap(u.X-p.origin.X, p.w)*p.sx), 0, b.Dx()-1)
	ty := clampInt(int(wrap(u.Y-p.origin.Y, p.h)*p.sy), 0, b.Dy()-1)
	return p.tile.At(b.Min.X+tx, b.Min.Y+ty)
}

func wrap(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	return r
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
