package stacking

import "screenpaint/pkg/geom"

// Target selects which paint phases of a node an effect applies to.
type Target uint8

const (
	TargetBackgroundBorders Target = 1 << iota
	TargetContent

	TargetAll = TargetBackgroundBorders | TargetContent
)

// Effect is one of OpacityEffect, TransformEffect or ClipEffect.
type Effect interface {
	Target() Target
}

// OpacityEffect multiplies the alpha of everything painted under it.
type OpacityEffect struct {
	Opacity float64
}

// TransformEffect applies an affine transform. Matrix already includes the
// translation to and from the transform origin.
type TransformEffect struct {
	Matrix geom.Matrix
}

// ClipEffect restricts painting to the inside of Path.
type ClipEffect struct {
	Path    geom.Path
	Targets Target
}

func (OpacityEffect) Target() Target   { return TargetAll }
func (TransformEffect) Target() Target { return TargetAll }
func (c ClipEffect) Target() Target    { return c.Targets }

// ownEffects lists the effects a node establishes for itself.
func ownEffects(p *ElementPaint) []Effect {
	s, b := p.Element.Style, p.Element.Bounds
	var effects []Effect
	if s.Opacity < 1 {
		effects = append(effects, OpacityEffect{Opacity: s.Opacity})
	}
	if s.IsTransformed() {
		ox := b.Left + s.TransformOrigin[0].Resolve(b.Width)
		oy := b.Top + s.TransformOrigin[1].Resolve(b.Height)
		m := geom.Translate(-ox, -oy).
			Then(s.Transform.Matrix(b.Width, b.Height)).
			Then(geom.Translate(ox, oy))
		effects = append(effects, TransformEffect{Matrix: m})
	}
	if s.Clips() {
		border, padding := p.Curves.Border.Path(), p.Curves.Padding.Path()
		if geom.Equal(border, padding) {
			effects = append(effects, ClipEffect{Path: border, Targets: TargetAll})
		} else {
			effects = append(effects,
				ClipEffect{Path: border, Targets: TargetBackgroundBorders},
				ClipEffect{Path: padding, Targets: TargetContent},
			)
		}
	}
	return effects
}

func isClip(e Effect) bool {
	_, ok := e.(ClipEffect)
	return ok
}

// EffectsFor returns the effects to apply, outermost first, before painting
// the given phase of p. Ancestors contribute their opacity and transform.
// Their overflow clip only applies while p is inside their containing block
// chain: absolutely positioned descendants escape the clips of static
// ancestors.
func (p *ElementPaint) EffectsFor(target Target) []Effect {
	effects := append([]Effect(nil), p.effects...)
	flow := p.Element.Style.IsInFlow()
	for parent := p.Parent; parent != nil; parent = parent.Parent {
		var inherited []Effect
		for _, e := range parent.effects {
			if !isClip(e) {
				inherited = append(inherited, e)
			}
		}
		ps := parent.Element.Style
		if flow || ps.IsPositioned() || parent.Parent == nil {
			flow = ps.IsInFlow()
			if ps.Clips() {
				inherited = append(inherited, ClipEffect{Path: parent.Curves.Padding.Path(), Targets: TargetAll})
			}
		}
		effects = append(inherited, effects...)
	}

	out := effects[:0]
	for _, e := range effects {
		if e.Target()&target != 0 {
			out = append(out, e)
		}
	}
	return out
}
