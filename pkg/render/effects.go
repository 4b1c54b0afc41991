package render

import "screenpaint/pkg/stacking"

// EffectStack applies stacking effects to a surface and undoes them again.
type EffectStack struct {
	surface *Surface
	active  int
}

// NewEffectStack returns an effect stack driving s.
func NewEffectStack(s *Surface) *EffectStack {
	return &EffectStack{surface: s}
}

// Apply saves the surface state, applies effects in order and returns the
// func restoring the saved state. Calling the restore func more than once
// has no further effect.
//
//	defer stack.Apply(effects)()
func (e *EffectStack) Apply(effects []stacking.Effect) func() {
	s := e.surface
	s.Push()
	e.active++
	for _, eff := range effects {
		switch eff := eff.(type) {
		case stacking.OpacityEffect:
			s.MultiplyAlpha(eff.Opacity)
		case stacking.TransformEffect:
			s.Transform(eff.Matrix)
		case stacking.ClipEffect:
			s.Clip(eff.Path)
		}
	}
	done := false
	return func() {
		if done {
			return
		}
		done = true
		e.active--
		s.Pop()
	}
}

// Active returns the number of Apply calls not yet restored.
func (e *EffectStack) Active() int { return e.active }
