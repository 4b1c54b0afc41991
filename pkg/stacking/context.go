// Package stacking orders an element tree for painting. Build groups every
// element into the stacking context that paints it and into one of the
// seven buckets that fix the CSS painting order.
package stacking

import (
	"sort"

	"screenpaint/pkg/box"
	"screenpaint/pkg/css"
	"screenpaint/pkg/dom"
)

// ElementPaint is one element ready to be painted: its outlines, its own
// effects and, for list items, the marker text.
type ElementPaint struct {
	Element   *dom.Element
	Parent    *ElementPaint
	Curves    *box.BoundCurves
	ListValue string

	effects []Effect
}

func newElementPaint(el *dom.Element, parent *ElementPaint) *ElementPaint {
	p := &ElementPaint{Element: el, Parent: parent, Curves: box.NewBoundCurves(el)}
	p.effects = ownEffects(p)
	return p
}

// Effects returns the effects p establishes itself.
func (p *ElementPaint) Effects() []Effect {
	return p.effects
}

// StackingContext is an element painted as a unit together with the
// descendants it orders.
type StackingContext struct {
	Element *ElementPaint

	NegativeZIndex                         []*StackingContext
	NonInlineLevel                         []*ElementPaint
	NonPositionedFloats                    []*StackingContext
	NonPositionedInlineLevel               []*StackingContext
	InlineLevel                            []*ElementPaint
	ZeroOrAutoZIndexOrTransformedOrOpacity []*StackingContext
	PositiveZIndex                         []*StackingContext
}

func newStackingContext(p *ElementPaint) *StackingContext {
	return &StackingContext{Element: p}
}

// createsRealStackingContext reports whether el isolates its descendants
// entirely: nothing inside paints outside its context.
func createsRealStackingContext(el *dom.Element) bool {
	s := el.Style
	return s.IsPositionedWithZIndex() || s.Opacity < 1 || s.IsTransformed()
}

// createsStackingContext reports whether el paints atomically while its
// positioned descendants still join the nearest real context. Floats and
// inline-blocks, inline-flexes and inline-tables do.
func createsStackingContext(el *dom.Element) bool {
	s := el.Style
	return s.IsPositioned() || s.IsFloating() || s.Display.IsAtomicInline()
}

// Build returns the stacking tree rooted at root.
func Build(root *dom.Element) *StackingContext {
	p := newElementPaint(root, nil)
	sc := newStackingContext(p)
	var items []*ElementPaint
	parseStackTree(p, sc, sc, &items)
	if root.ListOwner != nil {
		numberListItems(root.ListOwner, items)
	}
	sortZIndex(sc)
	return sc
}

func parseStackTree(parent *ElementPaint, current, real *StackingContext, listItems *[]*ElementPaint) {
	for _, child := range parent.Element.Children {
		s := child.Style
		if s.Display == css.DisplayNone {
			continue
		}
		p := newElementPaint(child, parent)
		if child.IsListItem() {
			*listItems = append(*listItems, p)
		}
		ownerItems := listItems
		var ownItems []*ElementPaint
		if child.ListOwner != nil {
			ownerItems = &ownItems
		}

		isReal := createsRealStackingContext(child)
		if isReal || createsStackingContext(child) {
			parentStack := current
			if isReal || s.IsPositioned() {
				parentStack = real
			}
			stack := newStackingContext(p)
			switch {
			case s.IsPositioned() || s.Opacity < 1 || s.IsTransformed():
				switch order := s.ZIndex.Order(); {
				case order < 0:
					parentStack.NegativeZIndex = append(parentStack.NegativeZIndex, stack)
				case order > 0:
					parentStack.PositiveZIndex = append(parentStack.PositiveZIndex, stack)
				default:
					parentStack.ZeroOrAutoZIndexOrTransformedOrOpacity = append(parentStack.ZeroOrAutoZIndexOrTransformedOrOpacity, stack)
				}
			case s.IsFloating():
				parentStack.NonPositionedFloats = append(parentStack.NonPositionedFloats, stack)
			default:
				parentStack.NonPositionedInlineLevel = append(parentStack.NonPositionedInlineLevel, stack)
			}
			nextReal := real
			if isReal {
				nextReal = stack
			}
			parseStackTree(p, stack, nextReal, ownerItems)
		} else {
			if s.Display.IsInlineLevel() {
				current.InlineLevel = append(current.InlineLevel, p)
			} else {
				current.NonInlineLevel = append(current.NonInlineLevel, p)
			}
			parseStackTree(p, current, real, ownerItems)
		}

		if child.ListOwner != nil {
			numberListItems(child.ListOwner, ownItems)
		}
	}
}

// sortZIndex orders the z-index buckets of sc and every nested context
// ascending, keeping tree order among equal z-indexes.
func sortZIndex(sc *StackingContext) {
	byZ := func(list []*StackingContext) {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].zOrder() < list[j].zOrder()
		})
	}
	byZ(sc.NegativeZIndex)
	byZ(sc.PositiveZIndex)
	for _, child := range sc.Children() {
		sortZIndex(child)
	}
}

func (sc *StackingContext) zOrder() int {
	return sc.Element.Element.Style.ZIndex.Order()
}

// Children returns the nested contexts of sc in paint order.
func (sc *StackingContext) Children() []*StackingContext {
	var out []*StackingContext
	out = append(out, sc.NegativeZIndex...)
	out = append(out, sc.NonPositionedFloats...)
	out = append(out, sc.NonPositionedInlineLevel...)
	out = append(out, sc.ZeroOrAutoZIndexOrTransformedOrOpacity...)
	out = append(out, sc.PositiveZIndex...)
	return out
}
