package stacking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenpaint/pkg/css"
	"screenpaint/pkg/dom"
	"screenpaint/pkg/geom"
)

func el(tag string, opts ...func(*css.Style)) *dom.Element {
	e := dom.NewElement(tag, geom.Rect(0, 0, 100, 100))
	for _, o := range opts {
		o(e.Style)
	}
	return e
}

func positioned(z int) func(*css.Style) {
	return func(s *css.Style) {
		s.Position = css.PositionRelative
		s.ZIndex = css.ZIndex{Value: z}
	}
}

func withPosition(p css.PositionType) func(*css.Style) {
	return func(s *css.Style) { s.Position = p }
}

func floating(s *css.Style) { s.Float = css.FloatLeft }
func inline(s *css.Style)   { s.Display = css.DisplayInline }
func opacity(v float64) func(*css.Style) {
	return func(s *css.Style) { s.Opacity = v }
}

// occurrences counts how often every element appears across all buckets.
func occurrences(sc *StackingContext, seen map[*dom.Element]int) {
	for _, p := range sc.NonInlineLevel {
		seen[p.Element]++
	}
	for _, p := range sc.InlineLevel {
		seen[p.Element]++
	}
	for _, c := range sc.Children() {
		seen[c.Element.Element]++
		occurrences(c, seen)
	}
}

func tags(list []*StackingContext) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Element.Element.Tag
	}
	return out
}

func paintTags(list []*ElementPaint) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.Element.Tag
	}
	return out
}

func TestBuildPartitionIsTotalAndDisjoint(t *testing.T) {
	root := el("root")
	a := root.AddChild(el("a"))
	a.AddChild(el("a1", inline))
	a.AddChild(el("a2", positioned(3)))
	b := root.AddChild(el("b", floating))
	b.AddChild(el("b1", withPosition(css.PositionAbsolute)))
	b.AddChild(el("b2"))
	c := root.AddChild(el("c", opacity(0.5)))
	c.AddChild(el("c1", positioned(-1)))
	root.AddChild(el("d", positioned(-2)))
	root.AddChild(el("e", inline))
	root.AddChild(el("hidden", func(s *css.Style) { s.Display = css.DisplayNone }))

	sc := Build(root)
	seen := map[*dom.Element]int{}
	occurrences(sc, seen)

	count := 0
	root.Walk(func(e *dom.Element) bool {
		if e == root {
			return true
		}
		if e.Style.Display == css.DisplayNone {
			assert.Zero(t, seen[e])
			return false
		}
		count++
		assert.Equal(t, 1, seen[e], "element %s", e.Tag)
		return true
	})
	assert.Len(t, seen, count)
}

func TestBuildBuckets(t *testing.T) {
	root := el("root")
	root.AddChild(el("block"))
	root.AddChild(el("text", inline))
	root.AddChild(el("float", floating))
	root.AddChild(el("rel", withPosition(css.PositionRelative)))
	root.AddChild(el("neg", positioned(-5)))
	root.AddChild(el("pos", positioned(2)))
	root.AddChild(el("fade", opacity(0.3)))
	root.AddChild(el("turn", func(s *css.Style) { s.Transform = css.Transform{css.Rotate(10)} }))
	ib := root.AddChild(el("ib", func(s *css.Style) {
		s.Display = css.DisplayInlineBlock
		s.Float = css.FloatNone
	}))
	ib.AddChild(el("ib-child"))

	sc := Build(root)
	assert.Equal(t, []string{"block"}, paintTags(sc.NonInlineLevel))
	assert.Equal(t, []string{"text"}, paintTags(sc.InlineLevel))
	assert.Equal(t, []string{"float"}, tags(sc.NonPositionedFloats))
	assert.Equal(t, []string{"ib"}, tags(sc.NonPositionedInlineLevel))
	assert.Equal(t, []string{"rel", "fade", "turn"}, tags(sc.ZeroOrAutoZIndexOrTransformedOrOpacity))
	assert.Equal(t, []string{"neg"}, tags(sc.NegativeZIndex))
	assert.Equal(t, []string{"pos"}, tags(sc.PositiveZIndex))
}

func TestAtomicInlinesPaintTheirOwnDescendants(t *testing.T) {
	for _, d := range []css.DisplayType{css.DisplayInlineBlock, css.DisplayInlineFlex, css.DisplayInlineTable} {
		t.Run(string(d), func(t *testing.T) {
			root := el("root")
			ib := root.AddChild(el("ib", func(s *css.Style) { s.Display = d }))
			ib.AddChild(el("block"))
			ib.AddChild(el("text", inline))
			ib.AddChild(el("abs", withPosition(css.PositionAbsolute)))

			sc := Build(root)
			assert.Empty(t, sc.NonInlineLevel)
			assert.Empty(t, sc.InlineLevel)
			require.Len(t, sc.NonPositionedInlineLevel, 1)

			inner := sc.NonPositionedInlineLevel[0]
			assert.Equal(t, "ib", inner.Element.Element.Tag)
			assert.Equal(t, []string{"block"}, paintTags(inner.NonInlineLevel))
			assert.Equal(t, []string{"text"}, paintTags(inner.InlineLevel))
			assert.Equal(t, []string{"abs"}, tags(sc.ZeroOrAutoZIndexOrTransformedOrOpacity))
		})
	}
}

func TestBuildZIndexOrderIsStable(t *testing.T) {
	root := el("root")
	root.AddChild(el("p3a", positioned(3)))
	root.AddChild(el("p1a", positioned(1)))
	root.AddChild(el("p3b", positioned(3)))
	root.AddChild(el("p1b", positioned(1)))
	root.AddChild(el("n1", positioned(-1)))
	root.AddChild(el("n9", positioned(-9)))
	root.AddChild(el("n1b", positioned(-1)))

	sc := Build(root)
	assert.Equal(t, []string{"p1a", "p1b", "p3a", "p3b"}, tags(sc.PositiveZIndex))
	assert.Equal(t, []string{"n9", "n1", "n1b"}, tags(sc.NegativeZIndex))
}

func TestPositionedDescendantsEscapeAtomicContexts(t *testing.T) {
	root := el("root")
	f := root.AddChild(el("float", floating))
	f.AddChild(el("abs", withPosition(css.PositionAbsolute)))
	f.AddChild(el("inner-float", floating))
	f.AddChild(el("z", positioned(4)))

	sc := Build(root)
	require.Len(t, sc.NonPositionedFloats, 1)
	fc := sc.NonPositionedFloats[0]
	assert.Equal(t, []string{"inner-float"}, tags(fc.NonPositionedFloats))
	assert.Equal(t, []string{"abs"}, tags(sc.ZeroOrAutoZIndexOrTransformedOrOpacity))
	assert.Equal(t, []string{"z"}, tags(sc.PositiveZIndex))
}

func TestRealContextKeepsPositionedDescendants(t *testing.T) {
	root := el("root")
	ctx := root.AddChild(el("ctx", positioned(1)))
	ctx.AddChild(el("abs", withPosition(css.PositionAbsolute)))
	ctx.AddChild(el("neg", positioned(-1)))

	sc := Build(root)
	require.Len(t, sc.PositiveZIndex, 1)
	inner := sc.PositiveZIndex[0]
	assert.Equal(t, []string{"abs"}, tags(inner.ZeroOrAutoZIndexOrTransformedOrOpacity))
	assert.Equal(t, []string{"neg"}, tags(inner.NegativeZIndex))
	assert.Empty(t, sc.NegativeZIndex)
}

func TestPlainDescendantsFlattenIntoContext(t *testing.T) {
	root := el("root")
	a := root.AddChild(el("a"))
	b := a.AddChild(el("b"))
	b.AddChild(el("c", inline))

	sc := Build(root)
	assert.Equal(t, []string{"a", "b"}, paintTags(sc.NonInlineLevel))
	assert.Equal(t, []string{"c"}, paintTags(sc.InlineLevel))
}
