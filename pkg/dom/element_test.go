package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"screenpaint/pkg/css"
	"screenpaint/pkg/geom"
)

func TestAddChildAndWalk(t *testing.T) {
	root := NewElement("body", geom.Rect(0, 0, 100, 100))
	a := root.AddChild(NewElement("div", geom.Rect(0, 0, 10, 10)))
	a.AddChild(NewElement("span", geom.Rect(0, 0, 5, 5)))
	root.AddChild(NewElement("p", geom.Rect(0, 20, 10, 10)))

	assert.Same(t, root, a.Parent)

	var tags []string
	root.Walk(func(e *Element) bool {
		tags = append(tags, e.Tag)
		return e.Tag != "div"
	})
	assert.Equal(t, []string{"body", "div", "p"}, tags)
}

func TestAddTextSkipsEmpty(t *testing.T) {
	e := NewElement("p", geom.Rect(0, 0, 10, 10))
	e.AddText("", geom.Rect(0, 0, 1, 1))
	e.AddText("hi", geom.Rect(0, 0, 10, 10))
	assert.Len(t, e.TextRuns, 1)
}

func TestContentVariants(t *testing.T) {
	var c Content = &Input{Type: InputCheckbox, Checked: true}
	switch c.(type) {
	case *Input:
	default:
		t.Fatalf("unexpected content %T", c)
	}

	li := NewElement("li", geom.Rect(0, 0, 1, 1))
	li.Style.Display = css.DisplayListItem
	assert.True(t, li.IsListItem())
}
