// Package dom is the element tree the paint pipeline reads: every node
// carries its resolved style, its border box and what kind of content it
// holds. The pipeline never mutates it.
package dom

import (
	"image"

	"screenpaint/pkg/css"
	"screenpaint/pkg/geom"
)

type Element struct {
	Tag      string
	Style    *css.Style
	Bounds   geom.Bounds // border box, in document coordinates
	TextRuns []TextRun
	Children []*Element
	Parent   *Element

	// Content is nil for plain boxes.
	Content Content

	// ListOwner is set on ol/ul style elements whose list-item children
	// are numbered. ListValue overrides the number of a single item.
	ListOwner *ListOwner
	ListValue *int
}

// TextRun is one already laid out line fragment of text.
type TextRun struct {
	Text   string
	Bounds geom.Bounds
}

// ListOwner configures the numbering of an ordered list.
type ListOwner struct {
	Start    *int
	Reversed bool
}

// NewElement returns an element with initial style values.
func NewElement(tag string, bounds geom.Bounds) *Element {
	return &Element{Tag: tag, Style: css.NewStyle(), Bounds: bounds}
}

// AddChild adds a child element and sets up the parent relationship
func (e *Element) AddChild(child *Element) *Element {
	child.Parent = e
	e.Children = append(e.Children, child)
	return child
}

// AddText appends a text run.
func (e *Element) AddText(text string, bounds geom.Bounds) {
	if text == "" {
		return
	}
	e.TextRuns = append(e.TextRuns, TextRun{Text: text, Bounds: bounds})
}

// IsListItem reports whether the element displays as a list item.
func (e *Element) IsListItem() bool {
	return e.Style.Display == css.DisplayListItem
}

// Walk visits e and its descendants depth first. Returning false from fn
// skips the element's children.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Content is the closed set of element kinds with their own content.
type Content interface {
	isContent()
}

// Image is a replaced image element.
type Image struct {
	Src string
}

// Canvas is a replaced element with an already rendered bitmap.
type Canvas struct {
	Bitmap image.Image
}

// SVG is an inline or referenced SVG document. Markup wins over Src.
type SVG struct {
	Src    string
	Markup string
}

// IFrame is a nested document painted into the element's content box.
type IFrame struct {
	Root            *Element
	Width           float64
	Height          float64
	BackgroundColor css.Color
}

type InputType string

const (
	InputCheckbox InputType = "checkbox"
	InputRadio    InputType = "radio"
	InputText     InputType = "text"
	InputPassword InputType = "password"
)

// Input is a form control.
type Input struct {
	Type    InputType
	Checked bool
	Value   string
}

func (*Image) isContent()  {}
func (*Canvas) isContent() {}
func (*SVG) isContent()    {}
func (*IFrame) isContent() {}
func (*Input) isContent()  {}
