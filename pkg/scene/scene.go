// Package scene reads paint scenes: YAML documents describing an element
// tree that is already laid out, with each element's style written as CSS
// declarations.
//
//	viewport: {width: 200, height: 100}
//	background: white
//	stylesheet: ".card { border: 2px dashed navy; border-radius: 8px }"
//	root:
//	  tag: body
//	  bounds: [0, 0, 200, 100]
//	  children:
//	    - tag: div
//	      class: card
//	      bounds: [10, 10, 80, 80]
//	      style: "background-color: teal"
//	      text:
//	        - {text: Hello, bounds: [14, 14, 60, 20]}
//
// Styles cascade as in CSS: stylesheet rules by specificity, then the
// node's own style. Text and list properties are inherited from the parent.
package scene

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"screenpaint/pkg/css"
	"screenpaint/pkg/dom"
	"screenpaint/pkg/geom"
	"screenpaint/pkg/images"
	"screenpaint/pkg/render"
	"screenpaint/pkg/resource"
	"screenpaint/pkg/text"
)

// Document is a parsed scene file.
type Document struct {
	Viewport       Rect    `yaml:"viewport"`
	Scale          float64 `yaml:"scale"`
	Background     string  `yaml:"background"`
	MaxIFrameDepth int     `yaml:"max-iframe-depth"`
	Fonts          Fonts   `yaml:"fonts"`
	Stylesheet     string  `yaml:"stylesheet"`
	Root           *Node   `yaml:"root"`

	// BaseDir resolves relative image and font paths. Load sets it to the
	// directory holding the scene file.
	BaseDir string `yaml:"-"`
}

// Fonts names TrueType files replacing the bundled Go fonts.
type Fonts struct {
	Regular    string `yaml:"regular"`
	Bold       string `yaml:"bold"`
	Italic     string `yaml:"italic"`
	BoldItalic string `yaml:"bold-italic"`
	Monospace  string `yaml:"monospace"`
	MonoBold   string `yaml:"mono-bold"`
}

// Node is one element of the scene tree. At most one of Image, SVG, IFrame
// and Input may be set.
type Node struct {
	Tag      string            `yaml:"tag"`
	ID       string            `yaml:"id"`
	Class    string            `yaml:"class"`
	Attrs    map[string]string `yaml:"attrs"`
	Bounds   Rect              `yaml:"bounds"`
	Style    string            `yaml:"style"`
	Text     []Text  `yaml:"text"`
	Children []*Node `yaml:"children"`

	Image  string  `yaml:"image"`
	SVG    *SVG    `yaml:"svg"`
	IFrame *IFrame `yaml:"iframe"`
	Input  *Input  `yaml:"input"`

	List  *List `yaml:"list"`
	Value *int  `yaml:"value"`
}

// Text is a laid out run of text. Without bounds it covers the element.
type Text struct {
	Text   string `yaml:"text"`
	Bounds *Rect  `yaml:"bounds"`
}

type SVG struct {
	Src    string `yaml:"src"`
	Markup string `yaml:"markup"`
}

// IFrame is a nested document. Styles do not cascade into it; it carries
// its own stylesheet.
type IFrame struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Background string  `yaml:"background"`
	Stylesheet string  `yaml:"stylesheet"`
	Root       *Node   `yaml:"root"`
}

type Input struct {
	Type    string `yaml:"type"`
	Checked bool   `yaml:"checked"`
	Value   string `yaml:"value"`
}

// List makes the node number its list-item descendants.
type List struct {
	Start    *int `yaml:"start"`
	Reversed bool `yaml:"reversed"`
}

// Rect is written either as [x, y, width, height] or as a mapping with
// those keys.
type Rect struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Rect) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.SequenceNode:
		var v []float64
		if err := n.Decode(&v); err != nil {
			return err
		}
		if len(v) != 4 {
			return fmt.Errorf("%w: line %d: expected [x, y, width, height]", ErrInvalid, n.Line)
		}
		*r = Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
		return nil
	case yaml.MappingNode:
		type plain Rect
		var p plain
		if err := n.Decode(&p); err != nil {
			return err
		}
		*r = Rect(p)
		return nil
	}
	return fmt.Errorf("%w: line %d: expected a list or a mapping", ErrInvalid, n.Line)
}

func (r Rect) bounds() geom.Bounds {
	return geom.Rect(r.X, r.Y, r.Width, r.Height)
}

// Parse decodes a scene document. Unknown keys are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return &doc, nil
}

// Load reads and decodes the scene file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.BaseDir = filepath.Dir(path)
	return doc, nil
}

// Build converts the document into an element tree and the options to
// render it with. Without a viewport the root's border box is rendered.
func (d *Document) Build() (*dom.Element, render.Options, error) {
	if d.Root == nil {
		return nil, render.Options{}, invalid("document has no root")
	}
	root, err := buildDocument(d.Root, d.Stylesheet, "root")
	if err != nil {
		return nil, render.Options{}, err
	}

	v := d.Viewport
	if v.Width == 0 && v.Height == 0 {
		v = d.Root.Bounds
	}
	opts := render.Options{
		Viewport:       render.Viewport{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height},
		Scale:          d.Scale,
		MaxIFrameDepth: d.MaxIFrameDepth,
		Bridge:         images.NewLoader(resource.NewFetcher(d.BaseDir)),
	}
	if d.Background != "" {
		if opts.BackgroundColor, err = ParseColor(d.Background); err != nil {
			return nil, render.Options{}, fmt.Errorf("background: %w", err)
		}
	}
	if d.Fonts != (Fonts{}) {
		opts.Fonts = text.NewFaces(text.FontConfig{
			Regular:    d.path(d.Fonts.Regular),
			Bold:       d.path(d.Fonts.Bold),
			Italic:     d.path(d.Fonts.Italic),
			BoldItalic: d.path(d.Fonts.BoldItalic),
			Monospace:  d.path(d.Fonts.Monospace),
			MonoBold:   d.path(d.Fonts.MonoBold),
		})
	}
	return root, opts, nil
}

func (d *Document) path(p string) string {
	if p == "" || filepath.IsAbs(p) || d.BaseDir == "" {
		return p
	}
	return filepath.Join(d.BaseDir, p)
}

// builder converts the nodes of one document.
type builder struct {
	sheet *Stylesheet
}

// buildDocument converts root and its subtree, styled by the stylesheet
// source sheet.
func buildDocument(root *Node, sheet, where string) (*dom.Element, error) {
	var b builder
	if strings.TrimSpace(sheet) != "" {
		var err error
		if b.sheet, err = ParseStylesheet(sheet); err != nil {
			return nil, fmt.Errorf("%s: %w", where, err)
		}
	}
	return b.build(&element{node: root, siblings: []*Node{root}}, nil, where)
}

// build converts the node seen as e and its subtree; parent is the style of
// the parent element and where names the node in errors.
func (b *builder) build(e *element, parent *css.Style, where string) (*dom.Element, error) {
	n := e.node
	tag := tagOf(n)
	where = where + "/" + tag
	if n.Bounds.Width < 0 || n.Bounds.Height < 0 {
		return nil, invalid("%s: negative size", where)
	}

	el := dom.NewElement(tag, n.Bounds.bounds())
	el.Style = inheritedStyle(parent)
	decls := append(b.sheet.matching(e), parseDeclarations(n.Style)...)
	if err := applyDeclarations(el.Style, decls); err != nil {
		return nil, fmt.Errorf("%s: %w", where, err)
	}
	for _, t := range n.Text {
		bounds := el.Bounds
		if t.Bounds != nil {
			bounds = t.Bounds.bounds()
		}
		el.AddText(t.Text, bounds)
	}

	content, err := n.content(where)
	if err != nil {
		return nil, err
	}
	el.Content = content

	if n.List != nil {
		el.ListOwner = &dom.ListOwner{Start: n.List.Start, Reversed: n.List.Reversed}
	}
	el.ListValue = n.Value

	for i, c := range n.Children {
		if c == nil {
			continue
		}
		ce := &element{node: c, parent: e, siblings: n.Children, index: i}
		child, err := b.build(ce, el.Style, fmt.Sprintf("%s[%d]", where, i))
		if err != nil {
			return nil, err
		}
		el.AddChild(child)
	}
	return el, nil
}

func (n *Node) content(where string) (dom.Content, error) {
	var found []dom.Content
	if n.Image != "" {
		found = append(found, &dom.Image{Src: n.Image})
	}
	if n.SVG != nil {
		found = append(found, &dom.SVG{Src: n.SVG.Src, Markup: n.SVG.Markup})
	}
	if n.IFrame != nil {
		f, err := n.IFrame.build(where)
		if err != nil {
			return nil, err
		}
		found = append(found, f)
	}
	if n.Input != nil {
		in, err := n.Input.build(where)
		if err != nil {
			return nil, err
		}
		found = append(found, in)
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	}
	return nil, invalid("%s: more than one kind of content", where)
}

func (f *IFrame) build(where string) (*dom.IFrame, error) {
	if f.Root == nil {
		return nil, invalid("%s: iframe has no root", where)
	}
	root, err := buildDocument(f.Root, f.Stylesheet, where+"/iframe")
	if err != nil {
		return nil, err
	}
	out := &dom.IFrame{Root: root, Width: f.Width, Height: f.Height}
	if out.Width == 0 && out.Height == 0 {
		out.Width, out.Height = f.Root.Bounds.Width, f.Root.Bounds.Height
	}
	if f.Background != "" {
		if out.BackgroundColor, err = ParseColor(f.Background); err != nil {
			return nil, fmt.Errorf("%s: iframe background: %w", where, err)
		}
	}
	return out, nil
}

func (in *Input) build(where string) (*dom.Input, error) {
	t := dom.InputType(strings.ToLower(in.Type))
	switch t {
	case "":
		t = dom.InputText
	case dom.InputCheckbox, dom.InputRadio, dom.InputText, dom.InputPassword:
	default:
		return nil, invalid("%s: input type %q", where, in.Type)
	}
	return &dom.Input{Type: t, Checked: in.Checked, Value: in.Value}, nil
}
