package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenpaint/pkg/css"
	"screenpaint/pkg/dom"
)

func TestParseStylesheet(t *testing.T) {
	sheet, err := ParseStylesheet(`
		/* header */
		h1, .title { color: red; }
		@media print { p { color: black } }
		div > p { margin: 0 } /* trailing`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 3)

	assert.Equal(t, "h1", sheet.Rules[0].Selector.Raw)
	assert.Equal(t, ".title", sheet.Rules[1].Selector.Raw)
	assert.Equal(t, []Declaration{{Property: "color", Value: "red"}}, sheet.Rules[0].Declarations)
	assert.Equal(t, sheet.Rules[0].Declarations, sheet.Rules[1].Declarations)
	assert.Equal(t, "div > p", sheet.Rules[2].Selector.Raw)
	assert.Equal(t, []Declaration{{Property: "margin", Value: "0"}}, sheet.Rules[2].Declarations)
}

func TestParseStylesheetDeclarations(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []Declaration
	}{
		{"property case", "p { COLOR: red }", []Declaration{{Property: "color", Value: "red"}}},
		{"important", "p { color: red !important; margin: 0 }", []Declaration{
			{Property: "color", Value: "red", Important: true},
			{Property: "margin", Value: "0"},
		}},
		{"semicolon inside url", "p { background-image: url(data:image/png;base64,AAAA) }", []Declaration{
			{Property: "background-image", Value: "url(data:image/png;base64,AAAA)"},
		}},
		{"comment inside value", "p { border: 1px /* width */ solid }", []Declaration{
			{Property: "border", Value: "1px  solid"},
		}},
		{"unterminated block", "p { color: red;", []Declaration{{Property: "color", Value: "red"}}},
		{"empty block", "p {}", []Declaration{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet, err := ParseStylesheet(tt.src)
			require.NoError(t, err)
			require.Len(t, sheet.Rules, 1)
			assert.Equal(t, tt.expected, sheet.Rules[0].Declarations)
		})
	}
}

func TestStripComments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"between rules", "body { color: red; } /* comment */ p { color: blue; }", "body { color: red; }  p { color: blue; }"},
		{"inside declaration block", "body { /* comment */ color: red; }", "body {  color: red; }"},
		{"inside selector", "body /* comment */ { color: red; }", "body  { color: red; }"},
		{"unterminated", "body { color: red; } /* unterminated", "body { color: red; } "},
		{"nested-looking ends at first close", "/* outer /* inner */ still-outside */", " still-outside */"},
		{"rule-like content", "/* body { color: red; } */", ""},
		{"several", "/* c1 */ body { color: red; } /* c2 */ p { color: blue; }", " body { color: red; }  p { color: blue; }"},
		{"empty comment", "/**/", ""},
		{"stars", "/*** comment ***/", ""},
		{"none", "body { color: red; }", "body { color: red; }"},
		{"empty input", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripComments(tt.input))
		})
	}
}

func TestParseStylesheetErrors(t *testing.T) {
	for _, src := range []string{
		"p { color: red } }",
		"p { nonsense; }",
		"p, { color: red }",
		"{ color: red }",
		"p >> a { color: red }",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := ParseStylesheet(src)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParseSelector(t *testing.T) {
	sel, err := ParseSelector(`ul#menu.nav.main > li:first-child + a[href^="http"] ~ *`)
	require.NoError(t, err)
	require.Len(t, sel.Parts, 4)
	assert.Equal(t, []Combinator{ChildCombinator, AdjacentSiblingCombinator, GeneralSiblingCombinator}, sel.Combinators)

	assert.Equal(t, SelectorPart{Element: "ul", ID: "menu", Classes: []string{"nav", "main"}}, sel.Parts[0])
	assert.Equal(t, SelectorPart{Element: "li", PseudoClasses: []string{"first-child"}}, sel.Parts[1])
	assert.Equal(t, SelectorPart{
		Element:    "a",
		Attributes: []AttributeSelector{{Name: "href", Operator: "^=", Value: "http"}},
	}, sel.Parts[2])
	assert.Equal(t, SelectorPart{Element: "*"}, sel.Parts[3])
}

func TestSelectorSpecificity(t *testing.T) {
	tests := []struct {
		selector string
		want     int
	}{
		{"*", 0},
		{"div", 1},
		{"div p", 2},
		{".a", 10},
		{"div.a.b", 21},
		{"[type=checkbox]", 10},
		{"li:last-child", 11},
		{"#x", 100},
		{"#x div.a > p", 112},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			sel, err := ParseSelector(tt.selector)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.Specificity)
		})
	}
}

func TestParseSelectorErrors(t *testing.T) {
	for _, raw := range []string{"", "> p", "p >", "a + > b", "div#", "p.", "a[href", "a[]", "#a#b", "p:", "p!"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseSelector(raw)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

// tree builds the element views of a small document:
//
//	body
//	  div#main.box.wide [lang=en-US data-tags="a b"]
//	    p.first
//	    input[type=checkbox] (checked)
//	    p.last
//	  span
func tree() map[string]*element {
	p1 := &Node{Tag: "p", Class: "first"}
	in := &Node{Tag: "input", Input: &Input{Type: "Checkbox", Checked: true}}
	p2 := &Node{Tag: "p", Class: "last"}
	main := &Node{
		ID:       "main",
		Class:    "box wide",
		Attrs:    map[string]string{"lang": "en-US", "data-tags": "a b"},
		Children: []*Node{p1, in, p2},
	}
	span := &Node{Tag: "span"}
	body := &Node{Tag: "body", Children: []*Node{main, span}}

	b := &element{node: body, siblings: []*Node{body}}
	d := &element{node: main, parent: b, siblings: body.Children, index: 0}
	return map[string]*element{
		"body":  b,
		"div":   d,
		"span":  &element{node: span, parent: b, siblings: body.Children, index: 1},
		"p1":    &element{node: p1, parent: d, siblings: main.Children, index: 0},
		"input": &element{node: in, parent: d, siblings: main.Children, index: 1},
		"p2":    &element{node: p2, parent: d, siblings: main.Children, index: 2},
	}
}

func TestSelectorMatches(t *testing.T) {
	tests := []struct {
		selector string
		matches  []string
	}{
		{"*", []string{"body", "div", "span", "p1", "input", "p2"}},
		{"p", []string{"p1", "p2"}},
		{"DIV", []string{"div"}},
		{"#main", []string{"div"}},
		{".box.wide", []string{"div"}},
		{".box.narrow", nil},
		{"body p", []string{"p1", "p2"}},
		{"body > p", nil},
		{"div > p", []string{"p1", "p2"}},
		{"p + input", []string{"input"}},
		{"p + p", nil},
		{"p ~ p", []string{"p2"}},
		{"div ~ span", []string{"span"}},
		{"[lang]", []string{"div"}},
		{"[lang=en]", nil},
		{"[lang|=en]", []string{"div"}},
		{"[lang^=en]", []string{"div"}},
		{"[lang$=US]", []string{"div"}},
		{"[lang*=n-U]", []string{"div"}},
		{"[data-tags~=b]", []string{"div"}},
		{"[class~=wide]", []string{"div"}},
		{"[id=main] .last", []string{"p2"}},
		{"input[type=checkbox]", []string{"input"}},
		{":root", []string{"body"}},
		{"p:first-child", []string{"p1"}},
		{"p:last-child", []string{"p2"}},
		{":only-child", []string{"body"}},
		{":checked", []string{"input"}},
		{"p:hover", nil},
	}
	elems := tree()
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			sel, err := ParseSelector(tt.selector)
			require.NoError(t, err)
			var got []string
			for _, name := range []string{"body", "div", "span", "p1", "input", "p2"} {
				if sel.matches(elems[name]) {
					got = append(got, name)
				}
			}
			assert.Equal(t, tt.matches, got)
		})
	}
}

func TestStylesheetMatchingOrder(t *testing.T) {
	sheet, err := ParseStylesheet(`
		#main p { color: red }
		p { color: green }
		.first { color: blue }
		p { color: yellow }
		span { color: gray }`)
	require.NoError(t, err)

	elems := tree()
	values := func(decls []Declaration) []string {
		var out []string
		for _, d := range decls {
			out = append(out, d.Value)
		}
		return out
	}
	assert.Equal(t, []string{"green", "yellow", "blue", "red"}, values(sheet.matching(elems["p1"])))
	assert.Equal(t, []string{"green", "yellow", "red"}, values(sheet.matching(elems["p2"])))
	assert.Empty(t, sheet.matching(elems["body"]))

	var none *Stylesheet
	assert.Nil(t, none.matching(elems["p1"]))
}

func buildScene(t *testing.T, src string) *dom.Element {
	t.Helper()
	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	root, _, err := doc.Build()
	require.NoError(t, err)
	return root
}

func TestBuildCascade(t *testing.T) {
	root := buildScene(t, `
viewport: {width: 100, height: 100}
stylesheet: |
  #special { background-color: red }
  .note { background-color: blue; border: 1px solid black }
  div { background-color: green; padding: 3px }
root:
  tag: body
  bounds: [0, 0, 100, 100]
  children:
    - {bounds: [0, 0, 10, 10]}
    - {class: note, bounds: [0, 10, 10, 10]}
    - {id: special, class: note, bounds: [0, 20, 10, 10]}
    - {class: note, style: "background-color: lime", bounds: [0, 30, 10, 10]}
`)
	require.Len(t, root.Children, 4)
	green, blue, red, lime := root.Children[0], root.Children[1], root.Children[2], root.Children[3]

	assert.Equal(t, css.RGB(0, 128, 0), green.Style.BackgroundColor)
	assert.Equal(t, css.RGB(0, 0, 255), blue.Style.BackgroundColor)
	assert.Equal(t, css.RGB(255, 0, 0), red.Style.BackgroundColor)
	assert.Equal(t, css.RGB(0, 255, 0), lime.Style.BackgroundColor)

	// Lower-specificity rules still contribute properties the others leave alone.
	assert.Equal(t, 3.0, red.Style.Padding.Top)
	assert.Equal(t, css.BorderStyleSolid, red.Style.Border(css.SideTop).Style)
	assert.Equal(t, 1.0, red.Style.Border(css.SideTop).Width)
	assert.False(t, green.Style.Border(css.SideTop).Style.Visible())
}

func TestBuildInheritance(t *testing.T) {
	root := buildScene(t, `
viewport: {width: 100, height: 100}
stylesheet: "section { font-size: 50% }"
root:
  tag: body
  bounds: [0, 0, 100, 100]
  style: "color: navy; font-size: 20px; background-color: silver; list-style-type: square"
  children:
    - tag: section
      bounds: [0, 0, 100, 50]
      children:
        - tag: p
          bounds: [0, 0, 100, 20]
          style: "font-size: 150%"
    - tag: p
      bounds: [0, 50, 100, 50]
      style: "color: red"
`)
	section := root.Children[0]
	assert.Equal(t, css.RGB(0, 0, 128), section.Style.Color)
	assert.Equal(t, 10.0, section.Style.FontSize)
	assert.Equal(t, css.ListStyleSquare, section.Style.ListStyleType)
	assert.Equal(t, css.Transparent, section.Style.BackgroundColor, "background is not inherited")

	p := section.Children[0]
	assert.Equal(t, 15.0, p.Style.FontSize)
	assert.Equal(t, css.RGB(0, 0, 128), p.Style.Color)

	sibling := root.Children[1]
	assert.Equal(t, 20.0, sibling.Style.FontSize)
	assert.Equal(t, css.RGB(255, 0, 0), sibling.Style.Color)
	assert.Equal(t, css.RGB(0, 0, 128), root.Style.Color, "a child does not change its parent")
}

func TestBuildImportantOverridesInlineStyle(t *testing.T) {
	root := buildScene(t, `
viewport: {width: 100, height: 100}
stylesheet: |
  .keep { background-color: red !important }
  div { background-color: green }
root:
  tag: body
  bounds: [0, 0, 100, 100]
  children:
    - {class: keep, style: "background-color: blue", bounds: [0, 0, 10, 10]}
    - {style: "background-color: blue", bounds: [0, 10, 10, 10]}
    - {class: keep, style: "background-color: lime !important", bounds: [0, 20, 10, 10]}
`)
	require.Len(t, root.Children, 3)
	assert.Equal(t, css.RGB(255, 0, 0), root.Children[0].Style.BackgroundColor)
	assert.Equal(t, css.RGB(0, 0, 255), root.Children[1].Style.BackgroundColor)
	assert.Equal(t, css.RGB(0, 255, 0), root.Children[2].Style.BackgroundColor)
}
