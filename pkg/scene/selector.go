package scene

import (
	"strings"
	"unicode"
)

// Combinator joins two compound selectors.
type Combinator int

const (
	DescendantCombinator      Combinator = iota // a b
	ChildCombinator                             // a > b
	AdjacentSiblingCombinator                   // a + b
	GeneralSiblingCombinator                    // a ~ b
)

var combinators = map[rune]Combinator{
	'>': ChildCombinator,
	'+': AdjacentSiblingCombinator,
	'~': GeneralSiblingCombinator,
}

// Selector is a complex selector: compound parts joined by combinators,
// Combinators[i] sitting between Parts[i] and Parts[i+1].
type Selector struct {
	Raw         string
	Parts       []SelectorPart
	Combinators []Combinator
	Specificity int
}

// SelectorPart is a compound selector such as div#main.note[lang|=en].
type SelectorPart struct {
	Element       string // "" or "*" match any tag
	ID            string
	Classes       []string
	Attributes    []AttributeSelector
	PseudoClasses []string
}

// AttributeSelector is [name], [name=value] or one of the ~= |= ^= $= *=
// forms.
type AttributeSelector struct {
	Name     string
	Operator string
	Value    string
}

// ParseSelector parses one complex selector.
func ParseSelector(raw string) (Selector, error) {
	raw = strings.TrimSpace(raw)
	sel := Selector{Raw: raw}
	var buf strings.Builder
	pending, explicit := DescendantCombinator, false
	flush := func() error {
		if buf.Len() == 0 {
			return nil
		}
		part, err := parseCompound(buf.String())
		buf.Reset()
		if err != nil {
			return err
		}
		if len(sel.Parts) > 0 {
			sel.Combinators = append(sel.Combinators, pending)
		} else if explicit {
			return invalid("selector %q starts with a combinator", raw)
		}
		sel.Parts = append(sel.Parts, part)
		pending, explicit = DescendantCombinator, false
		return nil
	}

	depth := 0
	for _, ch := range raw {
		if c, ok := combinators[ch]; ok && depth == 0 {
			if err := flush(); err != nil {
				return Selector{}, err
			}
			if explicit {
				return Selector{}, invalid("selector %q has adjacent combinators", raw)
			}
			pending, explicit = c, true
			continue
		}
		switch {
		case ch == '[' || ch == '(':
			depth++
		case ch == ']' || ch == ')':
			depth--
		case depth == 0 && unicode.IsSpace(ch):
			if err := flush(); err != nil {
				return Selector{}, err
			}
			continue
		}
		buf.WriteRune(ch)
	}
	if err := flush(); err != nil {
		return Selector{}, err
	}
	if len(sel.Parts) == 0 || explicit || depth != 0 {
		return Selector{}, invalid("selector %q", raw)
	}

	for _, p := range sel.Parts {
		sel.Specificity += p.specificity()
	}
	return sel, nil
}

// specificity weighs IDs at 100, classes, attributes and pseudo-classes at
// 10 and tag names at 1.
func (p SelectorPart) specificity() int {
	n := 10 * (len(p.Classes) + len(p.Attributes) + len(p.PseudoClasses))
	if p.ID != "" {
		n += 100
	}
	if p.Element != "" && p.Element != "*" {
		n++
	}
	return n
}

func isIdentRune(r rune) bool {
	return r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// readIdent splits s after its leading identifier.
func readIdent(s string) (ident, rest string) {
	i := strings.IndexFunc(s, func(r rune) bool { return !isIdentRune(r) })
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

func parseCompound(s string) (SelectorPart, error) {
	var part SelectorPart
	rest := s
	if strings.HasPrefix(rest, "*") {
		part.Element, rest = "*", rest[1:]
	} else {
		var name string
		name, rest = readIdent(rest)
		part.Element = strings.ToLower(name)
	}

	for rest != "" {
		var name string
		switch rest[0] {
		case '#':
			name, rest = readIdent(rest[1:])
			if name == "" || part.ID != "" {
				return SelectorPart{}, invalid("selector %q", s)
			}
			part.ID = name
		case '.':
			name, rest = readIdent(rest[1:])
			if name == "" {
				return SelectorPart{}, invalid("selector %q", s)
			}
			part.Classes = append(part.Classes, name)
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return SelectorPart{}, invalid("selector %q", s)
			}
			attr, err := parseAttributeSelector(rest[1:end])
			if err != nil {
				return SelectorPart{}, err
			}
			part.Attributes = append(part.Attributes, attr)
			rest = rest[end+1:]
		case ':':
			name, rest = readIdent(strings.TrimPrefix(rest[1:], ":"))
			if name == "" {
				return SelectorPart{}, invalid("selector %q", s)
			}
			if strings.HasPrefix(rest, "(") {
				end := strings.IndexByte(rest, ')')
				if end < 0 {
					return SelectorPart{}, invalid("selector %q", s)
				}
				name += rest[:end+1]
				rest = rest[end+1:]
			}
			part.PseudoClasses = append(part.PseudoClasses, strings.ToLower(name))
		default:
			return SelectorPart{}, invalid("selector %q", s)
		}
	}
	return part, nil
}

var attributeOperators = []string{"~=", "|=", "^=", "$=", "*=", "="}

func parseAttributeSelector(inner string) (AttributeSelector, error) {
	for _, op := range attributeOperators {
		if name, value, ok := strings.Cut(inner, op); ok {
			name = strings.TrimSpace(name)
			if name == "" || strings.ContainsAny(name, "~|^$*") {
				continue
			}
			value = strings.Trim(strings.TrimSpace(value), `"'`)
			return AttributeSelector{Name: strings.ToLower(name), Operator: op, Value: value}, nil
		}
	}
	name := strings.ToLower(strings.TrimSpace(inner))
	if name == "" {
		return AttributeSelector{}, invalid("attribute selector [%s]", inner)
	}
	return AttributeSelector{Name: name}, nil
}

// element is the view of a scene node that selectors are matched against.
type element struct {
	node     *Node
	parent   *element
	siblings []*Node // the parent's children, node included
	index    int
}

func (e *element) tag() string {
	return tagOf(e.node)
}

func tagOf(n *Node) string {
	if n.Tag == "" {
		return "div"
	}
	return strings.ToLower(n.Tag)
}

func (e *element) attr(name string) (string, bool) {
	switch name {
	case "id":
		return e.node.ID, e.node.ID != ""
	case "class":
		return e.node.Class, e.node.Class != ""
	}
	if v, ok := e.node.Attrs[name]; ok {
		return v, true
	}
	if name == "type" && e.node.Input != nil {
		return strings.ToLower(e.node.Input.Type), true
	}
	return "", false
}

// previous returns the nearest preceding sibling, or nil.
func (e *element) previous() *element {
	for i := e.index - 1; i >= 0; i-- {
		if e.siblings[i] != nil {
			return &element{node: e.siblings[i], parent: e.parent, siblings: e.siblings, index: i}
		}
	}
	return nil
}

func (e *element) isFirst() bool {
	return e.previous() == nil
}

func (e *element) isLast() bool {
	for _, n := range e.siblings[e.index+1:] {
		if n != nil {
			return false
		}
	}
	return true
}

// matches reports whether the selector matches e.
func (s Selector) matches(e *element) bool {
	if len(s.Parts) == 0 {
		return false
	}
	return s.matchFrom(e, len(s.Parts)-1)
}

// matchFrom matches Parts[i] against e and the parts left of it against the
// elements the combinators lead to.
func (s Selector) matchFrom(e *element, i int) bool {
	if !s.Parts[i].matches(e) {
		return false
	}
	if i == 0 {
		return true
	}
	switch s.Combinators[i-1] {
	case DescendantCombinator:
		for a := e.parent; a != nil; a = a.parent {
			if s.matchFrom(a, i-1) {
				return true
			}
		}
	case ChildCombinator:
		return e.parent != nil && s.matchFrom(e.parent, i-1)
	case AdjacentSiblingCombinator:
		prev := e.previous()
		return prev != nil && s.matchFrom(prev, i-1)
	case GeneralSiblingCombinator:
		for prev := e.previous(); prev != nil; prev = prev.previous() {
			if s.matchFrom(prev, i-1) {
				return true
			}
		}
	}
	return false
}

func (p SelectorPart) matches(e *element) bool {
	if p.Element != "" && p.Element != "*" && p.Element != e.tag() {
		return false
	}
	if p.ID != "" && e.node.ID != p.ID {
		return false
	}
	if len(p.Classes) > 0 {
		have := strings.Fields(e.node.Class)
		for _, want := range p.Classes {
			if !contains(have, want) {
				return false
			}
		}
	}
	for _, a := range p.Attributes {
		if !a.matches(e) {
			return false
		}
	}
	for _, pc := range p.PseudoClasses {
		switch pc {
		case "root":
			if e.parent != nil {
				return false
			}
		case "first-child":
			if !e.isFirst() {
				return false
			}
		case "last-child":
			if !e.isLast() {
				return false
			}
		case "only-child":
			if !e.isFirst() || !e.isLast() {
				return false
			}
		case "checked":
			if e.node.Input == nil || !e.node.Input.Checked {
				return false
			}
		default:
			// Dynamic and unknown pseudo-classes never match a static scene.
			return false
		}
	}
	return true
}

func (a AttributeSelector) matches(e *element) bool {
	value, ok := e.attr(a.Name)
	if !ok {
		return false
	}
	switch a.Operator {
	case "":
		return true
	case "=":
		return value == a.Value
	case "^=":
		return a.Value != "" && strings.HasPrefix(value, a.Value)
	case "$=":
		return a.Value != "" && strings.HasSuffix(value, a.Value)
	case "*=":
		return a.Value != "" && strings.Contains(value, a.Value)
	case "~=":
		return contains(strings.Fields(value), a.Value)
	case "|=":
		return value == a.Value || strings.HasPrefix(value, a.Value+"-")
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
