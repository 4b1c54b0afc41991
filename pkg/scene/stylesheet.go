package scene

import (
	"sort"
	"strings"

	douceur "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/tdewolff/parse/v2"
	csslex "github.com/tdewolff/parse/v2/css"
)

// Rule is one selector with its declaration block. A rule written with a
// selector list becomes one Rule per selector.
type Rule struct {
	Selector     Selector
	Declarations []Declaration
}

// Stylesheet is a parsed list of style rules in source order.
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses rules of the form "selector, selector { decls }".
// Comments are skipped. At-rules are logged and ignored.
func ParseStylesheet(src string) (*Stylesheet, error) {
	parsed, err := parser.Parse(stripComments(src))
	if err != nil {
		return nil, invalid("stylesheet: %v", err)
	}
	sheet := &Stylesheet{}
	for _, r := range parsed.Rules {
		if r.Kind == douceur.AtRule {
			Logger().Warn("ignored at-rule", "rule", r.Name)
			continue
		}
		decls := make([]Declaration, 0, len(r.Declarations))
		for _, d := range r.Declarations {
			decls = append(decls, Declaration{
				Property:  strings.ToLower(d.Property),
				Value:     d.Value,
				Important: d.Important,
			})
		}
		for _, raw := range r.Selectors {
			if raw == "" {
				return nil, invalid("stylesheet: empty selector in %q", r.Prelude)
			}
			sel, err := ParseSelector(raw)
			if err != nil {
				return nil, err
			}
			sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Declarations: decls})
		}
	}
	return sheet, nil
}

// stripComments removes /* ... */ comments. An unterminated comment runs to
// the end of the input.
func stripComments(src string) string {
	var b strings.Builder
	l := csslex.NewLexer(parse.NewInputString(src))
	for {
		tt, data := l.Next()
		switch tt {
		case csslex.ErrorToken:
			return b.String()
		case csslex.CommentToken:
			continue
		}
		b.Write(data)
	}
}

// matching returns the declarations of the rules matching e in cascade
// order: ascending specificity, source order breaking ties.
func (s *Stylesheet) matching(e *element) []Declaration {
	if s == nil {
		return nil
	}
	var rules []Rule
	for _, r := range s.Rules {
		if r.Selector.matches(e) {
			rules = append(rules, r)
		}
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Selector.Specificity < rules[j].Selector.Specificity
	})
	var decls []Declaration
	for _, r := range rules {
		decls = append(decls, r.Declarations...)
	}
	return decls
}
