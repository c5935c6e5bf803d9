package testing

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/compose/pkg/toolkit"
)

// Finder locates components in a composed tree.
type Finder interface {
	// Evaluate returns all matching components under root, root included,
	// in depth-first pre-order.
	Evaluate(root toolkit.Component) []toolkit.Component
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	components []toolkit.Component
	finder     Finder
}

// Find evaluates f under root.
func Find(root toolkit.Component, f Finder) FinderResult {
	return FinderResult{components: f.Evaluate(root), finder: f}
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() toolkit.Component {
	if len(r.components) == 0 {
		panic(fmt.Sprintf("Finder found no components: %s", r.description()))
	}
	return r.components[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() toolkit.Component {
	if len(r.components) == 0 {
		return nil
	}
	return r.components[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) toolkit.Component {
	if index < 0 || index >= len(r.components) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.components), r.description()))
	}
	return r.components[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []toolkit.Component { return r.components }

// Count returns the number of matches.
func (r FinderResult) Count() int { return len(r.components) }

// Exists reports whether at least one match was found.
func (r FinderResult) Exists() bool { return len(r.components) > 0 }

// Property reads prop from the first match. Panics if no matches.
func (r FinderResult) Property(prop string) (any, bool) {
	g, ok := r.First().(toolkit.PropertyGetter)
	if !ok {
		return nil, false
	}
	return g.Property(prop)
}

type predicateFinder struct {
	match func(toolkit.Component) bool
	desc  string
}

func (f *predicateFinder) Evaluate(root toolkit.Component) []toolkit.Component {
	return collectMatches(root, f.match)
}

func (f *predicateFinder) Description() string { return f.desc }

// ByName matches components registered under name.
func ByName(name string) Finder {
	return &predicateFinder{
		match: func(c toolkit.Component) bool { return c.ObjectName() == name },
		desc:  fmt.Sprintf("ByName(%q)", name),
	}
}

// ByType matches components of dynamic type T.
func ByType[T toolkit.Component]() Finder {
	t := reflect.TypeFor[T]()
	return &predicateFinder{
		match: func(c toolkit.Component) bool { return reflect.TypeOf(c) == t },
		desc:  fmt.Sprintf("ByType(%s)", t),
	}
}

// ByText matches components whose "text" property equals text.
func ByText(text string) Finder {
	return &predicateFinder{
		match: func(c toolkit.Component) bool {
			s, ok := textOf(c)
			return ok && s == text
		},
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining matches components whose "text" property contains substr.
func ByTextContaining(substr string) Finder {
	return &predicateFinder{
		match: func(c toolkit.Component) bool {
			s, ok := textOf(c)
			return ok && strings.Contains(s, substr)
		},
		desc: fmt.Sprintf("ByTextContaining(%q)", substr),
	}
}

// ByPredicate matches components for which fn returns true.
func ByPredicate(fn func(toolkit.Component) bool) Finder {
	return &predicateFinder{match: fn, desc: "ByPredicate(custom)"}
}

type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root toolkit.Component) []toolkit.Component {
	var out []toolkit.Component
	seen := map[toolkit.Component]bool{}
	for _, anc := range f.of.Evaluate(root) {
		for _, c := range childrenOf(anc) {
			for _, m := range f.matching.Evaluate(c) {
				if !seen[m] {
					seen[m] = true
					out = append(out, m)
				}
			}
		}
	}
	return out
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant matches components found by matching strictly below a component
// found by of.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

func textOf(c toolkit.Component) (string, bool) {
	g, ok := c.(toolkit.PropertyGetter)
	if !ok {
		return "", false
	}
	v, ok := g.Property("text")
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// childrenOf returns the components nested in c. Composed instances and
// layout containers both report them through Children.
func childrenOf(c toolkit.Component) []toolkit.Component {
	if l, ok := c.(toolkit.Layout); ok {
		return l.Children()
	}
	return nil
}

func collectMatches(root toolkit.Component, match func(toolkit.Component) bool) []toolkit.Component {
	var out []toolkit.Component
	var walk func(c toolkit.Component)
	walk = func(c toolkit.Component) {
		if c == nil {
			return
		}
		if match(c) {
			out = append(out, c)
		}
		for _, child := range childrenOf(c) {
			walk(child)
		}
	}
	walk(root)
	return out
}
