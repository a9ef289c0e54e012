package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/scriptable"
)

// Finder locates elements in a view's element tree.
type Finder interface {
	// Evaluate returns all matching elements under root, depth-first
	// pre-order.
	Evaluate(root *element.Elements) []element.Element
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	elements []element.Element
	finder   Finder
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() element.Element {
	if len(r.elements) == 0 {
		panic(fmt.Sprintf("Finder found no elements: %s", r.describe()))
	}
	return r.elements[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() element.Element {
	if len(r.elements) == 0 {
		return nil
	}
	return r.elements[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) element.Element {
	if index < 0 || index >= len(r.elements) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.elements), r.describe()))
	}
	return r.elements[index]
}

func (r FinderResult) All() []element.Element { return r.elements }
func (r FinderResult) Count() int             { return len(r.elements) }
func (r FinderResult) Exists() bool           { return len(r.elements) > 0 }

type predicateFinder struct {
	desc  string
	match func(element.Element) bool
}

func (f *predicateFinder) Evaluate(root *element.Elements) []element.Element {
	return collectMatches(root, f.match)
}

func (f *predicateFinder) Description() string { return f.desc }

// ByTag matches elements of one kind, such as "button".
func ByTag(tag string) Finder {
	return &predicateFinder{
		desc:  fmt.Sprintf("ByTag(%q)", tag),
		match: func(e element.Element) bool { return e.Tag() == tag },
	}
}

// ByName matches elements by their name attribute.
func ByName(name string) Finder {
	return &predicateFinder{
		desc:  fmt.Sprintf("ByName(%q)", name),
		match: func(e element.Element) bool { return e.Base().Name() == name },
	}
}

// ByType matches elements whose concrete type is T.
func ByType[T element.Element]() Finder {
	var zero T
	return &predicateFinder{
		desc: fmt.Sprintf("ByType[%T]", zero),
		match: func(e element.Element) bool {
			_, ok := e.(T)
			return ok
		},
	}
}

// textProperties are the script properties that hold an element's
// visible text, in lookup order.
var textProperties = []string{"text", "caption", "value"}

// TextOf returns the visible text of e, or false if it has none.
func TextOf(e element.Element) (string, bool) {
	for _, name := range textProperties {
		v, ok := scriptable.Get(e, name)
		if !ok {
			continue
		}
		if s, ok := v.ToString(); ok {
			return s, true
		}
	}
	return "", false
}

// ByText matches elements whose text, caption or value equals text.
func ByText(text string) Finder {
	return &predicateFinder{
		desc: fmt.Sprintf("ByText(%q)", text),
		match: func(e element.Element) bool {
			s, ok := TextOf(e)
			return ok && s == text
		},
	}
}

// ByTextContaining matches elements whose text contains substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
		match: func(e element.Element) bool {
			s, ok := TextOf(e)
			return ok && strings.Contains(s, substring)
		},
	}
}

// ByPredicate matches elements for which fn returns true.
func ByPredicate(fn func(element.Element) bool) Finder {
	return &predicateFinder{desc: "ByPredicate(<func>)", match: fn}
}

type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *element.Elements) []element.Element {
	var results []element.Element
	seen := make(map[element.Element]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		children := ancestor.Base().Children()
		if children == nil {
			continue
		}
		for _, match := range f.matching.Evaluate(children) {
			if !seen[match] {
				seen[match] = true
				results = append(results, match)
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant matches elements satisfying matching that are inside an
// element matching of.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(root *element.Elements) []element.Element {
	descendants := f.of.Evaluate(root)
	if len(descendants) == 0 {
		return nil
	}
	var results []element.Element
	for _, candidate := range f.matching.Evaluate(root) {
		for _, d := range descendants {
			if isAncestorOf(candidate, d) {
				results = append(results, candidate)
				break
			}
		}
	}
	return results
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor matches elements satisfying matching that contain an element
// matching of.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

func isAncestorOf(ancestor, descendant element.Element) bool {
	for p := descendant.Base().Parent(); p != nil; p = p.Base().Parent() {
		if p == ancestor {
			return true
		}
	}
	return false
}

// collectMatches performs a depth-first pre-order traversal, collecting
// elements that satisfy the predicate.
func collectMatches(root *element.Elements, predicate func(element.Element) bool) []element.Element {
	var results []element.Element
	walkTree(root, func(e element.Element) {
		if predicate(e) {
			results = append(results, e)
		}
	})
	return results
}

func walkTree(es *element.Elements, visit func(element.Element)) {
	if es == nil {
		return
	}
	es.Each(func(e element.Element) bool {
		visit(e)
		walkTree(e.Base().Children(), visit)
		return true
	})
}
