package fskit

import (
	"context"

	"github.com/gobwas/glob"
)

// Selector filters entries during recursive enumeration. Selectors are
// composable with And, Or and Not.
type Selector interface {
	// Match returns true if the entry should be included in results.
	Match(entry Entry) bool
}

// FindWithSelector enumerates everything under path and keeps the
// entries the selector matches.
//
//	// All non-empty JSON objects under "data"
//	entries, err := fskit.FindWithSelector(ctx, fs, "data", fskit.And(
//	    fskit.Pattern("**.json"),
//	    fskit.Func(func(e fskit.Entry) bool { return e.Size > 0 }),
//	))
func FindWithSelector(ctx context.Context, fs FileSystem, path string, selector Selector) ([]Entry, error) {
	if selector == nil {
		selector = All()
	}

	entries, err := fs.FindEntries(ctx, path, false)
	if err != nil {
		return nil, err
	}

	var results []Entry
	for _, entry := range entries {
		if selector.Match(entry) {
			results = append(results, entry)
		}
	}
	return results, nil
}

type allSelector struct{}

func (allSelector) Match(Entry) bool { return true }

// All returns a selector that matches every entry.
func All() Selector {
	return allSelector{}
}

type patternSelector struct {
	g glob.Glob
}

// Pattern creates a selector matching full entry names against a glob
// pattern ("*" within a segment, "**" across segments, "?", "[a-z]").
// An invalid pattern matches nothing.
func Pattern(pattern string) Selector {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return Func(func(Entry) bool { return false })
	}
	return &patternSelector{g: g}
}

func (s *patternSelector) Match(entry Entry) bool {
	return s.g.Match(entry.Name)
}

type funcSelector struct {
	fn func(Entry) bool
}

// Func creates a selector from a custom function. This is the escape
// hatch for any filtering logic not covered by the built-ins.
func Func(fn func(Entry) bool) Selector {
	return &funcSelector{fn: fn}
}

func (s *funcSelector) Match(entry Entry) bool { return s.fn(entry) }

type andSelector struct {
	selectors []Selector
}

// And matches only if ALL selectors match.
func And(selectors ...Selector) Selector {
	return &andSelector{selectors: selectors}
}

func (s *andSelector) Match(entry Entry) bool {
	for _, sel := range s.selectors {
		if !sel.Match(entry) {
			return false
		}
	}
	return true
}

type orSelector struct {
	selectors []Selector
}

// Or matches if ANY selector matches.
func Or(selectors ...Selector) Selector {
	return &orSelector{selectors: selectors}
}

func (s *orSelector) Match(entry Entry) bool {
	for _, sel := range s.selectors {
		if sel.Match(entry) {
			return true
		}
	}
	return false
}

type notSelector struct {
	selector Selector
}

// Not inverts a selector's match result.
func Not(selector Selector) Selector {
	return &notSelector{selector: selector}
}

func (s *notSelector) Match(entry Entry) bool {
	return !s.selector.Match(entry)
}
