// Package introspect implements the post-layout index described in §3.4
// and §4.6: an immutable view over a prior layout's frames that answers
// query/position/page/page_numbering/pages, used both by user-facing
// queries (counters, cross-references) and by the driver's fixed-point
// convergence check (§4.2).
package introspect

import (
	"sort"

	"github.com/mkallio/typeset/foundations"
	"github.com/mkallio/typeset/frame"
)

// Entry records one indexed element-marker meta item.
type Entry struct {
	Location foundations.Location
	Content  foundations.Content
	Page     int
	Pos      foundations.Point
	DocIndex int // position in document traversal order, for And/Or/Before/After
}

// Introspector is immutable once built; a new one is constructed for
// every iteration of the layout driver's fixed-point loop (§4.2).
type Introspector struct {
	entries   []Entry
	byLoc     map[foundations.Location]*Entry
	pageCount int
	numbering map[int]foundations.Value // page -> user-set numbering value

	cache map[string][]Entry // memoized selector-hash -> result, §4.6
}

// Empty returns an introspector with no indexed elements, used before the
// first layout pass.
func Empty() *Introspector {
	return &Introspector{byLoc: map[foundations.Location]*Entry{}, cache: map[string][]Entry{}}
}

// Build walks every page frame and indexes each element-marker meta item,
// recording its absolute page-relative position after composing parent
// group transforms (§4.6). contents supplies the realized element each
// marker references, keyed by the location the realizer assigned it, so
// that Elem/Label/Regex/Can queries can inspect kind and fields.
func Build(pages []*frame.Frame, contents map[foundations.Location]foundations.Content) *Introspector {
	intro := &Introspector{
		byLoc:     map[foundations.Location]*Entry{},
		numbering: map[int]foundations.Value{},
		cache:     map[string][]Entry{},
		pageCount: len(pages),
	}
	idx := 0
	for pageNum, page := range pages {
		walk(page, foundations.Identity(), pageNum+1, &idx, intro, contents)
	}
	return intro
}

func walk(f *frame.Frame, parent foundations.Transform, page int, idx *int, intro *Introspector, contents map[foundations.Location]foundations.Content) {
	for _, positioned := range f.Items() {
		switch item := positioned.Item.(type) {
		case *frame.Group:
			t := parent.Then(foundations.Translate(positioned.Pos.X, positioned.Pos.Y)).Then(item.Transform)
			walk(item.Child, t, page, idx, intro, contents)
		case *frame.Meta:
			abs := parent.Apply(positioned.Pos)
			switch item.MetaKind {
			case frame.MetaElement:
				if item.Location == nil {
					continue
				}
				e := Entry{Location: *item.Location, Content: contents[*item.Location], Page: page, Pos: abs, DocIndex: *idx}
				*idx++
				intro.entries = append(intro.entries, e)
				intro.byLoc[*item.Location] = &intro.entries[len(intro.entries)-1]
			case frame.MetaPageNumbering:
				intro.numbering[page] = item.PageNumbering
			}
		}
	}
}

// Pages returns the total page count.
func (intro *Introspector) Pages() int { return intro.pageCount }

// Entries returns every indexed element-marker entry, used by the layout
// driver to compare two passes' introspection snapshots for convergence
// (§4.2).
func (intro *Introspector) Entries() []Entry { return intro.entries }

// Position returns {page, x, y} for a location.
func (intro *Introspector) Position(loc foundations.Location) (page int, pos foundations.Point, ok bool) {
	e, found := intro.byLoc[loc]
	if !found {
		return 0, foundations.Point{}, false
	}
	return e.Page, e.Pos, true
}

// Page returns the page number for a location.
func (intro *Introspector) Page(loc foundations.Location) (int, bool) {
	p, _, ok := intro.Position(loc)
	return p, ok
}

// PageNumbering returns the user-set numbering value active at a page.
func (intro *Introspector) PageNumbering(page int) (foundations.Value, bool) {
	v, ok := intro.numbering[page]
	return v, ok
}

// Query runs the exact semantics of §4.6 against the index, memoized by
// a string key that the caller derives deterministically from the
// selector (e.g. its serialized form) to avoid re-walking equal queries.
func (intro *Introspector) Query(key string, sel foundations.Selector, match func(foundations.Content) bool) []Entry {
	if cached, ok := intro.cache[key]; ok {
		return cached
	}
	result := intro.query(sel, match)
	intro.cache[key] = result
	return result
}

func (intro *Introspector) query(sel foundations.Selector, match func(foundations.Content) bool) []Entry {
	switch s := sel.(type) {
	case foundations.LocationSelector:
		if e, ok := intro.byLoc[s.Location]; ok {
			return []Entry{*e}
		}
		return nil
	case foundations.BeforeSelector:
		base := intro.query(s.Base, match)
		end := intro.query(s.End, match)
		if len(end) == 0 {
			return base
		}
		cut := end[0].DocIndex
		out := base[:0:0]
		for _, e := range base {
			if e.DocIndex < cut || (s.Inclusive && e.DocIndex == cut) {
				out = append(out, e)
			}
		}
		return out
	case foundations.AfterSelector:
		base := intro.query(s.Base, match)
		start := intro.query(s.Start, match)
		if len(start) == 0 {
			return base
		}
		cut := start[0].DocIndex
		out := base[:0:0]
		for _, e := range base {
			if e.DocIndex > cut || (s.Inclusive && e.DocIndex == cut) {
				out = append(out, e)
			}
		}
		return out
	case foundations.AndSelector:
		if len(s.Selectors) == 0 {
			return nil
		}
		lists := make([][]Entry, len(s.Selectors))
		smallest := 0
		for i, sub := range s.Selectors {
			lists[i] = intro.query(sub, match)
			if len(lists[i]) < len(lists[smallest]) {
				smallest = i
			}
		}
		sets := make([]map[int]bool, len(lists))
		for i, l := range lists {
			if i == smallest {
				continue
			}
			set := make(map[int]bool, len(l))
			for _, e := range l {
				set[e.DocIndex] = true
			}
			sets[i] = set
		}
		var out []Entry
		for _, e := range lists[smallest] {
			all := true
			for i := range lists {
				if i == smallest {
					continue
				}
				if !sets[i][e.DocIndex] {
					all = false
					break
				}
			}
			if all {
				out = append(out, e)
			}
		}
		return out
	case foundations.OrSelector:
		seen := map[int]bool{}
		var out []Entry
		for _, sub := range s.Selectors {
			for _, e := range intro.query(sub, match) {
				if !seen[e.DocIndex] {
					seen[e.DocIndex] = true
					out = append(out, e)
				}
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].DocIndex < out[j].DocIndex })
		return out
	default:
		// Elem|Label|Regex|Can: scan all indexed elements, relying on the
		// caller-supplied predicate to apply kind/label/regex/capability
		// matching against the stored content.
		var out []Entry
		for _, e := range intro.entries {
			if match == nil || match(e.Content) {
				out = append(out, e)
			}
		}
		return out
	}
}

// Frontier returns the per-hash disambiguator counts implied by the
// indexed entries, used to seed the next pass's Locator (§3.4).
func (intro *Introspector) Frontier() map[[2]uint64]uint32 {
	out := map[[2]uint64]uint32{}
	for loc := range intro.byLoc {
		if n := out[loc.Hash]; loc.Disambiguator+1 > n {
			out[loc.Hash] = loc.Disambiguator + 1
		}
	}
	return out
}
