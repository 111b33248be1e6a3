// Package typeset is the core typesetting pipeline: content realization,
// paragraph layout, and the introspection-driven fixed-point loop that
// ties them together (§1, §4.2). Parsing markup into Content, evaluating
// expressions, rasterizing glyphs, and encoding a final page-description
// format are all out of scope (§1) -- this package starts from an
// already-built foundations.Content tree and produces laid-out frames.
package typeset

import (
	"fmt"

	"github.com/mkallio/typeset/engine"
	"github.com/mkallio/typeset/foundations"
	"github.com/mkallio/typeset/frame"
	"github.com/mkallio/typeset/introspect"
	"github.com/mkallio/typeset/realize"
)

// MaxIterations bounds the introspection fixed-point loop (§4.2): a
// locatable query's answer may depend on layout that in turn depends on
// the query's answer (e.g. a table of contents referencing page
// numbers), so layout repeats until two consecutive passes agree or this
// many passes have run.
const MaxIterations = 5

// Document is the typeset result (§6.2): the final page frames plus the
// metadata a renderer or exporter needs.
type Document struct {
	Pages    []*frame.Frame
	Title    string
	Authors  []string
	Keywords []string

	// Elements is the final pass's flat realized-element stream, exposed
	// for callers that need to inspect it directly (e.g. building a
	// table of contents from headings) rather than re-querying frames.
	Elements []realize.Pair
}

// PageLayouter lays out one region's worth of realized content into a
// page frame; it is supplied by the caller because page geometry
// (margins, headers, footers, columns) sits above the §1 scope of this
// package -- only frame assembly (§4.5) and paragraph layout (§4.3) are
// implemented here.
type PageLayouter interface {
	LayoutPages(pairs []realize.Pair, intro *introspect.Introspector) ([]*frame.Frame, error)
}

// Typeset drives one document through the §4.2 loop: realize, lay out,
// build an introspector over the result, and repeat if introspection
// queries made during layout would have seen different answers, up to
// MaxIterations passes.
func Typeset(eng *engine.Engine, layouter PageLayouter, content foundations.Content, base *foundations.StyleChain) (*Document, error) {
	locator := foundations.NewLocator()
	intro := introspect.Empty()

	var pairs []realize.Pair
	var pages []*frame.Frame
	var delayed []engine.Diagnostic

	for iter := 0; iter < MaxIterations; iter++ {
		st := realize.NewState(eng, locator, intro)

		realized, err := realize.Realize(st, content, base)
		if err != nil {
			return nil, fmt.Errorf("typeset: realize pass %d: %w", iter+1, err)
		}
		realized = realize.Group(realized, realize.ParagraphGrouping{})
		realized = realize.CollapseSpaces(realized)

		laid, err := layouter.LayoutPages(realized, intro)
		if err != nil {
			return nil, fmt.Errorf("typeset: layout pass %d: %w", iter+1, err)
		}

		nextIntro := introspect.Build(laid, st.Contents)

		isFinal := iter == MaxIterations-1
		converged := iter > 0 && introspectorsEquivalent(intro, nextIntro)
		pairs, pages, intro = realized, laid, nextIntro
		locator = foundations.NewLocator()
		delayed = eng.Sink.TakeDelayed()

		if converged || isFinal {
			break
		}
	}

	// §4.1/§7: a delayed error only becomes fatal once it survives to the
	// iteration the driver stops on -- earlier passes may have been
	// retried away by a later recipe application.
	for _, d := range delayed {
		if d.Severity == engine.SeverityError {
			return nil, fmt.Errorf("typeset: %s", d.Message)
		}
	}
	for _, d := range delayed {
		eng.Sink.Warn(d)
	}

	return &Document{Pages: pages, Elements: pairs}, nil
}

// introspectorsEquivalent reports whether two consecutive passes' indexed
// elements agree on page and position for every location, the condition
// §4.2 calls "layout settled": once no locatable element's page/position
// moves between passes, further iteration would only reproduce the same
// frames.
func introspectorsEquivalent(a, b *introspect.Introspector) bool {
	if a.Pages() != b.Pages() {
		return false
	}
	ae, be := a.Entries(), b.Entries()
	if len(ae) != len(be) {
		return false
	}
	bByLoc := make(map[foundations.Location]introspect.Entry, len(be))
	for _, e := range be {
		bByLoc[e.Location] = e
	}
	for _, e := range ae {
		other, ok := bByLoc[e.Location]
		if !ok || other.Page != e.Page || other.Pos != e.Pos {
			return false
		}
	}
	return true
}
