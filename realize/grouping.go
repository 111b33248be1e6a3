package realize

import "github.com/mkallio/typeset/foundations"

// Grouping collects runs of inline-level realized elements into a single
// paragraph element, mirroring the teacher's realize/grouping.go
// Trigger/Inner/Interrupt pattern but narrowed to the single grouping
// rule this spec's closed element-kind set actually needs: inline runs
// between block boundaries become paragraphs.
type Grouping interface {
	// Trigger reports whether content starts a new group.
	Trigger(foundations.Content) bool
	// Inner reports whether content continues an already-open group.
	Inner(foundations.Content) bool
	// Interrupt reports whether content ends an open group without being
	// consumed by it.
	Interrupt(foundations.Content) bool
	// Finalize wraps the accumulated group members into their parent kind.
	Finalize(members []foundations.Content) foundations.Content
}

// ParagraphGrouping groups consecutive inline elements (text, space,
// linebreak, emph/strong wrappers) into a paragraph.
type ParagraphGrouping struct{}

func (ParagraphGrouping) Trigger(c foundations.Content) bool { return isInline(c) }
func (ParagraphGrouping) Inner(c foundations.Content) bool   { return isInline(c) }
func (ParagraphGrouping) Interrupt(c foundations.Content) bool {
	switch c.Kind() {
	case foundations.KindHeading, foundations.KindFigure, foundations.KindParagraph:
		return true
	}
	return false
}

func (ParagraphGrouping) Finalize(members []foundations.Content) foundations.Content {
	return foundations.NewContent(foundations.KindParagraph, map[string]foundations.Value{
		"body": foundations.ContentValue{Content: foundations.Sequence(members...)},
	})
}

func isInline(c foundations.Content) bool {
	switch c.Kind() {
	case foundations.KindText, foundations.KindSpace, foundations.KindLinebreak,
		foundations.KindEmph, foundations.KindStrong:
		return true
	}
	return false
}

// Group scans a realized, flat stream of pairs (as produced by Realize)
// and wraps maximal runs matched by a Grouping's Trigger/Inner into a
// single element, leaving everything else untouched. Non-triggering
// elements that are not Interrupt still end the group -- only items the
// rule explicitly recognizes as Inner extend it.
func Group(pairs []Pair, rule Grouping) []Pair {
	var out []Pair
	var open []foundations.Content
	var openStyles *foundations.StyleChain

	flush := func() {
		if len(open) == 0 {
			return
		}
		out = append(out, Pair{Content: rule.Finalize(open), Styles: openStyles})
		open = nil
		openStyles = nil
	}

	for _, p := range pairs {
		switch {
		case len(open) == 0 && rule.Trigger(p.Content):
			open = append(open, p.Content)
			openStyles = p.Styles
		case len(open) > 0 && rule.Inner(p.Content):
			open = append(open, p.Content)
		default:
			flush()
			if rule.Trigger(p.Content) {
				open = append(open, p.Content)
				openStyles = p.Styles
				continue
			}
			out = append(out, p)
		}
	}
	flush()
	return out
}

// CollapseSpaces removes redundant adjacent space elements and trims
// spaces at paragraph boundaries, the realization-time normalization the
// teacher's Config.CollapseSpaces flag names.
func CollapseSpaces(pairs []Pair) []Pair {
	out := pairs[:0:0]
	prevWasSpace := true // treat start-of-stream as if preceded by space
	for i, p := range pairs {
		isSpace := p.Content.Kind() == foundations.KindSpace
		if isSpace && prevWasSpace {
			continue
		}
		if isSpace && i == len(pairs)-1 {
			continue
		}
		out = append(out, p)
		prevWasSpace = isSpace
	}
	if n := len(out); n > 0 && out[n-1].Content.Kind() == foundations.KindSpace {
		out = out[:n-1]
	}
	return out
}
