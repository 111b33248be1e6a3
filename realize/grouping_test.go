package realize

import (
	"testing"

	"github.com/mkallio/typeset/foundations"
)

func textPair(s string) Pair {
	return Pair{Content: foundations.NewContent(foundations.KindText, map[string]foundations.Value{"body": foundations.StrValue(s)})}
}

func headingPair() Pair {
	return Pair{Content: foundations.NewContent(foundations.KindHeading, nil)}
}

func TestGroupWrapsConsecutiveInlineRuns(t *testing.T) {
	pairs := []Pair{textPair("a"), textPair("b"), headingPair(), textPair("c")}
	out := Group(pairs, ParagraphGrouping{})
	// "a","b" merge into one paragraph, the heading passes through
	// untouched, and the trailing "c" starts and flushes its own paragraph.
	if len(out) != 3 {
		t.Fatalf("expected 3 groups, got %d: %+v", len(out), out)
	}
	if out[0].Content.Kind() != foundations.KindParagraph {
		t.Fatalf("first group kind = %v, want KindParagraph", out[0].Content.Kind())
	}
	if out[1].Content.Kind() != foundations.KindHeading {
		t.Fatalf("expected the heading to pass through untouched, got %v", out[1].Content.Kind())
	}
	if out[2].Content.Kind() != foundations.KindParagraph {
		t.Fatalf("trailing text should form its own paragraph, got %v", out[2].Content.Kind())
	}
}

func TestGroupTrailingInlineRunIsFlushed(t *testing.T) {
	pairs := []Pair{headingPair(), textPair("a")}
	out := Group(pairs, ParagraphGrouping{})
	if len(out) != 2 {
		t.Fatalf("expected heading + trailing paragraph, got %d groups", len(out))
	}
	if out[1].Content.Kind() != foundations.KindParagraph {
		t.Fatalf("trailing inline run should be flushed as a paragraph, got %v", out[1].Content.Kind())
	}
}

func TestGroupEmptyInput(t *testing.T) {
	if out := Group(nil, ParagraphGrouping{}); len(out) != 0 {
		t.Fatalf("Group(nil) = %v, want empty", out)
	}
}

func spacePair() Pair {
	return Pair{Content: foundations.NewContent(foundations.KindSpace, nil)}
}

func TestCollapseSpacesRemovesLeadingAndAdjacent(t *testing.T) {
	pairs := []Pair{spacePair(), textPair("a"), spacePair(), spacePair(), textPair("b")}
	out := CollapseSpaces(pairs)
	// Leading space collapses (start-of-stream treated as space); the two
	// adjacent spaces between "a" and "b" collapse to one.
	if len(out) != 3 {
		t.Fatalf("expected 3 remaining items (a, space, b), got %d: %+v", len(out), out)
	}
	if out[0].Content.Kind() != foundations.KindText {
		t.Fatalf("leading space should be dropped, first item = %v", out[0].Content.Kind())
	}
}

func TestCollapseSpacesRemovesTrailing(t *testing.T) {
	pairs := []Pair{textPair("a"), spacePair()}
	out := CollapseSpaces(pairs)
	if len(out) != 1 {
		t.Fatalf("trailing space should be dropped, got %+v", out)
	}
}

func TestCollapseSpacesKeepsSingleInteriorSpace(t *testing.T) {
	pairs := []Pair{textPair("a"), spacePair(), textPair("b")}
	out := CollapseSpaces(pairs)
	if len(out) != 3 {
		t.Fatalf("a single interior space should be kept, got %d items", len(out))
	}
}
