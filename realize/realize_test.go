package realize

import (
	"regexp"
	"testing"

	"github.com/mkallio/typeset/engine"
	"github.com/mkallio/typeset/foundations"
	"github.com/mkallio/typeset/introspect"
)

type fakeWorld struct{}

func (fakeWorld) Today(offset *int) engine.Date { return engine.Date{Year: 2026, Month: 1, Day: 1} }

func newState() *State {
	eng := engine.New(fakeWorld{})
	return NewState(eng, foundations.NewLocator(), introspect.Empty())
}

func textContent(s string) foundations.Content {
	return foundations.NewContent(foundations.KindText, map[string]foundations.Value{"text": foundations.StrValue(s)})
}

// TestRealizeRescansOuterRecipeAfterInnerReplacement is a regression test
// for the guard-by-rule-number fix: a rule numbered below another must
// still get a chance to match content the higher-numbered rule just
// produced, within the same realizeOne call.
func TestRealizeRescansOuterRecipeAfterInnerReplacement(t *testing.T) {
	inner := foundations.NewRecipe(
		foundations.ElementSelector{Kind: foundations.KindText},
		foundations.FuncTransformation{Func: func(c foundations.Content) (foundations.Content, error) {
			return foundations.NewContent(foundations.KindEmph, nil), nil
		}},
	)
	outer := foundations.NewRecipe(
		foundations.ElementSelector{Kind: foundations.KindEmph},
		foundations.FuncTransformation{Func: func(c foundations.Content) (foundations.Content, error) {
			return c.WithField("marked", foundations.BoolValue(true)), nil
		}},
	)

	styles := foundations.NewStyleMap().WithRecipe(outer).WithRecipe(inner)
	chain := foundations.Chain(nil, styles)

	st := newState()
	pairs, err := Realize(st, textContent("hi"), chain)
	if err != nil {
		t.Fatalf("Realize failed: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 realized pair, got %d", len(pairs))
	}
	got := pairs[0].Content
	if got.Kind() != foundations.KindEmph {
		t.Fatalf("expected KindEmph after inner rule, got %v", got.Kind())
	}
	v, ok := got.Field("marked")
	if !ok || v != foundations.BoolValue(true) {
		t.Fatal("expected outer rule to have applied to the inner rule's replacement within the same pass")
	}
}

func TestRealizeSequenceRecursesIntoChildren(t *testing.T) {
	seq := foundations.Sequence(textContent("a"), textContent("b"))
	st := newState()
	pairs, err := Realize(st, seq, nil)
	if err != nil {
		t.Fatalf("Realize failed: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs from a 2-child sequence, got %d", len(pairs))
	}
}

func TestRealizeStyledAppliesChildStyles(t *testing.T) {
	recipe := foundations.NewRecipe(
		foundations.ElementSelector{Kind: foundations.KindText},
		foundations.FuncTransformation{Func: func(c foundations.Content) (foundations.Content, error) {
			return c.WithField("styled", foundations.BoolValue(true)), nil
		}},
	)
	styles := foundations.NewStyleMap().WithRecipe(recipe)
	styled := foundations.Styled(textContent("x"), styles)

	st := newState()
	pairs, err := Realize(st, styled, nil)
	if err != nil {
		t.Fatalf("Realize failed: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if v, ok := pairs[0].Content.Field("styled"); !ok || v != foundations.BoolValue(true) {
		t.Fatal("expected styled wrapper's recipe to apply to its child")
	}
}

func TestRealizeRegexRecipeSplitsText(t *testing.T) {
	pattern := regexp.MustCompile(`\d+`)
	recipe := foundations.NewRecipe(
		foundations.RegexSelector{Pattern: pattern},
		foundations.FuncTransformation{Func: func(c foundations.Content) (foundations.Content, error) {
			return c.WithField("num", foundations.BoolValue(true)), nil
		}},
	)
	styles := foundations.NewStyleMap().WithRecipe(recipe)
	chain := foundations.Chain(nil, styles)

	st := newState()
	pairs, err := Realize(st, textContent("a1b22c"), chain)
	if err != nil {
		t.Fatalf("Realize failed: %v", err)
	}
	if len(pairs) != 5 {
		t.Fatalf("expected 5 parts (a,1,b,22,c), got %d: %+v", len(pairs), pairs)
	}
	if _, ok := pairs[1].Content.Field("num"); !ok {
		t.Fatal("expected the first digit match to carry the recipe's marker field")
	}
	if _, ok := pairs[3].Content.Field("num"); !ok {
		t.Fatal("expected the second digit match to carry the recipe's marker field")
	}
}
