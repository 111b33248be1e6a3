package foundations

import "regexp"

// Selector identifies a subset of content nodes a recipe or introspector
// query targets (§3.3, §4.6).
type Selector interface {
	isSelector()
}

// ElementSelector matches nodes of a given kind, optionally filtered by a
// field predicate ("where").
type ElementSelector struct {
	Kind  ElementKind
	Where func(Content) bool
}

func (ElementSelector) isSelector() {}

// LabelSelector matches the node carrying a given label.
type LabelSelector struct{ Label string }

func (LabelSelector) isSelector() {}

// RegexSelector matches substrings of text elements (§3.3: "operate on
// text elements only").
type RegexSelector struct{ Pattern *regexp.Regexp }

func (RegexSelector) isSelector() {}

// LocationSelector matches exactly the node at a given location.
type LocationSelector struct{ Location Location }

func (LocationSelector) isSelector() {}

// CanSelector matches nodes implementing a capability.
type CanSelector struct{ Capability Capability }

func (CanSelector) isSelector() {}

// OrSelector matches any of its members.
type OrSelector struct{ Selectors []Selector }

func (OrSelector) isSelector() {}

// AndSelector matches nodes matched by every member.
type AndSelector struct{ Selectors []Selector }

func (AndSelector) isSelector() {}

// BeforeSelector restricts a base selector's query results to elements
// before the first match of `End` (§4.6).
type BeforeSelector struct {
	Base      Selector
	End       Selector
	Inclusive bool
}

func (BeforeSelector) isSelector() {}

// AfterSelector is the symmetric restriction to elements after Start.
type AfterSelector struct {
	Base      Selector
	Start     Selector
	Inclusive bool
}

func (AfterSelector) isSelector() {}

// NoneSelector ("None" in §3.3) applies to everything in the body it wraps.
type NoneSelector struct{}

func (NoneSelector) isSelector() {}

// Transformation is the replacement side of a recipe (§3.3).
type Transformation interface {
	isTransformation()
}

// ContentTransformation substitutes the matched node wholesale.
type ContentTransformation struct{ Replacement Content }

func (ContentTransformation) isTransformation() {}

// FuncTransformation maps the matched content to a replacement.
type FuncTransformation struct{ Func func(Content) (Content, error) }

func (FuncTransformation) isTransformation() {}

// StyleTransformation applies additional styles without replacing content;
// used by set-rule-derived recipes.
type StyleTransformation struct{ Styles StyleMap }

func (StyleTransformation) isTransformation() {}

// NoneTransformation removes the matched content entirely.
type NoneTransformation struct{}

func (NoneTransformation) isTransformation() {}

// Recipe is a show rule: (selector?, transform). A nil Selector behaves
// like NoneSelector -- it applies to everything in its body (§3.3).
type Recipe struct {
	Selector Selector
	Transform Transformation
	Span     Span
	// Outside marks a recipe set up by an ancestor wrapper that also
	// intends to apply to siblings outside the immediate body (liftable).
	Outside bool
}

func NewRecipe(sel Selector, t Transformation) *Recipe {
	return &Recipe{Selector: sel, Transform: t}
}
