// Package realize implements content realization (§4.1): recursively
// applying styles and show rules to a content tree, producing the
// primitive layout elements the rest of the pipeline consumes. Grounded
// on the teacher's realize/realize.go and library/foundations/selector.go,
// but reworked to match the spec's exact guard-by-rule-number, regex
// substring-splitting, and finalize-over-pristine semantics, which the
// teacher's version only partially implemented.
package realize

import (
	"regexp"

	"github.com/mkallio/typeset/engine"
	"github.com/mkallio/typeset/foundations"
	"github.com/mkallio/typeset/introspect"
)

// Pair is one realized element alongside the style chain active at its
// site, the realizer's output unit.
type Pair struct {
	Content foundations.Content
	Styles  *foundations.StyleChain
}

// State threads the locator, introspector, and bookkeeping needed across
// one realization pass.
type State struct {
	Engine       *engine.Engine
	Locator      *foundations.Locator
	Introspector *introspect.Introspector
	// Contents accumulates location -> realized-content, consumed by
	// introspect.Build so later queries can inspect kind/fields.
	Contents map[foundations.Location]foundations.Content
}

func NewState(eng *engine.Engine, locator *foundations.Locator, intro *introspect.Introspector) *State {
	return &State{Engine: eng, Locator: locator, Introspector: intro, Contents: map[foundations.Location]foundations.Content{}}
}

// Realize drives one content node through preparation and rule
// application to a fixed point, returning the flat stream of realized
// (element, styles) pairs described by §4.1.
func Realize(st *State, content foundations.Content, chain *foundations.StyleChain) ([]Pair, error) {
	var out []Pair
	if err := realizeInto(st, content, chain, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func realizeInto(st *State, content foundations.Content, chain *foundations.StyleChain, out *[]Pair) error {
	if styled, ok := content.AsStyled(); ok {
		childChain := foundations.Chain(chain, styled.Styles)
		return realizeInto(st, styled.Child, childChain, out)
	}

	if content.Kind() == foundations.KindSequence {
		for _, child := range content.Children() {
			if err := realizeInto(st, child, chain, out); err != nil {
				return err
			}
		}
		return nil
	}

	realized, err := realizeOne(st, content, chain)
	if err != nil {
		return err
	}

	if realized.Kind() == foundations.KindSequence || realized.Kind() == foundations.KindStyled {
		// A recipe or Show hook may have produced a sequence/styled-wrapper
		// in place of a leaf; recurse so its own recipes still apply.
		return realizeInto(st, realized, chain, out)
	}

	*out = append(*out, Pair{Content: realized, Styles: chain})
	return nil
}

// Applicable reports whether realizing content would change it: it has a
// Show hook, an unguarded matching recipe, or still needs preparation
// (§4.1 contract).
func Applicable(content foundations.Content, chain *foundations.StyleChain) bool {
	if !content.Prepared() {
		return true
	}
	kind := content.Kind()
	for n, r := range numberedRecipes(chain) {
		if content.Guarded(n) {
			continue
		}
		if matches(r.Selector, content) {
			return true
		}
	}
	return kind.Has(foundations.CapShow)
}

// realizeOne runs the full §4.1 pipeline once on a single (non-sequence,
// non-styled) node: prepare, then rule application, then base Show, then
// Finalize.
func realizeOne(st *State, content foundations.Content, chain *foundations.StyleChain) (foundations.Content, error) {
	content, err := prepare(st, content, chain)
	if err != nil {
		return content, err
	}
	origKind := content.Kind()

	// transformed tracks whether any recipe or the base Show hook actually
	// altered this content during this call. The original's Finalize hook
	// (if any) only runs over a result that was actually shown -- content
	// that matched nothing passes through untouched and unfinalized.
	transformed := false
	numbered := numberedRecipes(chain)

	// §9 open question: guards are by rule-number, so a result is not
	// re-matched by the rule that just produced it but *is* re-matched by
	// every other rule. We therefore restart the scan from the top after
	// each application rather than returning early -- a single recipe
	// application can unlock an outer recipe that didn't match the
	// original content, and that outer recipe must still run within this
	// same realizeOne call, not wait on realizeInto's Sequence/Styled
	// recursion (which never triggers for a leaf-to-leaf replacement).
	//
	// This is a deliberate departure from upstream's realize(), which
	// applies at most one recipe per call and leaves any cascade to the
	// caller re-invoking realize() on the new content. Our Realize() is
	// driven once per layout pass over the whole tree rather than called
	// per-node in a caller-side loop, so folding the cascade into this one
	// call is what makes a single pass converge the same way.
	for n := len(numbered); n >= 1; {
		r := numbered[n]
		if content.Guarded(n) {
			n--
			continue
		}
		if r.Selector != nil {
			if _, isRegex := r.Selector.(foundations.RegexSelector); isRegex {
				replaced, applied, err := applyRegexRecipe(content, r, n)
				if err != nil {
					return content, err
				}
				if applied {
					return replaced, nil
				}
				n--
				continue
			}
		}
		if !matches(r.Selector, content) {
			n--
			continue
		}
		replaced, err := applyTransform(content, r.Transform, n)
		if err != nil {
			return content, err
		}
		transformed = true
		content = replaced
		if content.Kind() == foundations.KindSequence || content.Kind() == foundations.KindStyled {
			// Let realizeInto's recursion handle the structural change;
			// its own recipe scanning resumes per child.
			return content, nil
		}
		n = len(numbered)
	}

	def := foundations.LookupElement(content.Kind())
	if def != nil && def.Show != nil {
		content = def.Show(content, chain)
		transformed = true
	}

	return withFinalize(content, origKind, chain, transformed), nil
}

// withFinalize applies the element's Finalize hook over a result that was
// actually produced by a recipe or the base Show this call (§4.1:
// "Finalize effects survive user show rules" -- it wraps what the show
// rule produced, it does not run over untouched content).
func withFinalize(content foundations.Content, kind foundations.ElementKind, chain *foundations.StyleChain, transformed bool) foundations.Content {
	if !transformed {
		return content
	}
	def := foundations.LookupElement(kind)
	if def == nil || def.Finalize == nil {
		return content
	}
	return def.Finalize(content, chain)
}

// prepare runs §4.1's one-time preparation pass: location assignment,
// synthesis, and the prepared flag.
func prepare(st *State, content foundations.Content, chain *foundations.StyleChain) (foundations.Content, error) {
	if content.Prepared() {
		return content, nil
	}
	kind := content.Kind()
	needsLocation := kind.Has(foundations.CapLocatable) || content.Label() != nil

	result := content
	if needsLocation {
		hash := content.StructuralHash()
		loc := st.Locator.Locate(hash, 0)
		result = withLocation(result, loc)
	}

	if kind.Has(foundations.CapSynthesize) {
		def := foundations.LookupElement(kind)
		if def != nil && def.Synthesize != nil {
			result = def.Synthesize(result, chain)
		}
	}

	result = withPrepared(result)

	if needsLocation {
		st.Contents[*result.Location()] = result
	}
	return result, nil
}

// numberedRecipes numbers the chain's recipes outermost=1..N (§4.1).
func numberedRecipes(chain *foundations.StyleChain) map[int]*foundations.Recipe {
	recipes := chain.Recipes()
	out := make(map[int]*foundations.Recipe, len(recipes))
	for i, r := range recipes {
		out[i+1] = r
	}
	return out
}

func matches(sel foundations.Selector, content foundations.Content) bool {
	if sel == nil {
		return true
	}
	switch s := sel.(type) {
	case foundations.NoneSelector:
		return true
	case foundations.ElementSelector:
		if content.Kind() != s.Kind {
			return false
		}
		return s.Where == nil || s.Where(content)
	case foundations.LabelSelector:
		return content.Label() != nil && *content.Label() == s.Label
	case foundations.LocationSelector:
		return content.Location() != nil && *content.Location() == s.Location
	case foundations.CanSelector:
		return content.Kind().Has(s.Capability)
	case foundations.OrSelector:
		for _, sub := range s.Selectors {
			if matches(sub, content) {
				return true
			}
		}
		return false
	case foundations.AndSelector:
		for _, sub := range s.Selectors {
			if !matches(sub, content) {
				return false
			}
		}
		return true
	case foundations.RegexSelector:
		// Regex selectors are handled specially in realizeOne (they split
		// text rather than replace it wholesale); a bare match check is
		// still meaningful for Applicable().
		return content.Kind() == foundations.KindText && matchRegexContent(s.Pattern, content)
	default:
		return false
	}
}

func matchRegexContent(re *regexp.Regexp, content foundations.Content) bool {
	text := plainText(content)
	return re.MatchString(text)
}

func plainText(content foundations.Content) string {
	if def := foundations.LookupElement(content.Kind()); def != nil && def.PlainText != nil {
		return def.PlainText(content)
	}
	if v, ok := content.Field("text"); ok {
		if s, ok := v.(foundations.StrValue); ok {
			return string(s)
		}
	}
	return ""
}

func applyTransform(content foundations.Content, t foundations.Transformation, ruleNo int) (foundations.Content, error) {
	switch tr := t.(type) {
	case foundations.ContentTransformation:
		return withGuard(tr.Replacement, ruleNo), nil
	case foundations.FuncTransformation:
		replaced, err := tr.Func(content)
		if err != nil {
			return content, err
		}
		return withGuard(replaced, ruleNo), nil
	case foundations.StyleTransformation:
		return foundations.Styled(content, tr.Styles), nil
	case foundations.NoneTransformation:
		return foundations.Empty(), nil
	default:
		return content, nil
	}
}

// applyRegexRecipe implements §4.1's regex recipe semantics: find all
// non-overlapping matches left-to-right and build
// unmatched, transform(match)-guarded, unmatched, ... Returns applied =
// false (content unchanged) if the regex does not match (§8 invariant 10).
func applyRegexRecipe(content foundations.Content, r *foundations.Recipe, ruleNo int) (foundations.Content, bool, error) {
	sel, ok := r.Selector.(foundations.RegexSelector)
	if !ok || content.Kind() != foundations.KindText {
		return content, false, nil
	}
	text := plainText(content)
	locs := sel.Pattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return content, false, nil
	}

	var parts []foundations.Content
	cursor := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if start > cursor {
			parts = append(parts, textOf(text[cursor:start]))
		}
		matchContent := textOf(text[start:end])
		replaced, err := applyTransform(matchContent, r.Transform, ruleNo)
		if err != nil {
			return content, false, err
		}
		parts = append(parts, replaced)
		cursor = end
	}
	if cursor < len(text) {
		parts = append(parts, textOf(text[cursor:]))
	}
	return foundations.Sequence(parts...), true, nil
}

func textOf(s string) foundations.Content {
	return foundations.NewContent(foundations.KindText, map[string]foundations.Value{"text": foundations.StrValue(s)})
}

// withLocation/withPrepared/withGuard adapt Content's unexported setters,
// which live in the foundations package; these thin wrappers exist so
// realize.go reads as the single place orchestrating the contract.
func withLocation(c foundations.Content, loc foundations.Location) foundations.Content {
	return c.WithLocationForRealizer(loc)
}

func withPrepared(c foundations.Content) foundations.Content {
	return c.WithPreparedForRealizer()
}

func withGuard(c foundations.Content, ruleNo int) foundations.Content {
	return c.WithGuardForRealizer(ruleNo)
}
