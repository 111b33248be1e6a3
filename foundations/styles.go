package foundations

// FoldFn combines an inner (closer to the leaf) value with an outer
// (closer to the root) value of a folding property. Applied outside-in per
// §3.2 so that e.g. additive weight deltas and stacked decorations compose
// correctly.
type FoldFn func(inner, outer Value) Value

// PropertyKey identifies a style property: an element kind plus a field
// name, matching §3.2 ("element-kind plus field-id").
type PropertyKey struct {
	Kind  ElementKind
	Field string
}

// StyleEntry is one of Property or Recipe, per §3.2.
type StyleEntry struct {
	Property *PropertyEntry
	Recipe   *Recipe
}

// PropertyEntry is a typed style value, optionally folding.
type PropertyEntry struct {
	Key     PropertyKey
	Value   Value
	Fold    FoldFn // nil if this property does not fold
	Liftable bool  // true if the style can be lifted onto weak styled-wrappers
}

// StyleMap is an ordered sequence of style entries (§3.2).
type StyleMap struct {
	Entries []StyleEntry
}

func NewStyleMap() StyleMap { return StyleMap{} }

func (m StyleMap) IsEmpty() bool { return len(m.Entries) == 0 }

// WithProperty returns a new map with an appended property entry.
func (m StyleMap) WithProperty(key PropertyKey, value Value, fold FoldFn) StyleMap {
	out := StyleMap{Entries: append(append([]StyleEntry(nil), m.Entries...), StyleEntry{
		Property: &PropertyEntry{Key: key, Value: value, Fold: fold},
	})}
	return out
}

// WithRecipe returns a new map with an appended recipe entry.
func (m StyleMap) WithRecipe(r *Recipe) StyleMap {
	return StyleMap{Entries: append(append([]StyleEntry(nil), m.Entries...), StyleEntry{Recipe: r})}
}

func sameStyleMapEntries(a, b StyleMap) bool {
	if len(a.Entries) != len(b.Entries) {
		return false
	}
	for i := range a.Entries {
		ea, eb := a.Entries[i], b.Entries[i]
		if (ea.Recipe != nil) != (eb.Recipe != nil) {
			return false
		}
		if ea.Recipe != nil {
			if ea.Recipe != eb.Recipe {
				return false
			}
			continue
		}
		if ea.Property.Key != eb.Property.Key || !Equal(ea.Property.Value, eb.Property.Value) {
			return false
		}
	}
	return true
}

// StyleChain is a linked list of borrowed style maps, root-first (§3.2).
// It is constructed at every styled-wrapper boundary during realization
// and never stored in output.
type StyleChain struct {
	Map    *StyleMap
	Parent *StyleChain
}

// EmptyStyleChain is the root with no properties set.
func EmptyStyleChain() *StyleChain { return nil }

// Chain prepends a style map as the new tip of the chain.
func Chain(parent *StyleChain, m StyleMap) *StyleChain {
	if m.IsEmpty() {
		return parent
	}
	return &StyleChain{Map: &m, Parent: parent}
}

// Get scans tip-to-root and returns the first matching property, or the
// result of Fold-ing all matches outside-in when the property folds.
func (chain *StyleChain) Get(key PropertyKey) (Value, bool) {
	var matches []Value
	var folding bool
	var foldFn FoldFn
	for c := chain; c != nil; c = c.Parent {
		if c.Map == nil {
			continue
		}
		for i := len(c.Map.Entries) - 1; i >= 0; i-- {
			e := c.Map.Entries[i]
			if e.Property == nil || e.Property.Key != key {
				continue
			}
			matches = append(matches, e.Property.Value)
			if e.Property.Fold != nil {
				folding = true
				foldFn = e.Property.Fold
			}
			if !folding {
				return e.Property.Value, true
			}
		}
	}
	if len(matches) == 0 {
		return nil, false
	}
	if !folding || len(matches) == 1 {
		return matches[0], true
	}
	// matches is tip-to-root order; fold outside-in means root-to-tip,
	// i.e. reverse, treating each step's accumulator as "outer".
	acc := matches[len(matches)-1]
	for i := len(matches) - 2; i >= 0; i-- {
		acc = foldFn(matches[i], acc)
	}
	return acc, true
}

func (chain *StyleChain) GetOr(key PropertyKey, def Value) Value {
	if v, ok := chain.Get(key); ok {
		return v
	}
	return def
}

// Recipes returns every recipe visible in the chain, numbered outermost=1
// to innermost=N as required by §4.1's rule-application order.
func (chain *StyleChain) Recipes() []*Recipe {
	// Walk tip-to-root collecting recipes, then reverse so index 0 is
	// outermost.
	var tipToRoot []*Recipe
	for c := chain; c != nil; c = c.Parent {
		if c.Map == nil {
			continue
		}
		for i := len(c.Map.Entries) - 1; i >= 0; i-- {
			if r := c.Map.Entries[i].Recipe; r != nil {
				tipToRoot = append(tipToRoot, r)
			}
		}
	}
	out := make([]*Recipe, len(tipToRoot))
	for i, r := range tipToRoot {
		out[len(tipToRoot)-1-i] = r
	}
	return out
}

func (chain *StyleChain) Depth() int {
	n := 0
	for c := chain; c != nil; c = c.Parent {
		n++
	}
	return n
}

// ToMap flattens the chain into a single map, root entries first (only
// used for diagnostics/snapshotting, never for layout decisions).
func (chain *StyleChain) ToMap() StyleMap {
	var out StyleMap
	var frames []StyleMap
	for c := chain; c != nil; c = c.Parent {
		if c.Map != nil {
			frames = append(frames, *c.Map)
		}
	}
	for i := len(frames) - 1; i >= 0; i-- {
		out.Entries = append(out.Entries, frames[i].Entries...)
	}
	return out
}
