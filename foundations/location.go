package foundations

// Location uniquely identifies an instance of an element across relayout
// rounds (§3.4). Hash is the 128-bit-class structural identity (kind +
// fields, see Content.StructuralHash); Disambiguator distinguishes
// otherwise-equal elements; Variant is a caller-supplied integer used to
// derive child locations (e.g. a bibliography entry from its list's root
// location).
type Location struct {
	Hash          [2]uint64
	Disambiguator uint32
	Variant       uint32
}

// Locator hands out disambiguators during one layout pass. Between
// passes, the introspector reconstructs the disambiguator frontier from
// the previous frames so the next pass's locator resumes where the last
// left off, keeping locations stable across relayout despite the engine
// being partly functional (§3.4).
type Locator struct {
	seen map[[2]uint64]uint32
}

// NewLocator creates a locator with no prior frontier (first pass, or no
// introspector available yet).
func NewLocator() *Locator {
	return &Locator{seen: map[[2]uint64]uint32{}}
}

// SeededLocator creates a locator whose disambiguator counters start from
// the given frontier: each hash's disambiguators continue after the
// frontier's count, so they do not repeat the locations already handed out.
func SeededLocator(frontier map[[2]uint64]uint32) *Locator {
	seen := make(map[[2]uint64]uint32, len(frontier))
	for k, v := range frontier {
		seen[k] = v
	}
	return &Locator{seen: seen}
}

// Locate allocates the next Location for the given structural hash and
// variant, bumping the disambiguator counter for that hash.
func (l *Locator) Locate(hash [2]uint64, variant uint32) Location {
	key := hash
	n := l.seen[key]
	l.seen[key] = n + 1
	return Location{Hash: hash, Disambiguator: n, Variant: variant}
}

// Variant derives a child locator key for a caller-chosen integer
// (e.g. bibliography entry index) without consuming a disambiguator slot
// of the parent's own hash.
func (l *Locator) Variant(base Location, variant uint32) Location {
	return Location{Hash: base.Hash, Disambiguator: base.Disambiguator, Variant: variant}
}

// Frontier snapshots the current per-hash disambiguator counters, handed
// to the next pass's SeededLocator.
func (l *Locator) Frontier() map[[2]uint64]uint32 {
	out := make(map[[2]uint64]uint32, len(l.seen))
	for k, v := range l.seen {
		out[k] = v
	}
	return out
}
