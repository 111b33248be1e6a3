package foundations

import (
	"fmt"
	"hash/maphash"
	"sort"
)

// ElementKind identifies the tagged variant of a Content node. The set is
// conceptually closed (new kinds are added by registering an ElementDef at
// init time, never dynamically), matching §3.1: kind identity drives
// selector matching and set-rule targeting.
type ElementKind string

const (
	KindSequence ElementKind = "sequence"
	KindStyled   ElementKind = "styled"
	KindText     ElementKind = "text"
	KindSpace    ElementKind = "space"
	KindLinebreak ElementKind = "linebreak"
	KindParagraph ElementKind = "paragraph"
	KindHeading  ElementKind = "heading"
	KindFigure   ElementKind = "figure"
	KindEmph     ElementKind = "emph"
	KindStrong   ElementKind = "strong"
)

// Capability flags an element implements. The core never inspects kind to
// decide capability; it asks the registered ElementDef (open polymorphism,
// §9: "a capability_id -> fn-pointer table registered per element kind").
type Capability int

const (
	CapLocatable Capability = 1 << iota
	CapSynthesize
	CapShow
	CapFinalize
	CapBehave
	CapPlainText
)

// Synthesizer fills in derived fields before first use (§4.1 step 2).
type Synthesizer func(c Content, chain *StyleChain) Content

// Shower produces the element's default visual form when no recipe
// matched (§4.1 "Base Show").
type Shower func(c Content, chain *StyleChain) Content

// Finalizer wraps a realized, pristine result so the effect survives user
// show rules (§4.1 "Finalize").
type Finalizer func(realized Content, chain *StyleChain) Content

// PlainTextExtractor extracts the element's textual content, used by
// regex recipes and hyphenation to look through wrapper elements.
type PlainTextExtractor func(c Content) string

// ElementDef is the per-kind vtable: the "capability_id -> fn-pointer
// table" the design notes call for instead of deep inheritance.
type ElementDef struct {
	Kind         ElementKind
	Capabilities Capability
	Synthesize   Synthesizer
	Show         Shower
	Finalize     Finalizer
	PlainText    PlainTextExtractor
}

var registry = map[ElementKind]*ElementDef{}

// RegisterElement installs (or replaces) the vtable for a kind. Called
// once per kind at package init; the language-items table (§9) is the
// only other process-wide state and follows the same discipline.
func RegisterElement(def *ElementDef) {
	registry[def.Kind] = def
}

func LookupElement(kind ElementKind) *ElementDef {
	return registry[kind]
}

func (k ElementKind) Has(cap Capability) bool {
	def := registry[k]
	return def != nil && def.Capabilities&cap != 0
}

// Content is the immutable, copy-on-write tree node described in §3.1.
// Mutation always goes through With* builder methods that return a new
// value; the zero value is the empty sequence.
type Content struct {
	inner *contentInner
}

type contentInner struct {
	Kind     ElementKind
	Fields   map[string]Value
	FieldOrd []string // preserves field insertion order for stable hashing/display
	Span     Span
	Label    *string
	Location *Location
	Guards   map[int]bool // recipe numbers that must not re-match this node
	Prepared bool

	// Privileged kinds carry their payload directly instead of through Fields.
	Sequence []Content
	Styled   *StyledPayload
}

// StyledPayload is the payload of the privileged styled-wrapper kind.
type StyledPayload struct {
	Child  Content
	Styles StyleMap
}

// Span is an opaque back-reference to a source location, used only for
// diagnostics; the core never interprets its contents.
type Span struct {
	FileID uint64
	Start  uint32
	End    uint32
}

func (s Span) IsDetached() bool { return s == Span{} }

// NewContent creates a leaf content node of the given kind with fields.
func NewContent(kind ElementKind, fields map[string]Value) Content {
	ord := make([]string, 0, len(fields))
	for k := range fields {
		ord = append(ord, k)
	}
	sort.Strings(ord)
	return Content{inner: &contentInner{Kind: kind, Fields: fields, FieldOrd: ord}}
}

// Empty is the identity element for sequence concatenation.
func Empty() Content { return Content{inner: &contentInner{Kind: KindSequence}} }

func (c Content) IsEmpty() bool {
	return c.inner == nil || (c.inner.Kind == KindSequence && len(c.inner.Sequence) == 0 && c.inner.Label == nil)
}

func (c Content) Kind() ElementKind {
	if c.inner == nil {
		return KindSequence
	}
	return c.inner.Kind
}

func (c Content) Field(name string) (Value, bool) {
	if c.inner == nil || c.inner.Fields == nil {
		return nil, false
	}
	v, ok := c.inner.Fields[name]
	return v, ok
}

func (c Content) Label() *string {
	if c.inner == nil {
		return nil
	}
	return c.inner.Label
}

func (c Content) Location() *Location {
	if c.inner == nil {
		return nil
	}
	return c.inner.Location
}

func (c Content) Span() Span {
	if c.inner == nil {
		return Span{}
	}
	return c.inner.Span
}

func (c Content) Prepared() bool {
	return c.inner != nil && c.inner.Prepared
}

func (c Content) Guarded(recipe int) bool {
	return c.inner != nil && c.inner.Guards[recipe]
}

// clone returns a shallow copy-on-write duplicate of the inner node.
func (c Content) clone() *contentInner {
	if c.inner == nil {
		return &contentInner{Kind: KindSequence}
	}
	cp := *c.inner
	if c.inner.Fields != nil {
		cp.Fields = make(map[string]Value, len(c.inner.Fields))
		for k, v := range c.inner.Fields {
			cp.Fields[k] = v
		}
	}
	if c.inner.Guards != nil {
		cp.Guards = make(map[int]bool, len(c.inner.Guards))
		for k, v := range c.inner.Guards {
			cp.Guards[k] = v
		}
	}
	if c.inner.Sequence != nil {
		cp.Sequence = append([]Content(nil), c.inner.Sequence...)
	}
	return &cp
}

func (c Content) WithField(name string, v Value) Content {
	cp := c.clone()
	if cp.Fields == nil {
		cp.Fields = map[string]Value{}
	}
	if _, exists := cp.Fields[name]; !exists {
		cp.FieldOrd = append(append([]string(nil), cp.FieldOrd...), name)
	}
	cp.Fields[name] = v
	return Content{inner: cp}
}

func (c Content) WithLabel(label string) Content {
	cp := c.clone()
	cp.Label = &label
	return Content{inner: cp}
}

func (c Content) WithSpan(s Span) Content {
	cp := c.clone()
	cp.Span = s
	return Content{inner: cp}
}

// WithLocationForRealizer/WithPreparedForRealizer/WithGuardForRealizer
// mutate fields the realizer owns exclusively (§4.1's preparation pass
// and guard bookkeeping); they are named distinctly from the With*
// builder methods evaluators use so call sites make the distinction
// between "user-constructed field" and "realizer bookkeeping" obvious.
func (c Content) WithLocationForRealizer(loc Location) Content {
	cp := c.clone()
	cp.Location = &loc
	return Content{inner: cp}
}

func (c Content) WithPreparedForRealizer() Content {
	cp := c.clone()
	cp.Prepared = true
	return Content{inner: cp}
}

func (c Content) WithGuardForRealizer(recipe int) Content {
	cp := c.clone()
	if cp.Guards == nil {
		cp.Guards = map[int]bool{}
	}
	cp.Guards[recipe] = true
	return Content{inner: cp}
}

// Plus concatenates two content nodes into a sequence. Associative, with
// Empty() as identity; flattening is lazy (§3.1) -- nested sequences are
// appended as children, not eagerly merged.
func (c Content) Plus(other Content) Content {
	if c.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return c
	}
	return Sequence(c, other)
}

// Sequence builds the privileged ordered-list-of-children kind.
func Sequence(children ...Content) Content {
	return Content{inner: &contentInner{Kind: KindSequence, Sequence: children}}
}

// Children returns the direct children of a sequence, or a one-element
// slice containing the receiver for any other kind.
func (c Content) Children() []Content {
	if c.inner != nil && c.inner.Kind == KindSequence {
		return c.inner.Sequence
	}
	return []Content{c}
}

// Styled wraps a child with an attached style map (the other privileged
// kind, §3.1).
func Styled(child Content, styles StyleMap) Content {
	return Content{inner: &contentInner{Kind: KindStyled, Styled: &StyledPayload{Child: child, Styles: styles}}}
}

func (c Content) AsStyled() (*StyledPayload, bool) {
	if c.inner != nil && c.inner.Kind == KindStyled {
		return c.inner.Styled, true
	}
	return nil, false
}

// Equal is structural equality over kind and fields, excluding Span
// (§3.1 invariant). Label participates since it affects observable
// identity; Location does not, matching StructuralHash.
func (c Content) Equal(o Content) bool {
	if c.inner == nil && o.inner == nil {
		return true
	}
	if c.inner == nil || o.inner == nil {
		return false
	}
	if c.inner.Kind != o.inner.Kind {
		return false
	}
	if (c.inner.Label == nil) != (o.inner.Label == nil) {
		return false
	}
	if c.inner.Label != nil && *c.inner.Label != *o.inner.Label {
		return false
	}
	switch c.inner.Kind {
	case KindSequence:
		if len(c.inner.Sequence) != len(o.inner.Sequence) {
			return false
		}
		for i := range c.inner.Sequence {
			if !c.inner.Sequence[i].Equal(o.inner.Sequence[i]) {
				return false
			}
		}
		return true
	case KindStyled:
		return c.inner.Styled.Child.Equal(o.inner.Styled.Child) &&
			sameStyleMapEntries(c.inner.Styled.Styles, o.inner.Styled.Styles)
	}
	if len(c.inner.Fields) != len(o.inner.Fields) {
		return false
	}
	for k, v := range c.inner.Fields {
		ov, ok := o.inner.Fields[k]
		if !ok || !Equal(v, ov) {
			return false
		}
	}
	return true
}

// StructuralHash combines kind and field values into the 128-bit-class
// identity hash used for locations (§3.4). We use two independent 64-bit
// maphash seeds to approximate the low collision rate of a true 128-bit
// hash while staying in the standard library.
func (c Content) StructuralHash() [2]uint64 {
	var h1, h2 maphash.Hash
	h1.SetSeed(hashSeedA)
	h2.SetSeed(hashSeedB)
	hashContentInto(&h1, c)
	hashContentInto(&h2, c)
	return [2]uint64{h1.Sum64(), h2.Sum64()}
}

var hashSeedA = maphash.MakeSeed()
var hashSeedB = maphash.MakeSeed()

func hashContentInto(h *maphash.Hash, c Content) {
	if c.inner == nil {
		h.WriteString("<nil>")
		return
	}
	h.WriteString(string(c.inner.Kind))
	if c.inner.Label != nil {
		h.WriteByte(1)
		h.WriteString(*c.inner.Label)
	}
	switch c.inner.Kind {
	case KindSequence:
		for _, ch := range c.inner.Sequence {
			hashContentInto(h, ch)
		}
	case KindStyled:
		hashContentInto(h, c.inner.Styled.Child)
	default:
		for _, name := range c.inner.FieldOrd {
			h.WriteString(name)
			hashValueInto(h, c.inner.Fields[name])
		}
	}
}

func hashValueInto(h *maphash.Hash, v Value) {
	switch vv := v.(type) {
	case StrValue:
		h.WriteString(string(vv))
	case ContentValue:
		hashContentInto(h, vv.Content)
	case ArrayValue:
		for _, e := range vv {
			hashValueInto(h, e)
		}
	default:
		h.WriteString(fmt.Sprintf("%v", v))
	}
}
