// Package frame implements the laid-out output unit of the pipeline
// (§3.5): a sized, copy-on-write list of positioned items, plus the frame
// operations required by §4.5 (push/inline, translate, resize, transform/
// clip, fill, meta attachment).
//
// Grounded on the teacher's layout/frame.go (encapsulated-field style,
// richer FrameItem variant set) and layout/types.go (Frame.Baseline,
// geometry reuse) -- the two teacher files defined incompatible duplicate
// Frame types in the same package; this package reconciles them into one.
package frame

import (
	"fmt"

	"github.com/mkallio/typeset/foundations"
)

// Kind distinguishes frames that are transparent to gradient/pattern
// coordinate systems (soft) from ones that establish a new reference
// (hard). Per §9's open question, gradients themselves are not
// implemented by this core; the Kind distinction is kept because §3.5
// requires it and push_frame's inlining decision (§4.5) depends on it.
type Kind int

const (
	KindSoft Kind = iota
	KindHard
)

// Frame is the laid-out output unit (§3.5).
type Frame struct {
	size     foundations.Size
	baseline *foundations.Abs
	kind     Kind
	items    []Positioned
}

// Positioned pairs a frame item with its position within the parent.
type Positioned struct {
	Pos  foundations.Point
	Item Item
}

// Item is one of Group, Text, Shape, Image, Meta (§3.5).
type Item interface {
	isFrameItem()
	// Bounds is the item's own size, used by invariant 1 (§8): every
	// positioned item must fit within the frame unless it is a clipping
	// or intentionally oversized group.
	Bounds() foundations.Size
}

func New(size foundations.Size) *Frame {
	return &Frame{size: size, kind: KindSoft}
}

func NewHard(size foundations.Size) *Frame {
	return &Frame{size: size, kind: KindHard}
}

func (f *Frame) Size() foundations.Size { return f.size }
func (f *Frame) Width() foundations.Abs  { return f.size.Width }
func (f *Frame) Height() foundations.Abs { return f.size.Height }

func (f *Frame) SetSize(size foundations.Size) { f.size = size }

func (f *Frame) Baseline() foundations.Abs {
	if f.baseline != nil {
		return *f.baseline
	}
	return f.size.Height
}

func (f *Frame) HasBaseline() bool { return f.baseline != nil }

func (f *Frame) SetBaseline(b foundations.Abs) { f.baseline = &b }

func (f *Frame) Kind() Kind        { return f.kind }
func (f *Frame) SetKind(k Kind)    { f.kind = k }
func (f *Frame) IsEmpty() bool     { return len(f.items) == 0 }
func (f *Frame) Items() []Positioned {
	return f.items
}

// mutate clones the item slice before a mutation, implementing the
// copy-on-write discipline of §4.5. Because Go slices don't carry a
// refcount, sharing is not tracked: every mutation clones, so a slice
// previously handed out via Items() is never changed in place; reads
// through Items() never trigger a clone.
func (f *Frame) mutate() {
	f.items = append([]Positioned(nil), f.items...)
}

// Push appends an item at the given position (painter's order, §3.5).
func (f *Frame) Push(pos foundations.Point, item Item) {
	f.mutate()
	f.items = append(f.items, Positioned{Pos: pos, Item: item})
}

// Prepend inserts an item before all existing items -- used by Fill to
// paint a background shape beneath existing content.
func (f *Frame) Prepend(pos foundations.Point, item Item) {
	f.mutate()
	f.items = append([]Positioned{{Pos: pos, Item: item}}, f.items...)
}

// inlineThreshold is the heuristic item-count cutoff below which a soft
// child frame is flattened into its parent rather than wrapped in a
// Group (§4.5, §9 open question: "no principled derivation is given").
const inlineThreshold = 5

// PushFrame adds a subframe at pos, inlining it directly into the
// parent's item list when it is soft and small (§4.5), otherwise wrapping
// it in a Group.
func (f *Frame) PushFrame(pos foundations.Point, child *Frame) {
	if child.kind == KindSoft && len(child.items) <= inlineThreshold {
		f.mutate()
		for _, it := range child.items {
			f.items = append(f.items, Positioned{Pos: pos.Add(it.Pos), Item: it.Item})
		}
		return
	}
	f.Push(pos, &Group{Child: child, Transform: foundations.Identity()})
}

// PushFrameGroup always wraps, regardless of inlining eligibility --
// used when the caller needs a stable group to attach a transform/clip.
func (f *Frame) PushFrameGroup(pos foundations.Point, child *Frame, transform foundations.Transform, clip Shape) {
	f.Push(pos, &Group{Child: child, Transform: transform, Clip: clip})
}

// Translate shifts the baseline and every item position by offset.
func (f *Frame) Translate(offset foundations.Point) {
	if offset.IsZero() {
		return
	}
	if f.baseline != nil {
		b := *f.baseline + offset.Y
		f.baseline = &b
	}
	f.mutate()
	for i := range f.items {
		f.items[i].Pos = f.items[i].Pos.Add(offset)
	}
}

// Resize grows or shrinks the frame to a new size, distributing the
// delta between existing content according to a 2D alignment (§4.5).
func (f *Frame) Resize(size foundations.Size, align foundations.Alignment) {
	dx := size.Width - f.size.Width
	dy := size.Height - f.size.Height
	offset := foundations.Point{
		X: alignOffset(align.X, dx),
		Y: alignOffsetV(align.Y, dy),
	}
	f.Translate(offset)
	f.size = size
}

func alignOffset(a foundations.HAlign, delta foundations.Abs) foundations.Abs {
	switch a {
	case foundations.HAlignCenter:
		return delta / 2
	case foundations.HAlignEnd, foundations.HAlignRight:
		return delta
	default:
		return 0
	}
}

func alignOffsetV(a foundations.VAlign, delta foundations.Abs) foundations.Abs {
	switch a {
	case foundations.VAlignHorizon:
		return delta / 2
	case foundations.VAlignBottom:
		return delta
	default:
		return 0
	}
}

// Group is {child-frame, transform, optional clip-path} (§3.5).
type Group struct {
	Child     *Frame
	Transform foundations.Transform
	Clip      Shape // nil if unclipped
}

func (*Group) isFrameItem() {}
func (g *Group) Bounds() foundations.Size { return g.Child.size }

// Transform wraps the frame's current contents in a new Group item
// carrying the given transform, composing multiplicatively with any
// existing outer transform when nested (§3.5 invariant).
func (f *Frame) Transform(t foundations.Transform) {
	inner := &Frame{size: f.size, baseline: f.baseline, kind: f.kind, items: f.items}
	f.items = nil
	f.mutate()
	f.items = []Positioned{{Pos: foundations.Point{}, Item: &Group{Child: inner, Transform: t}}}
}

// ClipTo wraps the frame's contents in a Group carrying a clip path.
func (f *Frame) ClipTo(shape Shape) {
	inner := &Frame{size: f.size, baseline: f.baseline, kind: f.kind, items: f.items}
	f.items = []Positioned{{Pos: foundations.Point{}, Item: &Group{Child: inner, Transform: foundations.Identity(), Clip: shape}}}
}

// Glyph is one positioned glyph within a Text item (§3.5, §3.6).
type Glyph struct {
	GlyphID       uint16
	XAdvance      foundations.Abs
	XOffset       foundations.Abs
	YOffset       foundations.Abs
	SourceRange   [2]int // byte range into the shaped text's source slice
	SourceSpan    foundations.Span
}

// Text is {font, size, fill, language, plain-text, glyph-run} (§3.5).
type Text struct {
	Font      FontRef
	Size      foundations.Abs
	Fill      Paint
	Lang      string
	PlainText string
	Glyphs    []Glyph
}

func (*Text) isFrameItem() {}
func (t *Text) Bounds() foundations.Size {
	var w foundations.Abs
	for _, g := range t.Glyphs {
		w += g.XAdvance
	}
	return foundations.Size{Width: w, Height: t.Size}
}

// FontRef is an opaque handle into the font provider (§4.7); the frame
// layer never inspects it beyond passing it to a renderer.
type FontRef interface{}

// Paint is what a Shape or Text item is filled/stroked with. Only solid
// colors are modeled; gradients are explicitly out of scope (§9).
type Paint struct {
	Color foundations.Color
}

// Shape is one of line, rect, path (§3.5).
type Shape interface {
	isShape()
}

type RectShape struct {
	Size   foundations.Size
	Radius foundations.Corners[foundations.Abs]
}

func (RectShape) isShape() {}

type LineShape struct {
	Start, End foundations.Point
}

func (LineShape) isShape() {}

type PathShape struct {
	// Segments is a flattened list of path points; curve commands are
	// expected to already be tessellated by the caller.
	Segments []foundations.Point
	Closed   bool
}

func (PathShape) isShape() {}

// ShapeItem is {geometry, optional fill, optional stroke} (§3.5).
type ShapeItem struct {
	Geometry Shape
	Fill     *Paint
	Stroke   *Stroke
}

func (*ShapeItem) isFrameItem() {}
func (s *ShapeItem) Bounds() foundations.Size {
	switch g := s.Geometry.(type) {
	case RectShape:
		return g.Size
	default:
		return foundations.Size{}
	}
}

type Stroke struct {
	Paint     Paint
	Thickness foundations.Abs
	DashArray []foundations.Abs
	DashPhase foundations.Abs
}

// Image is {image, size} (§3.5).
type Image struct {
	Data []byte // opaque, supplied by the (out-of-scope) image decoder
	Size foundations.Size
}

func (*Image) isFrameItem() {}
func (img *Image) Bounds() foundations.Size { return img.Size }

// MetaKind distinguishes the Meta payload variants (§3.5).
type MetaKind int

const (
	MetaLink MetaKind = iota
	MetaElement
	MetaPageNumbering
	MetaHidden
)

// Meta is {metadata, region} (§3.5): zero visual output, carries
// introspection metadata. `meta` items of kind MetaElement must carry a
// location (invariant enforced by the realizer, §3.5).
type Meta struct {
	MetaKind MetaKind
	Location *foundations.Location // set when MetaKind == MetaElement
	LinkDest string                // set when MetaKind == MetaLink
	PageNumbering foundations.Value // set when MetaKind == MetaPageNumbering
	Region   foundations.Size
}

func (*Meta) isFrameItem() {}
func (m *Meta) Bounds() foundations.Size { return foundations.Size{} }

// FillRect prepends a solid rectangle covering the frame's bounds,
// optionally stroked, per §4.5 "Fill / fill-and-stroke".
func (f *Frame) FillRect(fill *Paint, stroke *Stroke, radius foundations.Corners[foundations.Abs]) {
	f.Prepend(foundations.Point{}, &ShapeItem{
		Geometry: RectShape{Size: f.size, Radius: radius},
		Fill:     fill,
		Stroke:   stroke,
	})
}

// AttachMeta copies a metadata entry into a zero-sized Meta item at the
// origin, per §4.5 "Meta attachment".
func (f *Frame) AttachMeta(m *Meta) {
	f.Push(foundations.Point{}, m)
}

// Hide removes all non-structural items (Text, Shape, Image, and Meta
// items other than element markers) while preserving Group and
// element-marker Meta items, per §4.5's Hide sentinel semantics.
func (f *Frame) Hide() {
	f.mutate()
	kept := f.items[:0]
	for _, it := range f.items {
		switch v := it.Item.(type) {
		case *Group:
			kept = append(kept, it)
		case *Meta:
			if v.MetaKind == MetaElement {
				kept = append(kept, it)
			}
		}
	}
	f.items = kept
}

func (f *Frame) String() string {
	return fmt.Sprintf("Frame(%gx%g, %d items)", f.size.Width, f.size.Height, len(f.items))
}

// Fragment is a sequence of frames produced when content spans multiple
// regions (pages).
type Fragment struct {
	Frames []*Frame
}

func NewFragment(frames ...*Frame) Fragment { return Fragment{Frames: frames} }
func (f Fragment) Len() int                 { return len(f.Frames) }
func (f Fragment) IsEmpty() bool            { return len(f.Frames) == 0 }
func (f Fragment) First() *Frame {
	if len(f.Frames) == 0 {
		return nil
	}
	return f.Frames[0]
}
func (f Fragment) Last() *Frame {
	if len(f.Frames) == 0 {
		return nil
	}
	return f.Frames[len(f.Frames)-1]
}
