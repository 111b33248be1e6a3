// Package playout implements paragraph layout (§4.3): breakpoint
// enumeration, the Simple and Optimized line-breaking strategies, and
// line assembly with justification and hanging punctuation.
//
// Grounded on the teacher's layout/inline package (types.go, linebreak.go,
// finalize.go), generalized per the spec in two ways the teacher did
// not need: breakpoints come from true UAX#14 segmentation via
// github.com/rivo/uniseg rather than ad hoc space/bidi-class checks, and
// the DP cost model is replaced with the spec's exact §4.3.4 formula.
// Assemble returns one frame per line; it does not stack the lines into
// region frames (§4.3.6).
package playout

import (
	"github.com/mkallio/typeset/foundations"
	"github.com/mkallio/typeset/shaping"
)

type Abs = foundations.Abs

// Item is one atomic unit of inline content after shaping (§4.3).
type Item interface {
	isItem()
	NaturalWidth() Abs
	Textual() string
}

// TextItem wraps a shaped glyph run.
type TextItem struct{ Shaped *shaping.ShapedText }

func (*TextItem) isItem() {}
func (t *TextItem) NaturalWidth() Abs {
	if t.Shaped == nil {
		return 0
	}
	return t.Shaped.Width()
}
func (t *TextItem) Textual() string {
	if t.Shaped == nil {
		return ""
	}
	return t.Shaped.Text
}

// AbsoluteItem is fixed-size spacing (e.g. explicit h()).
type AbsoluteItem struct {
	Amount Abs
	Weak   bool
}

func (*AbsoluteItem) isItem()           {}
func (a *AbsoluteItem) NaturalWidth() Abs { return a.Amount }
func (*AbsoluteItem) Textual() string    { return " " }

// FractionalItem is `fr`-unit spacing resolved only once the line's
// final width is known (§3.1 Fraction).
type FractionalItem struct{ Amount foundations.Fraction }

func (*FractionalItem) isItem()           {}
func (*FractionalItem) NaturalWidth() Abs { return 0 }
func (*FractionalItem) Textual() string   { return " " }

// InlineFrameItem is a laid-out inline-level child (an inline figure,
// box, or similar atomic frame spliced into the paragraph).
type InlineFrameItem struct {
	Width Abs
	Frame interface{} // *frame.Frame, held untyped
}

func (*InlineFrameItem) isItem()           {}
func (f *InlineFrameItem) NaturalWidth() Abs { return f.Width }
func (*InlineFrameItem) Textual() string    { return "￼" }

// TagItem marks a zero-size location anchor (meta marker, §4.1) spliced
// into the item stream so introspection queries can find it mid-paragraph.
type TagItem struct{ Location foundations.Location }

func (*TagItem) isItem()           {}
func (*TagItem) NaturalWidth() Abs { return 0 }
func (*TagItem) Textual() string   { return "" }

// Dash records what kind of break ends a line (§4.3.5 hyphen/dash rules).
type Dash int

const (
	DashNone Dash = iota
	DashSoft
	DashHard
	DashOther
)

// Line is one laid-out line of inline items prior to final assembly.
type Line struct {
	Items   []Item
	Width   Abs
	Justify bool
	Dash    Dash
}

func EmptyLine() Line { return Line{} }

func (l *Line) Justifiables() int {
	n := 0
	var lastShaped *shaping.ShapedText
	for _, it := range l.Items {
		if ti, ok := it.(*TextItem); ok && ti.Shaped != nil {
			n += ti.Shaped.Justifiables()
			lastShaped = ti.Shaped
		}
	}
	// A CJK character sitting at the very end of a line is not treated as
	// a justification point.
	if lastShaped != nil && len(lastShaped.Glyphs) > 0 {
		last := lastShaped.Glyphs[len(lastShaped.Glyphs)-1]
		if last.IsJustifiable && isCJKChar(last.Char) {
			n--
		}
	}
	return n
}

func isCJKChar(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3040 && r <= 0x30FF) || (r >= 0xAC00 && r <= 0xD7A3)
}

func (l *Line) Stretchability() Abs {
	var t Abs
	for _, it := range l.Items {
		if ti, ok := it.(*TextItem); ok && ti.Shaped != nil {
			t += ti.Shaped.Stretchability()
		}
	}
	return t
}

func (l *Line) Shrinkability() Abs {
	var t Abs
	for _, it := range l.Items {
		if ti, ok := it.(*TextItem); ok && ti.Shaped != nil {
			t += ti.Shaped.Shrinkability()
		}
	}
	return t
}

func (l *Line) HasNegativeWidthItems() bool {
	for _, it := range l.Items {
		switch v := it.(type) {
		case *AbsoluteItem:
			if v.Amount < 0 {
				return true
			}
		case *InlineFrameItem:
			if v.Width < 0 {
				return true
			}
		}
	}
	return false
}

func (l *Line) Fr() foundations.Fraction {
	var total foundations.Fraction
	for _, it := range l.Items {
		if fi, ok := it.(*FractionalItem); ok {
			total += fi.Amount
		}
	}
	return total
}

// Strategy selects the line-breaking algorithm (§4.3.2).
type Strategy int

const (
	StrategySimple Strategy = iota
	StrategyOptimized
)

// Config is the resolved, per-paragraph style-chain projection that the
// breaking and assembly stages need (§4.3).
type Config struct {
	Justify         bool
	Strategy        Strategy
	FirstLineIndent Abs
	HangingIndent   Abs
	Align           foundations.HAlign
	FontSize        Abs
	Dir             foundations.Dir
	Hyphenate       *bool
	Lang            string
	Fallback        bool
	CJKLatinSpacing bool
	Costs           Costs
	LineSpacing     Abs
	LeadingAbove     Abs
}

// Costs holds factors for the two tunable penalty families of §4.3.4
// (hyphenation and runts); the cost model in cost.go does not read them.
type Costs struct {
	Hyphenation float64
	Runt        float64
}

func DefaultCosts() Costs { return Costs{Hyphenation: 1, Runt: 1} }

// PreparedItem associates a byte range in the paragraph's plain text with
// the item that produced it.
type PreparedItem struct {
	Range Range
	Item  Item
}

type Range struct{ Start, End int }

func (r Range) Len() int { return r.End - r.Start }

// Preparation is the input to line breaking: the flattened paragraph
// text, its items, and the resolved config.
type Preparation struct {
	Text   string
	Items  []PreparedItem
	Config *Config
}

func (p *Preparation) Get(offset int) (Range, Item) {
	for _, pi := range p.Items {
		if offset >= pi.Range.Start && offset < pi.Range.End {
			return pi.Range, pi.Item
		}
	}
	if len(p.Items) > 0 && offset == len(p.Text) {
		last := p.Items[len(p.Items)-1]
		return last.Range, last.Item
	}
	return Range{}, nil
}
