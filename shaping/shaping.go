// Package shaping implements the text shaper (§4.4): text to glyph runs
// with family fallback, bidi-segmented shaping, and safe-to-break
// bookkeeping for cheap reshape-from-substring (§4.4.1).
//
// Grounded on the teacher's layout/inline/shaping.go, which wraps
// github.com/go-text/typesetting's HarfbuzzShaper exactly as this core
// needs to. Two things the teacher's version simplified are replaced with
// real implementations here: safe-to-break was hardcoded `true` for every
// glyph (we derive it from cluster boundaries instead, since the shaper
// library used here does not expose HarfBuzz's own flag), and tracking
// and font features were hardcoded (here they are taken from the Context
// the caller builds; this package does not read the style chain).
package shaping

import (
	"sync"
	"unicode"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/mkallio/typeset/foundations"
)

const (
	SHY      = '­'
	ZWSP     = '​'
	Hyphen   = '-'
)

// Range is a half-open byte range into the original text.
type Range struct{ Start, End int }

func (r Range) Contains(i int) bool { return i >= r.Start && i < r.End }

// Adjustability records how much a glyph's advance may stretch or
// shrink during justification (§4.3.5), split into before/after the
// glyph so consecutive justifiable glyphs don't double-count shared
// space.
type Adjustability struct {
	Stretch [2]foundations.Em
	Shrink  [2]foundations.Em
}

// Glyph is one shaped glyph with its source bookkeeping (§3.6).
type Glyph struct {
	Font          *font.Face
	GlyphID       uint32
	XAdvance      foundations.Em
	XOffset       foundations.Em
	YOffset       foundations.Em
	Size          foundations.Abs
	Adjustability Adjustability
	Range         Range // source byte range producing this glyph (cluster)
	SafeToBreak   bool
	Char          rune
	IsJustifiable bool
	Script        language.Script
}

func (g *Glyph) IsSpace() bool { return unicode.IsSpace(g.Char) }

func (g *Glyph) Stretchability() foundations.Em {
	return g.Adjustability.Stretch[0] + g.Adjustability.Stretch[1]
}

func (g *Glyph) Shrinkability() foundations.Em {
	return g.Adjustability.Shrink[0] + g.Adjustability.Shrink[1]
}

// ShapedText is a glyph run plus bookkeeping (§3.6).
type ShapedText struct {
	Text     string // the source slice that was shaped
	Base     int    // byte offset of Text within the logical paragraph string
	Dir      foundations.Dir
	Lang     language.Language
	Script   language.Script
	Variant  Variant
	Glyphs   []Glyph
}

func (s *ShapedText) Width() foundations.Abs {
	var w foundations.Abs
	for _, g := range s.Glyphs {
		w += g.XAdvance.At(g.Size)
	}
	return w
}

func (s *ShapedText) Justifiables() int {
	n := 0
	for _, g := range s.Glyphs {
		if g.IsJustifiable {
			n++
		}
	}
	return n
}

func (s *ShapedText) Stretchability() foundations.Abs {
	var t foundations.Abs
	for _, g := range s.Glyphs {
		t += g.Stretchability().At(g.Size)
	}
	return t
}

func (s *ShapedText) Shrinkability() foundations.Abs {
	var t foundations.Abs
	for _, g := range s.Glyphs {
		t += g.Shrinkability().At(g.Size)
	}
	return t
}

func (s *ShapedText) Empty() bool { return len(s.Glyphs) == 0 }

// Variant is the style x weight x stretch triple resolved from the style
// chain (§4.4 step 2), kept distinct from font.Variant so the shaper
// package has no dependency on the font package's matching logic.
type Variant struct {
	Style   font.Style
	Weight  float32
	Stretch float32
}

// Context bundles everything Shape needs that is expensive to
// reconstruct per call: the shaper instance and the candidate faces.
type Context struct {
	Shaper   *shaping.HarfbuzzShaper
	Faces    []*font.Face
	Variant  Variant
	Features []shaping.FontFeature
	Fallback bool
	Tracking foundations.Em

	mu sync.Mutex
}

func NewContext(faces []*font.Face, variant Variant, features []shaping.FontFeature, fallback bool, tracking foundations.Em) *Context {
	return &Context{
		Shaper:   &shaping.HarfbuzzShaper{},
		Faces:    faces,
		Variant:  variant,
		Features: features,
		Fallback: fallback,
		Tracking: tracking,
	}
}

// Shape runs the full §4.4 algorithm over one already bidi-homogeneous
// segment of text (case transform and variant resolution are expected to
// already be baked into ctx by the caller, steps 1-3).
func (ctx *Context) Shape(base int, text string, dir foundations.Dir, lang language.Language) *ShapedText {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	script := detectScript(text)
	var glyphs []Glyph
	if isIgnorableOnly(text) {
		// nothing to shape
	} else {
		glyphs = ctx.shapeSegment(text, dir, lang, script, 0)
	}
	trackAndSpace(glyphs, ctx.Tracking)
	calculateAdjustability(glyphs)

	return &ShapedText{Text: text, Base: base, Dir: dir, Lang: lang, Script: script, Variant: ctx.Variant, Glyphs: glyphs}
}

// shapeSegment shapes text with the first face (in ctx.Faces) able to
// cover it, falling back into tofu-run recursion exactly as §4.4 step 4
// describes.
func (ctx *Context) shapeSegment(text string, dir foundations.Dir, lang language.Language, script language.Script, faceIdx int) []Glyph {
	if faceIdx >= len(ctx.Faces) {
		return ctx.shapeTofus(text, dir)
	}
	face := ctx.Faces[faceIdx]

	hbDir := di.DirectionLTR
	if dir == foundations.DirRTL {
		hbDir = di.DirectionRTL
	}

	input := shaping.Input{
		Text:         []rune(text),
		RunStart:     0,
		RunEnd:       len([]rune(text)),
		Face:         face,
		Size:         fixed.I(1000),
		Script:       script,
		Language:     lang,
		Direction:    hbDir,
		FontFeatures: ctx.Features,
	}

	out := ctx.Shaper.Shape(input)

	runes := []rune(text)
	byteOffsets := runeByteOffsets(text)

	glyphs := make([]Glyph, 0, len(out.Glyphs))
	hasTofu := false
	for i, g := range out.Glyphs {
		if g.GlyphID == 0 && faceIdx+1 < len(ctx.Faces) {
			hasTofu = true
			break
		}
		start := byteOffsets[g.ClusterIndex]
		end := len(text)
		if g.ClusterIndex+1 < len(byteOffsets) {
			end = byteOffsets[g.ClusterIndex+1]
		}
		safe := isClusterBoundarySafe(out.Glyphs, i)
		glyphs = append(glyphs, Glyph{
			Font:        face,
			GlyphID:     g.GlyphID,
			XAdvance:    foundations.Em(fixedToFloat(g.XAdvance) / 1000),
			XOffset:     foundations.Em(fixedToFloat(g.XOffset) / 1000),
			YOffset:     foundations.Em(fixedToFloat(g.YOffset) / 1000),
			Range:       Range{Start: start, End: end},
			SafeToBreak: safe,
			Char:        charAt(runes, g.ClusterIndex),
			Script:      script,
		})
	}
	if !hasTofu {
		return glyphs
	}

	// A tofu was hit: find the maximal contiguous tofu run and recurse
	// into the remaining family iterator for that run only, per §4.4
	// step 4's "extend the tofu run to maximal length" rule.
	return ctx.shapeWithTofuFallback(text, dir, lang, script, faceIdx, face, input)
}

func (ctx *Context) shapeWithTofuFallback(text string, dir foundations.Dir, lang language.Language, script language.Script, faceIdx int, face *font.Face, input shaping.Input) []Glyph {
	out := ctx.Shaper.Shape(input)
	byteOffsets := runeByteOffsets(text)
	runes := []rune(text)

	var glyphs []Glyph
	i := 0
	for i < len(out.Glyphs) {
		g := out.Glyphs[i]
		if g.GlyphID != 0 {
			start := byteOffsets[g.ClusterIndex]
			end := len(text)
			if g.ClusterIndex+1 < len(byteOffsets) {
				end = byteOffsets[g.ClusterIndex+1]
			}
			glyphs = append(glyphs, Glyph{
				Font: face, GlyphID: g.GlyphID,
				XAdvance: foundations.Em(fixedToFloat(g.XAdvance) / 1000),
				XOffset:  foundations.Em(fixedToFloat(g.XOffset) / 1000),
				YOffset:  foundations.Em(fixedToFloat(g.YOffset) / 1000),
				Range:    Range{Start: start, End: end}, SafeToBreak: isClusterBoundarySafe(out.Glyphs, i),
				Char: charAt(runes, g.ClusterIndex), Script: script,
			})
			i++
			continue
		}
		// extend tofu run maximally
		j := i
		for j < len(out.Glyphs) && out.Glyphs[j].GlyphID == 0 {
			j++
		}
		runStart := byteOffsets[out.Glyphs[i].ClusterIndex]
		runEnd := len(text)
		if j < len(out.Glyphs) {
			runEnd = byteOffsets[out.Glyphs[j].ClusterIndex]
		}
		sub := text[runStart:runEnd]
		glyphs = append(glyphs, ctx.shapeSegment(sub, dir, lang, script, faceIdx+1)...)
		i = j
	}
	return glyphs
}

func (ctx *Context) shapeTofus(text string, dir foundations.Dir) []Glyph {
	runes := []rune(text)
	offsets := runeByteOffsets(text)
	glyphs := make([]Glyph, 0, len(runes))
	order := make([]int, len(runes))
	for i := range order {
		order[i] = i
	}
	if !dir.IsPositive() {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}
	for _, i := range order {
		end := len(text)
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		glyphs = append(glyphs, Glyph{
			GlyphID: 0, XAdvance: 0.5, Range: Range{Start: offsets[i], End: end},
			SafeToBreak: true, Char: runes[i],
		})
	}
	return glyphs
}

func trackAndSpace(glyphs []Glyph, tracking foundations.Em) {
	if tracking == 0 {
		return
	}
	for i := 1; i < len(glyphs); i++ {
		if glyphs[i].Range != glyphs[i-1].Range {
			glyphs[i-1].XAdvance += tracking
		}
	}
}

// calculateAdjustability assigns per-glyph stretch/shrink (§4.3.5 needs
// these to compute justification-per-space).
func calculateAdjustability(glyphs []Glyph) {
	for i := range glyphs {
		g := &glyphs[i]
		switch {
		case g.IsSpace():
			g.Adjustability.Stretch = [2]foundations.Em{0.15, 0.15}
			g.Adjustability.Shrink = [2]foundations.Em{0.1, 0.1}
			g.IsJustifiable = true
		case isCJKLeftAlignedPunctuation(g.Char):
			g.Adjustability.Shrink = [2]foundations.Em{0, 0.5}
			g.IsJustifiable = true
		case isCJKRightAlignedPunctuation(g.Char):
			g.Adjustability.Shrink = [2]foundations.Em{0.5, 0}
			g.IsJustifiable = true
		case isCJKCenterAlignedPunctuation(g.Char):
			g.Adjustability.Shrink = [2]foundations.Em{0.25, 0.25}
			g.IsJustifiable = true
		case isCJScript(g.Script):
			g.IsJustifiable = true
		}
	}
	// Compress consecutive CJK punctuation pairs by splitting a half-width
	// delta between them, matching the teacher's post-pass.
	for i := 1; i < len(glyphs); i++ {
		a, b := &glyphs[i-1], &glyphs[i]
		if isCJKPunctuation(a.Char) && isCJKPunctuation(b.Char) {
			delta := (a.Adjustability.Shrink[1] + b.Adjustability.Shrink[0]) / 2
			a.Adjustability.Shrink[1] = delta
			b.Adjustability.Shrink[0] = delta
		}
	}
}

func isClusterBoundarySafe(gs []shaping.Glyph, i int) bool {
	// Safe to break between this glyph and the next iff they belong to
	// different source clusters -- HarfBuzz never merges two distinct
	// clusters' shaping decisions across a cut at a cluster boundary,
	// while within a cluster (ligatures, marks) splitting can change the
	// result.
	if i+1 >= len(gs) {
		return true
	}
	return gs[i].ClusterIndex != gs[i+1].ClusterIndex
}

func charAt(runes []rune, idx int) rune {
	if idx < 0 || idx >= len(runes) {
		return 0
	}
	return runes[idx]
}

func runeByteOffsets(s string) []int {
	offsets := make([]int, 0, len(s))
	for i := range s {
		offsets = append(offsets, i)
	}
	return offsets
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func isIgnorableOnly(text string) bool {
	for _, r := range text {
		if !isDefaultIgnorable(r) {
			return false
		}
	}
	return len(text) > 0
}

func isDefaultIgnorable(r rune) bool {
	return r == ZWSP || r == '﻿' || unicode.Is(unicode.Cf, r)
}

func detectScript(text string) language.Script {
	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Han):
			return language.Han
		case unicode.In(r, unicode.Hiragana):
			return language.Hiragana
		case unicode.In(r, unicode.Katakana):
			return language.Katakana
		case unicode.In(r, unicode.Hangul):
			return language.Hangul
		case unicode.In(r, unicode.Arabic):
			return language.Arabic
		case unicode.In(r, unicode.Hebrew):
			return language.Hebrew
		case unicode.In(r, unicode.Cyrillic):
			return language.Cyrillic
		case unicode.In(r, unicode.Greek):
			return language.Greek
		case unicode.In(r, unicode.Latin):
			return language.Latin
		}
	}
	return language.Latin
}

func isCJScript(s language.Script) bool {
	switch s {
	case language.Han, language.Hiragana, language.Katakana, language.Hangul:
		return true
	}
	return false
}

func isCJKPunctuation(r rune) bool {
	return isCJKLeftAlignedPunctuation(r) || isCJKRightAlignedPunctuation(r) || isCJKCenterAlignedPunctuation(r)
}

func isCJKLeftAlignedPunctuation(r rune) bool {
	switch r {
	case '，', '。', '、', '：', '；', '！', '？', '」', '』', '）', '】', '》', '〉':
		return true
	}
	return false
}

func isCJKRightAlignedPunctuation(r rune) bool {
	switch r {
	case '「', '『', '（', '【', '《', '〈':
		return true
	}
	return false
}

func isCJKCenterAlignedPunctuation(r rune) bool {
	switch r {
	case '·', '～':
		return true
	}
	return false
}

// RunsFromParagraph returns the directional run ordering of a bidi
// paragraph (golang.org/x/text/unicode/bidi).
func RunsFromParagraph(p *bidi.Paragraph) (*bidi.Ordering, error) {
	return p.Order()
}
