package playout

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// Breakpoint classifies a line break opportunity (§4.3.2).
type Breakpoint int

const (
	BreakpointNormal Breakpoint = iota
	BreakpointMandatory
)

// HyphenBreakpoint records the syllable split either side of a
// hyphenation point. The cost model's hyphenation penalty (§4.3.4) is a
// flat amount and does not read Before or After.
type HyphenBreakpoint struct {
	Before uint8
	After  uint8
}

type BreakpointInfo struct {
	Type   Breakpoint
	Hyphen *HyphenBreakpoint
}

func Normal() BreakpointInfo    { return BreakpointInfo{Type: BreakpointNormal} }
func Mandatory() BreakpointInfo { return BreakpointInfo{Type: BreakpointMandatory} }
func Hyphen(before, after uint8) BreakpointInfo {
	return BreakpointInfo{Type: BreakpointNormal, Hyphen: &HyphenBreakpoint{Before: before, After: after}}
}

func (b BreakpointInfo) IsHyphen() bool    { return b.Hyphen != nil }
func (b BreakpointInfo) IsMandatory() bool { return b.Type == BreakpointMandatory }

const ZWS = '​'

// Trim separates the position up to which text affects layout (Layout)
// from the position up to which it is shaped (Shaping); trailing
// whitespace at a normal break is shaped (so cursor placement stays
// correct) but has zero advance for layout purposes.
type Trim struct{ Layout, Shaping int }

func UniformTrim(pos int) Trim { return Trim{Layout: pos, Shaping: pos} }

func (b BreakpointInfo) TrimLine(start int, line string) Trim {
	if b.IsHyphen() {
		return UniformTrim(start + len(line))
	}
	if b.IsMandatory() {
		trimmed := trimMandatoryBreaks(line)
		return UniformTrim(start + len(trimmed))
	}
	trimmed := trimTrailingWhitespace(line)
	return Trim{Layout: start + len(trimmed), Shaping: start + len(line)}
}

func trimTrailingWhitespace(s string) string {
	runes := []rune(s)
	end := len(runes)
	for end > 0 && (unicode.IsSpace(runes[end-1]) || runes[end-1] == ZWS) {
		end--
	}
	return string(runes[:end])
}

func trimMandatoryBreaks(s string) string {
	runes := []rune(s)
	end := len(runes)
	for end > 0 {
		c := runes[end-1]
		if c == '\n' || c == '\r' || c == '' || c == ' ' || c == ' ' {
			end--
		} else {
			break
		}
	}
	return string(runes[:end])
}

// breakpointsFn enumerates every line break opportunity in p.Text via
// uniseg's UAX#14 line-breaking implementation, interleaving hyphenation
// points within unbreakable segments (§4.3.2, §4.3.3). This replaces the
// teacher's hand-rolled unicode.IsSpace/bidi-class classifier, which
// only approximated UAX#14 and missed most non-ASCII break classes
// (e.g. ideographic break-before/after, quotation marks, CJK brackets).
func breakpointsFn(p *Preparation, f func(end int, bp BreakpointInfo)) {
	text := p.Text
	if len(text) == 0 {
		f(0, Mandatory())
		return
	}

	hyphenate := p.Config.Hyphenate == nil || *p.Config.Hyphenate

	state := -1
	last := 0
	remaining := text
	pos := 0
	for len(remaining) > 0 {
		segment, rest, mustBreak, newState := uniseg.FirstLineSegment(remaining, state)
		state = newState
		end := pos + len(segment)

		if hyphenate && last < end {
			// Hyphenate within the segment, excluding its trailing break
			// character(s) which already carry their own opportunity.
			word := segment
			trimmed := trimTrailingWhitespace(word)
			if len(trimmed) > 0 {
				hyphenateSegment(p, pos, trimmed, f)
			}
		}

		bp := Normal()
		if mustBreak {
			bp = Mandatory()
		}
		f(end, bp)
		last = end
		pos = end
		remaining = rest
	}
}

// hyphenateSegment proposes hyphenation points within a single unbroken
// word-like run. A production system plugs in a language-specific
// Liang-pattern hyphenator (e.g. via a dictionary); lacking the
// out-of-scope dictionary data, this applies the same
// vowel-to-consonant heuristic the teacher used, which is conservative
// enough not to hyphenate short or non-alphabetic runs.
func hyphenateSegment(p *Preparation, offset int, segment string, f func(end int, bp BreakpointInfo)) {
	runes := []rune(segment)
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return
		}
	}
	if len(runes) < 4 {
		return
	}
	count := len(runes)
	for i := 2; i < count-2; i++ {
		if shouldHyphenate(runes, i) {
			byteOffset := offset
			for j := 0; j < i; j++ {
				byteOffset += len(string(runes[j]))
			}
			f(byteOffset, Hyphen(uint8(i), uint8(count-i)))
		}
	}
}

func shouldHyphenate(runes []rune, pos int) bool {
	if pos < 1 || pos >= len(runes) {
		return false
	}
	prev, curr := runes[pos-1], runes[pos]
	return isVowel(prev) && !isVowel(curr)
}

func isVowel(r rune) bool {
	r = unicode.ToLower(r)
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'á', 'é', 'í', 'ó', 'ú', 'ä', 'ö', 'ü':
		return true
	}
	return false
}
