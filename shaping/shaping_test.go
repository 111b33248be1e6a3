package shaping

import (
	"testing"

	"github.com/go-text/typesetting/language"
	gotext_shaping "github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

func TestDetectScriptPrefersFirstRecognizedRune(t *testing.T) {
	if s := detectScript("hello"); s != language.Latin {
		t.Fatalf("detectScript(latin) = %v, want Latin", s)
	}
	if s := detectScript("12 中文 héllo"); s != language.Han {
		t.Fatalf("detectScript should find the first recognized script (Han), got %v", s)
	}
	if s := detectScript("123"); s != language.Latin {
		t.Fatalf("detectScript with no recognized script should default to Latin, got %v", s)
	}
}

func TestIsCJScript(t *testing.T) {
	for _, s := range []language.Script{language.Han, language.Hiragana, language.Katakana, language.Hangul} {
		if !isCJScript(s) {
			t.Fatalf("expected %v to be a CJ script", s)
		}
	}
	if isCJScript(language.Latin) {
		t.Fatal("Latin should not be a CJ script")
	}
}

func TestCalculateAdjustabilitySpace(t *testing.T) {
	glyphs := []Glyph{{Char: ' '}}
	calculateAdjustability(glyphs)
	g := glyphs[0]
	if !g.IsJustifiable {
		t.Fatal("a space should be justifiable")
	}
	if g.Stretchability() != 0.3 || g.Shrinkability() != 0.2 {
		t.Fatalf("space adjustability = stretch %v shrink %v, want 0.3/0.2", g.Stretchability(), g.Shrinkability())
	}
}

func TestCalculateAdjustabilityCJKCompression(t *testing.T) {
	// Two consecutive CJK punctuation glyphs should share a compressed
	// half-width shrink delta rather than each keeping its full value.
	glyphs := []Glyph{{Char: '，'}, {Char: '」'}}
	calculateAdjustability(glyphs)
	if glyphs[0].Adjustability.Shrink[1] != glyphs[1].Adjustability.Shrink[0] {
		t.Fatalf("expected shared compression delta, got %v and %v",
			glyphs[0].Adjustability.Shrink[1], glyphs[1].Adjustability.Shrink[0])
	}
}

func TestCalculateAdjustabilityCJKScriptIsJustifiable(t *testing.T) {
	glyphs := []Glyph{{Char: '中', Script: language.Han}}
	calculateAdjustability(glyphs)
	if !glyphs[0].IsJustifiable {
		t.Fatal("a CJK-script glyph should be justifiable even without punctuation")
	}
}

func TestTrackAndSpaceSkipsSameCluster(t *testing.T) {
	glyphs := []Glyph{
		{Range: Range{0, 1}, XAdvance: 1},
		{Range: Range{0, 1}, XAdvance: 1}, // same cluster: ligature component
		{Range: Range{1, 2}, XAdvance: 1},
	}
	trackAndSpace(glyphs, 0.2)
	if glyphs[0].XAdvance != 1 {
		t.Fatalf("tracking should not be added within the same cluster, got %v", glyphs[0].XAdvance)
	}
	if glyphs[1].XAdvance != 1.2 {
		t.Fatalf("tracking should be added at a cluster boundary, got %v", glyphs[1].XAdvance)
	}
}

func TestTrackAndSpaceNoopWhenZero(t *testing.T) {
	glyphs := []Glyph{{Range: Range{0, 1}, XAdvance: 1}, {Range: Range{1, 2}, XAdvance: 1}}
	trackAndSpace(glyphs, 0)
	if glyphs[0].XAdvance != 1 {
		t.Fatal("zero tracking should not modify advances")
	}
}

func TestIsClusterBoundarySafe(t *testing.T) {
	gs := []gotext_shaping.Glyph{{ClusterIndex: 0}, {ClusterIndex: 0}, {ClusterIndex: 1}}
	if isClusterBoundarySafe(gs, 0) {
		t.Fatal("expected unsafe break within the same cluster")
	}
	if !isClusterBoundarySafe(gs, 1) {
		t.Fatal("expected safe break at a cluster boundary")
	}
	if !isClusterBoundarySafe(gs, 2) {
		t.Fatal("expected safe break at the end of the glyph run")
	}
}

func TestRuneByteOffsetsASCII(t *testing.T) {
	offsets := runeByteOffsets("abc")
	want := []int{0, 1, 2}
	for i, o := range want {
		if offsets[i] != o {
			t.Fatalf("offsets[%d] = %d, want %d", i, offsets[i], o)
		}
	}
}

func TestRuneByteOffsetsMultibyte(t *testing.T) {
	offsets := runeByteOffsets("a中b")
	want := []int{0, 1, 4} // '中' is 3 bytes in UTF-8
	if len(offsets) != len(want) {
		t.Fatalf("got %d offsets, want %d", len(offsets), len(want))
	}
	for i := range want {
		if offsets[i] != want[i] {
			t.Fatalf("offsets[%d] = %d, want %d", i, offsets[i], want[i])
		}
	}
}

func TestFixedToFloat(t *testing.T) {
	if got := fixedToFloat(fixed.I(1)); got != 1 {
		t.Fatalf("fixedToFloat(fixed.I(1)) = %v, want 1", got)
	}
}

func TestIsIgnorableOnly(t *testing.T) {
	if !isIgnorableOnly(ZWSP_str()) {
		t.Fatal("a lone ZWSP should be ignorable-only")
	}
	if isIgnorableOnly("a") {
		t.Fatal("ordinary text should not be ignorable-only")
	}
	if isIgnorableOnly("") {
		t.Fatal("empty text should not count as ignorable-only")
	}
}

func ZWSP_str() string { return string([]rune{ZWSP}) }

func TestCharAtBounds(t *testing.T) {
	runes := []rune("ab")
	if charAt(runes, 0) != 'a' {
		t.Fatal("charAt(0) should return 'a'")
	}
	if charAt(runes, 5) != 0 {
		t.Fatal("charAt out of range should return 0")
	}
	if charAt(runes, -1) != 0 {
		t.Fatal("charAt negative index should return 0")
	}
}
