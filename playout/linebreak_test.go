package playout

import "testing"

func TestFits(t *testing.T) {
	if !fits(100, 100) {
		t.Fatal("equal width should fit")
	}
	if !fits(100, 99) {
		t.Fatal("narrower width should fit")
	}
	if fits(100, 101) {
		t.Fatal("wider-than-available should not fit")
	}
}

func TestMakeLineDetectsHardDash(t *testing.T) {
	p := &Preparation{Text: "foo-", Config: &Config{}}
	line := makeLine(p, 0, len("foo-"), Normal(), nil)
	if line.Dash != DashHard {
		t.Fatalf("Dash = %v, want DashHard", line.Dash)
	}
}

func TestMakeLineDetectsSoftDashFromSHY(t *testing.T) {
	text := "foo" + string(rune(0x00AD))
	p := &Preparation{Text: text, Config: &Config{}}
	line := makeLine(p, 0, len(text), Normal(), nil)
	if line.Dash != DashSoft {
		t.Fatalf("Dash = %v, want DashSoft", line.Dash)
	}
}

func TestMakeLineDetectsOtherDash(t *testing.T) {
	text := "foo" + string(rune(0x2014)) // em dash
	p := &Preparation{Text: text, Config: &Config{}}
	line := makeLine(p, 0, len(text), Normal(), nil)
	if line.Dash != DashOther {
		t.Fatalf("Dash = %v, want DashOther", line.Dash)
	}
}

func TestMakeLineHyphenBreakpointForcesSoftDash(t *testing.T) {
	p := &Preparation{Text: "foo", Config: &Config{}}
	line := makeLine(p, 0, len("foo"), Hyphen(1, 2), nil)
	if line.Dash != DashSoft {
		t.Fatalf("Dash = %v, want DashSoft for a hyphen breakpoint", line.Dash)
	}
}

func TestMakeLineOutOfRangeIsEmpty(t *testing.T) {
	p := &Preparation{Text: "foo", Config: &Config{}}
	line := makeLine(p, 3, 3, Normal(), nil)
	if len(line.Items) != 0 || line.Width != 0 {
		t.Fatalf("expected an empty line for start==end, got %+v", line)
	}
}

func TestBreakSimpleSingleWordFitsOneLine(t *testing.T) {
	text := "hello"
	p := &Preparation{
		Text:   text,
		Items:  []PreparedItem{{Range: Range{0, len(text)}, Item: &AbsoluteItem{Amount: 5}}},
		Config: &Config{Strategy: StrategySimple},
	}
	lines := Break(p, 100)
	if len(lines) != 1 {
		t.Fatalf("expected a single line for a short word under a wide width, got %d", len(lines))
	}
	if lines[0].Width != 5 {
		t.Fatalf("line width = %v, want 5", lines[0].Width)
	}
}

func TestBreakOptimizedSingleWordFitsOneLine(t *testing.T) {
	text := "hello"
	p := &Preparation{
		Text:   text,
		Items:  []PreparedItem{{Range: Range{0, len(text)}, Item: &AbsoluteItem{Amount: 5}}},
		Config: &Config{Strategy: StrategyOptimized},
	}
	lines := Break(p, 100)
	if len(lines) != 1 {
		t.Fatalf("expected a single line, got %d", len(lines))
	}
}

func TestBreakSimpleCoversEntireText(t *testing.T) {
	text := "one two three four five six seven eight nine ten"
	p := &Preparation{
		Text:   text,
		Config: &Config{Strategy: StrategySimple},
	}
	// No items: every line has zero natural width, so narrow widths never
	// force a wrap on width alone, but the result must still cover the
	// whole paragraph by breakpoints. This exercises breakpoint iteration
	// without depending on exact per-word widths.
	lines := Break(p, 1)
	if len(lines) == 0 {
		t.Fatal("expected at least one line")
	}
}
