package playout

import "testing"

func TestRatioStretch(t *testing.T) {
	// available exceeds natural width: positive delta normalized by stretch.
	r := ratio(110, 100, 20, 10)
	if r != 0.5 {
		t.Fatalf("ratio = %v, want 0.5", r)
	}
}

func TestRatioShrink(t *testing.T) {
	// natural width exceeds available: negative delta normalized by shrink.
	r := ratio(90, 100, 20, 10)
	if r != -1 {
		t.Fatalf("ratio = %v, want -1", r)
	}
}

func TestRatioZeroAdjustabilityExactFit(t *testing.T) {
	if r := ratio(100, 100, 0, 0); r != 0 {
		t.Fatalf("ratio = %v, want 0", r)
	}
}

func TestRatioZeroAdjustabilityOverfull(t *testing.T) {
	if r := ratio(90, 100, 0, 0); r != -10 {
		t.Fatalf("ratio = %v, want -10", r)
	}
}

func TestRatioClampedToTen(t *testing.T) {
	if r := ratio(1000, 100, 1, 0); r != 10 {
		t.Fatalf("ratio = %v, want 10", r)
	}
}

func TestLineCostOverfullJustified(t *testing.T) {
	// Below MinRatio while justifying is overfull.
	c := lineCost(-0.2, true, false, false, false, false)
	if c != MaxCost {
		t.Fatalf("cost = %v, want MaxCost", c)
	}
}

func TestLineCostOverfullUnjustified(t *testing.T) {
	// Any negative ratio is overfull when not justifying.
	c := lineCost(-0.01, false, false, false, false, false)
	if c != MaxCost {
		t.Fatalf("cost = %v, want MaxCost", c)
	}
}

func TestLineCostMandatoryBreakAlwaysWins(t *testing.T) {
	c := lineCost(0.3, true, true, false, false, false)
	if c != MinCost {
		t.Fatalf("cost = %v, want MinCost", c)
	}
}

func TestLineCostFinalLineIsFree(t *testing.T) {
	c := lineCost(0.3, true, false, true, false, false)
	if c != 0 {
		t.Fatalf("cost = %v, want 0", c)
	}
}

func TestLineCostCubicBadness(t *testing.T) {
	c := lineCost(0.5, true, false, false, false, false)
	want := 0.125
	if c != want {
		t.Fatalf("cost = %v, want %v", c, want)
	}
}

func TestLineCostHyphenAndDashPenalties(t *testing.T) {
	base := lineCost(0.5, true, false, false, false, false)
	withHyphen := lineCost(0.5, true, false, false, true, false)
	if withHyphen != base+hyphenEndPenalty {
		t.Fatalf("hyphen penalty not applied: got %v, want %v", withHyphen, base+hyphenEndPenalty)
	}
	withDash := lineCost(0.5, true, false, false, false, true)
	if withDash != base+consecutiveDashCost {
		t.Fatalf("dash penalty not applied: got %v, want %v", withDash, base+consecutiveDashCost)
	}
}

func TestLineCostPenaltiesSkippedAtCostCeilings(t *testing.T) {
	// Penalties never push an already-MaxCost/MinCost line past the ceiling.
	if c := lineCost(-0.2, true, false, false, true, true); c != MaxCost {
		t.Fatalf("cost = %v, want MaxCost unaffected by penalties", c)
	}
	if c := lineCost(0.3, true, true, false, true, true); c != MinCost {
		t.Fatalf("cost = %v, want MinCost unaffected by penalties", c)
	}
}
