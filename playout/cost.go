package playout

import "math"

// Cost is the dynamic-programming cost unit (§4.3.4).
type Cost = float64

// MinRatio/MaxCost/MinCost are the spec's exact §4.3.4 constants,
// replacing the teacher's Knuth-Plass-paper-derived DefaultHyphCost=135/
// DefaultRuntCost=100 badness^2 formula, which this core does not use:
// the spec defines cost directly from the stretch ratio rather than
// squaring a badness-plus-penalty sum.
const (
	MinRatio = -0.15
	MaxCost  = 1_000_000.0
	MinCost  = -1_000_000.0

	hyphenEndPenalty    = 0.5
	consecutiveDashCost = 30.0
)

// ratio computes the stretch/shrink ratio of a candidate line (§4.3.4):
// delta = available - natural width, normalized by stretchability (when
// positive) or shrinkability (when negative), clamped to a magnitude of
// 10 to bound the cost polynomial.
func ratio(available, width, stretch, shrink Abs) float64 {
	delta := float64(available - width)
	var adjustability float64
	if delta >= 0 {
		adjustability = float64(stretch)
	} else {
		adjustability = float64(shrink)
	}
	if adjustability <= 0 {
		if delta == 0 {
			return 0
		}
		if delta > 0 {
			return 10
		}
		return -10
	}
	r := delta / adjustability
	if r > 10 {
		r = 10
	}
	if r < -10 {
		r = -10
	}
	return r
}

// lineCost implements the exact §4.3.4 cost formula:
//
//   - MAX_COST if the line is overfull (ratio below the justification
//     threshold MIN_RATIO when justifying, or below zero otherwise)
//   - MIN_COST at a non-overfull mandatory break (always take it)
//   - 0 for the final, non-overfull line (it never needs to look good)
//   - otherwise |ratio|^3, clamping ratio's magnitude to 10 first
//
// plus penalties: +0.5 when the line ends in a hyphen break, and +30.0
// when the line and its predecessor both end in a dash.
func lineCost(r float64, justify, mandatory, isFinalLine, hyphenEnd, consecutiveDash bool) Cost {
	overfullThreshold := 0.0
	if justify {
		overfullThreshold = MinRatio
	}

	var cost Cost
	switch {
	case r < overfullThreshold:
		cost = MaxCost
	case mandatory:
		cost = MinCost
	case isFinalLine:
		cost = 0
	default:
		clamped := r
		if clamped > 10 {
			clamped = 10
		}
		if clamped < -10 {
			clamped = -10
		}
		cost = math.Pow(math.Abs(clamped), 3)
	}

	if cost == MaxCost || cost == MinCost {
		return cost
	}
	if hyphenEnd {
		cost += hyphenEndPenalty
	}
	if consecutiveDash {
		cost += consecutiveDashCost
	}
	return cost
}
