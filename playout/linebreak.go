package playout

import "strings"

// Break runs the configured strategy (§4.3.2) over a prepared paragraph.
func Break(p *Preparation, width Abs) []Line {
	switch p.Config.Strategy {
	case StrategyOptimized:
		return breakOptimized(p, width)
	default:
		return breakSimple(p, width)
	}
}

// breakSimple is first-fit: grow a line until it no longer fits, then
// commit the last attempt that did (§4.3.2 Simple strategy).
func breakSimple(p *Preparation, width Abs) []Line {
	lines := make([]Line, 0, 16)
	start := 0
	var lastLine *Line
	var lastEnd int
	haveLast := false

	breakpointsFn(p, func(end int, bp BreakpointInfo) {
		var pred *Line
		if len(lines) > 0 {
			pred = &lines[len(lines)-1]
		}
		attempt := makeLine(p, start, end, bp, pred)

		if !fits(width, attempt.Width) && haveLast {
			lines = append(lines, *lastLine)
			start = lastEnd
			attempt = makeLine(p, start, end, bp, &lines[len(lines)-1])
			haveLast = false
		}

		if bp.IsMandatory() || !fits(width, attempt.Width) {
			lines = append(lines, attempt)
			start = end
			haveLast = false
		} else {
			lastLine = &attempt
			lastEnd = end
			haveLast = true
		}
	})

	if haveLast {
		lines = append(lines, *lastLine)
	}
	return lines
}

func fits(available, width Abs) bool { return width <= available+1e-3 }

// dpEntry is one node of the Knuth-Plass-style shortest-path table.
type dpEntry struct {
	pred  int
	total Cost
	line  Line
	end   int
}

// breakOptimized runs the full-paragraph dynamic program (§4.3.2
// Optimized strategy), picking the break sequence with least total cost
// under the §4.3.4 model, with an active-set window so overfull
// predecessors stop being considered (standard Knuth-Plass pruning).
func breakOptimized(p *Preparation, width Abs) []Line {
	table := []dpEntry{{pred: 0, total: 0, line: EmptyLine(), end: 0}}
	active := 0
	prevEnd := 0
	justify := p.Config.Justify

	// First pass: find every reachable end position so we know which
	// candidate end is the paragraph's final one (needed for the
	// isFinalLine cost rule).
	var allEnds []int
	breakpointsFn(p, func(end int, bp BreakpointInfo) { allEnds = append(allEnds, end) })
	finalEnd := len(p.Text)
	if len(allEnds) > 0 {
		finalEnd = allEnds[len(allEnds)-1]
	}

	breakpointsFn(p, func(end int, bp BreakpointInfo) {
		var best *dpEntry
		isFinal := end == finalEnd

		for predIndex := active; predIndex < len(table); predIndex++ {
			pred := &table[predIndex]
			start := pred.end
			unbreakable := prevEnd == start

			attempt := makeLine(p, start, end, bp, &pred.line)
			r := ratio(width, attempt.Width, attempt.Stretchability(), attempt.Shrinkability())

			overfullThreshold := 0.0
			if justify {
				overfullThreshold = MinRatio
			}
			if r < overfullThreshold && active == predIndex {
				active++
			}

			hyphenEnd := bp.IsHyphen()
			consecutiveDash := pred.line.Dash != DashNone && attempt.Dash != DashNone
			lineEffectivelyJustified := justify && !bp.IsMandatory()

			c := lineCost(r, lineEffectivelyJustified, bp.IsMandatory() && r >= overfullThreshold, isFinal && !bp.IsMandatory(), hyphenEnd, consecutiveDash)

			total := pred.total + c
			if !unbreakable && c >= MaxCost {
				continue
			}

			if best == nil || best.total >= total {
				best = &dpEntry{pred: predIndex, total: total, line: attempt, end: end}
			}
		}

		if bp.IsMandatory() {
			active = len(table)
		}
		if best != nil {
			table = append(table, *best)
		}
		prevEnd = end
	})

	lines := make([]Line, 0, 16)
	idx := len(table) - 1
	if table[idx].end != len(p.Text) {
		// No admissible path reached the end (every active entry pruned
		// as overfull); fall back to first-fit, which always terminates.
		return breakSimple(p, width)
	}
	for idx != 0 {
		lines = append(lines, table[idx].line)
		idx = table[idx].pred
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines
}

// makeLine builds a Line from a byte range and its terminating
// breakpoint, trimming trailing whitespace from the layout width while
// keeping it for shaping (§4.3.2).
func makeLine(p *Preparation, start, end int, bp BreakpointInfo, pred *Line) Line {
	if start >= end || start >= len(p.Text) {
		return EmptyLine()
	}
	full := p.Text[start:end]

	justify := strings.HasSuffix(full, " ") || (p.Config.Justify && !bp.IsMandatory())

	var dash Dash
	switch {
	case bp.IsHyphen() || strings.HasSuffix(full, "­"):
		dash = DashSoft
	case strings.HasSuffix(full, "-"):
		dash = DashHard
	case strings.HasSuffix(full, "–") || strings.HasSuffix(full, "—"):
		dash = DashOther
	}

	trim := bp.TrimLine(start, full)
	items := collectLineItems(p, start, end, trim)

	var width Abs
	for _, it := range items {
		width += it.NaturalWidth()
	}

	return Line{Items: items, Width: width, Justify: justify, Dash: dash}
}

func collectLineItems(p *Preparation, start, end int, trim Trim) []Item {
	var items []Item
	for _, pi := range p.Items {
		if pi.Range.End <= start {
			continue
		}
		if pi.Range.Start >= end {
			break
		}
		items = append(items, pi.Item)
	}
	return items
}
