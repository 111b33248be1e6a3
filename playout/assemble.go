package playout

import (
	"math"

	"github.com/mkallio/typeset/foundations"
	"github.com/mkallio/typeset/frame"
	"github.com/mkallio/typeset/shaping"
)

// Region is the available space a paragraph is being laid out into
// (§4.3.6).
type Region struct {
	Size   foundations.Size
	Expand bool
}

// Assemble turns broken lines into one frame per line (§4.3.5 line
// assembly/justification). Only the region's width and Expand flag are
// used; the line frames are not stacked into region frames. Grounded on the
// teacher's inline.Finalize/Commit, reworked to build against this
// core's unified frame.Frame rather than the teacher's separate
// FinalFrame hierarchy, and to drop math-item cases (out of scope, §1).
func Assemble(p *Preparation, lines []Line, region Region) ([]*frame.Frame, error) {
	width := region.Size.Width

	if !math.IsInf(float64(width), 0) {
		allZeroFr := true
		var maxLineWidth foundations.Abs
		for _, line := range lines {
			if line.Fr() != 0 {
				allZeroFr = false
			}
			if line.Width > maxLineWidth {
				maxLineWidth = line.Width
			}
		}
		if !region.Expand && allZeroFr {
			fit := p.Config.HangingIndent + maxLineWidth
			if fit < width {
				width = fit
			}
		}
	}

	frames := make([]*frame.Frame, 0, len(lines))
	for i := range lines {
		f, err := commit(p, &lines[i], width)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

type positionedChild struct {
	offset foundations.Abs
	child  *frame.Frame
}

// commit lays out a single line: hanging punctuation, justification
// ratio, fractional-space distribution, then stacks child frames and
// wraps the result (§4.3.5).
func commit(p *Preparation, line *Line, width foundations.Abs) (*frame.Frame, error) {
	remaining := width - line.Width - p.Config.HangingIndent
	offset := foundations.Abs(0)

	if p.Config.Dir == foundations.DirLTR {
		offset += p.Config.HangingIndent
	}

	if leading := leadingText(line); leading != nil && len(leading.Glyphs) > 0 {
		g := leading.Glyphs[0]
		if !leading.Dir.IsPositive() && (len(line.Items) > 1 || len(leading.Glyphs) > 1) {
			amount := overhang(g.Char) * g.XAdvance.At(g.Size)
			offset -= amount
			remaining += amount
		}
	}
	if trailing := trailingText(line); trailing != nil && len(trailing.Glyphs) > 0 {
		g := trailing.Glyphs[len(trailing.Glyphs)-1]
		if trailing.Dir.IsPositive() && (len(line.Items) > 1 || len(trailing.Glyphs) > 1) {
			amount := overhang(g.Char) * g.XAdvance.At(g.Size)
			remaining += amount
		}
	}

	fr := line.Fr()
	justificationRatio := 0.0
	var extraJustification foundations.Abs

	shrinkability := line.Shrinkability()
	stretchability := line.Stretchability()

	switch {
	case remaining < 0 && shrinkability > 0:
		r := float64(remaining / shrinkability)
		if r < -1 {
			r = -1
		}
		justificationRatio = r
		adjusted := remaining + shrinkability
		if adjusted > 0 {
			adjusted = 0
		}
		remaining = adjusted
	case line.Justify && fr == 0:
		if stretchability > 0 {
			r := float64(remaining / stretchability)
			if r > 1 {
				r = 1
			}
			justificationRatio = r
			adjusted := remaining - stretchability
			if adjusted < 0 {
				adjusted = 0
			}
			remaining = adjusted
		}
		if j := line.Justifiables(); j > 0 && remaining > 0 {
			extraJustification = remaining / foundations.Abs(j)
			remaining = 0
		}
	}

	var top, bottom foundations.Abs
	var positioned []positionedChild

	for _, item := range line.Items {
		switch it := item.(type) {
		case *AbsoluteItem:
			offset += it.Amount

		case *FractionalItem:
			offset += frShare(it.Amount, fr, remaining)

		case *TextItem:
			if it.Shaped == nil {
				continue
			}
			child := buildTextFrame(it.Shaped, justificationRatio, extraJustification)
			bl := child.Baseline()
			if bl > top {
				top = bl
			}
			if h := child.Height() - bl; h > bottom {
				bottom = h
			}
			positioned = append(positioned, positionedChild{offset, child})
			offset += child.Width()

		case *InlineFrameItem:
			child, _ := it.Frame.(*frame.Frame)
			if child == nil {
				child = frame.New(foundations.Size{Width: it.Width, Height: 0})
			}
			bl := child.Baseline()
			if bl > top {
				top = bl
			}
			if h := child.Height() - bl; h > bottom {
				bottom = h
			}
			positioned = append(positioned, positionedChild{offset, child})
			offset += it.Width

		case *TagItem:
			child := frame.New(foundations.Size{})
			loc := it.Location
			child.AttachMeta(&frame.Meta{MetaKind: frame.MetaElement, Location: &loc})
			positioned = append(positioned, positionedChild{offset, child})
		}
	}

	if fr != 0 {
		remaining = 0
	}

	size := foundations.Size{Width: width, Height: top + bottom}
	out := frame.New(size)
	out.SetBaseline(top)

	alignOffset := alignPosition(p.Config.Align, remaining)
	for _, pc := range positioned {
		x := pc.offset + alignOffset
		y := top - pc.child.Baseline()
		out.PushFrameGroup(foundations.Point{X: x, Y: y}, pc.child, foundations.Identity(), nil)
	}

	return out, nil
}

// overhang is the hanging-punctuation allowance (§4.3.5), keyed on the
// margin-adjacent character: dashes and terminal punctuation hang
// partially into the margin so the visible text edge lines up evenly.
func overhang(c rune) foundations.Abs {
	switch c {
	case '–', '—':
		return 0.2
	case '-', '­':
		return 0.55
	case '.', ',':
		return 0.8
	case ':', ';':
		return 0.3
	case '،', '۔':
		return 0.4
	default:
		return 0
	}
}

func frShare(amount, total foundations.Fraction, remaining foundations.Abs) foundations.Abs {
	if total == 0 {
		return 0
	}
	return foundations.Abs(float64(amount) / float64(total) * float64(remaining))
}

func alignPosition(align foundations.HAlign, remaining foundations.Abs) foundations.Abs {
	switch align {
	case foundations.HAlignStart:
		return 0
	case foundations.HAlignCenter:
		return remaining / 2
	case foundations.HAlignEnd:
		return remaining
	default:
		return 0
	}
}

// buildTextFrame turns one shaped run into a positioned text frame,
// applying the justification ratio and per-justifiable-glyph extra space
// resolved by commit.
func buildTextFrame(shaped *shaping.ShapedText, justificationRatio float64, extraJustification foundations.Abs) *frame.Frame {
	var width, height foundations.Abs
	var fontSize foundations.Abs
	glyphs := make([]frame.Glyph, 0, len(shaped.Glyphs))

	for _, g := range shaped.Glyphs {
		advance := g.XAdvance.At(g.Size)
		switch {
		case justificationRatio > 0:
			advance += g.Stretchability().At(g.Size) * foundations.Abs(justificationRatio)
		case justificationRatio < 0:
			advance += g.Shrinkability().At(g.Size) * foundations.Abs(justificationRatio)
		}
		if g.IsJustifiable && extraJustification > 0 {
			advance += extraJustification
		}

		glyphs = append(glyphs, frame.Glyph{
			GlyphID:     uint16(g.GlyphID),
			XAdvance:    advance,
			XOffset:     g.XOffset.At(g.Size),
			YOffset:     g.YOffset.At(g.Size),
			SourceRange: [2]int{g.Range.Start, g.Range.End},
		})

		width += advance
		if g.Size > fontSize {
			fontSize = g.Size
		}
		if h := g.Size * 1.2; h > height {
			height = h
		}
	}

	baseline := height * 0.8
	out := frame.New(foundations.Size{Width: width, Height: height})
	out.SetBaseline(baseline)
	out.Push(foundations.Point{}, &frame.Text{
		Size:      fontSize,
		Lang:      string(shaped.Lang),
		PlainText: shaped.Text,
		Glyphs:    glyphs,
	})
	return out
}

func leadingText(l *Line) *shaping.ShapedText {
	for _, item := range l.Items {
		switch it := item.(type) {
		case *TextItem:
			if it.Shaped != nil {
				return it.Shaped
			}
		case *TagItem:
			continue
		default:
			return nil
		}
	}
	return nil
}

func trailingText(l *Line) *shaping.ShapedText {
	for i := len(l.Items) - 1; i >= 0; i-- {
		switch it := l.Items[i].(type) {
		case *TextItem:
			if it.Shaped != nil {
				return it.Shaped
			}
		case *TagItem:
			continue
		default:
			return nil
		}
	}
	return nil
}
