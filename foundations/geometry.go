// Package foundations provides the core data model shared across the
// typesetting pipeline: geometry, color, the content tree, the style
// chain, selectors/recipes, and stable element locations.
package foundations

import (
	"fmt"
	"math"
)

// Abs is an absolute length in typographic points (1/72 inch).
type Abs float64

// Common length constants.
const (
	Pt Abs = 1.0
	Mm Abs = 2.8346456692913
	Cm Abs = 28.346456692913
	In Abs = 72.0
)

func (a Abs) IsZero() bool   { return a == 0 }
func (a Abs) IsFinite() bool { return !math.IsInf(float64(a), 0) && !math.IsNaN(float64(a)) }

func (a Abs) Abs() Abs {
	if a < 0 {
		return -a
	}
	return a
}

func (a Abs) Min(b Abs) Abs {
	if a < b {
		return a
	}
	return b
}

func (a Abs) Max(b Abs) Abs {
	if a > b {
		return a
	}
	return b
}

func (a Abs) Clamp(lo, hi Abs) Abs {
	if a < lo {
		return lo
	}
	if a > hi {
		return hi
	}
	return a
}

func (a Abs) Points() float64 { return float64(a) }

// Fr is a fractional unit for distributing remaining space ("1fr").
type Fr float64

// Em is a length relative to the current font size.
type Em float64

func (e Em) At(size Abs) Abs { return Abs(float64(e) * float64(size)) }

// Angle is expressed in radians internally.
type Angle struct{ Radians float64 }

func AngleRad(r float64) Angle { return Angle{Radians: r} }
func AngleDeg(d float64) Angle { return Angle{Radians: d * math.Pi / 180} }

// Ratio is a fraction such as a percentage (0.5 == 50%).
type Ratio float64

func (r Ratio) Resolve(whole Abs) Abs { return Abs(float64(r) * float64(whole)) }

// Relative combines an absolute offset with a ratio of some whole,
// e.g. "50% + 10pt" is Relative{Abs: 10, Rel: 0.5}.
type Relative struct {
	Abs Abs
	Rel Ratio
}

func (r Relative) IsZero() bool       { return r.Abs == 0 && r.Rel == 0 }
func (r Relative) Resolve(whole Abs) Abs { return r.Abs + r.Rel.Resolve(whole) }

// Fraction is the number of `fr` units, e.g. 1fr.
type Fraction float64

// Point is a 2D coordinate.
type Point struct{ X, Y Abs }

func (p Point) Add(q Point) Point   { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point   { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point {
	return Point{Abs(float64(p.X) * s), Abs(float64(p.Y) * s)}
}
func (p Point) IsZero() bool { return p.X == 0 && p.Y == 0 }

// Size is a 2D extent.
type Size struct{ Width, Height Abs }

func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }
func (s Size) IsFinite() bool {
	return s.Width.IsFinite() && s.Height.IsFinite()
}

func SizeSplat(v Abs) Size { return Size{Width: v, Height: v} }

func (s Size) Contains(p Point) bool {
	return p.X >= 0 && p.X <= s.Width && p.Y >= 0 && p.Y <= s.Height
}

// Axes is a generic horizontal/vertical pair.
type Axes[T any] struct{ X, Y T }

// Sides holds one value per box side.
type Sides[T any] struct{ Left, Top, Right, Bottom T }

func SidesSplat[T any](v T) Sides[T] { return Sides[T]{v, v, v, v} }

// Corners holds one value per box corner, used e.g. for border radii.
type Corners[T any] struct{ TopLeft, TopRight, BottomRight, BottomLeft T }

func CornersSplat[T any](v T) Corners[T] { return Corners[T]{v, v, v, v} }

// HAlign is horizontal alignment relative to paragraph direction.
type HAlign int

const (
	HAlignStart HAlign = iota
	HAlignCenter
	HAlignEnd
	HAlignLeft
	HAlignRight
)

// VAlign is vertical alignment.
type VAlign int

const (
	VAlignTop VAlign = iota
	VAlignHorizon
	VAlignBottom
)

// Alignment is a 2D alignment.
type Alignment struct {
	X HAlign
	Y VAlign
}

// Dir is a writing/stacking direction.
type Dir int

const (
	DirLTR Dir = iota
	DirRTL
	DirTTB
	DirBTT
)

func (d Dir) IsHorizontal() bool { return d == DirLTR || d == DirRTL }
func (d Dir) IsPositive() bool   { return d == DirLTR || d == DirTTB }

// Transform is a 2D affine matrix applied to column vectors (x, y, 1):
//
//	| A  C  E |
//	| B  D  F |
//	| 0  0  1 |
type Transform struct{ A, B, C, D, E, F float64 }

func Identity() Transform { return Transform{A: 1, D: 1} }

func Translate(dx, dy Abs) Transform {
	return Transform{A: 1, D: 1, E: float64(dx), F: float64(dy)}
}

func Scale(sx, sy float64) Transform { return Transform{A: sx, D: sy} }

func Rotate(angle Angle) Transform {
	c, s := math.Cos(angle.Radians), math.Sin(angle.Radians)
	return Transform{A: c, B: -s, C: s, D: c}
}

// Then composes transforms: result applies t first, then o.
func (t Transform) Then(o Transform) Transform {
	return Transform{
		A: t.A*o.A + t.B*o.C,
		B: t.A*o.B + t.B*o.D,
		C: t.C*o.A + t.D*o.C,
		D: t.C*o.B + t.D*o.D,
		E: t.E*o.A + t.F*o.C + o.E,
		F: t.E*o.B + t.F*o.D + o.F,
	}
}

func (t Transform) Apply(p Point) Point {
	return Point{
		X: Abs(t.A*float64(p.X) + t.C*float64(p.Y) + t.E),
		Y: Abs(t.B*float64(p.X) + t.D*float64(p.Y) + t.F),
	}
}

func (t Transform) IsIdentity() bool {
	return t.A == 1 && t.B == 0 && t.C == 0 && t.D == 1 && t.E == 0 && t.F == 0
}

func (t Transform) String() string {
	return fmt.Sprintf("Transform(%.3f %.3f %.3f %.3f %.3f %.3f)", t.A, t.B, t.C, t.D, t.E, t.F)
}
