// Package engine carries the ambient machinery threaded through every
// realization and layout call: the diagnostic sink, recursion-depth
// routing, and the World the core reads today's date from.
// Grounded on the teacher's library/foundations engine/route/sink split.
package engine

import "fmt"

// World is the input surface the core reads from (§6.1). It exposes only
// today's date (for datetime fields); fonts are not reached through it.
// The markup parser/evaluator/package manager that would normally sit
// behind a World are out of scope here.
type World interface {
	Today(offset *int) Date
}

// Date is a calendar date, used by style-chain-exposed datetime fields.
type Date struct {
	Year, Month, Day int
}

// Route tracks recursion depth across recipe/layout/call boundaries so a
// pathological recipe (show rule producing itself) cannot blow the stack
// silently; it fails with a diagnosable error instead.
type Route struct {
	depth int
	max   int
}

const (
	MaxShowRuleDepth = 64
	MaxLayoutDepth   = 72
)

func NewRoute(max int) *Route { return &Route{max: max} }

func (r *Route) Enter() (*Route, error) {
	if r == nil {
		return &Route{depth: 1, max: MaxShowRuleDepth}, nil
	}
	if r.depth+1 > r.max {
		return nil, &DepthExceededError{Max: r.max}
	}
	return &Route{depth: r.depth + 1, max: r.max}, nil
}

func (r *Route) Depth() int {
	if r == nil {
		return 0
	}
	return r.depth
}

// DepthExceededError is a fatal invariant violation (§7): recursion that
// should be structurally impossible on well-formed input.
type DepthExceededError struct{ Max int }

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("recursion depth exceeded maximum of %d", e.Max)
}

// Severity classifies a diagnostic as defined in §7.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Span mirrors foundations.Span without importing it, to keep engine
// dependency-free of the content model; callers convert at the boundary.
type Span struct {
	FileID uint64
	Start  uint32
	End    uint32
}

// Diagnostic is a source error as described in §7: user-visible, carries
// a span, reported at the end of a pass.
type Diagnostic struct {
	Span     Span
	Severity Severity
	Message  string
	Hints    []string
}

// Sink collects delayed errors and warnings produced during one pass
// (§4.1 "Failure semantics", §7 "Delayed errors"). Delayed errors are
// only promoted to fatal by the driver if they survive the final
// introspection iteration.
type Sink struct {
	Delayed  []Diagnostic
	Warnings []Diagnostic
}

func NewSink() *Sink { return &Sink{} }

func (s *Sink) Delay(d Diagnostic) { s.Delayed = append(s.Delayed, d) }
func (s *Sink) Warn(d Diagnostic)  { s.Warnings = append(s.Warnings, d) }

// TakeDelayed drains and returns the delayed diagnostics collected so far.
func (s *Sink) TakeDelayed() []Diagnostic {
	out := s.Delayed
	s.Delayed = nil
	return out
}

// Engine bundles everything a realization or layout call needs beyond its
// explicit content/style arguments.
type Engine struct {
	World World
	Route *Route
	Sink  *Sink
}

func New(world World) *Engine {
	return &Engine{World: world, Route: NewRoute(MaxShowRuleDepth), Sink: NewSink()}
}
