package engine

import "testing"

func TestNilRouteEntersAtDepthOne(t *testing.T) {
	var r *Route
	next, err := r.Enter()
	if err != nil {
		t.Fatalf("unexpected error entering a nil route: %v", err)
	}
	if next.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", next.Depth())
	}
}

func TestRouteEnterIncrementsDepth(t *testing.T) {
	r := NewRoute(3)
	r1, err := r.Enter()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r1.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", r1.Depth())
	}
	r2, err := r1.Enter()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r2.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", r2.Depth())
	}
}

func TestRouteEnterFailsPastMax(t *testing.T) {
	r := NewRoute(1)
	r1, err := r.Enter()
	if err != nil {
		t.Fatalf("unexpected error reaching max depth: %v", err)
	}
	if _, err := r1.Enter(); err == nil {
		t.Fatal("expected an error exceeding the max depth")
	} else if _, ok := err.(*DepthExceededError); !ok {
		t.Fatalf("expected a *DepthExceededError, got %T", err)
	}
}

func TestDepthExceededErrorMessage(t *testing.T) {
	err := &DepthExceededError{Max: 64}
	if err.Error() == "" {
		t.Fatal("expected a non-empty error message")
	}
}

func TestNilRouteDepthIsZero(t *testing.T) {
	var r *Route
	if r.Depth() != 0 {
		t.Fatalf("Depth() on a nil route = %d, want 0", r.Depth())
	}
}

func TestSinkDelayAndTake(t *testing.T) {
	s := NewSink()
	s.Delay(Diagnostic{Message: "first"})
	s.Delay(Diagnostic{Message: "second"})
	got := s.TakeDelayed()
	if len(got) != 2 {
		t.Fatalf("expected 2 delayed diagnostics, got %d", len(got))
	}
	if len(s.Delayed) != 0 {
		t.Fatal("TakeDelayed should drain the sink's delayed slice")
	}
	if len(s.TakeDelayed()) != 0 {
		t.Fatal("a second TakeDelayed call should return nothing new")
	}
}

func TestSinkWarnDoesNotAffectDelayed(t *testing.T) {
	s := NewSink()
	s.Warn(Diagnostic{Message: "careful"})
	if len(s.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(s.Warnings))
	}
	if len(s.Delayed) != 0 {
		t.Fatal("Warn should not populate Delayed")
	}
}

type fakeWorld struct{}

func (fakeWorld) Today(offset *int) Date { return Date{Year: 2024, Month: 1, Day: 1} }

func TestNewEngineDefaults(t *testing.T) {
	e := New(fakeWorld{})
	if e.World == nil || e.Route == nil || e.Sink == nil {
		t.Fatal("New should populate World, Route, and Sink")
	}
	if e.Route.max != MaxShowRuleDepth {
		t.Fatalf("default route max = %d, want %d", e.Route.max, MaxShowRuleDepth)
	}
}
