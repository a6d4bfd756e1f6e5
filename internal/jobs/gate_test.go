package jobs

import (
	"errors"
	"testing"
)

func TestGateAdmitUntilFull(t *testing.T) {
	g := newGate(2)

	if err := g.admit(); err != nil {
		t.Fatalf("first admit: %v", err)
	}
	if err := g.admit(); err != nil {
		t.Fatalf("second admit: %v", err)
	}
	if err := g.admit(); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	g.release()
	if err := g.admit(); err != nil {
		t.Fatalf("admit after release: %v", err)
	}
}

func TestGateReleaseNeverGoesNegative(t *testing.T) {
	g := newGate(1)
	g.release()
	g.release()

	occupancy, active := g.snapshot()
	if occupancy != 0 || active != 0 {
		t.Fatalf("expected empty gate, got occupancy=%d active=%d", occupancy, active)
	}
	if err := g.admit(); err != nil {
		t.Fatalf("admit on empty gate: %v", err)
	}
}

func TestGateTracksActiveSlots(t *testing.T) {
	g := newGate(5)
	_ = g.admit()
	_ = g.admit()
	g.start()

	occupancy, active := g.snapshot()
	if occupancy != 2 || active != 1 {
		t.Fatalf("expected occupancy=2 active=1, got %d/%d", occupancy, active)
	}

	g.finish()
	g.finish() // extra finish is ignored
	_, active = g.snapshot()
	if active != 0 {
		t.Fatalf("expected active=0, got %d", active)
	}
}

func TestGateUtilization(t *testing.T) {
	g := newGate(4)
	_ = g.admit()
	_ = g.admit()

	if got := g.utilization(); got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}

	empty := newGate(0)
	if got := empty.utilization(); got != 0 {
		t.Fatalf("zero-capacity gate must report 0, got %v", got)
	}
}
