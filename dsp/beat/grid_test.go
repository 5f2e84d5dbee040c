package beat

import (
	"math"
	"testing"
)

func TestGridFirstCheckAnchorsImmediately(t *testing.T) {
	g := NewBeatGrid(DefaultBeatTolerance)

	if !g.Check(10.0, NewTempoState(120)) {
		t.Fatal("unaligned grid must declare a beat on the first check")
	}
	if g.LastBeatTime() != 10.0 {
		t.Errorf("LastBeatTime() = %g, want 10.0", g.LastBeatTime())
	}
}

func TestGridOnScheduleBeats(t *testing.T) {
	g := NewBeatGrid(DefaultBeatTolerance)
	tempo := NewTempoState(120) // 0.5s interval

	tests := []struct {
		now  float64
		want bool
	}{
		{1.0, true},   // anchor
		{1.25, false}, // half way, off grid
		{1.5, true},   // one interval later
		{1.75, false},
		{2.0, true},
		{2.52, true}, // within +tolerance
		{2.9, false}, // 0.38 after last beat, off grid
		{3.02, true}, // 0.50 after last beat
	}

	for _, tc := range tests {
		if got := g.Check(tc.now, tempo); got != tc.want {
			t.Errorf("Check(%g) = %v, want %v", tc.now, got, tc.want)
		}
	}
}

func TestGridToleranceEdges(t *testing.T) {
	tempo := NewTempoState(120)

	tests := []struct {
		name string
		dt   float64
		want bool
	}{
		{"just inside lower edge", 0.46, true},
		{"just outside lower edge", 0.44, false},
		{"just inside upper edge", 0.54, true},
		{"just outside upper edge", 0.56, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := NewBeatGrid(DefaultBeatTolerance)
			g.Check(1.0, tempo) // anchor at 1.0

			if got := g.Check(1.0+tc.dt, tempo); got != tc.want {
				t.Errorf("Check at dt=%g = %v, want %v", tc.dt, got, tc.want)
			}
		})
	}
}

// After a multi-interval gap the grid re-anchors onto the implied beat
// position instead of drifting; beats resume within one interval of the
// gap's end.
func TestGridSelfHealsAfterGap(t *testing.T) {
	g := NewBeatGrid(DefaultBeatTolerance)
	tempo := NewTempoState(120)

	g.Check(1.0, tempo) // anchor

	// Silence for 5 intervals: no beat on the tick that lands exactly on
	// a grid position relative to the re-anchor, but the grid realigns
	if g.Check(3.5, tempo) {
		t.Error("tick at gap end landed on the re-anchor itself, no beat expected")
	}
	if math.Abs(g.LastBeatTime()-3.5) > 1e-9 {
		t.Errorf("grid re-anchored at %g, want 3.5", g.LastBeatTime())
	}

	// One interval after the re-anchor the grid fires again
	if !g.Check(4.0, tempo) {
		t.Error("expected beat one interval after re-anchor")
	}
}

func TestGridGapTickInsideToleranceFiresImmediately(t *testing.T) {
	g := NewBeatGrid(DefaultBeatTolerance)
	tempo := NewTempoState(120)

	g.Check(1.0, tempo) // anchor

	// dt = 2.97: five missed intervals plus 0.47, which lands inside the
	// tolerance window of the re-anchored grid
	if !g.Check(3.97, tempo) {
		t.Error("expected immediate beat when the gap remainder falls in tolerance")
	}
	if math.Abs(g.LastBeatTime()-3.97) > 1e-9 {
		t.Errorf("LastBeatTime() = %g, want 3.97", g.LastBeatTime())
	}
}

func TestGridIgnoresDegenerateTempo(t *testing.T) {
	g := NewBeatGrid(DefaultBeatTolerance)

	if g.Check(1.0, TempoState{}) {
		t.Error("zero beat interval must never declare a beat")
	}
	if g.LastBeatTime() != 0 {
		t.Error("degenerate tempo must not anchor the grid")
	}
}

func TestGridReset(t *testing.T) {
	g := NewBeatGrid(DefaultBeatTolerance)
	tempo := NewTempoState(120)

	g.Check(1.0, tempo)
	g.Reset()

	if g.LastBeatTime() != 0 {
		t.Errorf("LastBeatTime() = %g after reset, want 0", g.LastBeatTime())
	}
	if !g.Check(7.3, tempo) {
		t.Error("first check after reset must declare a beat")
	}
}
