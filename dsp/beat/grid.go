package beat

import "math"

// DefaultBeatTolerance is the timing slack in seconds for a tick to count as
// coincident with the predicted beat
const DefaultBeatTolerance = 0.05

// BeatGrid is a predictive phase-locked timeline of expected beat instants.
// Given a tempo it decides whether "now" coincides with a beat, tolerating
// tick jitter and re-synchronizing after discontinuities (pause, seek)
// without restarting tempo estimation. Anchoring on the last declared beat
// rather than naive modulo arithmetic keeps drift from accumulating.
type BeatGrid struct {
	lastBeatTime float64 // 0 is the "not yet aligned" sentinel
	tolerance    float64
}

// NewBeatGrid creates a grid with the given tolerance in seconds
func NewBeatGrid(tolerance float64) *BeatGrid {
	return &BeatGrid{tolerance: tolerance}
}

// Check reports whether the current tick coincides with a beat at the given
// tempo. The first call after a reset always declares a beat and anchors the
// grid on it.
func (g *BeatGrid) Check(now float64, tempo TempoState) bool {
	if tempo.BeatInterval <= 0 {
		return false
	}

	// Unaligned: the first tick is the anchor beat
	if g.lastBeatTime == 0 {
		g.lastBeatTime = now
		return true
	}

	dt := now - g.lastBeatTime

	if dt >= tempo.BeatInterval-g.tolerance && dt <= tempo.BeatInterval+g.tolerance {
		g.lastBeatTime = now
		return true
	}

	// A gap of multiple intervals means the clock kept running while we
	// did not (pause, seek, stall). Re-anchor onto the grid position the
	// missed beats imply instead of drifting.
	if dt > 2*tempo.BeatInterval {
		missed := math.Floor(dt / tempo.BeatInterval)
		g.lastBeatTime = now - (dt - missed*tempo.BeatInterval)

		dt = now - g.lastBeatTime
		if dt >= tempo.BeatInterval-g.tolerance && dt <= tempo.BeatInterval+g.tolerance {
			g.lastBeatTime = now
			return true
		}
	}

	return false
}

// LastBeatTime returns the grid anchor, or 0 when unaligned
func (g *BeatGrid) LastBeatTime() float64 {
	return g.lastBeatTime
}

// Reset returns the grid to the unaligned state so the next Check declares
// an immediate anchor beat
func (g *BeatGrid) Reset() {
	g.lastBeatTime = 0
}
