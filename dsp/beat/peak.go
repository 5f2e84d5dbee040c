package beat

// Defaults for peak detection, tuned empirically for bass-heavy dance music
const (
	// DefaultPeakThreshold is the absolute bass energy a sample must exceed
	DefaultPeakThreshold = 0.65

	// DefaultRiseRatio is the required relative rise over the previous sample
	DefaultRiseRatio = 1.2

	// DefaultMinPeakDistance is the refractory period between accepted peaks
	// in seconds, suppressing double-triggers on a single kick
	DefaultMinPeakDistance = 0.2

	// DefaultWindowSpan is how far back the peak window retains timestamps,
	// in seconds
	DefaultWindowSpan = 5.0
)

// PeakWindow is a bounded, time-ordered sequence of peak timestamps.
// Every timestamp lies within the span preceding the most recent insertion;
// older entries are evicted on insert. At the default 0.2s minimum peak
// distance over a 5s span the window never holds more than ~25 entries, so
// rebuilding interval statistics from it each tick stays cheap.
type PeakWindow struct {
	span       float64
	timestamps []float64
}

// NewPeakWindow creates a window retaining the given span in seconds
func NewPeakWindow(span float64) *PeakWindow {
	return &PeakWindow{
		span:       span,
		timestamps: make([]float64, 0, 32),
	}
}

// Add records a peak timestamp and evicts entries older than the span.
// Timestamps must be non-decreasing; insertion order is time order.
func (w *PeakWindow) Add(timestamp float64) {
	w.timestamps = append(w.timestamps, timestamp)

	cutoff := timestamp - w.span
	drop := 0
	for drop < len(w.timestamps) && w.timestamps[drop] < cutoff {
		drop++
	}
	if drop > 0 {
		w.timestamps = w.timestamps[:copy(w.timestamps, w.timestamps[drop:])]
	}
}

// Len returns the number of retained timestamps
func (w *PeakWindow) Len() int {
	return len(w.timestamps)
}

// Timestamps returns a copy of the retained timestamps, oldest first
func (w *PeakWindow) Timestamps() []float64 {
	out := make([]float64, len(w.timestamps))
	copy(out, w.timestamps)
	return out
}

// Reset discards all retained timestamps
func (w *PeakWindow) Reset() {
	w.timestamps = w.timestamps[:0]
}

// PeakDetector detects discrete percussive onsets from the bass band using
// rising-edge detection with an absolute threshold and a refractory period.
// Deliberately not spectral-flux based: the combination of a 20% relative
// rise, a fixed energy floor, and a minimum peak distance is cheap and
// resistant to false positives on sustained bass.
type PeakDetector struct {
	threshold   float64
	riseRatio   float64
	minDistance float64

	prevBass     float64
	hasPrev      bool
	lastPeakTime float64
	hasLastPeak  bool
}

// NewPeakDetector creates a detector with the given threshold, relative rise
// ratio, and minimum peak distance in seconds
func NewPeakDetector(threshold, riseRatio, minDistance float64) *PeakDetector {
	return &PeakDetector{
		threshold:   threshold,
		riseRatio:   riseRatio,
		minDistance: minDistance,
	}
}

// Detect reports whether a peak fires at the given bass energy and time.
// A peak requires all of: a previous sample on record (guards against a
// spurious peak on the very first sample after a reset), energy above the
// threshold, a relative rise over the previous sample, and clearance of the
// refractory period. The previous-energy state updates on every call,
// firing or not.
func (d *PeakDetector) Detect(bassEnergy, now float64) bool {
	fired := d.hasPrev &&
		bassEnergy > d.threshold &&
		bassEnergy > d.prevBass*d.riseRatio &&
		(!d.hasLastPeak || now-d.lastPeakTime > d.minDistance)

	if fired {
		d.lastPeakTime = now
		d.hasLastPeak = true
	}
	d.prevBass = bassEnergy
	d.hasPrev = true

	return fired
}

// PrevBass returns the bass energy seen on the previous call
func (d *PeakDetector) PrevBass() float64 {
	return d.prevBass
}

// Reset clears the detector so the next sample is treated as the first.
// Called on source switches and resume, where the previous energy no longer
// describes the incoming signal.
func (d *PeakDetector) Reset() {
	d.prevBass = 0
	d.hasPrev = false
	d.lastPeakTime = 0
	d.hasLastPeak = false
}
