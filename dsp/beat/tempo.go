package beat

import (
	"math"
	"sort"
)

// Defaults for tempo estimation
const (
	// DefaultIntervalBucket is the histogram quantization step in seconds
	DefaultIntervalBucket = 0.05

	// DefaultMinPeaks is the minimum window population before estimating
	DefaultMinPeaks = 4

	// DefaultDominanceRatio is how far the top histogram bucket must exceed
	// the runner-up before an estimate is accepted
	DefaultDominanceRatio = 1.5

	// BPM range all estimates are normalized into by doubling/halving
	MinBPM = 90
	MaxBPM = 180

	// DefaultBPM is the tempo assumed before any estimate locks
	DefaultBPM = 120
)

// TempoState is an accepted tempo estimate. BeatInterval is always 60/BPM
// and therefore strictly positive.
type TempoState struct {
	BPM          int     `json:"bpm"`
	BeatInterval float64 `json:"beat_interval"`
}

// NewTempoState builds a TempoState from a BPM value
func NewTempoState(bpm int) TempoState {
	return TempoState{
		BPM:          bpm,
		BeatInterval: 60.0 / float64(bpm),
	}
}

// TempoEstimator infers BPM from the inter-peak interval distribution.
// Consecutive intervals are quantized into fixed-width buckets; an estimate
// is emitted only when one bucket clearly dominates. Ambiguity (silence,
// arrhythmic passages, sparse peaks) is the expected steady state, not a
// fault: the estimator withholds an update and the caller's prior estimate
// stays authoritative.
type TempoEstimator struct {
	bucket    float64
	minPeaks  int
	dominance float64

	histogram map[int]int // bucket index -> occurrence count
}

// NewTempoEstimator creates an estimator with the given histogram bucket
// width in seconds, minimum peak count, and dominance ratio
func NewTempoEstimator(bucket float64, minPeaks int, dominance float64) *TempoEstimator {
	return &TempoEstimator{
		bucket:    bucket,
		minPeaks:  minPeaks,
		dominance: dominance,
		histogram: make(map[int]int),
	}
}

// Estimate infers the tempo from the current peak window. The second return
// is false when no estimate can be made: too few peaks, no dominant
// interval, or a degenerate interval distribution.
func (e *TempoEstimator) Estimate(window *PeakWindow) (TempoState, bool) {
	timestamps := window.Timestamps()
	if len(timestamps) < e.minPeaks {
		return TempoState{}, false
	}

	clear(e.histogram)
	for i := 1; i < len(timestamps); i++ {
		interval := timestamps[i] - timestamps[i-1]
		if interval <= 0 {
			continue
		}
		e.histogram[int(math.Round(interval/e.bucket))]++
	}
	if len(e.histogram) == 0 {
		return TempoState{}, false
	}

	top, second, topBucket := 0, 0, 0
	for b, count := range e.histogram {
		switch {
		case count > top:
			second = top
			top = count
			topBucket = b
		case count > second:
			second = count
		}
	}

	// Accept only an unambiguous winner: a lone bucket, or one clearly
	// ahead of the runner-up
	if second > 0 && float64(top) <= float64(second)*e.dominance {
		return TempoState{}, false
	}

	dominant := float64(topBucket) * e.bucket
	if dominant <= 0 {
		return TempoState{}, false
	}

	bpm := 60.0 / dominant
	for bpm < MinBPM {
		bpm *= 2
	}
	for bpm > MaxBPM {
		bpm /= 2
	}

	return NewTempoState(int(math.Round(bpm))), true
}

// HistogramBucket is one interval bucket and its occurrence count from the
// most recent Estimate call
type HistogramBucket struct {
	Interval float64 `json:"interval"`
	Count    int     `json:"count"`
}

// Histogram returns a snapshot of the interval histogram built by the most
// recent Estimate call, sorted by count descending. Useful for diagnostics.
func (e *TempoEstimator) Histogram() []HistogramBucket {
	out := make([]HistogramBucket, 0, len(e.histogram))
	for b, count := range e.histogram {
		out = append(out, HistogramBucket{
			Interval: float64(b) * e.bucket,
			Count:    count,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Interval < out[j].Interval
	})

	return out
}
