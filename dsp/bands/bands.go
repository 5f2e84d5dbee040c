package bands

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/lumeviz/ritmo/dsp/spectrum"
)

// Default spectrum partitioning: first 10% of bins is bass, the next 40% is
// mid, the remainder is high. Amplitude averages the first half.
const (
	DefaultBassPortion      = 0.10
	DefaultMidPortion       = 0.40
	DefaultAmplitudePortion = 0.50
)

// Bands is the three-channel energy summary of one spectrum, each channel
// normalized to [0,1]
type Bands struct {
	Bass float64 `json:"bass"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// Analyzer reduces a raw spectrum into Bands and an overall amplitude.
// It is a deterministic, pure transform: no smoothing and no history.
// Smoothing, if desired, is the caller's responsibility.
type Analyzer struct {
	bassEnd int // bins [0, bassEnd) are bass
	midEnd  int // bins [bassEnd, midEnd) are mid, [midEnd, n) are high
	ampEnd  int // amplitude averages bins [0, ampEnd)
	n       int
}

// NewAnalyzer creates an analyzer for spectra of binCount bins using the
// given portion splits. Portions are fractions of the bin count; bassPortion
// and midPortion must be positive and sum to less than 1, ampPortion must be
// in (0,1].
func NewAnalyzer(binCount int, bassPortion, midPortion, ampPortion float64) (*Analyzer, error) {
	if binCount <= 0 {
		return nil, fmt.Errorf("bin count must be positive, got %d", binCount)
	}
	if bassPortion <= 0 || midPortion <= 0 || bassPortion+midPortion >= 1 {
		return nil, fmt.Errorf("band portions must be positive and sum below 1, got bass=%g mid=%g", bassPortion, midPortion)
	}
	if ampPortion <= 0 || ampPortion > 1 {
		return nil, fmt.Errorf("amplitude portion must be in (0,1], got %g", ampPortion)
	}

	a := &Analyzer{
		bassEnd: int(float64(binCount) * bassPortion),
		midEnd:  int(float64(binCount) * (bassPortion + midPortion)),
		ampEnd:  int(float64(binCount) * ampPortion),
		n:       binCount,
	}

	// Tiny spectra still get at least one bin per band
	if a.bassEnd < 1 {
		a.bassEnd = 1
	}
	if a.midEnd <= a.bassEnd {
		a.midEnd = a.bassEnd + 1
	}
	if a.midEnd >= binCount {
		return nil, fmt.Errorf("bin count %d too small for three bands", binCount)
	}
	if a.ampEnd < 1 {
		a.ampEnd = 1
	}

	return a, nil
}

// NewDefaultAnalyzer creates an analyzer with the standard 10/40/50 splits
func NewDefaultAnalyzer(binCount int) (*Analyzer, error) {
	return NewAnalyzer(binCount, DefaultBassPortion, DefaultMidPortion, DefaultAmplitudePortion)
}

// Analyze reduces one spectrum to its three-band energy summary.
// Each band is the arithmetic mean of its range's normalized samples.
func (a *Analyzer) Analyze(spec spectrum.Spectrum) Bands {
	norm := spec.Normalized()
	if len(norm) < a.n {
		return Bands{}
	}

	return Bands{
		Bass: stat.Mean(norm[:a.bassEnd], nil),
		Mid:  stat.Mean(norm[a.bassEnd:a.midEnd], nil),
		High: stat.Mean(norm[a.midEnd:a.n], nil),
	}
}

// Amplitude returns the overall amplitude of one spectrum: the mean of the
// configured prefix of normalized bins, in [0,1].
func (a *Analyzer) Amplitude(spec spectrum.Spectrum) float64 {
	norm := spec.Normalized()
	if len(norm) < a.ampEnd {
		return 0.0
	}

	return stat.Mean(norm[:a.ampEnd], nil)
}
