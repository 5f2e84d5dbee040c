package spectrum

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// Default dB range for magnitude-to-byte conversion
const (
	DefaultMinDecibels = -100.0
	DefaultMaxDecibels = -30.0
)

// PCMAnalyser is the built-in Analyser implementation for hosts that deliver
// raw PCM frames instead of wiring up a native analyser node. It keeps a
// rolling window of the most recent fftSize samples; each ByteFrequencyData
// call runs a Hann-windowed FFT over that window, applies exponential time
// smoothing to the linear magnitudes, and converts them to 0-255 bins on a
// fixed dB scale.
//
// The analyser reports ErrSourceUnavailable until the first Push delivers
// samples, which models an audio graph that has not started producing yet.
type PCMAnalyser struct {
	fftSize   int
	smoothing float64
	minDB     float64
	maxDB     float64

	window    []float64 // Hann coefficients, length fftSize
	ring      []float64 // rolling PCM window, length fftSize
	smoothed  []float64 // smoothed linear magnitudes, length fftSize/2
	bins      []byte
	connected bool
}

// NewPCMAnalyser creates an analyser with the given FFT size and smoothing
// constant. fftSize must be a power of two >= 32; smoothing must lie in
// [0,1), where 0 disables smoothing entirely. Both are fixed for the life of
// the analyser; changing resolution requires tearing down and recreating.
func NewPCMAnalyser(fftSize int, smoothing float64) (*PCMAnalyser, error) {
	if fftSize < 32 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("fft size must be a power of two >= 32, got %d", fftSize)
	}
	if smoothing < 0 || smoothing >= 1 {
		return nil, fmt.Errorf("smoothing must be in [0,1), got %g", smoothing)
	}

	a := &PCMAnalyser{
		fftSize:   fftSize,
		smoothing: smoothing,
		minDB:     DefaultMinDecibels,
		maxDB:     DefaultMaxDecibels,
		window:    make([]float64, fftSize),
		ring:      make([]float64, fftSize),
		smoothed:  make([]float64, fftSize/2),
		bins:      make([]byte, fftSize/2),
	}

	for i := 0; i < fftSize; i++ {
		a.window[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/float64(fftSize)))
	}

	return a, nil
}

// FFTSize returns the configured FFT size
func (a *PCMAnalyser) FFTSize() int {
	return a.fftSize
}

// BinCount returns the number of frequency bins (fftSize / 2)
func (a *PCMAnalyser) BinCount() int {
	return a.fftSize / 2
}

// Push appends PCM samples (normalized to [-1,1]) to the rolling window.
// Frames larger than the window keep only the most recent fftSize samples.
func (a *PCMAnalyser) Push(samples []float64) {
	if len(samples) == 0 {
		return
	}
	a.connected = true

	if len(samples) >= a.fftSize {
		copy(a.ring, samples[len(samples)-a.fftSize:])
		return
	}

	keep := a.fftSize - len(samples)
	copy(a.ring, a.ring[len(samples):])
	copy(a.ring[keep:], samples)
}

// ByteFrequencyData computes the current 0-255 magnitude spectrum
func (a *PCMAnalyser) ByteFrequencyData() ([]byte, error) {
	if !a.connected {
		return nil, ErrSourceUnavailable
	}

	windowed := make([]float64, a.fftSize)
	for i := range a.ring {
		windowed[i] = a.ring[i] * a.window[i]
	}

	coeffs := fft.FFTReal(windowed)

	dbRange := a.maxDB - a.minDB
	for i := range a.smoothed {
		mag := cmplxAbs(coeffs[i]) / float64(a.fftSize)

		// Exponential time smoothing on linear magnitudes, then dB conversion
		a.smoothed[i] = a.smoothing*a.smoothed[i] + (1.0-a.smoothing)*mag

		db := -math.MaxFloat64
		if a.smoothed[i] > 0 {
			db = 20.0 * math.Log10(a.smoothed[i])
		}

		scaled := 255.0 * (db - a.minDB) / dbRange
		if scaled < 0 {
			scaled = 0
		} else if scaled > 255 {
			scaled = 255
		}
		a.bins[i] = byte(scaled)
	}

	return a.bins, nil
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
