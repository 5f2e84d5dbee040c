package spectrum

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable indicates the underlying audio graph is not ready to
// produce samples (no source connected yet, autoplay blocked, device revoked).
// It is always recoverable: callers retry on the next tick.
var ErrSourceUnavailable = errors.New("audio source unavailable")

// Spectrum is one tick's magnitude spectrum: fixed-size bins normalized to
// 0-255, low frequencies first. It is transient and must not be retained
// across ticks.
type Spectrum []byte

// Normalized returns the spectrum scaled into [0,1] as float64 values
func (s Spectrum) Normalized() []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v) / 255.0
	}
	return out
}

// Analyser is the platform FFT source the sampler reads from. Hosts with a
// native analyser node adapt it to this interface; PCMAnalyser is the
// built-in implementation for raw PCM input.
type Analyser interface {
	// ByteFrequencyData returns the current magnitude spectrum as 0-255
	// bins, or ErrSourceUnavailable if the audio graph is not producing yet.
	ByteFrequencyData() ([]byte, error)

	// BinCount returns the fixed number of frequency bins
	BinCount() int
}

// Sampler wraps an Analyser and produces one Spectrum per tick.
// It is a stateless transform borrowed per tick; resolution and smoothing
// belong to the analyser and are fixed at construction.
type Sampler struct {
	analyser Analyser
	buf      Spectrum
}

// NewSampler creates a sampler over the given analyser
func NewSampler(analyser Analyser) (*Sampler, error) {
	if analyser == nil {
		return nil, fmt.Errorf("analyser cannot be nil")
	}
	if analyser.BinCount() <= 0 {
		return nil, fmt.Errorf("analyser reports invalid bin count: %d", analyser.BinCount())
	}

	return &Sampler{
		analyser: analyser,
		buf:      make(Spectrum, analyser.BinCount()),
	}, nil
}

// BinCount returns the number of bins in every sampled spectrum
func (s *Sampler) BinCount() int {
	return s.analyser.BinCount()
}

// Sample reads the current magnitude spectrum from the analyser.
// The returned slice is reused between calls; callers must not retain it.
func (s *Sampler) Sample() (Spectrum, error) {
	bins, err := s.analyser.ByteFrequencyData()
	if err != nil {
		return nil, err
	}
	if len(bins) != len(s.buf) {
		return nil, fmt.Errorf("analyser returned %d bins, expected %d", len(bins), len(s.buf))
	}

	copy(s.buf, bins)
	return s.buf, nil
}
