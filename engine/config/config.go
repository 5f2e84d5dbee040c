package config

import (
	"fmt"

	"github.com/lumeviz/ritmo/dsp/bands"
	"github.com/lumeviz/ritmo/dsp/beat"
)

// SessionConfig holds every tunable of the analysis engine. All values are
// fixed when a session starts; retuning requires tearing the session down
// and recreating it. Constants live here rather than inside the algorithms
// so implementers can tune without touching logic.
type SessionConfig struct {
	// Spectrum resolution and time smoothing for the built-in analyser.
	// FFTSize must be a power of two; the spectrum carries FFTSize/2 bins.
	FFTSize   int     `json:"fft_size"`
	Smoothing float64 `json:"smoothing"`

	// Band partitioning as fractions of the bin count
	BassPortion      float64 `json:"bass_portion"`
	MidPortion       float64 `json:"mid_portion"`
	AmplitudePortion float64 `json:"amplitude_portion"`

	// Peak detection
	PeakThreshold   float64 `json:"peak_threshold"`
	RiseRatio       float64 `json:"rise_ratio"`
	MinPeakDistance float64 `json:"min_peak_distance"`
	PeakWindowSpan  float64 `json:"peak_window_span"`

	// Tempo estimation
	IntervalBucket float64 `json:"interval_bucket"`
	MinPeaks       int     `json:"min_peaks"`
	DominanceRatio float64 `json:"dominance_ratio"`
	DefaultBPM     int     `json:"default_bpm"`

	// Beat grid
	BeatTolerance float64 `json:"beat_tolerance"`
}

// DefaultSessionConfig returns the tuning used for typical dance-music
// material: 64-bin spectra, a 0.65 bass threshold with a 20% rise rule, a
// 5-second peak memory, and a 120 BPM prior.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		FFTSize:          128,
		Smoothing:        0.8,
		BassPortion:      bands.DefaultBassPortion,
		MidPortion:       bands.DefaultMidPortion,
		AmplitudePortion: bands.DefaultAmplitudePortion,
		PeakThreshold:    beat.DefaultPeakThreshold,
		RiseRatio:        beat.DefaultRiseRatio,
		MinPeakDistance:  beat.DefaultMinPeakDistance,
		PeakWindowSpan:   beat.DefaultWindowSpan,
		IntervalBucket:   beat.DefaultIntervalBucket,
		MinPeaks:         beat.DefaultMinPeaks,
		DominanceRatio:   beat.DefaultDominanceRatio,
		DefaultBPM:       beat.DefaultBPM,
		BeatTolerance:    beat.DefaultBeatTolerance,
	}
}

// Validate rejects configurations that would break algorithm invariants.
// Called eagerly before a session becomes active; a failed validation never
// leaves partially applied state behind.
func (c *SessionConfig) Validate() error {
	if c.FFTSize < 32 || c.FFTSize&(c.FFTSize-1) != 0 {
		return fmt.Errorf("fft_size must be a power of two >= 32, got %d", c.FFTSize)
	}
	if c.Smoothing < 0 || c.Smoothing >= 1 {
		return fmt.Errorf("smoothing must be in [0,1), got %g", c.Smoothing)
	}
	if c.BassPortion <= 0 || c.MidPortion <= 0 || c.BassPortion+c.MidPortion >= 1 {
		return fmt.Errorf("band portions must be positive and sum below 1, got bass=%g mid=%g", c.BassPortion, c.MidPortion)
	}
	if c.AmplitudePortion <= 0 || c.AmplitudePortion > 1 {
		return fmt.Errorf("amplitude_portion must be in (0,1], got %g", c.AmplitudePortion)
	}
	if c.PeakThreshold <= 0 || c.PeakThreshold >= 1 {
		return fmt.Errorf("peak_threshold must be in (0,1), got %g", c.PeakThreshold)
	}
	if c.RiseRatio <= 1 {
		return fmt.Errorf("rise_ratio must exceed 1, got %g", c.RiseRatio)
	}
	if c.MinPeakDistance <= 0 {
		return fmt.Errorf("min_peak_distance must be positive, got %g", c.MinPeakDistance)
	}
	if c.PeakWindowSpan <= c.MinPeakDistance {
		return fmt.Errorf("peak_window_span (%g) must exceed min_peak_distance (%g)", c.PeakWindowSpan, c.MinPeakDistance)
	}
	if c.IntervalBucket <= 0 {
		return fmt.Errorf("interval_bucket must be positive, got %g", c.IntervalBucket)
	}
	if c.MinPeaks < 2 {
		return fmt.Errorf("min_peaks must be at least 2, got %d", c.MinPeaks)
	}
	if c.DominanceRatio <= 1 {
		return fmt.Errorf("dominance_ratio must exceed 1, got %g", c.DominanceRatio)
	}
	if c.DefaultBPM < beat.MinBPM || c.DefaultBPM > beat.MaxBPM {
		return fmt.Errorf("default_bpm must be within [%d,%d], got %d", beat.MinBPM, beat.MaxBPM, c.DefaultBPM)
	}
	if c.BeatTolerance <= 0 {
		return fmt.Errorf("beat_tolerance must be positive, got %g", c.BeatTolerance)
	}
	return nil
}
