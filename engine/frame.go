package engine

import "github.com/lumeviz/ritmo/dsp/bands"

// Status is the frame-level health signal. Recoverable conditions surface
// here rather than as errors that unwind the session.
type Status int

const (
	// StatusIdle means the session is not actively advancing
	StatusIdle Status = iota

	// StatusOK means the frame was composed from a fresh spectrum
	StatusOK

	// StatusSourceUnavailable means the audio graph produced nothing this
	// tick; the frame carries the last known values. Retried next tick.
	StatusSourceUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusOK:
		return "ok"
	case StatusSourceUnavailable:
		return "source_unavailable"
	default:
		return "unknown"
	}
}

// Frame is the per-tick analysis result handed to visual collaborators.
// Consumers treat it as read-only and poll it once per render frame.
type Frame struct {
	Bands     bands.Bands `json:"bands"`
	Amplitude float64     `json:"amplitude"`
	OnBeat    bool        `json:"on_beat"`
	BPM       int         `json:"bpm"`
	Status    Status      `json:"status"`
}
