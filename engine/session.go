package engine

import (
	"fmt"
	"io"

	"github.com/lumeviz/ritmo/dsp/bands"
	"github.com/lumeviz/ritmo/dsp/beat"
	"github.com/lumeviz/ritmo/dsp/spectrum"
	"github.com/lumeviz/ritmo/engine/config"
	"github.com/lumeviz/ritmo/logging"
)

// Phase is the session lifecycle state
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhasePaused
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Session orchestrates the analysis pipeline across the lifecycle of a
// playing audio source: sampler -> band analyzer -> peak detector -> tempo
// estimator -> beat grid. It exclusively owns all nested state; no other
// component retains cross-tick references, and all calls come from a single
// control thread. There is no internal locking.
//
// The host drives it with Advance(now) once per scheduling tick and with the
// lifecycle calls Start/Pause/Resume/SwitchSource/Stop issued by the
// playback collaborator.
type Session struct {
	cfg config.SessionConfig
	log logging.Logger

	phase    Phase
	sourceID string

	analyser  spectrum.Analyser
	sampler   *spectrum.Sampler
	bands     *bands.Analyzer
	detector  *beat.PeakDetector
	window    *beat.PeakWindow
	estimator *beat.TempoEstimator
	grid      *beat.BeatGrid
	tempo     beat.TempoState

	lastFrame Frame
}

// NewSession creates an idle session. The configuration is validated here,
// before anything can activate; a nil logger falls back to the global one.
func NewSession(cfg config.SessionConfig, log logging.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}
	if log == nil {
		log = logging.GetGlobalLogger()
	}

	return &Session{
		cfg:       cfg,
		log:       log.WithFields(logging.Fields{"component": "session"}),
		detector:  beat.NewPeakDetector(cfg.PeakThreshold, cfg.RiseRatio, cfg.MinPeakDistance),
		window:    beat.NewPeakWindow(cfg.PeakWindowSpan),
		estimator: beat.NewTempoEstimator(cfg.IntervalBucket, cfg.MinPeaks, cfg.DominanceRatio),
		grid:      beat.NewBeatGrid(cfg.BeatTolerance),
		tempo:     beat.NewTempoState(cfg.DefaultBPM),
	}, nil
}

// Start activates the session on the given source: Idle -> Playing.
// Peak and beat state start fresh; the tempo resets to the configured
// default unless preserveTempo is set.
func (s *Session) Start(sourceID string, analyser spectrum.Analyser, preserveTempo bool) error {
	if s.phase != PhaseIdle {
		return fmt.Errorf("cannot start in phase %s; use SwitchSource on an active session", s.phase)
	}

	if err := s.acquire(sourceID, analyser); err != nil {
		return err
	}

	s.reset(preserveTempo)
	s.phase = PhasePlaying
	s.lastFrame = Frame{BPM: s.tempo.BPM, Status: StatusOK}

	s.log.Info("session started", logging.Fields{
		"source": sourceID,
		"bins":   s.sampler.BinCount(),
		"bpm":    s.tempo.BPM,
	})
	return nil
}

// Pause halts per-tick advancement: Playing -> Paused. All state is
// retained so a later Resume continues from the current tempo estimate.
func (s *Session) Pause() error {
	if s.phase != PhasePlaying {
		return fmt.Errorf("cannot pause in phase %s", s.phase)
	}

	s.phase = PhasePaused
	s.log.Debug("session paused", logging.Fields{"source": s.sourceID})
	return nil
}

// Resume continues a paused session: Paused -> Playing. The tempo estimate
// survives, but peak and beat alignment state reset because the phase of
// the beat grid cannot be assumed valid after an arbitrary pause. The first
// Advance after Resume therefore declares an immediate anchor beat.
func (s *Session) Resume() error {
	if s.phase != PhasePaused {
		return fmt.Errorf("cannot resume in phase %s", s.phase)
	}

	s.reset(true)
	s.phase = PhasePlaying
	s.log.Debug("session resumed", logging.Fields{
		"source": s.sourceID,
		"bpm":    s.tempo.BPM,
	})
	return nil
}

// SwitchSource swaps the active source without leaving the Active state.
// A different track implies a different rhythm, so everything resets,
// including the tempo unless preserveTempo is set.
func (s *Session) SwitchSource(sourceID string, analyser spectrum.Analyser, preserveTempo bool) error {
	if s.phase == PhaseIdle {
		return fmt.Errorf("cannot switch source in phase %s; use Start", s.phase)
	}

	s.release()
	if err := s.acquire(sourceID, analyser); err != nil {
		// Acquisition failed with the old source already released; the
		// session falls back to Idle rather than keeping a half-wired state
		s.phase = PhaseIdle
		s.lastFrame = Frame{Status: StatusIdle}
		return err
	}

	s.reset(preserveTempo)
	s.phase = PhasePlaying
	s.lastFrame = Frame{BPM: s.tempo.BPM, Status: StatusOK}

	s.log.Info("source switched", logging.Fields{
		"source":         sourceID,
		"preserve_tempo": preserveTempo,
	})
	return nil
}

// Stop tears the session down: Active -> Idle. The analyser handle is
// released deterministically; stopping an idle session is a no-op.
func (s *Session) Stop() {
	if s.phase == PhaseIdle {
		return
	}

	s.release()
	s.reset(false)
	s.phase = PhaseIdle
	s.lastFrame = Frame{Status: StatusIdle}
	s.log.Info("session stopped", logging.Fields{"source": s.sourceID})
	s.sourceID = ""
}

// Advance runs one analysis tick at the given monotonic time in seconds.
// Outside Playing it is a no-op returning the last known frame. A sampler
// failure returns the prior frame values with StatusSourceUnavailable and
// never aborts the session; the host simply retries next tick.
func (s *Session) Advance(now float64) Frame {
	if s.phase != PhasePlaying {
		return s.lastFrame
	}

	spec, err := s.sampler.Sample()
	if err != nil {
		s.log.Debug("spectrum unavailable", logging.Fields{"source": s.sourceID})
		frame := s.lastFrame
		frame.Status = StatusSourceUnavailable
		return frame
	}

	b := s.bands.Analyze(spec)
	amplitude := s.bands.Amplitude(spec)

	if s.detector.Detect(b.Bass, now) {
		s.window.Add(now)
		if estimate, ok := s.estimator.Estimate(s.window); ok && estimate != s.tempo {
			s.log.Debug("tempo locked", logging.Fields{
				"bpm":   estimate.BPM,
				"peaks": s.window.Len(),
			})
			s.tempo = estimate
		}
	}

	frame := Frame{
		Bands:     b,
		Amplitude: amplitude,
		OnBeat:    s.grid.Check(now, s.tempo),
		BPM:       s.tempo.BPM,
		Status:    StatusOK,
	}
	s.lastFrame = frame
	return frame
}

// Phase returns the current lifecycle phase
func (s *Session) Phase() Phase {
	return s.phase
}

// SourceID returns the identifier of the active source, or "" when idle
func (s *Session) SourceID() string {
	return s.sourceID
}

// Tempo returns the current tempo estimate
func (s *Session) Tempo() beat.TempoState {
	return s.tempo
}

// PeakCount returns the number of peaks currently retained in the window
func (s *Session) PeakCount() int {
	return s.window.Len()
}

// LastFrame returns the most recently composed frame
func (s *Session) LastFrame() Frame {
	return s.lastFrame
}

// acquire wires up the sampler and band analyzer for a new source
func (s *Session) acquire(sourceID string, analyser spectrum.Analyser) error {
	sampler, err := spectrum.NewSampler(analyser)
	if err != nil {
		return fmt.Errorf("acquiring source %q: %w", sourceID, err)
	}

	bandAnalyzer, err := bands.NewAnalyzer(sampler.BinCount(), s.cfg.BassPortion, s.cfg.MidPortion, s.cfg.AmplitudePortion)
	if err != nil {
		return fmt.Errorf("acquiring source %q: %w", sourceID, err)
	}

	s.analyser = analyser
	s.sampler = sampler
	s.bands = bandAnalyzer
	s.sourceID = sourceID
	return nil
}

// release drops the sampler and closes the analyser handle if it owns
// platform resources. Safe to call more than once.
func (s *Session) release() {
	if s.analyser == nil {
		return
	}

	if closer, ok := s.analyser.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			s.log.Error(err, "closing analyser", logging.Fields{"source": s.sourceID})
		}
	}
	s.analyser = nil
	s.sampler = nil
	s.bands = nil
}

// reset clears peak and beat-grid state. The tempo estimate survives only
// when preserveTempo is set (resume); otherwise it returns to the default.
func (s *Session) reset(preserveTempo bool) {
	s.window.Reset()
	s.detector.Reset()
	s.grid.Reset()
	if !preserveTempo {
		s.tempo = beat.NewTempoState(s.cfg.DefaultBPM)
	}
}
