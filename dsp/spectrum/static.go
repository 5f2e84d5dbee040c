package spectrum

// StaticAnalyser is an Analyser fed with pre-built spectra. It backs test
// harnesses and demo hosts that script the engine's input instead of wiring
// a live audio graph.
//
// With no frame set it reports ErrSourceUnavailable, mirroring a live
// analyser whose source has not started producing.
type StaticAnalyser struct {
	binCount int
	frame    []byte
	hasFrame bool
}

// NewStaticAnalyser creates a scripted analyser with the given bin count
func NewStaticAnalyser(binCount int) *StaticAnalyser {
	return &StaticAnalyser{
		binCount: binCount,
		frame:    make([]byte, binCount),
	}
}

// BinCount returns the fixed number of frequency bins
func (a *StaticAnalyser) BinCount() int {
	return a.binCount
}

// SetFrame installs the spectrum returned by subsequent ByteFrequencyData
// calls. Short frames are zero-padded, long frames truncated.
func (a *StaticAnalyser) SetFrame(bins []byte) {
	for i := range a.frame {
		if i < len(bins) {
			a.frame[i] = bins[i]
		} else {
			a.frame[i] = 0
		}
	}
	a.hasFrame = true
}

// SetUniform installs a flat spectrum with every bin at the given level
func (a *StaticAnalyser) SetUniform(level byte) {
	for i := range a.frame {
		a.frame[i] = level
	}
	a.hasFrame = true
}

// Disconnect makes subsequent reads fail with ErrSourceUnavailable until the
// next SetFrame or SetUniform, simulating a revoked or not-yet-ready source.
func (a *StaticAnalyser) Disconnect() {
	a.hasFrame = false
}

// ByteFrequencyData returns the scripted spectrum
func (a *StaticAnalyser) ByteFrequencyData() ([]byte, error) {
	if !a.hasFrame {
		return nil, ErrSourceUnavailable
	}
	return a.frame, nil
}
