package bands

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lumeviz/ritmo/dsp/spectrum"
)

func TestNewAnalyzerValidation(t *testing.T) {
	tests := []struct {
		name     string
		binCount int
		bass     float64
		mid      float64
		amp      float64
	}{
		{"zero bins", 0, 0.1, 0.4, 0.5},
		{"negative bins", -4, 0.1, 0.4, 0.5},
		{"zero bass portion", 64, 0, 0.4, 0.5},
		{"zero mid portion", 64, 0.1, 0, 0.5},
		{"portions sum to one", 64, 0.5, 0.5, 0.5},
		{"zero amplitude portion", 64, 0.1, 0.4, 0},
		{"amplitude portion above one", 64, 0.1, 0.4, 1.5},
		{"too few bins for three bands", 2, 0.1, 0.4, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewAnalyzer(tc.binCount, tc.bass, tc.mid, tc.amp); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}
}

func TestAnalyzeKnownSpectrum(t *testing.T) {
	a, err := NewDefaultAnalyzer(64)
	if err != nil {
		t.Fatalf("NewDefaultAnalyzer() error = %v", err)
	}

	// 64 bins with default portions: bass [0,6), mid [6,32), high [32,64)
	spec := make(spectrum.Spectrum, 64)
	for i := range spec {
		switch {
		case i < 6:
			spec[i] = 255
		case i < 32:
			spec[i] = 51 // 0.2 normalized
		default:
			spec[i] = 0
		}
	}

	got := a.Analyze(spec)
	if math.Abs(got.Bass-1.0) > 1e-9 {
		t.Errorf("Bass = %g, want 1.0", got.Bass)
	}
	if math.Abs(got.Mid-0.2) > 1e-9 {
		t.Errorf("Mid = %g, want 0.2", got.Mid)
	}
	if got.High != 0 {
		t.Errorf("High = %g, want 0", got.High)
	}
}

func TestAnalyzeBandBounds(t *testing.T) {
	a, err := NewDefaultAnalyzer(64)
	if err != nil {
		t.Fatalf("NewDefaultAnalyzer() error = %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	spec := make(spectrum.Spectrum, 64)

	for i := 0; i < 200; i++ {
		for i := range spec {
			spec[i] = byte(rng.Intn(256))
		}

		b := a.Analyze(spec)
		for name, v := range map[string]float64{"bass": b.Bass, "mid": b.Mid, "high": b.High} {
			if v < 0 || v > 1 {
				t.Fatalf("%s band = %g, outside [0,1]", name, v)
			}
		}
		if amp := a.Amplitude(spec); amp < 0 || amp > 1 {
			t.Fatalf("amplitude = %g, outside [0,1]", amp)
		}
	}
}

func TestAmplitudeAveragesPrefix(t *testing.T) {
	a, err := NewDefaultAnalyzer(64)
	if err != nil {
		t.Fatalf("NewDefaultAnalyzer() error = %v", err)
	}

	// First half at full scale, second half silent: amplitude reads only
	// the prefix and must be 1.0
	spec := make(spectrum.Spectrum, 64)
	for i := 0; i < 32; i++ {
		spec[i] = 255
	}

	if amp := a.Amplitude(spec); math.Abs(amp-1.0) > 1e-9 {
		t.Errorf("Amplitude = %g, want 1.0", amp)
	}
}

func TestAnalyzeIsPure(t *testing.T) {
	a, err := NewDefaultAnalyzer(64)
	if err != nil {
		t.Fatalf("NewDefaultAnalyzer() error = %v", err)
	}

	spec := make(spectrum.Spectrum, 64)
	for i := range spec {
		spec[i] = byte(i * 4)
	}

	first := a.Analyze(spec)
	for i := 0; i < 5; i++ {
		if got := a.Analyze(spec); got != first {
			t.Fatal("Analyze is not deterministic for identical input")
		}
	}
}
