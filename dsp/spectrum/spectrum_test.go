package spectrum

import (
	"errors"
	"testing"
)

func TestNewSamplerValidation(t *testing.T) {
	if _, err := NewSampler(nil); err == nil {
		t.Error("expected error for nil analyser")
	}
	if _, err := NewSampler(NewStaticAnalyser(0)); err == nil {
		t.Error("expected error for zero bin count")
	}
}

func TestSamplerReportsUnavailableSource(t *testing.T) {
	analyser := NewStaticAnalyser(64)
	s, err := NewSampler(analyser)
	if err != nil {
		t.Fatalf("NewSampler() error = %v", err)
	}

	if _, err := s.Sample(); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Sample() error = %v, want ErrSourceUnavailable", err)
	}

	// Recoverable: once the source produces, sampling succeeds
	analyser.SetUniform(100)
	spec, err := s.Sample()
	if err != nil {
		t.Fatalf("Sample() after connect error = %v", err)
	}
	if len(spec) != 64 {
		t.Errorf("len(spec) = %d, want 64", len(spec))
	}
	for i, v := range spec {
		if v != 100 {
			t.Fatalf("spec[%d] = %d, want 100", i, v)
		}
	}

	// And a later disconnect is again recoverable
	analyser.Disconnect()
	if _, err := s.Sample(); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Sample() after disconnect error = %v, want ErrSourceUnavailable", err)
	}
}

func TestSpectrumNormalized(t *testing.T) {
	spec := Spectrum{0, 51, 255}
	norm := spec.Normalized()

	want := []float64{0, 0.2, 1.0}
	for i := range want {
		if diff := norm[i] - want[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Normalized()[%d] = %g, want %g", i, norm[i], want[i])
		}
	}
}

func TestStaticAnalyserFramePadding(t *testing.T) {
	a := NewStaticAnalyser(8)
	a.SetFrame([]byte{1, 2, 3})

	bins, err := a.ByteFrequencyData()
	if err != nil {
		t.Fatalf("ByteFrequencyData() error = %v", err)
	}
	want := []byte{1, 2, 3, 0, 0, 0, 0, 0}
	for i := range want {
		if bins[i] != want[i] {
			t.Errorf("bins[%d] = %d, want %d", i, bins[i], want[i])
		}
	}
}
