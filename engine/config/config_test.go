package config

import "testing"

func TestDefaultSessionConfigIsValid(t *testing.T) {
	cfg := DefaultSessionConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultSessionConfig().Validate() = %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SessionConfig)
	}{
		{"zero fft size", func(c *SessionConfig) { c.FFTSize = 0 }},
		{"non power-of-two fft size", func(c *SessionConfig) { c.FFTSize = 100 }},
		{"negative smoothing", func(c *SessionConfig) { c.Smoothing = -0.2 }},
		{"smoothing of one", func(c *SessionConfig) { c.Smoothing = 1.0 }},
		{"zero bass portion", func(c *SessionConfig) { c.BassPortion = 0 }},
		{"portions sum to one", func(c *SessionConfig) { c.BassPortion = 0.6; c.MidPortion = 0.4 }},
		{"zero amplitude portion", func(c *SessionConfig) { c.AmplitudePortion = 0 }},
		{"zero peak threshold", func(c *SessionConfig) { c.PeakThreshold = 0 }},
		{"peak threshold of one", func(c *SessionConfig) { c.PeakThreshold = 1 }},
		{"rise ratio of one", func(c *SessionConfig) { c.RiseRatio = 1 }},
		{"negative min peak distance", func(c *SessionConfig) { c.MinPeakDistance = -0.1 }},
		{"window smaller than refractory", func(c *SessionConfig) { c.PeakWindowSpan = 0.1 }},
		{"zero interval bucket", func(c *SessionConfig) { c.IntervalBucket = 0 }},
		{"min peaks of one", func(c *SessionConfig) { c.MinPeaks = 1 }},
		{"dominance ratio of one", func(c *SessionConfig) { c.DominanceRatio = 1 }},
		{"default bpm below range", func(c *SessionConfig) { c.DefaultBPM = 60 }},
		{"default bpm above range", func(c *SessionConfig) { c.DefaultBPM = 200 }},
		{"zero beat tolerance", func(c *SessionConfig) { c.BeatTolerance = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultSessionConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tc.name)
			}
		})
	}
}
