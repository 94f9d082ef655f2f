package baseline

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-dsp/dsp/window"

	"github.com/cwbudde/algo-gas/internal/testutil"
	"github.com/cwbudde/algo-gas/series"
)

func baselineTable(t *testing.T, values []float64) *series.Table {
	t.Helper()

	tab, err := series.New(testutil.TimeAxis(len(values), 1),
		series.Channel{Name: "R1", Values: values})
	if err != nil {
		t.Fatalf("series.New: %v", err)
	}

	return tab
}

func TestAnalyzeFlat(t *testing.T) {
	values := make([]float64, 10)
	for i := range values {
		values[i] = 100
	}

	s, err := Analyze(baselineTable(t, values), "R1")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if s.Channel != "R1" {
		t.Errorf("Channel = %q, want %q", s.Channel, "R1")
	}

	if s.Drift != 0 {
		t.Errorf("Drift = %v, want 0", s.Drift)
	}

	if s.DriftTotal != 0 {
		t.Errorf("DriftTotal = %v, want 0", s.DriftTotal)
	}

	if s.NoiseRMS != 0 {
		t.Errorf("NoiseRMS = %v, want 0", s.NoiseRMS)
	}

	if !math.IsInf(s.SNR_dB, 1) {
		t.Errorf("SNR_dB = %v, want +Inf", s.SNR_dB)
	}

	testutil.RequireNearlyEqual(t, s.Signal.DC, 100, 1e-12)
}

func TestAnalyzeRamp(t *testing.T) {
	values := make([]float64, 10)
	for i := range values {
		values[i] = 100 + 0.5*float64(i)
	}

	s, err := Analyze(baselineTable(t, values), "R1")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	testutil.RequireNearlyEqual(t, s.Drift, 0.5, 1e-12)
	testutil.RequireNearlyEqual(t, s.DriftTotal, 4.5, 1e-12)

	if s.NoiseRMS > 1e-9 {
		t.Errorf("NoiseRMS = %v, want ~0 after detrending", s.NoiseRMS)
	}

	if s.SNR_dB < 100 {
		t.Errorf("SNR_dB = %v, want > 100 for a noise-free ramp", s.SNR_dB)
	}
}

func TestAnalyzeNoisy(t *testing.T) {
	values := testutil.NoisyBaseline(42, 100, 1, 256)

	s, err := Analyze(baselineTable(t, values), "R1")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	// Uniform noise in [-1, 1] has RMS 1/sqrt(3) ~ 0.577.
	if s.NoiseRMS < 0.4 || s.NoiseRMS > 0.75 {
		t.Errorf("NoiseRMS = %v, want ~0.577", s.NoiseRMS)
	}

	if math.Abs(s.Drift) > 0.05 {
		t.Errorf("Drift = %v, want ~0 for a flat noisy trace", s.Drift)
	}

	if s.SNR_dB < 30 || s.SNR_dB > 60 {
		t.Errorf("SNR_dB = %v, want ~44.8", s.SNR_dB)
	}

	if s.Signal.Length != 256 {
		t.Errorf("Signal.Length = %d, want 256", s.Signal.Length)
	}
}

func TestAnalyzeAll(t *testing.T) {
	flat := make([]float64, 10)
	ramp := make([]float64, 10)

	for i := range flat {
		flat[i] = 100
		ramp[i] = 50 + 2*float64(i)
	}

	tab, err := series.New(testutil.TimeAxis(10, 1),
		series.Channel{Name: "R1", Values: flat},
		series.Channel{Name: "R2", Values: ramp})
	if err != nil {
		t.Fatalf("series.New: %v", err)
	}

	all, err := AnalyzeAll(tab)
	if err != nil {
		t.Fatalf("AnalyzeAll: %v", err)
	}

	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}

	if all[0].Channel != "R1" || all[1].Channel != "R2" {
		t.Errorf("channel order = %q, %q, want R1, R2", all[0].Channel, all[1].Channel)
	}

	testutil.RequireNearlyEqual(t, all[1].Drift, 2, 1e-12)
}

func TestAnalyzeErrors(t *testing.T) {
	single, err := series.New([]float64{0}, series.Channel{Name: "R1", Values: []float64{100}})
	if err != nil {
		t.Fatalf("series.New: %v", err)
	}

	tests := []struct {
		name    string
		table   *series.Table
		channel string
		wantErr error
	}{
		{"nil table", nil, "R1", ErrShortSeries},
		{"single sample", single, "R1", ErrShortSeries},
		{"unknown channel", baselineTable(t, []float64{100, 101, 102}), "R9", series.ErrUnknownChannel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Analyze(tt.table, tt.channel)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Analyze error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func sineBaseline(n int, cyclesPerSample float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + math.Sin(2*math.Pi*cyclesPerSample*float64(i))
	}

	return out
}

func TestNoiseSpectrumSinePeak(t *testing.T) {
	const n = 64

	// Eight full cycles over 64 unit-spaced samples land exactly on bin 8.
	tab := baselineTable(t, sineBaseline(n, 0.125))

	cfgs := []struct {
		name string
		cfg  SpectrumConfig
	}{
		{"default hann", SpectrumConfig{}},
		{"blackman", SpectrumConfig{WindowType: window.TypeBlackman}},
	}

	for _, tc := range cfgs {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := NoiseSpectrum(tab, "R1", tc.cfg)
			if err != nil {
				t.Fatalf("NoiseSpectrum: %v", err)
			}

			if len(spec.Power) != n/2+1 {
				t.Fatalf("len(Power) = %d, want %d", len(spec.Power), n/2+1)
			}

			if len(spec.Frequencies) != len(spec.Power) {
				t.Fatalf("len(Frequencies) = %d, want %d", len(spec.Frequencies), len(spec.Power))
			}

			peak := 0
			for i, p := range spec.Power {
				if p > spec.Power[peak] {
					peak = i
				}
			}

			if peak != 8 {
				t.Errorf("peak bin = %d, want 8", peak)
			}

			if spec.Frequencies[0] != 0 {
				t.Errorf("Frequencies[0] = %v, want 0", spec.Frequencies[0])
			}

			testutil.RequireNearlyEqual(t, spec.Frequencies[8], 0.125, 1e-12)
		})
	}
}

func TestNoiseSpectrumDefaultSize(t *testing.T) {
	values := testutil.NoisyBaseline(7, 100, 1, 100)

	spec, err := NoiseSpectrum(baselineTable(t, values), "R1", SpectrumConfig{})
	if err != nil {
		t.Fatalf("NoiseSpectrum: %v", err)
	}

	// 100 samples round up to a 128-point transform.
	if len(spec.Power) != 65 {
		t.Errorf("len(Power) = %d, want 65", len(spec.Power))
	}

	testutil.RequireNearlyEqual(t, spec.Frequencies[1], 1.0/128, 1e-15)
}

func TestNoiseSpectrumExplicitSize(t *testing.T) {
	tab := baselineTable(t, sineBaseline(64, 0.125))

	spec, err := NoiseSpectrum(tab, "R1", SpectrumConfig{FFTSize: 256})
	if err != nil {
		t.Fatalf("NoiseSpectrum: %v", err)
	}

	if len(spec.Power) != 129 {
		t.Errorf("len(Power) = %d, want 129", len(spec.Power))
	}

	testutil.RequireNearlyEqual(t, spec.Frequencies[1], 1.0/256, 1e-15)
}

func TestNoiseSpectrumErrors(t *testing.T) {
	tab := baselineTable(t, sineBaseline(64, 0.125))

	tests := []struct {
		name    string
		table   *series.Table
		channel string
		cfg     SpectrumConfig
		wantErr error
	}{
		{"nil table", nil, "R1", SpectrumConfig{}, ErrShortSeries},
		{"unknown channel", tab, "R9", SpectrumConfig{}, series.ErrUnknownChannel},
		{"fft size too small", tab, "R1", SpectrumConfig{FFTSize: 32}, ErrFFTSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NoiseSpectrum(tt.table, tt.channel, tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NoiseSpectrum error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNextPowerOf2(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{1, 1},
		{2, 2},
		{3, 4},
		{64, 64},
		{100, 128},
	}

	for _, tt := range tests {
		if got := nextPowerOf2(tt.in); got != tt.want {
			t.Errorf("nextPowerOf2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
