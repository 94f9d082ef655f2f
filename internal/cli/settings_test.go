package cli

import (
	"testing"

	"github.com/cwbudde/algo-dsp/dsp/window"

	"github.com/cwbudde/algo-gas/measure/response"
)

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in      string
		want    response.Metric
		wantErr bool
	}{
		{"", response.MetricDeltaRel, false},
		{"relative", response.MetricDeltaRel, false},
		{"dR/R0", response.MetricDeltaRel, false},
		{"absolute", response.MetricDeltaAbs, false},
		{"dR", response.MetricDeltaAbs, false},
		{"ratio", response.MetricRatio, false},
		{"Rgas/Rair", response.MetricRatio, false},
		{"bogus", 0, true},
	}

	for _, tt := range tests {
		got, err := parseMetric(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseMetric(%q): expected error", tt.in)
			}

			continue
		}

		if err != nil {
			t.Errorf("parseMetric(%q): %v", tt.in, err)
			continue
		}

		if got != tt.want {
			t.Errorf("parseMetric(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseModifier(t *testing.T) {
	tests := []struct {
		in      string
		want    response.Modifier
		wantErr bool
	}{
		{"", response.ModifierNone, false},
		{"none", response.ModifierNone, false},
		{"per-conc", response.ModifierPerConcentration, false},
		{"per-concentration", response.ModifierPerConcentration, false},
		{"sensitivity", response.ModifierSensitivity, false},
		{"bogus", 0, true},
	}

	for _, tt := range tests {
		got, err := parseModifier(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseModifier(%q): expected error", tt.in)
			}

			continue
		}

		if err != nil {
			t.Errorf("parseModifier(%q): %v", tt.in, err)
			continue
		}

		if got != tt.want {
			t.Errorf("parseModifier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseSeparator(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", '\t', false},
		{"tab", '\t', false},
		{"\t", '\t', false},
		{"comma", ',', false},
		{",", ',', false},
		{"space", ' ', false},
		{" ", ' ', false},
		{"semicolon", ';', false},
		{";", ';', false},
		{"pipe", 0, true},
	}

	for _, tt := range tests {
		got, err := parseSeparator(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseSeparator(%q): expected error", tt.in)
			}

			continue
		}

		if err != nil {
			t.Errorf("parseSeparator(%q): %v", tt.in, err)
			continue
		}

		if got != tt.want {
			t.Errorf("parseSeparator(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseWindowType(t *testing.T) {
	tests := []struct {
		in      string
		want    window.Type
		wantErr bool
	}{
		{"", window.TypeHann, false},
		{"hann", window.TypeHann, false},
		{"Hamming", window.TypeHamming, false},
		{"blackman", window.TypeBlackman, false},
		{"kaiser", 0, true},
	}

	for _, tt := range tests {
		got, err := parseWindowType(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseWindowType(%q): expected error", tt.in)
			}

			continue
		}

		if err != nil {
			t.Errorf("parseWindowType(%q): %v", tt.in, err)
			continue
		}

		if got != tt.want {
			t.Errorf("parseWindowType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}

	if s.Metric != "relative" {
		t.Errorf("Metric = %q, want %q", s.Metric, "relative")
	}

	if s.Modifier != "none" {
		t.Errorf("Modifier = %q, want %q", s.Modifier, "none")
	}

	if s.FitPoints != 100 {
		t.Errorf("FitPoints = %d, want 100", s.FitPoints)
	}

	if s.ConcentrationUnit != "ppm" {
		t.Errorf("ConcentrationUnit = %q, want %q", s.ConcentrationUnit, "ppm")
	}

	if s.LogLevel != "info" || s.LogFormat != "text" {
		t.Errorf("logging defaults = %q/%q, want info/text", s.LogLevel, s.LogFormat)
	}
}

func TestLoadSettingsFromEnv(t *testing.T) {
	t.Setenv("GASRESP_METRIC", "ratio")
	t.Setenv("GASRESP_FIT_POINTS", "250")
	t.Setenv("GASRESP_TIME_UNIT", "s")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}

	if s.Metric != "ratio" {
		t.Errorf("Metric = %q, want %q", s.Metric, "ratio")
	}

	if s.FitPoints != 250 {
		t.Errorf("FitPoints = %d, want 250", s.FitPoints)
	}

	if s.TimeUnit != "s" {
		t.Errorf("TimeUnit = %q, want %q", s.TimeUnit, "s")
	}
}

func TestResponseConfig(t *testing.T) {
	s := &Settings{
		Metric:            "relative",
		Modifier:          "none",
		FitPoints:         150,
		TimeUnit:          "s",
		ChannelUnit:       "Ohm",
		ConcentrationUnit: "ppb",
	}

	cfg, err := s.ResponseConfig("", "")
	if err != nil {
		t.Fatalf("ResponseConfig() error: %v", err)
	}

	if cfg.Metric != response.MetricDeltaRel || cfg.Modifier != response.ModifierNone {
		t.Errorf("metric/modifier = %v/%v, want delta-rel/none", cfg.Metric, cfg.Modifier)
	}

	if cfg.FitPoints != 150 {
		t.Errorf("FitPoints = %d, want 150", cfg.FitPoints)
	}

	if cfg.TimeUnit != "s" || cfg.ChannelUnit != "Ohm" || cfg.ConcentrationUnit != "ppb" {
		t.Errorf("units = %q/%q/%q, want s/Ohm/ppb", cfg.TimeUnit, cfg.ChannelUnit, cfg.ConcentrationUnit)
	}

	// Arguments override the environment defaults.
	cfg, err = s.ResponseConfig("ratio", "sensitivity")
	if err != nil {
		t.Fatalf("ResponseConfig(ratio, sensitivity) error: %v", err)
	}

	if cfg.Metric != response.MetricRatio {
		t.Errorf("Metric = %v, want %v", cfg.Metric, response.MetricRatio)
	}

	if cfg.Modifier != response.ModifierSensitivity {
		t.Errorf("Modifier = %v, want %v", cfg.Modifier, response.ModifierSensitivity)
	}

	if _, err := s.ResponseConfig("bogus", ""); err == nil {
		t.Error("ResponseConfig(bogus): expected error")
	}
}
