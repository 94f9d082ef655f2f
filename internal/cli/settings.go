package cli

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-dsp/dsp/window"
	"github.com/kelseyhightower/envconfig"

	"github.com/cwbudde/algo-gas/measure/response"
)

// Settings are the environment-level defaults of the tool. Flags override
// them per invocation.
type Settings struct {
	Metric            string `envconfig:"GASRESP_METRIC" default:"relative"`
	Modifier          string `envconfig:"GASRESP_MODIFIER" default:"none"`
	FitPoints         int    `envconfig:"GASRESP_FIT_POINTS" default:"100"`
	TimeUnit          string `envconfig:"GASRESP_TIME_UNIT" default:"unit"`
	ChannelUnit       string `envconfig:"GASRESP_CHANNEL_UNIT" default:"unit"`
	ConcentrationUnit string `envconfig:"GASRESP_CONCENTRATION_UNIT" default:"ppm"`
	LogLevel          string `envconfig:"GASRESP_LOG_LEVEL" default:"info"`
	LogFormat         string `envconfig:"GASRESP_LOG_FORMAT" default:"text"`
}

// LoadSettings reads the GASRESP_* environment variables.
func LoadSettings() (*Settings, error) {
	var s Settings

	err := envconfig.Process("", &s)
	if err != nil {
		return nil, fmt.Errorf("cli: settings: %w", err)
	}

	return &s, nil
}

// ResponseConfig translates the settings into a validated response
// configuration. Non-empty metric and modifier arguments take precedence
// over the environment.
func (s *Settings) ResponseConfig(metric, modifier string) (response.Config, error) {
	if metric == "" {
		metric = s.Metric
	}

	if modifier == "" {
		modifier = s.Modifier
	}

	m, err := parseMetric(metric)
	if err != nil {
		return response.Config{}, err
	}

	mod, err := parseModifier(modifier)
	if err != nil {
		return response.Config{}, err
	}

	cfg := response.DefaultConfig()
	cfg.Metric = m
	cfg.Modifier = mod
	cfg.FitPoints = s.FitPoints
	cfg.TimeUnit = s.TimeUnit
	cfg.ChannelUnit = s.ChannelUnit
	cfg.ConcentrationUnit = s.ConcentrationUnit

	return cfg, cfg.Validate()
}

func parseMetric(s string) (response.Metric, error) {
	switch strings.ToLower(s) {
	case "", "relative", "dr/r0":
		return response.MetricDeltaRel, nil
	case "absolute", "dr":
		return response.MetricDeltaAbs, nil
	case "ratio", "rgas/rair":
		return response.MetricRatio, nil
	}

	return 0, fmt.Errorf("cli: unknown metric %q (use relative, absolute or ratio)", s)
}

func parseModifier(s string) (response.Modifier, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return response.ModifierNone, nil
	case "per-conc", "per-concentration":
		return response.ModifierPerConcentration, nil
	case "sensitivity":
		return response.ModifierSensitivity, nil
	}

	return 0, fmt.Errorf("cli: unknown modifier %q (use none, per-conc or sensitivity)", s)
}

func parseSeparator(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "tab", "\t":
		return '\t', nil
	case "comma", ",":
		return ',', nil
	case "space", " ":
		return ' ', nil
	case "semicolon", ";":
		return ';', nil
	}

	return 0, fmt.Errorf("cli: unknown separator %q (use tab, comma, space or semicolon)", s)
}

func parseWindowType(s string) (window.Type, error) {
	switch strings.ToLower(s) {
	case "", "hann":
		return window.TypeHann, nil
	case "hamming":
		return window.TypeHamming, nil
	case "blackman":
		return window.TypeBlackman, nil
	}

	return 0, fmt.Errorf("cli: unknown window type %q (use hann, hamming or blackman)", s)
}
