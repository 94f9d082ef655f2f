package response

import (
	"errors"
	"fmt"
)

// Errors returned by response functions.
var (
	ErrInvalidConfig    = errors.New("response: invalid configuration")
	ErrMarkerOutOfRange = errors.New("response: time marker outside the table range")
	ErrEmptySegment     = errors.New("response: cycle segment contains no samples")
	ErrEmptyTable       = errors.New("response: properties table is empty")
	ErrChannelMismatch  = errors.New("response: cycle channels do not match the table layout")
)

// Metric selects how the response magnitude of a cycle is expressed.
type Metric int

const (
	// MetricDeltaRel is the relative change 100 * |rf - r0| / r0 in percent.
	MetricDeltaRel Metric = iota
	// MetricDeltaAbs is the signed absolute change rf - r0 in channel units.
	MetricDeltaAbs
	// MetricRatio is the ratio rf / r0.
	MetricRatio
)

// String returns the conventional label of the metric.
func (m Metric) String() string {
	switch m {
	case MetricDeltaRel:
		return "ΔS/S0 (%)"
	case MetricDeltaAbs:
		return "ΔS"
	case MetricRatio:
		return "Rgas/Rair"
	default:
		return "unknown"
	}
}

// Modifier selects an optional transformation applied on top of the metric.
// The two modifiers are mutually exclusive, which the single-choice type
// enforces on its own.
type Modifier int

const (
	// ModifierNone applies the metric as is.
	ModifierNone Modifier = iota
	// ModifierPerConcentration divides each cycle's response by its
	// concentration.
	ModifierPerConcentration
	// ModifierSensitivity requests a linear response vs. concentration
	// regression alongside the power law fit.
	ModifierSensitivity
)

// String returns a short name for the modifier.
func (m Modifier) String() string {
	switch m {
	case ModifierNone:
		return "none"
	case ModifierPerConcentration:
		return "signal/conc"
	case ModifierSensitivity:
		return "sensitivity"
	default:
		return "unknown"
	}
}

// Config holds the response settings shared by cycle calculation and
// curve fitting.
type Config struct {
	Metric   Metric
	Modifier Modifier

	// FitPoints is the number of evaluation points generated for each
	// fitted curve.
	FitPoints int

	TimeUnit          string
	ChannelUnit       string
	ConcentrationUnit string
}

// DefaultConfig returns the settings used when nothing is configured:
// relative response in percent, no modifier, 100 fit points.
func DefaultConfig() Config {
	return Config{
		Metric:            MetricDeltaRel,
		Modifier:          ModifierNone,
		FitPoints:         100,
		TimeUnit:          "unit",
		ChannelUnit:       "unit",
		ConcentrationUnit: "ppm",
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Metric < MetricDeltaRel || c.Metric > MetricRatio {
		return fmt.Errorf("%w: metric %d", ErrInvalidConfig, int(c.Metric))
	}

	if c.Modifier < ModifierNone || c.Modifier > ModifierSensitivity {
		return fmt.Errorf("%w: modifier %d", ErrInvalidConfig, int(c.Modifier))
	}

	if c.FitPoints <= 0 {
		return fmt.Errorf("%w: fit points %d", ErrInvalidConfig, c.FitPoints)
	}

	return nil
}

// Normalized returns the configuration with unset fields filled in with
// defaults.
func (c Config) Normalized() Config {
	return normalizeConfig(c)
}

// normalizeConfig fills unset fields with defaults.
func normalizeConfig(cfg Config) Config {
	def := DefaultConfig()

	if cfg.FitPoints == 0 {
		cfg.FitPoints = def.FitPoints
	}

	if cfg.TimeUnit == "" {
		cfg.TimeUnit = def.TimeUnit
	}

	if cfg.ChannelUnit == "" {
		cfg.ChannelUnit = def.ChannelUnit
	}

	if cfg.ConcentrationUnit == "" {
		cfg.ConcentrationUnit = def.ConcentrationUnit
	}

	return cfg
}

// ResponseLabel returns the display label of the configured response,
// including units, e.g. "ΔS/S0 (%)" or "ΔS (Ω)/ppm" when the
// per-concentration modifier is active.
func (c Config) ResponseLabel() string {
	c = normalizeConfig(c)

	var label string

	switch c.Metric {
	case MetricDeltaAbs:
		label = fmt.Sprintf("ΔS (%s)", c.ChannelUnit)
	case MetricRatio:
		label = "Rgas/Rair (a.u.)"
	default:
		label = "ΔS/S0 (%)"
	}

	if c.Modifier == ModifierPerConcentration {
		label += "/" + c.ConcentrationUnit
	}

	return label
}

// SensitivityUnit returns the unit of the sensitivity slope under the
// configured metric.
func (c Config) SensitivityUnit() string {
	c = normalizeConfig(c)

	switch c.Metric {
	case MetricDeltaAbs:
		return c.ChannelUnit + "/" + c.ConcentrationUnit
	case MetricRatio:
		return "/" + c.ConcentrationUnit
	default:
		return "%/" + c.ConcentrationUnit
	}
}
