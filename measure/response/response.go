package response

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-gas/series"
)

// Markers are the raw cycle boundaries as entered by the user, before
// snapping to sample times.
type Markers struct {
	StartExposure float64
	EndExposure   float64
	EndRecovery   float64
}

// ChannelResult holds the outcome of one cycle calculation for a single
// channel.
type ChannelResult struct {
	Response     float64
	ResponseTime float64
	RecoveryTime float64

	// Boundary values the computation is based on.
	R0    float64 // value at the start of exposure
	RF    float64 // value at the end of exposure
	RFRec float64 // value at the end of recovery

	// Threshold values the time lookups resolved against.
	ResponseThreshold float64
	RecoveryThreshold float64
}

// Cycle is the result of one exposure/recovery calculation across all
// channels of a table. It is transient until appended to a [Table].
type Cycle struct {
	Concentration float64

	// Cycle boundaries snapped to sample times.
	StartExposure float64
	EndExposure   float64
	EndRecovery   float64

	Channels  []string
	ByChannel map[string]ChannelResult

	// Warnings flag suspicious but usable results, such as negative
	// response times from an inverted cycle window.
	Warnings []string
}

// HasWarnings reports whether the calculation flagged any channel.
func (c *Cycle) HasWarnings() bool {
	return len(c.Warnings) > 0
}

// Calculator computes exposure/recovery cycles over a table.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a Calculator, filling unset configuration fields
// with defaults.
func NewCalculator(cfg Config) (*Calculator, error) {
	cfg = normalizeConfig(cfg)

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &Calculator{cfg: cfg}, nil
}

// Config returns the calculator's effective configuration.
func (c *Calculator) Config() Config {
	return c.cfg
}

// Calculate is a one-shot cycle calculation with the given configuration.
func Calculate(t *series.Table, concentration float64, m Markers, cfg Config) (*Cycle, error) {
	calc, err := NewCalculator(cfg)
	if err != nil {
		return nil, err
	}

	return calc.Calculate(t, concentration, m)
}

// cycleFrame holds the snapped cycle boundaries as rows of the table.
type cycleFrame struct {
	start, end, rec          float64
	startIdx, endIdx, recIdx int
	expLo, expHi             int // exposure segment rows
	recLo, recHi             int // recovery segment rows
}

// Calculate computes the response magnitude and the 90% threshold
// response and recovery times of one cycle for every channel of t.
//
// The three markers must lie within the table's time range and are
// snapped to the nearest sample times first. The exposure segment runs
// from the start to the end of exposure, the recovery segment from the
// end of exposure to the end of recovery. Marker ordering is not
// validated: an inverted window still computes, and the negative times
// it produces are reported through Cycle.Warnings rather than an error.
func (c *Calculator) Calculate(t *series.Table, concentration float64, m Markers) (*Cycle, error) {
	if t == nil || t.Len() == 0 {
		return nil, ErrEmptySegment
	}

	if math.IsNaN(concentration) || math.IsInf(concentration, 0) {
		return nil, fmt.Errorf("concentration: %w", series.ErrNonNumeric)
	}

	err := c.checkMarkers(t, m)
	if err != nil {
		return nil, err
	}

	frame, err := snapFrame(t, m)
	if err != nil {
		return nil, err
	}

	cycle := &Cycle{
		Concentration: concentration,
		StartExposure: frame.start,
		EndExposure:   frame.end,
		EndRecovery:   frame.rec,
		Channels:      t.Channels(),
		ByChannel:     make(map[string]ChannelResult, len(t.Channels())),
	}

	for _, name := range cycle.Channels {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}

		res, warnings, err := c.channelResult(t, col, concentration, frame)
		if err != nil {
			return nil, fmt.Errorf("channel %q: %w", name, err)
		}

		cycle.ByChannel[name] = res

		for _, w := range warnings {
			cycle.Warnings = append(cycle.Warnings, fmt.Sprintf("channel %s: %s", name, w))
		}
	}

	return cycle, nil
}

// checkMarkers rejects non-numeric markers and markers outside the
// table's time range.
func (c *Calculator) checkMarkers(t *series.Table, m Markers) error {
	first := t.Time(0)
	last := t.Time(t.Len() - 1)

	markers := []struct {
		name  string
		value float64
	}{
		{"start of exposure", m.StartExposure},
		{"end of exposure", m.EndExposure},
		{"end of recovery", m.EndRecovery},
	}

	for _, mk := range markers {
		if math.IsNaN(mk.value) || math.IsInf(mk.value, 0) {
			return fmt.Errorf("%s: %w", mk.name, series.ErrNonNumeric)
		}

		if mk.value < first || mk.value > last {
			return fmt.Errorf("%w: %s %v not in [%v, %v]",
				ErrMarkerOutOfRange, mk.name, mk.value, first, last)
		}
	}

	return nil
}

// snapFrame snaps the markers to sample rows and resolves the exposure
// and recovery segments. Segments of an inverted window are normalized
// to their enclosing row range instead of being rejected.
func snapFrame(t *series.Table, m Markers) (cycleFrame, error) {
	var f cycleFrame

	var err error

	f.startIdx, err = t.NearestIndex(m.StartExposure)
	if err != nil {
		return f, err
	}

	f.endIdx, err = t.NearestIndex(m.EndExposure)
	if err != nil {
		return f, err
	}

	f.recIdx, err = t.NearestIndex(m.EndRecovery)
	if err != nil {
		return f, err
	}

	f.start = t.Time(f.startIdx)
	f.end = t.Time(f.endIdx)
	f.rec = t.Time(f.recIdx)

	f.expLo, f.expHi, err = t.Span(f.start, f.end)
	if err != nil {
		return f, fmt.Errorf("%w: exposure [%v, %v]", ErrEmptySegment, f.start, f.end)
	}

	f.recLo, f.recHi, err = t.Span(f.end, f.rec)
	if err != nil {
		return f, fmt.Errorf("%w: recovery [%v, %v]", ErrEmptySegment, f.end, f.rec)
	}

	return f, nil
}

// channelResult computes one channel's response and threshold times.
func (c *Calculator) channelResult(t *series.Table, col []float64, concentration float64, f cycleFrame) (ChannelResult, []string, error) {
	r0 := col[f.startIdx]
	rf := col[f.endIdx]
	rfRec := col[f.recIdx]

	deltaResp := math.Abs(rf - r0)
	deltaRec := math.Abs(rfRec - rf)

	var resp float64

	switch c.cfg.Metric {
	case MetricDeltaAbs:
		resp = rf - r0
	case MetricRatio:
		resp = rf / r0
	default:
		resp = 100 * deltaResp / r0
	}

	if c.cfg.Modifier == ModifierPerConcentration {
		resp /= concentration
	}

	// Sign-aware 90% thresholds: a rising channel crosses r0+0.9*ΔR on
	// the way up and rf-0.9*ΔR2 on the way back, a falling channel
	// mirrors both.
	var respTarget, recTarget float64

	if rf > r0 {
		respTarget = r0 + 0.9*deltaResp
		recTarget = rf - 0.9*deltaRec
	} else {
		respTarget = r0 - 0.9*deltaResp
		recTarget = rf + 0.9*deltaRec
	}

	respIdx, err := series.NearestIndex(col[f.expLo:f.expHi+1], respTarget)
	if err != nil {
		return ChannelResult{}, nil, err
	}

	recIdx, err := series.NearestIndex(col[f.recLo:f.recHi+1], recTarget)
	if err != nil {
		return ChannelResult{}, nil, err
	}

	res := ChannelResult{
		Response:          resp,
		ResponseTime:      t.Time(f.expLo+respIdx) - f.start,
		RecoveryTime:      t.Time(f.recLo+recIdx) - f.end,
		R0:                r0,
		RF:                rf,
		RFRec:             rfRec,
		ResponseThreshold: respTarget,
		RecoveryThreshold: recTarget,
	}

	var warnings []string

	if math.IsNaN(res.Response) || math.IsInf(res.Response, 0) {
		warnings = append(warnings, "non-finite response")
	}

	if res.ResponseTime < 0 {
		warnings = append(warnings, fmt.Sprintf("negative response time %.6g", res.ResponseTime))
	}

	if res.RecoveryTime < 0 {
		warnings = append(warnings, fmt.Sprintf("negative recovery time %.6g", res.RecoveryTime))
	}

	return res, warnings, nil
}
