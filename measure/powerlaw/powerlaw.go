package powerlaw

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-gas/internal/fitpack"
	"github.com/cwbudde/algo-gas/measure/response"
)

// Errors returned by the fitter.
var (
	ErrTooFewCycles  = errors.New("powerlaw: too few cycles to fit")
	ErrNoConvergence = errors.New("powerlaw: fit did not converge")
)

// Sensitivity holds the linear response vs. concentration regression of
// one channel.
type Sensitivity struct {
	Slope float64
	R2    float64
	Unit  string // e.g. "%/ppm", depends on the response metric
}

// String returns the display form, e.g. "sensitivity = 3.00 %/ppm, R-sq = 1.000".
func (s Sensitivity) String() string {
	return fmt.Sprintf("sensitivity = %.2f %s, R-sq = %.3f", s.Slope, s.Unit, s.R2)
}

// FitResult holds the power law fit of one channel.
type FitResult struct {
	Channel string

	// Coefficients of response = A * concentration^B.
	A float64
	B float64

	// Curve is the fitted response evaluated on the shared grid
	// [Result.X], aligned index by index.
	Curve []float64

	// Sensitivity is set when the sensitivity modifier is active.
	Sensitivity *Sensitivity
}

// Legend returns the legend entry of the fit, e.g. "fit ch1: a=2.00, b=0.50".
func (f FitResult) Legend() string {
	return fmt.Sprintf("fit %s: a=%.2f, b=%.2f", f.Channel, f.A, f.B)
}

// Result holds the fits of every channel in a properties table.
type Result struct {
	// X is the shared evaluation grid: FitPoints concentrations starting
	// at 0 with spacing maxConcentration/FitPoints. The maximum itself
	// falls just outside the grid.
	X []float64

	// Label names the fitted response quantity, e.g. "ΔS/S0 (%)".
	Label string

	// Fits follow the table's channel layout order.
	Fits []FitResult
}

// Fit returns the fit of the named channel.
func (r *Result) Fit(channel string) (FitResult, bool) {
	for _, f := range r.Fits {
		if f.Channel == channel {
			return f, true
		}
	}

	return FitResult{}, false
}

// Fit fits response = a * concentration^b for every channel of the
// accumulated properties table and evaluates each fitted curve on a
// shared concentration grid.
//
// Two cycles are the numerical floor for the two-parameter model; the
// caller decides whether to demand more for a trustworthy fit. With the
// sensitivity modifier active, each channel additionally gets a linear
// regression of response vs. concentration.
//
// Fit fails with ErrTooFewCycles below the floor and with
// ErrNoConvergence when the solver cannot fit a channel, for example
// when all cycles share one concentration.
func Fit(props *response.Table, cfg response.Config) (*Result, error) {
	cfg = cfg.Normalized()

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	if props == nil || props.Len() < 2 {
		n := 0
		if props != nil {
			n = props.Len()
		}

		return nil, fmt.Errorf("%w: have %d, need at least 2", ErrTooFewCycles, n)
	}

	concs := props.Concentrations()

	maxConc := concs[0]
	for _, c := range concs[1:] {
		if c > maxConc {
			maxConc = c
		}
	}

	// N points from 0 with spacing max/N, the maximum itself excluded.
	step := maxConc / float64(cfg.FitPoints)

	x := make([]float64, cfg.FitPoints)
	for i := 1; i < len(x); i++ {
		x[i] = x[i-1] + step
	}

	result := &Result{
		X:     x,
		Label: cfg.ResponseLabel(),
		Fits:  make([]FitResult, 0, len(props.Layout())),
	}

	for _, name := range props.Layout() {
		ys, err := props.Responses(name)
		if err != nil {
			return nil, err
		}

		fit, err := fitpack.FitPowerLaw(concs, ys)
		if err != nil {
			return nil, fmt.Errorf("%w: channel %q (%v)", ErrNoConvergence, name, err)
		}

		curve := make([]float64, len(x))
		for i, xi := range x {
			curve[i] = fit.Eval(xi)
		}

		fr := FitResult{
			Channel: name,
			A:       fit.A,
			B:       fit.B,
			Curve:   curve,
		}

		if cfg.Modifier == response.ModifierSensitivity {
			lin, err := fitpack.Linregress(concs, ys)
			if err != nil {
				return nil, fmt.Errorf("%w: channel %q sensitivity (%v)", ErrNoConvergence, name, err)
			}

			fr.Sensitivity = &Sensitivity{
				Slope: lin.Slope,
				R2:    lin.R2,
				Unit:  cfg.SensitivityUnit(),
			}
		}

		result.Fits = append(result.Fits, fr)
	}

	return result, nil
}
