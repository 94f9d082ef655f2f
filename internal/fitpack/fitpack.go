// Package fitpack provides the small regression kernels shared by the
// measurement packages: an ordinary least squares line fit and a damped
// least squares fit of the power law y = a*x^b.
package fitpack

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by fitting functions.
var (
	ErrDegenerateFit = errors.New("fitpack: degenerate fit")
	ErrNoConvergence = errors.New("fitpack: fit did not converge")
)

// LinearFit holds the result of an ordinary least squares line fit.
type LinearFit struct {
	Slope     float64
	Intercept float64
	R2        float64 // squared correlation coefficient
}

// Linregress fits y = slope*x + intercept by ordinary least squares.
//
// The squared correlation coefficient follows the usual convention for
// degenerate data: when y has zero variance the correlation is reported
// as zero. Zero variance in x leaves the slope undefined and fails with
// ErrDegenerateFit.
func Linregress(x, y []float64) (LinearFit, error) {
	if len(x) != len(y) {
		return LinearFit{}, fmt.Errorf("%w: %d x values vs %d y values", ErrDegenerateFit, len(x), len(y))
	}

	n := len(x)
	if n < 2 {
		return LinearFit{}, fmt.Errorf("%w: need at least 2 points, have %d", ErrDegenerateFit, n)
	}

	// Center on the means before accumulating products; the raw-moment
	// form loses precision when x or y sits far from zero.
	var xbar, ybar float64
	for i := range x {
		xbar += x[i]
		ybar += y[i]
	}

	xbar /= float64(n)
	ybar /= float64(n)

	var sxx, syy, sxy float64

	for i := range x {
		dx := x[i] - xbar
		dy := y[i] - ybar
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}

	if sxx == 0 {
		return LinearFit{}, fmt.Errorf("%w: zero variance in x", ErrDegenerateFit)
	}

	slope := sxy / sxx

	var r float64
	if syy > 0 {
		r = sxy / math.Sqrt(sxx*syy)
		r = math.Max(-1, math.Min(1, r))
	}

	return LinearFit{
		Slope:     slope,
		Intercept: ybar - slope*xbar,
		R2:        r * r,
	}, nil
}

// PowerFit holds the fitted coefficients of y = a * x^b.
type PowerFit struct {
	A float64
	B float64
}

// Eval evaluates the fitted model at x.
func (p PowerFit) Eval(x float64) float64 {
	return p.A * math.Pow(x, p.B)
}

// FitPowerLaw fits y = a*x^b by damped least squares (Levenberg-Marquardt)
// starting from (a, b) = (1, 1).
//
// The x values must be non-negative; a fractional exponent on a negative
// base has no real value. At least two distinct x values are needed to
// separate a from b. Iteration stops when the residual cost stops
// improving in relative terms. FitPowerLaw fails with ErrNoConvergence
// when the iteration limit is reached while the cost is still moving, and
// with ErrDegenerateFit for unusable inputs.
func FitPowerLaw(x, y []float64) (PowerFit, error) {
	if len(x) != len(y) {
		return PowerFit{}, fmt.Errorf("%w: %d x values vs %d y values", ErrDegenerateFit, len(x), len(y))
	}

	if len(x) < 2 {
		return PowerFit{}, fmt.Errorf("%w: need at least 2 points, have %d", ErrDegenerateFit, len(x))
	}

	for i, xi := range x {
		if xi < 0 || math.IsNaN(xi) || math.IsInf(xi, 0) {
			return PowerFit{}, fmt.Errorf("%w: x[%d] = %v", ErrDegenerateFit, i, xi)
		}
	}

	// A repeated abscissa cannot separate a from b.
	distinct := false

	for _, xi := range x[1:] {
		if xi != x[0] {
			distinct = true
			break
		}
	}

	if !distinct {
		return PowerFit{}, fmt.Errorf("%w: need at least 2 distinct x values", ErrDegenerateFit)
	}

	const (
		maxIter   = 200
		ftol      = 1e-10
		gtol      = 1e-8
		maxLambda = 1e12
	)

	fit := PowerFit{A: 1, B: 1}
	lambda := 1e-3

	cost := residualCost(x, y, fit)
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return PowerFit{}, fmt.Errorf("%w: non-finite residual at start", ErrDegenerateFit)
	}

	for range maxIter {
		// Normal equations J'J and gradient J'r at the current point.
		// The Jacobian of a*x^b is (x^b, a*x^b*ln x); the second column
		// vanishes at x = 0.
		var jtj11, jtj12, jtj22, g1, g2 float64

		for i := range x {
			m := fit.Eval(x[i])
			r := y[i] - m
			ja := math.Pow(x[i], fit.B)

			var jb float64
			if x[i] > 0 {
				jb = m * math.Log(x[i])
			}

			jtj11 += ja * ja
			jtj12 += ja * jb
			jtj22 += jb * jb
			g1 += ja * r
			g2 += jb * r
		}

		if jtj11 == 0 {
			return PowerFit{}, fmt.Errorf("%w: model insensitive to parameters", ErrDegenerateFit)
		}

		// Try steps with growing damping until one lowers the cost.
		var (
			next     PowerFit
			nextCost float64
			stepped  bool
		)

		for lambda <= maxLambda {
			d11 := jtj11 * (1 + lambda)
			d22 := jtj22 * (1 + lambda)

			det := d11*d22 - jtj12*jtj12
			if det <= 0 || math.IsNaN(det) {
				lambda *= 10
				continue
			}

			next = PowerFit{
				A: fit.A + (g1*d22-g2*jtj12)/det,
				B: fit.B + (g2*d11-g1*jtj12)/det,
			}

			nextCost = residualCost(x, y, next)
			if nextCost < cost {
				stepped = true
				break
			}

			lambda *= 10
		}

		if !stepped {
			// No damping level improves the cost. On a flat gradient this
			// is the optimum; otherwise the fit is stuck.
			gnorm := math.Hypot(g1, g2)
			if gnorm <= gtol*(1+cost) {
				return fit, nil
			}

			return PowerFit{}, fmt.Errorf("%w: stalled after cost %g", ErrNoConvergence, cost)
		}

		improvement := cost - nextCost
		fit = next
		cost = nextCost
		lambda /= 10

		if lambda < 1e-12 {
			lambda = 1e-12
		}

		if improvement <= ftol*(cost+ftol) {
			return fit, nil
		}
	}

	return PowerFit{}, fmt.Errorf("%w: no optimum within %d iterations", ErrNoConvergence, maxIter)
}

// residualCost returns the sum of squared residuals of the model over the
// data, or +Inf when the model blows up at one of the points.
func residualCost(x, y []float64, fit PowerFit) float64 {
	var cost float64

	for i := range x {
		r := y[i] - fit.Eval(x[i])
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return math.Inf(1)
		}

		cost += r * r
	}

	return cost
}
