package testutil

import (
	"math"
	"math/rand"
)

// TimeAxis returns n sample times starting at 0 with the given spacing.
func TimeAxis(n int, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) * step
	}

	return out
}

// ExposureCycle generates a synthetic sensor resistance trace over the
// given time axis: flat at base before startExposure, first-order rise
// toward peak while exposed, first-order relaxation back toward base
// after endExposure. tau is the time constant of both transients.
func ExposureCycle(times []float64, base, peak, startExposure, endExposure, tau float64) []float64 {
	out := make([]float64, len(times))

	endValue := base + (peak-base)*(1-math.Exp(-(endExposure-startExposure)/tau))

	for i, t := range times {
		switch {
		case t < startExposure:
			out[i] = base
		case t <= endExposure:
			out[i] = base + (peak-base)*(1-math.Exp(-(t-startExposure)/tau))
		default:
			out[i] = base + (endValue-base)*math.Exp(-(t-endExposure)/tau)
		}
	}

	return out
}

// NoisyBaseline generates a flat trace around base with uniform noise of
// the given amplitude. The seed fixes the sequence for reproducibility.
func NoisyBaseline(seed int64, base, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = base + (rng.Float64()*2-1)*amplitude
	}

	return out
}
