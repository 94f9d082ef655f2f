// Package powerlaw fits the response vs. concentration relation of a
// gas sensor across accumulated exposure cycles.
//
// Chemiresistive sensors commonly follow a power law over moderate
// concentration ranges:
//
//	response = a * concentration^b
//
// The fitter recovers (a, b) per channel by damped least squares and
// evaluates the fitted curve on a shared concentration grid for
// plotting or export. Optionally each channel also gets a plain linear
// regression whose slope is reported as the sensor's sensitivity with
// an R² quality measure.
//
// # Usage
//
//	res, err := powerlaw.Fit(props, cfg)
//	if err != nil {
//	    // degenerate data or no convergence
//	}
//	for _, fit := range res.Fits {
//	    fmt.Printf("%s: a=%.3g b=%.3g\n", fit.Channel, fit.A, fit.B)
//	}
package powerlaw
