// Package baseline quantifies the idle behavior of a sensor channel
// before any gas is applied.
//
// Analyze fits a linear trend over the window and splits the signal
// into drift (the slope of that trend) and noise (the RMS of the
// detrended remainder), together with general time-domain statistics
// and the resulting signal-to-noise ratio. NoiseSpectrum transforms
// the detrended baseline into a one-sided power spectrum, which makes
// periodic interference visible as distinct peaks.
//
// # Usage
//
//	stats, err := baseline.Analyze(table, "R1")
//	if err != nil {
//	    // unknown channel or too few samples
//	}
//	fmt.Printf("drift %.3g/s, noise %.3g\n", stats.Drift, stats.NoiseRMS)
//
//	spec, err := baseline.NoiseSpectrum(table, "R1", baseline.SpectrumConfig{})
//	if err != nil {
//	    ...
//	}
package baseline
