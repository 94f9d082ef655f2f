package baseline

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/spectrum"
	"github.com/cwbudde/algo-dsp/dsp/window"
	timestats "github.com/cwbudde/algo-dsp/stats/time"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-gas/internal/fitpack"
	"github.com/cwbudde/algo-gas/series"
)

// Errors returned by baseline functions.
var (
	ErrShortSeries = errors.New("baseline: need at least two samples")
	ErrFFTSize     = errors.New("baseline: fft size smaller than sample count")
)

// Stats describes the stability of one channel while no gas is applied.
//
//nolint:revive
type Stats struct {
	Channel string

	// Signal carries general time-domain statistics of the raw samples.
	Signal timestats.Stats

	// Drift is the slope of a linear fit over the window, in channel
	// units per time unit; DriftTotal is the drift accumulated across
	// the whole window span.
	Drift      float64
	DriftTotal float64

	// NoiseRMS is the RMS of the samples after removing the linear
	// trend. SNR_dB relates the mean level to that noise floor.
	NoiseRMS float64
	SNR_dB   float64
}

// Analyze computes baseline statistics for one channel of a table.
//
// The linear trend over the window is reported as drift; the RMS of
// the detrended remainder is the noise floor. A sensor that needs
// replacing shows up as large drift, a noisy contact as low SNR.
func Analyze(t *series.Table, channel string) (Stats, error) {
	if t == nil || t.Len() < 2 {
		return Stats{}, ErrShortSeries
	}

	col, err := t.Column(channel)
	if err != nil {
		return Stats{}, err
	}

	lin, err := fitpack.Linregress(t.Times(), col)
	if err != nil {
		return Stats{}, fmt.Errorf("baseline drift: %w", err)
	}

	residual := detrend(t.Times(), col, lin)
	noise := timestats.RMS(residual)

	stats := Stats{
		Channel:    channel,
		Signal:     timestats.Calculate(col),
		Drift:      lin.Slope,
		DriftTotal: lin.Slope * (t.Time(t.Len()-1) - t.Time(0)),
		NoiseRMS:   noise,
	}

	if noise > 0 {
		stats.SNR_dB = 20 * math.Log10(math.Abs(stats.Signal.DC)/noise)
	} else {
		stats.SNR_dB = math.Inf(1)
	}

	return stats, nil
}

// AnalyzeAll computes baseline statistics for every channel of a table,
// in column order.
func AnalyzeAll(t *series.Table) ([]Stats, error) {
	if t == nil || t.Len() < 2 {
		return nil, ErrShortSeries
	}

	out := make([]Stats, 0, len(t.Channels()))

	for _, name := range t.Channels() {
		s, err := Analyze(t, name)
		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}

// SpectrumConfig holds noise spectrum parameters.
type SpectrumConfig struct {
	// FFTSize is the transform length; 0 picks the next power of two
	// at or above the sample count.
	FFTSize int

	// WindowType is applied before the transform; the zero value picks
	// a Hann window.
	WindowType window.Type
}

// Spectrum is a one-sided power spectrum of a detrended baseline.
type Spectrum struct {
	Frequencies []float64 // cycles per time unit
	Power       []float64
}

// NoiseSpectrum computes the one-sided power spectrum of one channel's
// detrended baseline. Interference such as mains pickup or a heater
// regulation cycle shows up as a peak at its repetition rate.
//
// The sample spacing is taken as the mean spacing of the time axis, so
// the frequency scale is only as uniform as the logger's clock.
func NoiseSpectrum(t *series.Table, channel string, cfg SpectrumConfig) (Spectrum, error) {
	if t == nil || t.Len() < 2 {
		return Spectrum{}, ErrShortSeries
	}

	col, err := t.Column(channel)
	if err != nil {
		return Spectrum{}, err
	}

	lin, err := fitpack.Linregress(t.Times(), col)
	if err != nil {
		return Spectrum{}, fmt.Errorf("baseline detrend: %w", err)
	}

	residual := detrend(t.Times(), col, lin)

	winType := cfg.WindowType
	if winType == 0 {
		winType = window.TypeHann
	}

	coeffs := window.Generate(winType, len(residual))

	windowed := make([]float64, len(residual))
	vecmath.MulBlock(windowed, residual, coeffs)

	fftSize := cfg.FFTSize
	if fftSize <= 0 {
		fftSize = nextPowerOf2(len(windowed))
	}

	if fftSize < len(windowed) {
		return Spectrum{}, fmt.Errorf("%w: %d < %d", ErrFFTSize, fftSize, len(windowed))
	}

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Spectrum{}, err
	}

	out := make([]complex128, fftSize)

	err = plan.Forward(out, in)
	if err != nil {
		return Spectrum{}, err
	}

	power := spectrum.Power(out[:fftSize/2+1])

	n := t.Len()
	dt := (t.Time(n-1) - t.Time(0)) / float64(n-1)

	freqs := make([]float64, len(power))
	for i := range freqs {
		freqs[i] = float64(i) / (dt * float64(fftSize))
	}

	return Spectrum{Frequencies: freqs, Power: power}, nil
}

// detrend subtracts the fitted line from the samples.
func detrend(times, values []float64, lin fitpack.LinearFit) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v - (lin.Intercept + lin.Slope*times[i])
	}

	return out
}

// nextPowerOf2 returns the smallest power of two >= n.
func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}

	return p
}
