package plot

import (
	"bytes"
	"errors"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/cwbudde/algo-gas/measure/powerlaw"
	"github.com/cwbudde/algo-gas/measure/response"
	"github.com/cwbudde/algo-gas/series"
)

// ErrNoData reports that a chart has nothing to draw.
var ErrNoData = errors.New("plot: nothing to draw")

// Options sets the frame of a rendered chart. Zero fields fall back to
// defaults.
type Options struct {
	Width  int // pixels, default 1024
	Height int // pixels, default 576
	Title  string
	XLabel string
	YLabel string
}

func normalizeOptions(opts Options) Options {
	if opts.Width <= 0 {
		opts.Width = 1024
	}

	if opts.Height <= 0 {
		opts.Height = 576
	}

	return opts
}

var palette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorOrange,
	chart.ColorCyan,
	chart.ColorAlternateGray,
}

func colorFor(i int) drawing.Color {
	return palette[i%len(palette)]
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 1.5,
	}
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col,
	}
}

// Series renders every channel of a table as a line over time and
// returns the chart as PNG bytes.
func Series(t *series.Table, opts Options) ([]byte, error) {
	if t == nil || t.Len() == 0 {
		return nil, ErrNoData
	}

	names := t.Channels()

	ss := make([]chart.Series, 0, len(names))

	for i, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}

		xs, ys := padSingle(t.Times(), col)

		ss = append(ss, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(colorFor(i)),
		})
	}

	return render(normalizeOptions(opts), ss)
}

// ResponseFit renders measured responses per cycle as points over
// concentration, overlaid with the fitted power law curves when fit is
// non-nil. The fit legend carries the a and b coefficients.
func ResponseFit(props *response.Table, fit *powerlaw.Result, opts Options) ([]byte, error) {
	if props == nil || props.Len() == 0 {
		return nil, ErrNoData
	}

	opts = normalizeOptions(opts)

	if opts.YLabel == "" && fit != nil {
		opts.YLabel = fit.Label
	}

	concs := props.Concentrations()

	ss := make([]chart.Series, 0, 2*len(props.Layout()))

	for i, name := range props.Layout() {
		resp, err := props.Responses(name)
		if err != nil {
			return nil, err
		}

		xs, ys := padSingle(concs, resp)

		ss = append(ss, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(colorFor(i)),
		})
	}

	if fit != nil {
		for i, f := range fit.Fits {
			ss = append(ss, chart.ContinuousSeries{
				Name:    f.Legend(),
				XValues: fit.X,
				YValues: f.Curve,
				Style:   lineStyle(colorFor(i)),
			})
		}
	}

	return render(opts, ss)
}

// TimeKind selects which cycle time CycleTimes draws.
type TimeKind int

const (
	ResponseTimes TimeKind = iota
	RecoveryTimes
)

// CycleTimes renders the response or recovery time of every cycle as
// points over concentration.
func CycleTimes(props *response.Table, kind TimeKind, opts Options) ([]byte, error) {
	if props == nil || props.Len() == 0 {
		return nil, ErrNoData
	}

	opts = normalizeOptions(opts)

	var (
		times func(string) ([]float64, error)
		label string
	)

	switch kind {
	case RecoveryTimes:
		times = props.RecoveryTimes
		label = "recovery time"
	default:
		times = props.ResponseTimes
		label = "response time"
	}

	if opts.YLabel == "" {
		opts.YLabel = label
	}

	concs := props.Concentrations()

	ss := make([]chart.Series, 0, len(props.Layout()))

	for i, name := range props.Layout() {
		ys, err := times(name)
		if err != nil {
			return nil, err
		}

		xs, ys := padSingle(concs, ys)

		ss = append(ss, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(colorFor(i)),
		})
	}

	return render(opts, ss)
}

func render(opts Options, ss []chart.Series) ([]byte, error) {
	ch := chart.Chart{
		Title:      opts.Title,
		Background: chart.Style{Padding: chart.Box{Top: 16, Left: 16, Right: 16, Bottom: 32}},
		Width:      opts.Width,
		Height:     opts.Height,
		XAxis:      chart.XAxis{Name: opts.XLabel},
		YAxis:      chart.YAxis{Name: opts.YLabel},
		Series:     ss,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer

	err := ch.Render(chart.PNG, &buf)
	if err != nil {
		return nil, fmt.Errorf("plot: render: %w", err)
	}

	return buf.Bytes(), nil
}

// padSingle widens a one-point series; the renderer rejects a zero x-range.
func padSingle(xs, ys []float64) ([]float64, []float64) {
	if len(xs) != 1 {
		return xs, ys
	}

	return []float64{xs[0], xs[0] + 1}, []float64{ys[0], ys[0]}
}
