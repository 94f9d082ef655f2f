package series

import (
	"fmt"
	"math"
	"sort"
)

// WindowConfig defines configuration for [Table.Window].
type WindowConfig struct {
	Rezero   bool     // shift the time axis so the window starts at zero
	Channels []string // restrict to these channels, in order (nil keeps all)
}

// WindowOption mutates a WindowConfig.
type WindowOption func(*WindowConfig)

// WithRezero shifts the window's time axis so its first sample is at t = 0.
func WithRezero() WindowOption {
	return func(cfg *WindowConfig) {
		cfg.Rezero = true
	}
}

// WithChannels restricts the window to the named channels, in the given order.
func WithChannels(names ...string) WindowOption {
	return func(cfg *WindowConfig) {
		cfg.Channels = names
	}
}

// ApplyWindowOptions applies zero or more options to an empty config.
func ApplyWindowOptions(opts ...WindowOption) WindowConfig {
	var cfg WindowConfig

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Span returns the inclusive row range [lo, hi] of samples whose time lies
// between start and end. The bounds may be given in either order; both are
// part of the range when they hit sample times exactly.
//
// It fails with ErrNonNumeric for NaN or infinite bounds and with
// ErrEmptyWindow when no sample falls inside the range.
func (t *Table) Span(start, end float64) (lo, hi int, err error) {
	if math.IsNaN(start) || math.IsInf(start, 0) || math.IsNaN(end) || math.IsInf(end, 0) {
		return 0, 0, fmt.Errorf("%w: window [%v, %v]", ErrNonNumeric, start, end)
	}

	a, b := start, end
	if a > b {
		a, b = b, a
	}

	lo = sort.SearchFloat64s(t.times, a)

	hi = sort.SearchFloat64s(t.times, b)
	if hi == len(t.times) || t.times[hi] > b {
		hi--
	}

	if lo > hi {
		return 0, 0, fmt.Errorf("%w: no samples in [%v, %v]", ErrEmptyWindow, a, b)
	}

	return lo, hi, nil
}

// Slice returns the sub-table of samples whose time lies between start and
// end, inclusive on both sides. The bounds may be given in either order.
// Rows and channel data are shared with the receiver.
func (t *Table) Slice(start, end float64) (*Table, error) {
	lo, hi, err := t.Span(start, end)
	if err != nil {
		return nil, err
	}

	out := &Table{
		times: t.times[lo : hi+1],
		chans: make([]Channel, len(t.chans)),
		index: t.index,
	}

	for i, ch := range t.chans {
		out.chans[i] = Channel{Name: ch.Name, Values: ch.Values[lo : hi+1]}
	}

	return out, nil
}

// Window cuts a view of the table between two marker times.
//
// Both markers are first snapped to the nearest sample time, so callers can
// pass free-hand values read from a plot or typed into a form. The snapped
// start must not lie after the snapped end. Options select a channel subset
// and re-zero the time axis.
func (t *Table) Window(start, end float64, opts ...WindowOption) (*Table, error) {
	cfg := ApplyWindowOptions(opts...)

	s, err := t.NearestTime(start)
	if err != nil {
		return nil, fmt.Errorf("window start: %w", err)
	}

	e, err := t.NearestTime(end)
	if err != nil {
		return nil, fmt.Errorf("window end: %w", err)
	}

	if s > e {
		return nil, fmt.Errorf("%w: start %v snaps after end %v", ErrEmptyWindow, s, e)
	}

	win, err := t.Slice(s, e)
	if err != nil {
		return nil, err
	}

	if cfg.Channels != nil {
		win, err = win.Select(cfg.Channels...)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Rezero {
		times := make([]float64, len(win.times))
		for i, tv := range win.times {
			times[i] = tv - s
		}

		win = &Table{times: times, chans: win.chans, index: win.index}
	}

	return win, nil
}
