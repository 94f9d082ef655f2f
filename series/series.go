package series

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by series functions.
var (
	ErrEmptySeries      = errors.New("series: empty series")
	ErrLengthMismatch   = errors.New("series: channel length does not match time axis")
	ErrUnsortedTimes    = errors.New("series: time axis must be strictly increasing")
	ErrNonNumeric       = errors.New("series: value is not a finite number")
	ErrDuplicateChannel = errors.New("series: duplicate channel name")
	ErrUnknownChannel   = errors.New("series: unknown channel")
	ErrEmptyWindow      = errors.New("series: window contains no samples")
	ErrZeroReference    = errors.New("series: reference value is zero")
)

// Channel is a named column of samples aligned with a time axis.
type Channel struct {
	Name   string
	Values []float64
}

// Table is an immutable set of channels sharing a common time axis.
//
// The time axis is strictly increasing, so every sample time identifies
// exactly one row. All mutating-style operations (windowing, re-zeroing,
// normalization) return a new Table and leave the receiver untouched.
type Table struct {
	times []float64
	chans []Channel
	index map[string]int
}

// New creates a Table from a time axis and a set of channels.
//
// The time axis must be non-empty, strictly increasing, and finite.
// Every channel must have the same length as the time axis and a unique,
// non-empty name. The inputs are copied, so later modification of the
// passed slices does not affect the Table.
func New(times []float64, chans ...Channel) (*Table, error) {
	if len(times) == 0 {
		return nil, ErrEmptySeries
	}

	if len(chans) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrEmptySeries)
	}

	for i, tv := range times {
		if math.IsNaN(tv) || math.IsInf(tv, 0) {
			return nil, fmt.Errorf("%w: time[%d] = %v", ErrNonNumeric, i, tv)
		}

		if i > 0 && tv <= times[i-1] {
			return nil, fmt.Errorf("%w: time[%d] = %v after %v", ErrUnsortedTimes, i, tv, times[i-1])
		}
	}

	t := &Table{
		times: append([]float64(nil), times...),
		chans: make([]Channel, 0, len(chans)),
		index: make(map[string]int, len(chans)),
	}

	for _, ch := range chans {
		if ch.Name == "" {
			return nil, fmt.Errorf("%w: empty channel name", ErrUnknownChannel)
		}

		if _, ok := t.index[ch.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateChannel, ch.Name)
		}

		if len(ch.Values) != len(times) {
			return nil, fmt.Errorf("%w: channel %q has %d samples, time axis has %d",
				ErrLengthMismatch, ch.Name, len(ch.Values), len(times))
		}

		for i, v := range ch.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: channel %q sample %d = %v", ErrNonNumeric, ch.Name, i, v)
			}
		}

		t.index[ch.Name] = len(t.chans)
		t.chans = append(t.chans, Channel{
			Name:   ch.Name,
			Values: append([]float64(nil), ch.Values...),
		})
	}

	return t, nil
}

// Len returns the number of samples (rows) in the table.
func (t *Table) Len() int {
	return len(t.times)
}

// Time returns the sample time at row i. The index must be in [0, Len()).
func (t *Table) Time(i int) float64 {
	return t.times[i]
}

// Times returns the time axis.
// The returned slice is a view into the table and must not be modified.
func (t *Table) Times() []float64 {
	return t.times
}

// Channels returns the channel names in column order.
func (t *Table) Channels() []string {
	names := make([]string, len(t.chans))
	for i, ch := range t.chans {
		names[i] = ch.Name
	}

	return names
}

// HasChannel reports whether the table contains a channel with the given name.
func (t *Table) HasChannel(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the sample values of the named channel.
// The returned slice is a view into the table and must not be modified.
func (t *Table) Column(name string) ([]float64, error) {
	pos, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
	}

	return t.chans[pos].Values, nil
}

// Value returns the sample of the named channel at row i.
// The index must be in [0, Len()).
func (t *Table) Value(name string, i int) (float64, error) {
	pos, ok := t.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
	}

	return t.chans[pos].Values[i], nil
}

// Select returns a new Table restricted to the named channels, in the
// given order. The time axis is shared with the receiver.
func (t *Table) Select(names ...string) (*Table, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no channels selected", ErrEmptySeries)
	}

	out := &Table{
		times: t.times,
		chans: make([]Channel, 0, len(names)),
		index: make(map[string]int, len(names)),
	}

	for _, name := range names {
		pos, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
		}

		if _, dup := out.index[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateChannel, name)
		}

		out.index[name] = len(out.chans)
		out.chans = append(out.chans, t.chans[pos])
	}

	return out, nil
}

// Normalize divides every channel by its own value at the sample time
// nearest to at, so all channels pass through 1 at the reference time.
// It fails with ErrZeroReference if any channel is zero there.
func (t *Table) Normalize(at float64) (*Table, error) {
	ref, err := t.NearestIndex(at)
	if err != nil {
		return nil, err
	}

	out := &Table{
		times: t.times,
		chans: make([]Channel, len(t.chans)),
		index: make(map[string]int, len(t.chans)),
	}

	for i, ch := range t.chans {
		r := ch.Values[ref]
		if r == 0 {
			return nil, fmt.Errorf("%w: channel %q at t = %v", ErrZeroReference, ch.Name, t.times[ref])
		}

		values := make([]float64, len(ch.Values))
		for j, v := range ch.Values {
			values[j] = v / r
		}

		out.chans[i] = Channel{Name: ch.Name, Values: values}
		out.index[ch.Name] = i
	}

	return out, nil
}
