package response

import (
	"fmt"
	"slices"
)

// Table accumulates calculated cycles into an ordered properties table.
//
// The channel layout locks on the first append and every later cycle
// must carry exactly the same channels. Rows keep append order; the
// cycle index reported for a row is its 1-based position.
type Table struct {
	layout []string
	rows   []Cycle
}

// NewTable returns an empty properties table.
func NewTable() *Table {
	return &Table{}
}

// Len returns the number of accumulated cycles.
func (t *Table) Len() int {
	return len(t.rows)
}

// Layout returns the established channel layout, or nil before the
// first append.
func (t *Table) Layout() []string {
	return slices.Clone(t.layout)
}

// Append validates the cycle against the established layout and stores
// it as the last row. The first appended cycle establishes the layout.
// A failed append leaves the table unchanged.
func (t *Table) Append(c *Cycle) error {
	if c == nil || len(c.Channels) == 0 {
		return fmt.Errorf("%w: cycle has no channels", ErrChannelMismatch)
	}

	if t.layout != nil && !slices.Equal(t.layout, c.Channels) {
		return fmt.Errorf("%w: cycle has %v, table has %v", ErrChannelMismatch, c.Channels, t.layout)
	}

	for _, name := range c.Channels {
		if _, ok := c.ByChannel[name]; !ok {
			return fmt.Errorf("%w: cycle has no result for %q", ErrChannelMismatch, name)
		}
	}

	row := Cycle{
		Concentration: c.Concentration,
		StartExposure: c.StartExposure,
		EndExposure:   c.EndExposure,
		EndRecovery:   c.EndRecovery,
		Channels:      slices.Clone(c.Channels),
		ByChannel:     make(map[string]ChannelResult, len(c.ByChannel)),
		Warnings:      slices.Clone(c.Warnings),
	}

	for name, res := range c.ByChannel {
		row.ByChannel[name] = res
	}

	if t.layout == nil {
		t.layout = slices.Clone(c.Channels)
	}

	t.rows = append(t.rows, row)

	return nil
}

// RemoveLast removes the most recently appended cycle.
// It fails with ErrEmptyTable when the table is empty.
func (t *Table) RemoveLast() error {
	if len(t.rows) == 0 {
		return ErrEmptyTable
	}

	t.rows = t.rows[:len(t.rows)-1]

	return nil
}

// Clear empties the table and resets the established channel layout.
func (t *Table) Clear() {
	t.layout = nil
	t.rows = nil
}

// Cycle returns the accumulated cycle at row i.
// The index must be in [0, Len()).
func (t *Table) Cycle(i int) Cycle {
	return t.rows[i]
}

// Concentrations returns the concentration of every row in append order.
func (t *Table) Concentrations() []float64 {
	out := make([]float64, len(t.rows))
	for i, row := range t.rows {
		out[i] = row.Concentration
	}

	return out
}

// Responses returns the response of the named channel for every row in
// append order. It fails with ErrChannelMismatch for a channel outside
// the established layout.
func (t *Table) Responses(channel string) ([]float64, error) {
	return t.column(channel, func(r ChannelResult) float64 { return r.Response })
}

// ResponseTimes returns the response time of the named channel for every
// row in append order.
func (t *Table) ResponseTimes(channel string) ([]float64, error) {
	return t.column(channel, func(r ChannelResult) float64 { return r.ResponseTime })
}

// RecoveryTimes returns the recovery time of the named channel for every
// row in append order.
func (t *Table) RecoveryTimes(channel string) ([]float64, error) {
	return t.column(channel, func(r ChannelResult) float64 { return r.RecoveryTime })
}

func (t *Table) column(channel string, pick func(ChannelResult) float64) ([]float64, error) {
	if !slices.Contains(t.layout, channel) {
		return nil, fmt.Errorf("%w: %q", ErrChannelMismatch, channel)
	}

	out := make([]float64, len(t.rows))
	for i, row := range t.rows {
		out[i] = pick(row.ByChannel[channel])
	}

	return out, nil
}
