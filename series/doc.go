// Package series provides an immutable multi-channel time series table
// with nearest-sample lookup, marker-based windowing, and normalization.
//
// A Table holds one strictly increasing time axis and any number of named
// channels aligned with it. Sensor loggers rarely sample on a perfect
// grid, so all marker-based operations snap free-hand times to the
// nearest recorded sample first:
//
//   - Nearest lookup minimizes absolute distance, ties going to the
//     earlier sample
//   - Windows are inclusive on both snapped bounds
//   - Derived tables share sample data with their parent and are never
//     mutated in place
//
// # Usage
//
// Build a table and cut a re-zeroed window out of it:
//
//	t, _ := series.New(times,
//	    series.Channel{Name: "R1", Values: r1},
//	    series.Channel{Name: "R2", Values: r2},
//	)
//	win, _ := t.Window(120, 480, series.WithRezero())
//
// Normalize all channels to their value at a reference time:
//
//	norm, _ := win.Normalize(0)
package series
