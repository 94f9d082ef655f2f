package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cwbudde/algo-gas/measure/baseline"
	"github.com/cwbudde/algo-gas/measure/powerlaw"
	"github.com/cwbudde/algo-gas/measure/response"
	"github.com/cwbudde/algo-gas/series"
)

// WriteOptions configures CSV export.
type WriteOptions struct {
	// Separator is the column separator; 0 means tab.
	Separator rune

	// Comment lines are written as a '#'-prefixed preamble before the
	// data, typically a timestamp and the measurement units. Read skips
	// them on ingest.
	Comment []string
}

func normalizeWriteOptions(opts WriteOptions) WriteOptions {
	if opts.Separator == 0 {
		opts.Separator = '\t'
	}

	return opts
}

// WriteSeries writes a channel table: a header row of "time" plus the
// channel names, then one row per sample. Read with SkipHeader restores
// the table.
func WriteSeries(w io.Writer, t *series.Table, opts WriteOptions) error {
	if t == nil || t.Len() == 0 {
		return ErrNoData
	}

	opts = normalizeWriteOptions(opts)

	if err := writeComments(w, opts.Comment); err != nil {
		return err
	}

	names := t.Channels()

	cols := make([][]float64, len(names))
	for i, name := range names {
		cols[i], _ = t.Column(name)
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.Separator

	if err := cw.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}

	rec := make([]string, len(names)+1)

	for i := range t.Len() {
		rec[0] = formatFloat(t.Time(i))
		for ci, col := range cols {
			rec[ci+1] = formatFloat(col[i])
		}

		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteProperties writes the accumulated cycle table with the classic
// column layout: cycle number, concentration, then the responses of all
// channels, the response times, and the recovery times, grouped by
// property. Cycle numbers are 1-based.
func WriteProperties(w io.Writer, props *response.Table, opts WriteOptions) error {
	if props == nil || props.Len() == 0 {
		return ErrNoData
	}

	opts = normalizeWriteOptions(opts)

	if err := writeComments(w, opts.Comment); err != nil {
		return err
	}

	layout := props.Layout()

	header := []string{"cycle", "concentration"}
	for _, name := range layout {
		header = append(header, name+" resp")
	}

	for _, name := range layout {
		header = append(header, name+" respTime")
	}

	for _, name := range layout {
		header = append(header, name+" recTime")
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.Separator

	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range props.Len() {
		c := props.Cycle(i)

		rec := make([]string, 0, len(header))
		rec = append(rec, strconv.Itoa(i+1), formatFloat(c.Concentration))

		for _, name := range layout {
			rec = append(rec, formatFloat(c.ByChannel[name].Response))
		}

		for _, name := range layout {
			rec = append(rec, formatFloat(c.ByChannel[name].ResponseTime))
		}

		for _, name := range layout {
			rec = append(rec, formatFloat(c.ByChannel[name].RecoveryTime))
		}

		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteCurves writes the fitted power law curves: the shared
// concentration grid first, then one fitted response column per channel.
func WriteCurves(w io.Writer, fit *powerlaw.Result, opts WriteOptions) error {
	if fit == nil || len(fit.X) == 0 || len(fit.Fits) == 0 {
		return ErrNoData
	}

	opts = normalizeWriteOptions(opts)

	if err := writeComments(w, opts.Comment); err != nil {
		return err
	}

	header := []string{"x_fit_values"}
	for i := range fit.Fits {
		header = append(header, fmt.Sprintf("y_fit_%d", i+1))
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.Separator

	if err := cw.Write(header); err != nil {
		return err
	}

	rec := make([]string, len(header))

	for i, xv := range fit.X {
		rec[0] = formatFloat(xv)
		for fi, f := range fit.Fits {
			rec[fi+1] = formatFloat(f.Curve[i])
		}

		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteFitInfo writes a plain text summary of the power law fits: one
// legend line per channel plus the sensitivity line when present.
func WriteFitInfo(w io.Writer, fit *powerlaw.Result, opts WriteOptions) error {
	if fit == nil || len(fit.Fits) == 0 {
		return ErrNoData
	}

	if err := writeComments(w, opts.Comment); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "power law fit: response = a*(concentration)^b\n\n"); err != nil {
		return err
	}

	for _, f := range fit.Fits {
		if _, err := fmt.Fprintln(w, f.Legend()); err != nil {
			return err
		}

		if f.Sensitivity != nil {
			if _, err := fmt.Fprintln(w, f.Sensitivity.String()); err != nil {
				return err
			}
		}
	}

	return nil
}

// WriteSpectrum writes a baseline noise spectrum as frequency/power rows.
func WriteSpectrum(w io.Writer, spec baseline.Spectrum, opts WriteOptions) error {
	if len(spec.Power) == 0 {
		return ErrNoData
	}

	opts = normalizeWriteOptions(opts)

	if err := writeComments(w, opts.Comment); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.Separator

	if err := cw.Write([]string{"frequency", "power"}); err != nil {
		return err
	}

	for i, p := range spec.Power {
		if err := cw.Write([]string{formatFloat(spec.Frequencies[i]), formatFloat(p)}); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

func writeComments(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "# %s\n", line); err != nil {
			return err
		}
	}

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
