package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-gas/series"
)

// Errors returned by the reader and writers.
var (
	ErrSeparator = errors.New("dataset: single column, check the separator")
	ErrBadCell   = errors.New("dataset: unparseable value")
	ErrBadFactor = errors.New("dataset: non-finite factor")
	ErrNoData    = errors.New("dataset: no data rows")
)

// ReadOptions configures CSV ingestion.
//
// The zero value reads tab-separated data with every column and no
// scaling; DefaultReadOptions spells those defaults out.
type ReadOptions struct {
	// Separator is the column separator; 0 means tab. Comma, space and
	// semicolon are the usual alternatives.
	Separator rune

	// Channels caps how many data columns are ingested; 0 keeps all.
	// A request beyond the available columns is capped, not fatal, and
	// reported on the ReadReport.
	Channels int

	// TimeFactor and ChannelFactor divide the raw time and channel
	// values on ingest, e.g. TimeFactor 1000 turns milliseconds into
	// seconds. 0 means 1.
	TimeFactor    float64
	ChannelFactor float64

	// SkipHeader drops the first non-comment row.
	SkipHeader bool
}

// DefaultReadOptions returns the reader defaults: tab separation, all
// channels, unit factors.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		Separator:     '\t',
		TimeFactor:    1,
		ChannelFactor: 1,
	}
}

func normalizeReadOptions(opts ReadOptions) ReadOptions {
	if opts.Separator == 0 {
		opts.Separator = '\t'
	}

	if opts.TimeFactor == 0 {
		opts.TimeFactor = 1
	}

	if opts.ChannelFactor == 0 {
		opts.ChannelFactor = 1
	}

	return opts
}

// ReadReport describes what Read actually ingested.
type ReadReport struct {
	// Rows is the number of data rows.
	Rows int

	// Channels is the effective channel count.
	Channels int

	// Capped reports that fewer data columns were available than the
	// options requested.
	Capped bool
}

// Read ingests separator-delimited sensor data. The first column is the
// time axis, every further column becomes a channel named ch1, ch2, ...
// in file order. Lines starting with '#' are skipped, so exports written
// by this package read back in.
//
// Factors are applied by division, following the lab convention of
// logging raw counts with a known scale.
func Read(r io.Reader, opts ReadOptions) (*series.Table, *ReadReport, error) {
	opts = normalizeReadOptions(opts)

	if !finiteFactor(opts.TimeFactor) || !finiteFactor(opts.ChannelFactor) {
		return nil, nil, ErrBadFactor
	}

	cr := csv.NewReader(r)
	cr.Comma = opts.Separator
	cr.Comment = '#'
	cr.TrimLeadingSpace = opts.Separator != ' '

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: read: %w", err)
	}

	if opts.SkipHeader && len(rows) > 0 {
		rows = rows[1:]
	}

	if len(rows) == 0 {
		return nil, nil, ErrNoData
	}

	cols := len(rows[0])
	if cols < 2 {
		return nil, nil, ErrSeparator
	}

	avail := cols - 1

	want := opts.Channels
	if want <= 0 || want > avail {
		want = avail
	}

	times := make([]float64, len(rows))

	values := make([][]float64, want)
	for i := range values {
		values[i] = make([]float64, len(rows))
	}

	for ri, row := range rows {
		tv, err := parseCell(row[0], ri, 0)
		if err != nil {
			return nil, nil, err
		}

		times[ri] = tv / opts.TimeFactor

		for ci := range want {
			v, err := parseCell(row[ci+1], ri, ci+1)
			if err != nil {
				return nil, nil, err
			}

			values[ci][ri] = v / opts.ChannelFactor
		}
	}

	chans := make([]series.Channel, want)
	for i := range chans {
		chans[i] = series.Channel{Name: fmt.Sprintf("ch%d", i+1), Values: values[i]}
	}

	tbl, err := series.New(times, chans...)
	if err != nil {
		return nil, nil, err
	}

	report := &ReadReport{
		Rows:     len(rows),
		Channels: want,
		Capped:   opts.Channels > avail,
	}

	return tbl, report, nil
}

// ReadFile reads a dataset from a file.
func ReadFile(path string, opts ReadOptions) (*series.Table, *ReadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()

	return Read(f, opts)
}

func parseCell(s string, row, col int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: row %d, column %d: %q", ErrBadCell, row+1, col+1, s)
	}

	return v, nil
}

func finiteFactor(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
