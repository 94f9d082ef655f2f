package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/cwbudde/algo-gas/measure/response"
)

// ErrBadHeader reports a properties file whose header row is missing the
// concentration column or any per-channel response column.
var ErrBadHeader = errors.New("dataset: properties header not recognized")

// ReadProperties reads a properties table previously written by
// WriteProperties. Channel names and column roles are recovered from the
// header row; the cycle number column is ignored and re-derived from row
// order. A zero separator means tab.
//
// Only the concentration and response columns are required, so a fit can
// run on hand-edited files that carry nothing else.
func ReadProperties(r io.Reader, sep rune) (*response.Table, error) {
	if sep == 0 {
		sep = '\t'
	}

	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.Comment = '#'
	cr.TrimLeadingSpace = sep != ' '

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: read: %w", err)
	}

	if len(rows) < 2 {
		return nil, ErrNoData
	}

	concIdx := -1
	respIdx := map[string]int{}
	respTimeIdx := map[string]int{}
	recTimeIdx := map[string]int{}

	var channels []string

	for i, name := range rows[0] {
		name = strings.TrimSpace(name)

		switch {
		case name == "concentration":
			concIdx = i
		case strings.HasSuffix(name, " resp"):
			ch := strings.TrimSuffix(name, " resp")
			respIdx[ch] = i
			channels = append(channels, ch)
		case strings.HasSuffix(name, " respTime"):
			respTimeIdx[strings.TrimSuffix(name, " respTime")] = i
		case strings.HasSuffix(name, " recTime"):
			recTimeIdx[strings.TrimSuffix(name, " recTime")] = i
		}
	}

	if concIdx < 0 || len(channels) == 0 {
		return nil, ErrBadHeader
	}

	props := response.NewTable()

	for ri, row := range rows[1:] {
		conc, err := parseCell(row[concIdx], ri+1, concIdx)
		if err != nil {
			return nil, err
		}

		c := &response.Cycle{
			Concentration: conc,
			Channels:      slices.Clone(channels),
			ByChannel:     make(map[string]response.ChannelResult, len(channels)),
		}

		for _, ch := range channels {
			var res response.ChannelResult

			res.Response, err = parseCell(row[respIdx[ch]], ri+1, respIdx[ch])
			if err != nil {
				return nil, err
			}

			if i, ok := respTimeIdx[ch]; ok {
				res.ResponseTime, err = parseCell(row[i], ri+1, i)
				if err != nil {
					return nil, err
				}
			}

			if i, ok := recTimeIdx[ch]; ok {
				res.RecoveryTime, err = parseCell(row[i], ri+1, i)
				if err != nil {
					return nil, err
				}
			}

			c.ByChannel[ch] = res
		}

		if err := props.Append(c); err != nil {
			return nil, err
		}
	}

	return props, nil
}
