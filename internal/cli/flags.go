package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-gas/dataset"
	"github.com/cwbudde/algo-gas/series"
)

// readFlags bundles the dataset flags shared by the reading commands.
type readFlags struct {
	input         string
	separator     string
	channels      int
	timeFactor    float64
	channelFactor float64
	skipHeader    bool
}

func (f *readFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.input, "input", "", "input data file (required)")
	cmd.Flags().StringVar(&f.separator, "separator", "tab", "column separator: tab, comma, space or semicolon")
	cmd.Flags().IntVar(&f.channels, "channels", 0, "number of channels to read (0 = all)")
	cmd.Flags().Float64Var(&f.timeFactor, "time-factor", 1, "divide time values by this factor on ingest")
	cmd.Flags().Float64Var(&f.channelFactor, "channel-factor", 1, "divide channel values by this factor on ingest")
	cmd.Flags().BoolVar(&f.skipHeader, "skip-header", false, "skip the first row of the file")

	_ = cmd.MarkFlagRequired("input")
}

func (f *readFlags) load() (*series.Table, *dataset.ReadReport, error) {
	sep, err := parseSeparator(f.separator)
	if err != nil {
		return nil, nil, err
	}

	return dataset.ReadFile(f.input, dataset.ReadOptions{
		Separator:     sep,
		Channels:      f.channels,
		TimeFactor:    f.timeFactor,
		ChannelFactor: f.channelFactor,
		SkipHeader:    f.skipHeader,
	})
}

// windowFlags bundles the visualization window flags shared by the
// commands that trim the series before evaluating it.
type windowFlags struct {
	start  float64
	end    float64
	rezero bool
	subset []string
}

func (f *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.start, "window-start", 0, "window start time (default: first sample)")
	cmd.Flags().Float64Var(&f.end, "window-end", 0, "window end time (default: last sample)")
	cmd.Flags().BoolVar(&f.rezero, "rezero", false, "shift the window to start at time zero")
	cmd.Flags().StringSliceVar(&f.subset, "select", nil, "channels to keep, in order (default: all)")
}

// apply windows the table. Unset bounds fall back to the table's own range,
// so a plain invocation passes the series through unchanged.
func (f *windowFlags) apply(cmd *cobra.Command, tbl *series.Table) (*series.Table, error) {
	start := tbl.Time(0)
	if cmd.Flags().Changed("window-start") {
		start = f.start
	}

	end := tbl.Time(tbl.Len() - 1)
	if cmd.Flags().Changed("window-end") {
		end = f.end
	}

	var opts []series.WindowOption

	if f.rezero {
		opts = append(opts, series.WithRezero())
	}

	if len(f.subset) > 0 {
		opts = append(opts, series.WithChannels(f.subset...))
	}

	return tbl.Window(start, end, opts...)
}

func defaultName(name, fallback string) string {
	if name == "" {
		return fallback
	}

	return name
}

func writeFileWith(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
