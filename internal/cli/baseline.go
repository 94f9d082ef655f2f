package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-gas/dataset"
	"github.com/cwbudde/algo-gas/measure/baseline"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Assess baseline stability before an exposure",
	Long: `Quantify drift and noise of every channel over a quiet stretch of the
series and optionally export the noise spectrum of one channel. A large
drift or a low SNR means responses evaluated near that region cannot be
trusted.

Examples:
  gasresp baseline --input sensor.dat --window-start 0 --window-end 600
  gasresp baseline --input sensor.dat --spectrum noise.dat --spectrum-channel ch2`,
	RunE: runBaseline,
}

// Flags
var (
	baselineRead   readFlags
	baselineWindow windowFlags

	baselineSpectrum   string
	baselineSpectrumCh string
	baselineFFTSize    int
	baselineFFTWindow  string
)

func init() {
	rootCmd.AddCommand(baselineCmd)

	baselineRead.register(baselineCmd)
	baselineWindow.register(baselineCmd)

	baselineCmd.Flags().StringVar(&baselineSpectrum, "spectrum", "", "write the noise spectrum to this file")
	baselineCmd.Flags().StringVar(&baselineSpectrumCh, "spectrum-channel", "", "channel for the noise spectrum (default: first)")
	baselineCmd.Flags().IntVar(&baselineFFTSize, "fft-size", 0, "transform length (default: next power of two)")
	baselineCmd.Flags().StringVar(&baselineFFTWindow, "fft-window", "hann", "window function: hann, hamming or blackman")
}

func runBaseline(cmd *cobra.Command, args []string) error {
	tbl, report, err := baselineRead.load()
	if err != nil {
		return err
	}

	if report.Capped {
		slog.Warn("fewer channels than requested", "available", report.Channels)
	}

	tbl, err = baselineWindow.apply(cmd, tbl)
	if err != nil {
		return err
	}

	stats, err := baseline.AnalyzeAll(tbl)
	if err != nil {
		return err
	}

	printBaseline(stats)

	if baselineSpectrum == "" {
		return nil
	}

	channel := baselineSpectrumCh
	if channel == "" {
		channel = tbl.Channels()[0]
	}

	winType, err := parseWindowType(baselineFFTWindow)
	if err != nil {
		return err
	}

	spec, err := baseline.NoiseSpectrum(tbl, channel, baseline.SpectrumConfig{
		FFTSize:    baselineFFTSize,
		WindowType: winType,
	})
	if err != nil {
		return err
	}

	err = writeFileWith(baselineSpectrum, func(w io.Writer) error {
		return dataset.WriteSpectrum(w, spec, dataset.WriteOptions{
			Comment: []string{"noise spectrum of " + channel},
		})
	})
	if err != nil {
		return err
	}

	slog.Info("spectrum written", "path", baselineSpectrum, "channel", channel, "bins", len(spec.Power))

	return nil
}

func printBaseline(stats []baseline.Stats) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHANNEL\tMEAN\tDRIFT\tDRIFT TOTAL\tNOISE RMS\tSNR dB")
	fmt.Fprintln(w, "-------\t----\t-----\t-----------\t---------\t------")

	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%.6g\t%.3g\t%.3g\t%.3g\t%.1f\n",
			s.Channel, s.Signal.DC, s.Drift, s.DriftTotal, s.NoiseRMS, s.SNR_dB)
	}

	w.Flush()
}
