package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-gas/dataset"
	"github.com/cwbudde/algo-gas/measure/powerlaw"
	"github.com/cwbudde/algo-gas/plot"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit the power law from an exported properties file",
	Long: `Fit response = a*(concentration)^b for every channel of a properties
file previously exported by run, or assembled by hand with the same
column layout. With the sensitivity modifier a linear regression over
concentration is reported as well.

Examples:
  gasresp fit --input properties.dat
  gasresp fit --input properties.dat --modifier sensitivity \
      --curves fit_data.dat --info fit_info.txt --png fit.png`,
	RunE: runFit,
}

// Flags
var (
	fitInput     string
	fitSeparator string
	fitPointsN   int
	fitMetric    string
	fitModifier  string
	fitCurves    string
	fitInfoPath  string
	fitPNG       string
)

func init() {
	rootCmd.AddCommand(fitCmd)

	fitCmd.Flags().StringVar(&fitInput, "input", "", "properties file (required)")
	fitCmd.Flags().StringVar(&fitSeparator, "separator", "tab", "column separator: tab, comma, space or semicolon")
	fitCmd.Flags().IntVar(&fitPointsN, "fit-points", 0, "number of curve points (default $GASRESP_FIT_POINTS)")
	fitCmd.Flags().StringVar(&fitMetric, "metric", "", "response metric the table was computed with, for labels (default $GASRESP_METRIC)")
	fitCmd.Flags().StringVar(&fitModifier, "modifier", "", "response modifier: none, per-conc or sensitivity (default $GASRESP_MODIFIER)")
	fitCmd.Flags().StringVar(&fitCurves, "curves", "", "write the fitted curves to this file")
	fitCmd.Flags().StringVar(&fitInfoPath, "info", "", "write the fit summary to this file")
	fitCmd.Flags().StringVar(&fitPNG, "png", "", "write a response vs concentration chart to this file")

	_ = fitCmd.MarkFlagRequired("input")
}

func runFit(cmd *cobra.Command, args []string) error {
	sep, err := parseSeparator(fitSeparator)
	if err != nil {
		return err
	}

	f, err := os.Open(fitInput)
	if err != nil {
		return err
	}

	props, err := dataset.ReadProperties(f, sep)
	f.Close()

	if err != nil {
		return err
	}

	if props.Len() < minFitCycles {
		return fmt.Errorf("cli: need at least %d cycles for a calibration fit, have %d", minFitCycles, props.Len())
	}

	slog.Info("properties loaded", "path", fitInput, "cycles", props.Len(), "channels", len(props.Layout()))

	cfg, err := settings.ResponseConfig(fitMetric, fitModifier)
	if err != nil {
		return err
	}

	if fitPointsN > 0 {
		cfg.FitPoints = fitPointsN
	}

	fit, err := powerlaw.Fit(props, cfg)
	if err != nil {
		return err
	}

	printFit(fit)

	wopts := dataset.WriteOptions{Separator: sep}

	if fitCurves != "" {
		err := writeFileWith(fitCurves, func(w io.Writer) error {
			return dataset.WriteCurves(w, fit, wopts)
		})
		if err != nil {
			return err
		}

		slog.Info("curves written", "path", fitCurves)
	}

	if fitInfoPath != "" {
		err := writeFileWith(fitInfoPath, func(w io.Writer) error {
			return dataset.WriteFitInfo(w, fit, wopts)
		})
		if err != nil {
			return err
		}

		slog.Info("fit summary written", "path", fitInfoPath)
	}

	if fitPNG != "" {
		png, err := plot.ResponseFit(props, fit, plot.Options{
			Title:  "response vs concentration",
			XLabel: "concentration (" + cfg.ConcentrationUnit + ")",
		})
		if err != nil {
			return err
		}

		if err := os.WriteFile(fitPNG, png, 0o644); err != nil {
			return err
		}

		slog.Info("chart written", "path", fitPNG)
	}

	return nil
}
