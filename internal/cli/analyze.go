package cli

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-gas/measure/response"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute response characteristics for one exposure cycle",
	Long: `Compute the response of every channel over one exposure/recovery
cycle. The three markers are snapped to the nearest sample times of the
input, so they do not have to land exactly on a sample.

Negative response or recovery times are reported as warnings; they
usually mean a marker is misplaced.

Examples:
  gasresp analyze --input sensor.dat --conc 25 \
      --start-exposure 120 --end-exposure 480 --end-recovery 900
  gasresp analyze --input sensor.dat --separator comma \
      --window-start 100 --window-end 1000 --rezero --metric ratio \
      --conc 50 --start-exposure 20 --end-exposure 380 --end-recovery 800`,
	RunE: runAnalyze,
}

// Flags
var (
	analyzeRead   readFlags
	analyzeWindow windowFlags

	analyzeConc     float64
	analyzeStartExp float64
	analyzeEndExp   float64
	analyzeEndRec   float64
	analyzeMetric   string
	analyzeModifier string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeRead.register(analyzeCmd)
	analyzeWindow.register(analyzeCmd)

	analyzeCmd.Flags().Float64Var(&analyzeConc, "conc", 0, "gas concentration of the cycle (required)")
	analyzeCmd.Flags().Float64Var(&analyzeStartExp, "start-exposure", 0, "exposure start marker (required)")
	analyzeCmd.Flags().Float64Var(&analyzeEndExp, "end-exposure", 0, "exposure end marker (required)")
	analyzeCmd.Flags().Float64Var(&analyzeEndRec, "end-recovery", 0, "recovery end marker (required)")
	analyzeCmd.Flags().StringVar(&analyzeMetric, "metric", "", "response metric: relative, absolute or ratio (default $GASRESP_METRIC)")
	analyzeCmd.Flags().StringVar(&analyzeModifier, "modifier", "", "response modifier: none, per-conc or sensitivity (default $GASRESP_MODIFIER)")

	_ = analyzeCmd.MarkFlagRequired("conc")
	_ = analyzeCmd.MarkFlagRequired("start-exposure")
	_ = analyzeCmd.MarkFlagRequired("end-exposure")
	_ = analyzeCmd.MarkFlagRequired("end-recovery")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	tbl, report, err := analyzeRead.load()
	if err != nil {
		return err
	}

	if report.Capped {
		slog.Warn("fewer channels than requested", "available", report.Channels)
	}

	slog.Info("dataset loaded", "rows", report.Rows, "channels", report.Channels)

	tbl, err = analyzeWindow.apply(cmd, tbl)
	if err != nil {
		return err
	}

	cfg, err := settings.ResponseConfig(analyzeMetric, analyzeModifier)
	if err != nil {
		return err
	}

	cycle, err := response.Calculate(tbl, analyzeConc, response.Markers{
		StartExposure: analyzeStartExp,
		EndExposure:   analyzeEndExp,
		EndRecovery:   analyzeEndRec,
	}, cfg)
	if err != nil {
		return err
	}

	printCycle(cycle, cfg)

	return nil
}

func printCycle(c *response.Cycle, cfg response.Config) {
	fmt.Printf("cycle at %g %s, markers %g / %g / %g %s\n", c.Concentration, cfg.ConcentrationUnit,
		c.StartExposure, c.EndExposure, c.EndRecovery, cfg.TimeUnit)
	fmt.Printf("response metric: %s\n\n", cfg.ResponseLabel())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHANNEL\tRESPONSE\tRESP TIME\tREC TIME\tR0\tRF")
	fmt.Fprintln(w, "-------\t--------\t---------\t--------\t--\t--")

	for _, name := range c.Channels {
		r := c.ByChannel[name]
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
			name, r.Response, r.ResponseTime, r.RecoveryTime, r.R0, r.RF)
	}

	w.Flush()

	for _, warn := range c.Warnings {
		slog.Warn(warn)
	}
}
