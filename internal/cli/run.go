package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-gas/dataset"
	"github.com/cwbudde/algo-gas/measure/powerlaw"
	"github.com/cwbudde/algo-gas/measure/response"
	"github.com/cwbudde/algo-gas/plot"
	"github.com/cwbudde/algo-gas/series"
)

// minFitCycles is the smallest properties table worth fitting. Below this
// the power law has more parameters than information.
const minFitCycles = 3

var runCmd = &cobra.Command{
	Use:   "run <run-file>",
	Short: "Execute a batch analysis described by a JSON run file",
	Long: `Execute the full pipeline described by a JSON run file: read the
dataset, apply the visualization window, compute every listed cycle,
accumulate the properties table, fit the power law when at least three
cycles are present, and write the exports.

Run file format:
  {
    "input": "sensor.dat",
    "read": {"separator": "tab", "channels": 2, "time_factor": 1, "channel_factor": 1},
    "window": {"start": 0, "end": 3600, "rezero": true},
    "config": {"metric": "relative", "modifier": "sensitivity", "fit_points": 100,
               "time_unit": "s", "channel_unit": "Ohm", "concentration_unit": "ppm"},
    "cycles": [
      {"concentration": 10, "start_exposure": 60, "end_exposure": 360, "end_recovery": 900},
      {"concentration": 25, "start_exposure": 960, "end_exposure": 1260, "end_recovery": 1800},
      {"concentration": 50, "start_exposure": 1860, "end_exposure": 2160, "end_recovery": 2700}
    ],
    "output": {"dir": "out", "charts": true}
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

type runFile struct {
	Input  string        `json:"input"`
	Read   runReadSpec   `json:"read"`
	Window *runWindow    `json:"window"`
	Config runConfigSpec `json:"config"`
	Cycles []runCycle    `json:"cycles"`
	Output runOutput     `json:"output"`
}

type runReadSpec struct {
	Separator     string  `json:"separator"`
	Channels      int     `json:"channels"`
	TimeFactor    float64 `json:"time_factor"`
	ChannelFactor float64 `json:"channel_factor"`
	SkipHeader    bool    `json:"skip_header"`
}

// runWindow bounds stay pointers so an absent bound falls back to the
// table's own range.
type runWindow struct {
	Start    *float64 `json:"start"`
	End      *float64 `json:"end"`
	Rezero   bool     `json:"rezero"`
	Channels []string `json:"channels"`
}

type runConfigSpec struct {
	Metric            string `json:"metric"`
	Modifier          string `json:"modifier"`
	FitPoints         int    `json:"fit_points"`
	TimeUnit          string `json:"time_unit"`
	ChannelUnit       string `json:"channel_unit"`
	ConcentrationUnit string `json:"concentration_unit"`
}

type runCycle struct {
	Concentration float64 `json:"concentration"`
	StartExposure float64 `json:"start_exposure"`
	EndExposure   float64 `json:"end_exposure"`
	EndRecovery   float64 `json:"end_recovery"`
}

type runOutput struct {
	Dir        string `json:"dir"`
	Properties string `json:"properties"`
	Curves     string `json:"curves"`
	FitInfo    string `json:"fit_info"`
	Charts     bool   `json:"charts"`
}

func runRun(cmd *cobra.Command, args []string) error {
	rf, err := loadRunFile(args[0])
	if err != nil {
		return err
	}

	return executeRun(rf)
}

func loadRunFile(path string) (*runFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rf runFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("cli: run file %s: %w", path, err)
	}

	if rf.Input == "" {
		return nil, fmt.Errorf("cli: run file %s: missing input", path)
	}

	if len(rf.Cycles) == 0 {
		return nil, fmt.Errorf("cli: run file %s: no cycles", path)
	}

	return &rf, nil
}

func executeRun(rf *runFile) error {
	sep, err := parseSeparator(rf.Read.Separator)
	if err != nil {
		return err
	}

	tbl, report, err := dataset.ReadFile(rf.Input, dataset.ReadOptions{
		Separator:     sep,
		Channels:      rf.Read.Channels,
		TimeFactor:    rf.Read.TimeFactor,
		ChannelFactor: rf.Read.ChannelFactor,
		SkipHeader:    rf.Read.SkipHeader,
	})
	if err != nil {
		return err
	}

	if report.Capped {
		slog.Warn("fewer channels than requested", "available", report.Channels)
	}

	slog.Info("dataset loaded", "input", rf.Input, "rows", report.Rows, "channels", report.Channels)

	if rf.Window != nil {
		tbl, err = applyRunWindow(tbl, rf.Window)
		if err != nil {
			return err
		}
	}

	cfg, err := runConfig(rf.Config)
	if err != nil {
		return err
	}

	props := response.NewTable()

	for i, cs := range rf.Cycles {
		cycle, err := response.Calculate(tbl, cs.Concentration, response.Markers{
			StartExposure: cs.StartExposure,
			EndExposure:   cs.EndExposure,
			EndRecovery:   cs.EndRecovery,
		}, cfg)
		if err != nil {
			return fmt.Errorf("cycle %d: %w", i+1, err)
		}

		for _, warn := range cycle.Warnings {
			slog.Warn(warn, "cycle", i+1)
		}

		if err := props.Append(cycle); err != nil {
			return fmt.Errorf("cycle %d: %w", i+1, err)
		}

		slog.Info("cycle computed", "cycle", i+1, "concentration", cs.Concentration)
	}

	out := rf.Output
	if out.Dir == "" {
		out.Dir = "."
	}

	if err := os.MkdirAll(out.Dir, 0o755); err != nil {
		return err
	}

	comment := []string{
		time.Now().Format("2006-01-02 15:04:05"),
		"input: " + rf.Input,
		"response: " + cfg.ResponseLabel(),
		"times unit: " + cfg.TimeUnit,
	}
	wopts := dataset.WriteOptions{Separator: sep, Comment: comment}

	propsPath := filepath.Join(out.Dir, defaultName(out.Properties, "properties.dat"))
	err = writeFileWith(propsPath, func(w io.Writer) error {
		return dataset.WriteProperties(w, props, wopts)
	})
	if err != nil {
		return err
	}

	slog.Info("properties written", "path", propsPath, "cycles", props.Len())

	if props.Len() < minFitCycles {
		slog.Warn("skipping calibration fit", "cycles", props.Len(), "needed", minFitCycles)
		return nil
	}

	fit, err := powerlaw.Fit(props, cfg)
	if err != nil {
		return err
	}

	printFit(fit)

	curvesPath := filepath.Join(out.Dir, defaultName(out.Curves, "fit_data.dat"))
	err = writeFileWith(curvesPath, func(w io.Writer) error {
		return dataset.WriteCurves(w, fit, wopts)
	})
	if err != nil {
		return err
	}

	infoPath := filepath.Join(out.Dir, defaultName(out.FitInfo, "fit_info.txt"))
	err = writeFileWith(infoPath, func(w io.Writer) error {
		return dataset.WriteFitInfo(w, fit, wopts)
	})
	if err != nil {
		return err
	}

	slog.Info("fit written", "curves", curvesPath, "info", infoPath)

	if out.Charts {
		if err := writeCharts(out.Dir, tbl, props, fit, cfg); err != nil {
			return err
		}
	}

	return nil
}

func applyRunWindow(tbl *series.Table, w *runWindow) (*series.Table, error) {
	start := tbl.Time(0)
	if w.Start != nil {
		start = *w.Start
	}

	end := tbl.Time(tbl.Len() - 1)
	if w.End != nil {
		end = *w.End
	}

	var opts []series.WindowOption

	if w.Rezero {
		opts = append(opts, series.WithRezero())
	}

	if len(w.Channels) > 0 {
		opts = append(opts, series.WithChannels(w.Channels...))
	}

	return tbl.Window(start, end, opts...)
}

// runConfig layers the run file's config section over the environment
// defaults.
func runConfig(c runConfigSpec) (response.Config, error) {
	cfg, err := settings.ResponseConfig(c.Metric, c.Modifier)
	if err != nil {
		return response.Config{}, err
	}

	if c.FitPoints > 0 {
		cfg.FitPoints = c.FitPoints
	}

	if c.TimeUnit != "" {
		cfg.TimeUnit = c.TimeUnit
	}

	if c.ChannelUnit != "" {
		cfg.ChannelUnit = c.ChannelUnit
	}

	if c.ConcentrationUnit != "" {
		cfg.ConcentrationUnit = c.ConcentrationUnit
	}

	return cfg, cfg.Validate()
}

func printFit(fit *powerlaw.Result) {
	for _, f := range fit.Fits {
		fmt.Println(f.Legend())

		if f.Sensitivity != nil {
			fmt.Println(f.Sensitivity.String())
		}
	}
}

func writeCharts(dir string, tbl *series.Table, props *response.Table, fit *powerlaw.Result, cfg response.Config) error {
	concLabel := "concentration (" + cfg.ConcentrationUnit + ")"

	charts := []struct {
		name   string
		render func() ([]byte, error)
	}{
		{"series.png", func() ([]byte, error) {
			return plot.Series(tbl, plot.Options{
				Title:  "sensor channels",
				XLabel: "time (" + cfg.TimeUnit + ")",
				YLabel: "signal (" + cfg.ChannelUnit + ")",
			})
		}},
		{"fit.png", func() ([]byte, error) {
			return plot.ResponseFit(props, fit, plot.Options{
				Title:  "response vs concentration",
				XLabel: concLabel,
			})
		}},
		{"response_times.png", func() ([]byte, error) {
			return plot.CycleTimes(props, plot.ResponseTimes, plot.Options{
				XLabel: concLabel,
				YLabel: "response time (" + cfg.TimeUnit + ")",
			})
		}},
		{"recovery_times.png", func() ([]byte, error) {
			return plot.CycleTimes(props, plot.RecoveryTimes, plot.Options{
				XLabel: concLabel,
				YLabel: "recovery time (" + cfg.TimeUnit + ")",
			})
		}},
	}

	for _, c := range charts {
		png, err := c.render()
		if err != nil {
			return err
		}

		path := filepath.Join(dir, c.name)
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return err
		}

		slog.Info("chart written", "path", path)
	}

	return nil
}
