package powerlaw

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-gas/internal/testutil"
	"github.com/cwbudde/algo-gas/measure/response"
)

// propsTable builds an accumulated properties table with explicit
// per-channel responses, one row per concentration.
func propsTable(t *testing.T, concs []float64, resp map[string][]float64, layout ...string) *response.Table {
	t.Helper()

	tab := response.NewTable()

	for i, conc := range concs {
		cycle := &response.Cycle{
			Concentration: conc,
			Channels:      layout,
			ByChannel:     make(map[string]response.ChannelResult, len(layout)),
		}

		for _, name := range layout {
			cycle.ByChannel[name] = response.ChannelResult{Response: resp[name][i]}
		}

		if err := tab.Append(cycle); err != nil {
			t.Fatal(err)
		}
	}

	return tab
}

func TestFitRecoversPowerLaw(t *testing.T) {
	// Responses approximate 2 * conc^0.5.
	props := propsTable(t,
		[]float64{1, 2, 4},
		map[string][]float64{"ch1": {2.0, 2.83, 4.0}},
		"ch1",
	)

	res, err := Fit(props, response.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Fits) != 1 {
		t.Fatalf("fits = %d, want 1", len(res.Fits))
	}

	fit := res.Fits[0]

	if math.Abs(fit.A-2) > 0.05*2 {
		t.Errorf("A = %v, want 2 within 5%%", fit.A)
	}

	if math.Abs(fit.B-0.5) > 0.05*0.5 {
		t.Errorf("B = %v, want 0.5 within 5%%", fit.B)
	}

	if res.Label != "ΔS/S0 (%)" {
		t.Errorf("Label = %q, want ΔS/S0 (%%)", res.Label)
	}
}

func TestFitPointCount(t *testing.T) {
	props := propsTable(t,
		[]float64{1, 2, 4},
		map[string][]float64{"ch1": {2, 4, 8}},
		"ch1",
	)

	cfg := response.DefaultConfig()
	cfg.FitPoints = 100

	res, err := Fit(props, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.X) != 100 {
		t.Fatalf("len(X) = %d, want 100", len(res.X))
	}

	if res.X[0] != 0 {
		t.Errorf("X[0] = %v, want 0", res.X[0])
	}

	// Spacing is maxConcentration/N, so the grid stops one step short
	// of the maximum.
	step := 4.0 / 100

	for i, xi := range res.X {
		testutil.RequireNearlyEqual(t, xi, float64(i)*step, 1e-9)
	}

	if last := res.X[len(res.X)-1]; last >= 4 {
		t.Errorf("last grid point = %v, want < 4", last)
	}

	if len(res.Fits[0].Curve) != 100 {
		t.Errorf("len(Curve) = %d, want 100", len(res.Fits[0].Curve))
	}
}

func TestFitCurveMatchesModel(t *testing.T) {
	props := propsTable(t,
		[]float64{1, 4, 9},
		map[string][]float64{"ch1": {3, 6, 9}}, // 3 * conc^0.5
		"ch1",
	)

	cfg := response.DefaultConfig()
	cfg.FitPoints = 10

	res, err := Fit(props, cfg)
	if err != nil {
		t.Fatal(err)
	}

	fit := res.Fits[0]

	want := make([]float64, len(res.X))
	for i, xi := range res.X {
		want[i] = fit.A * math.Pow(xi, fit.B)
	}

	testutil.RequireSliceNearlyEqual(t, fit.Curve, want, 1e-9)
}

func TestFitMultiChannel(t *testing.T) {
	props := propsTable(t,
		[]float64{1, 4, 9, 16},
		map[string][]float64{
			"ch1": {2, 4, 6, 8},    // 2 * conc^0.5
			"ch2": {3, 12, 27, 48}, // 3 * conc^1
		},
		"ch1", "ch2",
	)

	res, err := Fit(props, response.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Fits) != 2 {
		t.Fatalf("fits = %d, want 2", len(res.Fits))
	}

	if res.Fits[0].Channel != "ch1" || res.Fits[1].Channel != "ch2" {
		t.Errorf("fit order = [%s, %s], want layout order [ch1, ch2]",
			res.Fits[0].Channel, res.Fits[1].Channel)
	}

	ch1, ok := res.Fit("ch1")
	if !ok {
		t.Fatal("Fit(ch1) not found")
	}

	if math.Abs(ch1.A-2) > 1e-6 || math.Abs(ch1.B-0.5) > 1e-6 {
		t.Errorf("ch1 = (a=%v, b=%v), want (2, 0.5)", ch1.A, ch1.B)
	}

	ch2, ok := res.Fit("ch2")
	if !ok {
		t.Fatal("Fit(ch2) not found")
	}

	if math.Abs(ch2.A-3) > 1e-6 || math.Abs(ch2.B-1) > 1e-6 {
		t.Errorf("ch2 = (a=%v, b=%v), want (3, 1)", ch2.A, ch2.B)
	}

	if _, ok := res.Fit("missing"); ok {
		t.Error("Fit(missing) found, want not found")
	}
}

func TestFitSensitivity(t *testing.T) {
	props := propsTable(t,
		[]float64{1, 2, 3, 4},
		map[string][]float64{"ch1": {3, 6, 9, 12}}, // 3 * conc
		"ch1",
	)

	cfg := response.DefaultConfig()
	cfg.Modifier = response.ModifierSensitivity

	res, err := Fit(props, cfg)
	if err != nil {
		t.Fatal(err)
	}

	sens := res.Fits[0].Sensitivity
	if sens == nil {
		t.Fatal("Sensitivity = nil, want regression result")
	}

	testutil.RequireNearlyEqual(t, sens.Slope, 3, 1e-9)
	testutil.RequireNearlyEqual(t, sens.R2, 1, 1e-9)

	if sens.Unit != "%/ppm" {
		t.Errorf("Unit = %q, want %%/ppm", sens.Unit)
	}
}

func TestFitSensitivityOffByDefault(t *testing.T) {
	props := propsTable(t,
		[]float64{1, 2, 4},
		map[string][]float64{"ch1": {2, 4, 8}},
		"ch1",
	)

	res, err := Fit(props, response.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if res.Fits[0].Sensitivity != nil {
		t.Errorf("Sensitivity = %+v, want nil without the modifier", res.Fits[0].Sensitivity)
	}
}

func TestFitNegativeResponses(t *testing.T) {
	// A falling sensor under the signed absolute metric produces
	// negative responses; the power law absorbs the sign into a.
	props := propsTable(t,
		[]float64{1, 4, 9},
		map[string][]float64{"ch1": {-2, -4, -6}}, // -2 * conc^0.5
		"ch1",
	)

	cfg := response.DefaultConfig()
	cfg.Metric = response.MetricDeltaAbs

	res, err := Fit(props, cfg)
	if err != nil {
		t.Fatal(err)
	}

	fit := res.Fits[0]

	if math.Abs(fit.A+2) > 0.05*2 {
		t.Errorf("A = %v, want -2 within 5%%", fit.A)
	}

	if math.Abs(fit.B-0.5) > 0.05*0.5 {
		t.Errorf("B = %v, want 0.5 within 5%%", fit.B)
	}
}

func TestFitErrors(t *testing.T) {
	single := propsTable(t,
		[]float64{1},
		map[string][]float64{"ch1": {2}},
		"ch1",
	)

	_, err := Fit(single, response.DefaultConfig())
	if !errors.Is(err, ErrTooFewCycles) {
		t.Errorf("single row error = %v, want ErrTooFewCycles", err)
	}

	_, err = Fit(response.NewTable(), response.DefaultConfig())
	if !errors.Is(err, ErrTooFewCycles) {
		t.Errorf("empty table error = %v, want ErrTooFewCycles", err)
	}

	_, err = Fit(nil, response.DefaultConfig())
	if !errors.Is(err, ErrTooFewCycles) {
		t.Errorf("nil table error = %v, want ErrTooFewCycles", err)
	}

	negative := propsTable(t,
		[]float64{-1, 2, 4},
		map[string][]float64{"ch1": {1, 2, 3}},
		"ch1",
	)

	_, err = Fit(negative, response.DefaultConfig())
	if !errors.Is(err, ErrNoConvergence) {
		t.Errorf("negative concentration error = %v, want ErrNoConvergence", err)
	}

	flat := propsTable(t,
		[]float64{10, 10, 10},
		map[string][]float64{"ch1": {1, 2, 6}},
		"ch1",
	)

	_, err = Fit(flat, response.DefaultConfig())
	if !errors.Is(err, ErrNoConvergence) {
		t.Errorf("flat concentration error = %v, want ErrNoConvergence", err)
	}

	cfg := response.DefaultConfig()
	cfg.Modifier = response.ModifierSensitivity

	_, err = Fit(flat, cfg)
	if !errors.Is(err, ErrNoConvergence) {
		t.Errorf("flat concentration sensitivity error = %v, want ErrNoConvergence", err)
	}

	bad := response.DefaultConfig()
	bad.FitPoints = -1

	_, err = Fit(single, bad)
	if !errors.Is(err, response.ErrInvalidConfig) {
		t.Errorf("bad config error = %v, want ErrInvalidConfig", err)
	}
}

func TestDisplayStrings(t *testing.T) {
	fit := FitResult{Channel: "ch1", A: 2.004, B: 0.497}

	if got, want := fit.Legend(), "fit ch1: a=2.00, b=0.50"; got != want {
		t.Errorf("Legend() = %q, want %q", got, want)
	}

	sens := Sensitivity{Slope: 3.001, R2: 0.9996, Unit: "%/ppm"}

	if got, want := sens.String(), "sensitivity = 3.00 %/ppm, R-sq = 1.000"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
