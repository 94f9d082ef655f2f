package series

import (
	"errors"
	"math"
	"testing"
)

func TestNearestIndex(t *testing.T) {
	keys := []float64{0, 10, 20, 30, 40}

	tests := []struct {
		name   string
		target float64
		want   int
	}{
		{"exact hit", 20, 2},
		{"closest below", 12, 1},
		{"closest above", 18, 2},
		{"tie goes to earlier", 15, 1},
		{"before first", -100, 0},
		{"after last", 1000, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NearestIndex(keys, tt.target)
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("NearestIndex(%v) = %d, want %d", tt.target, got, tt.want)
			}
		})
	}
}

func TestNearestIndexUnsortedKeys(t *testing.T) {
	// Resistance values inside a sub-window are not sorted; the lookup
	// still has to pick the first occurrence of the smallest distance.
	keys := []float64{100, 130, 110, 130, 90}

	got, err := NearestIndex(keys, 129)
	if err != nil {
		t.Fatal(err)
	}

	if got != 1 {
		t.Errorf("NearestIndex(129) = %d, want 1", got)
	}
}

func TestNearestIndexErrors(t *testing.T) {
	_, err := NearestIndex(nil, 5)
	if !errors.Is(err, ErrEmptySeries) {
		t.Errorf("empty keys error = %v, want ErrEmptySeries", err)
	}

	_, err = NearestIndex([]float64{1, 2}, math.NaN())
	if !errors.Is(err, ErrNonNumeric) {
		t.Errorf("NaN target error = %v, want ErrNonNumeric", err)
	}

	_, err = NearestIndex([]float64{1, 2}, math.Inf(1))
	if !errors.Is(err, ErrNonNumeric) {
		t.Errorf("Inf target error = %v, want ErrNonNumeric", err)
	}
}

func TestNearest(t *testing.T) {
	got, err := Nearest([]float64{3, 7, 12}, 8)
	if err != nil {
		t.Fatal(err)
	}

	if got != 7 {
		t.Errorf("Nearest(8) = %v, want 7", got)
	}
}

func TestTableNearestTime(t *testing.T) {
	tab := testTable(t)

	tests := []struct {
		target float64
		want   float64
	}{
		{2.4, 2},
		{2.5, 2}, // tie snaps to the earlier sample
		{2.6, 3},
		{-3, 0},
		{99, 5},
	}

	for _, tt := range tests {
		got, err := tab.NearestTime(tt.target)
		if err != nil {
			t.Fatal(err)
		}

		if got != tt.want {
			t.Errorf("NearestTime(%v) = %v, want %v", tt.target, got, tt.want)
		}
	}
}
