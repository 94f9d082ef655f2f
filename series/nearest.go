package series

import (
	"fmt"
	"math"
)

// NearestIndex returns the index of the key whose absolute distance to
// target is smallest. Ties resolve to the earliest index, so for sorted
// keys a target exactly between two samples snaps to the earlier one.
//
// It fails with ErrEmptySeries for an empty key sequence and with
// ErrNonNumeric for a NaN or infinite target.
func NearestIndex(keys []float64, target float64) (int, error) {
	if len(keys) == 0 {
		return 0, ErrEmptySeries
	}

	if math.IsNaN(target) || math.IsInf(target, 0) {
		return 0, fmt.Errorf("%w: target = %v", ErrNonNumeric, target)
	}

	best := 0
	bestDist := math.Abs(keys[0] - target)

	for i := 1; i < len(keys); i++ {
		d := math.Abs(keys[i] - target)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}

	return best, nil
}

// Nearest returns the key closest in absolute distance to target,
// with ties resolved as in [NearestIndex].
func Nearest(keys []float64, target float64) (float64, error) {
	i, err := NearestIndex(keys, target)
	if err != nil {
		return 0, err
	}

	return keys[i], nil
}

// NearestIndex returns the row index whose sample time is closest to target.
func (t *Table) NearestIndex(target float64) (int, error) {
	return NearestIndex(t.times, target)
}

// NearestTime snaps target to the closest sample time in the table.
func (t *Table) NearestTime(target float64) (float64, error) {
	i, err := t.NearestIndex(target)
	if err != nil {
		return 0, err
	}

	return t.times[i], nil
}
