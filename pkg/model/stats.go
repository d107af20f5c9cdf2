package model

import (
	"math"
	"sort"
)

// tandemDistance is the largest gap, in the units of the locations compared,
// between two genes on one chromosome still treated as a tandem pair.
const tandemDistance = 200

// Median returns the median of values without reordering the caller's slice.
// ok is false for empty input.
func Median(values []float64) (median float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	half := len(sorted) / 2
	return (sorted[half] + sorted[len(sorted)-1-half]) / 2, true
}

// IsTandem reports whether two genes sit on the same chromosome less than
// tandemDistance apart.
func IsTandem(chr1, chr2 string, loc1, loc2 float64) bool {
	return chr1 == chr2 && math.Abs(loc1-loc2) < tandemDistance
}
