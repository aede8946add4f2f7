package sim

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CurrentStats summarizes the per-step current of a run in mA.
type CurrentStats struct {
	Mean float64
	P95  float64
	Peak float64
}

// Summarize computes mean, 95th percentile and peak of currents.
func Summarize(currents []float64) CurrentStats {
	if len(currents) == 0 {
		return CurrentStats{}
	}
	sorted := append([]float64(nil), currents...)
	sort.Float64s(sorted)
	return CurrentStats{
		Mean: stat.Mean(currents, nil),
		P95:  stat.Quantile(0.95, stat.Empirical, sorted, nil),
		Peak: floats.Max(currents),
	}
}
