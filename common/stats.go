package common

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

type (
	// Stats accumulates float64 observations for summary statistics.
	Stats []float64

	StatsSummary struct {
		ZValue
		CLow  float64
		CHigh float64
		Mean  float64
		Min   float64
		P25   float64
		P50   float64
		P75   float64
		Max   float64
	}

	ZValue struct {
		C float64
		Z float64
	}
)

var (
	C80 = ZValue{C: 80, Z: 1.28}
	C90 = ZValue{C: 90, Z: 1.645}
	C95 = ZValue{C: 95, Z: 1.96}
	C99 = ZValue{C: 99, Z: 2.58}
)

func (s *Stats) Update(v float64) {
	*s = append(*s, v)
}

func (s Stats) Count() int {
	return len(s)
}

func (s Stats) Mean() float64 {
	return stat.Mean(s, nil)
}

func (s Stats) Median() float64 {
	sorted := append(Stats(nil), s...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// Summary computes the mean with a z-based confidence interval plus
// quartiles. Sorts a copy; the receiver is left as appended.
func (s Stats) Summary(z ZValue) StatsSummary {
	sorted := append(Stats(nil), s...)
	sort.Float64s(sorted)

	m, std := stat.MeanStdDev(sorted, nil)
	se := stat.StdErr(std, float64(sorted.Count()))

	return StatsSummary{
		ZValue: z,
		CLow:   m - z.Z*se,
		CHigh:  m + z.Z*se,
		Mean:   m,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
		P50:    stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}
}
