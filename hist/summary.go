package hist

import (
	"github.com/calbench/calbench/common"
)

// Summary holds the descriptive statistics commonly reported for a
// latency sample: size, mean, standard deviation, median, a percentile
// ladder, min, and max.
type Summary struct {
	Count     int64           `json:"count"`
	Anomalies int64           `json:"anomalies,omitempty"`
	Mean      common.Duration `json:"mean"`
	Stdev     common.Duration `json:"stdev"`
	Min       common.Duration `json:"min"`
	P1        common.Duration `json:"p1"`
	P5        common.Duration `json:"p5"`
	P10       common.Duration `json:"p10"`
	P25       common.Duration `json:"p25"`
	Median    common.Duration `json:"median"`
	P75       common.Duration `json:"p75"`
	P90       common.Duration `json:"p90"`
	P95       common.Duration `json:"p95"`
	P99       common.Duration `json:"p99"`
	Max       common.Duration `json:"max"`
}

// Summary computes descriptive statistics from the histogram. For an
// empty histogram every latency field is Undefined.
func (r *Recorder) Summary() Summary {
	if r.Count() == 0 {
		u := common.Duration(Undefined)
		return Summary{
			Anomalies: r.anomalies,
			Mean:      u, Stdev: u, Min: u,
			P1: u, P5: u, P10: u, P25: u, Median: u,
			P75: u, P90: u, P95: u, P99: u, Max: u,
		}
	}
	q := func(p float64) common.Duration {
		return common.Duration(r.h.ValueAtQuantile(p))
	}
	return Summary{
		Count:     r.Count(),
		Anomalies: r.anomalies,
		Mean:      common.Duration(r.h.Mean()),
		Stdev:     common.Duration(r.h.StdDev()),
		Min:       common.Duration(r.h.Min()),
		P1:        q(1),
		P5:        q(5),
		P10:       q(10),
		P25:       q(25),
		Median:    q(50),
		P75:       q(75),
		P90:       q(90),
		P95:       q(95),
		P99:       q(99),
		Max:       common.Duration(r.h.Max()),
	}
}
