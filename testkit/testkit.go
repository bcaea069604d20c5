// Package testkit generates deterministic latency samples with known
// statistics, so histogram and validator tests never depend on
// wall-clock behavior. It is a development-only helper and carries no
// measurement logic of its own.
package testkit

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/calbench/calbench/hist"
)

// UniformSample returns a deterministic sample of size 2n²-1 from the
// open interval (0, 1). The values cover the range evenly throughout the
// generation sequence, so any prefix of the sample is also roughly
// uniform.
func UniformSample(n uint64) []float64 {
	out := make([]float64, 0, 2*n*n-1)
	for i := uint64(0); i < 2*n*n-1; i++ {
		out = append(out, uniformObservation(n, i))
	}
	return out
}

func uniformObservation(n, i uint64) float64 {
	side := i % 2
	j := i / 2
	bucketIdx := j % n
	itemIdx := j / n
	leftIdx := bucketIdx*n + itemIdx + 1
	idx := leftIdx
	if side != 0 {
		idx = 2*n*n - leftIdx
	}
	return float64(idx) / float64(2*n*n)
}

// LognormalSample returns a deterministic sample of size 2n²-1 from a
// lognormal distribution with log-mean mu and log-stdev sigma. The
// sample median is exp(mu) by construction.
func LognormalSample(mu, sigma float64, n uint64) []float64 {
	normal := distuv.Normal{Mu: mu, Sigma: sigma}
	unif := UniformSample(n)
	out := make([]float64, len(unif))
	for i, u := range unif {
		out[i] = math.Exp(normal.Quantile(u))
	}
	return out
}

// LognormalRecorder fills a fresh Recorder with a deterministic
// lognormal latency sample, interpreting values as nanoseconds.
func LognormalRecorder(mu, sigma float64, n uint64, maxLatency time.Duration, sigfigs int) (*hist.Recorder, error) {
	rec, err := hist.New(maxLatency, sigfigs)
	if err != nil {
		return nil, err
	}
	for _, v := range LognormalSample(mu, sigma, n) {
		rec.Record(time.Duration(v))
	}
	return rec, nil
}

// ConstantRecorder fills a fresh Recorder with count copies of d.
func ConstantRecorder(d time.Duration, count int, maxLatency time.Duration, sigfigs int) (*hist.Recorder, error) {
	rec, err := hist.New(maxLatency, sigfigs)
	if err != nil {
		return nil, err
	}
	for i := 0; i < count; i++ {
		rec.Record(d)
	}
	return rec, nil
}
