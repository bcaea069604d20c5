package bench

import (
	"sort"
	"time"
)

// Latency invokes f once and returns its wall-clock latency, taken from
// the monotonic clock. One call, one sample; no internal retries.
func Latency(f func()) time.Duration {
	start := time.Now()
	f()
	return time.Since(start)
}

// Measure invokes f once and returns both its result and the latency of
// the call.
func Measure[T any](f func() T) (T, time.Duration) {
	start := time.Now()
	v := f()
	return v, time.Since(start)
}

const overheadSamples = 1001

// TimerOverhead estimates the fixed cost of one timer read as the median
// of a block of back-to-back time.Now deltas. Samplers compensating for
// timer overhead subtract this from each raw sample.
func TimerOverhead() time.Duration {
	deltas := make([]time.Duration, overheadSamples)
	prev := time.Now()
	for i := range deltas {
		now := time.Now()
		deltas[i] = now.Sub(prev)
		prev = now
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i] < deltas[j] })
	return deltas[len(deltas)/2]
}
