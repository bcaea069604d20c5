package bench

import (
	"testing"
	"time"

	"github.com/calbench/calbench/hist"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Warmup = 50 * time.Millisecond
	return cfg
}

func medianOf(t *testing.T, f func(), reps int) time.Duration {
	t.Helper()
	rec, err := hist.New(DefaultMaxLatency, DefaultSigfigs)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < reps; i++ {
		rec.Record(Latency(f))
	}
	return rec.Median()
}

func TestBusyWorkMonotone(t *testing.T) {
	warmup(MakeBusyWork(400), 100*time.Millisecond)

	units := []uint64{100, 200, 400}
	medians := make([]time.Duration, len(units))
	for i, u := range units {
		medians[i] = medianOf(t, MakeBusyWork(u), 100)
	}
	for i := 1; i < len(medians); i++ {
		if medians[i] < medians[i-1] {
			t.Error("Medians not monotone for units ", units, ": ", medians)
		}
	}
}

func TestBusyWorkNearLinear(t *testing.T) {
	warmup(MakeBusyWork(2000), 100*time.Millisecond)

	m1 := medianOf(t, MakeBusyWork(500), 100)
	m4 := medianOf(t, MakeBusyWork(2000), 100)

	// 4x the units should cost roughly 4x the latency. The wide band
	// absorbs per-call overhead and scheduler noise.
	ratio := float64(m4) / float64(m1)
	if ratio < 2 || ratio > 8 {
		t.Error("Latency does not scale near-linearly: 4x units gave ratio ", ratio)
	}
}

func TestBusyWorkZeroUnits(t *testing.T) {
	// Zero units still returns a callable, near-instant function.
	f := MakeBusyWork(0)
	if d := Latency(f); d > time.Millisecond {
		t.Error("Zero-unit busy work too slow: ", d)
	}
}
