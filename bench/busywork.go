package bench

import (
	"crypto/sha256"
	"time"
)

// Published so the compiler cannot elide the hash chain.
var busyWorkSink [sha256.Size]byte

var busyWorkSeed = func() [sha256.Size]byte {
	return sha256.Sum256([]byte("calbench busy work seed"))
}()

// MakeBusyWork returns a function performing approximately units of
// CPU-bound work: each unit re-hashes a fixed-size buffer once. The
// chained SHA-256 is deterministic, non-cacheable, and not subject to
// constant folding, so latency scales near-linearly with units and the
// run-to-run variance at fixed units stays small relative to the mean.
// The returned function never sleeps or blocks; sleep latency has coarse
// scheduler-dependent granularity that does not scale to sub-millisecond
// targets.
func MakeBusyWork(units uint64) func() {
	return func() {
		b := busyWorkSeed
		for i := uint64(0); i < units; i++ {
			b = sha256.Sum256(b[:])
		}
		busyWorkSink = b
	}
}

// FakeWork returns a function that sleeps for target. It exists to
// validate the harness against a known latency; it is unsuitable as a
// calibration workload (see MakeBusyWork).
func FakeWork(target time.Duration) func() {
	return func() {
		time.Sleep(target)
	}
}
