package bench

import (
	"fmt"
	"math"
	"time"

	"github.com/calbench/calbench/common"
	"github.com/calbench/calbench/hist"
)

// CalibrationResult reports the outcome of tuning the busy-work unit
// count toward a target median latency. Immutable once returned.
type CalibrationResult struct {
	Target         common.Duration `json:"target"`
	AchievedMedian common.Duration `json:"achievedMedian"`
	Units          uint64          `json:"units"`
	Iterations     int             `json:"iterations"`
	Converged      bool            `json:"converged"`
	TimerOverhead  common.Duration `json:"timerOverhead"`
}

// Calibrate searches for the busy-work unit count whose measured median
// latency is within cfg.Tolerance of target. baseMedianHint is the
// approximate latency of a single work unit and seeds the search.
//
// Each iteration measures the median over cfg.CalibrationReps calls and
// corrects the unit count multiplicatively by target/observed; latency
// scales near-linearly with units, so the proportional step converges in
// a few iterations. The search is bounded by cfg.CalibrationIters;
// exhausting the bound returns the closest result with Converged=false,
// and the caller decides whether to proceed best-effort or abort.
func Calibrate(cfg Config, target, baseMedianHint time.Duration) (CalibrationResult, error) {
	if err := cfg.Validate(); err != nil {
		return CalibrationResult{}, err
	}
	if target <= 0 {
		return CalibrationResult{}, fmt.Errorf("%w: target latency %v must be positive", common.ErrInvalidParameter, target)
	}
	if baseMedianHint <= 0 {
		return CalibrationResult{}, fmt.Errorf("%w: base median hint %v must be positive", common.ErrInvalidParameter, baseMedianHint)
	}

	var overhead time.Duration
	if cfg.CompensateTimer {
		overhead = TimerOverhead()
	}

	units := uint64(math.Max(1, math.Round(float64(target)/float64(baseMedianHint))))
	warmup(MakeBusyWork(units), cfg.Warmup)

	// A target below the single-unit latency cannot be reached by any
	// unit count.
	unitMedian, err := medianLatency(cfg, MakeBusyWork(1), overhead)
	if err != nil {
		return CalibrationResult{}, err
	}
	if unitMedian > target {
		return CalibrationResult{}, fmt.Errorf(
			"%w: target %v below single-unit latency %v", common.ErrTargetUnreachable, target, unitMedian)
	}

	best := CalibrationResult{
		Target:        common.Duration(target),
		Units:         units,
		TimerOverhead: common.Duration(overhead),
	}
	bestDev := math.Inf(1)

	for i := 1; i <= cfg.CalibrationIters; i++ {
		median, err := medianLatency(cfg, MakeBusyWork(units), overhead)
		if err != nil {
			return CalibrationResult{}, err
		}
		if median <= 0 {
			median = 1 // keep the ratio step finite
		}

		dev := math.Abs(float64(median-target)) / float64(target)
		if dev < bestDev {
			bestDev = dev
			best.AchievedMedian = common.Duration(median)
			best.Units = units
			best.Iterations = i
		}
		if dev <= cfg.Tolerance {
			best.Converged = true
			return best, nil
		}

		next := uint64(math.Max(1, math.Round(float64(units)*float64(target)/float64(median))))
		if next == units {
			// The step is below histogram resolution; a retry at the
			// same count measures noise, not progress.
			break
		}
		units = next
	}

	return best, nil
}

// medianLatency samples f cfg.CalibrationReps times and returns the
// median, with the fixed timer overhead subtracted from each sample.
func medianLatency(cfg Config, f func(), overhead time.Duration) (time.Duration, error) {
	rec, err := hist.New(cfg.MaxLatency, cfg.Sigfigs)
	if err != nil {
		return 0, err
	}
	for i := 0; i < cfg.CalibrationReps; i++ {
		rec.Record(compensate(Latency(f), overhead))
	}
	return rec.Median(), nil
}

// compensate subtracts the fixed timer-read overhead, flooring at zero.
// Genuinely negative raw samples pass through so the recorder can flag
// them as anomalies.
func compensate(raw, overhead time.Duration) time.Duration {
	if raw < 0 {
		return raw
	}
	if adj := raw - overhead; adj > 0 {
		return adj
	}
	return 0
}

// warmup exercises f in short bursts until d has elapsed, so the first
// recorded samples do not pay cold-cache and frequency-scaling costs.
func warmup(f func(), d time.Duration) {
	if d <= 0 {
		return
	}
	start := time.Now()
	for time.Since(start) < d {
		for i := 0; i < warmupBurst; i++ {
			f()
		}
	}
}
