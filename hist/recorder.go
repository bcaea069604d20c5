// Package hist wraps a quantized, mergeable latency histogram with
// bounded relative error, plus the log-latency moments needed by the
// Welch comparison in package validate.
package hist

import (
	"fmt"
	"math"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"

	"github.com/calbench/calbench/common"
)

// Undefined is the sentinel returned by percentile queries against an
// empty histogram. It is never a valid latency.
const Undefined = time.Duration(-1)

// Recorder collects latency samples into an HDR histogram. Values are
// recorded in nanoseconds. A Recorder is owned by a single trial during
// recording; merging is the only cross-trial synchronization point and
// must happen after recording completes.
type Recorder struct {
	h         *hdrhistogram.Histogram
	anomalies int64

	// Raw and log moments, accumulated at record time so the Welch
	// comparison does not need raw-sample retention.
	sum    float64
	sum2   float64
	sumLn  float64
	sum2Ln float64
}

// New creates a Recorder tracking latencies up to maxLatency with the
// given number of significant figures (1..5). Two significant figures
// bound the per-bucket relative error at 1%.
func New(maxLatency time.Duration, sigfigs int) (*Recorder, error) {
	if maxLatency <= 0 {
		return nil, fmt.Errorf("%w: max trackable latency %v must be positive", common.ErrInvalidParameter, maxLatency)
	}
	if sigfigs < 1 || sigfigs > 5 {
		return nil, fmt.Errorf("%w: significant figures %d outside 1..5", common.ErrInvalidParameter, sigfigs)
	}
	return &Recorder{
		h: hdrhistogram.New(1, maxLatency.Nanoseconds(), sigfigs),
	}, nil
}

// Record appends one latency sample in O(1). Anomalous samples (negative,
// indicating a clock fault, or above the trackable maximum) are clamped
// into range, still recorded, and counted in Anomalies. The histogram
// remains a faithful account of what was observed.
func (r *Recorder) Record(d time.Duration) {
	v := d.Nanoseconds()
	if v < 0 {
		v = 0
		r.anomalies++
	}
	if max := r.h.HighestTrackableValue(); v > max {
		v = max
		r.anomalies++
	}
	// RecordValue cannot fail once v is clamped into range.
	_ = r.h.RecordValue(v)

	fv := float64(v)
	r.sum += fv
	r.sum2 += fv * fv
	ln := math.Log(math.Max(fv, 1))
	r.sumLn += ln
	r.sum2Ln += ln * ln
}

// Merge folds other into r without loss of recorded mass. Both recorders
// must be done recording. Merge is commutative and associative up to the
// histogram's bucket error.
func (r *Recorder) Merge(other *Recorder) {
	dropped := r.h.Merge(other.h)
	r.anomalies += other.anomalies + dropped
	r.sum += other.sum
	r.sum2 += other.sum2
	r.sumLn += other.sumLn
	r.sum2Ln += other.sum2Ln
}

// Count is the number of recorded samples.
func (r *Recorder) Count() int64 {
	return r.h.TotalCount()
}

// Anomalies is the number of samples recorded outside the trackable
// range (clock faults or overflows). Nonzero anomaly counts mean the
// aggregate statistics may be skewed and should be surfaced.
func (r *Recorder) Anomalies() int64 {
	return r.anomalies
}

// Percentile returns the latency at percentile p in [0, 100]. Returns
// Undefined for an empty histogram.
func (r *Recorder) Percentile(p float64) (time.Duration, error) {
	if p < 0 || p > 100 {
		return Undefined, fmt.Errorf("%w: percentile %v outside [0, 100]", common.ErrInvalidParameter, p)
	}
	if r.h.TotalCount() == 0 {
		return Undefined, nil
	}
	return time.Duration(r.h.ValueAtQuantile(p)), nil
}

// Median returns the 50th percentile, or Undefined for an empty histogram.
func (r *Recorder) Median() time.Duration {
	m, _ := r.Percentile(50)
	return m
}

// LogMoments returns the sample count and the accumulated first and
// second moments of ln(latency), for log-domain inference.
func (r *Recorder) LogMoments() (n, sumLn, sum2Ln float64) {
	return float64(r.h.TotalCount()), r.sumLn, r.sum2Ln
}

// MaxTrackable is the highest latency recordable without clamping.
func (r *Recorder) MaxTrackable() time.Duration {
	return time.Duration(r.h.HighestTrackableValue())
}
