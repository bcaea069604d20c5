package bench

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/calbench/calbench/common"
	"github.com/calbench/calbench/hist"
)

type (
	// Trial is one complete repeated-measurement run. The trial owns its
	// histogram exclusively while recording.
	Trial struct {
		Hist *hist.Recorder
	}

	// Batch is an ordered sequence of independent trials. Order matters
	// only for reporting; aggregation over trials is order-independent.
	Batch struct {
		Trials []Trial
	}

	// TrialPair holds the baseline and target histograms of one paired
	// trial, measured under the same load conditions.
	TrialPair struct {
		Base   *hist.Recorder
		Target *hist.Recorder
	}

	// PairedBatch is a batch of baseline/target trial pairs.
	PairedBatch struct {
		Pairs []TrialPair
	}
)

// Runner executes repeated trials of a function under test. The timer
// overhead is estimated once at construction so compensation stays
// consistent across every trial of a run.
type Runner struct {
	cfg      Config
	overhead time.Duration
}

func NewRunner(cfg Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{cfg: cfg}
	if cfg.CompensateTimer {
		r.overhead = TimerOverhead()
	}
	return r, nil
}

// TimerOverhead is the per-sample compensation applied by this runner;
// zero when compensation is off.
func (r *Runner) TimerOverhead() time.Duration {
	return r.overhead
}

// RunBatch performs trials independent trials of reps measurements each,
// recording into a fresh histogram per trial. Trials run sequentially
// unless cfg.ParallelTrials > 1; each trial measures on a locked OS
// thread so a measured invocation is timed by a single uninterrupted
// thread. An error discards the whole batch; partial histograms are
// never reused.
func (r *Runner) RunBatch(f func(), reps, trials int) (*Batch, error) {
	if err := checkBatchArgs(reps, trials); err != nil {
		return nil, err
	}

	batch := &Batch{Trials: make([]Trial, trials)}
	err := r.eachTrial(trials, func(i int) error {
		rec, err := r.newRecorder()
		if err != nil {
			return err
		}
		warmup(f, r.cfg.Warmup)
		for j := 0; j < reps; j++ {
			rec.Record(compensate(Latency(f), r.overhead))
		}
		batch.Trials[i] = Trial{Hist: rec}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// RunPairedBatch measures a baseline and a target function under the
// same conditions. With cfg.Interleave (the default) the two alternate
// repetition by repetition, so a slow drift in system load lands on both
// sides equally instead of biasing whichever ran later.
func (r *Runner) RunPairedBatch(base, target func(), reps, trials int) (*PairedBatch, error) {
	if err := checkBatchArgs(reps, trials); err != nil {
		return nil, err
	}

	batch := &PairedBatch{Pairs: make([]TrialPair, trials)}
	err := r.eachTrial(trials, func(i int) error {
		baseRec, err := r.newRecorder()
		if err != nil {
			return err
		}
		targetRec, err := r.newRecorder()
		if err != nil {
			return err
		}

		warmup(base, r.cfg.Warmup/2)
		warmup(target, r.cfg.Warmup/2)

		if r.cfg.Interleave {
			for j := 0; j < reps; j++ {
				baseRec.Record(compensate(Latency(base), r.overhead))
				targetRec.Record(compensate(Latency(target), r.overhead))
			}
		} else {
			for j := 0; j < reps; j++ {
				baseRec.Record(compensate(Latency(base), r.overhead))
			}
			for j := 0; j < reps; j++ {
				targetRec.Record(compensate(Latency(target), r.overhead))
			}
		}

		batch.Pairs[i] = TrialPair{Base: baseRec, Target: targetRec}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// Merged folds all trial histograms of a batch into one recorder. Call
// only after the batch is complete; the merge is the join point between
// trials.
func (r *Runner) Merged(b *Batch) (*hist.Recorder, error) {
	merged, err := r.newRecorder()
	if err != nil {
		return nil, err
	}
	for _, t := range b.Trials {
		merged.Merge(t.Hist)
	}
	return merged, nil
}

// eachTrial runs fn for every trial index, concurrently when configured.
// Measurement happens on a locked OS thread either way.
func (r *Runner) eachTrial(trials int, fn func(i int) error) error {
	if r.cfg.ParallelTrials <= 1 {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		for i := 0; i < trials; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(r.cfg.ParallelTrials)
	for i := 0; i < trials; i++ {
		i := i
		g.Go(func() error {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			return fn(i)
		})
	}
	return g.Wait()
}

func (r *Runner) newRecorder() (*hist.Recorder, error) {
	return hist.New(r.cfg.MaxLatency, r.cfg.Sigfigs)
}

func checkBatchArgs(reps, trials int) error {
	if reps <= 0 {
		return fmt.Errorf("%w: repetitions per trial %d must be positive", common.ErrInvalidParameter, reps)
	}
	if trials <= 0 {
		return fmt.Errorf("%w: trial count %d must be positive", common.ErrInvalidParameter, trials)
	}
	return nil
}
