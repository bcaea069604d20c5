// Runs a baseline/target comparison batch with synthetic workloads and
// validates the observed latency ratio.
//
// The baseline busy work is calibrated to BASE_MEDIAN (in LATENCY_UNIT)
// and the target to BASE_MEDIAN * TARGET_RATIO; NTRIALS trials of
// NREPEATS interleaved measurements each are then validated against
// TARGET_RATIO within TOLERANCE_PCT, requiring PASS_FRACTION of the
// conclusive trials to pass. Set REPORT_FILE (and optionally
// REPORT_BUCKET) to persist the result document.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/golang/glog"

	"github.com/calbench/calbench/bench"
	"github.com/calbench/calbench/env"
	"github.com/calbench/calbench/report"
	"github.com/calbench/calbench/validate"
)

var title = flag.String("title", "benchrun", "Report title")

func main() {
	flag.Parse()

	rc, err := env.Load()
	if err != nil {
		glog.Exit("configuration: ", err)
	}
	cfg := rc.BenchConfig()

	baseTarget := rc.Unit.ToDuration(rc.BaseMedian)
	hint := rc.Unit.ToDuration(rc.BaseMedianHint)

	glog.Info("calibrating baseline to ", baseTarget)
	baseCal, err := bench.Calibrate(cfg, baseTarget, hint)
	if err != nil {
		glog.Exit("baseline calibration: ", err)
	}
	targetTarget := rc.Unit.ToDuration(rc.BaseMedian * rc.TargetRatio)
	glog.Info("calibrating target to ", targetTarget)
	targetCal, err := bench.Calibrate(cfg, targetTarget, hint)
	if err != nil {
		glog.Exit("target calibration: ", err)
	}
	for _, cal := range []bench.CalibrationResult{baseCal, targetCal} {
		if !cal.Converged {
			glog.Warningf("calibration for %v did not converge; proceeding with median %v",
				cal.Target, cal.AchievedMedian)
		}
	}

	runner, err := bench.NewRunner(cfg)
	if err != nil {
		glog.Exit("runner: ", err)
	}
	glog.Infof("running %d trials of %d interleaved repetitions", rc.Trials, rc.Repeats)
	batch, err := runner.RunPairedBatch(
		bench.MakeBusyWork(baseCal.Units),
		bench.MakeBusyWork(targetCal.Units),
		rc.Repeats, rc.Trials)
	if err != nil {
		glog.Exit("batch: ", err)
	}

	bv, err := validate.ValidateBatch(batch, rc.BatchSpec())
	if err != nil {
		glog.Exit("validation: ", err)
	}
	fmt.Printf("%s: observed ratio %.4f vs expected %.4f (deviation %.2f%%): %d pass / %d fail / %d inconclusive\n",
		bv.Outcome, bv.Observed, bv.Expected, bv.Deviation*100, bv.Passes, bv.Fails, bv.Inconclusives)

	if rc.ReportFile != "" {
		doc := report.NewDocument(*title, rc.Unit.String(), batch, bv)
		doc.Calibration = []bench.CalibrationResult{baseCal, targetCal}
		if err := report.Write(rc.ReportFile, doc); err != nil {
			glog.Exit(err)
		}
		if rc.ReportBucket != "" {
			object := path.Join(*title, path.Base(rc.ReportFile))
			if err := report.Upload(context.Background(), rc.ReportBucket, object, doc); err != nil {
				glog.Exit(err)
			}
		}
	}

	if bv.Outcome == validate.Fail {
		os.Exit(1)
	}
}
