// Calibrates the synthetic busy-work function to a target latency and
// prints the result.
//
// Usage:
//
//	calibrate -target=100us -hint=100ns [-tolerance=0.05] [-warmup=3s]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/calbench/calbench/bench"
)

var (
	target    = flag.Duration("target", 100*time.Microsecond, "Target median latency")
	hint      = flag.Duration("hint", 100*time.Nanosecond, "Approximate latency of one work unit")
	tolerance = flag.Float64("tolerance", bench.DefaultTolerance, "Acceptable relative deviation, in (0,1)")
	warmup    = flag.Duration("warmup", bench.DefaultWarmup, "Warmup time before measuring")
)

func main() {
	flag.Parse()

	cfg := bench.DefaultConfig()
	cfg.Tolerance = *tolerance
	cfg.Warmup = *warmup

	res, err := bench.Calibrate(cfg, *target, *hint)
	if err != nil {
		glog.Exit("calibration failed: ", err)
	}
	if !res.Converged {
		glog.Warningf("calibration did not converge in %d iterations; best median %v for target %v",
			res.Iterations, res.AchievedMedian, res.Target)
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		glog.Exit("marshal result: ", err)
	}
	fmt.Println(string(data))

	if !res.Converged {
		os.Exit(1)
	}
}
