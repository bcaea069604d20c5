package env

import (
	"errors"
	"testing"
	"time"

	"github.com/calbench/calbench/common"
)

func clearAll(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"TARGET_RATIO", "LATENCY_UNIT", "BASE_MEDIAN", "BASE_MEDIAN_HINT",
		"NREPEATS", "NTRIALS", "TOLERANCE_PCT", "PASS_FRACTION",
		"WARMUP_MILLIS", "REPORT_FILE", "REPORT_BUCKET",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearAll(t)

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.TargetRatio != 1.1 {
		t.Error("Incorrect default target ratio: ", c.TargetRatio)
	}
	if c.Unit != common.Micro {
		t.Error("Incorrect default unit: ", c.Unit)
	}
	if c.BaseMedian != 100 {
		t.Error("Incorrect default base median: ", c.BaseMedian)
	}
	if c.Repeats != 100 || c.Trials != 10 {
		t.Error("Incorrect default counts: ", c.Repeats, c.Trials)
	}
	if c.Warmup != 3*time.Second {
		t.Error("Incorrect default warmup: ", c.Warmup)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearAll(t)
	t.Setenv("TARGET_RATIO", "1.25")
	t.Setenv("LATENCY_UNIT", "milli")
	t.Setenv("BASE_MEDIAN", "5")
	t.Setenv("NREPEATS", "40")
	t.Setenv("NTRIALS", "7")
	t.Setenv("WARMUP_MILLIS", "250")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.TargetRatio != 1.25 || c.Unit != common.Milli || c.BaseMedian != 5 {
		t.Error("Overrides not applied: ", c)
	}
	if c.Repeats != 40 || c.Trials != 7 {
		t.Error("Count overrides not applied: ", c.Repeats, c.Trials)
	}
	if c.Warmup != 250*time.Millisecond {
		t.Error("Warmup override not applied: ", c.Warmup)
	}

	spec := c.BatchSpec()
	if spec.ExpectedRatio != 1.25 {
		t.Error("BatchSpec ratio mismatch: ", spec)
	}
	cfg := c.BenchConfig()
	if cfg.Warmup != 250*time.Millisecond || cfg.ReportingUnit != common.Milli {
		t.Error("BenchConfig mismatch: ", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Error("Derived config should validate: ", err)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"TARGET_RATIO": "fast",
		"LATENCY_UNIT": "parsec",
		"NREPEATS":     "many",
	}
	for name, val := range cases {
		clearAll(t)
		t.Setenv(name, val)
		if _, err := Load(); !errors.Is(err, common.ErrInvalidParameter) {
			t.Error(name, "=", val, " should be rejected, got: ", err)
		}
	}
}

func TestLoadRejectsOutOfRange(t *testing.T) {
	cases := map[string]string{
		"TARGET_RATIO": "-1",
		"BASE_MEDIAN":  "0",
		"NREPEATS":     "0",
		"NTRIALS":      "-3",
	}
	for name, val := range cases {
		clearAll(t)
		t.Setenv(name, val)
		if _, err := Load(); !errors.Is(err, common.ErrInvalidParameter) {
			t.Error(name, "=", val, " should be rejected, got: ", err)
		}
	}
}

func TestGet(t *testing.T) {
	t.Setenv("CALBENCH_TEST_VAR", "")
	if v := Get("CALBENCH_TEST_VAR", "fallback"); v != "fallback" {
		t.Error("Incorrect default: ", v)
	}
	t.Setenv("CALBENCH_TEST_VAR", "set")
	if v := Get("CALBENCH_TEST_VAR", "fallback"); v != "set" {
		t.Error("Incorrect value: ", v)
	}
}
