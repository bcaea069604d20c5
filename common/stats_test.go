package common

import (
	"testing"
	"time"
)

func TestStatsSummary(t *testing.T) {
	var s Stats
	for i := 1; i <= 100; i++ {
		s.Update(float64(i))
	}

	sum := s.Summary(C95)
	if sum.Mean != 50.5 {
		t.Error("Incorrect mean: ", sum.Mean)
	}
	if sum.Min != 1 || sum.Max != 100 {
		t.Error("Incorrect extrema: ", sum.Min, sum.Max)
	}
	if sum.P50 < 49 || sum.P50 > 52 {
		t.Error("Incorrect median: ", sum.P50)
	}
	if sum.CLow >= sum.Mean || sum.CHigh <= sum.Mean {
		t.Error("Confidence interval does not bracket the mean: ", sum.CLow, sum.CHigh)
	}
	if sum.P25 >= sum.P50 || sum.P50 >= sum.P75 {
		t.Error("Quartiles not monotone: ", sum.P25, sum.P50, sum.P75)
	}
}

func TestStatsMedianLeavesReceiverUsable(t *testing.T) {
	s := Stats{3, 1, 2}
	if m := s.Median(); m != 2 {
		t.Error("Incorrect median: ", m)
	}
	s.Update(4)
	if s.Count() != 4 {
		t.Error("Incorrect count after update: ", s.Count())
	}
}

func TestUnitConversions(t *testing.T) {
	if v := Micro.FromDuration(1500 * time.Nanosecond); v != 1.5 {
		t.Error("Incorrect conversion: ", v)
	}
	if d := Milli.ToDuration(2.5); d != 2500*time.Microsecond {
		t.Error("Incorrect conversion: ", d)
	}
	for _, name := range []string{"nano", "micro", "milli", "us", "ms", "NS"} {
		if _, err := ParseUnit(name); err != nil {
			t.Error("Should parse: ", name, err)
		}
	}
	if _, err := ParseUnit("fortnight"); err == nil {
		t.Error("Should not parse fortnight")
	}
}

func TestDurationJSON(t *testing.T) {
	d := Duration(103500 * time.Nanosecond)
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	var back Duration
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Error("Round trip mismatch: ", d, back)
	}
}
