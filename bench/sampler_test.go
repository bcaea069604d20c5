package bench

import (
	"testing"
	"time"
)

func TestLatencyMeasuresSleep(t *testing.T) {
	const target = 10 * time.Millisecond
	d := Latency(FakeWork(target))
	if d < target {
		t.Error("Latency below sleep duration: ", d)
	}
}

func TestMeasureReturnsResult(t *testing.T) {
	v, d := Measure(func() int { return 42 })
	if v != 42 {
		t.Error("Incorrect result: ", v)
	}
	if d < 0 {
		t.Error("Negative sample: ", d)
	}
}

func TestTimerOverheadSmall(t *testing.T) {
	o := TimerOverhead()
	if o < 0 {
		t.Error("Negative overhead: ", o)
	}
	if o > time.Millisecond {
		t.Error("Implausible timer overhead: ", o)
	}
}

func TestCompensate(t *testing.T) {
	if d := compensate(100, 30); d != 70 {
		t.Error("Incorrect compensation: ", d)
	}
	if d := compensate(20, 30); d != 0 {
		t.Error("Compensation must floor at zero: ", d)
	}
	if d := compensate(-5, 30); d != -5 {
		t.Error("Clock faults must pass through for anomaly accounting: ", d)
	}
}
