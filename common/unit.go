package common

import (
	"fmt"
	"strings"
	"time"
)

// Unit is the latency unit used for reporting. Recording always happens
// in nanoseconds (the resolution of the monotonic clock); a Unit only
// converts values on the way out.
type Unit int

const (
	Nano Unit = iota
	Micro
	Milli
)

func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(s) {
	case "nano", "ns":
		return Nano, nil
	case "micro", "us", "µs":
		return Micro, nil
	case "milli", "ms":
		return Milli, nil
	}
	return 0, fmt.Errorf("%w: unknown latency unit %q", ErrInvalidParameter, s)
}

func (u Unit) String() string {
	switch u {
	case Nano:
		return "nano"
	case Micro:
		return "micro"
	case Milli:
		return "milli"
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// FromDuration converts d to a float value in unit u.
func (u Unit) FromDuration(d time.Duration) float64 {
	return float64(d) / float64(u.duration())
}

// ToDuration converts a value in unit u back to a Duration.
func (u Unit) ToDuration(v float64) time.Duration {
	return time.Duration(v * float64(u.duration()))
}

func (u Unit) duration() time.Duration {
	switch u {
	case Micro:
		return time.Microsecond
	case Milli:
		return time.Millisecond
	default:
		return time.Nanosecond
	}
}
