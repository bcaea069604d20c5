package common

import "errors"

var (
	// ErrInvalidParameter indicates malformed configuration, e.g. zero
	// repetitions or a tolerance outside (0, 1). Surfaced immediately;
	// never retried.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrTargetUnreachable indicates a calibration target latency below
	// what a single work unit can achieve on this machine.
	ErrTargetUnreachable = errors.New("target latency unreachable")
)
