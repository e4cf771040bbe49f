package analytics

import "errors"

var (
	// ErrInsufficientData marks a normal, expected outcome: the component's
	// minimum sample requirement is not met. Never a fault.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDegenerateInput marks zero-variance or NaN-poisoned input that a
	// statistic cannot be computed on.
	ErrDegenerateInput = errors.New("degenerate input")
)
