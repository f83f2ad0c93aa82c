package solver

import "errors"

// Sentinel kinds for solver errors.
var (
	ErrNotConverged = errors.New("solver did not converge")
	ErrNoStart      = errors.New("solver needs a starting point")
)
