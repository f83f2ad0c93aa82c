// Package solver defines the nonlinear minimization capability used by the
// Theis estimator and its default gonum-backed implementation.
package solver

import "context"

// Objective is a scalar function of the search vector. It returns +Inf for
// points outside the feasible region.
type Objective func(x []float64) float64

// Result is the outcome of one minimization.
type Result struct {
	X           []float64
	Value       float64
	Iterations  int
	Evaluations int
}

// Solver minimizes an objective from a starting point. Implementations must
// stop when ctx is done and return ErrNotConverged when their iteration
// budget runs out first.
type Solver interface {
	Minimize(ctx context.Context, f Objective, x0 []float64) (Result, error)
}
