package solver

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/optimize"
)

const (
	// DefaultMaxIterations bounds the simplex search.
	DefaultMaxIterations = 2000
	// DefaultTolerance is the absolute objective change treated as converged.
	DefaultTolerance = 1e-12
	// DefaultSimplexSize is the initial simplex edge in search coordinates.
	DefaultSimplexSize = 0.5

	stallIterations = 50
)

// NelderMead is a derivative-free Solver backed by gonum's simplex method.
type NelderMead struct {
	maxIterations int
	tolerance     float64
	simplexSize   float64
}

// NewNelderMead returns a solver with defaults overridden by opts.
func NewNelderMead(opts ...Option) *NelderMead {
	s := &NelderMead{
		maxIterations: DefaultMaxIterations,
		tolerance:     DefaultTolerance,
		simplexSize:   DefaultSimplexSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxIterations returns the configured iteration budget.
func (s *NelderMead) MaxIterations() int { return s.maxIterations }

// Minimize implements Solver.
func (s *NelderMead) Minimize(ctx context.Context, f Objective, x0 []float64) (Result, error) {
	if len(x0) == 0 {
		return Result{}, ErrNoStart
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := append([]float64(nil), x0...)
	problem := optimize.Problem{Func: f}
	settings := &optimize.Settings{
		MajorIterations: s.maxIterations,
		Converger: &ctxConverger{
			ctx: ctx,
			inner: &optimize.FunctionConverge{
				Absolute:   s.tolerance,
				Iterations: stallIterations,
			},
		},
	}

	res, err := optimize.Minimize(problem, start, settings, &optimize.NelderMead{SimplexSize: s.simplexSize})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}
	if res == nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNotConverged, err)
	}

	out := Result{
		X:           res.X,
		Value:       res.F,
		Iterations:  res.Stats.MajorIterations,
		Evaluations: res.Stats.FuncEvaluations,
	}
	if !converged(res.Status) {
		return out, fmt.Errorf("%w: %s after %d iterations", ErrNotConverged, res.Status, out.Iterations)
	}
	return out, nil
}

func converged(status optimize.Status) bool {
	switch status {
	case optimize.Success,
		optimize.FunctionConvergence,
		optimize.FunctionThreshold,
		optimize.GradientThreshold,
		optimize.StepConvergence,
		optimize.MethodConverge:
		return true
	default:
		return false
	}
}

// ctxConverger stops the search once ctx is done.
type ctxConverger struct {
	ctx   context.Context
	inner optimize.Converger
}

func (c *ctxConverger) Init(dim int) { c.inner.Init(dim) }

func (c *ctxConverger) Converged(loc *optimize.Location) optimize.Status {
	select {
	case <-c.ctx.Done():
		return optimize.RuntimeLimit
	default:
	}
	return c.inner.Converged(loc)
}
