// Package estimator fits aquifer parameters to pumping-test observations.
// Every analysis is a pure function of its inputs: the caller's slices are
// never modified and each call builds a fresh result.
package estimator

import (
	"context"

	"github.com/okian/drawdown/internal/domain/model"
	"github.com/okian/drawdown/internal/domain/solver"
	"github.com/okian/drawdown/internal/domain/validity"
)

// RecommendedPoints is the fewest observations for a meaningful line fit.
// Fewer (but at least two) still fit and carry a warning.
const RecommendedPoints = 3

// Estimator runs the analyses. The zero value is not usable; use New.
type Estimator struct {
	solver    solver.Solver
	threshold float64
}

// Option applies a configuration option to the Estimator.
type Option func(*Estimator)

// WithSolver injects the nonlinear minimizer used by the Theis fit.
func WithSolver(s solver.Solver) Option {
	return func(e *Estimator) {
		if s != nil {
			e.solver = s
		}
	}
}

// WithThreshold sets the u value above which Cooper-Jacob points are flagged.
func WithThreshold(u float64) Option {
	return func(e *Estimator) {
		if u > 0 {
			e.threshold = u
		}
	}
}

// New returns an Estimator with a Nelder-Mead solver and the standard
// validity threshold unless overridden.
func New(opts ...Option) *Estimator {
	e := &Estimator{
		solver:    solver.NewNelderMead(),
		threshold: validity.DefaultThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Threshold returns the configured validity threshold.
func (e *Estimator) Threshold() float64 { return e.threshold }

// Analyze dispatches req to the estimator selected by its method. On error
// the returned result has StatusFitFailed and the reason set.
func (e *Estimator) Analyze(ctx context.Context, req model.Request) (*model.FitResult, error) {
	if err := ctx.Err(); err != nil {
		return model.Failed(req.Method, err), err
	}

	var (
		res *model.FitResult
		err error
	)
	switch req.Method {
	case model.MethodTheis:
		res, err = e.Theis(ctx, req.Params, req.Observations)
	case model.MethodCooperJacobTime:
		res, err = e.CooperJacobTime(req.Params, req.Observations)
	case model.MethodCooperJacobDistance:
		res, err = e.CooperJacobDistance(req.Params, req.Observations)
	case model.MethodTheisRecovery:
		res, err = e.Recovery(req.Params, req.Observations)
	case model.MethodDupuitForchheimer:
		res, err = e.DupuitForchheimer(req.Params, req.Observations)
	default:
		err = &model.Error{Kind: model.ErrUnknownMethod, Field: "method", Index: -1, Msg: req.Method.String()}
	}
	if err != nil {
		return model.Failed(req.Method, err), err
	}
	return res, nil
}
