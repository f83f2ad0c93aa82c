package estimator

import (
	"context"
	"errors"
	"math"

	"github.com/okian/drawdown/internal/domain/forward"
	"github.com/okian/drawdown/internal/domain/model"
	"github.com/okian/drawdown/internal/domain/regression"
)

// Fallback starting point when the straight-line estimate is unusable.
const (
	FallbackStorativity    = 1e-4
	FallbackTransmissivity = 100.0
)

// Theis fits S and T by nonlinear least squares on the Theis solution with
// Q and r fixed. The search runs over (ln S, ln T) so both stay positive,
// starting from a Cooper-Jacob estimate of the same data.
func (e *Estimator) Theis(ctx context.Context, p model.TestParameters, obs []model.Observation) (*model.FitResult, error) {
	if err := requirePositive("discharge", p.Discharge); err != nil {
		return nil, err
	}
	if err := requirePositive("radius", p.Radius); err != nil {
		return nil, err
	}
	if err := checkObservations(obs, "time", regression.MinPoints, true); err != nil {
		return nil, err
	}

	xs, ys := model.Split(obs)
	days := toDays(p.TimeUnit, xs)
	s0, t0 := initialGuess(p, days, ys)
	m := forward.New(model.MethodTheis, forward.InDays(p))

	objective := func(v []float64) float64 {
		fp := forward.Params{Storativity: math.Exp(v[0]), Transmissivity: math.Exp(v[1])}
		var sum float64
		for i, d := range days {
			pred, err := m.Predict(d, fp)
			if err != nil || !finite(pred) {
				return math.Inf(1)
			}
			r := ys[i] - pred
			sum += r * r
		}
		return sum
	}

	out, err := e.solver.Minimize(ctx, objective, []float64{math.Log(s0), math.Log(t0)})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, model.Divergence(err.Error())
	}
	if len(out.X) != 2 || !finite(out.Value) {
		return nil, model.Divergence("solver returned no finite minimum")
	}
	s, t := math.Exp(out.X[0]), math.Exp(out.X[1])
	if !finite(s) || !finite(t) || s <= 0 || t <= 0 {
		return nil, model.Divergence("solver left the physical parameter range")
	}

	res := &model.FitResult{
		Method:         model.MethodTheis,
		Status:         model.StatusFitted,
		Storativity:    s,
		Transmissivity: t,
		Iterations:     out.Iterations,
	}
	preds, us, err := m.Sample(days, forward.Params{Storativity: s, Transmissivity: t})
	if err != nil {
		return nil, err
	}
	score(res, xs, ys, preds, us)
	warnFewPoints(res, len(obs))
	return res, nil
}

// initialGuess derives (S, T) from a straight-line fit, falling back to
// typical confined-aquifer values.
func initialGuess(p model.TestParameters, days, ys []float64) (float64, float64) {
	fit, err := fitLine("time", days, ys)
	if err != nil {
		return FallbackStorativity, FallbackTransmissivity
	}
	t := transmissivity(p.Discharge, fit.delta, 4)
	s := forward.CooperJacobCoefficient * t * fit.root / (p.Radius * p.Radius)
	if !finite(s) || !finite(t) || s <= 0 || t <= 0 {
		return FallbackStorativity, FallbackTransmissivity
	}
	return s, t
}
