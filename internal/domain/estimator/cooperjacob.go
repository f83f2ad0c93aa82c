package estimator

import (
	"fmt"
	"math"

	"github.com/okian/drawdown/internal/domain/forward"
	"github.com/okian/drawdown/internal/domain/model"
	"github.com/okian/drawdown/internal/domain/regression"
	"github.com/okian/drawdown/internal/domain/validity"
)

// lineFit is a semi-log fit with its derived per-cycle change and root.
type lineFit struct {
	line  regression.Line
	delta float64
	root  float64
}

func fitLine(field string, xs, ys []float64) (lineFit, error) {
	line, err := regression.FitSemiLog(field, xs, ys)
	if err != nil {
		return lineFit{}, err
	}
	root, err := line.Root()
	if err != nil {
		return lineFit{}, err
	}
	if !finite(root) || root <= 0 {
		return lineFit{}, model.Singular(fmt.Sprintf("line root %g is not usable", root))
	}
	return lineFit{line: line, delta: line.DeltaPerLogCycle(), root: root}, nil
}

func transmissivity(discharge, delta, denom float64) float64 {
	return forward.LogCycleFactor * discharge / (denom * math.Pi * delta)
}

// CooperJacobTime fits a straight line to drawdown against ln(time) at one
// observation well and derives T from the drawdown per log cycle and S from
// the zero-drawdown time t0. Points with u above the threshold are flagged,
// not removed.
func (e *Estimator) CooperJacobTime(p model.TestParameters, obs []model.Observation) (*model.FitResult, error) {
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
	fit, err := fitLine("time", days, ys)
	if err != nil {
		return nil, err
	}

	t := transmissivity(p.Discharge, fit.delta, 4)
	s := forward.CooperJacobCoefficient * t * fit.root / (p.Radius * p.Radius)
	if !finite(s) || !finite(t) {
		return nil, model.Singular("derived parameters are not finite")
	}

	res := &model.FitResult{
		Method:           model.MethodCooperJacobTime,
		Status:           model.StatusFitted,
		Storativity:      s,
		Transmissivity:   t,
		Line:             fit.line.Model(),
		DeltaPerLogCycle: fit.delta,
		Root:             p.TimeUnit.FromDays(fit.root),
	}

	m := forward.New(model.MethodCooperJacobTime, forward.InDays(p))
	preds, us, err := m.Sample(days, forward.Params{Storativity: s, Transmissivity: t})
	if err != nil {
		return nil, err
	}
	score(res, xs, ys, preds, us)
	e.flag(res)
	res.TimeAtValidity = p.TimeUnit.FromDays(validity.TimeAtThreshold(p.Radius, s, t, e.threshold))
	warnFewPoints(res, len(obs))
	return res, nil
}

// CooperJacobDistance fits drawdown against ln(distance) at one elapsed
// time. The distance form uses 2π: a log cycle of r is two log cycles of r².
func (e *Estimator) CooperJacobDistance(p model.TestParameters, obs []model.Observation) (*model.FitResult, error) {
	if err := requirePositive("discharge", p.Discharge); err != nil {
		return nil, err
	}
	if err := requirePositive("elapsed_time", p.ElapsedTime); err != nil {
		return nil, err
	}
	if err := checkObservations(obs, "radius", regression.MinPoints, true); err != nil {
		return nil, err
	}

	rs, ys := model.Split(obs)
	elapsed := p.TimeUnit.ToDays(p.ElapsedTime)
	fit, err := fitLine("radius", rs, ys)
	if err != nil {
		return nil, err
	}

	t := transmissivity(p.Discharge, fit.delta, 2)
	s := forward.CooperJacobCoefficient * t * elapsed / (fit.root * fit.root)
	if !finite(s) || !finite(t) {
		return nil, model.Singular("derived parameters are not finite")
	}

	res := &model.FitResult{
		Method:           model.MethodCooperJacobDistance,
		Status:           model.StatusFitted,
		Storativity:      s,
		Transmissivity:   t,
		Line:             fit.line.Model(),
		DeltaPerLogCycle: fit.delta,
		Root:             fit.root,
	}

	m := forward.New(model.MethodCooperJacobDistance, forward.InDays(p))
	preds, us, err := m.Sample(rs, forward.Params{Storativity: s, Transmissivity: t})
	if err != nil {
		return nil, err
	}
	score(res, rs, ys, preds, us)
	e.flag(res)
	warnFewPoints(res, len(obs))
	return res, nil
}

// flag applies the validity threshold to scored points.
func (e *Estimator) flag(res *model.FitResult) {
	res.Excluded = validity.Annotate(res.Points, e.threshold)
	if res.Excluded > 0 {
		res.Warn(fmt.Sprintf("%d of %d observations have u > %g; the straight-line approximation may not hold for them",
			res.Excluded, len(res.Points), e.threshold))
	}
}

func toDays(unit model.TimeUnit, xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = unit.ToDays(x)
	}
	return out
}
