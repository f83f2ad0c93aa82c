package estimator

import (
	"math"

	"github.com/okian/drawdown/internal/domain/forward"
	"github.com/okian/drawdown/internal/domain/model"
	"github.com/okian/drawdown/internal/domain/regression"
)

// BoundaryTolerance is how far S/S' may stray from one before a boundary is hinted.
const BoundaryTolerance = 0.1

// Recovery fits residual drawdown against ln(t/t') where t' is the time
// since pumping stopped and t = t' + tp. Observation x values are t'.
func (e *Estimator) Recovery(p model.TestParameters, obs []model.Observation) (*model.FitResult, error) {
	if err := requirePositive("discharge", p.Discharge); err != nil {
		return nil, err
	}
	if err := requirePositive("pumping_duration", p.PumpingDuration); err != nil {
		return nil, err
	}
	if err := checkObservations(obs, "time_since_stop", regression.MinPoints, true); err != nil {
		return nil, err
	}

	since, ys := model.Split(obs)
	ratios := make([]float64, len(since))
	for i, td := range since {
		ratios[i] = forward.RecoveryRatio(p.PumpingDuration, td)
	}
	fit, err := fitLine("time_ratio", ratios, ys)
	if err != nil {
		return nil, err
	}

	res := &model.FitResult{
		Method:           model.MethodTheisRecovery,
		Status:           model.StatusFitted,
		Transmissivity:   transmissivity(p.Discharge, fit.delta, 4),
		StorativityRatio: fit.root,
		BoundaryHint:     Boundary(fit.root),
		Line:             fit.line.Model(),
		DeltaPerLogCycle: fit.delta,
		Root:             fit.root,
	}

	preds := make([]float64, len(ratios))
	for i, x := range ratios {
		preds[i] = fit.line.At(x)
	}
	score(res, ratios, ys, preds, nil)
	for i := range res.Points {
		res.Points[i].SinceStop = since[i]
		res.Points[i].Elapsed = since[i] + p.PumpingDuration
	}
	warnFewPoints(res, len(obs))
	return res, nil
}

// Boundary interprets the storativity ratio S/S'.
func Boundary(ratio float64) model.BoundaryHint {
	switch {
	case math.Abs(ratio-1) <= BoundaryTolerance:
		return model.BoundaryNone
	case ratio > 1:
		return model.BoundaryRecharge
	default:
		return model.BoundaryNoFlow
	}
}
