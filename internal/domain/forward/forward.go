// Package forward holds the closed-form forward models: pure functions from
// aquifer parameters and an independent variable to predicted drawdown.
package forward

import (
	"math"

	"github.com/okian/drawdown/internal/domain/model"
	"github.com/okian/drawdown/internal/domain/wellfn"
)

const (
	// LogCycleFactor is the ln(10) constant as used in the field literature.
	LogCycleFactor = 2.303
	// CooperJacobCoefficient appears in the Cooper-Jacob x-intercept relation.
	CooperJacobCoefficient = 2.25
)

// U returns the dimensionless time parameter r²S/(4Tt).
func U(radius, storativity, transmissivity, time float64) float64 {
	return (radius * radius * storativity) / (4 * transmissivity * time)
}

// Theis returns s = Q/(4πT)·W(u).
func Theis(discharge, radius, storativity, transmissivity, time float64) (float64, error) {
	w, err := wellfn.W(U(radius, storativity, transmissivity, time))
	if err != nil {
		return 0, err
	}
	return discharge / (4 * math.Pi * transmissivity) * w, nil
}

// CooperJacob returns the small-u approximation
// s = (2.303Q)/(4πT)·log10(2.25Tt/(Sr²)).
func CooperJacob(discharge, radius, storativity, transmissivity, time float64) float64 {
	return (LogCycleFactor * discharge) / (4 * math.Pi * transmissivity) *
		math.Log10((CooperJacobCoefficient*transmissivity*time)/(storativity*radius*radius))
}

// CooperJacobDistance is CooperJacob evaluated at distance radius for a
// fixed elapsed time.
func CooperJacobDistance(discharge, radius, storativity, transmissivity, elapsed float64) float64 {
	return CooperJacob(discharge, radius, storativity, transmissivity, elapsed)
}

// Recovery returns residual drawdown s' = (2.303Q)/(4πT)·log10((t/t')/(S/S')).
func Recovery(discharge, transmissivity, ratio, storativityRatio float64) float64 {
	return (LogCycleFactor * discharge) / (4 * math.Pi * transmissivity) * math.Log10(ratio/storativityRatio)
}

// RecoveryRatio returns t/t' where t = t' + tp.
func RecoveryRatio(pumpingDuration, sinceStop float64) float64 {
	return (sinceStop + pumpingDuration) / sinceStop
}

// Params are the fitted parameters a Model predicts from.
type Params struct {
	Storativity      float64
	Transmissivity   float64
	StorativityRatio float64
}

// Model is the forward model of one method with its fixed test parameters.
// Times in Params are expected in days.
type Model struct {
	Method model.Method
	Test   model.TestParameters
}

// New returns the forward model for method. Test parameter times must
// already be converted to days.
func New(method model.Method, test model.TestParameters) Model {
	return Model{Method: method, Test: test}
}

// Predict returns the drawdown at x (time in days, distance in m, or t/t').
func (m Model) Predict(x float64, p Params) (float64, error) {
	t := m.Test
	switch m.Method {
	case model.MethodTheis:
		return Theis(t.Discharge, t.Radius, p.Storativity, p.Transmissivity, x)
	case model.MethodCooperJacobTime:
		return CooperJacob(t.Discharge, t.Radius, p.Storativity, p.Transmissivity, x), nil
	case model.MethodCooperJacobDistance:
		return CooperJacobDistance(t.Discharge, x, p.Storativity, p.Transmissivity, t.ElapsedTime), nil
	case model.MethodTheisRecovery:
		return Recovery(t.Discharge, p.Transmissivity, x, p.StorativityRatio), nil
	case model.MethodDupuitForchheimer:
		return NewDupuitForchheimer(t).Drawdown(x), nil
	default:
		return 0, &model.Error{Kind: model.ErrUnknownMethod, Field: "method", Index: -1, Msg: m.Method.String()}
	}
}

// Sample predicts drawdown at every x. us is nil when the method has no u.
func (m Model) Sample(xs []float64, p Params) (preds, us []float64, err error) {
	preds = make([]float64, len(xs))
	if m.Method.HasValidityFilter() || m.Method == model.MethodTheis {
		us = make([]float64, len(xs))
	}
	for i, x := range xs {
		if preds[i], err = m.Predict(x, p); err != nil {
			return nil, nil, err
		}
		if us != nil {
			us[i], _ = m.U(x, p)
		}
	}
	return preds, us, nil
}

// InDays returns test with ElapsedTime and PumpingDuration converted to
// days, ready for New.
func InDays(test model.TestParameters) model.TestParameters {
	test.ElapsedTime = test.TimeUnit.ToDays(test.ElapsedTime)
	test.PumpingDuration = test.TimeUnit.ToDays(test.PumpingDuration)
	test.TimeUnit = model.Days
	return test
}

// U returns the dimensionless time parameter at x, and false when the
// method has no u.
func (m Model) U(x float64, p Params) (float64, bool) {
	t := m.Test
	switch m.Method {
	case model.MethodTheis, model.MethodCooperJacobTime:
		return U(t.Radius, p.Storativity, p.Transmissivity, x), true
	case model.MethodCooperJacobDistance:
		return U(x, p.Storativity, p.Transmissivity, t.ElapsedTime), true
	default:
		return 0, false
	}
}
