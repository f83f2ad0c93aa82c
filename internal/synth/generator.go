// Package synth generates synthetic pumping tests from the forward models
// and drives them through a running server to check parameter recovery.
package synth

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/okian/drawdown/internal/domain/forward"
	"github.com/okian/drawdown/internal/domain/model"
)

const (
	defaultPoints = 12
	minPoints     = 2
	// seedMix decorrelates the two PCG words derived from one seed.
	seedMix = 0x9e3779b97f4a7c15
)

// DefaultScenario returns a well-conditioned scenario for method, with
// times in days.
func DefaultScenario(method model.Method) Scenario {
	sc := Scenario{Method: method, Points: defaultPoints}
	switch method {
	case model.MethodTheis:
		sc.Params = model.TestParameters{Discharge: 500, Radius: 50}
		sc.Storativity, sc.Transmissivity = 1e-4, 100
		sc.Start, sc.End = 0.001, 10
	case model.MethodCooperJacobTime:
		sc.Params = model.TestParameters{Discharge: 1000, Radius: 30}
		sc.Storativity, sc.Transmissivity = 2e-4, 250
		sc.Start, sc.End = 0.01, 10
	case model.MethodCooperJacobDistance:
		sc.Params = model.TestParameters{Discharge: 1000, ElapsedTime: 1}
		sc.Storativity, sc.Transmissivity = 2e-4, 250
		sc.Start, sc.End = 5, 100
	case model.MethodTheisRecovery:
		sc.Params = model.TestParameters{Discharge: 800, PumpingDuration: 1}
		sc.Transmissivity, sc.StorativityRatio = 150, 1
		sc.Start, sc.End = 0.01, 1
	case model.MethodDupuitForchheimer:
		sc.Params = model.TestParameters{Discharge: 500, Recharge: 0.001, Conductivity: 20, InitialHead: 30, TargetRadius: 50}
		sc.Start, sc.End = 5, 350
	}
	return sc
}

// Generate builds an analysis request whose observations follow the
// scenario's forward model. A fresh request ID is attached.
func Generate(sc Scenario) (model.Request, error) { //nolint:gocritic // hugeParam: Scenario is a value template
	if sc.Points < minPoints {
		return model.Request{}, model.InvalidParam("points", float64(sc.Points), "need at least 2 points")
	}
	if sc.Start <= 0 || sc.End <= sc.Start {
		return model.Request{}, model.InvalidParam("start", sc.Start, "sampling range must satisfy 0 < start < end")
	}

	xs := make([]float64, sc.Points)
	floats.LogSpan(xs, sc.Start, sc.End)

	m := forward.New(sc.Method, forward.InDays(sc.Params))
	ys, _, err := m.Sample(sc.modelX(xs), forward.Params{
		Storativity:      sc.Storativity,
		Transmissivity:   sc.Transmissivity,
		StorativityRatio: sc.StorativityRatio,
	})
	if err != nil {
		return model.Request{}, err
	}
	if sc.Noise > 0 {
		rng := rand.New(rand.NewPCG(sc.Seed, sc.Seed^seedMix)) //nolint:gosec // reproducible noise, not security
		for i := range ys {
			ys[i] *= 1 + sc.Noise*rng.NormFloat64()
		}
	}
	obs, err := model.Zip(xs, ys)
	if err != nil {
		return model.Request{}, err
	}

	return model.Request{
		RequestID:    uuid.NewString(),
		Method:       sc.Method,
		Params:       sc.Params,
		Observations: obs,
	}, nil
}

// modelX maps sampled x values to the forward model's independent
// variable: days for drawdown times, t/t' for recovery.
func (sc *Scenario) modelX(xs []float64) []float64 {
	p := sc.Params
	out := make([]float64, len(xs))
	for i, x := range xs {
		switch sc.Method {
		case model.MethodTheis, model.MethodCooperJacobTime:
			out[i] = p.TimeUnit.ToDays(x)
		case model.MethodTheisRecovery:
			out[i] = forward.RecoveryRatio(p.PumpingDuration, x)
		default:
			out[i] = x
		}
	}
	return out
}
