package synth

import (
	"math"

	"github.com/okian/drawdown/internal/domain/forward"
	"github.com/okian/drawdown/internal/domain/model"
)

// Recovered reports whether res reproduces the scenario's true parameters
// within the relative tolerance.
func Recovered(sc Scenario, res *model.FitResult, tol float64) bool { //nolint:gocritic // hugeParam: read-only scenario
	if res == nil || res.Status != model.StatusFitted {
		return false
	}
	switch sc.Method {
	case model.MethodTheis, model.MethodCooperJacobTime, model.MethodCooperJacobDistance:
		return within(res.Transmissivity, sc.Transmissivity, tol) && within(res.Storativity, sc.Storativity, tol)
	case model.MethodTheisRecovery:
		return within(res.Transmissivity, sc.Transmissivity, tol) && within(res.StorativityRatio, sc.StorativityRatio, tol)
	case model.MethodDupuitForchheimer:
		return within(res.RadiusOfInfluence, forward.NewDupuitForchheimer(sc.Params).RadiusOfInfluence(), tol)
	default:
		return false
	}
}

func within(got, want, tol float64) bool {
	if want == 0 {
		return math.Abs(got) <= tol
	}
	return math.Abs(got-want)/math.Abs(want) <= tol
}
