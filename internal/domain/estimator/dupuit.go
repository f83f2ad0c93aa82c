package estimator

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/okian/drawdown/internal/domain/forward"
	"github.com/okian/drawdown/internal/domain/model"
)

// Curve window defaults for the steady-state profile.
const (
	DefaultCurveStart  = 0.01
	DefaultCurveReach  = 1.2
	DefaultCurvePoints = 20
	MinCurvePoints     = 3
	MaxCurvePoints     = 50
)

// DupuitForchheimer evaluates the steady recharge-balanced head profile. It
// fits nothing: it reports head and drawdown at the target radius and
// samples the curve over [start, end) with step (end-start)/n. When
// observations (radius, drawdown) are given they are scored against the
// profile.
func (e *Estimator) DupuitForchheimer(p model.TestParameters, obs []model.Observation) (*model.FitResult, error) {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"discharge", p.Discharge},
		{"recharge", p.Recharge},
		{"conductivity", p.Conductivity},
		{"initial_head", p.InitialHead},
	} {
		if err := requirePositive(f.name, f.v); err != nil {
			return nil, err
		}
	}
	if !finite(p.TargetRadius) || p.TargetRadius < 0 {
		return nil, model.InvalidParam("target_radius", p.TargetRadius, "must not be negative")
	}

	d := forward.NewDupuitForchheimer(p)
	r0 := d.RadiusOfInfluence()
	start, end, n, err := curveWindow(p, r0)
	if err != nil {
		return nil, err
	}

	res := &model.FitResult{
		Method:            model.MethodDupuitForchheimer,
		Status:            model.StatusFitted,
		RadiusOfInfluence: r0,
		TargetRadius:      p.TargetRadius,
	}
	head, dry := d.Head(p.TargetRadius)
	res.HeadAtTarget = head
	res.DrawdownAtTarget = p.InitialHead - head
	if dry {
		res.Warn(fmt.Sprintf("well is dewatered at target radius %g; head clamped to zero", p.TargetRadius))
	}

	if len(obs) > 0 {
		if err := checkObservations(obs, "radius", 1, false); err != nil {
			return nil, err
		}
		rs, ys := model.Split(obs)
		preds, _, err := forward.New(model.MethodDupuitForchheimer, p).Sample(rs, forward.Params{})
		if err != nil {
			return nil, err
		}
		score(res, rs, ys, preds, nil)
	}

	if n != p.CurvePoints && p.CurvePoints != 0 {
		res.Warn(fmt.Sprintf("curve points clamped to %d", n))
	}
	step := (end - start) / float64(n)
	rs := floats.Span(make([]float64, n), start, end-step)
	res.Curve = make([]model.CurvePoint, n)
	dewatered := 0
	for i, r := range rs {
		h, dry := d.Head(r)
		if dry {
			dewatered++
		}
		res.Curve[i] = model.CurvePoint{X: r, Drawdown: p.InitialHead - h, Head: h}
	}
	if dewatered > 0 {
		res.Warn(fmt.Sprintf("%d curve samples fall in a dewatered zone; head clamped to zero", dewatered))
	}
	return res, nil
}

func curveWindow(p model.TestParameters, r0 float64) (start, end float64, n int, err error) {
	start, end, n = DefaultCurveStart, p.CurveEnd, p.CurvePoints
	if p.CurveStart != nil {
		start = *p.CurveStart
	}
	if end == 0 {
		end = DefaultCurveReach * r0
	}
	switch {
	case n == 0:
		n = DefaultCurvePoints
	case n < MinCurvePoints:
		n = MinCurvePoints
	case n > MaxCurvePoints:
		n = MaxCurvePoints
	}
	if !finite(start) || start < 0 {
		return 0, 0, 0, model.InvalidParam("curve_start", start, "must not be negative")
	}
	if !finite(end) || end <= start {
		return 0, 0, 0, model.InvalidParam("curve_end", end, "must exceed curve_start")
	}
	return start, end, n, nil
}
