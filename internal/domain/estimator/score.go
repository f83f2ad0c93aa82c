package estimator

import (
	"fmt"

	"github.com/okian/drawdown/internal/domain/diagnostics"
	"github.com/okian/drawdown/internal/domain/model"
)

// score fills the per-point diagnostics, the aggregate errors and the
// predicted curve. xs are in the caller's units; us may be nil.
func score(res *model.FitResult, xs, observed, predicted, us []float64) {
	rel := diagnostics.RelativeErrors(observed, predicted)
	res.Points = make([]model.PointDiagnostic, len(xs))
	res.Curve = make([]model.CurvePoint, len(xs))
	for i := range xs {
		p := model.PointDiagnostic{
			Index:         i,
			X:             xs[i],
			Observed:      observed[i],
			Predicted:     predicted[i],
			Residual:      observed[i] - predicted[i],
			RelativeError: rel[i],
			Included:      true,
		}
		if us != nil {
			p.U = us[i]
		}
		res.Points[i] = p
		res.Curve[i] = model.CurvePoint{X: xs[i], Drawdown: predicted[i]}
	}
	res.RMS = diagnostics.RMS(observed, predicted)
	res.MeanSquaredError = diagnostics.MeanSquared(observed, predicted)
	res.MeanSquaredRelativeError = diagnostics.MeanSquaredRelative(observed, predicted)
	res.RSquared = diagnostics.RSquared(observed, predicted)
}

func warnFewPoints(res *model.FitResult, n int) {
	if n < RecommendedPoints {
		res.Warn(fmt.Sprintf("only %d observations; at least %d are recommended", n, RecommendedPoints))
	}
}
