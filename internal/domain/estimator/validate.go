package estimator

import (
	"math"

	"github.com/okian/drawdown/internal/domain/model"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func requirePositive(field string, v float64) error {
	if !finite(v) || v <= 0 {
		return model.InvalidParam(field, v, "must be a positive number")
	}
	return nil
}

// checkObservations validates the series before any fitting. xField names
// the independent variable. When logX is set every x must be strictly
// positive; the first offending index aborts the fit.
func checkObservations(obs []model.Observation, xField string, need int, logX bool) error {
	if len(obs) == 0 {
		return &model.Error{Kind: model.ErrInvalidInput, Field: "observations", Index: -1, Msg: "no observations"}
	}
	if len(obs) < need {
		return model.Insufficient(len(obs), need)
	}
	for i, o := range obs {
		if !finite(o.X) {
			return model.InvalidPoint(i, o.X, xField+" must be finite")
		}
		if !finite(o.Y) {
			return model.InvalidPoint(i, o.Y, "drawdown must be finite")
		}
		if logX && o.X <= 0 {
			return model.NonPositiveLog(xField, i, o.X)
		}
		if !logX && o.X < 0 {
			return model.InvalidPoint(i, o.X, xField+" must not be negative")
		}
	}
	return nil
}
