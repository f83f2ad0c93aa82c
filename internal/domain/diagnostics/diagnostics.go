// Package diagnostics computes goodness-of-fit measures between observed and
// predicted series.
package diagnostics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Residuals returns observed − predicted for each pair.
func Residuals(observed, predicted []float64) []float64 {
	out := make([]float64, len(observed))
	floats.SubTo(out, observed, predicted)
	return out
}

// RMS returns sqrt(Σ(obs − pred)²). The sum is not divided by the count.
func RMS(observed, predicted []float64) float64 {
	return floats.Distance(observed, predicted, 2)
}

// MeanSquared returns the mean of the squared residuals.
func MeanSquared(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}
	r := Residuals(observed, predicted)
	return floats.Dot(r, r) / float64(len(r))
}

// RelativeError returns (obs − pred)/obs, or zero when obs is zero.
func RelativeError(observed, predicted float64) float64 {
	if observed == 0 {
		return 0
	}
	return (observed - predicted) / observed
}

// RelativeErrors applies RelativeError pairwise.
func RelativeErrors(observed, predicted []float64) []float64 {
	out := make([]float64, len(observed))
	for i := range observed {
		out[i] = RelativeError(observed[i], predicted[i])
	}
	return out
}

// MeanSquaredRelative averages the squared relative errors of points with a
// non-zero observation.
func MeanSquaredRelative(observed, predicted []float64) float64 {
	var sum float64
	n := 0
	for i, o := range observed {
		if o == 0 {
			continue
		}
		e := RelativeError(o, predicted[i])
		sum += e * e
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// RSquared is the coefficient of determination of predicted against observed.
// It returns zero when fewer than two points are given or observed is flat.
func RSquared(observed, predicted []float64) float64 {
	if len(observed) < 2 {
		return 0
	}
	r2 := stat.RSquaredFrom(predicted, observed, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		return 0
	}
	return r2
}
