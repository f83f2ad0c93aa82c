// Package regression fits the semi-log straight lines used by the
// Cooper-Jacob and recovery methods.
package regression

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/drawdown/internal/domain/model"
)

// MinPoints is the fewest observations a line fit accepts.
const MinPoints = 2

// Line is y = Intercept + Slope·ln(x).
type Line struct {
	Slope     float64
	Intercept float64
	RSquared  float64
}

// FitSemiLog fits y against ln(x) by ordinary least squares. field names
// the x quantity in errors. Inputs are not modified.
func FitSemiLog(field string, xs, ys []float64) (Line, error) {
	if len(xs) != len(ys) {
		return Line{}, &model.Error{Kind: model.ErrInvalidInput, Field: field, Index: -1, Msg: "x and y sequences differ in length"}
	}
	if len(xs) < MinPoints {
		return Line{}, model.Insufficient(len(xs), MinPoints)
	}

	lx := make([]float64, len(xs))
	for i, x := range xs {
		if !(x > 0) || math.IsInf(x, 1) {
			return Line{}, model.NonPositiveLog(field, i, x)
		}
		lx[i] = math.Log(x)
	}

	distinct := false
	for _, v := range lx[1:] {
		if v != lx[0] {
			distinct = true
			break
		}
	}
	if !distinct {
		return Line{}, model.Singular("all " + field + " values are equal")
	}

	intercept, slope := stat.LinearRegression(lx, ys, nil, false)
	if slope == 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
		return Line{}, model.Singular("fitted slope is zero")
	}
	r2 := stat.RSquared(lx, ys, nil, intercept, slope)
	return Line{Slope: slope, Intercept: intercept, RSquared: r2}, nil
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Intercept + l.Slope*math.Log(x)
}

// DeltaPerLogCycle is the change of y over one decade of x, |line(100) − line(10)|.
func (l Line) DeltaPerLogCycle() float64 {
	return math.Abs(l.At(100) - l.At(10))
}

// Root is the x at which the line crosses zero, exp(−c/m).
func (l Line) Root() (float64, error) {
	if l.Slope == 0 {
		return 0, model.Singular("fitted slope is zero")
	}
	return math.Exp(-l.Intercept / l.Slope), nil
}

// Model converts the line to the result representation.
func (l Line) Model() *model.Line {
	return &model.Line{Slope: l.Slope, Intercept: l.Intercept, RSquared: l.RSquared}
}
