package regression

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/drawdown/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFitSemiLog(t *testing.T) {
	Convey("Given points on y = 2 + 3·ln(x)", t, func() {
		xs := []float64{1, 10, 100, 1000}
		ys := make([]float64, len(xs))
		for i, x := range xs {
			ys[i] = 2 + 3*math.Log(x)
		}
		orig := append([]float64(nil), xs...)

		line, err := FitSemiLog("time", xs, ys)

		Convey("Then the line should be recovered exactly", func() {
			So(err, ShouldBeNil)
			So(line.Slope, ShouldAlmostEqual, 3, 1e-9)
			So(line.Intercept, ShouldAlmostEqual, 2, 1e-9)
			So(line.RSquared, ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("Then the inputs should be untouched", func() {
			So(xs, ShouldResemble, orig)
		})

		Convey("Then one log cycle should span 3·ln(10)", func() {
			So(line.DeltaPerLogCycle(), ShouldAlmostEqual, 3*math.Ln10, 1e-9)
		})

		Convey("Then the root should be exp(-2/3)", func() {
			root, err := line.Root()
			So(err, ShouldBeNil)
			So(root, ShouldAlmostEqual, math.Exp(-2.0/3.0), 1e-9)
			So(line.At(root), ShouldAlmostEqual, 0, 1e-9)
		})
	})

	Convey("Given a non-positive x", t, func() {
		_, err := FitSemiLog("time", []float64{1, 0, 2}, []float64{1, 2, 3})
		Convey("Then it should reject the first offending index", func() {
			So(errors.Is(err, model.ErrNonPositiveLogArgument), ShouldBeTrue)
			e, ok := model.AsError(err)
			So(ok, ShouldBeTrue)
			So(e.Index, ShouldEqual, 1)
		})
	})

	Convey("Given a single point", t, func() {
		_, err := FitSemiLog("time", []float64{1}, []float64{1})
		Convey("Then it should report insufficient data", func() {
			So(errors.Is(err, model.ErrInsufficientData), ShouldBeTrue)
		})
	})

	Convey("Given identical x values", t, func() {
		_, err := FitSemiLog("time", []float64{5, 5, 5}, []float64{1, 2, 3})
		Convey("Then the regression should be singular", func() {
			So(errors.Is(err, model.ErrSingularRegression), ShouldBeTrue)
		})
	})

	Convey("Given flat y values", t, func() {
		_, err := FitSemiLog("time", []float64{1, 2, 3}, []float64{4, 4, 4})
		Convey("Then the zero slope should be singular", func() {
			So(errors.Is(err, model.ErrSingularRegression), ShouldBeTrue)
		})
	})
}
