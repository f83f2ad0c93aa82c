package diagnostics

import (
	"math"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestDiagnostics(t *testing.T) {
	convey.Convey("Given observed and predicted series", t, func() {
		obs := []float64{1, 2, 0, 4}
		pred := []float64{1.5, 2, 0.5, 3}

		convey.Convey("Then residuals should be obs minus pred", func() {
			convey.So(Residuals(obs, pred), convey.ShouldResemble, []float64{-0.5, 0, -0.5, 1})
		})

		convey.Convey("Then RMS should be the root of the unscaled sum", func() {
			convey.So(RMS(obs, pred), convey.ShouldAlmostEqual, math.Sqrt(1.5), 1e-12)
		})

		convey.Convey("Then MSE should divide by the count", func() {
			convey.So(MeanSquared(obs, pred), convey.ShouldAlmostEqual, 1.5/4, 1e-12)
		})

		convey.Convey("Then a zero observation should have zero relative error", func() {
			rel := RelativeErrors(obs, pred)
			convey.So(rel[2], convey.ShouldEqual, 0)
			convey.So(rel[0], convey.ShouldAlmostEqual, -0.5, 1e-12)
		})

		convey.Convey("Then the mean squared relative error should skip zero observations", func() {
			want := (0.25 + 0 + 0.0625) / 3
			convey.So(MeanSquaredRelative(obs, pred), convey.ShouldAlmostEqual, want, 1e-12)
		})
	})

	convey.Convey("Given a perfect prediction", t, func() {
		obs := []float64{1, 2, 3}
		convey.Convey("Then every error should vanish and R² should be one", func() {
			convey.So(RMS(obs, obs), convey.ShouldEqual, 0)
			convey.So(MeanSquaredRelative(obs, obs), convey.ShouldEqual, 0)
			convey.So(RSquared(obs, obs), convey.ShouldAlmostEqual, 1, 1e-12)
		})
	})

	convey.Convey("Given empty series", t, func() {
		convey.Convey("Then aggregates should be zero", func() {
			convey.So(MeanSquared(nil, nil), convey.ShouldEqual, 0)
			convey.So(MeanSquaredRelative(nil, nil), convey.ShouldEqual, 0)
			convey.So(RSquared(nil, nil), convey.ShouldEqual, 0)
		})
	})
}
