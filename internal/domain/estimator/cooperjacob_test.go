package estimator

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/drawdown/internal/domain/forward"
	"github.com/okian/drawdown/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCooperJacobTime(t *testing.T) {
	Convey("Given drawdown from the exact Cooper-Jacob formula", t, func() {
		params := model.TestParameters{Discharge: 1000, Radius: 30}
		times := []float64{0.001, 0.01, 0.1, 1}
		obs := make([]model.Observation, len(times))
		for i, tm := range times {
			obs[i] = model.Observation{X: tm, Y: forward.CooperJacob(1000, 30, 2e-4, 250, tm)}
		}

		res, err := New().CooperJacobTime(params, obs)

		Convey("Then S and T should be recovered exactly", func() {
			So(err, ShouldBeNil)
			So(res.Status, ShouldEqual, model.StatusFitted)
			So(res.Transmissivity, ShouldAlmostEqual, 250, 1e-8)
			So(res.Storativity, ShouldAlmostEqual, 2e-4, 1e-12)
			So(res.MeanSquaredRelativeError, ShouldAlmostEqual, 0, 1e-18)
			So(res.Line.RSquared, ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("Then the early point should be flagged but kept", func() {
			So(res.Points[0].U, ShouldAlmostEqual, 0.18, 1e-9)
			So(res.Points[0].Included, ShouldBeFalse)
			So(res.Points[1].Included, ShouldBeTrue)
			So(res.Excluded, ShouldEqual, 1)
			So(res.Points, ShouldHaveLength, 4)
			So(res.Warnings, ShouldHaveLength, 1)
		})

		Convey("Then the validity time should be r²S/(4T·0.05)", func() {
			So(res.TimeAtValidity, ShouldAlmostEqual, 0.0036, 1e-12)
		})
	})

	Convey("Given two points at 10 and 100 minutes on a known line", t, func() {
		m, c := 0.5, 1.0
		params := model.TestParameters{Discharge: 1000, Radius: 30, TimeUnit: model.Minutes}
		obs := []model.Observation{
			{X: 10, Y: c + m*math.Log(10)},
			{X: 100, Y: c + m*math.Log(100)},
		}

		res, err := New().CooperJacobTime(params, obs)

		Convey("Then T and S should match the closed-form expressions", func() {
			So(err, ShouldBeNil)
			wantT := forward.LogCycleFactor * 1000 / (4 * math.Pi * m * math.Ln10)
			t0Days := math.Exp(-c/m) / model.MinutesPerDay
			wantS := forward.CooperJacobCoefficient * wantT * t0Days / (30 * 30)
			So(res.Transmissivity, ShouldAlmostEqual, wantT, 1e-9)
			So(res.Storativity, ShouldAlmostEqual, wantS, 1e-15)
			So(res.Root, ShouldAlmostEqual, math.Exp(-c/m), 1e-9)
			So(res.DeltaPerLogCycle, ShouldAlmostEqual, m*math.Ln10, 1e-12)
		})

		Convey("Then a few-points warning should be attached", func() {
			So(res.Warnings, ShouldNotBeEmpty)
		})
	})

	Convey("Given the u boundary case S=0.001, T=50, r=100", t, func() {
		params := model.TestParameters{Discharge: 200, Radius: 100}
		times := []float64{0.999, 1, 10, 100}
		obs := make([]model.Observation, len(times))
		for i, tm := range times {
			obs[i] = model.Observation{X: tm, Y: forward.CooperJacob(200, 100, 0.001, 50, tm)}
		}

		res, err := New().CooperJacobTime(params, obs)

		Convey("Then the point at u=0.05 should be included and the earlier one excluded", func() {
			So(err, ShouldBeNil)
			So(res.Points[0].Included, ShouldBeFalse)
			So(res.Points[1].U, ShouldAlmostEqual, 0.05, 1e-9)
			So(res.Points[2].Included, ShouldBeTrue)
			So(res.Points[3].Included, ShouldBeTrue)
		})
	})

	Convey("Given a custom validity threshold", t, func() {
		params := model.TestParameters{Discharge: 1000, Radius: 30}
		obs := []model.Observation{
			{X: 0.001, Y: forward.CooperJacob(1000, 30, 2e-4, 250, 0.001)},
			{X: 0.01, Y: forward.CooperJacob(1000, 30, 2e-4, 250, 0.01)},
			{X: 0.1, Y: forward.CooperJacob(1000, 30, 2e-4, 250, 0.1)},
		}
		res, err := New(WithThreshold(0.2)).CooperJacobTime(params, obs)

		Convey("Then nothing should be excluded", func() {
			So(err, ShouldBeNil)
			So(res.Excluded, ShouldEqual, 0)
		})
	})

	Convey("Given a single observation", t, func() {
		_, err := New().CooperJacobTime(model.TestParameters{Discharge: 1, Radius: 1}, []model.Observation{{X: 1, Y: 1}})
		Convey("Then it should report insufficient data", func() {
			So(errors.Is(err, model.ErrInsufficientData), ShouldBeTrue)
		})
	})

	Convey("Given repeated times", t, func() {
		obs := []model.Observation{{X: 5, Y: 1}, {X: 5, Y: 2}}
		_, err := New().CooperJacobTime(model.TestParameters{Discharge: 1, Radius: 1}, obs)
		Convey("Then the regression should be singular", func() {
			So(errors.Is(err, model.ErrSingularRegression), ShouldBeTrue)
		})
	})
}

func TestCooperJacobDistance(t *testing.T) {
	Convey("Given distance-drawdown from the exact formula at t=0.5 day", t, func() {
		params := model.TestParameters{Discharge: 800, ElapsedTime: 0.5}
		radii := []float64{5, 10, 20, 40}
		obs := make([]model.Observation, len(radii))
		for i, r := range radii {
			obs[i] = model.Observation{X: r, Y: forward.CooperJacobDistance(800, r, 1e-3, 150, 0.5)}
		}

		res, err := New().CooperJacobDistance(params, obs)

		Convey("Then S and T should be recovered exactly", func() {
			So(err, ShouldBeNil)
			So(res.Transmissivity, ShouldAlmostEqual, 150, 1e-8)
			So(res.Storativity, ShouldAlmostEqual, 1e-3, 1e-12)
			So(res.Root, ShouldAlmostEqual, math.Sqrt(2.25*150*0.5/1e-3), 1e-6)
			So(res.Excluded, ShouldEqual, 0)
		})

		Convey("Then u should use each point's distance", func() {
			So(res.Points[3].U, ShouldAlmostEqual, forward.U(40, 1e-3, 150, 0.5), 1e-9)
		})
	})

	Convey("Given elapsed time in minutes", t, func() {
		params := model.TestParameters{Discharge: 800, ElapsedTime: 720, TimeUnit: model.Minutes}
		radii := []float64{5, 10, 20, 40}
		obs := make([]model.Observation, len(radii))
		for i, r := range radii {
			obs[i] = model.Observation{X: r, Y: forward.CooperJacobDistance(800, r, 1e-3, 150, 0.5)}
		}

		res, err := New().CooperJacobDistance(params, obs)

		Convey("Then it should convert to days before deriving S", func() {
			So(err, ShouldBeNil)
			So(res.Storativity, ShouldAlmostEqual, 1e-3, 1e-12)
		})
	})

	Convey("Given a missing elapsed time", t, func() {
		_, err := New().CooperJacobDistance(model.TestParameters{Discharge: 800}, []model.Observation{{X: 1, Y: 1}, {X: 2, Y: 0.5}})
		Convey("Then it should be invalid input", func() {
			So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
		})
	})
}
