package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/drawdown/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseMethod(t *testing.T) {
	Convey("Given method names", t, func() {
		cases := map[string]model.Method{
			"theis":                  model.MethodTheis,
			"Cooper-Jacob":           model.MethodCooperJacobTime,
			"cooper_jacob_time":      model.MethodCooperJacobTime,
			" cooper-jacob-distance": model.MethodCooperJacobDistance,
			"THIEM":                  model.MethodDupuitForchheimer,
			"recovery":               model.MethodTheisRecovery,
		}

		Convey("Then canonical names and aliases should resolve", func() {
			for name, want := range cases {
				got, err := model.ParseMethod(name)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("Then an unknown name should be an ErrUnknownMethod", func() {
			got, err := model.ParseMethod("slug")
			So(got, ShouldEqual, model.MethodUnknown)
			So(errors.Is(err, model.ErrUnknownMethod), ShouldBeTrue)
		})

		Convey("Then every listed method should round-trip through its name", func() {
			for _, m := range model.Methods() {
				got, err := model.ParseMethod(m.String())
				So(err, ShouldBeNil)
				So(got, ShouldEqual, m)
			}
		})
	})
}

func TestMethodFlags(t *testing.T) {
	Convey("Given the supported methods", t, func() {
		Convey("Then only distance and Dupuit data should be in space", func() {
			So(model.MethodTheis.UsesTime(), ShouldBeTrue)
			So(model.MethodTheisRecovery.UsesTime(), ShouldBeTrue)
			So(model.MethodCooperJacobDistance.UsesTime(), ShouldBeFalse)
			So(model.MethodDupuitForchheimer.UsesTime(), ShouldBeFalse)
		})

		Convey("Then only Cooper-Jacob should carry the validity filter", func() {
			So(model.MethodCooperJacobTime.HasValidityFilter(), ShouldBeTrue)
			So(model.MethodCooperJacobDistance.HasValidityFilter(), ShouldBeTrue)
			So(model.MethodTheis.HasValidityFilter(), ShouldBeFalse)
		})
	})
}

func TestTimeUnit(t *testing.T) {
	Convey("Given time units", t, func() {
		Convey("Then minutes should convert to days and back", func() {
			So(model.Minutes.ToDays(1440), ShouldEqual, 1)
			So(model.Minutes.FromDays(0.5), ShouldEqual, 720)
			So(model.Days.ToDays(3), ShouldEqual, 3)
		})

		Convey("Then JSON should accept the common spellings", func() {
			var p model.TestParameters
			So(json.Unmarshal([]byte(`{"discharge":1,"time_unit":"min"}`), &p), ShouldBeNil)
			So(p.TimeUnit, ShouldEqual, model.Minutes)
			So(json.Unmarshal([]byte(`{"discharge":1,"time_unit":"d"}`), &p), ShouldBeNil)
			So(p.TimeUnit, ShouldEqual, model.Days)
		})

		Convey("Then an unknown unit should be rejected", func() {
			var p model.TestParameters
			err := json.Unmarshal([]byte(`{"time_unit":"hours"}`), &p)
			So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestStatus(t *testing.T) {
	Convey("Given analysis statuses", t, func() {
		Convey("Then only Fitted and FitFailed should be terminal", func() {
			So(model.StatusAwaitingData.Terminal(), ShouldBeFalse)
			So(model.StatusFitting.Terminal(), ShouldBeFalse)
			So(model.StatusFitted.Terminal(), ShouldBeTrue)
			So(model.StatusFitFailed.Terminal(), ShouldBeTrue)
		})

		Convey("Then a status should decode from its name", func() {
			var s model.Status
			So(s.UnmarshalText([]byte("fit_failed")), ShouldBeNil)
			So(s, ShouldEqual, model.StatusFitFailed)
			So(s.UnmarshalText([]byte("done")), ShouldNotBeNil)
		})
	})
}

func TestError(t *testing.T) {
	Convey("Given a per-point error", t, func() {
		err := model.NonPositiveLog("x", 3, -2)

		Convey("Then the message should name the field and index", func() {
			So(err.Error(), ShouldEqual, "non-positive log argument: x[3]: must be > 0 (got -2)")
		})

		Convey("Then it should be found through a wrapped chain", func() {
			wrapped := errors.Join(errors.New("fit"), err)
			So(errors.Is(wrapped, model.ErrNonPositiveLogArgument), ShouldBeTrue)
			e, ok := model.AsError(wrapped)
			So(ok, ShouldBeTrue)
			So(e.Index, ShouldEqual, 3)
			So(e.Value, ShouldEqual, -2)
		})
	})

	Convey("Given a scalar error", t, func() {
		err := model.Insufficient(1, 2)

		Convey("Then the index should be omitted", func() {
			So(err.Error(), ShouldEqual, "insufficient data: observations: need at least 2 points, got 1")
		})
	})

	Convey("Given a plain error", t, func() {
		_, ok := model.AsError(errors.New("boom"))

		Convey("Then AsError should report false", func() {
			So(ok, ShouldBeFalse)
		})
	})
}

func TestSplitZip(t *testing.T) {
	Convey("Given observations", t, func() {
		obs := []model.Observation{{X: 1, Y: 0.5}, {X: 2, Y: 0.7}}

		Convey("When split", func() {
			xs, ys := model.Split(obs)

			Convey("Then the slices should be copies", func() {
				So(xs, ShouldResemble, []float64{1, 2})
				So(ys, ShouldResemble, []float64{0.5, 0.7})
				xs[0] = 99
				So(obs[0].X, ShouldEqual, 1)
			})
		})

		Convey("When zipped back", func() {
			got, err := model.Zip([]float64{1, 2}, []float64{0.5, 0.7})

			Convey("Then the observations should match", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, obs)
			})
		})

		Convey("When the lengths differ", func() {
			_, err := model.Zip([]float64{1, 2}, []float64{0.5})

			Convey("Then ErrInvalidInput should be returned", func() {
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})
}
