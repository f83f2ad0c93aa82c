package wellfn_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/drawdown/internal/domain/model"
	"github.com/okian/drawdown/internal/domain/wellfn"
	. "github.com/smartystreets/goconvey/convey"
)

func TestE1(t *testing.T) {
	Convey("Given the exponential integral", t, func() {
		Convey("When evaluated at tabulated points", func() {
			// Reference values from Abramowitz & Stegun table 5.1.
			cases := []struct {
				x, want float64
			}{
				{1e-4, 8.63322470},
				{0.01, 4.03792957},
				{0.1, 1.82292395},
				{0.5, 0.55977359},
				{1.0, 0.21938393},
				{2.0, 0.04890051},
				{5.0, 0.001148296},
				{10.0, 4.15697e-6},
			}

			Convey("Then it should match the table", func() {
				for _, c := range cases {
					got, err := wellfn.E1(c.x)
					So(err, ShouldBeNil)
					So(got, ShouldAlmostEqual, c.want, c.want*1e-6)
				}
			})
		})

		Convey("When the series and continued fraction meet at x = 1", func() {
			below, _ := wellfn.E1(math.Nextafter(1, 0))
			above, _ := wellfn.E1(math.Nextafter(1, 2))

			Convey("Then both branches should agree", func() {
				So(below, ShouldAlmostEqual, above, 1e-12)
			})
		})

		Convey("When u is zero", func() {
			got, err := wellfn.W(0)

			Convey("Then W should be +Inf without an error", func() {
				So(err, ShouldBeNil)
				So(math.IsInf(got, 1), ShouldBeTrue)
			})
		})

		Convey("When u is negative", func() {
			_, err := wellfn.W(-0.1)

			Convey("Then it should report a domain error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, model.ErrNonPositiveLogArgument), ShouldBeTrue)
			})
		})

		Convey("When u is very large", func() {
			got, err := wellfn.W(800)

			Convey("Then W should underflow to zero", func() {
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 0)
			})
		})

		Convey("When u decreases", func() {
			Convey("Then W should increase monotonically", func() {
				prev := 0.0
				for _, u := range []float64{10, 1, 0.1, 0.01, 1e-3, 1e-6} {
					w, err := wellfn.W(u)
					So(err, ShouldBeNil)
					So(w, ShouldBeGreaterThan, prev)
					prev = w
				}
			})
		})
	})
}
