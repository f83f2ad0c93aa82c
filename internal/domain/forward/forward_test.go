package forward

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/drawdown/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestU(t *testing.T) {
	Convey("Given r=100, S=0.001, T=50, t=1", t, func() {
		Convey("Then u should be 0.05", func() {
			So(U(100, 0.001, 50, 1), ShouldAlmostEqual, 0.05, 1e-12)
		})
	})
}

func TestTheis(t *testing.T) {
	Convey("Given Q=500, r=50, S=1e-4, T=100", t, func() {
		Convey("When evaluating at increasing times", func() {
			var got []float64
			for _, tm := range []float64{0.01, 0.1, 1, 10, 100} {
				s, err := Theis(500, 50, 1e-4, 100, tm)
				So(err, ShouldBeNil)
				got = append(got, s)
			}
			Convey("Then drawdown should grow monotonically", func() {
				for i := 1; i < len(got); i++ {
					So(got[i], ShouldBeGreaterThan, got[i-1])
				}
			})
		})

		Convey("When u is small", func() {
			theis, err := Theis(500, 50, 1e-4, 100, 1000)
			So(err, ShouldBeNil)
			cj := CooperJacob(500, 50, 1e-4, 100, 1000)
			Convey("Then Cooper-Jacob should agree closely", func() {
				So(math.Abs(theis-cj)/theis, ShouldBeLessThan, 1e-3)
			})
		})

		Convey("When time is not positive", func() {
			_, err := Theis(500, 50, 1e-4, 100, -1)
			Convey("Then it should report a domain error", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestRecovery(t *testing.T) {
	Convey("Given tp=1 day and t'=0.1 day", t, func() {
		ratio := RecoveryRatio(1, 0.1)
		Convey("Then t/t' should be 11", func() {
			So(ratio, ShouldAlmostEqual, 11, 1e-12)
		})
		Convey("Then residual drawdown at S/S'=ratio should be zero", func() {
			So(Recovery(500, 100, ratio, ratio), ShouldAlmostEqual, 0, 1e-12)
		})
	})
}

func TestDupuitForchheimer(t *testing.T) {
	Convey("Given a recharge-balanced unconfined well", t, func() {
		d := DupuitForchheimer{Discharge: 1000, Recharge: 0.001, Conductivity: 10, InitialHead: 30}
		r0 := d.RadiusOfInfluence()

		Convey("Then r0 should be sqrt((Q/R)/π)", func() {
			So(r0, ShouldAlmostEqual, math.Sqrt(1e6/math.Pi), 1e-9)
		})

		Convey("Then head at r0 and beyond should be h0", func() {
			h, dry := d.Head(r0)
			So(h, ShouldEqual, 30)
			So(dry, ShouldBeFalse)
			h, _ = d.Head(2 * r0)
			So(h, ShouldEqual, 30)
		})

		Convey("Then head at r=0 should be h0", func() {
			h, _ := d.Head(0)
			So(h, ShouldEqual, 30)
		})

		Convey("Then head should increase with r inside r0", func() {
			prev := 0.0
			for _, r := range []float64{0.1, 1, 10, 100, 500} {
				h, dry := d.Head(r)
				So(dry, ShouldBeFalse)
				So(h, ShouldBeGreaterThan, prev)
				So(h, ShouldBeLessThanOrEqualTo, 30)
				prev = h
			}
		})

		Convey("When the radicand goes negative", func() {
			dry := DupuitForchheimer{Discharge: 1000, Recharge: 0.001, Conductivity: 0.01, InitialHead: 1}
			h, dewatered := dry.Head(1)
			Convey("Then head should clamp to zero and flag the well", func() {
				So(h, ShouldEqual, 0)
				So(dewatered, ShouldBeTrue)
				So(dry.Drawdown(1), ShouldEqual, 1)
			})
		})
	})
}

func TestModelPredict(t *testing.T) {
	Convey("Given a Cooper-Jacob distance model", t, func() {
		m := New(model.MethodCooperJacobDistance, model.TestParameters{Discharge: 500, ElapsedTime: 1})
		p := Params{Storativity: 1e-4, Transmissivity: 100}
		s, err := m.Predict(10, p)
		So(err, ShouldBeNil)
		Convey("Then it should evaluate the closed form at r", func() {
			So(s, ShouldAlmostEqual, CooperJacob(500, 10, 1e-4, 100, 1), 1e-12)
		})
		u, ok := m.U(10, p)
		Convey("Then u should use the point's radius", func() {
			So(ok, ShouldBeTrue)
			So(u, ShouldAlmostEqual, U(10, 1e-4, 100, 1), 1e-15)
		})
	})

	Convey("Given a recovery model", t, func() {
		m := New(model.MethodTheisRecovery, model.TestParameters{Discharge: 500})
		_, ok := m.U(5, Params{Transmissivity: 100, StorativityRatio: 1})
		Convey("Then it should have no u", func() {
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given an unknown method", t, func() {
		_, err := New(model.MethodUnknown, model.TestParameters{}).Predict(1, Params{})
		Convey("Then it should fail with ErrUnknownMethod", func() {
			So(errors.Is(err, model.ErrUnknownMethod), ShouldBeTrue)
		})
	})
}

func TestModelSample(t *testing.T) {
	Convey("Given a Theis model", t, func() {
		m := New(model.MethodTheis, model.TestParameters{Discharge: 500, Radius: 50})
		p := Params{Storativity: 1e-4, Transmissivity: 100}
		xs := []float64{1, 10, 100}
		preds, us, err := m.Sample(xs, p)

		Convey("Then every x should match the closed form with its u", func() {
			So(err, ShouldBeNil)
			So(preds, ShouldHaveLength, 3)
			So(us, ShouldHaveLength, 3)
			for i, x := range xs {
				want, _ := Theis(500, 50, 1e-4, 100, x)
				So(preds[i], ShouldEqual, want)
				So(us[i], ShouldEqual, U(50, 1e-4, 100, x))
			}
		})
	})

	Convey("Given a Dupuit-Forchheimer model", t, func() {
		test := model.TestParameters{Discharge: 500, Recharge: 0.001, Conductivity: 20, InitialHead: 30}
		preds, us, err := New(model.MethodDupuitForchheimer, test).Sample([]float64{10, 100}, Params{})

		Convey("Then it should predict without u", func() {
			So(err, ShouldBeNil)
			So(us, ShouldBeNil)
			So(preds[0], ShouldEqual, NewDupuitForchheimer(test).Drawdown(10))
		})
	})

	Convey("Given an unknown method", t, func() {
		_, _, err := New(model.MethodUnknown, model.TestParameters{}).Sample([]float64{1}, Params{})

		Convey("Then sampling should fail", func() {
			So(errors.Is(err, model.ErrUnknownMethod), ShouldBeTrue)
		})
	})
}

func TestInDays(t *testing.T) {
	Convey("Given test times in minutes", t, func() {
		in := model.TestParameters{Discharge: 1, ElapsedTime: 1440, PumpingDuration: 720, TimeUnit: model.Minutes}
		out := InDays(in)

		Convey("Then the durations should be converted and the unit reset", func() {
			So(out.ElapsedTime, ShouldEqual, 1)
			So(out.PumpingDuration, ShouldEqual, 0.5)
			So(out.TimeUnit, ShouldEqual, model.Days)
			So(in.ElapsedTime, ShouldEqual, 1440)
		})
	})
}
