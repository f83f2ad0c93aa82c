package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/drawdown/internal/app"
	"github.com/okian/drawdown/internal/domain/forward"
	"github.com/okian/drawdown/internal/domain/model"
	"github.com/okian/drawdown/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func cooperJacobRequest(times []float64) model.Request {
	obs := make([]model.Observation, len(times))
	for i, tm := range times {
		obs[i] = model.Observation{X: tm, Y: forward.CooperJacob(1000, 30, 2e-4, 250, tm)}
	}
	return model.Request{
		Method:       model.MethodCooperJacobTime,
		Params:       model.TestParameters{Discharge: 1000, Radius: 30},
		Observations: obs,
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats(context.Background())
			So(stats.Started, ShouldBeFalse)
			So(stats.WorkerCount, ShouldBeGreaterThan, 0)
			So(stats.Threshold, ShouldEqual, 0.05)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
			service.WithDedupeSize(25_000),
			service.WithJobStoreSize(100),
			service.WithValidityThreshold(0.01),
		)

		Convey("Then the options should be applied", func() {
			stats := svc.GetStats(context.Background())
			So(stats.WorkerCount, ShouldEqual, 8)
			So(stats.QueueSize, ShouldEqual, 50_000)
			So(stats.DedupeSize, ShouldEqual, 25_000)
			So(stats.JobStoreSize, ShouldEqual, 100)
			So(stats.Threshold, ShouldEqual, 0.01)
		})
	})
}

func TestService_Analyze(t *testing.T) {
	Convey("Given a service that has not been started", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("When analyzing a Cooper-Jacob request", func() {
			res, err := svc.Analyze(ctx, cooperJacobRequest([]float64{0.001, 0.01, 0.1, 1}))

			Convey("Then it should fit synchronously", func() {
				So(err, ShouldBeNil)
				So(res.Status, ShouldEqual, model.StatusFitted)
				So(res.Transmissivity, ShouldAlmostEqual, 250, 1e-6)
				So(res.Excluded, ShouldEqual, 1)
				So(res.Points, ShouldHaveLength, 4)
			})
		})

		Convey("When the request asks to refit excluded points", func() {
			req := cooperJacobRequest([]float64{0.001, 0.01, 0.1, 1})
			req.RefitExcluded = true
			res, err := svc.Analyze(ctx, req)

			Convey("Then the fit should be repeated over the valid points only", func() {
				So(err, ShouldBeNil)
				So(res.Points, ShouldHaveLength, 3)
				So(res.Excluded, ShouldEqual, 0)
				So(res.Transmissivity, ShouldAlmostEqual, 250, 1e-6)
				So(res.Warnings, ShouldContain, "refit over 3 of 4 observations inside the validity range")
			})

			Convey("Then the caller's observations should be untouched", func() {
				So(req.Observations, ShouldHaveLength, 4)
			})
		})

		Convey("When a refit would leave fewer than two points", func() {
			req := cooperJacobRequest([]float64{0.0001, 0.001, 0.01})
			req.RefitExcluded = true
			res, err := svc.Analyze(ctx, req)

			Convey("Then the first fit should be returned with a warning", func() {
				So(err, ShouldBeNil)
				So(res.Points, ShouldHaveLength, 3)
				So(res.Excluded, ShouldEqual, 2)
				So(res.Warnings, ShouldContain, "refit skipped: only 1 observations inside the validity range")
			})
		})

		Convey("When analyzing invalid input", func() {
			req := cooperJacobRequest([]float64{0.01, 0.1})
			req.Observations[0].X = -1
			res, err := svc.Analyze(ctx, req)

			Convey("Then a FitFailed result and the error kind should be returned", func() {
				So(errors.Is(err, model.ErrNonPositiveLogArgument), ShouldBeTrue)
				So(res.Status, ShouldEqual, model.StatusFitFailed)
				So(res.Reason, ShouldNotBeEmpty)
			})
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When submitting before it is started", func() {
			_, _, err := svc.Submit(ctx, cooperJacobRequest([]float64{0.01, 0.1, 1}))

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When starting the service", func() {
			err := svc.Start(ctx)
			defer svc.Stop()

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				So(svc.GetStats(ctx).Started, ShouldBeTrue)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})

		Convey("When stopping a started service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats(ctx).Started, ShouldBeFalse)
			})
		})
	})
}
