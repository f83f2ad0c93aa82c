package synth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/drawdown/internal/adapters/http/api"
	service "github.com/okian/drawdown/internal/app"
	"github.com/okian/drawdown/internal/domain/model"
	"github.com/okian/drawdown/internal/synth"
	"github.com/okian/drawdown/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func startServer(ctx context.Context) (*httptest.Server, *service.Service) {
	svc := service.New(service.WithWorkerCount(2))
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	return httptest.NewServer(mux), svc
}

func TestRun(t *testing.T) {
	Convey("Given a running drawdown server", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		srv, svc := startServer(ctx)
		defer srv.Close()
		defer svc.Stop()

		Convey("When a batch of noisy Cooper-Jacob jobs is run", func() {
			sc := synth.DefaultScenario(model.MethodCooperJacobTime)
			sc.Noise, sc.Seed = 0.001, 7
			stats, err := synth.Run(ctx, &synth.Config{
				BaseURL:   srv.URL,
				Count:     10,
				Workers:   3,
				Tolerance: 0.05,
				Scenario:  sc,
			})

			Convey("Then every job should be fitted close to the truth", func() {
				So(err, ShouldBeNil)
				So(stats.Generated, ShouldEqual, 10)
				So(stats.Submitted, ShouldEqual, 10)
				So(stats.Accepted, ShouldEqual, 10)
				So(stats.Fitted, ShouldEqual, 10)
				So(stats.WithinTolerance, ShouldEqual, 10)
				So(stats.Failed, ShouldEqual, 0)
			})
		})

		Convey("When a single job is submitted through the client", func() {
			client := synth.NewClient(srv.URL, 5*time.Second)
			req, err := synth.Generate(synth.DefaultScenario(model.MethodTheisRecovery))
			So(err, ShouldBeNil)

			ack, status, err := client.Submit(ctx, req)
			So(err, ShouldBeNil)
			So(status, ShouldEqual, http.StatusAccepted)

			job, err := client.Await(ctx, ack.JobID, 10*time.Millisecond)

			Convey("Then the decoded job should carry the fitted result", func() {
				So(err, ShouldBeNil)
				So(job.Status, ShouldEqual, model.StatusFitted)
				So(job.Method, ShouldEqual, model.MethodTheisRecovery)
				So(job.Result.Transmissivity, ShouldAlmostEqual, 150, 1e-6)
				So(job.Result.BoundaryHint, ShouldEqual, model.BoundaryNone)
			})

			Convey("And resubmitting the same request ID should be a duplicate", func() {
				again, status, err := client.Submit(ctx, req)
				So(err, ShouldBeNil)
				So(status, ShouldEqual, http.StatusOK)
				So(again.Duplicate, ShouldBeTrue)
				So(again.JobID, ShouldEqual, ack.JobID)
			})
		})
	})

	Convey("Given no server", t, func() {
		Convey("Then the run should fail the health check", func() {
			_, err := synth.Run(context.Background(), &synth.Config{
				BaseURL:  "http://127.0.0.1:1",
				Timeout:  time.Second,
				Scenario: synth.DefaultScenario(model.MethodTheis),
			})
			So(err, ShouldNotBeNil)
		})
	})
}
