package synth

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"

	"github.com/okian/drawdown/internal/domain/model"
	"github.com/okian/drawdown/pkg/logger"
)

// Runner defaults.
const (
	defaultWorkers      = 4
	defaultPollInterval = 20 * time.Millisecond
	defaultTolerance    = 0.05
	percentMultiplier   = 100
)

// Run generates cfg.Count scenarios, submits them as jobs, waits for every
// accepted job and checks that the fitted parameters match the truth.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	applyDefaults(cfg)
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("synth")

	log.Info(ctx, "starting synthetic run",
		logger.String("base_url", cfg.BaseURL),
		logger.String("method", cfg.Scenario.Method.String()),
		logger.Int("count", cfg.Count),
		logger.Int("workers", cfg.Workers),
		logger.Float64("noise", cfg.Scenario.Noise),
	)

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return stats, eris.Wrap(err, "service health check failed")
	}

	requests := make([]model.Request, cfg.Count)
	for i := range requests {
		sc := cfg.Scenario
		sc.Seed += uint64(i) //nolint:gosec // i is non-negative
		req, err := Generate(sc)
		if err != nil {
			return stats, eris.Wrapf(err, "generate request %d", i)
		}
		requests[i] = req
	}
	stats.Generated = len(requests)

	var (
		submitted, accepted, duplicate, rejected, failed atomic.Int64
		fitted, fitFailed, inTolerance                   atomic.Int64
	)
	work := make(chan model.Request, cfg.Workers*2)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range work {
				submitted.Add(1)
				ack, status, err := client.Submit(ctx, req)
				switch {
				case err != nil:
					failed.Add(1)
					log.Warn(ctx, "submit failed", logger.Error(err))
					continue
				case status == http.StatusTooManyRequests:
					rejected.Add(1)
					continue
				case status == http.StatusOK:
					duplicate.Add(1)
				case status == http.StatusAccepted:
					accepted.Add(1)
				default:
					failed.Add(1)
					continue
				}

				job, err := client.Await(ctx, ack.JobID, cfg.PollInterval)
				if err != nil {
					failed.Add(1)
					log.Warn(ctx, "job not observed", logger.String("job_id", ack.JobID), logger.Error(err))
					continue
				}
				if job.Status == model.StatusFitFailed {
					fitFailed.Add(1)
					log.Warn(ctx, "job failed", logger.String("job_id", job.ID), logger.String("reason", job.Reason))
					continue
				}
				fitted.Add(1)
				ok := Recovered(cfg.Scenario, job.Result, cfg.Tolerance)
				if ok {
					inTolerance.Add(1)
				}
				if cfg.Verbose {
					log.Info(ctx, "job fitted",
						logger.String("job_id", job.ID),
						logger.Float64("transmissivity", job.Result.Transmissivity),
						logger.Float64("storativity", job.Result.Storativity),
						logger.Bool("within_tolerance", ok),
					)
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, req := range requests {
			select {
			case <-ctx.Done():
				return
			case work <- req:
			}
		}
	}()
	wg.Wait()

	stats.Submitted = int(submitted.Load())
	stats.Accepted = int(accepted.Load())
	stats.Duplicate = int(duplicate.Load())
	stats.Rejected = int(rejected.Load())
	stats.Failed = int(failed.Load())
	stats.Fitted = int(fitted.Load())
	stats.FitFailed = int(fitFailed.Load())
	stats.WithinTolerance = int(inTolerance.Load())
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, log, stats)
	return stats, ctx.Err()
}

func applyDefaults(cfg *Config) {
	if cfg.Workers < 1 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Count < 1 {
		cfg.Count = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = defaultTolerance
	}
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var recoveryRate, jobsPerSecond float64
	if stats.Fitted > 0 {
		recoveryRate = float64(stats.WithinTolerance) / float64(stats.Fitted) * percentMultiplier
	}
	if stats.Duration > 0 {
		jobsPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("fitted", stats.Fitted),
		logger.Int("fit_failed", stats.FitFailed),
		logger.Int("within_tolerance", stats.WithinTolerance),
		logger.Duration("duration", stats.Duration),
		logger.Float64("recovery_rate", recoveryRate),
		logger.Float64("jobs_per_second", jobsPerSecond),
	)
}
