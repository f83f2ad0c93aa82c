// Package service wires the estimator, job store, deduper, queue and worker
// pool into the operations the HTTP API and CLI depend on.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/okian/drawdown/internal/adapters/mq/queue"
	"github.com/okian/drawdown/internal/adapters/mq/worker"
	"github.com/okian/drawdown/internal/adapters/repository"
	"github.com/okian/drawdown/internal/domain/dedupe"
	"github.com/okian/drawdown/internal/domain/estimator"
	"github.com/okian/drawdown/internal/domain/model"
	"github.com/okian/drawdown/internal/domain/regression"
	"github.com/okian/drawdown/internal/domain/solver"
	"github.com/okian/drawdown/internal/domain/validity"
	"github.com/okian/drawdown/pkg/logger"
	"github.com/okian/drawdown/pkg/metrics"
)

// Service implements the API dependencies for the analysis system.
type Service struct {
	mu sync.RWMutex

	// Core components
	estimator *estimator.Estimator
	jobs      repository.Store
	deduper   dedupe.Deduper
	queue     *queue.InMemoryQueue
	pool      *worker.Pool

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	jobStoreSize    int
	maxIterations   int
	tolerance       float64
	threshold       float64
	shutdownTimeout time.Duration

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many request IDs are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithJobStoreSize sets how many jobs are kept for status lookups.
func WithJobStoreSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.jobStoreSize = size
		}
	}
}

// WithSolverMaxIterations bounds the Theis minimizer.
func WithSolverMaxIterations(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxIterations = n
		}
	}
}

// WithSolverTolerance sets the objective change treated as converged.
func WithSolverTolerance(tol float64) Option {
	return func(s *Service) {
		if tol > 0 {
			s.tolerance = tol
		}
	}
}

// WithValidityThreshold sets the u value above which points are flagged.
func WithValidityThreshold(u float64) Option {
	return func(s *Service) {
		if u > 0 {
			s.threshold = u
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for queued jobs.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Synchronous analysis works immediately; Start
// is needed for job submission.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU(),
		queueSize:       10_000,
		dedupeSize:      50_000,
		jobStoreSize:    10_000,
		maxIterations:   2000,
		tolerance:       1e-12,
		threshold:       validity.DefaultThreshold,
		shutdownTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.estimator = estimator.New(
		estimator.WithSolver(solver.NewNelderMead(
			solver.WithMaxIterations(s.maxIterations),
			solver.WithTolerance(s.tolerance),
		)),
		estimator.WithThreshold(s.threshold),
	)
	return s
}

// Start builds the job store, deduper and queue and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting analysis service...")

	s.jobs = repository.NewMemoryStore(repository.WithCapacity(s.jobStoreSize))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s, s.jobs)
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "analysis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Int("job_store_size", s.jobStoreSize),
	)
	return nil
}

// Stop closes the queue and waits for workers to drain it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping analysis service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "analysis service stopped")
}

// Analyze runs one analysis synchronously. When req.RefitExcluded is set and
// a Cooper-Jacob fit flagged points, the fit is repeated once over the points
// inside the validity range.
func (s *Service) Analyze(ctx context.Context, req model.Request) (*model.FitResult, error) {
	start := time.Now()
	method := req.Method.String()

	res, err := s.estimator.Analyze(ctx, req)
	if err == nil && req.RefitExcluded && req.Method.HasValidityFilter() && res.Excluded > 0 {
		res = s.refit(ctx, req, res)
	}

	metrics.RecordFitLatency(method, float64(time.Since(start).Microseconds())/1000)
	metrics.RecordAnalysis(method, res.Status.String())
	if err != nil {
		metrics.RecordErrorByComponent("estimator", kindName(err))
		return res, err
	}
	if res.Iterations > 0 {
		metrics.RecordSolverIterations(res.Iterations)
	}
	metrics.RecordExcludedPoints(method, res.Excluded)
	metrics.RecordWarnings(method, len(res.Warnings))
	return res, nil
}

func (s *Service) refit(ctx context.Context, req model.Request, first *model.FitResult) *model.FitResult { //nolint:gocritic // hugeParam: Request is copied to build the refit request
	kept := validity.IncludedOnly(req.Observations, first.Points)
	if len(kept) < regression.MinPoints {
		first.Warn(fmt.Sprintf("refit skipped: only %d observations inside the validity range", len(kept)))
		return first
	}

	again := req
	again.Observations = kept
	again.RefitExcluded = false
	second, err := s.estimator.Analyze(ctx, again)
	if err != nil {
		first.Warn("refit failed: " + err.Error())
		return first
	}
	second.Warn(fmt.Sprintf("refit over %d of %d observations inside the validity range", len(kept), len(req.Observations)))
	return second
}

// Submit queues req for asynchronous analysis. A request ID seen before
// returns the earlier job with duplicate set.
func (s *Service) Submit(ctx context.Context, req model.Request) (jobID string, duplicate bool, err error) { //nolint:gocritic // hugeParam: Request is stored by value in the task
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return "", false, ErrNotStarted
	}

	jobID = uuid.NewString()
	if req.RequestID != "" {
		if prev, seen := s.deduper.Claim(ctx, req.RequestID, jobID); seen {
			metrics.RecordDuplicate()
			s.logger.Debug(ctx, "duplicate request",
				logger.String("request_id", req.RequestID),
				logger.String("job_id", prev),
			)
			return prev, true, nil
		}
	}

	job := repository.Job{
		ID:        jobID,
		RequestID: req.RequestID,
		Method:    req.Method,
		Status:    model.StatusAwaitingData,
		Submitted: time.Now(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		s.release(ctx, req.RequestID)
		if eris.Is(err, repository.ErrFull) {
			return "", false, eris.Wrap(ErrBackpressure, err.Error())
		}
		return "", false, eris.Wrap(err, "create job")
	}

	if err := s.queue.Enqueue(ctx, queue.Task{JobID: jobID, Request: req, Enqueued: time.Now()}); err != nil {
		s.jobs.Remove(ctx, jobID)
		s.release(ctx, req.RequestID)
		s.logger.Warn(ctx, "job rejected", logger.String("job_id", jobID), logger.Error(err))
		return "", false, eris.Wrap(ErrBackpressure, err.Error())
	}

	metrics.UpdateJobsStored(s.jobs.Counts(ctx).Total())
	s.logger.Debug(ctx, "job queued",
		logger.String("job_id", jobID),
		logger.String("method", req.Method.String()),
		logger.Int("points", len(req.Observations)),
	)
	return jobID, false, nil
}

func (s *Service) release(ctx context.Context, requestID string) {
	if requestID != "" {
		s.deduper.Release(ctx, requestID)
	}
}

// Job returns the stored job.
func (s *Service) Job(ctx context.Context, id string) (repository.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return repository.Job{}, ErrNotStarted
	}
	return s.jobs.Get(ctx, id)
}

// Stats is a snapshot of the service for monitoring.
type Stats struct {
	Started       bool              `json:"started"`
	WorkerCount   int               `json:"worker_count"`
	ActiveWorkers int               `json:"active_workers"`
	QueueSize     int               `json:"queue_size"`
	QueueLength   int               `json:"queue_length"`
	DedupeSize    int               `json:"dedupe_size"`
	DedupeLength  int               `json:"dedupe_length"`
	JobStoreSize  int               `json:"job_store_size"`
	Jobs          repository.Counts `json:"jobs"`
	Threshold     float64           `json:"validity_threshold"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Started:      s.started,
		WorkerCount:  s.workerCount,
		QueueSize:    s.queueSize,
		DedupeSize:   s.dedupeSize,
		JobStoreSize: s.jobStoreSize,
		Threshold:    s.estimator.Threshold(),
	}
	if !s.started {
		return st
	}

	st.ActiveWorkers = s.pool.Active()
	st.QueueLength = s.queue.Len()
	st.DedupeLength = s.deduper.Size()
	st.Jobs = s.jobs.Counts(ctx)

	metrics.UpdateQueueSize(st.QueueLength)
	metrics.UpdateJobsStored(st.Jobs.Total())
	return st
}

func kindName(err error) string {
	if e, ok := model.AsError(err); ok {
		return e.Kind.Error()
	}
	if eris.Is(err, context.Canceled) || eris.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "other"
}
