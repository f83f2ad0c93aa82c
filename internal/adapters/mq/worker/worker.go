// Package worker runs queued analyses and records their outcome.
package worker

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/drawdown/internal/adapters/mq/queue"
	"github.com/okian/drawdown/internal/domain/model"
	"github.com/okian/drawdown/pkg/logger"
	"github.com/okian/drawdown/pkg/metrics"
)

// Analyzer runs one analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req model.Request) (*model.FitResult, error)
}

// Tracker records job status transitions.
type Tracker interface {
	Start(ctx context.Context, id string) error
	Finish(ctx context.Context, id string, res *model.FitResult) error
}

// Queue is where workers take tasks from.
type Queue interface {
	Dequeue(ctx context.Context) (queue.Task, error)
}

// Worker processes tasks until its queue is drained or ctx is done.
type Worker interface {
	Run(ctx context.Context)
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	analyzer Analyzer
	tracker  Tracker
	name     string
	active   *atomic.Int64
	logger   logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, analyzer Analyzer, tracker Tracker, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		analyzer: analyzer,
		tracker:  tracker,
		name:     "worker",
		active:   &atomic.Int64{},
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run takes tasks until Dequeue fails, which happens once the queue is
// closed and drained or ctx is done.
func (w *InMemoryWorker) Run(ctx context.Context) {
	for {
		task, err := w.queue.Dequeue(ctx)
		if err != nil {
			if !errors.Is(err, queue.ErrClosed) && ctx.Err() == nil {
				w.logger.Error(ctx, "dequeue failed", logger.Error(err))
			}
			return
		}
		w.process(ctx, task)
	}
}

func (w *InMemoryWorker) process(ctx context.Context, task queue.Task) { //nolint:gocritic // hugeParam: Task arrives by value from the queue
	start := time.Now()
	metrics.UpdateWorkerActiveCount(int(w.active.Add(1)))
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.active.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	log := w.logger
	fields := []logger.Field{
		logger.String("job_id", task.JobID),
		logger.String("method", task.Request.Method.String()),
		logger.Int("points", len(task.Request.Observations)),
	}

	if err := w.tracker.Start(ctx, task.JobID); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "start")
		log.Error(ctx, "cannot start job", append(fields, logger.Error(err))...)
		return
	}

	if ctx.Err() != nil {
		// Dequeued in the same instant the pool was canceled.
		if err := w.tracker.Finish(ctx, task.JobID, model.Failed(task.Request.Method, ErrShutdown)); err != nil {
			log.Error(ctx, "cannot finish job", append(fields, logger.Error(err))...)
		}
		return
	}

	res, err := w.analyzer.Analyze(ctx, task.Request)
	if res == nil {
		res = model.Failed(task.Request.Method, err)
	}
	if err != nil {
		metrics.RecordWorkerError()
		log.Warn(ctx, "analysis failed", append(fields, logger.Error(err))...)
	} else {
		log.Debug(ctx, "analysis fitted", fields...)
	}

	if err := w.tracker.Finish(ctx, task.JobID, res); err != nil {
		metrics.RecordErrorByComponent("worker", "finish")
		log.Error(ctx, "cannot finish job", append(fields, logger.Error(err))...)
	}
}

// Pool runs a fixed number of workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	tracker Tracker
	active  atomic.Int64
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	logger  logger.Logger
}

// NewPool creates workerCount workers sharing q.
func NewPool(workerCount int, q Queue, analyzer Analyzer, tracker Tracker) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		tracker: tracker,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(q, analyzer, tracker,
			WithName("worker-"+strconv.Itoa(i)),
			withActiveCounter(&p.active),
		)
	}
	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Active returns the number of workers currently running an analysis.
func (p *Pool) Active() int { return int(p.active.Load()) }

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *InMemoryWorker) {
			defer p.wg.Done()
			w.Run(runCtx)
		}(w)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Shutdown closes the queue, lets workers drain it and waits for them.
// When ctx expires first, in-flight analyses are canceled and tasks still
// queued are finished as failed with ErrShutdown.
func (p *Pool) Shutdown(ctx context.Context) error {
	closed := false
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		} else {
			closed = true
		}
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if p.cancel != nil {
			p.cancel()
		}
		return nil
	case <-ctx.Done():
		if p.cancel != nil {
			p.cancel()
		}
		<-done
		abandoned := 0
		if closed {
			abandoned = p.abandon(context.WithoutCancel(ctx))
		}
		p.logger.Warn(ctx, "worker pool shutdown timed out; in-flight analyses canceled",
			logger.Int("abandoned", abandoned))
		return ctx.Err()
	}
}

// abandon fails every task left in the closed queue so no job is stuck
// awaiting data.
func (p *Pool) abandon(ctx context.Context) int {
	n := 0
	for {
		task, err := p.queue.Dequeue(ctx)
		if err != nil {
			return n
		}
		n++
		res := model.Failed(task.Request.Method, ErrShutdown)
		if err := p.tracker.Start(ctx, task.JobID); err != nil {
			p.logger.Error(ctx, "cannot fail abandoned job", logger.String("job_id", task.JobID), logger.Error(err))
			continue
		}
		if err := p.tracker.Finish(ctx, task.JobID, res); err != nil {
			p.logger.Error(ctx, "cannot fail abandoned job", logger.String("job_id", task.JobID), logger.Error(err))
		}
	}
}
