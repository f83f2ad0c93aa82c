// Package queue holds analysis jobs between submission and the worker pool.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/drawdown/internal/domain/model"
	"github.com/okian/drawdown/pkg/metrics"
)

const defaultCapacity = 10_000

// Task is one queued analysis.
type Task struct {
	JobID    string
	Request  model.Request
	Enqueued time.Time
}

// Queue provides non-blocking enqueue and blocking dequeue.
type Queue interface {
	// Enqueue adds a task or returns ErrFull / ErrClosed without blocking.
	Enqueue(ctx context.Context, t Task) error
	// Dequeue blocks until a task is available, ctx is done or the queue is
	// closed and drained.
	Dequeue(ctx context.Context) (Task, error)
	Len() int
	Capacity() int
	Close() error
}

// InMemoryQueue implements Queue on a buffered channel.
type InMemoryQueue struct {
	tasks    chan Task
	capacity int
	mu       sync.RWMutex
	closed   bool
	now      func() time.Time
}

// NewInMemoryQueue creates a bounded in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity, now: time.Now}
	for _, opt := range opts {
		opt(q)
	}
	q.tasks = make(chan Task, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)
	return q
}

// Enqueue implements Queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Task) error { //nolint:gocritic // hugeParam: Task travels by value through the channel
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return err
	}
	if t.Enqueued.IsZero() {
		t.Enqueued = q.now()
	}

	select {
	case q.tasks <- t:
		metrics.RecordQueueEnqueue()
		q.observe()
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return ErrFull
	}
}

// Dequeue implements Queue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) (Task, error) {
	select {
	case t, ok := <-q.tasks:
		if !ok {
			return Task{}, ErrClosed
		}
		metrics.RecordQueueDequeue()
		metrics.RecordQueueWaitLatency(float64(q.now().Sub(t.Enqueued).Microseconds()) / 1000)
		q.observe()
		return t, nil
	case <-ctx.Done():
		return Task{}, ctx.Err()
	}
}

// Len returns the number of queued tasks.
func (q *InMemoryQueue) Len() int { return len(q.tasks) }

// Capacity returns the queue bound.
func (q *InMemoryQueue) Capacity() int { return q.capacity }

// Close stops intake. Queued tasks remain available to Dequeue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.tasks)
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) observe() {
	size := len(q.tasks)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
