package repository

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/okian/drawdown/internal/domain/model"
	"github.com/okian/drawdown/pkg/metrics"
)

const defaultCapacity = 10_000

// MemoryStore is a bounded in-memory Store. When full, the oldest finished
// job is evicted; jobs still queued or fitting are never evicted.
type MemoryStore struct {
	mu       sync.RWMutex
	jobs     map[string]*list.Element
	order    *list.List // of *Job, oldest first
	capacity int
	now      func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		jobs:     make(map[string]*list.Element),
		order:    list.New(),
		capacity: defaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateJobsStored(0)
	return s
}

// Create implements Store.
func (s *MemoryStore) Create(_ context.Context, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.ID]; ok {
		return eris.Wrapf(ErrExists, "job %s", job.ID)
	}
	if len(s.jobs) >= s.capacity && !s.evictOldestFinished() {
		return eris.Wrapf(ErrFull, "capacity %d", s.capacity)
	}

	j := job
	j.Status = model.StatusAwaitingData
	if j.Submitted.IsZero() {
		j.Submitted = s.now()
	}
	s.jobs[j.ID] = s.order.PushBack(&j)
	metrics.UpdateJobsStored(len(s.jobs))
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	el, ok := s.jobs[id]
	if !ok {
		return Job{}, eris.Wrapf(ErrNotFound, "job %s", id)
	}
	return *el.Value.(*Job), nil
}

// Start implements Store.
func (s *MemoryStore) Start(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, err := s.lookup(id)
	if err != nil {
		return err
	}
	if j.Status != model.StatusAwaitingData {
		return eris.Wrapf(ErrInvalidTransition, "job %s: %s -> %s", id, j.Status, model.StatusFitting)
	}
	j.Status = model.StatusFitting
	j.Started = s.now()
	return nil
}

// Finish implements Store.
func (s *MemoryStore) Finish(_ context.Context, id string, res *model.FitResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, err := s.lookup(id)
	if err != nil {
		return err
	}
	next := model.StatusFitFailed
	if res != nil && res.Status == model.StatusFitted {
		next = model.StatusFitted
	}
	if j.Status != model.StatusFitting {
		return eris.Wrapf(ErrInvalidTransition, "job %s: %s -> %s", id, j.Status, next)
	}
	j.Status = next
	j.Result = res
	if res != nil {
		j.Reason = res.Reason
	}
	j.Finished = s.now()
	return nil
}

// Remove implements Store.
func (s *MemoryStore) Remove(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.jobs[id]; ok {
		s.order.Remove(el)
		delete(s.jobs, id)
		metrics.UpdateJobsStored(len(s.jobs))
	}
}

// Counts implements Store.
func (s *MemoryStore) Counts(_ context.Context) Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var c Counts
	for el := s.order.Front(); el != nil; el = el.Next() {
		switch el.Value.(*Job).Status {
		case model.StatusAwaitingData:
			c.AwaitingData++
		case model.StatusFitting:
			c.Fitting++
		case model.StatusFitted:
			c.Fitted++
		case model.StatusFitFailed:
			c.FitFailed++
		}
	}
	return c
}

// lookup must be called with s.mu held.
func (s *MemoryStore) lookup(id string) (*Job, error) {
	el, ok := s.jobs[id]
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "job %s", id)
	}
	return el.Value.(*Job), nil
}

// evictOldestFinished must be called with s.mu held.
func (s *MemoryStore) evictOldestFinished() bool {
	for el := s.order.Front(); el != nil; el = el.Next() {
		j := el.Value.(*Job)
		if j.Status.Terminal() {
			s.order.Remove(el)
			delete(s.jobs, j.ID)
			metrics.RecordJobEvicted()
			return true
		}
	}
	return false
}
