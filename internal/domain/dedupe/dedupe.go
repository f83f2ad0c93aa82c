// Package dedupe tracks client request IDs so a resubmitted analysis maps to
// the job created the first time.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

const defaultMaxSize = 50_000

// Deduper records request IDs and the job each one created.
type Deduper interface {
	// Claim atomically records requestID for jobID. When requestID was seen
	// before it returns the earlier job ID and true.
	Claim(ctx context.Context, requestID, jobID string) (string, bool)

	// Release forgets requestID so it can be submitted again, used when the
	// claimed job could not be queued.
	Release(ctx context.Context, requestID string)

	Size() int
}

type entry struct {
	requestID string
	jobID     string
}

// inMemoryDeduper keeps at most maxSize IDs, evicting the oldest claim.
// maxSize <= 0 means unbounded.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List
	maxSize int
}

// NewInMemoryDeduper creates a deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		seen:    make(map[string]*list.Element),
		order:   list.New(),
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) Claim(_ context.Context, requestID, jobID string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[requestID]; ok {
		return el.Value.(*entry).jobID, true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		if oldest := d.order.Front(); oldest != nil {
			d.order.Remove(oldest)
			delete(d.seen, oldest.Value.(*entry).requestID)
		}
	}
	d.seen[requestID] = d.order.PushBack(&entry{requestID: requestID, jobID: jobID})
	return jobID, false
}

func (d *inMemoryDeduper) Release(_ context.Context, requestID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.seen[requestID]; ok {
		d.order.Remove(el)
		delete(d.seen, requestID)
	}
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.order.Len()
}
