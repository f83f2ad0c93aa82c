// Package repository keeps analysis jobs for the lifetime of the process.
package repository

import (
	"context"
	"time"

	"github.com/okian/drawdown/internal/domain/model"
)

// Job is one asynchronous analysis and its lifecycle.
type Job struct {
	ID        string           `json:"job_id"`
	RequestID string           `json:"request_id,omitempty"`
	Method    model.Method     `json:"method"`
	Status    model.Status     `json:"status"`
	Reason    string           `json:"reason,omitempty"`
	Result    *model.FitResult `json:"result,omitempty"`
	Submitted time.Time        `json:"submitted"`
	Started   time.Time        `json:"started,omitzero"`
	Finished  time.Time        `json:"finished,omitzero"`
}

// Counts tallies jobs by status.
type Counts struct {
	AwaitingData int `json:"awaiting_data"`
	Fitting      int `json:"fitting"`
	Fitted       int `json:"fitted"`
	FitFailed    int `json:"fit_failed"`
}

// Total is the number of stored jobs.
func (c Counts) Total() int {
	return c.AwaitingData + c.Fitting + c.Fitted + c.FitFailed
}

// Store holds jobs and enforces the status state machine.
type Store interface {
	// Create adds a job in StatusAwaitingData. It fails with ErrExists for a
	// reused ID and ErrFull when no finished job can be evicted.
	Create(ctx context.Context, job Job) error

	// Get returns a copy of the job or ErrNotFound.
	Get(ctx context.Context, id string) (Job, error)

	// Start moves a job from AwaitingData to Fitting.
	Start(ctx context.Context, id string) error

	// Finish moves a job from Fitting to Fitted or FitFailed depending on
	// the result status.
	Finish(ctx context.Context, id string, res *model.FitResult) error

	// Remove drops a job, used when it could not be queued.
	Remove(ctx context.Context, id string)

	// Counts returns the number of jobs in each status.
	Counts(ctx context.Context) Counts
}
