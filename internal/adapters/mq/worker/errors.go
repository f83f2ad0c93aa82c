package worker

import "errors"

// ErrShutdown is the failure reason of jobs still queued when a shutdown
// deadline expires.
var ErrShutdown = errors.New("worker pool shut down before the job ran")
