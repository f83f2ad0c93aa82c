// Package config defines service configuration and its layered loading.
package config

import (
	"runtime"

	"github.com/rotisserie/eris"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects json or console output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the request ID cache used for idempotent submission.
	DedupeSize int `koanf:"dedupe_size"`

	// JobStoreSize bounds how many jobs are kept for status lookups.
	JobStoreSize int `koanf:"job_store_size"`

	// SolverMaxIterations bounds the Theis nonlinear search.
	SolverMaxIterations int `koanf:"solver_max_iterations"`

	// SolverTolerance is the absolute objective change treated as converged.
	SolverTolerance float64 `koanf:"solver_tolerance"`

	// ValidityThreshold is the largest accepted u for Cooper-Jacob points.
	ValidityThreshold float64 `koanf:"validity_threshold"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "json",
		Addr:                ":9080",
		QueueSize:           10_000,
		WorkerCount:         runtime.NumCPU(),
		DedupeSize:          50_000,
		JobStoreSize:        10_000,
		SolverMaxIterations: 2000,
		SolverTolerance:     1e-12,
		ValidityThreshold:   0.05,
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return eris.Wrap(ErrInvalidConfig, "addr must not be empty")
	case c.LogFormat != "json" && c.LogFormat != "console":
		return eris.Wrapf(ErrInvalidConfig, "log_format must be json or console, got %q", c.LogFormat)
	case c.QueueSize <= 0:
		return eris.Wrapf(ErrInvalidConfig, "queue_size must be positive, got %d", c.QueueSize)
	case c.WorkerCount <= 0:
		return eris.Wrapf(ErrInvalidConfig, "worker_count must be positive, got %d", c.WorkerCount)
	case c.JobStoreSize <= 0:
		return eris.Wrapf(ErrInvalidConfig, "job_store_size must be positive, got %d", c.JobStoreSize)
	case c.SolverMaxIterations <= 0:
		return eris.Wrapf(ErrInvalidConfig, "solver_max_iterations must be positive, got %d", c.SolverMaxIterations)
	case c.SolverTolerance <= 0:
		return eris.Wrapf(ErrInvalidConfig, "solver_tolerance must be positive, got %g", c.SolverTolerance)
	case c.ValidityThreshold <= 0:
		return eris.Wrapf(ErrInvalidConfig, "validity_threshold must be positive, got %g", c.ValidityThreshold)
	}
	return nil
}
