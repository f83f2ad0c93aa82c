package config

import "errors"

// Error kinds returned by Load and Validate.
var (
	// ErrInvalidConfig wraps every range or enum violation found by Validate.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps file, environment and decoding failures.
	ErrLoadConfig = errors.New("load config failed")
)
