package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidTimeout indicates a non-positive command timeout.
	ErrInvalidTimeout = errors.New("config: timeout must be positive")

	// ErrInvalidLogLevel indicates an unrecognized log level name.
	ErrInvalidLogLevel = errors.New("config: invalid log level")

	// ErrUnknownProvider indicates an unrecognized collaborator provider.
	ErrUnknownProvider = errors.New("config: unknown provider")
)

// ParseError wraps a failure to parse a configuration file.
type ParseError struct {
	Path string
	Err  error
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("config: parsing %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *ParseError) Unwrap() error { return e.Err }
