package server

import "errors"

var (
	// ErrRunnerRequired is returned when a nil runner is supplied.
	ErrRunnerRequired = errors.New("runner required")

	// ErrHandlerRequired is returned when a nil handler is supplied.
	ErrHandlerRequired = errors.New("handler required")
)
