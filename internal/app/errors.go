package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrBackpressure = errors.New("job queue full")
	ErrInvalidJob   = errors.New("invalid job")
)
