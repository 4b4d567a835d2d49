package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("job not found")
	ErrInvalidLimit = errors.New("invalid matches limit")
	ErrNotReady     = errors.New("job has no report yet")
)
