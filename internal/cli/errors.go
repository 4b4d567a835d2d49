package cli

import "errors"

// Sentinel errors for this package.
var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrReadInput     = errors.New("read input failed")
)
