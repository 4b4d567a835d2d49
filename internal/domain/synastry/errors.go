package synastry

import "errors"

// Sentinel errors for weight configuration.
var (
	ErrUnknownModule = errors.New("unknown scoring module")
	ErrInvalidWeight = errors.New("invalid module weight")
)
