package numerology

import "errors"

var (
	ErrUnparsableDate = errors.New("unparsable date")
	ErrInvalidDate    = errors.New("invalid date")
)
