package ascendant

import "errors"

var ErrInvalidTable = errors.New("invalid ascendant table")
