package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrInvalidBaseline   = errors.New("invalid baseline model")
	ErrInvalidParameters = errors.New("invalid scoring parameters")
	ErrUnknownMode       = errors.New("unknown prediction mode")
)
