package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrUnknownValue = errors.New("unknown enum value")
)
