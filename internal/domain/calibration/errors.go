package calibration

import "errors"

// Sentinel kinds for calibration errors.
var (
	ErrInvalidOutcome = errors.New("outcome is not terminal")
)
