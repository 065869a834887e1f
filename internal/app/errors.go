package service

import (
	"errors"

	"github.com/okian/venturecast/internal/adapters/mq/queue"
	"github.com/okian/venturecast/internal/adapters/repository"
	"github.com/okian/venturecast/internal/domain/calibration"
	"github.com/okian/venturecast/internal/domain/scoring"
)

// Error kinds returned by the service. Callers match them with errors.Is.
var (
	ErrVentureNotFound = repository.ErrNotFound
	ErrDuplicateID     = repository.ErrDuplicateID
	ErrInvalidLimit    = repository.ErrInvalidLimit
	ErrInvalidOutcome  = calibration.ErrInvalidOutcome
	ErrInvalidMode     = scoring.ErrUnknownMode
	ErrInvalidBaseline = scoring.ErrInvalidBaseline
	ErrBackpressure    = queue.ErrFull
	ErrNotStarted      = errors.New("service not started")
)
