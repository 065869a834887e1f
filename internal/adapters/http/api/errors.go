package api

import (
	"errors"
	"net/http"

	"github.com/okian/venturecast/internal/adapters/mq/queue"
	"github.com/okian/venturecast/internal/adapters/repository"
	service "github.com/okian/venturecast/internal/app"
	"github.com/okian/venturecast/internal/domain/calibration"
	"github.com/okian/venturecast/internal/domain/model"
	"github.com/okian/venturecast/internal/domain/scoring"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrLimitExceeded = errors.New("limit exceeds maximum")
)

// errorStatus maps an upstream error to an HTTP status and a stable code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrDuplicateID):
		return http.StatusConflict, "duplicate_id"
	case errors.Is(err, queue.ErrFull):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, queue.ErrClosed), errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, calibration.ErrInvalidOutcome),
		errors.Is(err, repository.ErrInvalidTransition):
		return http.StatusBadRequest, "invalid_outcome"
	case errors.Is(err, scoring.ErrUnknownMode):
		return http.StatusBadRequest, "invalid_mode"
	case errors.Is(err, repository.ErrInvalidLimit), errors.Is(err, ErrLimitExceeded):
		return http.StatusBadRequest, "invalid_limit"
	case errors.Is(err, model.ErrUnknownValue), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
