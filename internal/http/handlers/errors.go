package handlers

import (
	"errors"
	"net/http"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/logx"
)

// writeDomainError maps engine sentinels to HTTP statuses.
func writeDomainError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		writeError(logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrInvalidServiceArea):
		writeError(logger, w, r, http.StatusBadRequest, "invalid service area")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(logger, w, r, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrNotAssignedToCourier):
		writeError(logger, w, r, http.StatusForbidden, "order is not assigned to courier")
	case errors.Is(err, apperr.ErrCourierIneligible):
		writeError(logger, w, r, http.StatusUnprocessableEntity, "courier is not eligible")
	case errors.Is(err, apperr.ErrInvalidTransition):
		writeError(logger, w, r, http.StatusConflict, "invalid status transition")
	case errors.Is(err, apperr.ErrAlreadyAssigned):
		writeError(logger, w, r, http.StatusConflict, "order already assigned")
	case errors.Is(err, apperr.ErrCapacityExceeded):
		writeError(logger, w, r, http.StatusConflict, "courier capacity exceeded")
	case errors.Is(err, apperr.ErrNoCourierAvailable):
		writeError(logger, w, r, http.StatusConflict, "no courier available")
	case errors.Is(err, apperr.ErrConflict):
		writeError(logger, w, r, http.StatusConflict, "concurrent update, retry")
	default:
		logger.Error("dispatch request failed",
			logx.String("req_id", reqID(r.Context())),
			logx.String("path", r.URL.Path),
			logx.Err(err),
		)
		writeError(logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
