package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/zaika/app/repositories"
	"github.com/shashiranjanraj/zaika/app/services"
	"github.com/shashiranjanraj/zaika/pkg/logger"
	"github.com/shashiranjanraj/zaika/pkg/response"
)

// respondError maps domain errors onto HTTP statuses. Anything outside the
// taxonomy is logged with the request ID and surfaced as a generic 500 so
// no internal detail leaks to the caller.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrInvalidOrderLine),
		errors.Is(err, services.ErrNegativePrice):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrStatusFlags):
		response.BadRequest(w, err.Error())
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrBadCredentials):
		response.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrAccountBlocked):
		response.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, repositories.ErrDuplicateEmail):
		response.Conflict(w, err.Error())
	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		response.Internal(w)
	}
}
