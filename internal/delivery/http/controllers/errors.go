package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "eventcheckin/internal/delivery/http/helpers"
	"eventcheckin/internal/domain"
)

// writeDomainError maps a service error to the API response envelope.
// Unmapped errors are logged and returned as 500.
func writeDomainError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var already *domain.AlreadyRegisteredError
	switch {
	case errors.As(err, &already):
		h.WriteJSONErrorDetails(w, http.StatusBadRequest, h.ErrCodeConflict, already.Error(), map[string]any{
			"is_registered": true,
			"person_id":     already.PersonID,
		})
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeConflict, "person already checked in for this event")
	case errors.Is(err, domain.ErrNotRegistered):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "person is not registered for this event")
	case errors.Is(err, domain.ErrNoActiveEvent):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "no active event")
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrDuplicateEmail):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeConflict, "email already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
	}
}
