package handlers

import (
	"errors"
	"net/http"

	"trivia-service/internal/service"
)

// statusForError maps engine sentinels to HTTP status codes. Anything
// unrecognized is a plain 500; nothing here is fatal to the process.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrDailyLimitReached):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidOption):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSubmitPending):
		return http.StatusConflict
	case errors.Is(err, service.ErrLoadFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
