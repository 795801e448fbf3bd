package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/revlog/internal/deckview"
	"github.com/phrazzld/revlog/internal/domain"
	"github.com/phrazzld/revlog/internal/eventstore"
)

// MapErrorToStatusCode maps domain and store errors to HTTP status codes.
// Unknown errors map to 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, eventstore.ErrWrongVersion):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidScore):
		return http.StatusBadRequest
	case errors.Is(err, deckview.ErrCardNotFound),
		errors.Is(err, deckview.ErrModelNotFound),
		errors.Is(err, deckview.ErrUnknownCard):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for the error. Raw
// error strings never reach the client; only known errors get a specific
// message.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, eventstore.ErrWrongVersion):
		return "Card was modified concurrently; reload and retry"
	case errors.Is(err, domain.ErrInvalidScore):
		return "Score must be one of: good, poor, fail"
	case errors.Is(err, deckview.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, deckview.ErrModelNotFound):
		return "Model not found"
	case errors.Is(err, deckview.ErrUnknownCard):
		return "Card not found"
	default:
		return "Internal server error"
	}
}
