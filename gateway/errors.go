package gateway

import (
	"errors"
	"net/http"
)

var (
	ErrClientError     = errors.New("client error")
	ErrServerError     = errors.New("server error")
	ErrUnknownEvent    = errors.New("no module is routed for event")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrTimeout         = errors.New("timed out waiting for a response")
	ErrInvalidOption   = errors.New("invalid gateway option")
)

// errHandlerFunc is much like a [http.HandlerFunc], except that it returns an error.
type errHandlerFunc = func(w http.ResponseWriter, r *http.Request) error

// statusFor picks the response status code for an error returned from an [errHandlerFunc].
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownEvent):
		return http.StatusNotFound
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrClientError):
		return http.StatusBadRequest
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// handleErr adapts an [errHandlerFunc] to a [http.HandlerFunc], responding with a JSON error body when it fails.
func handleErr(handler errHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := handler(w, r); err != nil {
			writeError(w, r, statusFor(err), err)
		}
	}
}
