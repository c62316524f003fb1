// Package httperr maps transport failures to user-facing messages.
package httperr

import (
	"errors"
	"net/http"
	"strings"

	"shopctl/internal/api"
)

const (
	// MsgConnectivity is shown when no HTTP response was received.
	MsgConnectivity = "Cannot reach the API. Check that the backend is running."
	// MsgSessionInvalid is shown on 401 responses.
	MsgSessionInvalid = "Your session is invalid or has expired. Sign in again."
	// MsgForbidden is shown on 403 responses.
	MsgForbidden = "You do not have permission to perform this action."
	// MsgNotFound is shown on 404 responses.
	MsgNotFound = "The requested resource was not found."
	// MsgConflict is shown on 409 responses without a server message.
	MsgConflict = "Conflict: the operation cannot be completed."
	// MsgBadRequest is shown on 400 responses without a server message.
	MsgBadRequest = "Invalid request."
	// MsgUnknown is the fallback for everything else.
	MsgUnknown = "An unexpected error occurred."

	validationSeparator = " • "
)

// Translate maps err to a human-readable message. It is deterministic
// and side-effect-free; nil maps to the empty string. Errors that are
// not api.Error values are treated as connectivity failures.
func Translate(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return MsgConnectivity
	}
	switch apiErr.Status {
	case 0:
		return MsgConnectivity
	case http.StatusUnauthorized:
		return MsgSessionInvalid
	case http.StatusForbidden:
		return MsgForbidden
	case http.StatusNotFound:
		return MsgNotFound
	case http.StatusConflict:
		return withFallback(apiErr, MsgConflict)
	case http.StatusBadRequest:
		if len(apiErr.Messages) > 0 {
			return strings.Join(apiErr.Messages, validationSeparator)
		}
		return withFallback(apiErr, MsgBadRequest)
	default:
		return withFallback(apiErr, MsgUnknown)
	}
}

func withFallback(apiErr *api.Error, fallback string) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
