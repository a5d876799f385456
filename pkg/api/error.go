package api

import (
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
)

// Offline and server failure messages shown to the user. The product
// language is French; the original detail is kept in the error log.
const (
	OfflineMessage     = "Vous êtes hors ligne. Veuillez vérifier votre connexion internet."
	ServerDownMessage  = "Erreur de connexion au serveur. Veuillez réessayer."
	GenericAPIFallback = "Une erreur est survenue. Veuillez réessayer."
)

// APIError represents an API error response
type APIError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Cause }

// Retryable reports whether another attempt could succeed: server-side
// (5xx) and network-level (no status) failures, not client errors.
func (e *APIError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}

// errorEnvelope matches both backend error shapes: flask-smorest aborts
// carry "message", ad-hoc handlers carry {"success": false, "error"}.
type errorEnvelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ParseError builds an APIError from a non-success response body.
func ParseError(resp *resty.Response) error {
	message := GenericAPIFallback

	var env errorEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err == nil {
		switch {
		case env.Message != "":
			message = env.Message
		case env.Error != "":
			message = env.Error
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode(),
		Message:    message,
	}
}

// NetworkError wraps a transport-level failure with a normalized
// user-facing message chosen by connectivity state.
func NetworkError(cause error, offline bool) error {
	message := ServerDownMessage
	if offline {
		message = OfflineMessage
	}
	return &APIError{Message: message, Cause: cause}
}

// IsUnauthorized checks if error is a 401
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}

// IsNotFound checks if error is a 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsServerError checks if error is a 5xx
func IsServerError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 500
}

// IsNetworkError checks if error never reached the server
func IsNetworkError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 0
}
