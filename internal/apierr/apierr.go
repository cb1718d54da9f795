// Package apierr collapses every failure an API call can produce into one
// error value.
//
// Three families of failure reach calling code through the client:
//
//   - transport failures, where no response was received (Kind network, status 0)
//   - HTTP error responses, 4xx or 5xx (Kind client or server)
//   - local validation failures caught before any request is sent (Kind validation)
//
// Anything else, for example a response body that does not decode, is treated
// as a generic error with status 500.
//
// Normalize is idempotent: an *Error passes through untouched, so it is safe
// to call at every layer.
package apierr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Kind classifies a normalized error.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindClient     Kind = "client"
	KindServer     Kind = "server"
	KindValidation Kind = "validation"
)

const (
	MsgTimeout     = "Request timed out. Please check your connection and try again."
	MsgUnreachable = "Unable to connect to the server. Please check your internet connection."
	MsgCanceled    = "The request was cancelled."
	MsgUnexpected  = "An unexpected error occurred. Please try again."
)

// Error is the uniform error shape. StatusCode is 0 when no response was
// received and for local validation failures.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	// Timeout is set for network failures caused by the request deadline.
	Timeout bool
	// Err is the underlying failure, if any.
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNetworkError reports a failure where no response reached the client.
func (e *Error) IsNetworkError() bool { return e.Kind == KindNetwork }

// IsValidation reports a failure caught locally before any request was sent.
func (e *Error) IsValidation() bool { return e.Kind == KindValidation }

func (e *Error) IsClientError() bool { return e.StatusCode >= 400 && e.StatusCode <= 499 }

func (e *Error) IsServerError() bool { return e.StatusCode >= 500 && e.StatusCode <= 599 }

func (e *Error) IsAuthError() bool { return e.StatusCode == 401 }

func (e *Error) IsForbidden() bool { return e.StatusCode == 403 }

func (e *Error) IsNotFound() bool { return e.StatusCode == 404 }

// Validation builds a local validation failure.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// FromResponse builds the error for an HTTP response with a failing status.
// A non-empty string "detail" field in body wins over the status table.
func FromResponse(status int, body []byte) *Error {
	msg := detailFrom(body)
	if msg == "" {
		msg = MessageForStatus(status)
	}
	return &Error{
		Kind:       kindForStatus(status),
		Message:    msg,
		StatusCode: status,
	}
}

// Normalize converts err into an *Error. It returns nil for a nil err.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, context.Canceled):
		return &Error{Kind: KindNetwork, Message: MsgCanceled, Err: err}
	case isTimeout(err):
		return &Error{Kind: KindNetwork, Message: MsgTimeout, Timeout: true, Err: err}
	case isTransport(err):
		return &Error{Kind: KindNetwork, Message: MsgUnreachable, Err: err}
	}

	msg := err.Error()
	if strings.TrimSpace(msg) == "" {
		msg = MsgUnexpected
	}
	return &Error{Kind: KindServer, Message: msg, StatusCode: 500, Err: err}
}

// MessageForStatus returns the fixed human-readable message for an HTTP
// status that carried no usable detail.
func MessageForStatus(status int) string {
	switch status {
	case 400:
		return "Invalid request. Please check your input and try again."
	case 401:
		return "Authentication required. Please log in again."
	case 403:
		return "You do not have permission to perform this action."
	case 404:
		return "The requested resource was not found."
	case 422:
		return "Invalid data provided. Please check your input."
	case 429:
		return "Too many requests. Please wait a moment and try again."
	case 500:
		return "An internal server error occurred. Please try again later."
	case 502, 503, 504:
		return "The server is temporarily unavailable. Please try again later."
	default:
		return fmt.Sprintf("An error occurred (%d). Please try again.", status)
	}
}

// As is errors.As for *Error.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Message returns the user-facing message for any error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return Normalize(err).Message
}

// IsNetworkError reports whether err is, or normalizes to, a network failure.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return Normalize(err).IsNetworkError()
}

// IsAuthenticationRequired reports whether err carries status 401.
func IsAuthenticationRequired(err error) bool {
	apiErr, ok := As(err)
	return ok && apiErr.IsAuthError()
}

func kindForStatus(status int) Kind {
	if status >= 400 && status <= 499 {
		return KindClient
	}
	return KindServer
}

// TransportError marks a failure that happened before any response arrived.
// The client wraps errors from http.Client.Do with it so that Normalize can
// tell them apart from local errors.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isTransport(err error) bool {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func detailFrom(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	// detail may be a list of field issues; only a plain string is shown.
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}
