package errors

import (
	"errors"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int

	// Kind discriminates taxonomy entries that share a status code
	// (blocked vs forbidden are both 403 on the wire).
	Kind string
}

const KindBlocked = "blocked"

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// Constructors for the error taxonomy used across services and storage.
// Handlers translate these to HTTP via utils.WriteErrorAndStatusCode.

// NotFound: target message/thread/comment/user absent or already deleted.
func NotFound(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound}
}

// Forbidden: viewer is not a participant/owner of the target.
func Forbidden(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusForbidden}
}

// Blocked: recipient has blocked the sender. Rejected before persistence.
func Blocked(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusForbidden, Kind: KindBlocked}
}

// IsBlocked reports whether err is a block rejection rather than a
// plain permission failure.
func IsBlocked(err error) bool {
	var statusErr *ErrorWithStatusCode
	return errors.As(err, &statusErr) && statusErr.Kind == KindBlocked
}

// InvalidInput: empty/over-length content, malformed identifiers.
func InvalidInput(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest}
}

// Conflict: thread participant mismatch on an explicit thread id,
// or a uniqueness violation (e.g. username taken).
func Conflict(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusConflict}
}

// Unauthorized: missing or invalid credentials/token.
func Unauthorized(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusUnauthorized}
}

// IsNotFound reports whether err is a 404 from this taxonomy.
func IsNotFound(err error) bool {
	var statusErr *ErrorWithStatusCode
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// Unavailable: a durable store call failed. Nothing was persisted or
// notified, so the operation is safe to retry.
func Unavailable(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusServiceUnavailable}
}
