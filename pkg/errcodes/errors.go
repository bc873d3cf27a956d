package errcodes

import (
	"fmt"
	"net/http"
)

// Error is an error the API reports to the client as-is. None of them are
// fatal; the request fails and nothing was changed.
type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func newError(httpCode int, code, msg string) error {
	return &Error{HTTPCode: httpCode, Message: msg, Code: code}
}

func (err *Error) Error() string {
	return err.Message
}

// Is matches another *Error with the same code and message, so a wrapped
// error can be compared against a freshly built one.
func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Code == err.Code &&
		te.Message == err.Message
}

// Unauthorized is for requests without a valid session.
func Unauthorized(msg string) error {
	return newError(http.StatusUnauthorized, "unauthorized", msg)
}

// Forbidden is for a caller that lacks the capability for action.
func Forbidden(action string) error {
	return newError(http.StatusForbidden, "forbidden", action+" is not allowed.")
}

func NotFound(resource string) error {
	return newError(http.StatusNotFound, "not_found", resource+" not found.")
}

// Conflict is for uniqueness violations.
func Conflict(msg string) error {
	return newError(http.StatusConflict, "conflict", msg)
}

// RestrictedDelete is for a record that other records still reference. The
// client can fix the references and retry.
func RestrictedDelete(resource string, dependents string, count int) error {
	msg := fmt.Sprintf("%s can't be deleted while %d %s still reference it.", resource, count, dependents)
	return newError(http.StatusConflict, "restricted_delete", msg)
}

func ValidationError(msg string) error {
	return newError(http.StatusUnprocessableEntity, "validation_error", msg)
}

func ValidationTypeError(msg string) error {
	return newError(http.StatusUnprocessableEntity, "validation_type_error", msg)
}

func UnknownParameter(param string) error {
	return newError(http.StatusUnprocessableEntity, "unknown_parameter", fmt.Sprintf("Unknown Parameter %q", param))
}

func UnsupportedMediaType() error {
	return newError(http.StatusUnsupportedMediaType, "unsupported_media_type", "Unsupported Media Type")
}

func MalformedPayload() error {
	return newError(http.StatusBadRequest, "malformed_payload", "Malformed Payload")
}

func EmptyRequestBody() error {
	return newError(http.StatusBadRequest, "empty_request_body", "Request body can't be empty.")
}

func TooManyRequests() error {
	return newError(http.StatusTooManyRequests, "too_many_requests", "Too many requests, slow down.")
}
