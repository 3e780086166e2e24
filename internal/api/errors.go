package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned when the server answers with a non-2xx status.
// Code is the machine-readable code from the error envelope (or a
// synthetic "HTTP_<status>" when the body was not a valid envelope),
// Message is human-readable, and ReqID correlates with server logs
// when present.
type APIError struct {
	Status  int
	Code    string
	Message string
	ReqID   string
}

func (e *APIError) Error() string {
	if e.ReqID != "" {
		return fmt.Sprintf("api: %d [%s] %s (reqId %s)", e.Status, e.Code, e.Message, e.ReqID)
	}
	return fmt.Sprintf("api: %d [%s] %s", e.Status, e.Code, e.Message)
}

// DecodeError is returned when the call succeeded but the response body
// did not match the expected shape. Kept distinct from APIError so
// callers can tell "the server said no" from "we could not read what
// the server said".
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "api: decoding response: " + e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an APIError with a 404 status and
// the NOT_FOUND code.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound && apiErr.Code == "NOT_FOUND"
}

// IsUnauthorized reports whether err is an APIError with a 401 status.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
