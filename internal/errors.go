package internal

import (
	"errors"
	"fmt"
)

// Generic errors
var (
	// ErrUnauthorized is returned when a receiving a 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrResourceNotFound is returned when a receiving a 404.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrTimeout is returned when a request times out.
	ErrTimeout = errors.New("timeout")

	// ErrConflict is returned when a receiving a 409.
	ErrConflict = errors.New("resource conflict detected")

	// ErrRequiredOrg is returned when the organization option is not present
	ErrRequiredOrg = errors.New("organization is required")

	// ErrMissingToken is returned when no API token can be found.
	ErrMissingToken = errors.New("missing API token")
)

type (
	// ConfigError occurs when the program is mis-configured. It is fatal and
	// is reported before any request is made.
	ConfigError struct {
		Err error
	}

	// HTTPError occurs when a request fails, either because of a transport
	// failure or because of a non-successful response status. Code is zero
	// for transport failures.
	HTTPError struct {
		URL     string
		Code    int
		Message string

		err error
	}

	// DataShapeError occurs when an API response or record does not have the
	// expected shape.
	DataShapeError struct {
		// Source is the URL or record ID where the problem was found.
		Source  string
		Message string
	}
)

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Err.Error())
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewHTTPError constructs an error for a response with a non-successful
// status code.
func NewHTTPError(url string, code int, msg string) *HTTPError {
	e := &HTTPError{URL: url, Code: code, Message: msg}
	switch code {
	case 401:
		e.err = ErrUnauthorized
	case 404:
		e.err = ErrResourceNotFound
	case 408, 504:
		e.err = ErrTimeout
	case 409:
		e.err = ErrConflict
	}
	return e
}

// NewTransportError constructs an error for a request that received no
// response.
func NewTransportError(url string, err error) *HTTPError {
	return &HTTPError{URL: url, Message: err.Error(), err: err}
}

func (e *HTTPError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("GET %s: %s", e.URL, e.Message)
	}
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.Code, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.err }

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("unexpected data from %s: %s", e.Source, e.Message)
}
