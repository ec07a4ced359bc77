package httpclient

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failed round trip.
type ErrorCode int

const (
	// ErrCodeTimeout: the context or transport deadline expired.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection: the service could not be reached or the body could
	// not be read.
	ErrCodeConnection
	// ErrCodeInvalidRequest: the request could not be built locally.
	ErrCodeInvalidRequest
	// ErrCodeAuth: 401 or 403.
	ErrCodeAuth
	// ErrCodeNotFound: 404.
	ErrCodeNotFound
	// ErrCodeRateLimit: 429.
	ErrCodeRateLimit
	// ErrCodeClient: any other 4xx.
	ErrCodeClient
	// ErrCodeServer: 5xx and unexpected status classes.
	ErrCodeServer
)

var codeNames = map[ErrorCode]string{
	ErrCodeTimeout:        "timeout",
	ErrCodeConnection:     "connection",
	ErrCodeInvalidRequest: "invalid_request",
	ErrCodeAuth:           "auth",
	ErrCodeNotFound:       "not_found",
	ErrCodeRateLimit:      "rate_limit",
	ErrCodeClient:         "client",
	ErrCodeServer:         "server",
}

// String returns the code name used in logs and metric attributes.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown"
}

// Error is a classified transport failure. Status failures carry the
// captured Response and no Err; local and network failures carry Err and no
// Response.
type Error struct {
	Code     ErrorCode
	Response *Response
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Response != nil {
		return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Response.Status)
	}
	return fmt.Sprintf("httpclient: %s: %v", e.Code, e.Err)
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Temporary reports whether the same request might succeed later. The
// client never acts on this itself.
func (e *Error) Temporary() bool {
	switch e.Code {
	case ErrCodeTimeout, ErrCodeConnection, ErrCodeRateLimit, ErrCodeServer:
		return true
	default:
		return false
	}
}

func newError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Err: err}
}

// statusError classifies a captured response. It returns nil for 2xx.
func statusError(resp *Response) *Error {
	if resp.IsSuccess() {
		return nil
	}
	return &Error{Code: classifyStatus(resp.StatusCode), Response: resp}
}

func classifyStatus(status int) ErrorCode {
	switch {
	case status == 401 || status == 403:
		return ErrCodeAuth
	case status == 404:
		return ErrCodeNotFound
	case status == 429:
		return ErrCodeRateLimit
	case status >= 400 && status < 500:
		return ErrCodeClient
	default:
		return ErrCodeServer
	}
}

// CodeOf returns the classification of err if it wraps an *Error.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsConnection reports whether err is a connection failure.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsNotFound reports whether the service answered 404.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsTemporary reports whether err wraps an *Error that is Temporary.
func IsTemporary(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Temporary()
}

// HasResponse reports whether err carries a captured HTTP response and
// returns it.
func HasResponse(err error) (*Response, bool) {
	var e *Error
	if errors.As(err, &e) && e.Response != nil {
		return e.Response, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
