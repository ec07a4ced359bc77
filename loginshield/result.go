package loginshield

import (
	"encoding/json"
	"fmt"

	"github.com/cryptium/loginshield-go/httpclient"
)

// ErrorKind tags a failed operation.
type ErrorKind string

const (
	// KindUnexpectedResponse means the service answered with a 2xx status
	// but the body did not have the expected shape.
	KindUnexpectedResponse ErrorKind = "unexpected-response"
	// KindRegistrationFailed means a create call did not reach a 2xx response.
	KindRegistrationFailed ErrorKind = "registration-failed"
	// KindLoginFailed means a login call did not reach a 2xx response.
	KindLoginFailed ErrorKind = "login-failed"
)

// ErrorResult is the value returned instead of a success body. It is not an
// error: callers branch on Error.
//
// For KindUnexpectedResponse, Response is the full captured response. For
// the failure kinds, Err holds the cause, an *HTTPException when the service
// answered with a non-2xx status. VerifyLogin never sets Err.
type ErrorResult struct {
	Error    ErrorKind `json:"error"`
	Response *Response `json:"response,omitempty"`
	Err      error     `json:"-"`
}

// Response is a captured HTTP response.
type Response struct {
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	Headers    map[string]string `json:"headers"`
	Data       []byte            `json:"-"`
}

// MarshalJSON renders Data inline when it is JSON and as a string otherwise.
func (r *Response) MarshalJSON() ([]byte, error) {
	type alias Response
	out := struct {
		*alias
		Data json.RawMessage `json:"data,omitempty"`
	}{alias: (*alias)(r)}
	switch {
	case len(r.Data) == 0:
	case json.Valid(r.Data):
		out.Data = r.Data
	default:
		s, err := json.Marshal(string(r.Data))
		if err != nil {
			return nil, err
		}
		out.Data = s
	}
	return json.Marshal(out)
}

func newResponse(r *httpclient.Response) *Response {
	if r == nil {
		return nil
	}
	return &Response{
		Status:     r.StatusCode,
		StatusText: r.StatusText(),
		Headers:    r.Headers,
		Data:       r.Body,
	}
}

// HTTPException reports a non-2xx response from the service.
type HTTPException struct {
	// Message is "<status> <statusText>".
	Message  string
	Response *Response
	cause    error
}

func newHTTPException(resp *Response, cause error) *HTTPException {
	return &HTTPException{
		Message:  fmt.Sprintf("%d %s", resp.Status, resp.StatusText),
		Response: resp,
		cause:    cause,
	}
}

// Error implements the error interface.
func (e *HTTPException) Error() string {
	return e.Message
}

// Unwrap returns the transport error, an *httpclient.Error.
func (e *HTTPException) Unwrap() error {
	return e.cause
}

// failureCause converts a transport failure into the error a caller sees.
func failureCause(resp *Response, err error) error {
	if resp != nil {
		return newHTTPException(resp, err)
	}
	return err
}
