package httpclient

import (
	"net/http"
	"strconv"
	"strings"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method (GET, POST, ...).
	Method string
	// Path is appended to the client's BaseURL. Can be a full URL if BaseURL is empty.
	Path string
	// Headers are request-specific headers, applied after the client defaults.
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Body is the request body. Accepts []byte, string, or any value
	// that will be JSON-encoded.
	Body any
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the status line, e.g. "404 Not Found".
	Status string
	// Headers are the response headers; repeated values are joined with ", ".
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// StatusText returns the reason phrase of the status line, falling back
// to the standard text for the code.
func (r *Response) StatusText() string {
	prefix := strconv.Itoa(r.StatusCode) + " "
	if text, ok := strings.CutPrefix(r.Status, prefix); ok && text != "" {
		return text
	}
	return http.StatusText(r.StatusCode)
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
