// Package httpclient is the JSON-over-HTTPS transport used by the
// LoginShield SDK.
//
// A Client performs exactly one round trip per Do call: no retries,
// circuit breaking or caching. It captures the full response (status, status
// text, headers and body), classifies non-2xx statuses into typed *Error
// values, and records an OpenTelemetry span plus request metrics for every
// call.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://loginshield.example",
//	    Timeout: 30 * time.Second,
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method:  http.MethodPost,
//	    Path:    "/service/realm/login/verify",
//	    Headers: map[string]string{"Content-Type": "application/json"},
//	    Body:    map[string]string{"token": token},
//	})
//
// On a non-2xx status Do returns both the captured *Response and an *Error.
// On a connection failure it returns a nil response and an *Error whose
// Code is ErrCodeConnection or ErrCodeTimeout.
package httpclient
