package logger

import (
	"net/http"
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldOperation  = "operation"
	FieldRealmID    = "realm_id"
	FieldMethod     = "method"
	FieldURL        = "url"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldStatusText = "status_text"
	FieldHeaders    = "headers"
	FieldData       = "data"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
)

// redacted replaces credential values in logged header maps.
const redacted = "[REDACTED]"

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("done", logger.Fields("op", "verifyLogin", "status", 200))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields is Fields with the error message added.
func ErrorFields(err error, kvs ...interface{}) map[string]interface{} {
	m := Fields(kvs...)
	m[FieldError] = err.Error()
	return m
}

// DurationFields is Fields with d added in milliseconds.
func DurationFields(d time.Duration, kvs ...interface{}) map[string]interface{} {
	m := Fields(kvs...)
	m[FieldDuration] = d.Milliseconds()
	return m
}

// RedactHeaders returns a copy of headers that is safe to log.
// Authorization and cookie values are replaced.
func RedactHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		switch http.CanonicalHeaderKey(k) {
		case "Authorization", "Cookie", "Set-Cookie", "Proxy-Authorization":
			out[k] = redacted
		default:
			out[k] = v
		}
	}
	return out
}
