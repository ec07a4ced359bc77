package loginshield

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/cryptium/loginshield-go/httpclient"
	"github.com/cryptium/loginshield-go/logger"
)

// roundTripFunc lets a test answer requests for hosts that do not exist.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// cannedTransport answers every request with status and body.
func cannedTransport(status int, body string) roundTripFunc {
	return func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Status:     http.StatusText(status),
			Header:     http.Header{"Content-Type": {"application/json"}},
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    r,
		}, nil
	}
}

func withTransport(rt http.RoundTripper) Option {
	return WithHTTPOptions(httpclient.WithTransport(rt))
}

func debugLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.NewWithWriter(buf, &logger.Config{Level: "debug", Format: "json"}, "test")
}

func newTestRealmClient(t *testing.T, cfg Config, opts ...Option) *RealmClient {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	c, err := NewRealmClient(cfg, opts...)
	if err != nil {
		t.Fatalf("NewRealmClient: %v", err)
	}
	return c
}
