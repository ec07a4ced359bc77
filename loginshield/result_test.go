package loginshield

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/cryptium/loginshield-go/httpclient"
)

func TestHTTPException(t *testing.T) {
	cause := &httpclient.Error{Code: httpclient.ErrCodeNotFound, Response: &httpclient.Response{StatusCode: 404, Status: "404 Not Found"}}
	resp := &Response{Status: 404, StatusText: "Not Found", Headers: map[string]string{}, Data: []byte(`{}`)}
	e := newHTTPException(resp, cause)

	if e.Message != "404 Not Found" || e.Error() != "404 Not Found" {
		t.Errorf("unexpected message %q", e.Message)
	}
	if e.Response != resp {
		t.Error("expected response to be kept")
	}
	if !errors.Is(e, cause) {
		t.Error("expected exception to unwrap to its cause")
	}
}

func TestFailureCause(t *testing.T) {
	plain := errors.New("dial tcp: refused")
	if got := failureCause(nil, plain); got != plain {
		t.Errorf("expected error unchanged without a response, got %v", got)
	}

	var he *HTTPException
	if !errors.As(failureCause(&Response{Status: 500, StatusText: "Internal Server Error"}, plain), &he) {
		t.Error("expected HTTPException when a response was captured")
	}
}

func TestResponse_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"json", `{"a":1}`, `{"status":200,"statusText":"OK","headers":{"X":"y"},"data":{"a":1}}`},
		{"text", `plain text`, `{"status":200,"statusText":"OK","headers":{"X":"y"},"data":"plain text"}`},
		{"empty", ``, `{"status":200,"statusText":"OK","headers":{"X":"y"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Response{Status: 200, StatusText: "OK", Headers: map[string]string{"X": "y"}, Data: []byte(tt.data)}
			got, err := json.Marshal(r)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestErrorResult_JSON(t *testing.T) {
	r := ErrorResult{Error: KindRegistrationFailed, Err: errors.New("x")}
	got, _ := json.Marshal(r)
	if string(got) != `{"error":"registration-failed"}` {
		t.Errorf("unexpected JSON %s", got)
	}
}

func TestNewResponse(t *testing.T) {
	if newResponse(nil) != nil {
		t.Error("expected nil for nil transport response")
	}
	r := newResponse(&httpclient.Response{StatusCode: 418, Status: "418 I'm a teapot", Headers: map[string]string{"A": "b"}, Body: []byte("x")})
	if r.Status != 418 || r.StatusText != "I'm a teapot" || r.Headers["A"] != "b" || string(r.Data) != "x" {
		t.Errorf("unexpected response %+v", r)
	}
}
