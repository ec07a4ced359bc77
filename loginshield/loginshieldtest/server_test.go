package loginshieldtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cryptium/loginshield-go/logger"
)

func post(t *testing.T, s *Server, path, token, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	resp, err := s.Client().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	var out map[string]any
	_ = json.Unmarshal(data, &out)
	return resp.StatusCode, out
}

func TestServer_Authorization(t *testing.T) {
	s := New(t, WithAuthorizationToken("T1"))

	status, _ := post(t, s, "/service/realm/login/verify", "wrong", `{"token":"x"}`)
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", status)
	}
	status, _ = post(t, s, "/service/realm/login/verify", "T1", `{"token":"x"}`)
	if status != http.StatusOK {
		t.Errorf("expected 200, got %d", status)
	}
}

func TestServer_CreateUser(t *testing.T) {
	s := New(t)
	body := `{"realmId":"` + s.RealmID() + `","realmScopedUserId":"u1","name":"Ann","email":"ann@example.com"}`

	status, out := post(t, s, "/service/realm/user/create", "", body)
	if status != http.StatusOK || out["isCreated"] != true {
		t.Fatalf("expected created, got %d %v", status, out)
	}
	if _, ok := s.User(s.RealmID(), "u1"); !ok {
		t.Error("expected user to be stored")
	}

	_, out = post(t, s, "/service/realm/user/create", "", body)
	if out["isCreated"] != false {
		t.Errorf("expected duplicate to be rejected, got %v", out)
	}

	replace := `{"realmId":"` + s.RealmID() + `","realmScopedUserId":"u1","name":"Ann B","email":"ann@example.com","replace":true}`
	_, out = post(t, s, "/service/realm/user/create", "", replace)
	if out["isCreated"] != true {
		t.Errorf("expected replace to succeed, got %v", out)
	}
}

func TestServer_CreateUserWithRedirect(t *testing.T) {
	s := New(t)
	body := `{"realmId":"` + s.RealmID() + `","realmScopedUserId":"u2","redirect":"https://app.example/done"}`

	_, out := post(t, s, "/service/realm/user/create", "", body)
	forward, _ := out["forward"].(string)
	if !strings.HasPrefix(forward, s.URL+"/account/realm/link?") {
		t.Fatalf("unexpected forward %q", forward)
	}
}

func TestServer_ForwardURLOverride(t *testing.T) {
	s := New(t, WithForwardURL("https://evil.example"))
	s.AddUser(User{RealmID: s.RealmID(), RealmScopedUserID: "u3"})

	_, out := post(t, s, "/service/realm/login/start", "", `{"realmId":"`+s.RealmID()+`","userId":"u3"}`)
	forward, _ := out["forward"].(string)
	if !strings.HasPrefix(forward, "https://evil.example/") {
		t.Errorf("expected overridden forward base, got %q", forward)
	}
}

func TestServer_LoginFlow(t *testing.T) {
	s := New(t)
	s.AddUser(User{RealmID: s.RealmID(), RealmScopedUserID: "u4"})

	_, out := post(t, s, "/service/realm/login/start", "", `{"realmId":"`+s.RealmID()+`","userId":"u4","isNewKey":true}`)
	forward, _ := out["forward"].(string)
	if forward == "" {
		t.Fatalf("expected forward, got %v", out)
	}

	token, err := s.CompleteLogin(forward)
	if err != nil {
		t.Fatalf("complete login: %v", err)
	}

	_, out = post(t, s, "/service/realm/login/verify", "", `{"token":"`+token+`"}`)
	if out["isAuthenticated"] != true || out["realmScopedUserId"] != "u4" || out["isNewKey"] != true {
		t.Fatalf("unexpected verify result %v", out)
	}

	_, out = post(t, s, "/service/realm/login/verify", "", `{"token":"`+token+`"}`)
	if out["isAuthenticated"] != false {
		t.Errorf("expected reused token to fail, got %v", out)
	}
}

func TestServer_StartTokenCannotVerify(t *testing.T) {
	s := New(t)
	s.AddUser(User{RealmID: s.RealmID(), RealmScopedUserID: "u5"})

	_, out := post(t, s, "/service/realm/login/start", "", `{"realmId":"`+s.RealmID()+`","userId":"u5"}`)
	u, _ := url.Parse(out["forward"].(string))

	_, out = post(t, s, "/service/realm/login/verify", "", `{"token":"`+u.Query().Get("token")+`"}`)
	if out["isAuthenticated"] != false {
		t.Errorf("expected start token to be rejected by verify, got %v", out)
	}
}

func TestServer_ExpiredToken(t *testing.T) {
	s := New(t, WithTokenTTL(-time.Minute))
	token, err := s.IssueVerifyToken(s.RealmID(), "u6")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, out := post(t, s, "/service/realm/login/verify", "", `{"token":"`+token+`"}`)
	if out["isAuthenticated"] != false {
		t.Errorf("expected expired token to fail, got %v", out)
	}
}

func TestServer_RealmInfo(t *testing.T) {
	s := New(t, WithRealm(Realm{ID: "r2", URI: "https://two.example", Name: "Two"}))

	tests := []struct {
		query  string
		status int
		name   string
	}{
		{"id=" + s.RealmID(), http.StatusOK, "Example Realm"},
		{"uri=" + url.QueryEscape("https://two.example"), http.StatusOK, "Two"},
		{"id=missing", http.StatusNotFound, ""},
		{"", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := s.Client().Get(s.URL + "/service/realm?" + tt.query)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			var r Realm
			_ = json.NewDecoder(resp.Body).Decode(&r)
			if r.Name != tt.name {
				t.Errorf("expected name %q, got %q", tt.name, r.Name)
			}
		})
	}
}

func TestServer_RespondAndRecord(t *testing.T) {
	s := New(t)
	s.Respond(http.MethodPost, "/service/realm/login/verify", http.StatusTeapot, `{"x":1}`)

	status, out := post(t, s, "/service/realm/login/verify", "", `{"token":"abc"}`)
	if status != http.StatusTeapot || out["x"] != float64(1) {
		t.Errorf("expected canned answer, got %d %v", status, out)
	}

	last, ok := s.LastRequest()
	if !ok || string(last.Body) != `{"token":"abc"}` {
		t.Errorf("expected recorded body, got %q", last.Body)
	}

	s.Reset()
	if len(s.Requests()) != 0 {
		t.Error("expected Reset to clear requests")
	}
	status, _ = post(t, s, "/service/realm/login/verify", "", `{"token":"abc"}`)
	if status != http.StatusOK {
		t.Errorf("expected real handler after Reset, got %d", status)
	}
}

func TestServer_RequestLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, &logger.Config{Level: "debug", Format: "json"}, "loginshieldtest")
	s := New(t, WithAuthorizationToken("T1"), WithLogger(log))

	post(t, s, "/service/realm/login/verify", "wrong", `{"token":"x"}`)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log is not one JSON line: %v\n%s", err, buf.String())
	}
	if entry["level"] != "warn" || entry["path"] != "/service/realm/login/verify" {
		t.Errorf("unexpected log entry: %v", entry)
	}
	if status, _ := entry["status"].(float64); status != http.StatusUnauthorized {
		t.Errorf("status = %v", entry["status"])
	}
}
