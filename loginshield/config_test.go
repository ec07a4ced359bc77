package loginshield

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cryptium/loginshield-go/config"
	"github.com/cryptium/loginshield-go/security"
)

func TestConfig_Resolve_Defaults(t *testing.T) {
	defaults := StaticDefaults{
		EndpointURL:        "https://env.example",
		RealmID:            "env-realm",
		AuthorizationToken: "env-token",
	}

	s, err := Config{RealmID: "explicit-realm", Defaults: defaults}.resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.endpointURL != "https://env.example" {
		t.Errorf("expected endpoint from defaults, got %q", s.endpointURL)
	}
	if s.realmID != "explicit-realm" {
		t.Errorf("expected explicit realm to win, got %q", s.realmID)
	}
	h, _ := s.authorization.Headers(context.Background(), "")
	if h[HeaderAuthorization] != "Token env-token" {
		t.Errorf("expected token from defaults, got %q", h[HeaderAuthorization])
	}
}

func TestConfig_Resolve_ExplicitProviderSkipsDefaultToken(t *testing.T) {
	provider := TokenAuthorization("explicit")
	s, err := Config{
		EndpointURL:   "https://a.example",
		Authorization: provider,
		Defaults:      StaticDefaults{AuthorizationToken: "env-token"},
	}.resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h, _ := s.authorization.Headers(context.Background(), "")
	if h[HeaderAuthorization] != "Token explicit" {
		t.Errorf("expected explicit provider, got %q", h[HeaderAuthorization])
	}
}

func TestConfig_Resolve_NoToken(t *testing.T) {
	s, err := Config{EndpointURL: "https://a.example"}.resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.authorization != nil {
		t.Error("expected no authorization provider")
	}
}

func TestConfig_Resolve_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing endpoint", Config{}},
		{"relative endpoint", Config{EndpointURL: "/service"}},
		{"non-http endpoint", Config{EndpointURL: "ftp://a.example"}},
		{"both token forms", Config{EndpointURL: "https://a.example", AuthorizationToken: "t", Authorization: TokenAuthorization("t")}},
		{"negative timeout", Config{EndpointURL: "https://a.example", Timeout: -time.Second}},
		{"bad tls", Config{EndpointURL: "https://a.example", TLS: &security.TLSConfig{MinVersion: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRealmClient(tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConfig_RequestURL(t *testing.T) {
	for _, endpoint := range []string{"https://a.example", "https://a.example/"} {
		s := settings{endpointURL: endpoint}
		if got := s.requestURL(PathLoginVerify); got != "https://a.example/service/realm/login/verify" {
			t.Errorf("requestURL(%q) = %q", endpoint, got)
		}
	}
}

func TestLoadEnvironmentDefaults_Env(t *testing.T) {
	t.Setenv("LOGINSHIELD_ENDPOINT_URL", "https://env.example")
	t.Setenv("LOGINSHIELD_REALM_ID", "realm-1")
	t.Setenv("LOGINSHIELD_AUTHORIZATION_TOKEN", "tok-1")

	d, err := LoadEnvironmentDefaults(config.WithoutSearch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := DefaultValues{EndpointURL: "https://env.example", RealmID: "realm-1", AuthorizationToken: "tok-1"}
	if d.Defaults() != want {
		t.Errorf("got %+v, want %+v", d.Defaults(), want)
	}
}

func TestLoadEnvironmentDefaults_ConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loginshield.yml")
	yaml := "loginshield:\n  endpoint_url: https://file.example\n  realm_id: file-realm\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("LOGINSHIELD_REALM_ID", "env-realm")

	d, err := LoadEnvironmentDefaults(config.WithConfigFile(path), config.WithoutSearch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := d.Defaults()
	if got.EndpointURL != "https://file.example" {
		t.Errorf("expected endpoint from file, got %q", got.EndpointURL)
	}
	if got.RealmID != "env-realm" {
		t.Errorf("expected env to override file, got %q", got.RealmID)
	}
}

func TestLoadEnvironmentDefaults_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("LOGINSHIELD_AUTHORIZATION_TOKEN=dotenv-token\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	// godotenv does not override existing variables; make sure it is unset
	// and restored afterwards.
	t.Setenv("LOGINSHIELD_AUTHORIZATION_TOKEN", "")
	os.Unsetenv("LOGINSHIELD_AUTHORIZATION_TOKEN")

	d, err := LoadEnvironmentDefaults(config.WithEnvFile(path), config.WithoutSearch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.Defaults().AuthorizationToken; got != "dotenv-token" {
		t.Errorf("expected token from .env, got %q", got)
	}
}
