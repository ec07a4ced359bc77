package validation

import (
	"errors"
	"strings"
	"testing"
)

type loginRequest struct {
	RealmScopedUserID string `json:"realmScopedUserId" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	Redirect          string `json:"redirect,omitempty" validate:"omitempty,url"`
	Note              string `validate:"max=3"`
}

func TestValidateValid(t *testing.T) {
	req := loginRequest{RealmScopedUserID: "u1", Email: "a@example.com", Redirect: "https://app.example/cb"}
	if err := Validate(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateFieldErrors(t *testing.T) {
	req := loginRequest{Email: "not-an-email", Redirect: "::nope", Note: "toolong"}
	err := Validate(req)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected errors.Is(err, ErrInvalid)")
	}

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}

	tests := []struct {
		field string
		want  string
	}{
		{"realmScopedUserId", "is required"},
		{"email", "must be a valid email address"},
		{"redirect", "must be a valid URL"},
		{"Note", "must be at most 3 characters"},
	}
	for _, tc := range tests {
		got, ok := verr.Field(tc.field)
		if !ok {
			t.Errorf("missing field error for %q in %v", tc.field, verr.Fields)
			continue
		}
		if got != tc.want {
			t.Errorf("field %q: got %q, want %q", tc.field, got, tc.want)
		}
	}
	if !strings.HasPrefix(err.Error(), "validation failed: ") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestVar(t *testing.T) {
	if err := Var("token", "abc", "required"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := Var("token", "", "required")
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if msg, _ := verr.Field("token"); msg != "is required" {
		t.Errorf("unexpected message %q", msg)
	}
}
