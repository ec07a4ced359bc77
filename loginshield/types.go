package loginshield

import "encoding/json"

// Service paths relative to the endpoint URL.
const (
	PathRealmUserCreate = "/service/realm/user/create"
	PathLoginStart      = "/service/realm/login/start"
	PathLoginVerify     = "/service/realm/login/verify"
	PathRealm           = "/service/realm"
)

// CreateRealmUserRequest registers a user with the immediate method. On
// success the caller continues with a first login using IsNewKey.
type CreateRealmUserRequest struct {
	// RealmScopedUserID is how LoginShield identifies the user in this realm.
	RealmScopedUserID string `json:"realmScopedUserId" validate:"required"`
	// Name is the user's display name.
	Name string `json:"name" validate:"required"`
	// Email is the user's email address.
	Email string `json:"email" validate:"required"`
	// Replace asks the service to replace an existing registration.
	Replace *bool `json:"replace,omitempty"`
}

// CreateRealmUserWithRedirectRequest registers a user with the redirect
// method. The service returns a forward URL for the browser and later sends
// the user back to Redirect.
type CreateRealmUserWithRedirectRequest struct {
	RealmScopedUserID string `json:"realmScopedUserId" validate:"required"`
	Redirect          string `json:"redirect" validate:"required"`
}

// StartLoginRequest starts a login.
type StartLoginRequest struct {
	RealmScopedUserID string `json:"realmScopedUserId" validate:"required"`
	// Redirect is only used by the service for a safety reset, after which
	// it calls back with a "loginshield" query parameter appended.
	Redirect string `json:"redirect,omitempty"`
	// IsNewKey marks the first login that completes key registration.
	IsNewKey bool `json:"isNewKey"`
}

type createRealmUserBody struct {
	RealmID           string `json:"realmId,omitempty"`
	RealmScopedUserID string `json:"realmScopedUserId"`
	Name              string `json:"name,omitempty"`
	Email             string `json:"email,omitempty"`
	Redirect          string `json:"redirect,omitempty"`
	Replace           *bool  `json:"replace,omitempty"`
}

type startLoginBody struct {
	RealmID  string `json:"realmId,omitempty"`
	UserID   string `json:"userId"`
	IsNewKey bool   `json:"isNewKey"`
	Redirect string `json:"redirect,omitempty"`
}

type verifyLoginBody struct {
	Token string `json:"token"`
}

// CreateRealmUserResponse is the success body of both create operations.
type CreateRealmUserResponse struct {
	IsCreated bool            `json:"isCreated"`
	Forward   string          `json:"forward,omitempty"`
	Fault     json.RawMessage `json:"fault,omitempty"`
	// Raw is the response body as received.
	Raw json.RawMessage `json:"-"`
}

// StartLoginResponse carries the URL the browser should be sent to.
type StartLoginResponse struct {
	Forward string          `json:"forward"`
	Raw     json.RawMessage `json:"-"`
}

// VerifyLoginResponse is the verify body. Its shape depends on the login
// outcome, so only commonly present fields are decoded; Raw always holds the
// body as received.
type VerifyLoginResponse struct {
	IsAuthenticated   bool            `json:"isAuthenticated"`
	RealmID           string          `json:"realmId,omitempty"`
	RealmScopedUserID string          `json:"realmScopedUserId,omitempty"`
	Fault             json.RawMessage `json:"fault,omitempty"`
	Raw               json.RawMessage `json:"-"`
}

// RealmInfo is the parsed realm info object.
type RealmInfo map[string]any

// String returns the string value stored under key, if any.
func (r RealmInfo) String(key string) string {
	s, _ := r[key].(string)
	return s
}
