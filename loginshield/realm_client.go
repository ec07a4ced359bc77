package loginshield

import "context"

// RealmClient is the LoginShield client. It is immutable after
// construction and safe for concurrent use.
type RealmClient struct {
	exec *executor
}

// NewRealmClient resolves cfg against its defaults and returns a client.
// Configuration errors wrap ErrInvalidConfig.
func NewRealmClient(cfg Config, opts ...Option) (*RealmClient, error) {
	s, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	exec, err := newExecutor(s, opts)
	if err != nil {
		return nil, err
	}
	return &RealmClient{exec: exec}, nil
}

// EndpointURL returns the resolved service URL.
func (c *RealmClient) EndpointURL() string { return c.exec.endpointURL }

// RealmID returns the resolved realm identifier.
func (c *RealmClient) RealmID() string { return c.exec.realmID }

// CreateRealmUser registers a user with the immediate method. A 2xx body
// with isCreated true is returned as-is.
func (c *RealmClient) CreateRealmUser(ctx context.Context, req CreateRealmUserRequest) (*CreateRealmUserResponse, *ErrorResult) {
	return c.exec.createRealmUser(ctx, req)
}

// CreateRealmUserWithRedirect registers a user with the redirect method.
// Success requires isCreated and a forward URL on the configured endpoint.
func (c *RealmClient) CreateRealmUserWithRedirect(ctx context.Context, req CreateRealmUserWithRedirectRequest) (*CreateRealmUserResponse, *ErrorResult) {
	return c.exec.createRealmUserWithRedirect(ctx, req)
}

// StartLogin starts a login. Success requires a forward URL on the
// configured endpoint.
func (c *RealmClient) StartLogin(ctx context.Context, req StartLoginRequest) (*StartLoginResponse, *ErrorResult) {
	return c.exec.startLogin(ctx, req)
}

// VerifyLogin verifies the token LoginShield returned to the realm. Any
// non-empty 2xx body is a success. On failure the result carries only
// KindLoginFailed; the cause is logged.
func (c *RealmClient) VerifyLogin(ctx context.Context, token string) (*VerifyLoginResponse, *ErrorResult) {
	return c.exec.verifyLogin(ctx, token)
}

// GetRealmInfoByID looks up a realm by id. A non-2xx answer is returned as
// *HTTPException; other failures are returned unchanged.
func (c *RealmClient) GetRealmInfoByID(ctx context.Context, id string) (RealmInfo, error) {
	return c.exec.realmInfo(ctx, opGetRealmInfoByID, "id", id)
}

// GetRealmInfoByURI looks up a realm by uri, with the same error policy as
// GetRealmInfoByID.
func (c *RealmClient) GetRealmInfoByURI(ctx context.Context, uri string) (RealmInfo, error) {
	return c.exec.realmInfo(ctx, opGetRealmInfoByURI, "uri", uri)
}
