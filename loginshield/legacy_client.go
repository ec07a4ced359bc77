package loginshield

import "context"

// LegacyClient is the original value-returning client. It sends a fixed
// token and no custom headers, and has no realm info lookups.
type LegacyClient struct {
	exec *executor
}

// NewLegacyClient resolves cfg against its defaults and returns a client.
func NewLegacyClient(cfg LegacyConfig, opts ...Option) (*LegacyClient, error) {
	s, err := Config{
		EndpointURL:        cfg.EndpointURL,
		RealmID:            cfg.RealmID,
		AuthorizationToken: cfg.AuthorizationToken,
		Defaults:           cfg.Defaults,
	}.resolve()
	if err != nil {
		return nil, err
	}
	exec, err := newExecutor(s, opts)
	if err != nil {
		return nil, err
	}
	return &LegacyClient{exec: exec}, nil
}

// CreateRealmUser registers a user with the immediate method.
func (c *LegacyClient) CreateRealmUser(ctx context.Context, req CreateRealmUserRequest) (*CreateRealmUserResponse, *ErrorResult) {
	return c.exec.createRealmUser(ctx, req)
}

// CreateRealmUserWithRedirect registers a user with the redirect method.
func (c *LegacyClient) CreateRealmUserWithRedirect(ctx context.Context, req CreateRealmUserWithRedirectRequest) (*CreateRealmUserResponse, *ErrorResult) {
	return c.exec.createRealmUserWithRedirect(ctx, req)
}

// StartLogin starts a login.
func (c *LegacyClient) StartLogin(ctx context.Context, req StartLoginRequest) (*StartLoginResponse, *ErrorResult) {
	return c.exec.startLogin(ctx, req)
}

// VerifyLogin verifies a login token.
func (c *LegacyClient) VerifyLogin(ctx context.Context, token string) (*VerifyLoginResponse, *ErrorResult) {
	return c.exec.verifyLogin(ctx, token)
}
