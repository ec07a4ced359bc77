// Package loginshieldtest runs an in-process fake LoginShield service for
// tests.
//
//	srv := loginshieldtest.New(t, loginshieldtest.WithAuthorizationToken("T1"))
//	client, _ := loginshield.NewRealmClient(loginshield.Config{
//	    EndpointURL:        srv.URL,
//	    RealmID:            srv.RealmID(),
//	    AuthorizationToken: "T1",
//	})
//
// The service keeps realms and users in memory, issues HS256 signed login
// tokens, and records every request it receives. Respond replaces one
// endpoint with a canned answer to exercise failure paths.
package loginshieldtest
