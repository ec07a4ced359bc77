// Package loginshield is a client SDK for the LoginShield authentication
// service. It registers users in an authentication realm and drives the
// redirect-based login and verification flow.
//
// Two client variants are offered over the same request executor:
//
//   - RealmClient supports deferred header providers and the realm info
//     lookups. Lookups return *HTTPException when the service answered
//     with a non-2xx status and otherwise pass the transport error through.
//   - LegacyClient is built from endpoint, realm and a literal token only.
//
// The user and login operations of both clients never return an error value.
// They return either a success body or an *ErrorResult tagged with an
// ErrorKind that the caller branches on:
//
//	res, fail := client.StartLogin(ctx, loginshield.StartLoginRequest{
//	    RealmScopedUserID: "user-1",
//	})
//	if fail != nil {
//	    switch fail.Error {
//	    case loginshield.KindUnexpectedResponse:
//	        // the service answered but not with a forward URL
//	    case loginshield.KindLoginFailed:
//	        // fail.Err holds the cause
//	    }
//	    return
//	}
//	http.Redirect(w, r, res.Forward, http.StatusSeeOther)
//
// Every operation makes exactly one HTTP round trip. Nothing is retried.
//
// Configuration fields left empty fall back to an injected
// EnvironmentDefaults. LoadEnvironmentDefaults reads LOGINSHIELD_ENDPOINT_URL,
// LOGINSHIELD_REALM_ID and LOGINSHIELD_AUTHORIZATION_TOKEN from the process
// environment, a .env file or a config.yml.
package loginshield
