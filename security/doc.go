// Package security holds the TLS settings used by the SDK transport when
// talking to a LoginShield endpoint.
//
//	cfg := security.TLSConfig{CAFile: "/etc/ssl/loginshield-ca.pem"}
//	tlsConfig, err := cfg.Build()
//
// A nil or zero TLSConfig builds to a nil *tls.Config, meaning the system
// roots and Go defaults are used.
package security
