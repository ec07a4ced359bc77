// Package version carries build information for the SDK and its CLI.
//
// Version and git commit are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/cryptium/loginshield-go/version.Version=1.2.0" ./cmd/loginshield
//
// When unset, the commit and build time are taken from the module's
// embedded VCS build settings.
package version
