// Command loginshield calls the LoginShield service from the command line.
//
//	loginshield realm-info --id <realm-id>
//	loginshield create-user --user-id u1 --name Ann --email ann@example.com
//	loginshield start-login --user-id u1 --new-key
//	loginshield verify-login <token>
//
// Endpoint, realm and token come from flags, LOGINSHIELD_* environment
// variables, a .env file or the loginshield section of a config.yml.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
