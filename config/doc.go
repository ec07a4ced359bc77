// Package config loads SDK and CLI configuration with Viper.
//
// Values come from three layers, later layers winning:
//
//  1. a YAML config file (explicit, or found by searching standard locations)
//  2. process environment variables
//  3. a .env file loaded with godotenv (which never overrides variables that
//     are already set in the process environment)
//
// Environment variables are bound under every nested key spelling, so
// LOGINSHIELD_ENDPOINT_URL populates a struct field tagged
// `mapstructure:"endpoint_url"` inside a `mapstructure:"loginshield"` section.
//
// # Usage
//
//	var cfg struct {
//	    LoginShield struct {
//	        EndpointURL string `mapstructure:"endpoint_url"`
//	    } `mapstructure:"loginshield"`
//	}
//	err := config.LoadConfig("loginshield", &cfg, config.WithEnvPrefix("LOGINSHIELD_"))
package config
