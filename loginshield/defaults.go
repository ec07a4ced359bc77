package loginshield

import (
	"github.com/cryptium/loginshield-go/config"
)

// serviceName is the name used to locate config.yml and .env files.
const serviceName = "loginshield"

// EnvPrefix is the prefix of the environment variables read by
// LoadEnvironmentDefaults.
const EnvPrefix = "LOGINSHIELD_"

// DefaultValues are process-wide fallbacks for Config fields.
type DefaultValues struct {
	EndpointURL        string `yaml:"endpoint_url" mapstructure:"endpoint_url"`
	RealmID            string `yaml:"realm_id" mapstructure:"realm_id"`
	AuthorizationToken string `yaml:"authorization_token" mapstructure:"authorization_token"`
}

// EnvironmentDefaults supplies fallback configuration to client constructors.
type EnvironmentDefaults interface {
	Defaults() DefaultValues
}

// StaticDefaults is an in-memory EnvironmentDefaults.
type StaticDefaults DefaultValues

// Defaults implements EnvironmentDefaults.
func (s StaticDefaults) Defaults() DefaultValues {
	return DefaultValues(s)
}

type defaultsFile struct {
	LoginShield DefaultValues `yaml:"loginshield" mapstructure:"loginshield"`
}

// LoadEnvironmentDefaults reads LOGINSHIELD_ENDPOINT_URL, LOGINSHIELD_REALM_ID
// and LOGINSHIELD_AUTHORIZATION_TOKEN. Values may also come from a .env file
// or from the loginshield section of a config.yml; environment variables win.
// The result is a snapshot and does not track later environment changes.
func LoadEnvironmentDefaults(opts ...config.LoaderOption) (StaticDefaults, error) {
	var f defaultsFile
	opts = append([]config.LoaderOption{config.WithEnvPrefix(EnvPrefix)}, opts...)
	if err := config.LoadConfig(serviceName, &f, opts...); err != nil {
		return StaticDefaults{}, err
	}
	return StaticDefaults(f.LoginShield), nil
}
