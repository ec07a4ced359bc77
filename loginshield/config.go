package loginshield

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cryptium/loginshield-go/httpclient"
	"github.com/cryptium/loginshield-go/logger"
	"github.com/cryptium/loginshield-go/security"
	"github.com/cryptium/loginshield-go/validation"
)

// ErrInvalidConfig is wrapped by every constructor configuration error.
var ErrInvalidConfig = errors.New("loginshield: invalid config")

// Config configures a RealmClient. Empty fields fall back to Defaults.
type Config struct {
	// EndpointURL is the service base URL, e.g. "https://loginshield.com".
	// Forward URLs returned by the service must start with it.
	EndpointURL string
	// RealmID identifies the authentication realm.
	RealmID string
	// AuthorizationToken sends "Authorization: Token <value>" on every request.
	AuthorizationToken string
	// Authorization produces the authorization header per request. Mutually
	// exclusive with AuthorizationToken.
	Authorization HeaderProvider
	// RequestHeaders adds custom headers per request. Content-Type and
	// Accept are always application/json regardless.
	RequestHeaders HeaderProvider
	// Defaults supplies values for empty fields. Nil means no fallback.
	Defaults EnvironmentDefaults
	// Timeout bounds each round trip. Defaults to 30s.
	Timeout time.Duration
	// TLS configures the transport.
	TLS *security.TLSConfig
}

// LegacyConfig configures a LegacyClient.
type LegacyConfig struct {
	EndpointURL        string
	RealmID            string
	AuthorizationToken string
	Defaults           EnvironmentDefaults
}

// Option customizes client construction.
type Option func(*clientOptions)

type clientOptions struct {
	log        *logger.Logger
	httpClient []httpclient.Option
}

// WithLogger sets the logger. Defaults to the "loginshield" named logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *clientOptions) { o.log = l }
}

// WithHTTPOptions passes options to the underlying transport, for example
// httpclient.WithTransport or httpclient.WithTracerProvider.
func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(o *clientOptions) { o.httpClient = append(o.httpClient, opts...) }
}

// settings is a fully resolved Config.
type settings struct {
	endpointURL    string
	realmID        string
	authorization  HeaderProvider
	requestHeaders HeaderProvider
	timeout        time.Duration
	tls            *security.TLSConfig
}

func (c Config) resolve() (settings, error) {
	var d DefaultValues
	if c.Defaults != nil {
		d = c.Defaults.Defaults()
	}

	s := settings{
		endpointURL:    firstNonEmpty(c.EndpointURL, d.EndpointURL),
		realmID:        firstNonEmpty(c.RealmID, d.RealmID),
		authorization:  c.Authorization,
		requestHeaders: c.RequestHeaders,
		timeout:        c.Timeout,
		tls:            c.TLS,
	}

	if c.Authorization != nil && c.AuthorizationToken != "" {
		return settings{}, fmt.Errorf("%w: set only one of AuthorizationToken and Authorization", ErrInvalidConfig)
	}
	if s.authorization == nil {
		if token := firstNonEmpty(c.AuthorizationToken, d.AuthorizationToken); token != "" {
			s.authorization = TokenAuthorization(token)
		}
	}

	if err := s.validate(); err != nil {
		return settings{}, err
	}
	return s, nil
}

func (s settings) validate() error {
	if s.endpointURL == "" {
		return fmt.Errorf("%w: endpoint url is required", ErrInvalidConfig)
	}
	if err := validation.Var("endpointURL", s.endpointURL, "http_url"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if s.timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}
	if err := s.tls.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// requestURL joins the endpoint and a service path.
func (s settings) requestURL(path string) string {
	return strings.TrimRight(s.endpointURL, "/") + path
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
