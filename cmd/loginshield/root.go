package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cryptium/loginshield-go/config"
	"github.com/cryptium/loginshield-go/httpclient"
	"github.com/cryptium/loginshield-go/logger"
	"github.com/cryptium/loginshield-go/loginshield"
	"github.com/cryptium/loginshield-go/observability"
	"github.com/cryptium/loginshield-go/security"
)

// Viper keys for the persistent flags.
const (
	keyEndpoint     = "endpoint_url"
	keyRealm        = "realm_id"
	keyToken        = "authorization_token"
	keyConfigFile   = "config_file"
	keyEnvFile      = "env_file"
	keyTimeout      = "timeout"
	keySkipVerify   = "insecure_skip_verify"
	keyLegacy       = "legacy"
	keyLogLevel     = "log.level"
	keyLogFormat    = "log.format"
	keyOTLPEndpoint = "otlp.endpoint"
	keyOTLPInsecure = "otlp.insecure"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	v        *viper.Viper
	shutdown observability.ShutdownFunc
	// httpOpts are passed to every client; tests use them to swap transports.
	httpOpts []httpclient.Option
}

// sessionClient is implemented by both client variants.
type sessionClient interface {
	CreateRealmUser(ctx context.Context, req loginshield.CreateRealmUserRequest) (*loginshield.CreateRealmUserResponse, *loginshield.ErrorResult)
	CreateRealmUserWithRedirect(ctx context.Context, req loginshield.CreateRealmUserWithRedirectRequest) (*loginshield.CreateRealmUserResponse, *loginshield.ErrorResult)
	StartLogin(ctx context.Context, req loginshield.StartLoginRequest) (*loginshield.StartLoginResponse, *loginshield.ErrorResult)
	VerifyLogin(ctx context.Context, token string) (*loginshield.VerifyLoginResponse, *loginshield.ErrorResult)
}

// newRootCmd creates and configures a new root cobra command.
func newRootCmd() *cobra.Command {
	return newRootCmdWithApp(&app{})
}

func newRootCmdWithApp(a *app) *cobra.Command {
	a.v = viper.New()
	a.v.SetDefault(keyTimeout, 30*time.Second)
	a.v.SetDefault(keyLogLevel, "warn")
	a.v.SetDefault(keyLogFormat, "console")

	cmd := &cobra.Command{
		Use:          "loginshield",
		Short:        "Call the LoginShield authentication service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("endpoint", "", "service endpoint URL (env LOGINSHIELD_ENDPOINT_URL)")
	flags.String("realm", "", "realm id (env LOGINSHIELD_REALM_ID)")
	flags.String("token", "", "authorization token (env LOGINSHIELD_AUTHORIZATION_TOKEN)")
	flags.String("config", "", "config file with a loginshield section (default: search ./loginshield.yml, ./config.yml)")
	flags.String("env-file", "", ".env file to load (default: search .env.loginshield, .env)")
	flags.Duration("timeout", 30*time.Second, "request timeout")
	flags.Bool("insecure-skip-verify", false, "skip TLS certificate verification")
	flags.Bool("legacy", false, "use the legacy client for user and login commands")
	flags.String("log-level", "warn", `log level ("debug", "info", "warn", "error")`)
	flags.String("log-format", "console", `log format ("console", "json")`)
	flags.String("otlp-endpoint", "", "OTLP HTTP collector host:port; enables tracing and metrics")
	flags.Bool("otlp-insecure", true, "use plain HTTP for the OTLP collector")

	for key, flag := range map[string]string{
		keyEndpoint:     "endpoint",
		keyRealm:        "realm",
		keyToken:        "token",
		keyConfigFile:   "config",
		keyEnvFile:      "env-file",
		keyTimeout:      "timeout",
		keySkipVerify:   "insecure-skip-verify",
		keyLegacy:       "legacy",
		keyLogLevel:     "log-level",
		keyLogFormat:    "log-format",
		keyOTLPEndpoint: "otlp-endpoint",
		keyOTLPInsecure: "otlp-insecure",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	cmd.AddCommand(
		newRealmInfoCmd(a),
		newCreateUserCmd(a),
		newStartLoginCmd(a),
		newVerifyLoginCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	logCfg := &logger.Config{
		Level:   a.v.GetString(keyLogLevel),
		Format:  a.v.GetString(keyLogFormat),
		NoColor: true,
	}
	if err := logCfg.Validate(); err != nil {
		return err
	}
	log := logger.NewWithWriter(cmd.ErrOrStderr(), logCfg, "loginshield")
	logger.SetGlobalLogger(log)
	logger.Register("loginshield", log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := observability.Setup(ctx, "loginshield-cli", a.v.GetString(keyOTLPEndpoint), a.v.GetBool(keyOTLPInsecure))
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	a.shutdown = shutdown
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if a.shutdown == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	// Setup logs shutdown failures; they never fail the command.
	_ = a.shutdown(ctx)
	return nil
}

func (a *app) defaults() (loginshield.StaticDefaults, error) {
	var opts []config.LoaderOption
	if f := a.v.GetString(keyConfigFile); f != "" {
		opts = append(opts, config.WithConfigFile(f))
	}
	if f := a.v.GetString(keyEnvFile); f != "" {
		opts = append(opts, config.WithEnvFile(f))
	}
	return loginshield.LoadEnvironmentDefaults(opts...)
}

func (a *app) options() []loginshield.Option {
	return []loginshield.Option{loginshield.WithHTTPOptions(a.httpOpts...)}
}

func (a *app) realmClient() (*loginshield.RealmClient, error) {
	defaults, err := a.defaults()
	if err != nil {
		return nil, err
	}
	cfg := loginshield.Config{
		EndpointURL:        a.v.GetString(keyEndpoint),
		RealmID:            a.v.GetString(keyRealm),
		AuthorizationToken: a.v.GetString(keyToken),
		Defaults:           defaults,
		Timeout:            a.v.GetDuration(keyTimeout),
	}
	if a.v.GetBool(keySkipVerify) {
		cfg.TLS = &security.TLSConfig{SkipVerify: true}
	}
	return loginshield.NewRealmClient(cfg, a.options()...)
}

func (a *app) sessionClient() (sessionClient, error) {
	if !a.v.GetBool(keyLegacy) {
		return a.realmClient()
	}
	defaults, err := a.defaults()
	if err != nil {
		return nil, err
	}
	return loginshield.NewLegacyClient(loginshield.LegacyConfig{
		EndpointURL:        a.v.GetString(keyEndpoint),
		RealmID:            a.v.GetString(keyRealm),
		AuthorizationToken: a.v.GetString(keyToken),
		Defaults:           defaults,
	}, a.options()...)
}
