package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "subtrack"

// Env var names referenced by tests and docs.
const (
	EnvAppEnv     = "SUBTRACK_APP_ENV"
	EnvAPIBaseURL = "SUBTRACK_API_BASE_URL"
	EnvAuthMode   = "SUBTRACK_AUTH_MODE"
)

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Auth modes are mutually exclusive deployment strategies.
const (
	AuthModeJWT  = "jwt"
	AuthModeOIDC = "oidc"
)

type Config struct {
	App  AppConfig
	API  APIConfig
	Auth AuthConfig
	OIDC OIDCConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Auth.validate(); err != nil {
		return nil, err
	}
	if cfg.Auth.IsOIDC() {
		if err := cfg.OIDC.validate(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env      string `envconfig:"SUBTRACK_APP_ENV" default:"development"`
	LogLevel string `envconfig:"SUBTRACK_LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL string        `envconfig:"SUBTRACK_API_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"SUBTRACK_API_TIMEOUT" default:"30s"`
}

func (a APIConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(a.BaseURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api base url %q must be an absolute url", a.BaseURL)
	}
	return nil
}

type AuthConfig struct {
	Mode string `envconfig:"SUBTRACK_AUTH_MODE" default:"jwt"`
}

func (a AuthConfig) IsJWT() bool {
	return strings.EqualFold(a.Mode, AuthModeJWT)
}

func (a AuthConfig) IsOIDC() bool {
	return strings.EqualFold(a.Mode, AuthModeOIDC)
}

func (a AuthConfig) validate() error {
	if !a.IsJWT() && !a.IsOIDC() {
		return fmt.Errorf("auth mode must be %q or %q, got %q", AuthModeJWT, AuthModeOIDC, a.Mode)
	}
	return nil
}

type OIDCConfig struct {
	IssuerURL    string   `envconfig:"SUBTRACK_OIDC_ISSUER_URL"`
	ClientID     string   `envconfig:"SUBTRACK_OIDC_CLIENT_ID"`
	ClientSecret string   `envconfig:"SUBTRACK_OIDC_CLIENT_SECRET"`
	RedirectURL  string   `envconfig:"SUBTRACK_OIDC_REDIRECT_URL"`
	Scopes       []string `envconfig:"SUBTRACK_OIDC_SCOPES" default:"openid,profile,email"`
}

func (o OIDCConfig) validate() error {
	if strings.TrimSpace(o.IssuerURL) == "" {
		return fmt.Errorf("oidc issuer url is required in oidc mode")
	}
	if strings.TrimSpace(o.ClientID) == "" {
		return fmt.Errorf("oidc client id is required in oidc mode")
	}
	if strings.TrimSpace(o.RedirectURL) == "" {
		return fmt.Errorf("oidc redirect url is required in oidc mode")
	}
	return nil
}
