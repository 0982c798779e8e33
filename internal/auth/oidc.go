package auth

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/subtrackhq/subtrack-go/pkg/apiclient"
	"github.com/subtrackhq/subtrack-go/pkg/config"
	"github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/logger"
	"github.com/subtrackhq/subtrack-go/pkg/validate"
)

// OIDCAuthenticator signs in through an external identity provider with the
// auth-code redirect flow: BeginLogin hands out the provider URL, the
// callback code comes back through CompleteLogin.
type OIDCAuthenticator struct {
	oauth    oauth2.Config
	verifier *oidc.IDTokenVerifier
	client   *apiclient.Client
	logg     *logger.Logger
	session  *Session
}

// NewOIDCAuthenticator discovers the provider endpoints from the issuer URL.
func NewOIDCAuthenticator(ctx context.Context, cfg config.OIDCConfig, client *apiclient.Client, session *Session, logg *logger.Logger) (*OIDCAuthenticator, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "oidc provider discovery failed")
	}
	return &OIDCAuthenticator{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       cfg.Scopes,
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		client:   client,
		logg:     logg,
		session:  session,
	}, nil
}

// Session exposes the session slot this authenticator maintains.
func (a *OIDCAuthenticator) Session() *Session {
	return a.session
}

// BeginLogin returns the provider URL to send the user to. The caller owns
// the state value and must check it on the way back.
func (a *OIDCAuthenticator) BeginLogin(state string) string {
	return a.oauth.AuthCodeURL(state)
}

// CompleteLogin exchanges the callback code, verifies the ID token, and
// stores the user it names.
func (a *OIDCAuthenticator) CompleteLogin(ctx context.Context, code string) (*AuthUser, error) {
	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnauthorized, err, "code exchange failed")
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New(errors.CodeContract, "token response carries no id_token")
	}
	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.Wrap(errors.CodeUnauthorized, err, "id token rejected")
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.Wrap(errors.CodeContract, err, "id token claims unreadable")
	}
	user := AuthUser{ID: idToken.Subject, Email: claims.Email}
	if err := validate.Struct(user); err != nil {
		return nil, errors.Wrap(errors.CodeContract, err, "provider returned an incomplete identity")
	}

	a.session.Set(user)
	a.client.SetBearerToken(token.AccessToken)
	ctx = a.logg.WithUserID(ctx, user.ID)
	a.logg.Info(ctx, "signed in via identity provider")
	return &user, nil
}

// Logout drops the local session. The provider session outlives the client
// and ends on its own terms.
func (a *OIDCAuthenticator) Logout(_ context.Context) error {
	a.client.ClearBearerToken()
	a.session.Clear()
	return nil
}
