package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/subtrackhq/subtrack-go/pkg/apiclient"
	"github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/logger"
)

// JWTGateway signs in against the first-party auth endpoints. The login grant
// is form-encoded; the API answers with a session cookie, a bearer token, or
// both.
type JWTGateway struct {
	client  *apiclient.Client
	logg    *logger.Logger
	session *Session
}

// NewJWTGateway builds the cookie/JWT authenticator.
func NewJWTGateway(client *apiclient.Client, session *Session, logg *logger.Logger) *JWTGateway {
	return &JWTGateway{client: client, logg: logg, session: session}
}

// Session exposes the session slot this gateway maintains.
func (g *JWTGateway) Session() *Session {
	return g.session
}

// Login exchanges credentials for a session, then loads the account behind
// it.
func (g *JWTGateway) Login(ctx context.Context, email, password string) (*AuthUser, error) {
	if email == "" || password == "" {
		return nil, errors.New(errors.CodeValidation, "email and password are required")
	}
	data, err := g.client.Do(ctx, apiclient.Request{
		Operation: "auth.login",
		Method:    http.MethodPost,
		Path:      "/auth/jwt/login",
		Form: url.Values{
			"grant_type": {"password"},
			"username":   {email},
			"password":   {password},
		},
	})
	if err != nil {
		return nil, err
	}

	// A bearer-transport deployment returns the token in the body; a
	// cookie-transport one returns nothing and the jar keeps the session.
	var grant struct {
		AccessToken string `json:"accessToken"`
		TokenType   string `json:"tokenType"`
	}
	if len(data) > 0 {
		if decoded, err := apiclient.DecodeWire(data); err == nil {
			_ = json.Unmarshal(decoded, &grant)
		}
	}
	if grant.AccessToken != "" {
		g.client.SetBearerToken(grant.AccessToken)
	}

	user, err := g.LoadMe(ctx)
	if err != nil {
		g.client.ClearBearerToken()
		return nil, err
	}
	ctx = g.logg.WithUserID(ctx, user.ID)
	g.logg.Info(ctx, "signed in")
	return user, nil
}

// LoadMe fetches the account behind the current session and stores it in the
// session slot.
func (g *JWTGateway) LoadMe(ctx context.Context) (*AuthUser, error) {
	data, err := g.client.Do(ctx, apiclient.Request{
		Operation: "auth.me",
		Method:    http.MethodGet,
		Path:      "/users/me",
	})
	if err != nil {
		return nil, err
	}
	user, err := apiclient.Entity[AuthUser](data)
	if err != nil {
		return nil, err
	}
	g.session.Set(*user)
	return user, nil
}

// Logout invalidates the remote session and drops the local one either way.
func (g *JWTGateway) Logout(ctx context.Context) error {
	_, err := g.client.Do(ctx, apiclient.Request{
		Operation: "auth.logout",
		Method:    http.MethodPost,
		Path:      "/auth/jwt/logout",
	})
	g.client.ClearBearerToken()
	g.session.Clear()
	return err
}

// UpdateEmail is not offered by the API yet.
func (g *JWTGateway) UpdateEmail(_ context.Context, _ EmailUpdate) error {
	return errors.New(errors.CodeNotImplemented, "email update is not supported by the API")
}

// UpdatePassword validates the form locally but the API offers no endpoint
// for it yet.
func (g *JWTGateway) UpdatePassword(_ context.Context, form PasswordUpdate) error {
	if err := ValidatePasswordUpdate(form); err != nil {
		return err
	}
	return errors.New(errors.CodeNotImplemented, "password update is not supported by the API")
}

// TokenExpiry reads the expiry claim out of an issued access token without
// verifying its signature. Verification is the server's job; the client only
// needs the timestamp to know when to prompt again.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, errors.Wrap(errors.CodeValidation, err, "malformed access token")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, errors.New(errors.CodeValidation, "access token carries no expiry")
	}
	return exp.Time, nil
}
