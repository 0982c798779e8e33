package auth

import (
	"context"

	"github.com/subtrackhq/subtrack-go/pkg/apiclient"
	"github.com/subtrackhq/subtrack-go/pkg/config"
	"github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/logger"
)

// Service bundles the session slot with whichever sign-in mode the
// deployment runs. Exactly one of JWT and OIDC is set.
type Service struct {
	Session *Session
	JWT     *JWTGateway
	OIDC    *OIDCAuthenticator
}

// NewService builds the authenticator the config selects and wires the
// client's auth-failure hook to clear the session.
func NewService(ctx context.Context, cfg *config.Config, client *apiclient.Client, logg *logger.Logger) (*Service, error) {
	session := NewSession()
	service := &Service{Session: session}
	client.OnAuthFailure(session.Clear)

	switch {
	case cfg.Auth.IsJWT():
		service.JWT = NewJWTGateway(client, session, logg)
	case cfg.Auth.IsOIDC():
		authenticator, err := NewOIDCAuthenticator(ctx, cfg.OIDC, client, session, logg)
		if err != nil {
			return nil, err
		}
		service.OIDC = authenticator
	default:
		return nil, errors.New(errors.CodeValidation, "unknown auth mode "+cfg.Auth.Mode)
	}
	return service, nil
}
