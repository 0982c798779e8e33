// Package apikey holds API key management. The key secret is handed out
// exactly once, in the create response, and never retrievable again.
package apikey

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/subtrackhq/subtrack-go/pkg/apiclient"
	"github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/logger"
	"github.com/subtrackhq/subtrack-go/pkg/validate"
)

// Apikey is the canonical entity. The secret is not part of it.
type Apikey struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	Title     string    `json:"title" validate:"required,min=2"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
	UpdatedAt time.Time `json:"updatedAt" validate:"required"`
}

// Create is the projection submitted to create a key.
type Create struct {
	Title string `json:"title" validate:"required,min=2"`
}

// Gateway is the remote surface for API keys. Keys are never updated, only
// created and revoked.
type Gateway interface {
	GetAll(ctx context.Context) ([]Apikey, error)
	Create(ctx context.Context, create Create) (*Apikey, string, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type gateway struct {
	client *apiclient.Client
	logg   *logger.Logger
}

// NewGateway builds the HTTP-backed API key gateway.
func NewGateway(client *apiclient.Client, logg *logger.Logger) Gateway {
	return &gateway{client: client, logg: logg}
}

func (g *gateway) GetAll(ctx context.Context) ([]Apikey, error) {
	data, err := g.client.Do(ctx, apiclient.Request{
		Operation: "apikey.get_all",
		Method:    http.MethodGet,
		Path:      "/apikey",
	})
	if err != nil {
		return nil, err
	}
	return apiclient.List[Apikey](data)
}

// Create returns the stored key and its secret. The secret only exists in
// this response; callers must show or store it immediately.
func (g *gateway) Create(ctx context.Context, create Create) (*Apikey, string, error) {
	if err := validate.Struct(create); err != nil {
		return nil, "", err
	}
	data, err := g.client.Do(ctx, apiclient.Request{
		Operation: "apikey.create",
		Method:    http.MethodPost,
		Path:      "/apikey",
		Body:      create,
	})
	if err != nil {
		return nil, "", err
	}
	return decodeCreateResponse(data)
}

func (g *gateway) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := g.client.Do(ctx, apiclient.Request{
		Operation: "apikey.delete_by_id",
		Method:    http.MethodDelete,
		Path:      "/apikey/" + id.String(),
	})
	return err
}

// decodeCreateResponse unpacks the two-element create payload: the key
// entity followed by its secret.
func decodeCreateResponse(data []byte) (*Apikey, string, error) {
	parts, err := apiclient.RawList(data)
	if err != nil {
		return nil, "", err
	}
	if len(parts) != 2 {
		return nil, "", errors.New(errors.CodeContract, "apikey create must return the key and its secret")
	}
	key, err := apiclient.Entity[Apikey](parts[0])
	if err != nil {
		return nil, "", err
	}
	secret, err := apiclient.Scalar[string](parts[1])
	if err != nil {
		return nil, "", err
	}
	if secret == "" {
		return nil, "", errors.New(errors.CodeContract, "apikey secret is empty")
	}
	return key, secret, nil
}
