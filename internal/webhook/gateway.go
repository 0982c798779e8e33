package webhook

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/subtrackhq/subtrack-go/pkg/apiclient"
	"github.com/subtrackhq/subtrack-go/pkg/logger"
	"github.com/subtrackhq/subtrack-go/pkg/validate"
)

// Gateway is the remote surface for webhooks. Unlike the other entities the
// create endpoint answers with the full webhook, and update answers with
// nothing at all.
type Gateway interface {
	GetSelected(ctx context.Context, sby Sby) ([]Webhook, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Webhook, error)
	Create(ctx context.Context, create Create) (*Webhook, error)
	Update(ctx context.Context, update Update) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteSelected(ctx context.Context, ids []uuid.UUID) error
}

type gateway struct {
	client *apiclient.Client
	logg   *logger.Logger
}

// NewGateway builds the HTTP-backed webhook gateway.
func NewGateway(client *apiclient.Client, logg *logger.Logger) Gateway {
	return &gateway{client: client, logg: logg}
}

func (g *gateway) GetSelected(ctx context.Context, sby Sby) ([]Webhook, error) {
	data, err := g.client.Do(ctx, apiclient.Request{
		Operation: "webhook.get_selected",
		Method:    http.MethodGet,
		Path:      "/webhook",
		Query:     sby.QueryValues(),
	})
	if err != nil {
		return nil, err
	}
	return apiclient.List[Webhook](data)
}

func (g *gateway) GetByID(ctx context.Context, id uuid.UUID) (*Webhook, error) {
	data, err := g.client.Do(ctx, apiclient.Request{
		Operation: "webhook.get_by_id",
		Method:    http.MethodGet,
		Path:      "/webhook/" + id.String(),
	})
	if err != nil {
		return nil, err
	}
	return apiclient.Entity[Webhook](data)
}

func (g *gateway) Create(ctx context.Context, create Create) (*Webhook, error) {
	if err := validate.Struct(create); err != nil {
		return nil, err
	}
	data, err := g.client.Do(ctx, apiclient.Request{
		Operation: "webhook.create",
		Method:    http.MethodPost,
		Path:      "/webhook",
		Body:      create,
	})
	if err != nil {
		return nil, err
	}
	return apiclient.Entity[Webhook](data)
}

func (g *gateway) Update(ctx context.Context, update Update) error {
	if err := validate.Struct(update); err != nil {
		return err
	}
	_, err := g.client.Do(ctx, apiclient.Request{
		Operation: "webhook.update",
		Method:    http.MethodPut,
		Path:      "/webhook",
		Body:      update,
	})
	return err
}

func (g *gateway) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := g.client.Do(ctx, apiclient.Request{
		Operation: "webhook.delete_by_id",
		Method:    http.MethodDelete,
		Path:      "/webhook/" + id.String(),
	})
	return err
}

func (g *gateway) DeleteSelected(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := g.client.Do(ctx, apiclient.Request{
		Operation: "webhook.delete_selected",
		Method:    http.MethodDelete,
		Path:      "/webhook",
		Query:     Sby{IDs: ids}.QueryValues(),
	})
	return err
}
