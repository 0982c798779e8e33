package subscription

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/subtrackhq/subtrack-go/pkg/apiclient"
	"github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/logger"
	"github.com/subtrackhq/subtrack-go/pkg/validate"
)

// Gateway is the remote surface for subscriptions.
type Gateway interface {
	GetSelected(ctx context.Context, sby Sby) ([]Subscription, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	Create(ctx context.Context, create Create) (*Subscription, error)
	Update(ctx context.Context, update Update) (*Subscription, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteSelected(ctx context.Context, ids []uuid.UUID) error
}

type gateway struct {
	client *apiclient.Client
	logg   *logger.Logger
}

// NewGateway builds the HTTP-backed subscription gateway.
func NewGateway(client *apiclient.Client, logg *logger.Logger) Gateway {
	return &gateway{client: client, logg: logg}
}

func (g *gateway) GetSelected(ctx context.Context, sby Sby) ([]Subscription, error) {
	data, err := g.client.Do(ctx, apiclient.Request{
		Operation: "subscription.get_selected",
		Method:    http.MethodGet,
		Path:      "/subscription",
		Query:     sby.QueryValues(),
	})
	if err != nil {
		return nil, err
	}
	return apiclient.List[Subscription](data)
}

func (g *gateway) GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	data, err := g.client.Do(ctx, apiclient.Request{
		Operation: "subscription.get_by_id",
		Method:    http.MethodGet,
		Path:      "/subscription/" + id.String(),
	})
	if err != nil {
		return nil, err
	}
	return apiclient.Entity[Subscription](data)
}

// Create submits the projection, then refetches: the API answers a create
// with just the new id.
func (g *gateway) Create(ctx context.Context, create Create) (*Subscription, error) {
	if err := validate.Struct(create); err != nil {
		return nil, err
	}
	data, err := g.client.Do(ctx, apiclient.Request{
		Operation: "subscription.create",
		Method:    http.MethodPost,
		Path:      "/subscription",
		Body:      create,
	})
	if err != nil {
		return nil, err
	}
	rawID, err := apiclient.Scalar[string](data)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeContract, err, "subscription create returned a malformed id")
	}
	ctx = g.logg.WithGateway(ctx, "subscription")
	ctx = g.logg.WithField(ctx, "subscription_id", id.String())
	g.logg.Debug(ctx, "subscription created")
	return g.GetByID(ctx, id)
}

func (g *gateway) Update(ctx context.Context, update Update) (*Subscription, error) {
	if err := validate.Struct(update); err != nil {
		return nil, err
	}
	if _, err := g.client.Do(ctx, apiclient.Request{
		Operation: "subscription.update",
		Method:    http.MethodPut,
		Path:      "/subscription",
		Body:      update,
	}); err != nil {
		return nil, err
	}
	return g.GetByID(ctx, update.ID)
}

func (g *gateway) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := g.client.Do(ctx, apiclient.Request{
		Operation: "subscription.delete_by_id",
		Method:    http.MethodDelete,
		Path:      "/subscription/" + id.String(),
	})
	return err
}

func (g *gateway) DeleteSelected(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := g.client.Do(ctx, apiclient.Request{
		Operation: "subscription.delete_selected",
		Method:    http.MethodDelete,
		Path:      "/subscription",
		Query:     Sby{IDs: ids}.QueryValues(),
	})
	return err
}
