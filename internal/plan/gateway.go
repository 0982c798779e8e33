package plan

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/subtrackhq/subtrack-go/pkg/apiclient"
	"github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/logger"
	"github.com/subtrackhq/subtrack-go/pkg/validate"
)

// Gateway is the remote surface for plans.
type Gateway interface {
	GetSelected(ctx context.Context, sby Sby) ([]Plan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	Create(ctx context.Context, create Create) (*Plan, error)
	Update(ctx context.Context, update Update) (*Plan, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteSelected(ctx context.Context, ids []uuid.UUID) error
}

type gateway struct {
	client *apiclient.Client
	logg   *logger.Logger
}

// NewGateway builds the HTTP-backed plan gateway.
func NewGateway(client *apiclient.Client, logg *logger.Logger) Gateway {
	return &gateway{client: client, logg: logg}
}

func (g *gateway) GetSelected(ctx context.Context, sby Sby) ([]Plan, error) {
	data, err := g.client.Do(ctx, apiclient.Request{
		Operation: "plan.get_selected",
		Method:    http.MethodGet,
		Path:      "/plan",
		Query:     sby.QueryValues(),
	})
	if err != nil {
		return nil, err
	}
	return apiclient.List[Plan](data)
}

func (g *gateway) GetByID(ctx context.Context, id uuid.UUID) (*Plan, error) {
	data, err := g.client.Do(ctx, apiclient.Request{
		Operation: "plan.get_by_id",
		Method:    http.MethodGet,
		Path:      "/plan/" + id.String(),
	})
	if err != nil {
		return nil, err
	}
	return apiclient.Entity[Plan](data)
}

// Create submits the projection, then refetches: the API answers a create
// with just the new id.
func (g *gateway) Create(ctx context.Context, create Create) (*Plan, error) {
	if err := validate.Struct(create); err != nil {
		return nil, err
	}
	data, err := g.client.Do(ctx, apiclient.Request{
		Operation: "plan.create",
		Method:    http.MethodPost,
		Path:      "/plan",
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
		return nil, errors.Wrap(errors.CodeContract, err, "plan create returned a malformed id")
	}
	ctx = g.logg.WithGateway(ctx, "plan")
	ctx = g.logg.WithField(ctx, "plan_id", id.String())
	g.logg.Debug(ctx, "plan created")
	return g.GetByID(ctx, id)
}

func (g *gateway) Update(ctx context.Context, update Update) (*Plan, error) {
	if err := validate.Struct(update); err != nil {
		return nil, err
	}
	if _, err := g.client.Do(ctx, apiclient.Request{
		Operation: "plan.update",
		Method:    http.MethodPut,
		Path:      "/plan",
		Body:      update,
	}); err != nil {
		return nil, err
	}
	return g.GetByID(ctx, update.ID)
}

func (g *gateway) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := g.client.Do(ctx, apiclient.Request{
		Operation: "plan.delete_by_id",
		Method:    http.MethodDelete,
		Path:      "/plan/" + id.String(),
	})
	return err
}

func (g *gateway) DeleteSelected(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := g.client.Do(ctx, apiclient.Request{
		Operation: "plan.delete_selected",
		Method:    http.MethodDelete,
		Path:      "/plan",
		Query:     Sby{IDs: ids}.QueryValues(),
	})
	return err
}
