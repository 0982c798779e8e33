package plan

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/validate"
)

// FakeGateway keeps plans in memory. Useful for tests and offline work.
type FakeGateway struct {
	mu    sync.RWMutex
	plans map[uuid.UUID]Plan
	now   func() time.Time
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		plans: map[uuid.UUID]Plan{},
		now:   time.Now,
	}
}

// Seed inserts plans directly, bypassing validation.
func (f *FakeGateway) Seed(plans ...Plan) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range plans {
		f.plans[p.ID] = p
	}
}

func (f *FakeGateway) GetSelected(_ context.Context, sby Sby) ([]Plan, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	all := make([]Plan, 0, len(f.plans))
	for _, p := range f.plans {
		if len(sby.IDs) > 0 && !containsID(sby.IDs, p.ID) {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	skip := sby.Skip
	if skip > len(all) {
		skip = len(all)
	}
	all = all[skip:]
	if sby.Limit > 0 && sby.Limit < len(all) {
		all = all[:sby.Limit]
	}
	return all, nil
}

func (f *FakeGateway) GetByID(_ context.Context, id uuid.UUID) (*Plan, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.plans[id]
	if !ok {
		return nil, errors.New(errors.CodeNotFound, "plan not found")
	}
	return &p, nil
}

func (f *FakeGateway) Create(_ context.Context, create Create) (*Plan, error) {
	if err := validate.Struct(create); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	p := Plan{
		ID:           uuid.New(),
		Title:        create.Title,
		Price:        create.Price,
		Currency:     create.Currency,
		BillingCycle: create.BillingCycle,
		Description:  create.Description,
		Level:        create.Level,
		Features:     create.Features,
		UsageRates:   append([]UsageRate(nil), create.UsageRates...),
		Discounts:    append([]Discount(nil), create.Discounts...),
		Fields:       cloneFields(create.Fields),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.plans[p.ID] = p
	return &p, nil
}

func (f *FakeGateway) Update(_ context.Context, update Update) (*Plan, error) {
	if err := validate.Struct(update); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.plans[update.ID]
	if !ok {
		return nil, errors.New(errors.CodeNotFound, "plan not found")
	}
	existing.Title = update.Title
	existing.Price = update.Price
	existing.Currency = update.Currency
	existing.BillingCycle = update.BillingCycle
	existing.Description = update.Description
	existing.Level = update.Level
	existing.Features = update.Features
	existing.UsageRates = append([]UsageRate(nil), update.UsageRates...)
	existing.Discounts = append([]Discount(nil), update.Discounts...)
	existing.Fields = cloneFields(update.Fields)
	existing.UpdatedAt = f.now()
	f.plans[update.ID] = existing
	return &existing, nil
}

func (f *FakeGateway) DeleteByID(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.plans[id]; !ok {
		return errors.New(errors.CodeNotFound, "plan not found")
	}
	delete(f.plans, id)
	return nil
}

func (f *FakeGateway) DeleteSelected(_ context.Context, ids []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.plans, id)
	}
	return nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
