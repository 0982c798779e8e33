package subscription

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/subtrackhq/subtrack-go/internal/plan"
	"github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/validate"
)

// FakeGateway keeps subscriptions in memory. Useful for tests and offline
// work.
type FakeGateway struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]Subscription
	now  func() time.Time
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		subs: map[uuid.UUID]Subscription{},
		now:  time.Now,
	}
}

// Seed inserts subscriptions directly, bypassing validation.
func (f *FakeGateway) Seed(subs ...Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range subs {
		f.subs[s.ID] = s
	}
}

func (f *FakeGateway) GetSelected(_ context.Context, sby Sby) ([]Subscription, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	all := make([]Subscription, 0, len(f.subs))
	for _, s := range f.subs {
		if len(sby.IDs) > 0 && !containsID(sby.IDs, s.ID) {
			continue
		}
		if sby.SubscriberID != "" && s.SubscriberID != sby.SubscriberID {
			continue
		}
		all = append(all, s)
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

func (f *FakeGateway) GetByID(_ context.Context, id uuid.UUID) (*Subscription, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.subs[id]
	if !ok {
		return nil, errors.New(errors.CodeNotFound, "subscription not found")
	}
	return &s, nil
}

func (f *FakeGateway) Create(_ context.Context, create Create) (*Subscription, error) {
	if err := validate.Struct(create); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	s := Subscription{
		ID:           uuid.New(),
		SubscriberID: create.SubscriberID,
		PlanInfo:     create.PlanInfo,
		BillingInfo:  create.BillingInfo,
		Status:       create.Status,
		PausedFrom:   clonePausedFrom(create.PausedFrom),
		Autorenew:    create.Autorenew,
		Usages:       append([]Usage(nil), create.Usages...),
		Discounts:    append([]plan.Discount(nil), create.Discounts...),
		Fields:       cloneFields(create.Fields),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.subs[s.ID] = s
	return &s, nil
}

func (f *FakeGateway) Update(_ context.Context, update Update) (*Subscription, error) {
	if err := validate.Struct(update); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.subs[update.ID]
	if !ok {
		return nil, errors.New(errors.CodeNotFound, "subscription not found")
	}
	existing.SubscriberID = update.SubscriberID
	existing.PlanInfo = update.PlanInfo
	existing.BillingInfo = update.BillingInfo
	existing.Status = update.Status
	existing.PausedFrom = clonePausedFrom(update.PausedFrom)
	existing.Autorenew = update.Autorenew
	existing.Usages = append([]Usage(nil), update.Usages...)
	existing.Discounts = append([]plan.Discount(nil), update.Discounts...)
	existing.Fields = cloneFields(update.Fields)
	existing.UpdatedAt = f.now()
	f.subs[update.ID] = existing
	return &existing, nil
}

func (f *FakeGateway) DeleteByID(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[id]; !ok {
		return errors.New(errors.CodeNotFound, "subscription not found")
	}
	delete(f.subs, id)
	return nil
}

func (f *FakeGateway) DeleteSelected(_ context.Context, ids []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.subs, id)
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
