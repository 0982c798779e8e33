package webhook

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/validate"
)

// FakeGateway keeps webhooks in memory. Useful for tests and offline work.
type FakeGateway struct {
	mu    sync.RWMutex
	hooks map[uuid.UUID]Webhook
	now   func() time.Time
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		hooks: map[uuid.UUID]Webhook{},
		now:   time.Now,
	}
}

// Seed inserts webhooks directly, bypassing validation.
func (f *FakeGateway) Seed(hooks ...Webhook) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range hooks {
		f.hooks[w.ID] = w
	}
}

func (f *FakeGateway) GetSelected(_ context.Context, sby Sby) ([]Webhook, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	all := make([]Webhook, 0, len(f.hooks))
	for _, w := range f.hooks {
		if len(sby.IDs) > 0 && !containsID(sby.IDs, w.ID) {
			continue
		}
		all = append(all, w)
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

func (f *FakeGateway) GetByID(_ context.Context, id uuid.UUID) (*Webhook, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	w, ok := f.hooks[id]
	if !ok {
		return nil, errors.New(errors.CodeNotFound, "webhook not found")
	}
	return &w, nil
}

func (f *FakeGateway) Create(_ context.Context, create Create) (*Webhook, error) {
	if err := validate.Struct(create); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	w := Webhook{
		ID:        uuid.New(),
		EventCode: create.EventCode,
		TargetURL: create.TargetURL,
		Delays:    append([]int(nil), create.Delays...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.hooks[w.ID] = w
	return &w, nil
}

func (f *FakeGateway) Update(_ context.Context, update Update) error {
	if err := validate.Struct(update); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.hooks[update.ID]
	if !ok {
		return errors.New(errors.CodeNotFound, "webhook not found")
	}
	existing.EventCode = update.EventCode
	existing.TargetURL = update.TargetURL
	existing.Delays = append([]int(nil), update.Delays...)
	existing.UpdatedAt = f.now()
	f.hooks[update.ID] = existing
	return nil
}

func (f *FakeGateway) DeleteByID(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.hooks[id]; !ok {
		return errors.New(errors.CodeNotFound, "webhook not found")
	}
	delete(f.hooks, id)
	return nil
}

func (f *FakeGateway) DeleteSelected(_ context.Context, ids []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.hooks, id)
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
