package apikey

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/validate"
)

// FakeGateway keeps keys in memory. Secrets are derived from the key id and,
// like the real API, returned only from Create.
type FakeGateway struct {
	mu   sync.RWMutex
	keys map[uuid.UUID]Apikey
	now  func() time.Time
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		keys: map[uuid.UUID]Apikey{},
		now:  time.Now,
	}
}

func (f *FakeGateway) GetAll(_ context.Context) ([]Apikey, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	all := make([]Apikey, 0, len(f.keys))
	for _, key := range f.keys {
		all = append(all, key)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all, nil
}

func (f *FakeGateway) Create(_ context.Context, create Create) (*Apikey, string, error) {
	if err := validate.Struct(create); err != nil {
		return nil, "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	key := Apikey{
		ID:        uuid.New(),
		Title:     create.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.keys[key.ID] = key
	return &key, "sk_fake_" + key.ID.String(), nil
}

func (f *FakeGateway) DeleteByID(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.keys[id]; !ok {
		return errors.New(errors.CodeNotFound, "apikey not found")
	}
	delete(f.keys, id)
	return nil
}
