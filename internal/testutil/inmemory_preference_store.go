package testutil

import (
	"context"
	"sync/atomic"

	"github.com/flexprice/salestax/internal/domain/preference"
)

type InMemoryPreferenceStore struct {
	*InMemoryStore[*preference.Preference]
	listCalls atomic.Int64
}

func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{
		InMemoryStore: NewInMemoryStore[*preference.Preference](),
	}
}

func (s *InMemoryPreferenceStore) List(ctx context.Context) ([]*preference.Preference, error) {
	s.listCalls.Add(1)
	return s.InMemoryStore.List(ctx, nil, func(i, j *preference.Preference) bool {
		return i.Key < j.Key
	}), nil
}

func (s *InMemoryPreferenceStore) Upsert(ctx context.Context, pref *preference.Preference) error {
	copied := *pref
	s.InMemoryStore.Put(ctx, pref.Key, &copied)
	return nil
}

// ListCalls returns how often the store was read
func (s *InMemoryPreferenceStore) ListCalls() int64 {
	return s.listCalls.Load()
}
