// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"sync"

	"github.com/toeirei/redtoken/internal/model"
)

// FakeStore is a MemoryStore with injectable failures and call counters,
// used by tests of the packages that consume a Store.
type FakeStore struct {
	*MemoryStore

	// Per-operation errors. When set, the operation fails without touching
	// the underlying map.
	SaveErr   error
	FindErr   error
	UpdateErr error
	DeleteErr error

	// UpdateGate, when set, holds every Update until it is closed.
	UpdateGate chan struct{}

	mu    sync.Mutex
	calls map[string]int
}

// NewFakeStore returns an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{MemoryStore: NewMemoryStore(), calls: map[string]int{}}
}

// Calls reports how many times op was invoked.
func (f *FakeStore) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FakeStore) record(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func (f *FakeStore) Save(ctx context.Context, token model.Honeytoken) error {
	f.record("Save")
	if f.SaveErr != nil {
		return f.SaveErr
	}
	return f.MemoryStore.Save(ctx, token)
}

func (f *FakeStore) FindByID(ctx context.Context, id string) (*model.Honeytoken, error) {
	f.record("FindByID")
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	return f.MemoryStore.FindByID(ctx, id)
}

func (f *FakeStore) FindByValue(ctx context.Context, value string) (*model.Honeytoken, error) {
	f.record("FindByValue")
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	return f.MemoryStore.FindByValue(ctx, value)
}

func (f *FakeStore) FindAll(ctx context.Context) ([]model.Honeytoken, error) {
	f.record("FindAll")
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	return f.MemoryStore.FindAll(ctx)
}

func (f *FakeStore) Update(ctx context.Context, token model.Honeytoken) error {
	f.record("Update")
	if f.UpdateGate != nil {
		<-f.UpdateGate
	}
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	return f.MemoryStore.Save(ctx, token)
}

func (f *FakeStore) Delete(ctx context.Context, id string) error {
	f.record("Delete")
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	return f.MemoryStore.Delete(ctx, id)
}

var _ Store = (*FakeStore)(nil)
