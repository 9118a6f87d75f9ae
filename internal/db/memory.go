// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"sync"

	"github.com/toeirei/redtoken/internal/model"
)

// MemoryStore is a map-backed Store.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]model.Honeytoken
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]model.Honeytoken)}
}

func (s *MemoryStore) Save(_ context.Context, token model.Honeytoken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := checkUnique(s.tokens, token); err != nil {
		return err
	}
	s.tokens[token.ID] = clone(token)
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*model.Honeytoken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[id]
	if !ok {
		return nil, nil
	}
	c := clone(t)
	return &c, nil
}

func (s *MemoryStore) FindByValue(_ context.Context, value string) (*model.Honeytoken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tokens {
		if t.Value == value {
			c := clone(t)
			return &c, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) FindAll(_ context.Context) ([]model.Honeytoken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Honeytoken, 0, len(s.tokens))
	for _, t := range s.tokens {
		out = append(out, clone(t))
	}
	sortTokens(out)
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, token model.Honeytoken) error {
	return s.Save(ctx, token)
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[id]; !ok {
		return model.NotFound(id)
	}
	delete(s.tokens, id)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
