// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"sort"

	"github.com/toeirei/redtoken/internal/model"
)

// Store defines the operations the lifecycle service needs from a token
// store. All implementations are safe for concurrent use.
type Store interface {
	// Save inserts or overwrites the record keyed by token.ID.
	Save(ctx context.Context, token model.Honeytoken) error
	FindByID(ctx context.Context, id string) (*model.Honeytoken, error)
	// FindByValue is an exact, case-sensitive match.
	FindByValue(ctx context.Context, value string) (*model.Honeytoken, error)
	FindAll(ctx context.Context) ([]model.Honeytoken, error)
	// Update has Save semantics; callers use it after mutating state.
	Update(ctx context.Context, token model.Honeytoken) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// clone returns a copy that shares no memory with t.
func clone(t model.Honeytoken) model.Honeytoken {
	if t.LastChecked != nil {
		ts := *t.LastChecked
		t.LastChecked = &ts
	}
	return t
}

// sortTokens orders by creation time, then id, so persisted output and
// listings are deterministic.
func sortTokens(tokens []model.Honeytoken) {
	sort.Slice(tokens, func(i, j int) bool {
		if !tokens[i].CreatedAt.Equal(tokens[j].CreatedAt) {
			return tokens[i].CreatedAt.Before(tokens[j].CreatedAt)
		}
		return tokens[i].ID < tokens[j].ID
	})
}

// checkUnique rejects a token whose value is already held by another id.
func checkUnique(tokens map[string]model.Honeytoken, token model.Honeytoken) error {
	if err := model.ValidateValue(token.Value); err != nil {
		return err
	}
	for id, t := range tokens {
		if id != token.ID && t.Value == token.Value {
			return model.ValidationError("duplicate token value")
		}
	}
	return nil
}
