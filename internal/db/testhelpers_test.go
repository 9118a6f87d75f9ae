// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/toeirei/redtoken/internal/model"
)

// newTestSQLStore opens a private in-memory sqlite Store for the test.
func newTestSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := "file:" + name + "?mode=memory&cache=shared"
	s, err := NewSQLStore(context.Background(), TypeSQLite, dsn)
	if err != nil {
		t.Fatalf("NewSQLStore failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// storeFactories builds one fresh Store per implementation.
func storeFactories() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"file": func(t *testing.T) Store {
			s := NewFileStore(filepath.Join(t.TempDir(), "state", "tokens.db"))
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
		"sqlite": func(t *testing.T) Store { return newTestSQLStore(t) },
	}
}

var testEpoch = time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)

func mustToken(t *testing.T, value, path string, offset time.Duration) model.Honeytoken {
	t.Helper()
	tok, err := model.NewHoneytoken(value, path, testEpoch.Add(offset))
	if err != nil {
		t.Fatalf("NewHoneytoken: %v", err)
	}
	return tok
}

func sameToken(a, b model.Honeytoken) bool {
	if a.ID != b.ID || a.Value != b.Value || a.FilePath != b.FilePath || a.IsTriggered != b.IsTriggered {
		return false
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return false
	}
	if (a.LastChecked == nil) != (b.LastChecked == nil) {
		return false
	}
	return a.LastChecked == nil || a.LastChecked.Equal(*b.LastChecked)
}
