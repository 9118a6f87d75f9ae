// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"testing"
)

func TestRunMigrations_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLStore(t)

	if err := RunMigrations(ctx, s.Bun(), TypeSQLite); err != nil {
		t.Fatalf("second RunMigrations: %v", err)
	}
	var n int
	if err := QueryRawInto(ctx, s.Bun(), &n, "SELECT COUNT(*) FROM schema_migrations"); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 1 {
		t.Fatalf("schema_migrations has %d rows, want 1", n)
	}
}

func TestSQLStore_Count(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLStore(t)
	for _, v := range []string{"RT_c1", "RT_c2"} {
		if err := s.Save(ctx, mustToken(t, v, "a.env", 0)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	n, err := s.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Count = %d, %v; want 2", n, err)
	}
}

func TestRunMigrations_UnknownDialect(t *testing.T) {
	s := newTestSQLStore(t)
	if err := RunMigrations(context.Background(), s.Bun(), "oracle"); err == nil {
		t.Fatalf("expected error for unknown dialect")
	}
}

func TestMapDBError(t *testing.T) {
	if MapDBError(nil) != nil {
		t.Fatalf("nil should map to nil")
	}
	err := storeError("save", errString("UNIQUE constraint failed: honeytokens.value"))
	if err == nil || err.Error() != "token validation failed: duplicate token value" {
		t.Fatalf("unexpected mapping: %v", err)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
