// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenBun_PoolSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("memory pinned to one connection", func(t *testing.T) {
		t.Setenv("REDTOKEN_DB_MAX_OPEN_CONNS", "")
		b, err := openBun(ctx, TypeSQLite, "file:pool_mem?mode=memory&cache=shared")
		if err != nil {
			t.Fatalf("openBun: %v", err)
		}
		defer b.Close()
		if got := b.DB.Stats().MaxOpenConnections; got != 1 {
			t.Fatalf("MaxOpenConnections = %d; want 1", got)
		}
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("REDTOKEN_DB_MAX_OPEN_CONNS", "3")
		b, err := openBun(ctx, TypeSQLite, filepath.Join(t.TempDir(), "pool.sqlite"))
		if err != nil {
			t.Fatalf("openBun: %v", err)
		}
		defer b.Close()
		if got := b.DB.Stats().MaxOpenConnections; got != 3 {
			t.Fatalf("MaxOpenConnections = %d; want 3", got)
		}
	})
}

func TestEnvInt(t *testing.T) {
	t.Setenv("REDTOKEN_TEST_INT", "-4")
	if got := envInt("REDTOKEN_TEST_INT", 7); got != 7 {
		t.Fatalf("negative value should fall back, got %d", got)
	}
	t.Setenv("REDTOKEN_TEST_INT", "x")
	if got := envInt("REDTOKEN_TEST_INT", 7); got != 7 {
		t.Fatalf("garbage should fall back, got %d", got)
	}
	t.Setenv("REDTOKEN_TEST_INT", "12")
	if got := envInt("REDTOKEN_TEST_INT", 7); got != 12 {
		t.Fatalf("got %d, want 12", got)
	}
}
