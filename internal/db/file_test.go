// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/toeirei/redtoken/internal/model"
)

func TestFileStore_RoundTripAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.db")

	first := NewFileStore(path)
	var want []model.Honeytoken
	for i := 0; i < 5; i++ {
		tok := mustToken(t, fmt.Sprintf("RT_rt_%d", i), fmt.Sprintf("/etc/app%d.env", i), time.Duration(i)*time.Minute)
		if i%2 == 0 {
			tok.MarkTriggered(testEpoch.Add(time.Hour))
		}
		if err := first.Save(ctx, tok); err != nil {
			t.Fatalf("Save: %v", err)
		}
		want = append(want, tok)
	}
	_ = first.Close()

	second := NewFileStore(path)
	defer second.Close()
	got, err := second.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("reloaded %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if !sameToken(got[i], want[i]) {
			t.Fatalf("record %d differs after reload:\n got  %+v\n want %+v", i, got[i], want[i])
		}
	}
}

func TestFileStore_PersistedFormat(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.db")
	s := NewFileStore(path)
	defer s.Close()
	if err := s.Save(ctx, mustToken(t, "RT_fmt", "cfg.yaml", 0)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("persisted file is not a JSON array: %v\n%s", err, data)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	for _, key := range []string{"id", "value", "file_path", "created_at", "last_checked", "is_triggered"} {
		if _, ok := records[0][key]; !ok {
			t.Fatalf("record missing %q: %v", key, records[0])
		}
	}
	if records[0]["last_checked"] != nil {
		t.Fatalf("untriggered token should persist last_checked as null, got %v", records[0]["last_checked"])
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("store file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestFileStore_CorruptFileIsDatabaseError(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.db")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := NewFileStore(path)
	defer s.Close()

	if _, err := s.FindAll(ctx); !errors.Is(err, model.ErrDatabase) {
		t.Fatalf("FindAll on corrupt file: expected database error, got %v", err)
	}
	err := s.Save(ctx, mustToken(t, "RT_x", "a.env", 0))
	if !errors.Is(err, model.ErrDatabase) {
		t.Fatalf("Save on corrupt file: expected database error, got %v", err)
	}
	// The corrupt file must not have been overwritten.
	data, _ := os.ReadFile(path)
	if string(data) != "{not json" {
		t.Fatalf("corrupt store was rewritten: %q", data)
	}
}

func TestFileStore_EmptyOrMissingFileIsEmptyStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	missing := NewFileStore(filepath.Join(dir, "nested", "none.db"))
	if all, err := missing.FindAll(ctx); err != nil || len(all) != 0 {
		t.Fatalf("missing file: got %v, %v", all, err)
	}

	emptyPath := filepath.Join(dir, "empty.db")
	if err := os.WriteFile(emptyPath, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	empty := NewFileStore(emptyPath)
	defer empty.Close()
	if all, err := empty.FindAll(ctx); err != nil || len(all) != 0 {
		t.Fatalf("empty file: got %v, %v", all, err)
	}
}

func TestFileStore_UnwritableDirectoryIsWriteError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	ctx := context.Background()
	dir := t.TempDir()
	ro := filepath.Join(dir, "ro")
	if err := os.Mkdir(ro, 0o500); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	s := NewFileStore(filepath.Join(ro, "tokens.db"))
	err := s.Save(ctx, mustToken(t, "RT_ro", "a.env", 0))
	if !errors.Is(err, model.ErrFileWrite) {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestFileStore_NoTempFilesLeftBehind(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "tokens.db"))
	defer s.Close()
	for i := 0; i < 3; i++ {
		if err := s.Save(ctx, mustToken(t, fmt.Sprintf("RT_tmp_%d", i), "a.env", 0)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temporary file left behind: %s", e.Name())
		}
	}
}
