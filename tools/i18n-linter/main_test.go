// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLint(t *testing.T) {
	root := t.TempDir()
	locales := filepath.Join(root, "locales")
	write(t, filepath.Join(root, "cmd", "a.go"), `package cmd
func f() { _ = i18n.T("list.empty"); _ = i18n.T("check.done", 1) }
func g() { _ = i18n.T("not.defined") }
`)
	write(t, filepath.Join(root, "cmd", "a_test.go"), `package cmd
func h() { _ = i18n.T("only.in.tests") }
`)
	write(t, filepath.Join(root, "tools", "x.go"), `package x
func h() { _ = i18n.T("tool.message") }
`)
	write(t, filepath.Join(locales, "en.yaml"), "list.empty: none\ncheck.done: ok\nunused.id: x\n")
	write(t, filepath.Join(locales, "de.yaml"), "list.empty: keine\n")

	r, err := lint(root, locales)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Undefined) != 1 || r.Undefined["not.defined"] == nil {
		t.Fatalf("undefined = %v", r.Undefined)
	}
	if loc := r.Undefined["not.defined"][0]; loc.Line != 3 {
		t.Fatalf("unexpected location %+v", loc)
	}
	if strings.Join(r.Orphaned, ",") != "unused.id" {
		t.Fatalf("orphaned = %v", r.Orphaned)
	}
	if strings.Join(r.Missing["de.yaml"], ",") != "check.done,unused.id" {
		t.Fatalf("missing = %v", r.Missing)
	}
	if !r.Failed() {
		t.Fatal("expected failure")
	}

	var out bytes.Buffer
	printReport(&out, r)
	for _, want := range []string{"undefined: not.defined", "missing in de.yaml: check.done", "orphaned: unused.id"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestLoadIDsFlattensNestedMaps(t *testing.T) {
	p := filepath.Join(t.TempDir(), "en.yaml")
	write(t, p, "list:\n  header:\n    id: ID\nflat.key: v\n")
	ids, err := loadIDs(p)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"list.header.id", "flat.key"} {
		if _, ok := ids[id]; !ok {
			t.Errorf("missing %s in %v", id, ids)
		}
	}
}

// The repository's own translations must be complete.
func TestRepositoryLocales(t *testing.T) {
	root := filepath.Join("..", "..")
	r, err := lint(root, filepath.Join(root, localesDir))
	if err != nil {
		t.Fatal(err)
	}
	if r.Failed() {
		var out bytes.Buffer
		printReport(&out, r)
		t.Fatalf("translations inconsistent:\n%s", out.String())
	}
}
