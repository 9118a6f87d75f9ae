// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks that every message id passed to i18n.T exists in the
// English locale and that every other locale carries the same ids.
//
//	go run ./tools/i18n-linter
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
)

// Location is where an id was used.
type Location struct {
	Path string
	Line int
}

// Report is the result of one lint run.
type Report struct {
	// Undefined ids are used in code but missing from the primary locale.
	Undefined map[string][]Location
	// Orphaned ids are defined in the primary locale but never used.
	Orphaned []string
	// Missing maps a secondary locale file to the ids it lacks.
	Missing map[string][]string
}

// Failed reports whether the run found errors. Orphans are warnings.
func (r Report) Failed() bool {
	return len(r.Undefined) > 0 || len(r.Missing) > 0
}

var callRe = regexp.MustCompile(`i18n\.T\("([^"]+)"`)

func main() {
	r, err := lint(".", localesDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "i18n-linter: %v\n", err)
		os.Exit(2)
	}
	printReport(os.Stdout, r)
	if r.Failed() {
		os.Exit(1)
	}
}

func lint(root, locales string) (Report, error) {
	r := Report{Undefined: map[string][]Location{}, Missing: map[string][]string{}}

	used, err := findUsedIDs(root)
	if err != nil {
		return r, err
	}
	primary, err := loadIDs(filepath.Join(locales, primaryLocale))
	if err != nil {
		return r, err
	}

	for id, locs := range used {
		if _, ok := primary[id]; !ok {
			r.Undefined[id] = locs
		}
	}
	for id := range primary {
		if _, ok := used[id]; !ok {
			r.Orphaned = append(r.Orphaned, id)
		}
	}
	sort.Strings(r.Orphaned)

	files, err := filepath.Glob(filepath.Join(locales, "*.yaml"))
	if err != nil {
		return r, err
	}
	for _, file := range files {
		if filepath.Base(file) == primaryLocale {
			continue
		}
		ids, err := loadIDs(file)
		if err != nil {
			return r, err
		}
		var missing []string
		for id := range primary {
			if _, ok := ids[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			r.Missing[filepath.Base(file)] = missing
		}
	}
	return r, nil
}

// findUsedIDs scans non-test Go files below root for i18n.T calls with a
// literal id.
func findUsedIDs(root string) (map[string][]Location, error) {
	used := map[string][]Location{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "tools" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for i, line := range strings.Split(string(content), "\n") {
			for _, m := range callRe.FindAllStringSubmatch(line, -1) {
				used[m[1]] = append(used[m[1]], Location{Path: path, Line: i + 1})
			}
		}
		return nil
	})
	return used, err
}

// loadIDs returns the message ids of a locale file. Nested maps are
// flattened with dots, the way go-i18n reads them.
func loadIDs(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ids := map[string]struct{}{}
	flatten("", data, ids)
	return ids, nil
}

func flatten(prefix string, node any, ids map[string]struct{}) {
	m, ok := node.(map[string]any)
	if !ok {
		if prefix != "" {
			ids[prefix] = struct{}{}
		}
		return
	}
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		flatten(key, v, ids)
	}
}

func printReport(w io.Writer, r Report) {
	undefined := make([]string, 0, len(r.Undefined))
	for id := range r.Undefined {
		undefined = append(undefined, id)
	}
	sort.Strings(undefined)
	for _, id := range undefined {
		loc := r.Undefined[id][0]
		fmt.Fprintf(w, "undefined: %s (%s:%d)\n", id, loc.Path, loc.Line)
	}

	files := make([]string, 0, len(r.Missing))
	for f := range r.Missing {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		for _, id := range r.Missing[f] {
			fmt.Fprintf(w, "missing in %s: %s\n", f, id)
		}
	}
	for _, id := range r.Orphaned {
		fmt.Fprintf(w, "orphaned: %s\n", id)
	}
	if !r.Failed() {
		fmt.Fprintln(w, "translations are consistent")
	}
}
