// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"runtime/debug"
	"testing"

	"github.com/toeirei/redtoken/buildvars"
)

func TestResolveBuildVersion_MainVersion(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: modulePath, Version: "v1.2.3"},
	}
	v, c, _ := resolveBuildVersion(info)
	if v != "v1.2.3" {
		t.Fatalf("expected v1.2.3 got %s", v)
	}
	if c != buildvars.CommitOrDefault("dev") {
		t.Fatalf("unexpected commit %s", c)
	}
}

func TestResolveBuildVersion_DependencyFallback(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: modulePath, Version: "(devel)"},
		Deps: []*debug.Module{
			{Path: modulePath, Version: "v0.3.1-0.20261001120000-abcdef012345"},
		},
	}
	v, _, _ := resolveBuildVersion(info)
	if v != "v0.3.1-0.20261001120000-abcdef012345" {
		t.Fatalf("expected dependency version fallback got %s", v)
	}
}

func TestResolveBuildVersion_VCSSettings(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: modulePath, Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		},
	}
	v, c, d := resolveBuildVersion(info)
	if v != "deadbeef" || c != "deadbeef" || d != "2026-10-01T12:00:00Z" {
		t.Fatalf("unexpected version info %q %q %q", v, c, d)
	}
}

func TestResolveBuildVersion_LinkerVarsWin(t *testing.T) {
	origV, origC := buildvars.Version, buildvars.GitCommit
	defer func() { buildvars.Version, buildvars.GitCommit = origV, origC }()
	buildvars.Version, buildvars.GitCommit = "1.0.0", "cafe"

	info := &debug.BuildInfo{
		Main:     debug.Module{Path: modulePath, Version: "v9.9.9"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "deadbeef"}},
	}
	v, c, _ := resolveBuildVersion(info)
	if v != "1.0.0" || c != "cafe" {
		t.Fatalf("linker values should win, got %q %q", v, c)
	}
}
