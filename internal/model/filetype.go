// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"path/filepath"
	"strings"
)

// FileKind is the closed set of embedding strategies.
type FileKind int

const (
	// FileKindAuto defers the choice to DetectFileType at injection time.
	FileKindAuto FileKind = iota
	FileKindEnv
	FileKindJSON
	FileKindYAML
	FileKindBashHistory
	FileKindCustom
)

// FileType tags a target file. Name is only meaningful for FileKindCustom.
type FileType struct {
	Kind FileKind
	Name string
}

var (
	FileTypeAuto        = FileType{Kind: FileKindAuto}
	FileTypeEnv         = FileType{Kind: FileKindEnv}
	FileTypeJSON        = FileType{Kind: FileKindJSON}
	FileTypeYAML        = FileType{Kind: FileKindYAML}
	FileTypeBashHistory = FileType{Kind: FileKindBashHistory}
)

// CustomFileType returns a custom kind with the given name.
func CustomFileType(name string) FileType {
	if name == "" {
		name = "generic"
	}
	return FileType{Kind: FileKindCustom, Name: name}
}

func (f FileType) String() string {
	switch f.Kind {
	case FileKindAuto:
		return "auto"
	case FileKindEnv:
		return "env"
	case FileKindJSON:
		return "json"
	case FileKindYAML:
		return "yaml"
	case FileKindBashHistory:
		return "bash"
	case FileKindCustom:
		return "custom:" + f.Name
	}
	return "unknown"
}

// ParseFileType accepts the names used on the command line and in config:
// auto, env, json, yaml|yml, bash|history, custom[:name]. Any other
// non-empty value is taken as the name of a custom kind.
func ParseFileType(s string) FileType {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "auto":
		return FileTypeAuto
	case "env", "dotenv":
		return FileTypeEnv
	case "json":
		return FileTypeJSON
	case "yaml", "yml":
		return FileTypeYAML
	case "bash", "history", "bash_history":
		return FileTypeBashHistory
	case "custom":
		return CustomFileType("")
	}
	if name, ok := strings.CutPrefix(s, "custom:"); ok {
		return CustomFileType(name)
	}
	return CustomFileType(s)
}

// DetectFileType picks a kind from the file name.
func DetectFileType(path string) FileType {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case base == ".env" || strings.HasPrefix(base, ".env.") || strings.HasSuffix(base, ".env"):
		return FileTypeEnv
	case strings.HasSuffix(base, ".json"):
		return FileTypeJSON
	case strings.HasSuffix(base, ".yaml") || strings.HasSuffix(base, ".yml"):
		return FileTypeYAML
	case base == ".bash_history" || base == ".zsh_history" || strings.HasSuffix(base, ".history"):
		return FileTypeBashHistory
	}
	return CustomFileType("generic")
}
