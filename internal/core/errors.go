// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import "fmt"

// Removal legs.
const (
	LegFile  = "file"
	LegStore = "store"
)

// RemovalError reports which leg of a removal failed and the state left
// behind.
//
// LegFile: the file was not scrubbed and the record is still stored.
// LegStore: the file was scrubbed but the record could not be deleted.
type RemovalError struct {
	Leg     string
	TokenID string
	Path    string
	Err     error
}

func (e *RemovalError) Error() string {
	switch e.Leg {
	case LegFile:
		return fmt.Sprintf("remove token %s: scrubbing %s failed, record kept: %v", e.TokenID, e.Path, e.Err)
	case LegStore:
		return fmt.Sprintf("remove token %s: %s scrubbed but record not deleted: %v", e.TokenID, e.Path, e.Err)
	default:
		return fmt.Sprintf("remove token %s: %v", e.TokenID, e.Err)
	}
}

func (e *RemovalError) Unwrap() error { return e.Err }

// UntrackedError reports a token that was written into a file but could not
// be recorded in the store.
type UntrackedError struct {
	Path  string
	Value string
	Err   error
}

func (e *UntrackedError) Error() string {
	return fmt.Sprintf("token injected into %s but not recorded: %v", e.Path, e.Err)
}

func (e *UntrackedError) Unwrap() error { return e.Err }
