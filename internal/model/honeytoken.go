// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model contains the entities shared by every redtoken component:
// the Honeytoken record, the file-kind tag used by the injector, the
// notification channel description and the error taxonomy.
package model

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Honeytoken is a synthetic secret planted in a file. Any later presentation
// of Value is treated as evidence of unauthorized access.
type Honeytoken struct {
	ID          string     `json:"id"`
	Value       string     `json:"value"`
	FilePath    string     `json:"file_path"`
	CreatedAt   time.Time  `json:"created_at"`
	LastChecked *time.Time `json:"last_checked"`
	IsTriggered bool       `json:"is_triggered"`
}

// NewHoneytoken builds an untriggered token with a fresh random id.
func NewHoneytoken(value, filePath string, now time.Time) (Honeytoken, error) {
	if err := ValidateValue(value); err != nil {
		return Honeytoken{}, err
	}
	if strings.TrimSpace(filePath) == "" {
		return Honeytoken{}, ValidationError("file path must not be empty")
	}
	return Honeytoken{
		ID:        uuid.NewString(),
		Value:     value,
		FilePath:  filePath,
		CreatedAt: now.UTC(),
	}, nil
}

// ValidateValue rejects values that cannot be embedded as a single line.
func ValidateValue(value string) error {
	if value == "" {
		return ValidationError("token value must not be empty")
	}
	if strings.ContainsAny(value, "\r\n") {
		return ValidationError("token value must not contain line breaks")
	}
	return nil
}

// MarkTriggered flips the token into the triggered state. It reports false
// and leaves the token untouched when it was already triggered.
func (t *Honeytoken) MarkTriggered(now time.Time) bool {
	if t.IsTriggered {
		return false
	}
	ts := now.UTC()
	t.IsTriggered = true
	t.LastChecked = &ts
	return true
}

// Fingerprint returns a short, non-reversible identifier of the value that is
// safe to write to logs.
func (t Honeytoken) Fingerprint() string {
	sum := blake2b.Sum256([]byte(t.Value))
	return hex.EncodeToString(sum[:6])
}

// Status is the lifecycle state shown to operators.
func (t Honeytoken) Status() string {
	if t.IsTriggered {
		return "triggered"
	}
	return "active"
}

// IsValidID reports whether id has the shape of a token id.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
