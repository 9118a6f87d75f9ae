// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"

	"github.com/toeirei/redtoken/internal/model"
)

// Supported storage types.
const (
	TypeMemory   = "memory"
	TypeFile     = "file"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeMySQL    = "mysql"
)

// New returns the Store for storeType. location is the JSON file path for
// "file" and the DSN for the SQL types; it is ignored for "memory".
func New(ctx context.Context, storeType, location string) (Store, error) {
	switch storeType {
	case TypeMemory:
		return NewMemoryStore(), nil
	case TypeFile, "":
		if location == "" {
			return nil, model.ConfigError("file storage requires db_path", nil)
		}
		return NewFileStore(location), nil
	case TypeSQLite, TypePostgres, TypeMySQL:
		if location == "" {
			return nil, model.ConfigError(fmt.Sprintf("%s storage requires db_path (DSN)", storeType), nil)
		}
		return NewSQLStore(ctx, storeType, location)
	default:
		return nil, model.ConfigError(fmt.Sprintf("unsupported storage type %q", storeType), nil)
	}
}
