// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/toeirei/redtoken/internal/model"
	"github.com/uptrace/bun"
)

// HoneytokenModel maps the honeytokens table for Bun queries.
type HoneytokenModel struct {
	bun.BaseModel `bun:"table:honeytokens"`
	ID            string     `bun:"id,pk"`
	Value         string     `bun:"value"`
	FilePath      string     `bun:"file_path"`
	CreatedAt     time.Time  `bun:"created_at"`
	LastChecked   *time.Time `bun:"last_checked"`
	IsTriggered   bool       `bun:"is_triggered"`
}

func toModel(m HoneytokenModel) model.Honeytoken {
	t := model.Honeytoken{
		ID:          m.ID,
		Value:       m.Value,
		FilePath:    m.FilePath,
		CreatedAt:   m.CreatedAt.UTC(),
		IsTriggered: m.IsTriggered,
	}
	if m.LastChecked != nil {
		ts := m.LastChecked.UTC()
		t.LastChecked = &ts
	}
	return t
}

func fromModel(t model.Honeytoken) *HoneytokenModel {
	m := &HoneytokenModel{
		ID:          t.ID,
		Value:       t.Value,
		FilePath:    t.FilePath,
		CreatedAt:   t.CreatedAt.UTC(),
		IsTriggered: t.IsTriggered,
	}
	if t.LastChecked != nil {
		ts := t.LastChecked.UTC()
		m.LastChecked = &ts
	}
	return m
}

// SQLStore is the Bun-backed Store for sqlite, postgres and mysql.
// Atomicity comes from the database; each mutation is one transaction.
type SQLStore struct {
	dbType string
	bun    *bun.DB
}

// NewSQLStore opens dsn, runs migrations and returns the store.
func NewSQLStore(ctx context.Context, dbType, dsn string) (*SQLStore, error) {
	b, err := openBun(ctx, dbType, dsn)
	if err != nil {
		return nil, model.DatabaseError("open "+dbType, err)
	}
	return &SQLStore{dbType: dbType, bun: b}, nil
}

// Bun exposes the underlying handle for maintenance and tests.
func (s *SQLStore) Bun() *bun.DB { return s.bun }

func (s *SQLStore) Save(ctx context.Context, token model.Honeytoken) error {
	if err := model.ValidateValue(token.Value); err != nil {
		return err
	}
	err := s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*HoneytokenModel)(nil)).Where("id = ?", token.ID).Exists(ctx)
		if err != nil {
			return err
		}
		m := fromModel(token)
		if exists {
			_, err = tx.NewUpdate().Model(m).WherePK().Exec(ctx)
		} else {
			_, err = tx.NewInsert().Model(m).Exec(ctx)
		}
		return err
	})
	return storeError("save token", err)
}

func (s *SQLStore) FindByID(ctx context.Context, id string) (*model.Honeytoken, error) {
	var m HoneytokenModel
	err := s.bun.NewSelect().Model(&m).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("find token by id", err)
	}
	t := toModel(m)
	return &t, nil
}

func (s *SQLStore) FindByValue(ctx context.Context, value string) (*model.Honeytoken, error) {
	var rows []HoneytokenModel
	if err := s.bun.NewSelect().Model(&rows).Where("value = ?", value).Scan(ctx); err != nil {
		return nil, storeError("find token by value", err)
	}
	// Collations differ between engines; the match must be exact.
	for _, m := range rows {
		if m.Value == value {
			t := toModel(m)
			return &t, nil
		}
	}
	return nil, nil
}

func (s *SQLStore) FindAll(ctx context.Context) ([]model.Honeytoken, error) {
	var rows []HoneytokenModel
	if err := s.bun.NewSelect().Model(&rows).Order("created_at ASC", "id ASC").Scan(ctx); err != nil {
		return nil, storeError("list tokens", err)
	}
	out := make([]model.Honeytoken, 0, len(rows))
	for _, m := range rows {
		out = append(out, toModel(m))
	}
	return out, nil
}

func (s *SQLStore) Update(ctx context.Context, token model.Honeytoken) error {
	return s.Save(ctx, token)
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.bun.NewDelete().Model((*HoneytokenModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return storeError("delete token", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.NotFound(id)
	}
	return nil
}

// Count returns the number of stored tokens.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := QueryRawInto(ctx, s.bun, &n, "SELECT COUNT(*) FROM honeytokens"); err != nil {
		return 0, storeError("count tokens", err)
	}
	return n, nil
}

func (s *SQLStore) Close() error {
	return s.bun.Close()
}

var _ Store = (*SQLStore)(nil)
