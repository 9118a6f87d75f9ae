// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gofrs/flock"
	"github.com/toeirei/redtoken/internal/model"
)

// FileStore persists tokens as a JSON array in a single file.
//
// The whole collection is the unit of read and write. mu serializes callers
// inside this process and lock serializes processes sharing the file, so a
// read-modify-write cycle always sees the result of the previous one.
type FileStore struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// NewFileStore returns a store backed by path. The file and its parent
// directory are created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Save(_ context.Context, token model.Honeytoken) error {
	return s.mutate(func(tokens map[string]model.Honeytoken) error {
		if err := checkUnique(tokens, token); err != nil {
			return err
		}
		tokens[token.ID] = clone(token)
		return nil
	})
}

func (s *FileStore) FindByID(_ context.Context, id string) (*model.Honeytoken, error) {
	var found *model.Honeytoken
	err := s.view(func(tokens map[string]model.Honeytoken) {
		if t, ok := tokens[id]; ok {
			found = &t
		}
	})
	return found, err
}

func (s *FileStore) FindByValue(_ context.Context, value string) (*model.Honeytoken, error) {
	var found *model.Honeytoken
	err := s.view(func(tokens map[string]model.Honeytoken) {
		for _, t := range tokens {
			if t.Value == value {
				found = &t
				return
			}
		}
	})
	return found, err
}

func (s *FileStore) FindAll(_ context.Context) ([]model.Honeytoken, error) {
	var out []model.Honeytoken
	err := s.view(func(tokens map[string]model.Honeytoken) {
		out = make([]model.Honeytoken, 0, len(tokens))
		for _, t := range tokens {
			out = append(out, t)
		}
	})
	if err != nil {
		return nil, err
	}
	sortTokens(out)
	return out, nil
}

func (s *FileStore) Update(ctx context.Context, token model.Honeytoken) error {
	return s.Save(ctx, token)
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	return s.mutate(func(tokens map[string]model.Honeytoken) error {
		if _, ok := tokens[id]; !ok {
			return model.NotFound(id)
		}
		delete(tokens, id)
		return nil
	})
}

// Close releases the advisory lock file handle.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lock.Close()
}

// mutate runs fn on the decoded collection and writes the result back, all
// under the store's exclusive lock. Nothing is written when fn fails.
func (s *FileStore) mutate(fn func(map[string]model.Honeytoken) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return model.FileWriteError(dir, err)
	}
	if err := s.lock.Lock(); err != nil {
		return model.FileWriteError(s.lock.Path(), err)
	}
	defer func() { _ = s.lock.Unlock() }()

	tokens, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(tokens); err != nil {
		return err
	}
	return s.write(tokens)
}

// view runs fn on the decoded collection under a shared lock.
func (s *FileStore) view(fn func(map[string]model.Honeytoken)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(filepath.Dir(s.path)); errors.Is(err, fs.ErrNotExist) {
		fn(map[string]model.Honeytoken{})
		return nil
	}
	if err := s.lock.RLock(); err != nil {
		return model.FileReadError(s.lock.Path(), err)
	}
	defer func() { _ = s.lock.Unlock() }()

	tokens, err := s.read()
	if err != nil {
		return err
	}
	fn(tokens)
	return nil
}

func (s *FileStore) read() (map[string]model.Honeytoken, error) {
	tokens := make(map[string]model.Honeytoken)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tokens, nil
		}
		return nil, model.FileReadError(s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return tokens, nil
	}
	var list []model.Honeytoken
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, model.DatabaseError("failed to parse database "+s.path, err)
	}
	for _, t := range list {
		tokens[t.ID] = t
	}
	return tokens, nil
}

// write replaces the backing file atomically: the encoded collection goes to
// a temporary file in the same directory which is then renamed over path.
func (s *FileStore) write(tokens map[string]model.Honeytoken) error {
	list := make([]model.Honeytoken, 0, len(tokens))
	for _, t := range tokens {
		list = append(list, t)
	}
	sortTokens(list)
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return model.DatabaseError("failed to serialize database", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return model.FileWriteError(s.path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return model.FileWriteError(s.path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return model.FileWriteError(s.path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return model.FileWriteError(s.path, err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		cleanup()
		return model.FileWriteError(s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return model.FileWriteError(s.path, err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
