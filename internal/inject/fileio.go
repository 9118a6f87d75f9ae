// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package inject

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/toeirei/redtoken/internal/model"
)

// defaultFileMode applies to files the injector creates.
const defaultFileMode fs.FileMode = 0o600

// readTarget reads path and returns its content and permission bits.
func readTarget(path string) ([]byte, fs.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, model.FileReadError(path, err)
	}
	if info.IsDir() {
		return nil, 0, model.FileReadError(path, &fs.PathError{Op: "read", Path: path, Err: fs.ErrInvalid})
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, model.FileReadError(path, err)
	}
	return data, info.Mode().Perm(), nil
}

// writeTarget replaces path with data. The content is written to a temporary
// file next to path and renamed into place, so readers never observe a
// partially written target. A zero mode means the file is new.
func writeTarget(path string, data []byte, mode fs.FileMode) error {
	var orig fs.FileInfo
	if mode == 0 {
		mode = defaultFileMode
	} else if info, err := os.Stat(path); err == nil {
		orig = info
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".redtoken.*")
	if err != nil {
		return model.FileWriteError(path, err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return model.FileWriteError(path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return fail(err)
	}
	if orig != nil {
		chownLike(tmp, orig)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return model.FileWriteError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return model.FileWriteError(path, err)
	}
	return nil
}
