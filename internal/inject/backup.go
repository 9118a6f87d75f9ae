// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package inject

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/toeirei/redtoken/internal/model"
)

// backupTimeLayout prefixes backup file names.
const backupTimeLayout = "20060102_150405"

// backup writes data, the unmodified content of path, into the backup
// directory. It is a no-op when backups are disabled.
func (s *Service) backup(path string, data []byte) error {
	if !s.cfg.BackupEnabled {
		return nil
	}
	dir := s.cfg.BackupDir
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return model.FileWriteError(dir, err)
	}

	payload := data
	ext := ""
	if s.cfg.BackupCompress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return model.FileWriteError(dir, err)
		}
		payload = enc.EncodeAll(data, make([]byte, 0, len(data)/2+64))
		_ = enc.Close()
		ext = ".zst"
	}

	base := s.cfg.Now().Format(backupTimeLayout) + "_" + filepath.Base(path)
	for i := 0; i < 100; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s_%d", base, i)
		}
		target := filepath.Join(dir, name+ext)
		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			if errors.Is(err, fs.ErrExist) {
				continue
			}
			return model.FileWriteError(target, err)
		}
		if _, err := f.Write(payload); err != nil {
			_ = f.Close()
			_ = os.Remove(target)
			return model.FileWriteError(target, err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(target)
			return model.FileWriteError(target, err)
		}
		s.log.Debug("backup written", "source", path, "backup", target)
		return nil
	}
	return model.FileWriteError(filepath.Join(dir, base+ext), fs.ErrExist)
}

// RestoreBackup decodes a backup written by the injector, decompressing
// .zst files.
func RestoreBackup(backupPath string) ([]byte, error) {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return nil, model.FileReadError(backupPath, err)
	}
	if filepath.Ext(backupPath) != ".zst" {
		return data, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, model.FileReadError(backupPath, err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, model.InvalidFormat("corrupt backup "+backupPath, err)
	}
	return out, nil
}

// RestoreFile writes the content of backupPath over target, keeping the
// target's mode when it exists.
func RestoreFile(backupPath, target string) error {
	data, err := RestoreBackup(backupPath)
	if err != nil {
		return err
	}
	var mode fs.FileMode
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}
	return writeTarget(target, data, mode)
}
