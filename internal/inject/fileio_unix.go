// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build unix

package inject

import (
	"io/fs"
	"os"
	"syscall"
)

// chownLike gives f the owner of orig. Failure is ignored: an unprivileged
// process can only write files it may already own.
func chownLike(f *os.File, orig fs.FileInfo) {
	st, ok := orig.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	_ = f.Chown(int(st.Uid), int(st.Gid))
}
