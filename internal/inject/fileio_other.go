// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build !unix

package inject

import (
	"io/fs"
	"os"
)

func chownLike(*os.File, fs.FileInfo) {}
