// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Command redtoken plants honeytokens in files and alerts when they are used.
package main

import (
	"os"

	"github.com/toeirei/redtoken/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Cobra already printed the error.
		os.Exit(1)
	}
}
