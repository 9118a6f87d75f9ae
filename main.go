// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Redtoken.
//
// Usage:
//
//	go run . [flags]
//	./redtoken [flags]
//
// This launches the Redtoken CLI. See --help for options.
package main

import (
	"os"

	"github.com/toeirei/redtoken/internal/logging"
	"github.com/toeirei/redtoken/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Debugf("redtoken: %v", err)
		os.Exit(1)
	}
}
