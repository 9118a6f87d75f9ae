// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the redtoken command-line interface using Cobra.
// It loads configuration, wires the store, injector and notifier into the
// lifecycle service and keeps the commands thin.
package cli
