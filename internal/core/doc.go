// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package core holds the lifecycle service. It is the only component that
// talks to the store, the file injector and the notifier; those three never
// call each other. UIs (CLI and HTTP) drive everything through Service.
package core
