// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db contains the Token Store: durable, concurrency-safe CRUD over
// honeytoken records.
//
// Implementations
//   - `MemoryStore` keeps records in a map behind a single mutex. Nothing
//     survives the process; useful for tests and throwaway runs.
//   - `FileStore` persists the whole record collection as one JSON array.
//     Every operation is a full read-decode-mutate-encode-write cycle run
//     inside one critical section (an in-process mutex plus an advisory
//     `flock` on `<path>.lock`), so concurrent saves never lose updates.
//   - `SQLStore` is a Bun-backed store for sqlite, postgres and mysql with
//     embedded per-dialect migrations.
//
// Use `New` to pick an implementation from configuration. Tests that need
// to inject failures use `FakeStore`.
//
// Lookups return (nil, nil) when no record matches; a missing record is a
// state, not an error. `Delete` is the exception: deleting an unknown id
// reports `model.ErrTokenNotFound`.
package db
